package mealplan

import (
	"errors"
	"strconv"
	"time"

	"okulyemek-backend/internal/auth"
	"okulyemek-backend/internal/database"
	"okulyemek-backend/internal/models"
	"okulyemek-backend/internal/planner"

	"github.com/gofiber/fiber/v2"
)

type OpenDraftRequest struct {
	SchoolID  uint            `json:"school_id"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	PlanType  models.PlanType `json:"plan_type"`
	IsActive  bool            `json:"is_active"`
}

// DraftOpRequest: tek bir düzenleme operasyonu
// op alanına göre ilgili alanlar okunur, kalanlar yok sayılır
type DraftOpRequest struct {
	Op string `json:"op"`
	// haftalık operasyonlar
	Day         int                 `json:"day"`
	Index       int                 `json:"index"`
	Category    models.MealCategory `json:"category"`
	MealID      uint                `json:"meal_id"`
	SourceDay   int                 `json:"source_day"`
	SourceIndex int                 `json:"source_index"`
	TargetDay   int                 `json:"target_day"`
	TargetIndex int                 `json:"target_index"`
	// aylık operasyonlar
	MealDate string `json:"meal_date"` // "2025-10-03"
}

type DraftSlotResponse struct {
	Category models.MealCategory `json:"category"`
	MealID   uint                `json:"meal_id"`
	Order    int                 `json:"order"`
}

type DraftAssignmentResponse struct {
	MealID   uint   `json:"meal_id"`
	MealDate string `json:"meal_date"`
}

type DraftResponse struct {
	ID        uint64                         `json:"id"`
	SchoolID  uint                           `json:"school_id"`
	StartDate string                         `json:"start_date"`
	EndDate   string                         `json:"end_date"`
	PlanType  models.PlanType                `json:"plan_type"`
	IsActive  bool                           `json:"is_active"`
	Weekly    map[string][]DraftSlotResponse `json:"weekly,omitempty"`
	Monthly   []DraftAssignmentResponse      `json:"monthly,omitempty"`
}

// POST /api/meal-plan-drafts
// Yeni bir plan düzenleme oturumu açar; taslak sadece açan kullanıcıya aittir
func OpenDraftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}

		var body OpenDraftRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.PlanType != models.PlanTypeWeekly && body.PlanType != models.PlanTypeMonthly {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz plan tipi (weekly|monthly)")
		}

		start, perr := parseDate(body.StartDate)
		if perr != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Başlangıç tarihi geçersiz, 'YYYY-MM-DD' olmalı")
		}
		end, perr := parseDate(body.EndDate)
		if perr != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bitiş tarihi geçersiz, 'YYYY-MM-DD' olmalı")
		}
		if end.Before(start) {
			return fiber.NewError(fiber.StatusBadRequest, "Bitiş tarihi başlangıç tarihinden önce olamaz")
		}

		var school models.School
		if err := database.DB.First(&school, "id = ?", body.SchoolID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Okul bulunamadı")
		}

		d := &Draft{
			OwnerID:   userID,
			SchoolID:  body.SchoolID,
			StartDate: start,
			EndDate:   end,
			PlanType:  body.PlanType,
			IsActive:  body.IsActive,
		}
		if body.PlanType == models.PlanTypeWeekly {
			d.Weekly = planner.NewWeeklySchedule()
		} else {
			d.Monthly = planner.NewMonthlyAssignments()
		}

		drafts.create(d)
		return c.Status(fiber.StatusCreated).JSON(draftResponse(d))
	}
}

// GET /api/meal-plan-drafts/:id
func GetDraftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		draftID, err := parseDraftID(c)
		if err != nil {
			return err
		}

		var res DraftResponse
		werr := drafts.withDraft(draftID, userID, func(d *Draft) error {
			res = draftResponse(d)
			return nil
		})
		if werr != nil {
			return mapDraftError(werr)
		}
		return c.JSON(res)
	}
}

// POST /api/meal-plan-drafts/:id/ops
// Tek bir düzenleme operasyonu uygular. Reddedilen operasyon taslağı değiştirmez.
func ApplyDraftOpHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		draftID, err := parseDraftID(c)
		if err != nil {
			return err
		}

		var body DraftOpRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var res DraftResponse
		werr := drafts.withDraft(draftID, userID, func(d *Draft) error {
			if err := applyOp(d, &body); err != nil {
				return err
			}
			res = draftResponse(d)
			return nil
		})
		if werr != nil {
			return mapDraftError(werr)
		}
		return c.JSON(res)
	}
}

// POST /api/meal-plan-drafts/:id/submit
// Taslağı planner'dan geçirip kalıcı plana çevirir, başarılıysa taslak silinir
func SubmitDraftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		draftID, err := parseDraftID(c)
		if err != nil {
			return err
		}

		var plan models.MealPlan
		werr := drafts.withDraft(draftID, userID, func(d *Draft) error {
			catalog, overrides, lerr := loadCatalogAndOverrides(d.SchoolID)
			if lerr != nil {
				return lerr
			}

			meta := planner.PlanMeta{
				SchoolID:  d.SchoolID,
				StartDate: d.StartDate,
				EndDate:   d.EndDate,
				IsActive:  d.IsActive,
			}

			var entries []planner.ResolvedEntry
			var berr error
			if d.PlanType == models.PlanTypeWeekly {
				entries, berr = planner.BuildWeekly(meta, d.Weekly, catalog, overrides)
			} else {
				entries, berr = planner.BuildMonthly(meta, d.Monthly, catalog, overrides)
			}
			if berr != nil {
				return mapBuildError(berr)
			}

			plan = models.MealPlan{
				SchoolID:  d.SchoolID,
				StartDate: d.StartDate,
				EndDate:   d.EndDate,
				PlanType:  d.PlanType,
				IsActive:  d.IsActive,
			}

			tx := database.DB.Begin()
			defer func() {
				if r := recover(); r != nil {
					tx.Rollback()
				}
			}()

			if err := tx.Create(&plan).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Plan oluşturulamadı")
			}
			if err := insertEntries(tx, plan.ID, entries); err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Plan satırları kaydedilemedi")
			}
			if err := tx.Commit().Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Plan kaydedilemedi")
			}
			return nil
		})
		if werr != nil {
			// Kayıt hatasında taslak durur, operatör veri kaybetmeden tekrar deneyebilir
			return mapDraftError(werr)
		}

		drafts.remove(draftID, userID)

		return c.Status(fiber.StatusCreated).JSON(PlanResponse{
			ID:                  plan.ID,
			SchoolID:            plan.SchoolID,
			StartDate:           plan.StartDate.Format("2006-01-02"),
			EndDate:             plan.EndDate.Format("2006-01-02"),
			PlanType:            plan.PlanType,
			IsActive:            plan.IsActive,
			NeedsDateAssignment: plan.PlanType == models.PlanTypeMonthly,
		})
	}
}

// DELETE /api/meal-plan-drafts/:id
func DiscardDraftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		draftID, err := parseDraftID(c)
		if err != nil {
			return err
		}

		if err := drafts.remove(draftID, userID); err != nil {
			return mapDraftError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// applyOp: operasyonu taslağın planner durumuna uygular
func applyOp(d *Draft, op *DraftOpRequest) error {
	switch op.Op {
	case "add_slot":
		return weeklyOnly(d, func() error { return d.Weekly.AddSlot(op.Day) })
	case "remove_slot":
		return weeklyOnly(d, func() error { return d.Weekly.RemoveSlot(op.Day, op.Index) })
	case "update_slot_category":
		return weeklyOnly(d, func() error {
			if !models.ValidCategory(op.Category) {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kategori")
			}
			return d.Weekly.UpdateSlotCategory(op.Day, op.Index, op.Category)
		})
	case "update_slot_meal":
		return weeklyOnly(d, func() error { return d.Weekly.UpdateSlotMeal(op.Day, op.Index, op.MealID) })
	case "move_up":
		return weeklyOnly(d, func() error { return d.Weekly.MoveUp(op.Day, op.Index) })
	case "move_down":
		return weeklyOnly(d, func() error { return d.Weekly.MoveDown(op.Day, op.Index) })
	case "duplicate_next_day":
		return weeklyOnly(d, func() error { return d.Weekly.DuplicateToNextDay(op.Day, op.Index) })
	case "reorder":
		return weeklyOnly(d, func() error {
			return d.Weekly.Reorder(op.SourceDay, op.SourceIndex, op.TargetDay, op.TargetIndex)
		})
	case "clear_day":
		return weeklyOnly(d, func() error { return d.Weekly.ClearDay(op.Day) })
	case "add_date":
		return monthlyOnly(d, op, func(date time.Time) error { d.Monthly.AddDate(date); return nil })
	case "remove_date":
		return monthlyOnly(d, op, func(date time.Time) error { d.Monthly.RemoveDate(date); return nil })
	case "set_meal":
		return monthlyOnly(d, op, func(date time.Time) error { return d.Monthly.SetMeal(date, op.MealID) })
	}
	return fiber.NewError(fiber.StatusBadRequest, "Bilinmeyen operasyon: "+op.Op)
}

func weeklyOnly(d *Draft, fn func() error) error {
	if d.PlanType != models.PlanTypeWeekly {
		return fiber.NewError(fiber.StatusBadRequest, "Bu operasyon sadece haftalık taslaklar için geçerli")
	}
	if err := fn(); err != nil {
		return mapPlannerError(err)
	}
	return nil
}

func monthlyOnly(d *Draft, op *DraftOpRequest, fn func(time.Time) error) error {
	if d.PlanType != models.PlanTypeMonthly {
		return fiber.NewError(fiber.StatusBadRequest, "Bu operasyon sadece aylık taslaklar için geçerli")
	}
	date, err := parseDate(op.MealDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı geçersiz, 'YYYY-MM-DD' olmalı: "+op.MealDate)
	}
	if err := fn(date); err != nil {
		return mapPlannerError(err)
	}
	return nil
}

// mapPlannerError: çekirdek operasyon hatalarını 400'e çevirir
func mapPlannerError(err error) error {
	if _, ok := err.(*fiber.Error); ok {
		return err
	}
	switch {
	case errors.Is(err, planner.ErrInvalidDay),
		errors.Is(err, planner.ErrSlotIndex),
		errors.Is(err, planner.ErrDateNotFound):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Operasyon uygulanamadı")
}

func mapDraftError(err error) error {
	if _, ok := err.(*fiber.Error); ok {
		return err
	}
	switch {
	case errors.Is(err, errDraftNotFound):
		return fiber.NewError(fiber.StatusNotFound, errDraftNotFound.Error())
	case errors.Is(err, errDraftForbidden):
		return fiber.NewError(fiber.StatusForbidden, errDraftForbidden.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Taslak işlenemedi")
}

func currentUserID(c *fiber.Ctx) (uint, error) {
	userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}
	return userID, nil
}

func parseDraftID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz taslak id")
	}
	return id, nil
}

func draftResponse(d *Draft) DraftResponse {
	res := DraftResponse{
		ID:        d.ID,
		SchoolID:  d.SchoolID,
		StartDate: d.StartDate.Format("2006-01-02"),
		EndDate:   d.EndDate.Format("2006-01-02"),
		PlanType:  d.PlanType,
		IsActive:  d.IsActive,
	}

	if d.Weekly != nil {
		res.Weekly = make(map[string][]DraftSlotResponse, planner.MaxDay)
		for day := planner.MinDay; day <= planner.MaxDay; day++ {
			slots := d.Weekly.Slots(day)
			list := make([]DraftSlotResponse, 0, len(slots))
			for _, s := range slots {
				list = append(list, DraftSlotResponse{Category: s.Category, MealID: s.MealID, Order: s.Order})
			}
			res.Weekly[strconv.Itoa(day)] = list
		}
	}

	if d.Monthly != nil {
		entries := d.Monthly.Entries()
		res.Monthly = make([]DraftAssignmentResponse, 0, len(entries))
		for _, e := range entries {
			res.Monthly = append(res.Monthly, DraftAssignmentResponse{
				MealID:   e.MealID,
				MealDate: e.MealDate.Format("2006-01-02"),
			})
		}
	}
	return res
}
