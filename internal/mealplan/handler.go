package mealplan

import (
	"errors"
	"time"

	"okulyemek-backend/internal/database"
	"okulyemek-backend/internal/models"
	"okulyemek-backend/internal/planner"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type WeeklySlotInput struct {
	DayOfWeek int                 `json:"day_of_week"` // 1..5 (Pazar..Perşembe)
	Category  models.MealCategory `json:"category"`
	MealID    uint                `json:"meal_id"`
}

type DateAssignmentInput struct {
	MealID   uint   `json:"meal_id"`
	MealDate string `json:"meal_date"` // "2025-10-03" formatında
}

type SavePlanRequest struct {
	SchoolID  uint            `json:"school_id"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	PlanType  models.PlanType `json:"plan_type"`
	IsActive  bool            `json:"is_active"`
	// plan_type=weekly için: gün içi sıra, listedeki geliş sırasıdır
	WeeklySlots []WeeklySlotInput `json:"weekly_slots"`
	// plan_type=monthly için
	DateAssignments []DateAssignmentInput `json:"date_assignments"`
}

type PlanEntryResponse struct {
	MealID      uint                `json:"meal_id"`
	MealName    string              `json:"meal_name"`
	DayOfWeek   *int                `json:"day_of_week,omitempty"`
	MealDate    *string             `json:"meal_date,omitempty"`
	Category    models.MealCategory `json:"category"`
	Price       float64             `json:"price"`
	BasePrice   float64             `json:"base_price"`
	SchoolPrice *float64            `json:"school_price"`
	Order       *int                `json:"order,omitempty"`
}

type PlanResponse struct {
	ID        uint                `json:"id"`
	SchoolID  uint                `json:"school_id"`
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	PlanType  models.PlanType     `json:"plan_type"`
	IsActive  bool                `json:"is_active"`
	Entries   []PlanEntryResponse `json:"entries,omitempty"`
	// Aylık plan kaydedildikten sonra tarih atama adımı önerilir
	NeedsDateAssignment bool `json:"needs_date_assignment,omitempty"`
}

// POST /api/meal-plans
func CreatePlanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SavePlanRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		meta, entries, mealNames, err := buildFromRequest(&body)
		if err != nil {
			return err
		}

		plan := models.MealPlan{
			SchoolID:  meta.SchoolID,
			StartDate: meta.StartDate,
			EndDate:   meta.EndDate,
			PlanType:  body.PlanType,
			IsActive:  meta.IsActive,
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

		return c.Status(fiber.StatusCreated).JSON(PlanResponse{
			ID:                  plan.ID,
			SchoolID:            plan.SchoolID,
			StartDate:           plan.StartDate.Format("2006-01-02"),
			EndDate:             plan.EndDate.Format("2006-01-02"),
			PlanType:            plan.PlanType,
			IsActive:            plan.IsActive,
			Entries:             entryResponses(entries, mealNames),
			NeedsDateAssignment: plan.PlanType == models.PlanTypeMonthly,
		})
	}
}

// PUT /api/meal-plans/:id
// Plan üst bilgisi + satırların tamamı yeniden kurulur
func UpdatePlanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var plan models.MealPlan
		if err := database.DB.First(&plan, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Plan bulunamadı")
		}

		var body SavePlanRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.PlanType != plan.PlanType {
			return fiber.NewError(fiber.StatusBadRequest, "Plan tipi sonradan değiştirilemez")
		}

		meta, entries, mealNames, err := buildFromRequest(&body)
		if err != nil {
			return err
		}

		plan.SchoolID = meta.SchoolID
		plan.StartDate = meta.StartDate
		plan.EndDate = meta.EndDate
		plan.IsActive = meta.IsActive

		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		if err := tx.Save(&plan).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Plan güncellenemedi")
		}
		if err := tx.Where("meal_plan_id = ?", plan.ID).Delete(&models.MealPlanEntry{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Eski plan satırları silinemedi")
		}
		if err := insertEntries(tx, plan.ID, entries); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Plan satırları kaydedilemedi")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Plan kaydedilemedi")
		}

		return c.JSON(PlanResponse{
			ID:        plan.ID,
			SchoolID:  plan.SchoolID,
			StartDate: plan.StartDate.Format("2006-01-02"),
			EndDate:   plan.EndDate.Format("2006-01-02"),
			PlanType:  plan.PlanType,
			IsActive:  plan.IsActive,
			Entries:   entryResponses(entries, mealNames),
		})
	}
}

// GET /api/meal-plans?school_id=3
func ListPlansHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.MealPlan{})
		if schoolID := c.Query("school_id"); schoolID != "" {
			dbq = dbq.Where("school_id = ?", schoolID)
		}

		var plans []models.MealPlan
		if err := dbq.Order("start_date desc").Find(&plans).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Planlar listelenemedi")
		}

		res := make([]PlanResponse, 0, len(plans))
		for _, p := range plans {
			res = append(res, PlanResponse{
				ID:        p.ID,
				SchoolID:  p.SchoolID,
				StartDate: p.StartDate.Format("2006-01-02"),
				EndDate:   p.EndDate.Format("2006-01-02"),
				PlanType:  p.PlanType,
				IsActive:  p.IsActive,
			})
		}
		return c.JSON(res)
	}
}

// GET /api/meal-plans/:id
func GetPlanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var plan models.MealPlan
		if err := database.DB.Preload("Entries.Meal").First(&plan, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Plan bulunamadı")
		}

		entries := make([]PlanEntryResponse, 0, len(plan.Entries))
		for _, e := range plan.Entries {
			var dateStr *string
			if e.MealDate != nil {
				s := e.MealDate.Format("2006-01-02")
				dateStr = &s
			}
			entries = append(entries, PlanEntryResponse{
				MealID:      e.MealID,
				MealName:    e.Meal.Name,
				DayOfWeek:   e.DayOfWeek,
				MealDate:    dateStr,
				Category:    e.Category,
				Price:       e.Price,
				BasePrice:   e.BasePrice,
				SchoolPrice: e.SchoolPrice,
				Order:       e.OrderIndex,
			})
		}

		return c.JSON(PlanResponse{
			ID:        plan.ID,
			SchoolID:  plan.SchoolID,
			StartDate: plan.StartDate.Format("2006-01-02"),
			EndDate:   plan.EndDate.Format("2006-01-02"),
			PlanType:  plan.PlanType,
			IsActive:  plan.IsActive,
			Entries:   entries,
		})
	}
}

// DELETE /api/meal-plans/:id
func DeletePlanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var plan models.MealPlan
		if err := database.DB.First(&plan, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Plan bulunamadı")
		}

		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		if err := tx.Where("meal_plan_id = ?", plan.ID).Delete(&models.MealPlanEntry{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Plan satırları silinemedi")
		}
		if err := tx.Delete(&plan).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Plan silinemedi")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Plan silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

type AssignDatesRequest struct {
	Assignments []DateAssignmentInput `json:"assignments"`
}

// POST /api/meal-plans/:id/date-assignments
// Aylık plan kaydedildikten sonraki takip adımı: tarih atamalarının tamamı
// yeniden kurulur (mevcut satırlar silinir)
func AssignMealsToDatesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var plan models.MealPlan
		if err := database.DB.First(&plan, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Plan bulunamadı")
		}
		if plan.PlanType != models.PlanTypeMonthly {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih ataması sadece aylık planlar için yapılabilir")
		}

		var body AssignDatesRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		assignments := planner.NewMonthlyAssignments()
		for _, a := range body.Assignments {
			date, err := parseDate(a.MealDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı geçersiz, 'YYYY-MM-DD' olmalı: "+a.MealDate)
			}
			assignments.AddDate(date)
			if a.MealID != 0 {
				if err := assignments.SetMeal(date, a.MealID); err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Tarih ataması kurulamadı")
				}
			}
		}

		catalog, overrides, lerr := loadCatalogAndOverrides(plan.SchoolID)
		if lerr != nil {
			return lerr
		}

		meta := planner.PlanMeta{
			SchoolID:  plan.SchoolID,
			StartDate: plan.StartDate,
			EndDate:   plan.EndDate,
			IsActive:  plan.IsActive,
		}
		entries, berr := planner.BuildMonthly(meta, assignments, catalog, overrides)
		if berr != nil {
			return mapBuildError(berr)
		}

		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		if err := tx.Where("meal_plan_id = ?", plan.ID).Delete(&models.MealPlanEntry{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Eski atamalar silinemedi")
		}
		if err := insertEntries(tx, plan.ID, entries); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Atamalar kaydedilemedi")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Atamalar kaydedilemedi")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"count":   len(entries),
		})
	}
}

// -------------------------------------------------
// Yardımcılar
// -------------------------------------------------

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// buildFromRequest: istek gövdesini planner'dan geçirip çözülmüş satırları üretir
// Son dönen map response'ta yemek adlarını doldurmak içindir
func buildFromRequest(body *SavePlanRequest) (planner.PlanMeta, []planner.ResolvedEntry, map[uint]string, error) {
	var meta planner.PlanMeta

	start, err := parseDate(body.StartDate)
	if err != nil {
		return meta, nil, nil, fiber.NewError(fiber.StatusBadRequest, "Başlangıç tarihi geçersiz, 'YYYY-MM-DD' olmalı")
	}
	end, err := parseDate(body.EndDate)
	if err != nil {
		return meta, nil, nil, fiber.NewError(fiber.StatusBadRequest, "Bitiş tarihi geçersiz, 'YYYY-MM-DD' olmalı")
	}

	meta = planner.PlanMeta{
		SchoolID:  body.SchoolID,
		StartDate: start,
		EndDate:   end,
		IsActive:  body.IsActive,
	}

	catalog, overrides, lerr := loadCatalogAndOverrides(body.SchoolID)
	if lerr != nil {
		return meta, nil, nil, lerr
	}

	names := make(map[uint]string, len(catalog))
	for id, m := range catalog {
		names[id] = m.Name
	}

	switch body.PlanType {
	case models.PlanTypeWeekly:
		schedule := planner.NewWeeklySchedule()
		for _, in := range body.WeeklySlots {
			if err := schedule.AddSlot(in.DayOfWeek); err != nil {
				return meta, nil, nil, fiber.NewError(fiber.StatusBadRequest, "Geçersiz gün (1-5 arası olmalı)")
			}
			idx := len(schedule.Slots(in.DayOfWeek)) - 1
			schedule.UpdateSlotCategory(in.DayOfWeek, idx, in.Category)
			schedule.UpdateSlotMeal(in.DayOfWeek, idx, in.MealID)
		}
		entries, berr := planner.BuildWeekly(meta, schedule, catalog, overrides)
		if berr != nil {
			return meta, nil, nil, mapBuildError(berr)
		}
		return meta, entries, names, nil

	case models.PlanTypeMonthly:
		assignments := planner.NewMonthlyAssignments()
		for _, in := range body.DateAssignments {
			date, err := parseDate(in.MealDate)
			if err != nil {
				return meta, nil, nil, fiber.NewError(fiber.StatusBadRequest, "Tarih formatı geçersiz, 'YYYY-MM-DD' olmalı: "+in.MealDate)
			}
			assignments.AddDate(date)
			if in.MealID != 0 {
				assignments.SetMeal(date, in.MealID)
			}
		}
		entries, berr := planner.BuildMonthly(meta, assignments, catalog, overrides)
		if berr != nil {
			return meta, nil, nil, mapBuildError(berr)
		}
		return meta, entries, names, nil
	}

	return meta, nil, nil, fiber.NewError(fiber.StatusBadRequest, "Geçersiz plan tipi (weekly|monthly)")
}

// loadCatalogAndOverrides: builder'ın ihtiyacı olan katalog + okul override'ları
// Katalog pasif yemekleri de içerir, eski planların güncellenmesi bozulmasın diye
func loadCatalogAndOverrides(schoolID uint) (map[uint]models.Meal, []models.SchoolMealOverride, error) {
	var meals []models.Meal
	if err := database.DB.Find(&meals).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Yemekler okunamadı")
	}

	catalog := make(map[uint]models.Meal, len(meals))
	for _, m := range meals {
		catalog[m.ID] = m
	}

	var overrides []models.SchoolMealOverride
	if err := database.DB.Where("school_id = ?", schoolID).Find(&overrides).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Okul fiyatları okunamadı")
	}
	return catalog, overrides, nil
}

// mapBuildError: planner'ın doğrulama hatalarını operatöre 400 olarak yansıt
func mapBuildError(err error) error {
	switch {
	case errors.Is(err, planner.ErrSchoolRequired),
		errors.Is(err, planner.ErrInvalidDateRange),
		errors.Is(err, planner.ErrNoCompleteEntries),
		errors.Is(err, planner.ErrDateOutOfRange),
		errors.Is(err, planner.ErrMealNotInCatalog):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Plan kurulamadı")
}

// insertEntries: çözülmüş satırları plana bağlı kayıtlara çevirir
func insertEntries(tx *gorm.DB, planID uint, entries []planner.ResolvedEntry) error {
	for _, e := range entries {
		row := models.MealPlanEntry{
			MealPlanID:  planID,
			MealID:      e.MealID,
			DayOfWeek:   e.DayOfWeek,
			MealDate:    e.MealDate,
			Category:    e.Category,
			Price:       e.Price,
			BasePrice:   e.BasePrice,
			SchoolPrice: e.SchoolPrice,
			OrderIndex:  e.Order,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// entryResponses: builder çıktısını response DTO'suna çevirir
// mealNames nil olabilir, o zaman isim boş döner (create cevabında yeterli)
func entryResponses(entries []planner.ResolvedEntry, mealNames map[uint]string) []PlanEntryResponse {
	res := make([]PlanEntryResponse, 0, len(entries))
	for _, e := range entries {
		var dateStr *string
		if e.MealDate != nil {
			s := e.MealDate.Format("2006-01-02")
			dateStr = &s
		}
		res = append(res, PlanEntryResponse{
			MealID:      e.MealID,
			MealName:    mealNames[e.MealID],
			DayOfWeek:   e.DayOfWeek,
			MealDate:    dateStr,
			Category:    e.Category,
			Price:       e.Price,
			BasePrice:   e.BasePrice,
			SchoolPrice: e.SchoolPrice,
			Order:       e.Order,
		})
	}
	return res
}
