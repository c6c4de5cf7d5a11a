package planner

import (
	"errors"
	"fmt"
	"time"

	"okulyemek-backend/internal/models"
	"okulyemek-backend/internal/pricing"
)

var (
	ErrSchoolRequired    = errors.New("okul seçilmeden plan oluşturulamaz")
	ErrInvalidDateRange  = errors.New("bitiş tarihi başlangıç tarihinden önce olamaz")
	ErrNoCompleteEntries = errors.New("planda en az bir eksiksiz yemek girişi olmalı")
	ErrDateOutOfRange    = errors.New("yemek tarihi plan aralığının dışında")
	ErrMealNotInCatalog  = errors.New("yemek katalogda bulunamadı")
)

// PlanMeta: planın kimlik dışı üst bilgisi
type PlanMeta struct {
	SchoolID  uint
	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
}

// ResolvedEntry: kalıcı kayda giden, fiyatı çözülmüş plan satırı
// Haftalıkta DayOfWeek+Order, aylıkta MealDate dolu olur
type ResolvedEntry struct {
	MealID      uint
	DayOfWeek   *int
	MealDate    *time.Time
	Category    models.MealCategory
	Price       float64
	BasePrice   float64
	SchoolPrice *float64
	Order       *int
}

// BuildWeekly: haftalık planın tüm günlerini tek satır listesine düzleştirir
// Kategorisi veya yemeği seçilmemiş slotlar hata üretmeden atlanır (yarım
// kalmış düzenlemelerdir), kalan her slot için fiyat okul bazlı çözülür.
// Hiç eksiksiz slot kalmazsa plan geçersizdir.
func BuildWeekly(meta PlanMeta, schedule *WeeklySchedule, catalog map[uint]models.Meal, overrides []models.SchoolMealOverride) ([]ResolvedEntry, error) {
	if err := checkMeta(meta); err != nil {
		return nil, err
	}

	entries := make([]ResolvedEntry, 0)
	for day := MinDay; day <= MaxDay; day++ {
		for _, slot := range schedule.Slots(day) {
			if slot.Category == "" || slot.MealID == 0 {
				continue // yarım kalmış slot, kayda girmez
			}
			meal, ok := catalog[slot.MealID]
			if !ok {
				return nil, fmt.Errorf("%w (meal_id=%d)", ErrMealNotInCatalog, slot.MealID)
			}
			d := day
			order := slot.Order
			entries = append(entries, ResolvedEntry{
				MealID:      meal.ID,
				DayOfWeek:   &d,
				Category:    slot.Category,
				Price:       pricing.Round2(pricing.ResolvePrice(meal, overrides)),
				BasePrice:   meal.BasePrice,
				SchoolPrice: pricing.SchoolPrice(meal.ID, overrides),
				Order:       &order,
			})
		}
	}

	if len(entries) == 0 {
		return nil, ErrNoCompleteEntries
	}
	return entries, nil
}

// BuildMonthly: yemeği seçilmiş tarih atamalarını satır listesine çevirir
// Aylık planda gün içi sıra yoktur, kategori yemeğin kendi kategorisidir.
// Plan aralığı dışındaki tarih hatadır.
func BuildMonthly(meta PlanMeta, assignments *MonthlyAssignments, catalog map[uint]models.Meal, overrides []models.SchoolMealOverride) ([]ResolvedEntry, error) {
	if err := checkMeta(meta); err != nil {
		return nil, err
	}

	completed := assignments.Completed()
	entries := make([]ResolvedEntry, 0, len(completed))
	for _, a := range completed {
		if !withinRange(a.MealDate, meta.StartDate, meta.EndDate) {
			return nil, fmt.Errorf("%w (%s)", ErrDateOutOfRange, a.MealDate.Format("2006-01-02"))
		}
		meal, ok := catalog[a.MealID]
		if !ok {
			return nil, fmt.Errorf("%w (meal_id=%d)", ErrMealNotInCatalog, a.MealID)
		}
		date := a.MealDate
		entries = append(entries, ResolvedEntry{
			MealID:      meal.ID,
			MealDate:    &date,
			Category:    meal.Category,
			Price:       pricing.Round2(pricing.ResolvePrice(meal, overrides)),
			BasePrice:   meal.BasePrice,
			SchoolPrice: pricing.SchoolPrice(meal.ID, overrides),
		})
	}

	if len(entries) == 0 {
		return nil, ErrNoCompleteEntries
	}
	return entries, nil
}

func checkMeta(meta PlanMeta) error {
	if meta.SchoolID == 0 {
		return ErrSchoolRequired
	}
	if meta.EndDate.Before(meta.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

func withinRange(d, start, end time.Time) bool {
	d = truncateDate(d)
	return !d.Before(truncateDate(start)) && !d.After(truncateDate(end))
}
