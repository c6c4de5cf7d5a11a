package planner

import (
	"testing"

	"okulyemek-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() map[uint]models.Meal {
	return map[uint]models.Meal{
		1: {ID: 1, Name: "Sebzeli Güveç", Category: models.CategoryHotMeal, BasePrice: 12.00},
		2: {ID: 2, Name: "Ton Balıklı Sandviç", Category: models.CategorySandwich, BasePrice: 8.50},
		7: {ID: 7, Name: "Tavuklu Burger", Category: models.CategoryBurger, BasePrice: 12.00},
	}
}

func testMeta(t *testing.T) PlanMeta {
	return PlanMeta{
		SchoolID:  3,
		StartDate: mustDate(t, "2024-10-01"),
		EndDate:   mustDate(t, "2024-10-31"),
		IsActive:  true,
	}
}

func TestBuildWeekly(t *testing.T) {
	overrides := []models.SchoolMealOverride{
		{SchoolID: 3, MealID: 7, Price: 15.00, IsActive: true},
	}

	t.Run("incomplete slots dropped, complete slots resolved", func(t *testing.T) {
		s := NewWeeklySchedule()
		// eksiksiz slot
		require.NoError(t, s.AddSlot(1))
		require.NoError(t, s.UpdateSlotCategory(1, 0, models.CategoryBurger))
		require.NoError(t, s.UpdateSlotMeal(1, 0, 7))
		// yemeği seçilmemiş slot
		require.NoError(t, s.AddSlot(1))
		require.NoError(t, s.UpdateSlotCategory(1, 1, models.CategoryHotMeal))
		// kategorisi seçilmemiş slot
		require.NoError(t, s.AddSlot(2))
		require.NoError(t, s.UpdateSlotMeal(2, 0, 1))

		entries, err := BuildWeekly(testMeta(t), s, testCatalog(), overrides)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		e := entries[0]
		assert.Equal(t, uint(7), e.MealID)
		require.NotNil(t, e.DayOfWeek)
		assert.Equal(t, 1, *e.DayOfWeek)
		assert.Equal(t, models.CategoryBurger, e.Category)
		assert.Equal(t, 15.00, e.Price) // override taban fiyatı ezer
		assert.Equal(t, 12.00, e.BasePrice)
		require.NotNil(t, e.SchoolPrice)
		assert.Equal(t, 15.00, *e.SchoolPrice)
		require.NotNil(t, e.Order)
		assert.Equal(t, 1, *e.Order)
	})

	t.Run("order carried from slot position", func(t *testing.T) {
		s := NewWeeklySchedule()
		require.NoError(t, s.AddSlot(2))
		require.NoError(t, s.UpdateSlotCategory(2, 0, models.CategoryHotMeal))
		require.NoError(t, s.UpdateSlotMeal(2, 0, 1))
		require.NoError(t, s.AddSlot(2))
		require.NoError(t, s.UpdateSlotCategory(2, 1, models.CategorySandwich))
		require.NoError(t, s.UpdateSlotMeal(2, 1, 2))
		require.NoError(t, s.MoveDown(2, 0))

		entries, err := BuildWeekly(testMeta(t), s, testCatalog(), nil)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, uint(2), entries[0].MealID)
		assert.Equal(t, 1, *entries[0].Order)
		assert.Equal(t, uint(1), entries[1].MealID)
		assert.Equal(t, 2, *entries[1].Order)
	})

	t.Run("no override falls back to base price", func(t *testing.T) {
		s := NewWeeklySchedule()
		require.NoError(t, s.AddSlot(1))
		require.NoError(t, s.UpdateSlotCategory(1, 0, models.CategoryHotMeal))
		require.NoError(t, s.UpdateSlotMeal(1, 0, 1))

		entries, err := BuildWeekly(testMeta(t), s, testCatalog(), overrides)
		require.NoError(t, err)
		assert.Equal(t, 12.00, entries[0].Price)
		assert.Nil(t, entries[0].SchoolPrice)
	})

	t.Run("zero complete entries is an error", func(t *testing.T) {
		s := NewWeeklySchedule()
		require.NoError(t, s.AddSlot(1)) // boş slot

		_, err := BuildWeekly(testMeta(t), s, testCatalog(), nil)
		assert.ErrorIs(t, err, ErrNoCompleteEntries)
	})

	t.Run("missing school rejected", func(t *testing.T) {
		meta := testMeta(t)
		meta.SchoolID = 0
		_, err := BuildWeekly(meta, NewWeeklySchedule(), testCatalog(), nil)
		assert.ErrorIs(t, err, ErrSchoolRequired)
	})

	t.Run("inverted date range rejected", func(t *testing.T) {
		meta := testMeta(t)
		meta.EndDate = mustDate(t, "2024-09-01")
		_, err := BuildWeekly(meta, NewWeeklySchedule(), testCatalog(), nil)
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("unknown meal id rejected", func(t *testing.T) {
		s := NewWeeklySchedule()
		require.NoError(t, s.AddSlot(1))
		require.NoError(t, s.UpdateSlotCategory(1, 0, models.CategoryHotMeal))
		require.NoError(t, s.UpdateSlotMeal(1, 0, 999))

		_, err := BuildWeekly(testMeta(t), s, testCatalog(), nil)
		assert.ErrorIs(t, err, ErrMealNotInCatalog)
	})
}

func TestBuildMonthly(t *testing.T) {
	t.Run("builds completed assignments only", func(t *testing.T) {
		m := NewMonthlyAssignments()
		m.AddDate(mustDate(t, "2024-10-03"))
		m.AddDate(mustDate(t, "2024-10-04")) // yemeksiz, kayda girmez
		require.NoError(t, m.SetMeal(mustDate(t, "2024-10-03"), 2))

		entries, err := BuildMonthly(testMeta(t), m, testCatalog(), nil)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		e := entries[0]
		assert.Equal(t, uint(2), e.MealID)
		require.NotNil(t, e.MealDate)
		assert.Equal(t, "2024-10-03", e.MealDate.Format("2006-01-02"))
		assert.Equal(t, models.CategorySandwich, e.Category) // kategori yemekten gelir
		assert.Equal(t, 8.50, e.Price)
		assert.Nil(t, e.Order) // aylıkta gün içi sıra yok
		assert.Nil(t, e.DayOfWeek)
	})

	t.Run("date outside plan range rejected", func(t *testing.T) {
		meta := testMeta(t)
		meta.EndDate = mustDate(t, "2024-10-05")

		m := NewMonthlyAssignments()
		m.AddDate(mustDate(t, "2024-10-09"))
		require.NoError(t, m.SetMeal(mustDate(t, "2024-10-09"), 2))

		_, err := BuildMonthly(meta, m, testCatalog(), nil)
		assert.ErrorIs(t, err, ErrDateOutOfRange)
	})

	t.Run("zero completed assignments is an error", func(t *testing.T) {
		m := NewMonthlyAssignments()
		m.AddDate(mustDate(t, "2024-10-03"))

		_, err := BuildMonthly(testMeta(t), m, testCatalog(), nil)
		assert.ErrorIs(t, err, ErrNoCompleteEntries)
	})

	t.Run("override resolved per school", func(t *testing.T) {
		overrides := []models.SchoolMealOverride{
			{SchoolID: 3, MealID: 2, Price: 9.75, IsActive: true},
		}
		m := NewMonthlyAssignments()
		m.AddDate(mustDate(t, "2024-10-03"))
		require.NoError(t, m.SetMeal(mustDate(t, "2024-10-03"), 2))

		entries, err := BuildMonthly(testMeta(t), m, testCatalog(), overrides)
		require.NoError(t, err)
		assert.Equal(t, 9.75, entries[0].Price)
		require.NotNil(t, entries[0].SchoolPrice)
		assert.Equal(t, 9.75, *entries[0].SchoolPrice)
	})
}
