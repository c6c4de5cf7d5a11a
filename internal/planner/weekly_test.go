package planner

import (
	"testing"

	"okulyemek-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertDense: günün order değerleri liste sırasıyla 1..N olmalı
func assertDense(t *testing.T, s *WeeklySchedule, day int) {
	t.Helper()
	slots := s.Slots(day)
	for i, slot := range slots {
		assert.Equal(t, i+1, slot.Order, "gün %d index %d", day, i)
	}
}

func buildDay(t *testing.T, s *WeeklySchedule, day int, meals ...uint) {
	t.Helper()
	for _, mealID := range meals {
		require.NoError(t, s.AddSlot(day))
		idx := len(s.Slots(day)) - 1
		require.NoError(t, s.UpdateSlotCategory(day, idx, models.CategoryHotMeal))
		require.NoError(t, s.UpdateSlotMeal(day, idx, mealID))
	}
}

func TestWeeklySchedule_AddRemove(t *testing.T) {
	s := NewWeeklySchedule()

	t.Run("add appends with next order", func(t *testing.T) {
		require.NoError(t, s.AddSlot(1))
		require.NoError(t, s.AddSlot(1))
		require.NoError(t, s.AddSlot(1))

		slots := s.Slots(1)
		require.Len(t, slots, 3)
		assertDense(t, s, 1)
	})

	t.Run("remove renumbers keeping relative order", func(t *testing.T) {
		require.NoError(t, s.UpdateSlotMeal(1, 0, 10))
		require.NoError(t, s.UpdateSlotMeal(1, 1, 20))
		require.NoError(t, s.UpdateSlotMeal(1, 2, 30))

		require.NoError(t, s.RemoveSlot(1, 0))

		slots := s.Slots(1)
		require.Len(t, slots, 2)
		assert.Equal(t, uint(20), slots[0].MealID)
		assert.Equal(t, uint(30), slots[1].MealID)
		assertDense(t, s, 1)
	})

	t.Run("index out of range fails fast", func(t *testing.T) {
		assert.ErrorIs(t, s.RemoveSlot(1, 99), ErrSlotIndex)
	})

	t.Run("invalid day rejected", func(t *testing.T) {
		assert.ErrorIs(t, s.AddSlot(0), ErrInvalidDay)
		assert.ErrorIs(t, s.AddSlot(6), ErrInvalidDay)
	})
}

func TestWeeklySchedule_UpdateSlot(t *testing.T) {
	s := NewWeeklySchedule()
	require.NoError(t, s.AddSlot(2))
	require.NoError(t, s.UpdateSlotCategory(2, 0, models.CategoryHotMeal))
	require.NoError(t, s.UpdateSlotMeal(2, 0, 7))

	t.Run("category change clears stale meal", func(t *testing.T) {
		require.NoError(t, s.UpdateSlotCategory(2, 0, models.CategorySandwich))
		assert.Equal(t, uint(0), s.Slots(2)[0].MealID)
		assert.Equal(t, models.CategorySandwich, s.Slots(2)[0].Category)
	})

	t.Run("same category keeps meal", func(t *testing.T) {
		require.NoError(t, s.UpdateSlotMeal(2, 0, 9))
		require.NoError(t, s.UpdateSlotCategory(2, 0, models.CategorySandwich))
		assert.Equal(t, uint(9), s.Slots(2)[0].MealID)
	})

	t.Run("meal update leaves order untouched", func(t *testing.T) {
		require.NoError(t, s.AddSlot(2))
		require.NoError(t, s.UpdateSlotMeal(2, 1, 11))
		assert.Equal(t, 2, s.Slots(2)[1].Order)
	})
}

func TestWeeklySchedule_MoveUpDown(t *testing.T) {
	t.Run("move down swaps with neighbor", func(t *testing.T) {
		// Pazar: [hot_meal M1, sandwich M2] -> moveDown(1,0) -> [sandwich M2, hot_meal M1]
		s := NewWeeklySchedule()
		require.NoError(t, s.AddSlot(1))
		require.NoError(t, s.UpdateSlotCategory(1, 0, models.CategoryHotMeal))
		require.NoError(t, s.UpdateSlotMeal(1, 0, 1))
		require.NoError(t, s.AddSlot(1))
		require.NoError(t, s.UpdateSlotCategory(1, 1, models.CategorySandwich))
		require.NoError(t, s.UpdateSlotMeal(1, 1, 2))

		require.NoError(t, s.MoveDown(1, 0))

		slots := s.Slots(1)
		assert.Equal(t, uint(2), slots[0].MealID)
		assert.Equal(t, models.CategorySandwich, slots[0].Category)
		assert.Equal(t, 1, slots[0].Order)
		assert.Equal(t, uint(1), slots[1].MealID)
		assert.Equal(t, 2, slots[1].Order)
	})

	t.Run("boundary is a no-op", func(t *testing.T) {
		s := NewWeeklySchedule()
		buildDay(t, s, 3, 1, 2)

		require.NoError(t, s.MoveUp(3, 0))
		assert.Equal(t, uint(1), s.Slots(3)[0].MealID)

		require.NoError(t, s.MoveDown(3, 1))
		assert.Equal(t, uint(2), s.Slots(3)[1].MealID)
		assertDense(t, s, 3)
	})
}

func TestWeeklySchedule_DuplicateToNextDay(t *testing.T) {
	t.Run("copies to next day at the end", func(t *testing.T) {
		s := NewWeeklySchedule()
		buildDay(t, s, 2, 5)
		buildDay(t, s, 3, 8)

		require.NoError(t, s.DuplicateToNextDay(2, 0))

		day3 := s.Slots(3)
		require.Len(t, day3, 2)
		assert.Equal(t, uint(5), day3[1].MealID)
		assert.Equal(t, 2, day3[1].Order)

		// kaynak slot değişmedi
		require.Len(t, s.Slots(2), 1)
	})

	t.Run("day 5 wraps to day 1", func(t *testing.T) {
		s := NewWeeklySchedule()
		buildDay(t, s, 5, 42)

		require.NoError(t, s.DuplicateToNextDay(5, 0))

		day1 := s.Slots(1)
		require.Len(t, day1, 1)
		assert.Equal(t, uint(42), day1[0].MealID)
		assert.Equal(t, 1, day1[0].Order)
	})
}

func TestWeeklySchedule_Reorder(t *testing.T) {
	t.Run("cross-day drag renumbers both days", func(t *testing.T) {
		s := NewWeeklySchedule()
		buildDay(t, s, 1, 10, 20, 30)
		buildDay(t, s, 2, 40)

		require.NoError(t, s.Reorder(1, 1, 2, 0))

		day1 := s.Slots(1)
		require.Len(t, day1, 2)
		assert.Equal(t, uint(10), day1[0].MealID)
		assert.Equal(t, uint(30), day1[1].MealID)
		assertDense(t, s, 1)

		day2 := s.Slots(2)
		require.Len(t, day2, 2)
		assert.Equal(t, uint(20), day2[0].MealID)
		assert.Equal(t, uint(40), day2[1].MealID)
		assertDense(t, s, 2)
	})

	t.Run("same-day drag", func(t *testing.T) {
		s := NewWeeklySchedule()
		buildDay(t, s, 4, 1, 2, 3)

		require.NoError(t, s.Reorder(4, 0, 4, 2))

		slots := s.Slots(4)
		assert.Equal(t, uint(2), slots[0].MealID)
		assert.Equal(t, uint(3), slots[1].MealID)
		assert.Equal(t, uint(1), slots[2].MealID)
		assertDense(t, s, 4)
	})

	t.Run("same location drop is a no-op", func(t *testing.T) {
		s := NewWeeklySchedule()
		buildDay(t, s, 1, 10, 20)

		require.NoError(t, s.Reorder(1, 1, 1, 1))
		assert.Equal(t, uint(10), s.Slots(1)[0].MealID)
		assert.Equal(t, uint(20), s.Slots(1)[1].MealID)
	})

	t.Run("invalid target leaves state untouched", func(t *testing.T) {
		s := NewWeeklySchedule()
		buildDay(t, s, 1, 10, 20)
		buildDay(t, s, 2, 30)

		assert.ErrorIs(t, s.Reorder(1, 0, 2, 5), ErrSlotIndex)
		assert.Len(t, s.Slots(1), 2)
		assert.Len(t, s.Slots(2), 1)
	})
}

func TestWeeklySchedule_ClearDay(t *testing.T) {
	s := NewWeeklySchedule()
	buildDay(t, s, 1, 1, 2, 3)

	require.NoError(t, s.ClearDay(1))
	assert.Empty(t, s.Slots(1))
}

// Her operasyon dizisinden sonra order değerleri 1..N kalmalı
func TestWeeklySchedule_OrderStaysDense(t *testing.T) {
	s := NewWeeklySchedule()

	buildDay(t, s, 1, 10, 20, 30, 40)
	buildDay(t, s, 2, 50)
	buildDay(t, s, 5, 60, 70)

	require.NoError(t, s.MoveDown(1, 0))
	require.NoError(t, s.RemoveSlot(1, 2))
	require.NoError(t, s.DuplicateToNextDay(5, 1))
	require.NoError(t, s.Reorder(1, 0, 2, 1))
	require.NoError(t, s.MoveUp(2, 1))
	require.NoError(t, s.RemoveSlot(5, 0))
	require.NoError(t, s.AddSlot(3))
	require.NoError(t, s.Reorder(2, 0, 5, 0))

	for day := MinDay; day <= MaxDay; day++ {
		assertDense(t, s, day)
	}
}
