package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestMonthlyAssignments_AddDate(t *testing.T) {
	m := NewMonthlyAssignments()

	t.Run("opens empty assignment", func(t *testing.T) {
		m.AddDate(mustDate(t, "2024-10-03"))

		entries := m.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, uint(0), entries[0].MealID)
	})

	t.Run("duplicate date is a no-op", func(t *testing.T) {
		m.AddDate(mustDate(t, "2024-10-03"))
		assert.Len(t, m.Entries(), 1)
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		m.AddDate(mustDate(t, "2024-10-03").Add(14 * time.Hour))
		assert.Len(t, m.Entries(), 1)
	})
}

func TestMonthlyAssignments_SetMeal(t *testing.T) {
	m := NewMonthlyAssignments()
	m.AddDate(mustDate(t, "2024-10-03"))

	t.Run("sets meal on existing date", func(t *testing.T) {
		require.NoError(t, m.SetMeal(mustDate(t, "2024-10-03"), 2))
		assert.Equal(t, uint(2), m.Entries()[0].MealID)
	})

	t.Run("overwrite wins", func(t *testing.T) {
		require.NoError(t, m.SetMeal(mustDate(t, "2024-10-03"), 5))
		assert.Equal(t, uint(5), m.Entries()[0].MealID)
	})

	t.Run("unknown date rejected", func(t *testing.T) {
		assert.ErrorIs(t, m.SetMeal(mustDate(t, "2024-10-09"), 2), ErrDateNotFound)
	})
}

func TestMonthlyAssignments_RemoveDate(t *testing.T) {
	m := NewMonthlyAssignments()
	m.AddDate(mustDate(t, "2024-10-01"))
	m.AddDate(mustDate(t, "2024-10-02"))

	m.RemoveDate(mustDate(t, "2024-10-01"))

	entries := m.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, mustDate(t, "2024-10-02"), entries[0].MealDate)

	// olmayan tarihi silmek sorun değil
	m.RemoveDate(mustDate(t, "2024-10-25"))
	assert.Len(t, m.Entries(), 1)
}

func TestMonthlyAssignments_Completed(t *testing.T) {
	t.Run("filters unset meals", func(t *testing.T) {
		// 2024-10-01..05 planı: sadece 3'üne yemek atanmış
		m := NewMonthlyAssignments()
		m.AddDate(mustDate(t, "2024-10-03"))
		m.AddDate(mustDate(t, "2024-10-04"))
		require.NoError(t, m.SetMeal(mustDate(t, "2024-10-03"), 2))

		completed := m.Completed()
		require.Len(t, completed, 1)
		assert.Equal(t, uint(2), completed[0].MealID)
		assert.Equal(t, "2024-10-03", completed[0].MealDate.Format("2006-01-02"))
	})

	t.Run("sorted by date", func(t *testing.T) {
		m := NewMonthlyAssignments()
		m.AddDate(mustDate(t, "2024-10-20"))
		m.AddDate(mustDate(t, "2024-10-05"))
		require.NoError(t, m.SetMeal(mustDate(t, "2024-10-20"), 1))
		require.NoError(t, m.SetMeal(mustDate(t, "2024-10-05"), 2))

		completed := m.Completed()
		require.Len(t, completed, 2)
		assert.True(t, completed[0].MealDate.Before(completed[1].MealDate))
	})

	t.Run("never contains unset meal ids", func(t *testing.T) {
		m := NewMonthlyAssignments()
		m.AddDate(mustDate(t, "2024-10-01"))
		m.AddDate(mustDate(t, "2024-10-02"))
		m.AddDate(mustDate(t, "2024-10-03"))
		require.NoError(t, m.SetMeal(mustDate(t, "2024-10-02"), 9))

		for _, a := range m.Completed() {
			assert.NotEqual(t, uint(0), a.MealID)
		}
	})
}
