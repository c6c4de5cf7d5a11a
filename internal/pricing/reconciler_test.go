package pricing

import (
	"testing"

	"okulyemek-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reconcilerCatalog() []models.Meal {
	return []models.Meal{
		{ID: 1, Name: "Sebzeli Güveç", BasePrice: 12.00},
		{ID: 2, Name: "Ton Balıklı Sandviç", BasePrice: 8.50},
		{ID: 3, Name: "Krep", BasePrice: 6.00},
	}
}

func batchPrice(t *testing.T, batch []OverrideUpsert, mealID uint) float64 {
	t.Helper()
	for _, u := range batch {
		if u.MealID == mealID {
			return u.Price
		}
	}
	t.Fatalf("yemek %d batch'te yok", mealID)
	return 0
}

func TestReconcile(t *testing.T) {
	t.Run("one row per catalog meal", func(t *testing.T) {
		batch, err := Reconcile(reconcilerCatalog(), nil, nil)
		require.NoError(t, err)
		require.Len(t, batch, 3)
	})

	t.Run("edited value wins even over existing override", func(t *testing.T) {
		existing := []models.SchoolMealOverride{
			{MealID: 1, Price: 14.00, IsActive: true},
		}
		edited := map[uint]string{1: "12.50"}

		batch, err := Reconcile(reconcilerCatalog(), existing, edited)
		require.NoError(t, err)
		assert.Equal(t, 12.50, batchPrice(t, batch, 1))
	})

	t.Run("fallback chain edited, override, base", func(t *testing.T) {
		existing := []models.SchoolMealOverride{
			{MealID: 2, Price: 9.25, IsActive: true},
		}
		edited := map[uint]string{1: "13.00"}

		batch, err := Reconcile(reconcilerCatalog(), existing, edited)
		require.NoError(t, err)
		assert.Equal(t, 13.00, batchPrice(t, batch, 1)) // düzenlenen değer
		assert.Equal(t, 9.25, batchPrice(t, batch, 2))  // mevcut override
		assert.Equal(t, 6.00, batchPrice(t, batch, 3))  // taban fiyat
	})

	t.Run("inactive override ignored", func(t *testing.T) {
		existing := []models.SchoolMealOverride{
			{MealID: 3, Price: 7.00, IsActive: false},
		}
		batch, err := Reconcile(reconcilerCatalog(), existing, nil)
		require.NoError(t, err)
		assert.Equal(t, 6.00, batchPrice(t, batch, 3))
	})

	t.Run("comma decimal separator accepted", func(t *testing.T) {
		batch, err := Reconcile(reconcilerCatalog(), nil, map[uint]string{2: "8,75"})
		require.NoError(t, err)
		assert.Equal(t, 8.75, batchPrice(t, batch, 2))
	})

	t.Run("prices rounded to 2 decimals", func(t *testing.T) {
		batch, err := Reconcile(reconcilerCatalog(), nil, map[uint]string{1: "12.345"})
		require.NoError(t, err)
		assert.Equal(t, 12.35, batchPrice(t, batch, 1))
	})

	t.Run("bad value aborts whole batch", func(t *testing.T) {
		batch, err := Reconcile(reconcilerCatalog(), nil, map[uint]string{
			1: "12.50",
			2: "abc",
		})
		assert.Nil(t, batch)

		var parseErr *PriceParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, uint(2), parseErr.MealID)
		assert.Equal(t, "abc", parseErr.Value)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		_, err := Reconcile(reconcilerCatalog(), nil, map[uint]string{1: "-5"})
		var parseErr *PriceParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("empty value rejected", func(t *testing.T) {
		_, err := Reconcile(reconcilerCatalog(), nil, map[uint]string{1: "  "})
		var parseErr *PriceParseError
		require.ErrorAs(t, err, &parseErr)
	})
}
