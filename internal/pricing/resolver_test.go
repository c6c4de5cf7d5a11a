package pricing

import (
	"testing"

	"okulyemek-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrice(t *testing.T) {
	meal := models.Meal{ID: 7, Name: "Tavuklu Burger", BasePrice: 12.00}

	t.Run("active override wins over base price", func(t *testing.T) {
		overrides := []models.SchoolMealOverride{
			{SchoolID: 3, MealID: 7, Price: 15.00, IsActive: true},
		}
		assert.Equal(t, 15.00, ResolvePrice(meal, overrides))
	})

	t.Run("inactive override falls back to base", func(t *testing.T) {
		overrides := []models.SchoolMealOverride{
			{SchoolID: 3, MealID: 7, Price: 15.00, IsActive: false},
		}
		assert.Equal(t, 12.00, ResolvePrice(meal, overrides))
	})

	t.Run("no override falls back to base", func(t *testing.T) {
		assert.Equal(t, 12.00, ResolvePrice(meal, nil))
	})

	t.Run("other meal's override ignored", func(t *testing.T) {
		overrides := []models.SchoolMealOverride{
			{SchoolID: 3, MealID: 8, Price: 99.00, IsActive: true},
		}
		assert.Equal(t, 12.00, ResolvePrice(meal, overrides))
	})
}

func TestSchoolPrice(t *testing.T) {
	overrides := []models.SchoolMealOverride{
		{SchoolID: 3, MealID: 1, Price: 10.50, IsActive: true},
		{SchoolID: 3, MealID: 2, Price: 8.00, IsActive: false},
	}

	t.Run("active override returned", func(t *testing.T) {
		p := SchoolPrice(1, overrides)
		require.NotNil(t, p)
		assert.Equal(t, 10.50, *p)
	})

	t.Run("inactive override is nil", func(t *testing.T) {
		assert.Nil(t, SchoolPrice(2, overrides))
	})

	t.Run("unknown meal is nil", func(t *testing.T) {
		assert.Nil(t, SchoolPrice(99, overrides))
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 12.35, Round2(12.345))
	assert.Equal(t, 12.34, Round2(12.344))
	assert.Equal(t, 0.1, Round2(0.1))
	assert.Equal(t, 10.0, Round2(10))
}
