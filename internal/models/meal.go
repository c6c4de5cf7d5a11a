package models

import "time"

type MealCategory string

const (
	CategoryHotMeal    MealCategory = "hot_meal"
	CategorySandwich   MealCategory = "sandwich"
	CategorySandwichXL MealCategory = "sandwich_xl"
	CategoryBurger     MealCategory = "burger"
	CategoryCrepe      MealCategory = "crepe"
	CategoryNursery    MealCategory = "nursery"
)

// ValidCategory: kategori enum kontrolü
func ValidCategory(c MealCategory) bool {
	switch c {
	case CategoryHotMeal, CategorySandwich, CategorySandwichXL, CategoryBurger, CategoryCrepe, CategoryNursery:
		return true
	}
	return false
}

type Meal struct {
	ID        uint         `gorm:"primaryKey"`
	Name      string       `gorm:"size:150;not null"`
	Category  MealCategory `gorm:"size:20;not null;index"`
	BasePrice float64      `gorm:"not null"` // katalog fiyatı (okul override'ı yoksa geçerli)
	IsActive  bool         `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
