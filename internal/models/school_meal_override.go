package models

import "time"

// SchoolMealOverride: Okul bazlı özel yemek fiyatı
// Bir (okul, yemek) çifti için en fazla bir aktif override olabilir
type SchoolMealOverride struct {
	ID        uint `gorm:"primaryKey"`
	SchoolID  uint `gorm:"index;not null;uniqueIndex:idx_school_meal"`
	School    School
	MealID    uint `gorm:"index;not null;uniqueIndex:idx_school_meal"` // school_id + meal_id unique
	Meal      Meal
	Price     float64 `gorm:"not null"` // okulun bu yemek için ödediği fiyat
	IsActive  bool    `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
