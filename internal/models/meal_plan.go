package models

import "time"

type PlanType string

const (
	PlanTypeWeekly  PlanType = "weekly"  // 5 günlük sabit hafta deseni, tarih aralığı boyunca tekrar eder
	PlanTypeMonthly PlanType = "monthly" // her tarihe tek yemek atanır
)

type MealPlan struct {
	ID        uint `gorm:"primaryKey"`
	SchoolID  uint `gorm:"index;not null"`
	School    School
	StartDate time.Time `gorm:"not null"` // sadece tarih kısmı kullanılır
	EndDate   time.Time `gorm:"not null"` // end_date >= start_date
	PlanType  PlanType  `gorm:"size:10;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	Entries   []MealPlanEntry
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MealPlanEntry: Planın çözülmüş (fiyatı hesaplanmış) yemek satırı
// Haftalık planda day_of_week + order_index, aylık planda meal_date dolu olur
type MealPlanEntry struct {
	ID          uint `gorm:"primaryKey"`
	MealPlanID  uint `gorm:"index;not null"`
	MealID      uint `gorm:"index;not null"`
	Meal        Meal
	DayOfWeek   *int         `gorm:"column:day_of_week"` // 1..5 (Pazar..Perşembe), sadece haftalık
	MealDate    *time.Time   // sadece aylık
	Category    MealCategory `gorm:"size:20;not null"`
	Price       float64      `gorm:"not null"` // geçerli (okul bazlı çözülmüş) fiyat
	BasePrice   float64      `gorm:"not null"`
	SchoolPrice *float64 // override varsa override fiyatı, yoksa null
	OrderIndex  *int     // gün içi sıra (1'den başlar), sadece haftalık
	CreatedAt   time.Time
}
