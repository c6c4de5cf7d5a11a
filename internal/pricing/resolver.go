package pricing

import (
	"math"

	"okulyemek-backend/internal/models"
)

// ResolvePrice: yemeğin bir okul için geçerli fiyatını döndürür
// Okulun aktif override'ı varsa override fiyatı, yoksa katalog taban fiyatı geçerlidir
// Override bulunmaması hata değil, normal durumdur
func ResolvePrice(meal models.Meal, overrides []models.SchoolMealOverride) float64 {
	if p := SchoolPrice(meal.ID, overrides); p != nil {
		return *p
	}
	return meal.BasePrice
}

// SchoolPrice: yemek için aktif override fiyatını döndürür, yoksa nil
// overrides tek bir okula ait kayıtlar olmalı
func SchoolPrice(mealID uint, overrides []models.SchoolMealOverride) *float64 {
	for i := range overrides {
		o := &overrides[i]
		if o.MealID == mealID && o.IsActive {
			p := o.Price
			return &p
		}
	}
	return nil
}

// Round2: fiyatı 2 ondalık haneye yuvarlar
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
