package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"okulyemek-backend/internal/models"
)

// OverrideUpsert: toplu fiyat kaydında bir yemeğin yazılacak satırı
type OverrideUpsert struct {
	MealID uint
	Price  float64
}

// PriceParseError: operatörün girdiği fiyat değeri sayıya çevrilemedi
// Batch gönderilmeden önce yakalanır, hiçbir kayıt yazılmaz
type PriceParseError struct {
	MealID   uint
	MealName string
	Value    string
}

func (e *PriceParseError) Error() string {
	return fmt.Sprintf("geçersiz fiyat değeri %q (yemek: %s)", e.Value, e.MealName)
}

// Reconcile: düzenlenmekte olan fiyatları mevcut override'larla birleştirip
// tek bir toplu kayıt listesi üretir. Katalogdaki HER yemek için bir satır döner:
//   - editedPrices'ta değer varsa o değer (string, ondalık sayıya çevrilir)
//   - yoksa mevcut aktif override fiyatı
//   - o da yoksa yemeğin taban fiyatı
//
// Yani her toplu kayıt okulun fiyat tablosunun tamamını yazar, delta değil.
func Reconcile(catalogMeals []models.Meal, existing []models.SchoolMealOverride, editedPrices map[uint]string) ([]OverrideUpsert, error) {
	batch := make([]OverrideUpsert, 0, len(catalogMeals))

	for _, meal := range catalogMeals {
		var price float64

		if raw, ok := editedPrices[meal.ID]; ok {
			parsed, err := parsePrice(raw)
			if err != nil {
				return nil, &PriceParseError{MealID: meal.ID, MealName: meal.Name, Value: raw}
			}
			price = parsed
		} else if p := SchoolPrice(meal.ID, existing); p != nil {
			price = *p
		} else {
			price = meal.BasePrice
		}

		batch = append(batch, OverrideUpsert{MealID: meal.ID, Price: Round2(price)})
	}

	return batch, nil
}

// parsePrice: operatör girdisini fiyata çevirir
// Türkçe klavye alışkanlığı için virgül de ondalık ayracı olarak kabul edilir
func parsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if s == "" {
		return 0, fmt.Errorf("boş fiyat")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("fiyat negatif veya geçersiz")
	}
	return v, nil
}
