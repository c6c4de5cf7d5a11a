package pricing

import (
	"errors"
	"strconv"

	"okulyemek-backend/internal/database"
	"okulyemek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PriceTableRow struct {
	MealID      uint                `json:"meal_id"`
	MealName    string              `json:"meal_name"`
	Category    models.MealCategory `json:"category"`
	BasePrice   float64             `json:"base_price"`
	SchoolPrice *float64            `json:"school_price"` // aktif override yoksa null
	Price       float64             `json:"price"`
}

type PriceTableResponse struct {
	SchoolID uint            `json:"school_id"`
	Version  uint            `json:"version"`
	Prices   []PriceTableRow `json:"prices"`
}

type BulkUpsertRequest struct {
	// Okunan tablonun versiyonu; eski versiyonla gelen kayıt reddedilir
	Version uint `json:"version"`
	// meal_id -> operatörün girdiği fiyat (string, "15.50" veya "15,50")
	// Sadece değiştirilen alanlar gönderilir, kalanlar sunucuda tamamlanır
	EditedPrices map[string]string `json:"edited_prices"`
}

// GET /api/schools/:id/meal-prices
// Okulun çözülmüş fiyat tablosu: her aktif yemek için taban + override + geçerli fiyat
func GetSchoolPriceTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		school, err := loadSchool(c)
		if err != nil {
			return err
		}

		meals, overrides, err := loadPriceData(school.ID)
		if err != nil {
			return err
		}

		rows := make([]PriceTableRow, 0, len(meals))
		for _, m := range meals {
			rows = append(rows, PriceTableRow{
				MealID:      m.ID,
				MealName:    m.Name,
				Category:    m.Category,
				BasePrice:   m.BasePrice,
				SchoolPrice: SchoolPrice(m.ID, overrides),
				Price:       Round2(ResolvePrice(m, overrides)),
			})
		}

		return c.JSON(PriceTableResponse{
			SchoolID: school.ID,
			Version:  school.PriceTableVersion,
			Prices:   rows,
		})
	}
}

// PUT /api/schools/:id/meal-prices
// Toplu fiyat kaydı: düzenlenen değerler mevcut override'larla birleştirilir ve
// okulun fiyat tablosunun TAMAMI tek transaction'da yeniden yazılır.
// İki operatör aynı tabloyu düzenlerse versiyon kontrolü ikinciyi 409 ile durdurur,
// sessiz last-write-wins yoktur.
func BulkUpsertOverridesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		school, err := loadSchool(c)
		if err != nil {
			return err
		}

		var body BulkUpsertRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		edited := make(map[uint]string, len(body.EditedPrices))
		for key, val := range body.EditedPrices {
			mealID, err := strconv.ParseUint(key, 10, 32)
			if err != nil || mealID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz meal_id: "+key)
			}
			edited[uint(mealID)] = val
		}

		meals, overrides, err := loadPriceData(school.ID)
		if err != nil {
			return err
		}

		batch, rerr := Reconcile(meals, overrides, edited)
		if rerr != nil {
			var parseErr *PriceParseError
			if errors.As(rerr, &parseErr) {
				return fiber.NewError(fiber.StatusBadRequest, parseErr.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Fiyatlar birleştirilemedi")
		}

		if err := persistPriceTable(school.ID, body.Version, batch); err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"success": true,
			"version": body.Version + 1,
			"count":   len(batch),
		})
	}
}

// persistPriceTable: okulun fiyat tablosunu tek transaction'da baştan yazar
// Versiyon hâlâ okunandaki gibiyse 1 artırılır, değilse kayıt 409 ile reddedilir
func persistPriceTable(schoolID uint, expectedVersion uint, batch []OverrideUpsert) error {
	tx := database.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Optimistic lock
	res := tx.Model(&models.School{}).
		Where("id = ? AND price_table_version = ?", schoolID, expectedVersion).
		Update("price_table_version", expectedVersion+1)
	if res.Error != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, "Fiyat tablosu kilitlenemedi")
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return fiber.NewError(fiber.StatusConflict, "Fiyat tablosu başka bir oturumda değişti, sayfayı yenileyip tekrar dene")
	}

	// Tam tablo yazımı: eski satırlar silinir, batch baştan yazılır
	if err := tx.Where("school_id = ?", schoolID).Delete(&models.SchoolMealOverride{}).Error; err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, "Eski fiyatlar silinemedi")
	}

	for _, u := range batch {
		row := models.SchoolMealOverride{
			SchoolID: schoolID,
			MealID:   u.MealID,
			Price:    u.Price,
			IsActive: true,
		}
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Fiyatlar kaydedilemedi")
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Fiyatlar kaydedilemedi")
	}
	return nil
}

// loadSchool: path'ten okul kaydını çeker
func loadSchool(c *fiber.Ctx) (*models.School, error) {
	id := c.Params("id")

	var school models.School
	if err := database.DB.First(&school, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Okul bulunamadı")
	}
	return &school, nil
}

// loadPriceData: aktif katalog + okulun mevcut override'ları
func loadPriceData(schoolID uint) ([]models.Meal, []models.SchoolMealOverride, error) {
	var meals []models.Meal
	if err := database.DB.Where("is_active = ?", true).Order("category asc, name asc").Find(&meals).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Yemekler okunamadı")
	}

	var overrides []models.SchoolMealOverride
	if err := database.DB.Where("school_id = ?", schoolID).Find(&overrides).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Okul fiyatları okunamadı")
	}
	return meals, overrides, nil
}
