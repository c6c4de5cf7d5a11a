package catalog

import (
	"strconv"
	"strings"

	"okulyemek-backend/internal/database"
	"okulyemek-backend/internal/models"
	"okulyemek-backend/internal/pricing"

	"github.com/gofiber/fiber/v2"
)

type MealResponse struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Category    models.MealCategory `json:"category"`
	BasePrice   float64             `json:"base_price"`
	SchoolPrice *float64            `json:"school_price"` // school_id filtresi yoksa null
	Price       float64             `json:"price"`        // okul bazlı çözülmüş fiyat
	IsActive    bool                `json:"is_active"`
}

type CreateMealRequest struct {
	Name      string              `json:"name"`
	Category  models.MealCategory `json:"category"`
	BasePrice float64             `json:"base_price"`
}

type UpdateMealRequest struct {
	Name      *string              `json:"name"`
	Category  *models.MealCategory `json:"category"`
	BasePrice *float64             `json:"base_price"`
	IsActive  *bool                `json:"is_active"`
}

// GET /api/meals?school_id=3&category=hot_meal
// school_id verilirse her yemek o okulun çözülmüş fiyatıyla döner
func ListMealsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Meal{}).Where("is_active = ?", true)

		category := strings.TrimSpace(c.Query("category"))
		if category != "" {
			if !models.ValidCategory(models.MealCategory(category)) {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kategori")
			}
			dbq = dbq.Where("category = ?", category)
		}

		var meals []models.Meal
		if err := dbq.Order("category asc, name asc").Find(&meals).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yemekler listelenemedi")
		}

		// Okul filtresi varsa override'ları çek
		var overrides []models.SchoolMealOverride
		schoolIDStr := c.Query("school_id")
		if schoolIDStr != "" {
			schoolID, err := strconv.ParseUint(schoolIDStr, 10, 32)
			if err != nil || schoolID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz school_id")
			}
			if err := database.DB.Where("school_id = ?", schoolID).Find(&overrides).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Okul fiyatları okunamadı")
			}
		}

		res := make([]MealResponse, 0, len(meals))
		for _, m := range meals {
			res = append(res, MealResponse{
				ID:          m.ID,
				Name:        m.Name,
				Category:    m.Category,
				BasePrice:   m.BasePrice,
				SchoolPrice: pricing.SchoolPrice(m.ID, overrides),
				Price:       pricing.Round2(pricing.ResolvePrice(m, overrides)),
				IsActive:    m.IsActive,
			})
		}
		return c.JSON(res)
	}
}

// POST /api/admin/meals (sadece super_admin)
func CreateMealHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMealRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Yemek adı zorunlu")
		}
		if !models.ValidCategory(body.Category) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kategori")
		}
		if body.BasePrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Taban fiyat negatif olamaz")
		}

		m := models.Meal{
			Name:      body.Name,
			Category:  body.Category,
			BasePrice: pricing.Round2(body.BasePrice),
			IsActive:  true,
		}

		if err := database.DB.Create(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yemek oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(MealResponse{
			ID:        m.ID,
			Name:      m.Name,
			Category:  m.Category,
			BasePrice: m.BasePrice,
			Price:     m.BasePrice,
			IsActive:  m.IsActive,
		})
	}
}

// PUT /api/admin/meals/:id
func UpdateMealHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var m models.Meal
		if err := database.DB.First(&m, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Yemek bulunamadı")
		}

		var body UpdateMealRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Yemek adı boş olamaz")
			}
			m.Name = name
		}
		if body.Category != nil {
			if !models.ValidCategory(*body.Category) {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kategori")
			}
			m.Category = *body.Category
		}
		if body.BasePrice != nil {
			if *body.BasePrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Taban fiyat negatif olamaz")
			}
			m.BasePrice = pricing.Round2(*body.BasePrice)
		}
		if body.IsActive != nil {
			m.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yemek güncellenemedi")
		}

		return c.JSON(MealResponse{
			ID:        m.ID,
			Name:      m.Name,
			Category:  m.Category,
			BasePrice: m.BasePrice,
			Price:     m.BasePrice,
			IsActive:  m.IsActive,
		})
	}
}

// DELETE /api/admin/meals/:id
// Plan satırlarında geçmişe dönük referans kalabileceği için fiziksel silme
// yerine pasife çekilir
func DeleteMealHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var m models.Meal
		if err := database.DB.First(&m, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Yemek bulunamadı")
		}

		m.IsActive = false
		if err := database.DB.Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yemek silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
