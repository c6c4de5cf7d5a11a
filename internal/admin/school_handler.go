package admin

import (
	"okulyemek-backend/internal/database"
	"okulyemek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SchoolResponse struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	District          string `json:"district"`
	ContactName       string `json:"contact_name"`
	ContactPhone      string `json:"contact_phone"`
	IsActive          bool   `json:"is_active"`
	PriceTableVersion uint   `json:"price_table_version"`
}

// GET /api/schools
// Okul kayıtları dış sistemden senkronlanır, burada sadece seçim listesi için okunur
func ListSchoolsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var schools []models.School
		if err := database.DB.Where("is_active = ?", true).Order("name asc").Find(&schools).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Okullar listelenemedi")
		}

		res := make([]SchoolResponse, 0, len(schools))
		for _, s := range schools {
			res = append(res, SchoolResponse{
				ID:                s.ID,
				Name:              s.Name,
				District:          s.District,
				ContactName:       s.ContactName,
				ContactPhone:      s.ContactPhone,
				IsActive:          s.IsActive,
				PriceTableVersion: s.PriceTableVersion,
			})
		}
		return c.JSON(res)
	}
}
