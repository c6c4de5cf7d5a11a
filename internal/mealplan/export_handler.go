package mealplan

import (
	"fmt"
	"sort"

	"okulyemek-backend/internal/database"
	"okulyemek-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// Gün başlıkları: 1..5 = Pazar..Perşembe
var dayNames = [...]string{"", "Pazar", "Pazartesi", "Salı", "Çarşamba", "Perşembe"}

// GET /api/meal-plans/:id/export
// Haftalık plan: günler kolonlarda, gün içi sıra satırlarda
// Aylık plan: tarih listesi
func ExportPlanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var plan models.MealPlan
		if err := database.DB.Preload("Entries.Meal").First(&plan, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Plan bulunamadı")
		}

		f := excelize.NewFile()
		defer f.Close()
		sheet := f.GetSheetName(0)

		if plan.PlanType == models.PlanTypeWeekly {
			writeWeeklySheet(f, sheet, &plan)
		} else {
			writeMonthlySheet(f, sheet, &plan)
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="yemek-plani-%d.xlsx"`, plan.ID))
		return c.Send(buf.Bytes())
	}
}

func writeWeeklySheet(f *excelize.File, sheet string, plan *models.MealPlan) {
	// Günlere dağıt, sıra numarasına göre sırala
	byDay := make(map[int][]models.MealPlanEntry)
	maxRows := 0
	for _, e := range plan.Entries {
		if e.DayOfWeek == nil {
			continue
		}
		byDay[*e.DayOfWeek] = append(byDay[*e.DayOfWeek], e)
	}
	for day := 1; day <= 5; day++ {
		list := byDay[day]
		sort.Slice(list, func(i, j int) bool {
			oi, oj := 0, 0
			if list[i].OrderIndex != nil {
				oi = *list[i].OrderIndex
			}
			if list[j].OrderIndex != nil {
				oj = *list[j].OrderIndex
			}
			return oi < oj
		})
		byDay[day] = list
		if len(list) > maxRows {
			maxRows = len(list)
		}
	}

	for day := 1; day <= 5; day++ {
		cell, _ := excelize.CoordinatesToCellName(day, 1)
		f.SetCellValue(sheet, cell, dayNames[day])
	}
	for day := 1; day <= 5; day++ {
		for i, e := range byDay[day] {
			cell, _ := excelize.CoordinatesToCellName(day, i+2)
			f.SetCellValue(sheet, cell, fmt.Sprintf("%s (%.2f)", e.Meal.Name, e.Price))
		}
	}
}

func writeMonthlySheet(f *excelize.File, sheet string, plan *models.MealPlan) {
	f.SetCellValue(sheet, "A1", "Tarih")
	f.SetCellValue(sheet, "B1", "Yemek")
	f.SetCellValue(sheet, "C1", "Fiyat")

	entries := make([]models.MealPlanEntry, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		if e.MealDate != nil {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].MealDate.Before(*entries[j].MealDate) })

	for i, e := range entries {
		rowNum := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), e.MealDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), e.Meal.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), e.Price)
	}
}
