package pricing

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/schools/:id/meal-prices/export
// Okulun çözülmüş fiyat tablosunu XLSX olarak indirir
func ExportSchoolPricesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		school, err := loadSchool(c)
		if err != nil {
			return err
		}

		meals, overrides, lerr := loadPriceData(school.ID)
		if lerr != nil {
			return lerr
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := f.GetSheetName(0)
		headers := []string{"Yemek", "Kategori", "Taban Fiyat", "Okul Fiyatı", "Geçerli Fiyat"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for i, m := range meals {
			rowNum := i + 2
			f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), m.Name)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), string(m.Category))
			f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), m.BasePrice)
			if p := SchoolPrice(m.ID, overrides); p != nil {
				f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), *p)
			}
			f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), Round2(ResolvePrice(m, overrides)))
		}

		buf, werr := f.WriteToBuffer()
		if werr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="okul-%d-fiyat-tablosu.xlsx"`, school.ID))
		return c.Send(buf.Bytes())
	}
}
