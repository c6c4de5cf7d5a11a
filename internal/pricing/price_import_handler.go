package pricing

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// normalizeTurkish: Türkçe karakterleri ASCII karşılıklarına çevirir
// Örn: "SEBZELİ GÜVEÇ" -> "sebzeli guvec"
func normalizeTurkish(s string) string {
	replacements := map[rune]string{
		'ç': "c", 'Ç': "C",
		'ğ': "g", 'Ğ': "G",
		'ı': "i", 'İ': "I",
		'ö': "o", 'Ö': "O",
		'ş': "s", 'Ş': "S",
		'ü': "u", 'Ü': "U",
	}

	var result strings.Builder
	for _, r := range s {
		if replacement, ok := replacements[r]; ok {
			result.WriteString(replacement)
		} else {
			result.WriteRune(r)
		}
	}
	return strings.ToLower(result.String())
}

// normalizeMealName: yemek adını eşleştirme için normalleştirir
// Büyük/küçük harf ve Türkçe karakter duyarsız, fazla boşluklar tek boşluğa iner
func normalizeMealName(s string) string {
	return strings.Join(strings.Fields(normalizeTurkish(s)), " ")
}

// POST /api/schools/:id/meal-prices/import?version=4
// XLSX'ten toplu fiyat yükler. Beklenen format: ilk kolon yemek adı, ikinci kolon fiyat.
// Eşleşen satırlar düzenlenmiş fiyat olarak reconcile'a girer, tablonun kalanı
// mevcut çözülmüş fiyatlarla tamamlanıp komple yazılır.
func ImportSchoolPricesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		school, err := loadSchool(c)
		if err != nil {
			return err
		}

		versionStr := c.Query("version")
		version, perr := strconv.ParseUint(versionStr, 10, 32)
		if versionStr == "" || perr != nil {
			return fiber.NewError(fiber.StatusBadRequest, "version parametresi zorunlu")
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası okunamadı: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyasında sheet bulunamadı")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet okunamadı: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası boş")
		}

		// İlk satır başlık mı? ("YEMEK", "MEAL", "FİYAT" gibi kelimeler varsa atla)
		startIndex := 0
		if len(rows[0]) > 0 {
			firstCell := strings.ToUpper(strings.TrimSpace(rows[0][0]))
			if strings.Contains(firstCell, "YEMEK") || strings.Contains(firstCell, "MEAL") ||
				strings.Contains(firstCell, "ÜRÜN") {
				startIndex = 1
				log.Printf("İlk satır başlık satırı olarak algılandı, atlanıyor")
			}
		}

		meals, overrides, lerr := loadPriceData(school.ID)
		if lerr != nil {
			return lerr
		}

		// Yemekleri normalize edilmiş ada göre indexle
		byName := make(map[string]uint, len(meals))
		for _, m := range meals {
			byName[normalizeMealName(m.Name)] = m.ID
		}

		edited := make(map[uint]string)
		matchedCount := 0
		unmatchedRows := make([]string, 0)

		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			if len(row) < 2 {
				continue
			}

			mealName := strings.TrimSpace(row[0])
			priceStr := strings.TrimSpace(row[1])
			if mealName == "" || priceStr == "" {
				continue
			}

			mealID, found := byName[normalizeMealName(mealName)]
			if !found {
				unmatchedRows = append(unmatchedRows, mealName)
				continue
			}

			edited[mealID] = priceStr
			matchedCount++
		}

		batch, rerr := Reconcile(meals, overrides, edited)
		if rerr != nil {
			var parseErr *PriceParseError
			if errors.As(rerr, &parseErr) {
				return fiber.NewError(fiber.StatusBadRequest, parseErr.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Fiyatlar birleştirilemedi")
		}

		if err := persistPriceTable(school.ID, uint(version), batch); err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"success":        true,
			"version":        uint(version) + 1,
			"matched_count":  matchedCount,
			"unmatched_rows": unmatchedRows,
			"message":        fmt.Sprintf("%d yemek fiyatı güncellendi. %d satır eşleşmedi.", matchedCount, len(unmatchedRows)),
		})
	}
}
