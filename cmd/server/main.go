package main

import (
	"log"
	"strings"

	"okulyemek-backend/internal/admin"
	"okulyemek-backend/internal/auth"
	"okulyemek-backend/internal/catalog"
	"okulyemek-backend/internal/config"
	"okulyemek-backend/internal/database"
	"okulyemek-backend/internal/mealplan"
	"okulyemek-backend/internal/models"
	"okulyemek-backend/internal/pricing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	// Katalog yönetimi
	adminRoutes.Post("/meals", catalog.CreateMealHandler())
	adminRoutes.Put("/meals/:id", catalog.UpdateMealHandler())
	adminRoutes.Delete("/meals/:id", catalog.DeleteMealHandler())

	// Ortak (auth gerektiren) route'lar

	// Katalog & okul listeleri
	protected.Get("/meals", catalog.ListMealsHandler())
	protected.Get("/schools", admin.ListSchoolsHandler())

	// Okul fiyat tablosu
	protected.Get("/schools/:id/meal-prices", pricing.GetSchoolPriceTableHandler())
	protected.Put("/schools/:id/meal-prices", pricing.BulkUpsertOverridesHandler())
	protected.Post("/schools/:id/meal-prices/import", pricing.ImportSchoolPricesHandler())
	protected.Get("/schools/:id/meal-prices/export", pricing.ExportSchoolPricesHandler())

	// Yemek planları
	protected.Post("/meal-plans", mealplan.CreatePlanHandler())
	protected.Get("/meal-plans", mealplan.ListPlansHandler())
	protected.Get("/meal-plans/:id", mealplan.GetPlanHandler())
	protected.Put("/meal-plans/:id", mealplan.UpdatePlanHandler())
	protected.Delete("/meal-plans/:id", mealplan.DeletePlanHandler())
	protected.Post("/meal-plans/:id/date-assignments", mealplan.AssignMealsToDatesHandler())
	protected.Get("/meal-plans/:id/export", mealplan.ExportPlanHandler())

	// Plan düzenleme oturumları (taslaklar)
	protected.Post("/meal-plan-drafts", mealplan.OpenDraftHandler())
	protected.Get("/meal-plan-drafts/:id", mealplan.GetDraftHandler())
	protected.Post("/meal-plan-drafts/:id/ops", mealplan.ApplyDraftOpHandler())
	protected.Post("/meal-plan-drafts/:id/submit", mealplan.SubmitDraftHandler())
	protected.Delete("/meal-plan-drafts/:id", mealplan.DiscardDraftHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
