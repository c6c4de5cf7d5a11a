package database

import (
	"log"

	"okulyemek-backend/internal/config"
	"okulyemek-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	// School migration: price_table_version kolonu ekleniyor (AutoMigrate'ten ÖNCE)
	// Eski kayıtlar NULL kalmasın diye DEFAULT 0 ile manuel ekleniyor
	if DB.Migrator().HasTable(&models.School{}) {
		if !DB.Migrator().HasColumn(&models.School{}, "price_table_version") {
			log.Println("School.price_table_version kolonu ekleniyor...")
			if err := DB.Exec("ALTER TABLE schools ADD COLUMN price_table_version BIGINT NOT NULL DEFAULT 0").Error; err != nil {
				log.Printf("price_table_version kolonu eklenirken hata (zaten var olabilir): %v", err)
			} else {
				log.Println("price_table_version kolonu eklendi")
			}
		}
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.School{},
		&models.Meal{},
		&models.SchoolMealOverride{},
		&models.MealPlan{},
		&models.MealPlanEntry{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
