package models

import "time"

type School struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:150;not null;unique"`
	District     string `gorm:"size:100"`
	ContactName  string `gorm:"size:100"`
	ContactPhone string `gorm:"size:30"`
	IsActive     bool   `gorm:"not null;default:true"`
	// Fiyat tablosu versiyonu: toplu fiyat kaydı için optimistic lock.
	// Her başarılı toplu kayıtta 1 artar, eski versiyonla gelen kayıt reddedilir.
	PriceTableVersion uint `gorm:"not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
