package models

import (
	"github.com/shopspring/decimal"
)

// Product is a stocked item. Amount is the available stock counter;
// Reserved and Sold are lifecycle flags driven by the reserve/unreserve/sell
// transitions. Discount is a percentage, zero meaning no discount.
type Product struct {
	ID         uint            `gorm:"primaryKey"`
	Name       string          `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Discount   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Amount     int             `gorm:"not null;default:1"`
	Reserved   bool            `gorm:"not null;default:false"`
	Sold       bool            `gorm:"not null;default:false"`
	CategoryID uint            `gorm:"not null"`
	Category   Category        `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}

func (p *Product) TableName() string {
	return "products"
}
