package models

import "github.com/shopspring/decimal"

// Producto entity, mapped onto the productos table.
// Precio is exact decimal currency; Stock is carried for the catalog screens
// but plays no role in invoicing.
type Producto struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Nombre      string          `gorm:"size:100;not null;index" json:"nombre"`
	Descripcion string          `json:"descripcion"`
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precio"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
}
