package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoicing models. A Factura is immutable once created: the creation
// transaction writes the header and all items, and no update path exists.
type Factura struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Numero    string          `gorm:"size:20;not null;uniqueIndex" json:"numero"`
	Fecha     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"fecha"`
	ClienteID uint            `gorm:"not null;index" json:"cliente_id"`
	Cliente   Cliente         `gorm:"foreignKey:ClienteID" json:"cliente"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Items     []FacturaItem   `gorm:"foreignKey:FacturaID" json:"items"`
}

// FacturaItem snapshots the product price at creation time; Precio is not a
// live reference to the product's current price.
type FacturaItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	FacturaID  uint            `gorm:"not null;index" json:"factura_id"`
	ProductoID uint            `gorm:"not null;index" json:"producto_id"`
	Producto   Producto        `gorm:"foreignKey:ProductoID" json:"producto"`
	Cantidad   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cantidad"`
	Precio     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precio"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
}
