package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/models"
)

// ItemInput is one submitted (product, quantity) pair. Quantities may be
// fractional (0.5 units is legal).
type ItemInput struct {
	ProductoID uint
	Cantidad   decimal.Decimal
}

// PrecioResolver resolves the current unit price of a product.
// CatalogoService satisfies it; tests may substitute their own.
type PrecioResolver interface {
	PrecioProducto(ctx context.Context, id uint) (decimal.Decimal, error)
}

// PriceItems resolves the unit price of each submitted pair in order,
// computes subtotal = cantidad * precio with exact decimal arithmetic, and
// accumulates the invoice total. Any resolution failure aborts the whole
// pass; no partial item list is returned. Empty input yields an empty list
// and total 0.
func PriceItems(ctx context.Context, precios PrecioResolver, pairs []ItemInput) ([]models.FacturaItem, decimal.Decimal, error) {
	items := make([]models.FacturaItem, 0, len(pairs))
	total := decimal.Zero
	for _, pair := range pairs {
		precio, err := precios.PrecioProducto(ctx, pair.ProductoID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		subtotal := pair.Cantidad.Mul(precio)
		items = append(items, models.FacturaItem{
			ProductoID: pair.ProductoID,
			Cantidad:   pair.Cantidad,
			Precio:     precio,
			Subtotal:   subtotal,
		})
		total = total.Add(subtotal)
	}
	return items, total, nil
}
