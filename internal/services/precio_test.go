package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// fakePrecios resolves prices from a fixed map, standing in for the catalog.
type fakePrecios map[uint]string

func (f fakePrecios) PrecioProducto(_ context.Context, id uint) (decimal.Decimal, error) {
	raw, ok := f[id]
	if !ok {
		return decimal.Zero, ErrNotFound
	}
	return decimal.RequireFromString(raw), nil
}

func TestPriceItemsExactDecimals(t *testing.T) {
	precios := fakePrecios{1: "100.00", 2: "101.00"}
	pairs := []ItemInput{
		{ProductoID: 1, Cantidad: decimal.RequireFromString("2")},
		{ProductoID: 2, Cantidad: decimal.RequireFromString("0.5")},
	}
	items, total, err := PriceItems(context.Background(), precios, pairs)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items got %d", len(items))
	}
	if !items[0].Subtotal.Equal(decimal.RequireFromString("200.00")) {
		t.Fatalf("item 0 subtotal: %s", items[0].Subtotal)
	}
	if !items[1].Subtotal.Equal(decimal.RequireFromString("50.50")) {
		t.Fatalf("item 1 subtotal: %s", items[1].Subtotal)
	}
	if !total.Equal(decimal.RequireFromString("250.50")) {
		t.Fatalf("total: %s", total)
	}
	// prices are snapshotted onto the items
	if !items[0].Precio.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("item 0 precio: %s", items[0].Precio)
	}
}

func TestPriceItemsNoBinaryFloatDrift(t *testing.T) {
	// 0.1 * 3 is inexact in binary floating point; decimals must be exact
	precios := fakePrecios{1: "0.10"}
	items, total, err := PriceItems(context.Background(), precios, []ItemInput{
		{ProductoID: 1, Cantidad: decimal.NewFromInt(3)},
	})
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if !items[0].Subtotal.Equal(decimal.RequireFromString("0.30")) {
		t.Fatalf("subtotal: %s", items[0].Subtotal)
	}
	if !total.Equal(decimal.RequireFromString("0.30")) {
		t.Fatalf("total: %s", total)
	}
}

func TestPriceItemsEmptyInput(t *testing.T) {
	items, total, err := PriceItems(context.Background(), fakePrecios{}, nil)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list got %d", len(items))
	}
	if !total.IsZero() {
		t.Fatalf("expected total 0 got %s", total)
	}
}

func TestPriceItemsAbortsOnUnknownProducto(t *testing.T) {
	precios := fakePrecios{1: "10.00"}
	pairs := []ItemInput{
		{ProductoID: 1, Cantidad: decimal.NewFromInt(1)},
		{ProductoID: 99, Cantidad: decimal.NewFromInt(1)},
	}
	items, _, err := PriceItems(context.Background(), precios, pairs)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
	if items != nil {
		t.Fatalf("expected no partial item list, got %d items", len(items))
	}
}

func TestPriceItemsPreservesOrder(t *testing.T) {
	precios := fakePrecios{1: "1.00", 2: "2.00", 3: "3.00"}
	pairs := []ItemInput{
		{ProductoID: 3, Cantidad: decimal.NewFromInt(1)},
		{ProductoID: 1, Cantidad: decimal.NewFromInt(1)},
		{ProductoID: 2, Cantidad: decimal.NewFromInt(1)},
	}
	items, _, err := PriceItems(context.Background(), precios, pairs)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	want := []uint{3, 1, 2}
	for i, it := range items {
		if it.ProductoID != want[i] {
			t.Fatalf("order not preserved at %d: got %d want %d", i, it.ProductoID, want[i])
		}
	}
}
