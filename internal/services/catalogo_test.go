package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/db"
	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/models"
)

func setupCatalogoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func TestListClientesOrderedByNombre(t *testing.T) {
	gdb := setupCatalogoTestDB(t)
	for _, nombre := range []string{"Zeta", "Alfa", "Media"} {
		if err := gdb.Create(&models.Cliente{Nombre: nombre}).Error; err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	svc := NewCatalogoService(gdb)
	clientes, err := svc.ListClientes(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(clientes) != 3 {
		t.Fatalf("expected 3 clientes got %d", len(clientes))
	}
	want := []string{"Alfa", "Media", "Zeta"}
	for i, c := range clientes {
		if c.Nombre != want[i] {
			t.Fatalf("order at %d: got %s want %s", i, c.Nombre, want[i])
		}
	}
}

func TestListProductosOrderedByNombre(t *testing.T) {
	gdb := setupCatalogoTestDB(t)
	for _, nombre := range []string{"Tornillo", "Arandela"} {
		if err := gdb.Create(&models.Producto{Nombre: nombre, Precio: decimal.NewFromInt(1)}).Error; err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	svc := NewCatalogoService(gdb)
	productos, err := svc.ListProductos(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(productos) != 2 || productos[0].Nombre != "Arandela" {
		t.Fatalf("unexpected order: %+v", productos)
	}
}

func TestPrecioProducto(t *testing.T) {
	gdb := setupCatalogoTestDB(t)
	producto := models.Producto{Nombre: "Producto A", Precio: decimal.RequireFromString("10.50")}
	if err := gdb.Create(&producto).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	svc := NewCatalogoService(gdb)

	precio, err := svc.PrecioProducto(context.Background(), producto.ID)
	if err != nil {
		t.Fatalf("precio: %v", err)
	}
	if !precio.Equal(decimal.RequireFromString("10.50")) {
		t.Fatalf("expected 10.50 got %s", precio)
	}

	_, err = svc.PrecioProducto(context.Background(), 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}
