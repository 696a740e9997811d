package db

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/models"
)

func TestEnsureNumeroCounterIdempotent(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open("file:counter_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := AutoMigrateAll(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := EnsureNumeroCounter(gdb); err != nil {
		t.Fatalf("counter: %v", err)
	}
	if err := EnsureNumeroCounter(gdb); err != nil {
		t.Fatalf("counter second run: %v", err)
	}
	var seq models.Secuencia
	if err := gdb.Where("nombre = ?", "factura_numero").First(&seq).Error; err != nil {
		t.Fatalf("load counter: %v", err)
	}
	if seq.Valor != NumeroSeqStart-1 {
		t.Fatalf("expected counter at %d got %d", NumeroSeqStart-1, seq.Valor)
	}
}

func TestSeedIdempotent(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open("file:seed_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := AutoMigrateAll(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	seed(gdb)
	seed(gdb)
	var clienteCount, productoCount int64
	gdb.Model(&models.Cliente{}).Count(&clienteCount)
	gdb.Model(&models.Producto{}).Count(&productoCount)
	if clienteCount != 3 {
		t.Fatalf("expected 3 clientes got %d", clienteCount)
	}
	if productoCount != 5 {
		t.Fatalf("expected 5 productos got %d", productoCount)
	}
}
