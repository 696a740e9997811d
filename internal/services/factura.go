package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/models"
	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/validation"
)

// FacturaService owns the invoice workflow: number allocation, the
// all-or-nothing creation transaction, retrieval, and the dependent-row
// counts backing the deletion guards.
type FacturaService struct {
	DB *gorm.DB
}

func NewFacturaService(db *gorm.DB) *FacturaService { return &FacturaService{DB: db} }

// nextNumero advances the invoice number counter exactly once inside the
// given transaction and formats the display identifier. Postgres uses the
// native sequence; other dialects use the secuencias row, whose
// UPDATE..RETURNING is atomic under the store's own locking.
func nextNumero(tx *gorm.DB) (string, error) {
	var n int64
	if tx.Dialector.Name() == "postgres" {
		if err := tx.Raw("SELECT nextval('factura_numero_seq')").Scan(&n).Error; err != nil {
			return "", err
		}
	} else {
		res := tx.Raw("UPDATE secuencias SET valor = valor + 1 WHERE nombre = ? RETURNING valor", "factura_numero").Scan(&n)
		if res.Error != nil {
			return "", res.Error
		}
		if res.RowsAffected == 0 {
			return "", errors.New("secuencia factura_numero no inicializada")
		}
	}
	return fmt.Sprintf("FACT-%d", n), nil
}

// NextNumero allocates an invoice number in its own short transaction.
// CreateFactura allocates inside its creation transaction instead; this
// entry point exists for callers that only need a number.
func (s *FacturaService) NextNumero(ctx context.Context) (string, error) {
	var numero string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e error
		numero, e = nextNumero(tx)
		return e
	})
	if err != nil {
		return "", classifyWriteError("next_numero", err)
	}
	return numero, nil
}

// CreateFactura persists the invoice header and all pre-priced items in a
// single transaction: number allocation, header insert, item inserts. Any
// failure rolls back the whole operation; no header without its items is
// ever visible. Zero items is legal and yields a header with no item rows.
func (s *FacturaService) CreateFactura(ctx context.Context, clienteID uint, items []models.FacturaItem, total decimal.Decimal) (uint, error) {
	if clienteID == 0 {
		return 0, &ValidationError{Violations: validation.Violations{"cliente_id": "required"}}
	}
	var facturaID uint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		numero, err := nextNumero(tx)
		if err != nil {
			return err
		}
		factura := models.Factura{Numero: numero, ClienteID: clienteID, Total: total}
		if err := tx.Omit("Cliente", "Items").Create(&factura).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].FacturaID = factura.ID
		}
		if len(items) > 0 {
			if err := tx.Omit("Producto").Create(&items).Error; err != nil {
				return err
			}
		}
		facturaID = factura.ID
		return nil
	})
	if err != nil {
		return 0, classifyWriteError("create_factura", err)
	}
	return facturaID, nil
}

// GetFactura loads the header with its client plus all items with their
// products. Returns ErrNotFound when the id does not exist.
func (s *FacturaService) GetFactura(ctx context.Context, id uint) (*models.Factura, error) {
	var factura models.Factura
	err := s.DB.WithContext(ctx).
		Preload("Cliente").
		Preload("Items.Producto").
		First(&factura, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StorageError{Op: "get_factura", Err: err}
	}
	return &factura, nil
}

// ListFacturas returns all invoice headers with their clients, newest first.
func (s *FacturaService) ListFacturas(ctx context.Context) ([]models.Factura, error) {
	var facturas []models.Factura
	if err := s.DB.WithContext(ctx).Preload("Cliente").Order("fecha desc, id desc").Find(&facturas).Error; err != nil {
		return nil, &StorageError{Op: "list_facturas", Err: err}
	}
	return facturas, nil
}

// CountFacturasPorCliente backs the client deletion guard.
func (s *FacturaService) CountFacturasPorCliente(ctx context.Context, clienteID uint) (int64, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Factura{}).Where("cliente_id = ?", clienteID).Count(&count).Error; err != nil {
		return 0, &StorageError{Op: "count_facturas_por_cliente", Err: err}
	}
	return count, nil
}

// CountItemsPorProducto backs the product deletion guard.
func (s *FacturaService) CountItemsPorProducto(ctx context.Context, productoID uint) (int64, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.FacturaItem{}).Where("producto_id = ?", productoID).Count(&count).Error; err != nil {
		return 0, &StorageError{Op: "count_items_por_producto", Err: err}
	}
	return count, nil
}

// ClassifyWriteError exposes the driver-error classification to the handler
// layer, which needs it to translate constraint violations on deletes into
// recoverable user-facing messages instead of raw driver text.
func ClassifyWriteError(op string, err error) error { return classifyWriteError(op, err) }
