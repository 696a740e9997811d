package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/models"
)

// CatalogoService exposes the read queries the invoice workflow depends on:
// listing clients and products for the creation form and resolving the
// current price of a product during submission.
type CatalogoService struct {
	DB *gorm.DB
}

func NewCatalogoService(db *gorm.DB) *CatalogoService { return &CatalogoService{DB: db} }

// ListClientes returns all clients ordered by name.
func (s *CatalogoService) ListClientes(ctx context.Context) ([]models.Cliente, error) {
	var clientes []models.Cliente
	if err := s.DB.WithContext(ctx).Order("nombre asc").Find(&clientes).Error; err != nil {
		return nil, &StorageError{Op: "list_clientes", Err: err}
	}
	return clientes, nil
}

// ListProductos returns all products ordered by name.
func (s *CatalogoService) ListProductos(ctx context.Context) ([]models.Producto, error) {
	var productos []models.Producto
	if err := s.DB.WithContext(ctx).Order("nombre asc").Find(&productos).Error; err != nil {
		return nil, &StorageError{Op: "list_productos", Err: err}
	}
	return productos, nil
}

// PrecioProducto resolves the current unit price of a product.
// Returns ErrNotFound when no such product exists.
func (s *CatalogoService) PrecioProducto(ctx context.Context, id uint) (decimal.Decimal, error) {
	var producto models.Producto
	err := s.DB.WithContext(ctx).Select("id", "precio").First(&producto, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, &StorageError{Op: "precio_producto", Err: err}
	}
	return producto.Precio, nil
}

// GetCliente loads a single client by id, for the edit form.
func (s *CatalogoService) GetCliente(ctx context.Context, id uint) (*models.Cliente, error) {
	var cliente models.Cliente
	err := s.DB.WithContext(ctx).First(&cliente, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StorageError{Op: "get_cliente", Err: err}
	}
	return &cliente, nil
}

// GetProducto loads a single product by id, for the edit form.
func (s *CatalogoService) GetProducto(ctx context.Context, id uint) (*models.Producto, error) {
	var producto models.Producto
	err := s.DB.WithContext(ctx).First(&producto, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StorageError{Op: "get_producto", Err: err}
	}
	return &producto, nil
}
