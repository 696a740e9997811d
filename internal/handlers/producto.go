package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/httpx"
	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/models"
	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/services"
	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/validation"
	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/view"
)

const productoEnUsoMsg = "No se puede eliminar el producto porque se encuentra en una factura."

type ProductoHandler struct {
	DB       *gorm.DB
	Catalogo *services.CatalogoService
	Facturas *services.FacturaService
}

func NewProductoHandler(db *gorm.DB, cat *services.CatalogoService, fac *services.FacturaService) *ProductoHandler {
	return &ProductoHandler{DB: db, Catalogo: cat, Facturas: fac}
}

// List: GET /productos – HTML or JSON
func (h *ProductoHandler) List(w http.ResponseWriter, r *http.Request) {
	productos, err := h.Catalogo.ListProductos(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_productos", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": productos, "total": len(productos)})
		return
	}
	_ = view.Render(w, r, "productos.html", map[string]any{"Productos": productos})
}

// New: GET /productos/nuevo
func (h *ProductoHandler) New(w http.ResponseWriter, r *http.Request) {
	_ = view.Render(w, r, "producto_form.html", map[string]any{"Producto": models.Producto{}})
}

// parseProductoForm reads the submitted fields; precio arrives as text and is
// parsed into an exact decimal.
func parseProductoForm(r *http.Request, v validation.Violations) models.Producto {
	producto := models.Producto{
		Nombre:      r.FormValue("nombre"),
		Descripcion: r.FormValue("descripcion"),
	}
	validation.Required("nombre", producto.Nombre, v)
	rawPrecio := strings.TrimSpace(r.FormValue("precio"))
	if rawPrecio == "" {
		v["precio"] = "required"
	} else if precio, err := decimal.NewFromString(rawPrecio); err != nil {
		v["precio"] = "invalid_number"
	} else {
		producto.Precio = precio
		validation.NonNegativeDecimal("precio", precio, v)
	}
	if rawStock := strings.TrimSpace(r.FormValue("stock")); rawStock != "" {
		if n, err := strconv.Atoi(rawStock); err == nil {
			producto.Stock = n
		} else {
			v["stock"] = "invalid_number"
		}
	}
	return producto
}

// Create: POST /productos – JSON or form
func (h *ProductoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var producto models.Producto
	v := make(validation.Violations)
	ct := r.Header.Get("Content-Type")
	if strings.Contains(ct, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&producto); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		validation.Required("nombre", producto.Nombre, v)
		validation.NonNegativeDecimal("precio", producto.Precio, v)
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
			return
		}
		producto = parseProductoForm(r, v)
	}
	producto.ID = 0

	if !v.Empty() {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		_ = view.Render(w, r, "producto_form.html", map[string]any{"Producto": producto, "Errors": v})
		return
	}
	if err := h.DB.WithContext(r.Context()).Create(&producto).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_producto", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, producto)
		return
	}
	http.Redirect(w, r, "/productos", http.StatusSeeOther)
}

// Edit: GET /productos/{id}/editar
func (h *ProductoHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	producto, err := h.Catalogo.GetProducto(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_producto", nil)
		return
	}
	_ = view.Render(w, r, "producto_form.html", map[string]any{"Producto": producto, "Edit": true})
}

// Update: POST /productos/{id}
func (h *ProductoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	existing, err := h.Catalogo.GetProducto(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_producto", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	v := make(validation.Violations)
	producto := parseProductoForm(r, v)
	producto.ID = existing.ID
	if strings.TrimSpace(r.FormValue("stock")) == "" {
		producto.Stock = existing.Stock
	}
	if !v.Empty() {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		_ = view.Render(w, r, "producto_form.html", map[string]any{"Producto": producto, "Errors": v, "Edit": true})
		return
	}
	if err := h.DB.WithContext(r.Context()).Save(&producto).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_producto", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, producto)
		return
	}
	http.Redirect(w, r, "/productos", http.StatusSeeOther)
}

// Delete: POST /productos/{id}/eliminar – guarded: a product referenced by
// any invoice line item is never deleted. The count check runs first; a
// foreign key violation from a racing insert is caught and translated into
// the same recoverable message instead of surfacing raw driver text.
func (h *ProductoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	count, err := h.Facturas.CountItemsPorProducto(r.Context(), id)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_check_producto", nil)
		return
	}
	if count > 0 {
		h.rejectDelete(w, r)
		return
	}
	if err := h.DB.WithContext(r.Context()).Delete(&models.Producto{}, id).Error; err != nil {
		var integrity *services.IntegrityError
		if errors.As(services.ClassifyWriteError("delete_producto", err), &integrity) {
			h.rejectDelete(w, r)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_producto", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
		return
	}
	http.Redirect(w, r, "/productos", http.StatusSeeOther)
}

func (h *ProductoHandler) rejectDelete(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		httpx.JSONError(w, http.StatusConflict, "producto_en_uso", productoEnUsoMsg)
		return
	}
	productos, _ := h.Catalogo.ListProductos(r.Context())
	_ = view.Render(w, r, "productos.html", map[string]any{"Productos": productos, "Error": productoEnUsoMsg})
}
