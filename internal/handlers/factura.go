package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/httpx"
	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/services"
	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/validation"
	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/view"
)

type FacturaHandler struct {
	Catalogo *services.CatalogoService
	Facturas *services.FacturaService
}

func NewFacturaHandler(cat *services.CatalogoService, fac *services.FacturaService) *FacturaHandler {
	return &FacturaHandler{Catalogo: cat, Facturas: fac}
}

// List: GET /facturas – HTML or JSON
func (h *FacturaHandler) List(w http.ResponseWriter, r *http.Request) {
	facturas, err := h.Facturas.ListFacturas(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_facturas", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": facturas, "total": len(facturas)})
		return
	}
	_ = view.Render(w, r, "facturas.html", map[string]any{"Facturas": facturas})
}

// New: GET /facturas/nueva – the creation form, fed by the catalog.
func (h *FacturaHandler) New(w http.ResponseWriter, r *http.Request) {
	clientes, err := h.Catalogo.ListClientes(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clientes", nil)
		return
	}
	productos, err := h.Catalogo.ListProductos(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_productos", nil)
		return
	}
	_ = view.Render(w, r, "nueva_factura.html", map[string]any{
		"Clientes":  clientes,
		"Productos": productos,
		"Lineas":    []int{1, 2, 3, 4, 5},
	})
}

type facturaItemReq struct {
	ProductoID uint            `json:"producto_id"`
	Cantidad   decimal.Decimal `json:"cantidad"`
}

type facturaCreateReq struct {
	ClienteID uint             `json:"cliente_id"`
	Items     []facturaItemReq `json:"items"`
}

// parseCreate accepts either JSON or the form's parallel producto_id[] /
// cantidad[] fields, folding the latter into an ordered pair list. Rows with
// both fields empty are skipped, matching how the fixed-slot form submits.
func parseCreate(r *http.Request) (facturaCreateReq, error) {
	var req facturaCreateReq
	ct := r.Header.Get("Content-Type")
	if strings.Contains(ct, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, fmt.Errorf("invalid json: %w", err)
		}
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return req, fmt.Errorf("invalid form: %w", err)
	}
	if v := r.Form.Get("cliente_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			req.ClienteID = uint(id)
		}
	}
	ids := r.Form["producto_id"]
	cantidades := r.Form["cantidad"]
	for i, rawID := range ids {
		rawCantidad := ""
		if i < len(cantidades) {
			rawCantidad = strings.TrimSpace(cantidades[i])
		}
		rawID = strings.TrimSpace(rawID)
		if rawID == "" && rawCantidad == "" {
			continue
		}
		item := facturaItemReq{}
		if id, err := strconv.ParseUint(rawID, 10, 32); err == nil {
			item.ProductoID = uint(id)
		}
		if c, err := decimal.NewFromString(rawCantidad); err == nil {
			item.Cantidad = c
		}
		req.Items = append(req.Items, item)
	}
	return req, nil
}

// Create: POST /facturas – price the submitted pairs, then persist header and
// items in one transaction. Storage/integrity failures are reported distinct
// from validation failures: they indicate an environment problem, not bad
// input, and never leave partial data behind.
func (h *FacturaHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := parseCreate(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_request", nil)
		return
	}

	v := make(validation.Violations)
	if req.ClienteID == 0 {
		v["cliente_id"] = "required"
	}
	for i, item := range req.Items {
		if item.ProductoID == 0 {
			v[fmt.Sprintf("items[%d].producto_id", i)] = "required"
		}
		if item.Cantidad.Sign() <= 0 {
			v[fmt.Sprintf("items[%d].cantidad", i)] = "must_be_positive"
		}
	}
	if !v.Empty() {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		h.renderFormError(w, r, "Revise los datos del formulario.")
		return
	}

	pairs := make([]services.ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		pairs = append(pairs, services.ItemInput{ProductoID: item.ProductoID, Cantidad: item.Cantidad})
	}
	items, total, err := services.PriceItems(r.Context(), h.Catalogo, pairs)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			if wantsJSON(r) {
				httpx.JSONError(w, http.StatusBadRequest, "producto_no_encontrado", nil)
				return
			}
			h.renderFormError(w, r, "Uno de los productos seleccionados no existe.")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_price_items", nil)
		return
	}

	facturaID, err := h.Facturas.CreateFactura(r.Context(), req.ClienteID, items, total)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			if wantsJSON(r) {
				httpx.JSONError(w, http.StatusBadRequest, "validation_failed", verr.Violations)
				return
			}
			h.renderFormError(w, r, "Revise los datos del formulario.")
			return
		}
		var integrity *services.IntegrityError
		if errors.As(err, &integrity) {
			if wantsJSON(r) {
				httpx.JSONError(w, http.StatusConflict, "integrity_violation", integrity.Constraint)
				return
			}
			h.renderFormError(w, r, "No se pudo guardar la factura: referencia inválida.")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_factura", nil)
		return
	}

	if wantsJSON(r) {
		factura, err := h.Facturas.GetFactura(r.Context(), facturaID)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_factura", nil)
			return
		}
		httpx.JSON(w, http.StatusCreated, map[string]any{
			"id":     factura.ID,
			"numero": factura.Numero,
			"total":  factura.Total,
		})
		return
	}
	http.Redirect(w, r, "/facturas/"+strconv.Itoa(int(facturaID)), http.StatusSeeOther)
}

// View: GET /facturas/{id} – header joined with the client plus items joined
// with their products; a nonexistent id is a plain 404.
func (h *FacturaHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	factura, err := h.Facturas.GetFactura(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			if wantsJSON(r) {
				httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
				return
			}
			http.NotFound(w, r)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_factura", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, factura)
		return
	}
	_ = view.Render(w, r, "ver_factura.html", map[string]any{"Factura": factura})
}

func (h *FacturaHandler) renderFormError(w http.ResponseWriter, r *http.Request, msg string) {
	clientes, _ := h.Catalogo.ListClientes(r.Context())
	productos, _ := h.Catalogo.ListProductos(r.Context())
	_ = view.Render(w, r, "nueva_factura.html", map[string]any{
		"Clientes":  clientes,
		"Productos": productos,
		"Lineas":    []int{1, 2, 3, 4, 5},
		"Error":     msg,
	})
}
