package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/httpx"
	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/models"
	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/services"
	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/validation"
	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/view"
)

const clienteEnUsoMsg = "No se puede eliminar el cliente porque tiene facturas asociadas."

type ClienteHandler struct {
	DB       *gorm.DB
	Catalogo *services.CatalogoService
	Facturas *services.FacturaService
}

func NewClienteHandler(db *gorm.DB, cat *services.CatalogoService, fac *services.FacturaService) *ClienteHandler {
	return &ClienteHandler{DB: db, Catalogo: cat, Facturas: fac}
}

// List: GET /clientes – HTML or JSON
func (h *ClienteHandler) List(w http.ResponseWriter, r *http.Request) {
	clientes, err := h.Catalogo.ListClientes(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clientes", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": clientes, "total": len(clientes)})
		return
	}
	_ = view.Render(w, r, "clientes.html", map[string]any{"Clientes": clientes})
}

// New: GET /clientes/nuevo
func (h *ClienteHandler) New(w http.ResponseWriter, r *http.Request) {
	_ = view.Render(w, r, "cliente_form.html", map[string]any{"Cliente": models.Cliente{}})
}

// Create: POST /clientes – JSON or form
func (h *ClienteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cliente models.Cliente
	ct := r.Header.Get("Content-Type")
	if strings.Contains(ct, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&cliente); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
			return
		}
		cliente = models.Cliente{
			Nombre:    r.FormValue("nombre"),
			Direccion: r.FormValue("direccion"),
			Telefono:  r.FormValue("telefono"),
			Email:     r.FormValue("email"),
		}
	}
	cliente.ID = 0

	v := make(validation.Violations)
	validation.Required("nombre", cliente.Nombre, v)
	if !v.Empty() {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		_ = view.Render(w, r, "cliente_form.html", map[string]any{"Cliente": cliente, "Errors": v})
		return
	}

	if err := h.DB.WithContext(r.Context()).Create(&cliente).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_cliente", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, cliente)
		return
	}
	http.Redirect(w, r, "/clientes", http.StatusSeeOther)
}

// Edit: GET /clientes/{id}/editar
func (h *ClienteHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	cliente, err := h.Catalogo.GetCliente(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_cliente", nil)
		return
	}
	_ = view.Render(w, r, "cliente_form.html", map[string]any{"Cliente": cliente, "Edit": true})
}

// Update: POST /clientes/{id} – in-place update of the four display fields.
func (h *ClienteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	cliente, err := h.Catalogo.GetCliente(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_cliente", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	cliente.Nombre = r.FormValue("nombre")
	cliente.Direccion = r.FormValue("direccion")
	cliente.Telefono = r.FormValue("telefono")
	cliente.Email = r.FormValue("email")

	v := make(validation.Violations)
	validation.Required("nombre", cliente.Nombre, v)
	if !v.Empty() {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		_ = view.Render(w, r, "cliente_form.html", map[string]any{"Cliente": cliente, "Errors": v, "Edit": true})
		return
	}
	if err := h.DB.WithContext(r.Context()).Save(cliente).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_cliente", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, cliente)
		return
	}
	http.Redirect(w, r, "/clientes", http.StatusSeeOther)
}

// Delete: POST /clientes/{id}/eliminar – guarded: a client referenced by any
// invoice is never deleted; the attempt yields a recoverable message, with
// the store's foreign key as backstop.
func (h *ClienteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	count, err := h.Facturas.CountFacturasPorCliente(r.Context(), id)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_check_cliente", nil)
		return
	}
	if count > 0 {
		h.rejectDelete(w, r)
		return
	}
	if err := h.DB.WithContext(r.Context()).Delete(&models.Cliente{}, id).Error; err != nil {
		var integrity *services.IntegrityError
		if errors.As(services.ClassifyWriteError("delete_cliente", err), &integrity) {
			h.rejectDelete(w, r)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_cliente", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
		return
	}
	http.Redirect(w, r, "/clientes", http.StatusSeeOther)
}

func (h *ClienteHandler) rejectDelete(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		httpx.JSONError(w, http.StatusConflict, "cliente_en_uso", clienteEnUsoMsg)
		return
	}
	clientes, _ := h.Catalogo.ListClientes(r.Context())
	_ = view.Render(w, r, "clientes.html", map[string]any{"Clientes": clientes, "Error": clienteEnUsoMsg})
}
