package server

import (
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/handlers"
	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/httpx"
	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	catalogo := services.NewCatalogoService(db)
	facturas := services.NewFacturaService(db)

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB check (SELECT 1)
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Cliente endpoints
	ch := handlers.NewClienteHandler(db, catalogo, facturas)
	mux.HandleFunc("GET /clientes", ch.List)
	mux.HandleFunc("GET /clientes/nuevo", ch.New)
	mux.HandleFunc("POST /clientes", ch.Create)
	mux.HandleFunc("GET /clientes/{id}/editar", ch.Edit)
	mux.HandleFunc("POST /clientes/{id}", ch.Update)
	mux.HandleFunc("POST /clientes/{id}/eliminar", ch.Delete)

	// Producto endpoints
	ph := handlers.NewProductoHandler(db, catalogo, facturas)
	mux.HandleFunc("GET /productos", ph.List)
	mux.HandleFunc("GET /productos/nuevo", ph.New)
	mux.HandleFunc("POST /productos", ph.Create)
	mux.HandleFunc("GET /productos/{id}/editar", ph.Edit)
	mux.HandleFunc("POST /productos/{id}", ph.Update)
	mux.HandleFunc("POST /productos/{id}/eliminar", ph.Delete)

	// Factura endpoints
	fh := handlers.NewFacturaHandler(catalogo, facturas)
	mux.HandleFunc("GET /facturas", fh.List)
	mux.HandleFunc("GET /facturas/nueva", fh.New)
	mux.HandleFunc("POST /facturas", fh.Create)
	mux.HandleFunc("GET /facturas/{id}", fh.View)

	// Root redirects to the invoice list, like the original screens.
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/facturas", http.StatusFound)
	})

	return withRecover(withLogging(mux))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic recovered: %v", rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
