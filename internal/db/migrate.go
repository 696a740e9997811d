package db

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/luisfabellid0/Test-Modulo-Facturacion-sub000/internal/models"
)

// NumeroSeqStart is the first invoice number handed out by the counter.
const NumeroSeqStart = 1000

func ConnectAndMigrate() (*gorm.DB, error) {
	dsn := GetNormalizedDSN()
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN está vacío, revise la configuración del entorno")
	}
	var gdb *gorm.DB
	var err error
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}
	for i := 0; i < 10; i++ {
		gdb, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			break
		}
		fmt.Println("Retrying DB connection...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	// Basic connectivity test
	if pingErr := gdb.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	// Print masked DSN once for diagnostics (before migrations for visibility)
	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)([^\s]+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	fmt.Println("[DB] Using DSN:", masked)

	// If MIGRATIONS=1 (or true) we run sql migrations via golang-migrate;
	// otherwise keep the AutoMigrate fallback (dev convenience).
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrateAll(gdb); err != nil {
			return nil, err
		}
		if err := EnsureNumeroCounter(gdb); err != nil {
			return nil, err
		}
	}

	// sanity check: ensure required core tables exist
	for _, table := range []string{"clientes", "productos", "facturas", "factura_items"} {
		if !gdb.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	// Seeding only when explicitly requested (e.g. development) via DB_SEED=1|true
	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		seed(gdb)
	}
	return gdb, nil
}

// AutoMigrateAll creates/updates the schema from the models. The SQL
// migrations under ./migrations are the source of truth in production;
// this path exists for dev and for sqlite test databases.
func AutoMigrateAll(gdb *gorm.DB) error {
	modelsToMigrate := []interface{}{
		&models.Cliente{}, &models.Producto{}, &models.Factura{}, &models.FacturaItem{}, &models.Secuencia{},
	}
	for _, m := range modelsToMigrate {
		if migErr := gdb.AutoMigrate(m); migErr != nil {
			return fmt.Errorf("automigrate %T: %w", m, migErr)
		}
	}
	return nil
}

// EnsureNumeroCounter makes sure the invoice number counter exists and starts
// at NumeroSeqStart. Postgres gets a native sequence; other dialects get a
// secuencias row seeded one below the start so the first advance returns it.
func EnsureNumeroCounter(gdb *gorm.DB) error {
	if gdb.Dialector.Name() == "postgres" {
		return gdb.Exec(fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS factura_numero_seq START WITH %d", NumeroSeqStart)).Error
	}
	var existing models.Secuencia
	err := gdb.Where("nombre = ?", "factura_numero").First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return gdb.Create(&models.Secuencia{Nombre: "factura_numero", Valor: NumeroSeqStart - 1}).Error
	}
	return err
}

func seed(gdb *gorm.DB) {
	var count int64
	gdb.Model(&models.Cliente{}).Count(&count)
	if count > 0 {
		return
	}
	clientes := []models.Cliente{
		{Nombre: "Cliente Uno", Direccion: "Calle 123", Telefono: "555-1234", Email: "cliente1@example.com"},
		{Nombre: "Cliente Dos", Direccion: "Avenida 456", Telefono: "555-5678", Email: "cliente2@example.com"},
		{Nombre: "Cliente Tres", Direccion: "Boulevard 789", Telefono: "555-9012", Email: "cliente3@example.com"},
	}
	for _, c := range clientes {
		gdb.Create(&c)
	}
	productos := []models.Producto{
		{Nombre: "Producto A", Descripcion: "Descripción producto A", Precio: decimal.RequireFromString("10.50")},
		{Nombre: "Producto B", Descripcion: "Descripción producto B", Precio: decimal.RequireFromString("25.75")},
		{Nombre: "Producto C", Descripcion: "Descripción producto C", Precio: decimal.RequireFromString("5.99")},
		{Nombre: "Producto D", Descripcion: "Descripción producto D", Precio: decimal.RequireFromString("100.00")},
		{Nombre: "Producto E", Descripcion: "Descripción producto E", Precio: decimal.RequireFromString("15.25")},
	}
	for _, p := range productos {
		gdb.Create(&p)
	}
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
