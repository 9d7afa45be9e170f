// Package migrations aplica los esquemas SQL embebidos, un conjunto por base lógica.
// Cada conjunto lleva su propia tabla de versiones, así que las bases auxiliares que
// caen a main pueden migrarse sobre la misma base sin pisarse.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/jhoicas/bizdesk-api/pkg/config"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

//go:embed main/*.sql analytics/*.sql documents/*.sql compliance/*.sql
var files embed.FS

// Set conjunto de migraciones para una base lógica.
type Set struct {
	Name string // main, analytics, documents, compliance
	URL  string // URL de la base destino (ya resuelta: main si la auxiliar no existe)
}

// Sets resuelve el destino de cada conjunto a partir de la configuración.
func Sets(cfg config.DBConfig) []Set {
	main := cfg.ConnectionString()
	pick := func(u string) string {
		if u == "" {
			return main
		}
		return u
	}
	return []Set{
		{Name: "main", URL: main},
		{Name: "analytics", URL: pick(cfg.AnalyticsURL)},
		{Name: "documents", URL: pick(cfg.DocumentsURL)},
		{Name: "compliance", URL: pick(cfg.ComplianceURL)},
	}
}

// Migrator envuelve golang-migrate para un conjunto.
type Migrator struct {
	set     string
	migrate *migrate.Migrate
	log     *logger.Logger
}

// New crea el migrador del conjunto usando el driver pgx/v5 y la fuente embebida.
func New(set Set, log *logger.Logger) (*Migrator, error) {
	src, err := iofs.New(files, set.Name)
	if err != nil {
		return nil, fmt.Errorf("migraciones %s: fuente: %w", set.Name, err)
	}
	dbURL, err := DriverURL(set.URL, "schema_migrations_"+set.Name)
	if err != nil {
		return nil, fmt.Errorf("migraciones %s: %w", set.Name, err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return nil, fmt.Errorf("migraciones %s: instancia: %w", set.Name, err)
	}
	return &Migrator{set: set.Name, migrate: m, log: log.Component("migrate")}, nil
}

// DriverURL traduce una URL postgres:// al esquema pgx5:// del driver y fija la tabla de versiones.
func DriverURL(raw, versionTable string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("URL inválida: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql", "pgx5":
		u.Scheme = "pgx5"
	default:
		return "", fmt.Errorf("esquema no soportado: %q", u.Scheme)
	}
	q := u.Query()
	q.Set("x-migrations-table", versionTable)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Up aplica las migraciones pendientes.
func (m *Migrator) Up() error {
	err := m.migrate.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info().Str("set", m.set).Msg("sin migraciones pendientes")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migraciones %s: up: %w", m.set, err)
	}
	version, dirty, _ := m.Version()
	m.log.Info().Str("set", m.set).Uint("version", version).Bool("dirty", dirty).Msg("migraciones aplicadas")
	return nil
}

// Down revierte todas las migraciones del conjunto.
func (m *Migrator) Down() error {
	err := m.migrate.Down()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("migraciones %s: down: %w", m.set, err)
	}
	m.log.Warn().Str("set", m.set).Msg("migraciones revertidas")
	return nil
}

// Version versión actual; 0 si nunca se migró.
func (m *Migrator) Version() (uint, bool, error) {
	v, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migraciones %s: version: %w", m.set, err)
	}
	return v, dirty, nil
}

// Close libera la fuente y la conexión.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.migrate.Close()
	return errors.Join(srcErr, dbErr)
}

// UpAll aplica todos los conjuntos en orden; se detiene en el primer error.
func UpAll(cfg config.DBConfig, log *logger.Logger) error {
	for _, set := range Sets(cfg) {
		m, err := New(set, log)
		if err != nil {
			return err
		}
		err = m.Up()
		_ = m.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
