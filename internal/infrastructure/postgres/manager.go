package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/jhoicas/bizdesk-api/internal/infrastructure/metrics"
	"github.com/jhoicas/bizdesk-api/pkg/config"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

// Nombres de las bases lógicas.
const (
	StoreMain       = "main"
	StoreAnalytics  = "analytics"
	StoreDocuments  = "documents"
	StoreCompliance = "compliance"
	StoreReplica    = "replica"
)

const healthTimeout = 2 * time.Second

// tagStores mapea cada etiqueta de tipo de dato a su base lógica; el resto va a main.
var tagStores = map[string]string{
	"analytics":   StoreAnalytics,
	"metrics":     StoreAnalytics,
	"reports":     StoreAnalytics,
	"documents":   StoreDocuments,
	"files":       StoreDocuments,
	"attachments": StoreDocuments,
	"audit":       StoreCompliance,
	"logs":        StoreCompliance,
	"security":    StoreCompliance,
}

// DataTypeTags etiquetas reconocidas por ForDataType.
func DataTypeTags() []string {
	return []string{"analytics", "metrics", "reports", "documents", "files", "attachments", "audit", "logs", "security"}
}

// Pools handles ya abiertos; solo Main es obligatorio.
type Pools struct {
	Main       DB
	Analytics  DB
	Documents  DB
	Compliance DB
	Replica    DB

	// Unavailable bases auxiliares configuradas que no se pudieron abrir.
	// Caen a main pero HealthCheck las reporta como false.
	Unavailable []string
}

// Manager punto único de acceso a las bases. Las bases auxiliares no configuradas
// se resuelven a main una sola vez, al construirlo; ningún getter devuelve nil.
type Manager struct {
	handles    map[string]DB // resuelto: siempre contiene las cinco claves
	configured []string      // main + auxiliares con pool propio, en orden fijo
	failed     []string      // auxiliares configuradas que no abrieron
	log        *logger.Logger
	closeOnce  sync.Once
}

// NewManager abre main (obligatoria) y cada base auxiliar configurada.
// Si una auxiliar no abre, se registra el error y esa base cae a main.
func NewManager(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Manager, error) {
	opts := PoolOptions{MaxConns: int32(cfg.MaxConns), MinConns: int32(cfg.MinConns)}

	main, err := NewPool(ctx, cfg.ConnectionString(), opts)
	if err != nil {
		return nil, fmt.Errorf("base principal: %w", err)
	}

	pools := Pools{Main: main}
	open := func(store, url string) DB {
		if url == "" {
			return nil
		}
		p, err := NewPool(ctx, url, opts)
		if err != nil {
			log.Error().Err(err).Str("store", store).Msg("no se pudo abrir la base auxiliar, se usará main")
			pools.Unavailable = append(pools.Unavailable, store)
			return nil
		}
		return p
	}
	pools.Analytics = open(StoreAnalytics, cfg.AnalyticsURL)
	pools.Documents = open(StoreDocuments, cfg.DocumentsURL)
	pools.Compliance = open(StoreCompliance, cfg.ComplianceURL)
	pools.Replica = open(StoreReplica, cfg.ReadReplicaURL)

	return NewManagerFromPools(pools, log)
}

// NewManagerFromPools construye el manager con handles ya abiertos (tests, CLI).
func NewManagerFromPools(p Pools, log *logger.Logger) (*Manager, error) {
	if p.Main == nil {
		return nil, fmt.Errorf("db manager: la base principal es obligatoria")
	}
	if log == nil {
		log = logger.Nop()
	}
	m := &Manager{
		handles:    map[string]DB{StoreMain: p.Main},
		configured: []string{StoreMain},
		log:        log.Component("dbmanager"),
	}
	for _, aux := range []struct {
		store string
		db    DB
	}{
		{StoreAnalytics, p.Analytics},
		{StoreDocuments, p.Documents},
		{StoreCompliance, p.Compliance},
		{StoreReplica, p.Replica},
	} {
		if aux.db == nil {
			m.handles[aux.store] = p.Main
			if lo.Contains(p.Unavailable, aux.store) {
				m.failed = append(m.failed, aux.store)
				m.log.Warn().Str("store", aux.store).Msg("base configurada pero inaccesible, se usa main")
				continue
			}
			m.log.Info().Str("store", aux.store).Msg("base no configurada, se usa main")
			continue
		}
		m.handles[aux.store] = aux.db
		m.configured = append(m.configured, aux.store)
	}
	return m, nil
}

// Main base principal (escrituras transaccionales).
func (m *Manager) Main() DB { return m.handles[StoreMain] }

// Analytics base de eventos y métricas.
func (m *Manager) Analytics() DB { return m.handles[StoreAnalytics] }

// Documents base de metadatos y blobs de documentos.
func (m *Manager) Documents() DB { return m.handles[StoreDocuments] }

// Compliance base de auditoría.
func (m *Manager) Compliance() DB { return m.handles[StoreCompliance] }

// Read réplica de lectura si existe; si no, main.
func (m *Manager) Read() DB { return m.handles[StoreReplica] }

// Write siempre main.
func (m *Manager) Write() DB { return m.handles[StoreMain] }

// ForDataType elige la base según la etiqueta del dato. Nunca devuelve nil.
func (m *Manager) ForDataType(tag string) DB {
	if store, ok := tagStores[tag]; ok {
		return m.handles[store]
	}
	return m.Main()
}

// IsDedicated indica si la base lógica tiene pool propio (no cae a main).
func (m *Manager) IsDedicated(store string) bool {
	if store == StoreMain {
		return false
	}
	for _, s := range m.configured {
		if s == store {
			return true
		}
	}
	return false
}

// Configured nombres de las bases con pool propio, main incluida.
func (m *Manager) Configured() []string {
	out := make([]string, len(m.configured))
	copy(out, m.configured)
	return out
}

// HealthCheck hace ping a main y a cada auxiliar configurada, en paralelo y con timeout.
// Nunca devuelve error: una base caída aparece como false y queda en el log.
// Las auxiliares que no abrieron al arrancar se reportan siempre como false.
func (m *Manager) HealthCheck(ctx context.Context) map[string]bool {
	type result struct {
		store string
		ok    bool
	}
	results := make(chan result, len(m.configured))
	for _, store := range m.configured {
		go func(store string, db DB) {
			pingCtx, cancel := context.WithTimeout(ctx, healthTimeout)
			defer cancel()
			err := db.Ping(pingCtx)
			if err != nil {
				m.log.Warn().Err(err).Str("store", store).Msg("health check fallido")
			}
			results <- result{store: store, ok: err == nil}
		}(store, m.handles[store])
	}

	out := make(map[string]bool, len(m.configured)+len(m.failed))
	for range m.configured {
		r := <-results
		out[r.store] = r.ok
		metrics.SetDBUp(r.store, r.ok)
	}
	for _, store := range m.failed {
		out[store] = false
		metrics.SetDBUp(store, false)
	}
	return out
}

// CloseAll cierra cada pool distinto una sola vez. Llamadas repetidas no hacen nada.
func (m *Manager) CloseAll() {
	m.closeOnce.Do(func() {
		closed := make(map[DB]struct{}, len(m.configured))
		for _, store := range m.configured {
			db := m.handles[store]
			if _, done := closed[db]; done {
				continue
			}
			db.Close()
			closed[db] = struct{}{}
		}
		m.log.Info().Int("pools", len(closed)).Msg("conexiones cerradas")
	})
}
