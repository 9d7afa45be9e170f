package postgres

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB implementa DB sin conexión real; solo Ping y Close tienen comportamiento.
type fakeDB struct {
	name    string
	pingErr error
	closed  atomic.Int32
}

func (f *fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("not implemented")
}
func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row { return nil }
func (f *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeDB) Ping(context.Context) error { return f.pingErr }
func (f *fakeDB) Close()                     { f.closed.Add(1) }

func TestForDataType_SinAuxiliaresTodoVaAMain(t *testing.T) {
	main := &fakeDB{name: "main"}
	m, err := NewManagerFromPools(Pools{Main: main}, nil)
	require.NoError(t, err)

	for _, tag := range append(DataTypeTags(), "", "unknown") {
		db := m.ForDataType(tag)
		require.NotNil(t, db, tag)
		assert.Same(t, main, db, tag)
	}
	assert.Same(t, main, m.Read())
	assert.Same(t, main, m.Write())
}

func TestForDataType_BasesDedicadas(t *testing.T) {
	main := &fakeDB{name: "main"}
	analytics := &fakeDB{name: "analytics"}
	documents := &fakeDB{name: "documents"}
	compliance := &fakeDB{name: "compliance"}
	replica := &fakeDB{name: "replica"}
	m, err := NewManagerFromPools(Pools{
		Main: main, Analytics: analytics, Documents: documents, Compliance: compliance, Replica: replica,
	}, nil)
	require.NoError(t, err)

	want := map[string]*fakeDB{
		"analytics": analytics, "metrics": analytics, "reports": analytics,
		"documents": documents, "files": documents, "attachments": documents,
		"audit": compliance, "logs": compliance, "security": compliance,
		"users": main,
	}
	for tag, db := range want {
		assert.Same(t, db, m.ForDataType(tag), tag)
	}
	assert.Same(t, replica, m.Read())
	assert.Same(t, main, m.Write(), "las escrituras siempre van a main")
	assert.True(t, m.IsDedicated(StoreAnalytics))
}

func TestForDataType_SoloAnalyticsConfigurada(t *testing.T) {
	main := &fakeDB{}
	analytics := &fakeDB{}
	m, err := NewManagerFromPools(Pools{Main: main, Analytics: analytics}, nil)
	require.NoError(t, err)

	assert.Same(t, analytics, m.ForDataType("metrics"))
	assert.Same(t, main, m.ForDataType("files"))
	assert.Same(t, main, m.ForDataType("audit"))
	assert.False(t, m.IsDedicated(StoreDocuments))
}

func TestNewManagerFromPools_MainObligatoria(t *testing.T) {
	_, err := NewManagerFromPools(Pools{Analytics: &fakeDB{}}, nil)
	assert.Error(t, err)
}

func TestHealthCheck_SoloMain(t *testing.T) {
	m, err := NewManagerFromPools(Pools{Main: &fakeDB{}}, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{"main": true}, m.HealthCheck(context.Background()))
}

func TestHealthCheck_AuxiliarCaidaNoFalla(t *testing.T) {
	m, err := NewManagerFromPools(Pools{
		Main:      &fakeDB{},
		Analytics: &fakeDB{pingErr: errors.New("connection refused")},
		Replica:   &fakeDB{},
	}, nil)
	require.NoError(t, err)

	got := m.HealthCheck(context.Background())
	assert.Equal(t, map[string]bool{"main": true, "analytics": false, "replica": true}, got)
}

func TestCloseAll_CierraCadaPoolUnaVez(t *testing.T) {
	main := &fakeDB{}
	analytics := &fakeDB{}
	m, err := NewManagerFromPools(Pools{Main: main, Analytics: analytics, Documents: main}, nil)
	require.NoError(t, err)

	m.CloseAll()
	m.CloseAll()

	assert.Equal(t, int32(1), main.closed.Load())
	assert.Equal(t, int32(1), analytics.closed.Load())
}

func TestHealthCheck_AuxiliarInaccesibleAlArrancar(t *testing.T) {
	main := &fakeDB{name: "main"}
	m, err := NewManagerFromPools(Pools{Main: main, Unavailable: []string{StoreAnalytics}}, nil)
	require.NoError(t, err)

	assert.Same(t, main, m.Analytics(), "las escrituras caen a main")
	assert.False(t, m.IsDedicated(StoreAnalytics))

	got := m.HealthCheck(context.Background())
	assert.Equal(t, map[string]bool{"main": true, "analytics": false}, got)
}
