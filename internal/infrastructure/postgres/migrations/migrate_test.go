package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/pkg/config"
)

func TestDriverURL(t *testing.T) {
	got, err := DriverURL("postgres://app:secret@db:5432/bizdesk?sslmode=disable", "schema_migrations_main")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://app:secret@db:5432/bizdesk?sslmode=disable&x-migrations-table=schema_migrations_main", got)

	_, err = DriverURL("mysql://db/x", "t")
	assert.Error(t, err)
}

func TestSets_AuxiliaresCaenAMain(t *testing.T) {
	cfg := config.DBConfig{DatabaseURL: "postgres://main", AnalyticsURL: "postgres://analytics"}
	sets := Sets(cfg)
	require.Len(t, sets, 4)
	assert.Equal(t, Set{Name: "main", URL: "postgres://main"}, sets[0])
	assert.Equal(t, Set{Name: "analytics", URL: "postgres://analytics"}, sets[1])
	assert.Equal(t, "postgres://main", sets[2].URL)
	assert.Equal(t, "postgres://main", sets[3].URL)
}

func TestEmbebidos_CadaConjuntoTieneUpYDown(t *testing.T) {
	for _, set := range []string{"main", "analytics", "documents", "compliance"} {
		up, err := fs.Glob(files, set+"/*.up.sql")
		require.NoError(t, err)
		down, err := fs.Glob(files, set+"/*.down.sql")
		require.NoError(t, err)
		assert.NotEmpty(t, up, set)
		assert.Len(t, down, len(up), set)
	}
}
