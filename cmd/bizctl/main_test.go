package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_RegistraSubcomandos(t *testing.T) {
	names := make([]string, 0)
	for _, c := range newRootCmd().Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"migrate", "seed", "metrics"})
}

func TestMigrate_ConjuntoDesconocido(t *testing.T) {
	_, err := execute(t, "migrate", "version", "--set", "billing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "billing")
}

func TestMetricsRollup_FechaInvalida(t *testing.T) {
	_, err := execute(t, "metrics", "rollup", "--date", "31/01/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestSeed_RechazaArgumentos(t *testing.T) {
	_, err := execute(t, "seed", "extra")
	require.Error(t, err)
}
