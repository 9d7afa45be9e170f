package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 1024, cfg.Analytics.QueueSize)
	assert.Empty(t, cfg.DB.AnalyticsURL, "las bases auxiliares son opcionales")
	assert.False(t, cfg.S3.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestFromViper_LeeURLsAuxiliares(t *testing.T) {
	v := viper.New()
	v.Set("DATABASE_URL", "postgres://main")
	v.Set("ANALYTICS_DATABASE_URL", "postgres://analytics")
	v.Set("READ_REPLICA_DATABASE_URL", "postgres://replica")
	v.Set("DB_PORT", "6543")

	cfg := fromViper(v)
	assert.Equal(t, "postgres://main", cfg.DB.ConnectionString())
	assert.Equal(t, "postgres://analytics", cfg.DB.AnalyticsURL)
	assert.Equal(t, "postgres://replica", cfg.DB.ReadReplicaURL)
	assert.Equal(t, 6543, cfg.DB.Port)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "bizdesk", SSLMode: "disable"}
	dsn := c.DSN()
	assert.True(t, strings.HasPrefix(dsn, "postgres://app:p%40ss%2Fword@db:5432/bizdesk"))
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestValidate_ProduccionExigeSecretos(t *testing.T) {
	cfg := fromViper(viper.New())
	cfg.App.Env = "production"
	assert.Error(t, cfg.Validate(), "sin JWT_SECRET en producción debe fallar")

	cfg.JWT.Secret = "s3cret"
	assert.Error(t, cfg.Validate(), "sin PII_ENCRYPTION_KEY en producción debe fallar")

	cfg.PII.EncryptionKey = strings.Repeat("ab", 32)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ClavePIIMalformada(t *testing.T) {
	cfg := fromViper(viper.New())
	cfg.PII.EncryptionKey = "not-hex"
	assert.Error(t, cfg.Validate())
}
