package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Redis     RedisConfig
	S3        S3Config
	Stripe    StripeConfig
	Analytics AnalyticsConfig
	PII       PIIConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// IsDevelopment indica si la app corre en modo desarrollo.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
// Las URLs auxiliares (analytics, documents, compliance, réplica) son opcionales:
// si faltan, el router de bases de datos usa la principal.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string

	AnalyticsURL   string
	DocumentsURL   string
	ComplianceURL  string
	ReadReplicaURL string

	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret             string
	Expiration         int // minutos
	Issuer             string
	LoginRatePerMinute int
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	BodyLimitMB int
	CORSOrigins string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig conexión opcional a Redis (idempotencia de pagos).
type RedisConfig struct {
	URL string
}

// Enabled indica si hay Redis configurado.
func (c RedisConfig) Enabled() bool { return c.URL != "" }

// S3Config almacenamiento de documentos compatible con S3 (AWS, MinIO).
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// Enabled indica si hay bucket configurado. Sin bucket los blobs van a la base de documentos.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// StripeConfig claves de Stripe para el checkout.
type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	Currency       string
}

// AnalyticsConfig pipeline de eventos y rollups periódicos.
type AnalyticsConfig struct {
	QueueSize     int
	Workers       int
	RollupEnabled bool
	DailyCron     string
}

// PIIConfig clave simétrica (32 bytes en hex) para cifrar SSN/ITIN en reposo.
type PIIConfig struct {
	EncryptionKey string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DATABASE_URL, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "bizdesk-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL:    getString(v, "DATABASE_URL", ""),
			Host:           getString(v, "DB_HOST", "localhost"),
			Port:           getInt(v, "DB_PORT", 5432),
			User:           getString(v, "DB_USER", "postgres"),
			Password:       getString(v, "DB_PASSWORD", ""),
			DBName:         getString(v, "DB_NAME", "bizdesk"),
			SSLMode:        getString(v, "DB_SSLMODE", "disable"),
			AnalyticsURL:   getString(v, "ANALYTICS_DATABASE_URL", ""),
			DocumentsURL:   getString(v, "DOCUMENTS_DATABASE_URL", ""),
			ComplianceURL:  getString(v, "COMPLIANCE_DATABASE_URL", ""),
			ReadReplicaURL: getString(v, "READ_REPLICA_DATABASE_URL", ""),
			MaxConns:       getInt(v, "DB_MAX_CONNS", 25),
			MinConns:       getInt(v, "DB_MIN_CONNS", 2),
			AutoMigrate:    getBool(v, "DB_AUTO_MIGRATE", false),
		},
		JWT: JWTConfig{
			Secret:             getString(v, "JWT_SECRET", ""),
			Expiration:         getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:             getString(v, "JWT_ISSUER", "bizdesk"),
			LoginRatePerMinute: getInt(v, "LOGIN_RATE_PER_MINUTE", 10),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			BodyLimitMB: getInt(v, "HTTP_BODY_LIMIT_MB", 30),
			CORSOrigins: getString(v, "CORS_ORIGINS", "*"),
		},
		Redis: RedisConfig{
			URL: getString(v, "REDIS_URL", ""),
		},
		S3: S3Config{
			Bucket:       getString(v, "S3_BUCKET", ""),
			Region:       getString(v, "S3_REGION", "us-east-1"),
			Endpoint:     getString(v, "S3_ENDPOINT", ""),
			AccessKey:    getString(v, "S3_ACCESS_KEY", ""),
			SecretKey:    getString(v, "S3_SECRET_KEY", ""),
			UsePathStyle: getBool(v, "S3_USE_PATH_STYLE", false),
		},
		Stripe: StripeConfig{
			SecretKey:      getString(v, "STRIPE_SECRET_KEY", ""),
			PublishableKey: getString(v, "STRIPE_PUBLISHABLE_KEY", ""),
			Currency:       getString(v, "STRIPE_CURRENCY", "usd"),
		},
		Analytics: AnalyticsConfig{
			QueueSize:     getInt(v, "ANALYTICS_QUEUE_SIZE", 1024),
			Workers:       getInt(v, "ANALYTICS_WORKERS", 2),
			RollupEnabled: getBool(v, "ANALYTICS_ROLLUP_ENABLED", true),
			DailyCron:     getString(v, "ANALYTICS_DAILY_CRON", "5 0 * * *"),
		},
		PII: PIIConfig{
			EncryptionKey: getString(v, "PII_ENCRYPTION_KEY", ""),
		},
	}
}

// Validate rechaza combinaciones que impedirían arrancar de forma segura.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" && !c.App.IsDevelopment() {
		return fmt.Errorf("config: JWT_SECRET es obligatorio fuera de development")
	}
	if c.PII.EncryptionKey != "" {
		key, err := hex.DecodeString(c.PII.EncryptionKey)
		if err != nil || len(key) != 32 {
			return fmt.Errorf("config: PII_ENCRYPTION_KEY debe ser 64 caracteres hex")
		}
	} else if !c.App.IsDevelopment() {
		return fmt.Errorf("config: PII_ENCRYPTION_KEY es obligatorio fuera de development")
	}
	if c.Analytics.QueueSize <= 0 {
		return fmt.Errorf("config: ANALYTICS_QUEUE_SIZE debe ser positivo")
	}
	if c.Analytics.Workers <= 0 {
		c.Analytics.Workers = 1
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
