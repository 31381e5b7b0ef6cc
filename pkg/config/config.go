package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/salonstore-backend/pkg/enums"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cart         CartConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Cart.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SALONSTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"SALONSTORE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SALONSTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SALONSTORE_LOG_WARN_STACK" default:"false"`
	// ShutdownTimeout bounds how long in-flight requests may drain on SIGTERM.
	ShutdownTimeout time.Duration `envconfig:"SALONSTORE_SHUTDOWN_TIMEOUT" default:"15s"`
	CORSOrigins     []string      `envconfig:"SALONSTORE_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SALONSTORE_DB_DSN"`
	Driver string `envconfig:"SALONSTORE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SALONSTORE_DB_HOST"`
	LegacyPort     int    `envconfig:"SALONSTORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SALONSTORE_DB_USER"`
	LegacyPassword string `envconfig:"SALONSTORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SALONSTORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SALONSTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SALONSTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SALONSTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SALONSTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SALONSTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite dialector should be used instead of postgres.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SALONSTORE_REDIS_URL"`
	Address      string        `envconfig:"SALONSTORE_REDIS_ADDR"`
	Password     string        `envconfig:"SALONSTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SALONSTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SALONSTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SALONSTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SALONSTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SALONSTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SALONSTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"SALONSTORE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SALONSTORE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SALONSTORE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type CartConfig struct {
	LowStockThreshold int            `envconfig:"SALONSTORE_CART_LOW_STOCK_THRESHOLD" default:"5"`
	Currency          enums.Currency `envconfig:"SALONSTORE_CART_CURRENCY" default:"USD"`
	IdempotencyTTL    time.Duration  `envconfig:"SALONSTORE_CART_IDEMPOTENCY_TTL" default:"24h"`
}

func (c *CartConfig) normalize() error {
	currency, err := enums.ParseCurrency(strings.ToUpper(strings.TrimSpace(string(c.Currency))))
	if err != nil {
		return fmt.Errorf("%s: %w", EnvCartCurrency, err)
	}
	c.Currency = currency
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SALONSTORE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
