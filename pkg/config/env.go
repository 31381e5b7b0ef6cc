package config

// EnvPrefix is handed to envconfig; every field carries an explicit key so the
// prefix only matters for unnamed fields.
const EnvPrefix = "SALONSTORE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "SALONSTORE_APP_ENV"
	EnvPort     = "SALONSTORE_APP_PORT"
	EnvLogLevel = "SALONSTORE_LOG_LEVEL"

	EnvDBDSN    = "SALONSTORE_DB_DSN"
	EnvDBDriver = "SALONSTORE_DB_DRIVER"
	EnvDBHost   = "SALONSTORE_DB_HOST"
	EnvDBPort   = "SALONSTORE_DB_PORT"
	EnvDBUser   = "SALONSTORE_DB_USER"
	EnvDBPass   = "SALONSTORE_DB_PASSWORD"
	EnvDBName   = "SALONSTORE_DB_NAME"

	EnvRedisURL = "SALONSTORE_REDIS_URL"

	EnvJWTSecret  = "SALONSTORE_JWT_SECRET"
	EnvJWTIssuer  = "SALONSTORE_JWT_ISSUER"
	EnvJWTExpMins = "SALONSTORE_JWT_EXPIRATION_MINUTES"

	EnvCartLowStockThreshold = "SALONSTORE_CART_LOW_STOCK_THRESHOLD"
	EnvCartCurrency          = "SALONSTORE_CART_CURRENCY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
