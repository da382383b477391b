package config

// EnvPrefix is passed to envconfig; every field carries an explicit IMS_ name.
const EnvPrefix = "IMS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	DriverPostgres   = "postgres"
	DriverSQLite     = "sqlite"
	DefaultSQLiteDSN = "file:ims.db?_foreign_keys=on"
)

const (
	EnvAppEnv       = "IMS_APP_ENV"
	EnvPort         = "IMS_APP_PORT"
	EnvLogLevel     = "IMS_LOG_LEVEL"
	EnvDBDSN        = "IMS_DB_DSN"
	EnvDBHost       = "IMS_DB_HOST"
	EnvDBPort       = "IMS_DB_PORT"
	EnvDBUser       = "IMS_DB_USER"
	EnvDBPassword   = "IMS_DB_PASSWORD"
	EnvDBName       = "IMS_DB_NAME"
	EnvRedisURL     = "IMS_REDIS_URL"
	EnvJWTSecret    = "IMS_JWT_SECRET"
	EnvJWTIssuer    = "IMS_JWT_ISSUER"
	EnvJWTExpMins   = "IMS_JWT_EXPIRATION_MINUTES"
	EnvOrdersTxTTL  = "IMS_ORDERS_TX_TIMEOUT"
	EnvUseSQLite    = "IMS_USE_SQLITE"
	EnvAutoMigrate  = "IMS_AUTO_MIGRATE"
	EnvArgonMemory  = "IMS_ARGON_MEMORY_KB"
	EnvArgonTime    = "IMS_ARGON_TIME"
	EnvArgonThreads = "IMS_ARGON_PARALLELISM"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
