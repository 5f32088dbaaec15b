package config

const EnvPrefix = "PLANTWEB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageBackendMemory = "memory"
	StorageBackendRedis  = "redis"
	StorageBackendSQL    = "sql"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv         = "PLANTWEB_APP_ENV"
	EnvPort           = "PLANTWEB_APP_PORT"
	EnvStorageBackend = "PLANTWEB_STORAGE_BACKEND"
	EnvDBDSN          = "PLANTWEB_DB_DSN"
	EnvDBDriver       = "PLANTWEB_DB_DRIVER"
	EnvDBHost         = "PLANTWEB_DB_HOST"
	EnvDBUser         = "PLANTWEB_DB_USER"
	EnvDBName         = "PLANTWEB_DB_NAME"
	EnvRedisURL       = "PLANTWEB_REDIS_URL"
	EnvRedisAddr      = "PLANTWEB_REDIS_ADDR"
	EnvSessionTTL     = "PLANTWEB_SESSION_TTL"
	EnvCORSOrigins    = "PLANTWEB_CORS_ORIGINS"
)

var postgresDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
