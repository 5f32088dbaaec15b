package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Storage      StorageConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	switch cfg.Storage.Backend {
	case StorageBackendSQL:
		if err := cfg.DB.EnsureDSN(); err != nil {
			return nil, err
		}
	case StorageBackendRedis:
		if cfg.Redis.URL == "" && cfg.Redis.Address == "" {
			return nil, fmt.Errorf("%s or %s is required for the redis storage backend", EnvRedisURL, EnvRedisAddr)
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PLANTWEB_APP_ENV" required:"true"`
	Port         string `envconfig:"PLANTWEB_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PLANTWEB_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"PLANTWEB_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"PLANTWEB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects where the durable cart/favorites mirror lives.
type StorageConfig struct {
	Backend string `envconfig:"PLANTWEB_STORAGE_BACKEND" default:"memory"`
}

func (s *StorageConfig) validate() error {
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	switch s.Backend {
	case StorageBackendMemory, StorageBackendRedis, StorageBackendSQL:
		return nil
	case "":
		s.Backend = StorageBackendMemory
		return nil
	}
	return fmt.Errorf("unsupported %s %q (expected memory, redis or sql)", EnvStorageBackend, s.Backend)
}

type DBConfig struct {
	DSN    string `envconfig:"PLANTWEB_DB_DSN"`
	Driver string `envconfig:"PLANTWEB_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PLANTWEB_DB_HOST"`
	Port     int    `envconfig:"PLANTWEB_DB_PORT" default:"5432"`
	User     string `envconfig:"PLANTWEB_DB_USER"`
	Password string `envconfig:"PLANTWEB_DB_PASSWORD"`
	Name     string `envconfig:"PLANTWEB_DB_NAME"`
	SSLMode  string `envconfig:"PLANTWEB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PLANTWEB_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"PLANTWEB_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"PLANTWEB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PLANTWEB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the mirror runs on an embedded SQLite file.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"PLANTWEB_REDIS_URL"`
	Address      string        `envconfig:"PLANTWEB_REDIS_ADDR"`
	Password     string        `envconfig:"PLANTWEB_REDIS_PASSWORD"`
	DB           int           `envconfig:"PLANTWEB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PLANTWEB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PLANTWEB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PLANTWEB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PLANTWEB_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"PLANTWEB_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// SessionConfig drives the shopper identity cookies.
type SessionConfig struct {
	ClientCookie  string        `envconfig:"PLANTWEB_CLIENT_COOKIE" default:"pw_client"`
	SessionCookie string        `envconfig:"PLANTWEB_SESSION_COOKIE" default:"pw_session"`
	ClientMaxAge  time.Duration `envconfig:"PLANTWEB_CLIENT_MAX_AGE" default:"8760h"`
	SessionTTL    time.Duration `envconfig:"PLANTWEB_SESSION_TTL" default:"12h"`
	SecureCookies bool          `envconfig:"PLANTWEB_SECURE_COOKIES" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"PLANTWEB_CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PLANTWEB_AUTO_MIGRATE" default:"false"`
	Metrics     bool `envconfig:"PLANTWEB_METRICS_ENABLED" default:"true"`
}

// EnsureDSN builds the DSN from its parts when PLANTWEB_DB_DSN is unset.
func (db *DBConfig) EnsureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		if db.Name == "" {
			return fmt.Errorf("either %s or %s is required for sqlite", EnvDBDSN, EnvDBName)
		}
		db.DSN = db.Name
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range postgresDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}
	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
