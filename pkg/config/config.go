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
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Pricing      PricingConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RASIL_APP_ENV" required:"true"`
	Port         string `envconfig:"RASIL_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"RASIL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RASIL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RASIL_DB_DSN"`
	Driver string `envconfig:"RASIL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RASIL_DB_HOST"`
	LegacyPort     int    `envconfig:"RASIL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RASIL_DB_USER"`
	LegacyPassword string `envconfig:"RASIL_DB_PASSWORD"`
	LegacyName     string `envconfig:"RASIL_DB_NAME"`
	LegacySSLMode  string `envconfig:"RASIL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RASIL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RASIL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RASIL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RASIL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RASIL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RASIL_REDIS_ADDR"`
	Password     string        `envconfig:"RASIL_REDIS_PASSWORD"`
	DB           int           `envconfig:"RASIL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RASIL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RASIL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RASIL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RASIL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RASIL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"RASIL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RASIL_JWT_ISSUER" default:"rasil-backoffice"`
	ExpirationMinutes int    `envconfig:"RASIL_JWT_EXPIRATION_MINUTES" default:"480"`
}

// AccessTokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// PricingConfig carries the last-resort fallbacks used when no pricing rows exist
// for a destination. Amounts are whole currency units.
type PricingConfig struct {
	DefaultBasePrice  int64 `envconfig:"RASIL_PRICING_DEFAULT_BASE_PRICE" default:"5000"`
	DefaultCommission int64 `envconfig:"RASIL_PRICING_DEFAULT_COMMISSION" default:"2000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"RASIL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"RASIL_AUTO_MIGRATE" default:"false"`
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
