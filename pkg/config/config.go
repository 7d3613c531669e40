package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig namespace shared by every GeoShop binary.
const EnvPrefix = "GEOSHOP"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "GEOSHOP_APP_ENV"
	EnvDBDSN  = "GEOSHOP_DB_DSN"
	EnvDBHost = "GEOSHOP_DB_HOST"
	EnvDBUser = "GEOSHOP_DB_USER"
	EnvDBName = "GEOSHOP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Checkout     CheckoutConfig
	Square       SquareConfig
	Simulation   SimulationConfig
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
	Env          string `envconfig:"GEOSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"GEOSHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GEOSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GEOSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GEOSHOP_DB_DSN"`
	Driver string `envconfig:"GEOSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GEOSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"GEOSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GEOSHOP_DB_USER"`
	LegacyPassword string `envconfig:"GEOSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"GEOSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"GEOSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GEOSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GEOSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GEOSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GEOSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	PingAttempts uint64        `envconfig:"GEOSHOP_DB_PING_ATTEMPTS" default:"5"`
	PingBackoff  time.Duration `envconfig:"GEOSHOP_DB_PING_BACKOFF" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GEOSHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GEOSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"GEOSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"GEOSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GEOSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GEOSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GEOSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GEOSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GEOSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"GEOSHOP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"GEOSHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"GEOSHOP_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"GEOSHOP_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GEOSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GEOSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GEOSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GEOSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GEOSHOP_ARGON_KEY_LEN" default:"32"`
}

// CheckoutConfig tunes the checkout wizard.
type CheckoutConfig struct {
	SessionTTL time.Duration `envconfig:"GEOSHOP_CHECKOUT_SESSION_TTL" default:"2h"`
	Currency   string        `envconfig:"GEOSHOP_CHECKOUT_CURRENCY" default:"IDR"`
}

type SquareConfig struct {
	AccessToken   string `envconfig:"GEOSHOP_SQUARE_ACCESS_TOKEN"`
	Env           string `envconfig:"GEOSHOP_SQUARE_ENV" default:"sandbox"`
	LocationID    string `envconfig:"GEOSHOP_SQUARE_LOCATION_ID"`
	WebhookSecret string `envconfig:"GEOSHOP_SQUARE_WEBHOOK_SECRET"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

// SimulationConfig drives the worker that stands in for carrier and refund feeds.
type SimulationConfig struct {
	Interval           time.Duration `envconfig:"GEOSHOP_SIMULATION_INTERVAL" default:"1m"`
	DispatchAfter      time.Duration `envconfig:"GEOSHOP_SIMULATION_DISPATCH_AFTER" default:"5m"`
	ReturnApproveAfter time.Duration `envconfig:"GEOSHOP_SIMULATION_RETURN_APPROVE_AFTER" default:"10m"`
	LockTTL            time.Duration `envconfig:"GEOSHOP_SIMULATION_LOCK_TTL" default:"5m"`
}

type FeatureFlagsConfig struct {
	UseSQLite         bool `envconfig:"GEOSHOP_USE_SQLITE" default:"false"`
	AutoMigrate       bool `envconfig:"GEOSHOP_AUTO_MIGRATE" default:"false"`
	SimulatedPayments bool `envconfig:"GEOSHOP_SIMULATED_PAYMENTS" default:"false"`
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
