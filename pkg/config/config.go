package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Reset         ResetConfig
	Defaults      DefaultsConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"SKYLENS_APP_ENV" required:"true"`
	Port         string `envconfig:"SKYLENS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SKYLENS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SKYLENS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SKYLENS_DB_DSN"`
	Driver string `envconfig:"SKYLENS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SKYLENS_DB_HOST"`
	LegacyPort     int    `envconfig:"SKYLENS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SKYLENS_DB_USER"`
	LegacyPassword string `envconfig:"SKYLENS_DB_PASSWORD"`
	LegacyName     string `envconfig:"SKYLENS_DB_NAME"`
	LegacySSLMode  string `envconfig:"SKYLENS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SKYLENS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SKYLENS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SKYLENS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SKYLENS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SKYLENS_REDIS_URL"`
	Address      string        `envconfig:"SKYLENS_REDIS_ADDR"`
	Password     string        `envconfig:"SKYLENS_REDIS_PASSWORD"`
	DB           int           `envconfig:"SKYLENS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SKYLENS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SKYLENS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SKYLENS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SKYLENS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SKYLENS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SKYLENS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SKYLENS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SKYLENS_JWT_EXPIRATION_MINUTES" required:"true"`
}

// TokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SKYLENS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SKYLENS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SKYLENS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SKYLENS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SKYLENS_ARGON_KEY_LEN" default:"32"`
}

// ResetConfig controls the password-reset token lifecycle.
type ResetConfig struct {
	TokenTTL    time.Duration `envconfig:"SKYLENS_RESET_TOKEN_TTL" default:"30m"`
	TokenLength int           `envconfig:"SKYLENS_RESET_TOKEN_LENGTH" default:"48"`
}

// DefaultsConfig is the capability policy applied to freshly signed-up profiles.
type DefaultsConfig struct {
	CanViewDashboard bool `envconfig:"SKYLENS_DEFAULTS_CAN_VIEW_DASHBOARD" default:"true"`
	CanViewClusters  bool `envconfig:"SKYLENS_DEFAULTS_CAN_VIEW_CLUSTERS" default:"false"`
	CanViewReports   bool `envconfig:"SKYLENS_DEFAULTS_CAN_VIEW_REPORTS" default:"false"`
}

type AuthRateLimitConfig struct {
	SigninWindow     time.Duration `envconfig:"SKYLENS_AUTH_RATE_LIMIT_SIGNIN_WINDOW" default:"1m"`
	SigninEmailLimit int           `envconfig:"SKYLENS_AUTH_RATE_LIMIT_SIGNIN_EMAIL_LIMIT" default:"5"`
	SigninIPLimit    int           `envconfig:"SKYLENS_AUTH_RATE_LIMIT_SIGNIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"SKYLENS_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"SKYLENS_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"SKYLENS_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
	ResetWindow      time.Duration `envconfig:"SKYLENS_AUTH_RATE_LIMIT_RESET_WINDOW" default:"5m"`
	ResetEmailLimit  int           `envconfig:"SKYLENS_AUTH_RATE_LIMIT_RESET_EMAIL_LIMIT" default:"3"`
	ResetIPLimit     int           `envconfig:"SKYLENS_AUTH_RATE_LIMIT_RESET_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SKYLENS_AUTO_MIGRATE" default:"false"`
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
