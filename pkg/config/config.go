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
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	QubeWire      QubeWireConfig
	Upload        UploadConfig
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
	Env          string `envconfig:"DCPFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"DCPFLOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DCPFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DCPFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DCPFLOW_DB_DSN"`
	Driver string `envconfig:"DCPFLOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DCPFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"DCPFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DCPFLOW_DB_USER"`
	LegacyPassword string `envconfig:"DCPFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"DCPFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"DCPFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DCPFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DCPFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DCPFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DCPFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DCPFLOW_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DCPFLOW_REDIS_ADDR"`
	Password     string        `envconfig:"DCPFLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"DCPFLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DCPFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DCPFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DCPFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DCPFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DCPFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"DCPFLOW_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"DCPFLOW_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"DCPFLOW_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"DCPFLOW_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
	RoleCacheTTLSeconds    int    `envconfig:"DCPFLOW_ROLE_CACHE_TTL_SECONDS" default:"60"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// RoleCacheTTL bounds how long an authenticated request may rely on the
// cached role before it is re-read from the database.
func (j JWTConfig) RoleCacheTTL() time.Duration {
	if j.RoleCacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(j.RoleCacheTTLSeconds) * time.Second
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DCPFLOW_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DCPFLOW_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DCPFLOW_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DCPFLOW_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DCPFLOW_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"DCPFLOW_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"DCPFLOW_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"DCPFLOW_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DCPFLOW_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DCPFLOW_AUTO_MIGRATE" default:"false"`
}

type QubeWireConfig struct {
	Environment     string        `envconfig:"DCPFLOW_QUBEWIRE_ENVIRONMENT" default:"test"`
	TestBaseURL     string        `envconfig:"DCPFLOW_QUBEWIRE_TEST_BASE_URL" default:"https://staging-api.qubewire.com"`
	ProdBaseURL     string        `envconfig:"DCPFLOW_QUBEWIRE_PROD_BASE_URL" default:"https://api.qubewire.com"`
	RequestTimeout  time.Duration `envconfig:"DCPFLOW_QUBEWIRE_REQUEST_TIMEOUT" default:"30s"`
	MaxBatchSize    int           `envconfig:"DCPFLOW_QUBEWIRE_MAX_BATCH_SIZE" default:"100"`
	PollConcurrency int           `envconfig:"DCPFLOW_QUBEWIRE_POLL_CONCURRENCY" default:"4"`
}

// SelectedBaseURL picks the wire API root for the configured environment.
// Only "production" selects the production host; anything else stays on the
// test host so a misconfigured value cannot book real deliveries.
func (q QubeWireConfig) SelectedBaseURL() string {
	if q.Environment == QubeWireEnvProduction {
		return q.ProdBaseURL
	}
	return q.TestBaseURL
}

type UploadConfig struct {
	MaxCSVBytes int64 `envconfig:"DCPFLOW_UPLOAD_MAX_CSV_BYTES" default:"5242880"`
	MaxCSVRows  int   `envconfig:"DCPFLOW_UPLOAD_MAX_CSV_ROWS" default:"1000"`
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
