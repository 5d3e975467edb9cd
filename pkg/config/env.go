package config

// EnvPrefix is passed to envconfig.Process; all variables carry the
// DCPFLOW_ prefix explicitly in their struct tags.
const EnvPrefix = "dcpflow"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "DCPFLOW_APP_ENV"
	EnvPort     = "DCPFLOW_APP_PORT"
	EnvLogLevel = "DCPFLOW_LOG_LEVEL"

	EnvDBDSN      = "DCPFLOW_DB_DSN"
	EnvDBHost     = "DCPFLOW_DB_HOST"
	EnvDBPort     = "DCPFLOW_DB_PORT"
	EnvDBUser     = "DCPFLOW_DB_USER"
	EnvDBPassword = "DCPFLOW_DB_PASSWORD"
	EnvDBName     = "DCPFLOW_DB_NAME"

	EnvRedisURL = "DCPFLOW_REDIS_URL"

	EnvJWTSecret              = "DCPFLOW_JWT_SECRET"
	EnvJWTIssuer              = "DCPFLOW_JWT_ISSUER"
	EnvJWTExpMins             = "DCPFLOW_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "DCPFLOW_REFRESH_TOKEN_TTL_MINUTES"

	EnvQubeWireEnvironment = "DCPFLOW_QUBEWIRE_ENVIRONMENT"
	EnvQubeWireTestBaseURL = "DCPFLOW_QUBEWIRE_TEST_BASE_URL"
	EnvQubeWireProdBaseURL = "DCPFLOW_QUBEWIRE_PROD_BASE_URL"
)

const (
	QubeWireEnvTest       = "test"
	QubeWireEnvProduction = "production"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
