package config

// EnvPrefix is intentionally empty: every variable carries the SKYLENS_ prefix
// in its envconfig tag so lookups stay greppable.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SKYLENS_DB_DSN"
	EnvDBHost = "SKYLENS_DB_HOST"
	EnvDBUser = "SKYLENS_DB_USER"
	EnvDBName = "SKYLENS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
