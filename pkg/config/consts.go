package config

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "RASIL"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "RASIL_DB_DSN"
	EnvDBHost = "RASIL_DB_HOST"
	EnvDBUser = "RASIL_DB_USER"
	EnvDBName = "RASIL_DB_NAME"
)

// legacyDBEnvVars are accepted when RASIL_DB_DSN is not set.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
