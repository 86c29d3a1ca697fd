package config

// EnvPrefix scopes every environment variable the platform reads.
const EnvPrefix = "LENDIT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "LENDIT_DB_DSN"
	EnvDBHost = "LENDIT_DB_HOST"
	EnvDBUser = "LENDIT_DB_USER"
	EnvDBName = "LENDIT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
