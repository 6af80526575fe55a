package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// COMPLIQO_-prefixed names so the prefix stays empty here.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	// SQLiteMemoryDSN is shared-cache so every connection in the pool
	// sees the same in-memory database.
	SQLiteMemoryDSN = "file::memory:?cache=shared"
)

const (
	EnvDBDSN  = "COMPLIQO_DB_DSN"
	EnvDBHost = "COMPLIQO_DB_HOST"
	EnvDBUser = "COMPLIQO_DB_USER"
	EnvDBName = "COMPLIQO_DB_NAME"

	EnvCertNamespace     = "COMPLIQO_CERT_NAMESPACE"
	EnvCertVerifyBaseURL = "COMPLIQO_CERT_VERIFY_BASE_URL"
	EnvCertQRSize        = "COMPLIQO_CERT_QR_SIZE_PX"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
