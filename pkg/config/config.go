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
	FeatureFlags FeatureFlagsConfig
	Certificates CertificatesConfig
	Sendgrid     SendgridConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.applyDriver(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Certificates.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"COMPLIQO_APP_ENV" required:"true"`
	Port         string `envconfig:"COMPLIQO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"COMPLIQO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"COMPLIQO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"COMPLIQO_DB_DSN"`
	Driver string `envconfig:"COMPLIQO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"COMPLIQO_DB_HOST"`
	LegacyPort     int    `envconfig:"COMPLIQO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"COMPLIQO_DB_USER"`
	LegacyPassword string `envconfig:"COMPLIQO_DB_PASSWORD"`
	LegacyName     string `envconfig:"COMPLIQO_DB_NAME"`
	LegacySSLMode  string `envconfig:"COMPLIQO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"COMPLIQO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"COMPLIQO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"COMPLIQO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"COMPLIQO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"COMPLIQO_REDIS_URL"`
	Address      string        `envconfig:"COMPLIQO_REDIS_ADDR"`
	Password     string        `envconfig:"COMPLIQO_REDIS_PASSWORD"`
	DB           int           `envconfig:"COMPLIQO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"COMPLIQO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"COMPLIQO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"COMPLIQO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"COMPLIQO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"COMPLIQO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"COMPLIQO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"COMPLIQO_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"COMPLIQO_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"COMPLIQO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"COMPLIQO_AUTO_MIGRATE" default:"false"`
}

// CertificatesConfig drives identifier minting, artifact rendering, and the
// public verification URL.
type CertificatesConfig struct {
	Namespace       string `envconfig:"COMPLIQO_CERT_NAMESPACE" default:"CMQ"`
	IssuingOrg      string `envconfig:"COMPLIQO_CERT_ISSUING_ORG" default:"Compliqo"`
	VerifyBaseURL   string `envconfig:"COMPLIQO_CERT_VERIFY_BASE_URL" required:"true"`
	TemplatePath    string `envconfig:"COMPLIQO_CERT_TEMPLATE_PATH"`
	QRSizePx        int    `envconfig:"COMPLIQO_CERT_QR_SIZE_PX" default:"220"`
	DeliveryEnabled bool   `envconfig:"COMPLIQO_CERT_DELIVERY_ENABLED" default:"true"`
}

// VerificationURL builds the public lookup URL encoded into the QR code.
// The path segment must match the public route exactly; lookups are
// case-sensitive on the identifier.
func (c CertificatesConfig) VerificationURL(certificateID string) string {
	return strings.TrimRight(c.VerifyBaseURL, "/") + "/verify-certificate/" + certificateID
}

func (c CertificatesConfig) validate() error {
	if strings.TrimSpace(c.Namespace) == "" {
		return fmt.Errorf("%s must not be blank", EnvCertNamespace)
	}
	if c.VerifyBaseURL != "" {
		if _, err := url.ParseRequestURI(c.VerifyBaseURL); err != nil {
			return fmt.Errorf("%s is not a valid URL: %w", EnvCertVerifyBaseURL, err)
		}
	}
	if c.QRSizePx <= 0 {
		return fmt.Errorf("%s must be positive", EnvCertQRSize)
	}
	return nil
}

type SendgridConfig struct {
	APIKey      string `envconfig:"COMPLIQO_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"COMPLIQO_SENDGRID_FROM_EMAIL"`
	FromName    string `envconfig:"COMPLIQO_SENDGRID_FROM_NAME" default:"Compliqo"`
}

// applyDriver resolves the effective database driver. The sqlite feature
// flag wins over the driver field; a sqlite DSN defaults to a shared
// in-memory database so dev mode needs no database server.
func (db *DBConfig) applyDriver(useSQLite bool) error {
	if useSQLite {
		db.Driver = DriverSQLite
	}
	switch db.Driver {
	case DriverSQLite:
		if db.DSN == "" {
			db.DSN = SQLiteMemoryDSN
		}
		return nil
	case "", DriverPostgres:
		db.Driver = DriverPostgres
		return db.ensureDSN()
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver)
	}
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
