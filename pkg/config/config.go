package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	RateLimit    RateLimitConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Shopify      ShopifyConfig
	Sendgrid     SendgridConfig
	Checkout     CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs error
	if c.JWT.ExpirationMinutes <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be positive", EnvJWTExpMins))
	}
	if c.Checkout.EvidenceMaxMB <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be positive", EnvEvidenceMaxMB))
	}
	if c.Checkout.ShopifyTimeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be positive", EnvShopifyTimeout))
	}
	if c.App.ReadTimeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be positive", EnvHTTPReadTimeout))
	}
	return errs
}

type AppConfig struct {
	Env          string `envconfig:"PORTAL_APP_ENV" required:"true"`
	Port         string `envconfig:"PORTAL_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PORTAL_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"PORTAL_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"PORTAL_LOG_WARN_STACK" default:"false"`

	// CORSOrigins adds frontend origins on top of the local development defaults.
	CORSOrigins []string `envconfig:"PORTAL_CORS_ORIGINS"`

	// ReadTimeout bounds reading a whole request, evidence uploads included.
	ReadTimeout time.Duration `envconfig:"PORTAL_HTTP_READ_TIMEOUT" default:"30s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"PORTAL_DB_DSN"`
	Driver string `envconfig:"PORTAL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PORTAL_DB_HOST"`
	LegacyPort     int    `envconfig:"PORTAL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PORTAL_DB_USER"`
	LegacyPassword string `envconfig:"PORTAL_DB_PASSWORD"`
	LegacyName     string `envconfig:"PORTAL_DB_NAME"`
	LegacySSLMode  string `envconfig:"PORTAL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PORTAL_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"PORTAL_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"PORTAL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PORTAL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PORTAL_REDIS_URL"`
	Address      string        `envconfig:"PORTAL_REDIS_ADDR"`
	Password     string        `envconfig:"PORTAL_REDIS_PASSWORD"`
	DB           int           `envconfig:"PORTAL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PORTAL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PORTAL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PORTAL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PORTAL_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"PORTAL_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PORTAL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PORTAL_JWT_ISSUER" default:"b2b-portal"`
	ExpirationMinutes int    `envconfig:"PORTAL_JWT_EXPIRATION_MINUTES" default:"480"`
}

// SessionTTL mirrors the access token lifetime so a session never outlives its token.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PORTAL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PORTAL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PORTAL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PORTAL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PORTAL_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PORTAL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PORTAL_AUTO_MIGRATE" default:"false"`
}

type RateLimitConfig struct {
	RPS   float64 `envconfig:"PORTAL_RATE_LIMIT_RPS" default:"5"`
	Burst int     `envconfig:"PORTAL_RATE_LIMIT_BURST" default:"10"`

	LoginWindow     time.Duration `envconfig:"PORTAL_LOGIN_RATE_WINDOW" default:"15m"`
	LoginIPLimit    int           `envconfig:"PORTAL_LOGIN_RATE_IP_LIMIT" default:"30"`
	LoginEmailLimit int           `envconfig:"PORTAL_LOGIN_RATE_EMAIL_LIMIT" default:"10"`
}

type GCPConfig struct {
	CredentialsJSON        string `envconfig:"PORTAL_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PORTAL_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName     string `envconfig:"PORTAL_GCS_BUCKET_NAME"`
	EvidenceFolder string `envconfig:"PORTAL_GCS_EVIDENCE_FOLDER" default:"comprobantes"`
	PublicBaseURL  string `envconfig:"PORTAL_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
}

// Enabled reports whether evidence uploads can be attempted at all.
func (g GCSConfig) Enabled() bool {
	return strings.TrimSpace(g.BucketName) != ""
}

type ShopifyConfig struct {
	ShopDomain  string `envconfig:"PORTAL_SHOPIFY_SHOP_DOMAIN" required:"true"`
	AccessToken string `envconfig:"PORTAL_SHOPIFY_ACCESS_TOKEN" required:"true"`
	APIVersion  string `envconfig:"PORTAL_SHOPIFY_API_VERSION" default:"2024-10"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"PORTAL_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"PORTAL_SENDGRID_FROM_EMAIL"`
}

// Configured reports whether mail can be sent; an unconfigured transport is a valid no-op state.
func (s SendgridConfig) Configured() bool {
	return strings.TrimSpace(s.APIKey) != "" && strings.TrimSpace(s.DefaultFrom) != ""
}

type CheckoutConfig struct {
	NotifyEmail           string        `envconfig:"PORTAL_CHECKOUT_NOTIFY_EMAIL"`
	EvidenceSalt          string        `envconfig:"PORTAL_CHECKOUT_EVIDENCE_SALT" default:"b2b-portal"`
	EvidenceMaxMB         int           `envconfig:"PORTAL_CHECKOUT_EVIDENCE_MAX_MB" default:"5"`
	ShopifyTimeout        time.Duration `envconfig:"PORTAL_SHOPIFY_TIMEOUT" default:"20s"`
	EvidenceUploadTimeout time.Duration `envconfig:"PORTAL_EVIDENCE_UPLOAD_TIMEOUT" default:"15s"`
	RecordTimeout         time.Duration `envconfig:"PORTAL_RECORD_TIMEOUT" default:"5s"`
	NotifyTimeout         time.Duration `envconfig:"PORTAL_NOTIFY_TIMEOUT" default:"5s"`
}

// PipelineBudget is the longest a submission can spend across its bounded steps.
func (c CheckoutConfig) PipelineBudget() time.Duration {
	return c.EvidenceUploadTimeout + c.ShopifyTimeout + c.RecordTimeout + c.NotifyTimeout
}

// HTTPWriteTimeout covers reading the body and running the whole checkout pipeline, since
// net/http starts the write deadline once the request headers are read.
func (c *Config) HTTPWriteTimeout() time.Duration {
	return c.App.ReadTimeout + c.Checkout.PipelineBudget()
}

// EvidenceMaxBytes returns the ingestion limit for payment evidence uploads.
func (c CheckoutConfig) EvidenceMaxBytes() int64 {
	return int64(c.EvidenceMaxMB) << 20
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
