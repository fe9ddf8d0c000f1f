package config

// EnvPrefix is empty because every key is spelled out in full on the struct tags.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv             = "PORTAL_APP_ENV"
	EnvPort               = "PORTAL_APP_PORT"
	EnvHTTPReadTimeout    = "PORTAL_HTTP_READ_TIMEOUT"
	EnvDBDSN              = "PORTAL_DB_DSN"
	EnvDBHost             = "PORTAL_DB_HOST"
	EnvDBUser             = "PORTAL_DB_USER"
	EnvDBName             = "PORTAL_DB_NAME"
	EnvRedisURL           = "PORTAL_REDIS_URL"
	EnvJWTSecret          = "PORTAL_JWT_SECRET"
	EnvJWTExpMins         = "PORTAL_JWT_EXPIRATION_MINUTES"
	EnvShopifyDomain      = "PORTAL_SHOPIFY_SHOP_DOMAIN"
	EnvShopifyToken       = "PORTAL_SHOPIFY_ACCESS_TOKEN"
	EnvShopifyTimeout     = "PORTAL_SHOPIFY_TIMEOUT"
	EnvGCSBucket          = "PORTAL_GCS_BUCKET_NAME"
	EnvSendgridAPIKey     = "PORTAL_SENDGRID_API_KEY"
	EnvSendgridFrom       = "PORTAL_SENDGRID_FROM_EMAIL"
	EnvNotifyEmail        = "PORTAL_CHECKOUT_NOTIFY_EMAIL"
	EnvEvidenceMaxMB      = "PORTAL_CHECKOUT_EVIDENCE_MAX_MB"
	EnvEvidenceUploadWait = "PORTAL_EVIDENCE_UPLOAD_TIMEOUT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
