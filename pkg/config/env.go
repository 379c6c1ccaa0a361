package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Environment variable names referenced outside of struct tags.
const (
	EnvAppEnv   = "STOREFRONT_APP_ENV"
	EnvPort     = "STOREFRONT_APP_PORT"
	EnvLogLevel = "STOREFRONT_LOG_LEVEL"

	EnvDBDSN    = "STOREFRONT_DB_DSN"
	EnvDBDriver = "STOREFRONT_DB_DRIVER"
	EnvDBHost   = "STOREFRONT_DB_HOST"
	EnvDBPort   = "STOREFRONT_DB_PORT"
	EnvDBUser   = "STOREFRONT_DB_USER"
	EnvDBPass   = "STOREFRONT_DB_PASSWORD"
	EnvDBName   = "STOREFRONT_DB_NAME"

	EnvRedisURL  = "STOREFRONT_REDIS_URL"
	EnvRedisAddr = "STOREFRONT_REDIS_ADDR"

	EnvJWTSecret              = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer              = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins             = "STOREFRONT_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "STOREFRONT_REFRESH_TOKEN_TTL_MINUTES"

	EnvCheckoutTaxRate      = "STOREFRONT_CHECKOUT_TAX_RATE"
	EnvCheckoutShippingFee  = "STOREFRONT_CHECKOUT_SHIPPING_FEE"
	EnvCheckoutFreeShipping = "STOREFRONT_CHECKOUT_FREE_SHIPPING_THRESHOLD"

	EnvCORSAllowedOrigins = "STOREFRONT_CORS_ALLOWED_ORIGINS"
	EnvGCPProjectID       = "STOREFRONT_GCP_PROJECT_ID"
	EnvOrderEventsTopic   = "STOREFRONT_PUBSUB_ORDER_EVENTS_TOPIC"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
