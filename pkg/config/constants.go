package config

const EnvPrefix = "BLISS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	GuestStoreFile   = "file"
	GuestStoreRedis  = "redis"
	GuestStoreMemory = "memory"
)

const (
	EnvAppEnv          = "BLISS_APP_ENV"
	EnvLogLevel        = "BLISS_LOG_LEVEL"
	EnvAPIBaseURL      = "BLISS_API_BASE_URL"
	EnvAPIToken        = "BLISS_API_TOKEN"
	EnvGuestStore      = "BLISS_GUEST_STORE_BACKEND"
	EnvGuestStorePath  = "BLISS_GUEST_STORE_PATH"
	EnvRedisURL        = "BLISS_REDIS_URL"
	EnvRedisAddr       = "BLISS_REDIS_ADDR"
	EnvCheckoutTaxRate = "BLISS_CHECKOUT_TAX_RATE"
)
