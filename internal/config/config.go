package config

// Header constants.
const (
	HEADER_KEY_X_CLIENT_ID = "X-Client-Id"
	HEADER_KEY_X_UID       = "X-Uid"
)

// Environment variable keys.
const (
	ENV_KEY_APP_ENV   = "APP_ENV"
	ENV_KEY_PORT      = "PORT"
	ENV_KEY_APP_URL   = "APP_URL"
	ENV_KEY_CLIENT_ID = "CLIENT_ID"

	ENV_KEY_LOG_LEVEL = "LOG_LEVEL"

	ENV_KEY_DB_DATABASE             = "DB_DATABASE"
	ENV_KEY_DB_PASSWORD             = "DB_PASSWORD"
	ENV_KEY_DB_USER                 = "DB_USER"
	ENV_KEY_DB_PORT                 = "DB_PORT"
	ENV_KEY_DB_HOST                 = "DB_HOST"
	ENV_KEY_DB_MAX_OPEN_CONNECTIONS = "DB_MAX_OPEN_CONNECTIONS"

	ENV_KEY_REDIS_HOST     = "REDIS_HOST"
	ENV_KEY_REDIS_PORT     = "REDIS_PORT"
	ENV_KEY_REDIS_PASSWORD = "REDIS_PASSWORD"

	ENV_KEY_WORKER_CONCURRENCY = "WORKER_CONCURRENCY"

	ENV_KEY_MINIO_BUCKET     = "MINIO_BUCKET"
	ENV_KEY_MINIO_FILES_PATH = "MINIO_FILES_PATH"
	ENV_KEY_MINIO_ENDPOINT   = "MINIO_ENDPOINT"
	ENV_KEY_MINIO_ACCESS_KEY = "MINIO_ACCESS_KEY"
	ENV_KEY_MINIO_SECRET_KEY = "MINIO_SECRET_KEY"

	ENV_KEY_SMTP_HOST     = "SMTP_HOST"
	ENV_KEY_SMTP_PORT     = "SMTP_PORT"
	ENV_KEY_SMTP_USERNAME = "SMTP_USERNAME"
	ENV_KEY_SMTP_PASSWORD = "SMTP_PASSWORD"
	ENV_KEY_SMTP_FROM     = "SMTP_FROM"

	ENV_KEY_JWT_SECRET       = "JWT_SECRET"
	ENV_KEY_JWT_EXPIRE_HOURS = "JWT_EXPIRE_HOURS"

	ENV_KEY_CHAIN_GATEWAY_URL             = "CHAIN_GATEWAY_URL"
	ENV_KEY_CHAIN_API_KEY                 = "CHAIN_API_KEY"
	ENV_KEY_CHAIN_CONTRACT                = "CHAIN_CONTRACT_ADDRESS"
	ENV_KEY_CHAIN_CONFIRM_TIMEOUT_SECONDS = "CHAIN_CONFIRM_TIMEOUT_SECONDS"

	ENV_KEY_UPLOAD_LIMIT = "UPLOAD_LIMIT"

	ENV_KEY_OTEL_EXPORTER_OTLP_ENDPOINT = "OTEL_EXPORTER_OTLP_ENDPOINT"
	ENV_KEY_OTEL_SERVICE_NAME           = "OTEL_SERVICE_NAME"
)

type ContextKey uint

const (
	_ ContextKey = iota
	CTX_KEY_USER_ID
	CTX_KEY_USER_ROLE
)

const (
	// Default request body cap for uploads, echo body-limit syntax.
	DEFAULT_UPLOAD_LIMIT = "10M"

	PRESIGN_URL_EXPIRE_MINUTES = 15

	// Upper bound for a single confirmation-await before the record
	// is reconciled and marked failed.
	DEFAULT_CHAIN_CONFIRM_TIMEOUT_SECONDS = 120
)
