package config

import "errors"

var (
	ErrRedisAddrMissing       = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB         = errors.New("REDIS_DB must be a valid integer")
	ErrDefaultWindowEmpty     = errors.New("DEFAULT_WAKE_UP_TIME must be before DEFAULT_SLEEP_TIME")
	ErrSyncProviderURLMissing = errors.New("SYNC_PROVIDER_URL is required when SYNC_PROVIDER=http")
)
