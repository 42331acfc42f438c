package config

import (
	"os"
	"strconv"
	"time"
)

const (
	syncProviderEnv          = "SYNC_PROVIDER"
	syncProviderURLEnv       = "SYNC_PROVIDER_URL"
	googleCalendarIDEnv      = "GOOGLE_CALENDAR_ID"
	googleCredentialsFileEnv = "GOOGLE_CREDENTIALS_FILE"
	syncBatchSizeEnv         = "SYNC_BATCH_SIZE"
	syncMaxConcurrencyEnv    = "SYNC_MAX_CONCURRENCY"
	syncCallTimeoutEnv       = "SYNC_CALL_TIMEOUT_SECONDS"
	syncMaxRetriesEnv        = "SYNC_MAX_RETRIES"
	syncLedgerTTLEnv         = "SYNC_LEDGER_TTL_HOURS"

	defaultSyncProvider       = "http"
	defaultGoogleCalendarID   = "primary"
	defaultSyncBatchSize      = 20
	defaultSyncMaxConcurrency = 4
	defaultSyncCallTimeout    = 10
	defaultSyncMaxRetries     = 3
	defaultSyncLedgerTTLHours = 168
)

type SyncProvider string

const (
	SyncProviderHTTP   SyncProvider = "http"
	SyncProviderGoogle SyncProvider = "google"
	SyncProviderNone   SyncProvider = "none"
)

type SyncConfig struct {
	Provider              SyncProvider
	ProviderURL           string
	GoogleCalendarID      string
	GoogleCredentialsFile string

	BatchSize      int
	MaxConcurrency int
	CallTimeout    time.Duration
	MaxRetries     int
	LedgerTTL      time.Duration
}

func LoadSyncConfig() *SyncConfig {
	provider := SyncProvider(os.Getenv(syncProviderEnv))
	if provider == "" {
		provider = defaultSyncProvider
	}

	if provider != SyncProviderHTTP && provider != SyncProviderGoogle && provider != SyncProviderNone {
		provider = defaultSyncProvider
	}

	calendarID := os.Getenv(googleCalendarIDEnv)
	if calendarID == "" {
		calendarID = defaultGoogleCalendarID
	}

	return &SyncConfig{
		Provider:              provider,
		ProviderURL:           os.Getenv(syncProviderURLEnv),
		GoogleCalendarID:      calendarID,
		GoogleCredentialsFile: os.Getenv(googleCredentialsFileEnv),

		BatchSize:      positiveIntEnv(syncBatchSizeEnv, defaultSyncBatchSize),
		MaxConcurrency: positiveIntEnv(syncMaxConcurrencyEnv, defaultSyncMaxConcurrency),
		CallTimeout:    time.Duration(positiveIntEnv(syncCallTimeoutEnv, defaultSyncCallTimeout)) * time.Second,
		MaxRetries:     positiveIntEnv(syncMaxRetriesEnv, defaultSyncMaxRetries),
		LedgerTTL:      time.Duration(positiveIntEnv(syncLedgerTTLEnv, defaultSyncLedgerTTLHours)) * time.Hour,
	}
}

func (c *SyncConfig) Validate() error {
	if c.Provider == SyncProviderHTTP && c.ProviderURL == "" {
		return ErrSyncProviderURLMissing
	}
	return nil
}

func positiveIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
