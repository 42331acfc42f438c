package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=sync_ledger.go -destination=sync_ledger_mock.go -package=domain

// SyncRecord remembers the content an owner last pushed for an event.
type SyncRecord struct {
	OwnerID     string
	EventID     string
	Fingerprint string
	SyncedAt    time.Time
}

type SyncLedger interface {
	// GetFingerprints returns the stored fingerprint per event ID; unknown
	// events are absent from the map.
	GetFingerprints(ctx context.Context, ownerID string, eventIDs []string) (map[string]string, error)
	SaveSyncRecords(ctx context.Context, records []SyncRecord) error
}
