package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/tracing"
)

const (
	defaultKeyPrefix     = "calsync"
	defaultSyncLedgerTTL = 7 * 24 * time.Hour
)

type syncRecord struct {
	Fingerprint string    `json:"fingerprint"`
	SyncedAt    time.Time `json:"synced_at"`
}

// syncLedger keeps one hash per owner at {prefix}:ledger:{owner}, keyed by
// event ID. The whole hash expires TTL after the owner's last successful sync.
type syncLedger struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewSyncLedger(client *redis.Client, keyPrefix string, ttl time.Duration) domain.SyncLedger {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = defaultSyncLedgerTTL
	}
	return &syncLedger{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (r *syncLedger) key(ownerID string) string {
	return r.keyPrefix + ":ledger:" + ownerID
}

func (r *syncLedger) GetFingerprints(ctx context.Context, ownerID string, eventIDs []string) (map[string]string, error) {
	fingerprints := make(map[string]string, len(eventIDs))
	if len(eventIDs) == 0 {
		return fingerprints, nil
	}

	key := r.key(ownerID)
	ctx, span := tracing.StartRedisOperationSpan(ctx, "HMGET", key)
	defer span.End()

	values, err := r.client.HMGet(ctx, key, eventIDs...).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: failed to read sync ledger: %w", ErrRedisConnection, err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}

		var record syncRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("%w: event %s", ErrInvalidSyncRecord, eventIDs[i])
		}
		fingerprints[eventIDs[i]] = record.Fingerprint
	}

	return fingerprints, nil
}

func (r *syncLedger) SaveSyncRecords(ctx context.Context, records []domain.SyncRecord) error {
	if len(records) == 0 {
		return nil
	}

	byOwner := make(map[string][]any)
	owners := make([]string, 0)
	for _, rec := range records {
		if rec.OwnerID == "" || rec.EventID == "" || rec.Fingerprint == "" {
			return ErrInvalidSyncRecord
		}

		data, err := json.Marshal(syncRecord{
			Fingerprint: rec.Fingerprint,
			SyncedAt:    rec.SyncedAt,
		})
		if err != nil {
			return ErrInvalidSyncRecord
		}

		if _, seen := byOwner[rec.OwnerID]; !seen {
			owners = append(owners, rec.OwnerID)
		}
		byOwner[rec.OwnerID] = append(byOwner[rec.OwnerID], rec.EventID, string(data))
	}

	ctx, span := tracing.StartRedisOperationSpan(ctx, "HSET", r.key("*"))
	defer span.End()

	pipe := r.client.TxPipeline()
	for _, owner := range owners {
		key := r.key(owner)
		pipe.HSet(ctx, key, byOwner[owner]...)
		pipe.Expire(ctx, key, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: failed to write sync ledger: %w", ErrRedisConnection, err)
	}
	return nil
}
