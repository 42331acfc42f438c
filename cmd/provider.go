package main

import (
	"context"
	"log/slog"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/config"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/infra/calprovider"
)

func newCalendarProvider(ctx context.Context, cfg *config.SyncConfig) (calprovider.Provider, error) {
	switch cfg.Provider {
	case config.SyncProviderGoogle:
		p, err := calprovider.NewGoogleProvider(ctx, calprovider.GoogleConfig{
			CalendarID:      cfg.GoogleCalendarID,
			CredentialsFile: cfg.GoogleCredentialsFile,
			MaxRetries:      cfg.MaxRetries,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("calendar provider initialized",
			slog.String("type", "google"),
			slog.String("calendar_id", cfg.GoogleCalendarID),
		)
		return p, nil

	case config.SyncProviderNone:
		slog.Warn("SYNC_PROVIDER=none, calendar sync only updates the ledger")
		return calprovider.Noop{}, nil

	default:
		slog.Info("calendar provider initialized",
			slog.String("type", "http"),
			slog.String("url", cfg.ProviderURL),
		)
		return calprovider.NewHTTPProvider(cfg.ProviderURL, cfg.MaxRetries), nil
	}
}
