//go:build loadtest

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

func appendLoadtestLabels(ctx context.Context, attrs []attribute.KeyValue) []attribute.KeyValue {
	if runID := loadtestRunFromContext(ctx); runID != "" {
		return append(attrs, attribute.String("loadtest.run_id", runID))
	}
	return attrs
}
