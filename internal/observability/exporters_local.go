//go:build !gcloud

package observability

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
)

const (
	otlpEndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"
	otlpInsecureEnv = "OTEL_EXPORTER_OTLP_INSECURE"
)

// newExporters exports over OTLP/HTTP when an endpoint is configured and
// keeps telemetry in-process otherwise.
func newExporters(ctx context.Context, _ Config) (exporterSet, error) {
	endpoint := strings.TrimSpace(os.Getenv(otlpEndpointEnv))
	if endpoint == "" {
		return exporterSet{name: "none"}, nil
	}
	insecure := strings.EqualFold(os.Getenv(otlpInsecureEnv), "true")

	traceOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	metricOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}

	spanExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return exporterSet{}, err
	}

	metricExporter, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		_ = spanExporter.Shutdown(ctx)
		return exporterSet{}, err
	}

	return exporterSet{
		name:   "otlp_http",
		span:   spanExporter,
		metric: metricExporter,
	}, nil
}
