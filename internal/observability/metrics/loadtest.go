package metrics

import "context"

type loadtestKey struct{}

const LoadtestRunHeader = "X-Loadtest-Run-ID"

// WithLoadtestRun tags ctx with the load test run that issued the request.
func WithLoadtestRun(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, loadtestKey{}, runID)
}

func loadtestRunFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(loadtestKey{}).(string); ok {
		return v
	}
	return ""
}
