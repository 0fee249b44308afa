package obs

import (
	"context"
	"log/slog"
	"time"

	"map-weather-service/internal/platform/metrics"

	"github.com/google/uuid"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID attaches id to ctx, generating one when id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(RequestIDKey).(string)
	return reqID
}

// Time logs and records the duration of op. Use as:
//
//	defer obs.Time(ctx, "weather.fetch")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			metrics.UpstreamDuration.WithLabelValues(name, "error").Observe(dur.Seconds())
			slog.Warn("upstream call failed",
				"req_id", reqID, "op", name, "dur_ms", dur.Milliseconds(), "err", *errp)
			return
		}
		metrics.UpstreamDuration.WithLabelValues(name, "ok").Observe(dur.Seconds())
		slog.Debug("upstream call", "req_id", reqID, "op", name, "dur_ms", dur.Milliseconds())
	}
}
