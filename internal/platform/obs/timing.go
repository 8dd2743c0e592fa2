package obs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const (
	RequestIDKey ctxKey = "req_id"
	loggerKey    ctxKey = "logger"
)

// WithLogger stores a request-scoped logger in ctx.
func WithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// Logger returns the logger stored by WithLogger, or a no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey).(*zap.Logger); ok && log != nil {
		return log
	}
	return zap.NewNop()
}

// WithRequestID stores id in ctx for later log correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs the duration of op when the returned func is called. Failures
// are logged at Warn.
// Usage: defer obs.Time(ctx, log, "op")(&err)
func Time(ctx context.Context, log *zap.Logger, name string) func(errp *error) {
	return timed(ctx, log, name, zapcore.WarnLevel)
}

// Trace is Time for operations whose caller reports the failure: both
// outcomes are logged at Debug.
func Trace(ctx context.Context, log *zap.Logger, name string) func(errp *error) {
	return timed(ctx, log, name, zapcore.DebugLevel)
}

func timed(ctx context.Context, log *zap.Logger, name string, failLevel zapcore.Level) func(errp *error) {
	start := time.Now()

	reqID := RequestID(ctx)

	return func(errp *error) {
		fields := []zap.Field{
			zap.String("req_id", reqID),
			zap.String("op", name),
			zap.Duration("dur", time.Since(start)),
		}

		if errp != nil && *errp != nil {
			if ce := log.Check(failLevel, "op failed"); ce != nil {
				ce.Write(append(fields, zap.Error(*errp))...)
			}
			return
		}
		log.Debug("op done", fields...)
	}
}
