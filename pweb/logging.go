package pweb

import (
	"github.com/pipehttp/phttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment. Uses JSON encoding
// suitable for log aggregation. PW_LOG_LEVEL controls the level (debug, info, warn,
// error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// newPipelineLogger adapts the app logger to the pipeline's leveled sink.
func newPipelineLogger(l *zap.Logger) phttp.Logger {
	return phttp.NewZapLogger(l.Named("pweb"))
}
