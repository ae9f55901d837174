package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a structured logger for a process component such as "api" or "jobs".
// Production logs are JSON; everything else uses the colored console encoder.
func New(env, component string) (*zap.Logger, error) {
	return Build(env, component, zapcore.Lock(os.Stdout)), nil
}

// Build creates the logger New returns, writing to ws.
func Build(env, component string, ws zapcore.WriteSyncer) *zap.Logger {
	var (
		encoder zapcore.Encoder
		level   zapcore.Level
	)

	if env == "production" {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "timestamp"
		cfg.MessageKey = "message"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
		level = zapcore.InfoLevel
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(encoder, ws, level)

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
		zap.Fields(zap.String("component", component)),
	)
}
