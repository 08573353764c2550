package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var global = zap.NewNop()

// SetupLogger configures the process-wide logger for the given environment
// and returns a sugared handle for main.
func SetupLogger(env string) *zap.SugaredLogger {
	var (
		l   *zap.Logger
		err error
	)

	switch env {
	case envProd:
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		l, err = cfg.Build()
	case envDev:
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		l, err = cfg.Build()
	case envLocal:
		fallthrough
	default:
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err = cfg.Build()
	}
	if err != nil {
		panic("logger setup failed: " + err.Error())
	}

	global = l

	return l.Sugar()
}

// Logger returns the process-wide *zap.Logger for middleware and clients.
func Logger() *zap.Logger {
	return global
}

func Debug(msg string, fields ...zap.Field) { global.Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { global.Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { global.Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { global.Error(msg, fields...) }
