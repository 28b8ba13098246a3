package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global = zap.NewNop()

// Init replaces the package logger. Safe to call once at startup.
func Init(core zapcore.Core, opts ...zap.Option) {
	global = zap.New(core, opts...)
}

// NewCore builds a stdout core. Format "json" gives machine-readable lines
// for collectors, anything else a colour console encoder for humans.
func NewCore(level zap.AtomicLevel, format string) zapcore.Core {
	stdout := zapcore.AddSync(os.Stdout)

	if format == "json" {
		productionCfg := zap.NewProductionEncoderConfig()
		productionCfg.TimeKey = "timestamp"
		productionCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		return zapcore.NewCore(zapcore.NewJSONEncoder(productionCfg), stdout, level)
	}

	developmentCfg := zap.NewDevelopmentEncoderConfig()
	developmentCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	return zapcore.NewCore(zapcore.NewConsoleEncoder(developmentCfg), stdout, level)
}

func ParseLevel(s string) (zap.AtomicLevel, error) {
	var level zapcore.Level
	if err := level.Set(s); err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return zap.NewAtomicLevelAt(level), nil
}

func Logger() *zap.Logger {
	return global
}

func Named(name string) *zap.Logger {
	return global.Named(name)
}

func Debug(msg string, fields ...zap.Field) {
	global.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	global.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	global.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	global.Error(msg, fields...)
}

func Sync() {
	_ = global.Sync()
}
