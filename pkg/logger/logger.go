package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how verbosely the service logs
type Config struct {
	Environment string
	Level       string
	File        string
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
}

// New builds a sugared zap logger. Development environments get a colored
// console encoder; everything else logs JSON. When File is set, output is
// also written to a rotating file.
func New(cfg Config) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if strings.EqualFold(cfg.Environment, "development") {
		if level > zapcore.DebugLevel {
			level = zapcore.DebugLevel
		}
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stdout)}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    withDefault(cfg.MaxSizeMB, 100),
			MaxBackups: withDefault(cfg.MaxBackups, 3),
			MaxAge:     withDefault(cfg.MaxAgeDays, 7),
			Compress:   true,
		}))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(sinks...), level)
	return zap.New(core).Named("contact-relay").Sugar(), nil
}

// SafeSync flushes buffered entries, ignoring the errors stdout returns when
// it is a terminal or pipe.
func SafeSync(l *zap.SugaredLogger) {
	if l == nil {
		return
	}
	if err := l.Sync(); err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "invalid argument") || strings.Contains(msg, "inappropriate ioctl for device") {
			return
		}
		fmt.Fprintf(os.Stderr, "log sync error: %v\n", err)
	}
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
