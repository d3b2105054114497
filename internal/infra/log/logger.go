package log

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func New(level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel) // default DEBUG

	if level != "" {
		if err := cfg.Level.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			fmt.Printf("bad LOG_LEVEL=%s, fallback to debug\n", level)
			cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
	}
	return cfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

func Must(level string) *zap.Logger {
	l, err := New(level)
	if err != nil {
		panic(err)
	}
	return l
}

// Email логирует только хэш адреса.
func Email(email string) zap.Field {
	sum := sha256.Sum256([]byte(strings.ToLower(email)))
	return zap.String("user", hex.EncodeToString(sum[:8]))
}
