// Package logger — zap tabanlı structured logging kurulumu.
//
// Development'ta renkli console encoder + debug seviyesi,
// production'da JSON encoder + info seviyesi kullanılır.
// Seviye LOG_LEVEL env variable'ı ile override edilebilir.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New, ortama uygun yapılandırılmış bir *zap.Logger döner.
func New(production bool) (*zap.Logger, error) {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsed, err := zapcore.ParseLevel(lvl)
		if err == nil {
			cfg.Level = zap.NewAtomicLevelAt(parsed)
		}
	}

	return cfg.Build()
}
