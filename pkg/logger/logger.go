package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelKey      = "LOG_LEVEL"
	EncodingKey   = "LOG_ENCODING"
	TimeFormatKey = "LOG_TIME_FORMAT"
)

// Configuration controls the zap logger built by New.
type Configuration struct {
	Level      string
	Encoding   string
	TimeFormat string
}

func (c Configuration) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("invalid %s: %w", LevelKey, err)
	}
	switch c.Encoding {
	case "console", "json":
	default:
		return fmt.Errorf("invalid %s %q: want console or json", EncodingKey, c.Encoding)
	}
	return nil
}

// New builds a logger from the LOG_LEVEL, LOG_ENCODING and LOG_TIME_FORMAT
// environment variables.
func New() (*zap.Logger, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// Load reads the logger configuration from the environment.
func Load() (Configuration, error) {
	v := viper.New()
	v.SetDefault(LevelKey, "info")
	v.SetDefault(EncodingKey, "console")
	v.SetDefault(TimeFormatKey, time.RFC3339)
	for _, key := range []string{LevelKey, EncodingKey, TimeFormatKey} {
		if err := v.BindEnv(key); err != nil {
			return Configuration{}, err
		}
	}

	return Configuration{
		Level:      strings.ToLower(v.GetString(LevelKey)),
		Encoding:   strings.ToLower(v.GetString(EncodingKey)),
		TimeFormat: v.GetString(TimeFormatKey),
	}, nil
}

// NewWithConfig builds a logger writing to stderr.
func NewWithConfig(cfg Configuration) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := zapcore.ParseLevel(cfg.Level)

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Encoding = cfg.Encoding
	zcfg.Sampling = nil
	zcfg.DisableStacktrace = true
	zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(cfg.TimeFormat)
	if cfg.Encoding == "console" {
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zcfg.DisableCaller = true
	}

	return zcfg.Build()
}
