package jsonlog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes the sink set for NewWithConfig. Rotation of the file
// sink is delegated entirely to lumberjack; the logger only writes lines.
type Config struct {
	// FilePath enables the rolling-file sink when non-empty.
	FilePath string `toml:"file_path" validate:"required_without=Console"`
	// Console enables the stderr sink.
	Console bool `toml:"console"`

	MaxSizeMB  int `toml:"max_size_mb" validate:"gte=0"`
	MaxBackups int `toml:"max_backups" validate:"gte=0"`
	MaxAgeDays int `toml:"max_age_days" validate:"gte=0"`
}

// LoadConfig reads a TOML config file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := &Config{}
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// NewWithConfig validates cfg, builds the configured sinks, and returns a
// ready Service. Close releases the file sink.
func NewWithConfig(cfg *Config) (*Service, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	var writers []io.Writer
	var fileSink *lumberjack.Logger

	if cfg.FilePath != emptyString {
		fileSink = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		writers = append(writers, fileSink)
	}
	if cfg.Console {
		writers = append(writers, os.Stderr)
	}
	if len(writers) == 0 {
		return nil, errors.New(errMsgNoSinksEnabled)
	}

	var sink io.Writer = writers[0]
	if len(writers) > 1 {
		sink = io.MultiWriter(writers...)
	}

	s := New(sink)
	if fileSink != nil {
		s.fileSink = fileSink
	}
	return s, nil
}
