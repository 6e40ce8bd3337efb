package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "REPLAY"

// ReplayConfig holds configuration for loading a dataset.
type ReplayConfig struct {
	Data      string
	Out       string
	BatchSize int64
	LogLevel  string
}

// LoadReplay merges config file, environment variables, and flags into ReplayConfig.
func LoadReplay(cfgFile string, flags *pflag.FlagSet) (ReplayConfig, error) {
	v, err := load(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("data", ".")
		v.SetDefault("out", "ethereum.db")
		v.SetDefault("batch-size", int64(8192))
	})
	if err != nil {
		return ReplayConfig{}, err
	}

	cfg := ReplayConfig{
		Data:      v.GetString("data"),
		Out:       v.GetString("out"),
		BatchSize: v.GetInt64("batch-size"),
		LogLevel:  v.GetString("log-level"),
	}
	if cfg.Data == "" {
		return ReplayConfig{}, fmt.Errorf("data directory is required")
	}
	if cfg.Out == "" {
		return ReplayConfig{}, fmt.Errorf("output database is required")
	}
	return cfg, nil
}

// CaptureConfig holds configuration for the capture command.
type CaptureConfig struct {
	RPCURL       string
	StartBlock   uint64
	EndBlock     uint64
	Out          string
	Traces       bool
	BlockDelay   time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// LoadCapture merges config file, environment variables, and flags into CaptureConfig.
func LoadCapture(cfgFile string, flags *pflag.FlagSet) (CaptureConfig, error) {
	v, err := load(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("out", "capture")
		v.SetDefault("traces", true)
		v.SetDefault("block-delay", 500*time.Millisecond)
		v.SetDefault("max-retries", 8)
		v.SetDefault("retry-backoff", 2*time.Second)
	})
	if err != nil {
		return CaptureConfig{}, err
	}

	cfg := CaptureConfig{
		RPCURL:       v.GetString("rpc"),
		StartBlock:   v.GetUint64("start"),
		EndBlock:     v.GetUint64("end"),
		Out:          v.GetString("out"),
		Traces:       v.GetBool("traces"),
		BlockDelay:   v.GetDuration("block-delay"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
	}
	if cfg.RPCURL == "" {
		return CaptureConfig{}, fmt.Errorf("rpc url is required")
	}
	if cfg.EndBlock != 0 && cfg.StartBlock > cfg.EndBlock {
		return CaptureConfig{}, fmt.Errorf("start block %d is after end block %d", cfg.StartBlock, cfg.EndBlock)
	}
	return cfg, nil
}

// ExportConfig holds configuration for the export command.
type ExportConfig struct {
	DB       string
	Out      string
	LogLevel string
}

// LoadExport merges config file, environment variables, and flags into ExportConfig.
// Out defaults to the directory holding DB.
func LoadExport(cfgFile string, flags *pflag.FlagSet) (ExportConfig, error) {
	v, err := load(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("db", "capture/capture.db")
	})
	if err != nil {
		return ExportConfig{}, err
	}

	cfg := ExportConfig{
		DB:       v.GetString("db"),
		Out:      v.GetString("out"),
		LogLevel: v.GetString("log-level"),
	}
	if cfg.DB == "" {
		return ExportConfig{}, fmt.Errorf("database path is required")
	}
	return cfg, nil
}

func load(cfgFile string, flags *pflag.FlagSet, defaults func(*viper.Viper)) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "info")
	defaults(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}
