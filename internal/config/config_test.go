package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func replayFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("replay", pflag.ContinueOnError)
	flags.StringP("data", "d", ".", "")
	flags.StringP("out", "o", "ethereum.db", "")
	flags.String("log-level", "info", "")
	return flags
}

func TestLoadReplayDefaults(t *testing.T) {
	cfg, err := LoadReplay("", replayFlags())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := ReplayConfig{Data: ".", Out: "ethereum.db", BatchSize: 8192, LogLevel: "info"}
	if cfg != want {
		t.Fatalf("config mismatch: %+v != %+v", cfg, want)
	}
}

func TestLoadReplayFlagsOverrideEnv(t *testing.T) {
	t.Setenv("REPLAY_DATA", "/env/data")
	t.Setenv("REPLAY_OUT", "/env/out.db")

	flags := replayFlags()
	if err := flags.Parse([]string{"-o", "flag.db"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg, err := LoadReplay("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Data != "/env/data" || cfg.Out != "flag.db" {
		t.Fatalf("unexpected precedence: %+v", cfg)
	}
}

func TestLoadReplayConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay.yaml")
	if err := os.WriteFile(path, []byte("data: /file/data\nbatch-size: 100\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadReplay(path, replayFlags())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Data != "/file/data" || cfg.BatchSize != 100 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if _, err := LoadReplay(filepath.Join(t.TempDir(), "absent.yaml"), nil); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestLoadCapture(t *testing.T) {
	t.Setenv("REPLAY_RPC", "http://localhost:8545")
	t.Setenv("REPLAY_START", "10")
	t.Setenv("REPLAY_END", "20")

	cfg, err := LoadCapture("", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StartBlock != 10 || cfg.EndBlock != 20 || !cfg.Traces || cfg.Out != "capture" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.BlockDelay != 500*time.Millisecond || cfg.MaxRetries != 8 || cfg.RetryBackoff != 2*time.Second {
		t.Fatalf("unexpected retry defaults: %+v", cfg)
	}
}

func TestLoadCaptureValidation(t *testing.T) {
	if _, err := LoadCapture("", nil); err == nil {
		t.Fatalf("expected error without rpc url")
	}

	t.Setenv("REPLAY_RPC", "http://localhost:8545")
	t.Setenv("REPLAY_START", "20")
	t.Setenv("REPLAY_END", "10")
	if _, err := LoadCapture("", nil); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestLoadExport(t *testing.T) {
	flags := pflag.NewFlagSet("export", pflag.ContinueOnError)
	flags.String("db", "", "")
	flags.String("out", "", "")
	if err := flags.Parse([]string{"--db", "run/capture.db"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg, err := LoadExport("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DB != "run/capture.db" || cfg.Out != "" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
