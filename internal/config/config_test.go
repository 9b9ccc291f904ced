package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.TickInterval() != 100*time.Millisecond {
		t.Fatalf("tick interval = %v", cfg.TickInterval())
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(lookupFrom(map[string]string{
		EnvSizeX:         "20",
		EnvSizeY:         "15",
		EnvFrameRate:     "25",
		EnvAddr:          ":9000",
		EnvStopOnAbandon: "false",
		EnvLogLevel:      "debug",
		EnvScale:         "",
	}))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.SizeX != 20 || cfg.SizeY != 15 || cfg.FrameRate != 25 {
		t.Fatalf("grid/rate = %dx%d@%d", cfg.SizeX, cfg.SizeY, cfg.FrameRate)
	}
	if cfg.Addr != ":9000" || cfg.StopOnAbandon || cfg.LogLevel != "debug" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Scale != Default().Scale {
		t.Fatalf("empty variable overrode scale: %d", cfg.Scale)
	}
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	cases := map[string]string{
		EnvSizeX:         "wide",
		EnvFrameRate:     "1.5",
		EnvStopOnAbandon: "maybe",
	}
	for key, val := range cases {
		cfg := Default()
		if err := cfg.applyEnv(lookupFrom(map[string]string{key: val})); err == nil {
			t.Errorf("%s=%q accepted", key, val)
		}
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SNAKE_SIZE_X=12\nSNAKE_FRAME_RATE=5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables already set
	t.Setenv(EnvFrameRate, "30")
	t.Setenv(EnvSizeX, "")
	os.Unsetenv(EnvSizeX)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SizeX != 12 {
		t.Errorf("size x = %d, want 12 from file", cfg.SizeX)
	}
	if cfg.FrameRate != 30 {
		t.Errorf("frame rate = %d, want 30 from environment", cfg.FrameRate)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing env file: %v", err)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	cfg := Default()
	if err := cfg.applyEnv(lookupFrom(map[string]string{EnvSizeX: "20", EnvAddr: ":9000"})); err != nil {
		t.Fatal(err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse([]string{"-size-x", "50", "-stop-on-abandon=false"}); err != nil {
		t.Fatal(err)
	}

	if cfg.SizeX != 50 {
		t.Errorf("size x = %d, want flag value 50", cfg.SizeX)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("addr = %q, want environment value", cfg.Addr)
	}
	if cfg.StopOnAbandon {
		t.Error("stop-on-abandon flag ignored")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"narrow", func(c *Config) { c.SizeX = 3 }, ErrGridTooSmall},
		{"short", func(c *Config) { c.SizeY = 2 }, ErrGridTooSmall},
		{"zero rate", func(c *Config) { c.FrameRate = 0 }, ErrFrameRate},
		{"huge rate", func(c *Config) { c.FrameRate = 5000 }, ErrFrameRate},
		{"scale", func(c *Config) { c.Scale = 0 }, ErrScale},
		{"level", func(c *Config) { c.LogLevel = "loud" }, ErrLogLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
