package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/yourusername/snake-duel/internal/logging"
)

// Environment variable names
const (
	EnvSizeX         = "SNAKE_SIZE_X"
	EnvSizeY         = "SNAKE_SIZE_Y"
	EnvFrameRate     = "SNAKE_FRAME_RATE"
	EnvScale         = "SNAKE_SCALE"
	EnvAddr          = "SNAKE_ADDR"
	EnvStopOnAbandon = "SNAKE_STOP_ON_ABANDON"
	EnvLogLevel      = "SNAKE_LOG_LEVEL"
)

var (
	ErrGridTooSmall = errors.New("grid too small")
	ErrFrameRate    = errors.New("frame rate out of range")
	ErrScale        = errors.New("scale must be positive")
	ErrLogLevel     = errors.New("unknown log level")
)

// Config holds the game and server settings
type Config struct {
	// Grid dimensions in cells
	SizeX int
	SizeY int

	// Simulation ticks per second
	FrameRate int

	// Cell size in pixels/columns, used only by renderers
	Scale int

	// Address the server listens on
	Addr string

	// Cancel the tick driver when a player leaves mid-game
	StopOnAbandon bool

	LogLevel string
}

// Default returns the settings used when nothing else is configured
func Default() *Config {
	return &Config{
		SizeX:         40,
		SizeY:         30,
		FrameRate:     10,
		Scale:         20,
		Addr:          ":5000",
		StopOnAbandon: true,
		LogLevel:      "info",
	}
}

// Load returns defaults overridden by an optional .env file and then by the
// process environment. Missing .env files are not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := Default()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	ints := []struct {
		key string
		dst *int
	}{
		{EnvSizeX, &c.SizeX},
		{EnvSizeY, &c.SizeY},
		{EnvFrameRate, &c.FrameRate},
		{EnvScale, &c.Scale},
	}
	for _, v := range ints {
		raw, ok := lookup(v.key)
		if !ok || raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", v.key, err)
		}
		*v.dst = n
	}

	if raw, ok := lookup(EnvStopOnAbandon); ok && raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStopOnAbandon, err)
		}
		c.StopOnAbandon = b
	}
	if raw, ok := lookup(EnvAddr); ok && raw != "" {
		c.Addr = raw
	}
	if raw, ok := lookup(EnvLogLevel); ok && raw != "" {
		c.LogLevel = raw
	}
	return nil
}

// RegisterFlags binds command-line flags to c. Flags parsed after Load take
// precedence over the environment.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.SizeX, "size-x", c.SizeX, "Grid width in cells")
	fs.IntVar(&c.SizeY, "size-y", c.SizeY, "Grid height in cells")
	fs.IntVar(&c.FrameRate, "frame-rate", c.FrameRate, "Simulation ticks per second")
	fs.IntVar(&c.Scale, "scale", c.Scale, "Display scale factor (renderers only)")
	fs.StringVar(&c.Addr, "addr", c.Addr, "HTTP service address")
	fs.BoolVar(&c.StopOnAbandon, "stop-on-abandon", c.StopOnAbandon, "Stop a running game when a player leaves")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: trace, debug, info, warn, error, critical, off")
}

// Validate checks ranges the simulation depends on
func (c *Config) Validate() error {
	// two 2-cell snakes need a left and a right half, and the vertical domain [1, SizeY) needs two rows
	if c.SizeX < 4 || c.SizeY < 3 {
		return fmt.Errorf("%w: %dx%d, need at least 4x3", ErrGridTooSmall, c.SizeX, c.SizeY)
	}
	if c.FrameRate <= 0 || c.FrameRate > 1000 {
		return fmt.Errorf("%w: %d", ErrFrameRate, c.FrameRate)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("%w: %d", ErrScale, c.Scale)
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("%w: %q", ErrLogLevel, c.LogLevel)
	}
	return nil
}

// TickInterval is the time between two simulation steps
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}
