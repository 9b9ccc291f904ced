package logging // subsystem loggers shared by the server and client binaries

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/decred/slog"
)

// Subsystem tags
const (
	Server = "SRVR"
	Room   = "ROOM"
	Game   = "GAME"
	Client = "CLNT"
)

// output lets SetOutput redirect loggers that packages already hold
type output struct {
	mu sync.Mutex
	w  io.Writer
}

func (o *output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.w.Write(p)
}

var (
	out     = &output{w: os.Stdout}
	backend = slog.NewBackend(out)

	// every subsystem logger, so SetLevel can reach them all
	loggers = map[string]slog.Logger{
		Server: backend.Logger(Server),
		Room:   backend.Logger(Room),
		Game:   backend.Logger(Game),
		Client: backend.Logger(Client),
	}
)

// Logger returns the logger for a subsystem tag, or slog.Disabled for an unknown tag
func Logger(tag string) slog.Logger {
	if l, ok := loggers[tag]; ok {
		return l
	}
	return slog.Disabled
}

// SetLevel parses a level name ("trace", "debug", "info", "warn", "error", "critical", "off")
// and applies it to every subsystem
func SetLevel(level string) error {
	lvl, ok := slog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}
	for _, l := range loggers {
		l.SetLevel(lvl)
	}
	return nil
}

// ValidLevel reports whether level is a name SetLevel accepts
func ValidLevel(level string) bool {
	_, ok := slog.LevelFromString(level)
	return ok
}

// SetOutput redirects every subsystem logger to w. The client uses it to keep
// log lines off the terminal UI.
func SetOutput(w io.Writer) {
	out.mu.Lock()
	out.w = w
	out.mu.Unlock()
}

// Subsystems lists the known tags, sorted
func Subsystems() []string {
	tags := make([]string, 0, len(loggers))
	for tag := range loggers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
