// Package logging provides a small leveled logger with per-component
// prefixes. All output goes to a single shared writer (stderr by
// default) so CLI result output on stdout stays machine-parseable.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is the logging verbosity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "?"
	}
}

// ParseLevel converts a config string into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

var (
	mu       sync.Mutex
	minLevel = LevelInfo
	out      io.Writer = os.Stderr
)

// SetLevel sets the global minimum level. Messages below it are dropped.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = l
}

// SetOutput redirects all loggers to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Logger writes leveled messages tagged with a component name.
type Logger struct {
	component string
}

// New creates a logger for the given component, e.g. "window" or "vision".
func New(component string) *Logger {
	return &Logger{component: component}
}

func (lg *Logger) Debug(msg string, kv ...interface{}) { lg.log(LevelDebug, msg, kv...) }
func (lg *Logger) Info(msg string, kv ...interface{})  { lg.log(LevelInfo, msg, kv...) }
func (lg *Logger) Warn(msg string, kv ...interface{})  { lg.log(LevelWarn, msg, kv...) }
func (lg *Logger) Error(msg string, kv ...interface{}) { lg.log(LevelError, msg, kv...) }

// log formats one line: [15:04:05.000] LEVEL [component] message | k=v k=v
func (lg *Logger) log(level Level, msg string, kv ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if level < minLevel {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %-5s [%s] %s", time.Now().Format("15:04:05.000"), level, lg.component, msg)
	if len(kv) > 0 {
		b.WriteString(" |")
		for i := 0; i+1 < len(kv); i += 2 {
			fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
		}
		if len(kv)%2 != 0 {
			fmt.Fprintf(&b, " %v", kv[len(kv)-1])
		}
	}
	b.WriteByte('\n')
	io.WriteString(out, b.String())
}
