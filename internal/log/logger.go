package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// Level represents log severity levels
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel returns the level named s, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	}
	return InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// Logger interface defines structured logging methods
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	SetLevel(level Level)
	SetJSONOutput(enabled bool)
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer // defaults to os.Stderr
}

// DefaultLogger writes one line per message, either as text or as a JSON object.
type DefaultLogger struct {
	mu         sync.Mutex
	level      Level
	jsonOutput bool
	out        io.Writer
	colors     bool
	now        func() time.Time
}

var (
	defaultLogger *DefaultLogger
	once          sync.Once
)

// New creates a new logger with the given configuration
func New(cfg LoggerConfig) *DefaultLogger {
	l := &DefaultLogger{
		level:      cfg.Level,
		jsonOutput: cfg.JSONOutput,
		out:        cfg.Output,
		now:        time.Now,
	}
	if l.out == nil {
		l.out = os.Stderr
	}
	l.colors = isTerminal(l.out)
	return l
}

// Default returns the default logger instance
func Default() *DefaultLogger {
	once.Do(func() {
		defaultLogger = New(LoggerConfig{Level: InfoLevel})
	})
	return defaultLogger
}

// Discard returns a logger that drops every message.
func Discard() *DefaultLogger {
	return New(LoggerConfig{Level: ErrorLevel + 1, Output: io.Discard})
}

// isTerminal reports whether w is a terminal that accepts colour codes.
func isTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// formatMessage formats the message with key-value args
func formatMessage(msg string, args ...any) string {
	if len(args) == 0 {
		return msg
	}

	var sb strings.Builder
	sb.WriteString(msg)
	for _, kv := range pairs(args) {
		sb.WriteString(" ")
		sb.WriteString(kv.key)
		sb.WriteString("=")
		sb.WriteString(fmt.Sprintf("%v", kv.value))
	}
	return sb.String()
}

type pair struct {
	key   string
	value any
}

// pairs groups args into key-value pairs. A trailing key without a value is
// reported under "!BADKEY"; non-string keys are skipped.
func pairs(args []any) []pair {
	var kvs []pair
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			kvs = append(kvs, pair{"!BADKEY", args[i]})
			break
		}
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		kvs = append(kvs, pair{key, args[i+1]})
	}
	return kvs
}

// colorize wraps the message with ANSI color codes if colors are enabled
func (l *DefaultLogger) colorize(level Level, msg string) string {
	if !l.colors {
		return msg
	}
	return getColor(level) + msg + "\033[0m"
}

// getColor returns the ANSI color code for the given level
func getColor(level Level) string {
	switch level {
	case DebugLevel:
		return "\033[36m" // Cyan
	case InfoLevel:
		return "\033[32m" // Green
	case WarnLevel:
		return "\033[33m" // Yellow
	case ErrorLevel:
		return "\033[31m" // Red
	default:
		return ""
	}
}

func (l *DefaultLogger) log(level Level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}
	timestamp := l.now().Format("2006-01-02 15:04:05")

	if l.jsonOutput {
		entry := map[string]any{
			"timestamp": timestamp,
			"level":     level.String(),
			"message":   msg,
		}
		for _, kv := range pairs(args) {
			if _, reserved := entry[kv.key]; !reserved {
				entry[kv.key] = jsonValue(kv.value)
			}
		}
		data, _ := json.Marshal(entry)
		fmt.Fprintln(l.out, string(data))
		return
	}

	fmt.Fprintf(l.out, "[%s] %s: %s\n", timestamp, level, l.colorize(level, formatMessage(msg, args...)))
}

// jsonValue keeps errors and stringers readable in JSON output.
func jsonValue(v any) any {
	switch v := v.(type) {
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(msg string, args ...any) {
	l.log(DebugLevel, msg, args)
}

// Info logs an info message
func (l *DefaultLogger) Info(msg string, args ...any) {
	l.log(InfoLevel, msg, args)
}

// Warn logs a warning message
func (l *DefaultLogger) Warn(msg string, args ...any) {
	l.log(WarnLevel, msg, args)
}

// Error logs an error message
func (l *DefaultLogger) Error(msg string, args ...any) {
	l.log(ErrorLevel, msg, args)
}

// SetLevel sets the minimum log level
func (l *DefaultLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetJSONOutput enables or disables JSON output
func (l *DefaultLogger) SetJSONOutput(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jsonOutput = enabled
}

// SetOutput redirects the logger.
func (l *DefaultLogger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
	l.colors = isTerminal(w)
}
