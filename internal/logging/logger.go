package logging

// Structured logging for artsel

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelVerbose
	LogLevelDebug
)

// ParseLevel converts a config or flag value into a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent", "off", "none":
		return LogLevelSilent, nil
	case "error":
		return LogLevelError, nil
	case "", "info":
		return LogLevelInfo, nil
	case "verbose":
		return LogLevelVerbose, nil
	case "debug":
		return LogLevelDebug, nil
	}
	return LogLevelInfo, fmt.Errorf("unknown log level %q (use silent|error|info|verbose|debug)", s)
}

func (l LogLevel) String() string {
	switch l {
	case LogLevelSilent:
		return "silent"
	case LogLevelError:
		return "error"
	case LogLevelInfo:
		return "info"
	case LogLevelVerbose:
		return "verbose"
	case LogLevelDebug:
		return "debug"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LogLevelSilent:
		return zerolog.Disabled
	case LogLevelError:
		return zerolog.ErrorLevel
	case LogLevelInfo:
		return zerolog.InfoLevel
	case LogLevelVerbose:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// Options controls where log output goes.
type Options struct {
	Level LogLevel
	// File receives JSON lines when set.
	File string
	// Console is the human-readable sink. Nil disables console output, which
	// the TUI relies on so logs never land on the alternate screen.
	Console io.Writer
}

// Logger provides structured logging
type Logger struct {
	mu    sync.Mutex
	level LogLevel
	file  *os.File
	zlog  zerolog.Logger
}

// NewLogger creates a new logger writing to stderr and, if logFile is set,
// to that file.
func NewLogger(level LogLevel, logFile string) (*Logger, error) {
	return NewLoggerWithOptions(Options{Level: level, File: logFile, Console: os.Stderr})
}

// NewLoggerWithOptions creates a logger from explicit sinks.
func NewLoggerWithOptions(opts Options) (*Logger, error) {
	l := &Logger{level: opts.Level}

	var writers []io.Writer
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        opts.Console,
			TimeFormat: "15:04:05",
		})
	}
	if opts.File != "" {
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("create log file: %w", err)
		}
		l.file = file
		writers = append(writers, file)
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	l.zlog = zerolog.New(out).Level(opts.Level.zerolog()).With().Timestamp().Logger()
	return l, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{level: LogLevelSilent, zlog: zerolog.Nop()}
}

// Close closes the logger and flushes all data
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.logger().Error().Msgf(format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.logger().Info().Msgf(format, v...)
}

// Verbose logs a verbose message
func (l *Logger) Verbose(format string, v ...interface{}) {
	l.logger().Debug().Msgf(format, v...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.logger().Trace().Msgf(format, v...)
}

// Zerolog exposes the underlying logger for event-style calls.
func (l *Logger) Zerolog() *zerolog.Logger {
	return l.logger()
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.zlog = l.zlog.Level(level.zerolog())
}

// GetLevel returns the current logging level
func (l *Logger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// LogRequest logs one catalog request. Successes are verbose, failures info.
func (l *Logger) LogRequest(method, url string, status int, elapsed time.Duration, err error) {
	zl := l.logger()
	ev := zl.Debug()
	if err != nil || status >= 400 {
		ev = zl.Info()
	}
	ev = ev.Str("method", method).
		Str("url", url).
		Float64("rtt_ms", float64(elapsed.Microseconds())/1000.0)
	if status != 0 {
		ev = ev.Int("status", status)
	}
	if err != nil {
		ev = ev.Err(err)
		ev.Msg("request failed")
		return
	}
	ev.Msg("request complete")
}

// LogStartup logs startup information
func (l *Logger) LogStartup(command, baseURL string, pageSize int, configPath string) {
	l.Info("Starting artsel %s", command)
	l.Verbose("  Catalog: %s", baseURL)
	l.Verbose("  Page size: %d", pageSize)
	if configPath != "" {
		l.Verbose("  Config: %s", configPath)
	}
}

// logger returns a snapshot of the current zerolog logger.
func (l *Logger) logger() *zerolog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	zl := l.zlog
	return &zl
}
