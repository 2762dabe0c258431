package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the name of the rotated log file inside Config.Path.
const FileName = "showguide.log"

// Logger wraps zerolog for application logging.
type Logger struct {
	zerolog.Logger
	rotator  *lumberjack.Logger
	recorder *Recorder
	filePath string
}

// Config holds logger configuration.
type Config struct {
	Level      string
	Format     string // "console" or "json"
	Path       string // directory for log files; empty disables file output
	MaxSizeMB  int    // default: 10
	MaxBackups int    // default: 5
	MaxAgeDays int    // default: 30
	Compress   bool
	RecentSize int // entries kept for the recent-logs endpoint; 0 disables
	Console    io.Writer
}

// New creates a new logger instance.
func New(cfg Config) *Logger {
	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}

	var consoleOutput io.Writer = console
	if cfg.Format != "json" {
		consoleOutput = zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.RFC3339,
		}
	}

	writers := []io.Writer{consoleOutput}
	l := &Logger{}

	if cfg.Path != "" {
		if err := os.MkdirAll(cfg.Path, 0o755); err == nil {
			l.filePath = filepath.Join(cfg.Path, FileName)
			l.rotator = &lumberjack.Logger{
				Filename:   l.filePath,
				MaxSize:    withDefault(cfg.MaxSizeMB, 10),
				MaxBackups: withDefault(cfg.MaxBackups, 5),
				MaxAge:     withDefault(cfg.MaxAgeDays, 30),
				Compress:   cfg.Compress,
				LocalTime:  true,
			}
			writers = append(writers, l.rotator)
		}
	}

	if cfg.RecentSize > 0 {
		l.recorder = NewRecorder(cfg.RecentSize)
		writers = append(writers, l.recorder)
	}

	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	return l
}

// Close closes the log file if one is open.
func (l *Logger) Close() error {
	if l.rotator != nil {
		return l.rotator.Close()
	}
	return nil
}

// RecentLogs returns the buffered log entries, oldest first.
func (l *Logger) RecentLogs() []LogEntry {
	if l.recorder == nil {
		return nil
	}
	return l.recorder.Entries()
}

// LogFilePath returns the active log file, or "" when file output is off.
func (l *Logger) LogFilePath() string {
	return l.filePath
}

// WithComponent returns a zerolog logger tagged with a component field.
func (l *Logger) WithComponent(component string) zerolog.Logger {
	return l.Logger.With().Str("component", component).Logger()
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
