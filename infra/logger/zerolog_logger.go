package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

var (
	levelMu      sync.RWMutex
	defaultLevel = "info"
	output       io.Writer
)

// SetLevel changes the level of loggers created afterwards when LOG_LEVEL is
// not set.
func SetLevel(level string) error {
	if _, err := zerolog.ParseLevel(strings.ToLower(level)); err != nil {
		return err
	}
	levelMu.Lock()
	defaultLevel = level
	levelMu.Unlock()
	return nil
}

func currentLevel() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	levelMu.RLock()
	defer levelMu.RUnlock()
	return defaultLevel
}

// SetOutput sends the JSON output of loggers created afterwards to w instead
// of stdout. A nil writer restores stdout.
func SetOutput(w io.Writer) {
	levelMu.Lock()
	output = w
	levelMu.Unlock()
}

// NewZerologLogger creates a ZerologLogger writing to stdout, or to the
// writer installed with SetOutput. APP_ENV=dev switches stdout to the human
// readable console writer. All logs include the provided component field.
// The level comes from LOG_LEVEL, then SetLevel.
func NewZerologLogger(component string) Logger {
	levelMu.RLock()
	out := output
	levelMu.RUnlock()
	if out == nil {
		out = os.Stdout
		if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
			out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		}
	}
	return NewZerologLoggerTo(out, component, currentLevel())
}

// NewZerologLoggerTo writes to w at the given level name. Unknown or empty
// levels default to info.
func NewZerologLoggerTo(w io.Writer, component, level string) *ZerologLogger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	z := zerolog.New(w).Level(lvl).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
