package logging

import (
	"fmt"
	"log"
	"os"
	"sort"
)

// DefaultLogger is a minimal logger backed by Go's standard log package.
// Debug/Info -> stdout, Warn/Error -> stderr.
type DefaultLogger struct {
	stdoutLogger *log.Logger
	stderrLogger *log.Logger
	level        Level
	fields       Fields
}

// NewDefaultLogger creates a new default logger at InfoLevel
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{
		stdoutLogger: log.New(os.Stdout, "", log.LstdFlags),
		stderrLogger: log.New(os.Stderr, "", log.LstdFlags),
		level:        InfoLevel,
		fields:       make(Fields),
	}
}

func (d *DefaultLogger) formatMessage(level Level, err error, msg string, fields ...Fields) string {
	allFields := mergeFields(d.fields, fields)

	logMsg := fmt.Sprintf("[%s] %s", level.String(), msg)
	if err != nil {
		logMsg += fmt.Sprintf(": %v", err)
	}

	if len(allFields) > 0 {
		// Sort keys for stable output
		keys := make([]string, 0, len(allFields))
		for k := range allFields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			logMsg += fmt.Sprintf(" %s=%v", k, allFields[k])
		}
	}

	return logMsg
}

// Debug logs a debug message
func (d *DefaultLogger) Debug(msg string, fields ...Fields) {
	if d.level <= DebugLevel {
		d.stdoutLogger.Print(d.formatMessage(DebugLevel, nil, msg, fields...))
	}
}

// Info logs an info message
func (d *DefaultLogger) Info(msg string, fields ...Fields) {
	if d.level <= InfoLevel {
		d.stdoutLogger.Print(d.formatMessage(InfoLevel, nil, msg, fields...))
	}
}

// Warn logs a warning
func (d *DefaultLogger) Warn(msg string, fields ...Fields) {
	if d.level <= WarnLevel {
		d.stderrLogger.Print(d.formatMessage(WarnLevel, nil, msg, fields...))
	}
}

// Error logs an error with its cause
func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	if d.level <= ErrorLevel {
		d.stderrLogger.Print(d.formatMessage(ErrorLevel, err, msg, fields...))
	}
}

// WithFields returns a copy of the logger with preset fields
func (d *DefaultLogger) WithFields(fields Fields) Logger {
	return &DefaultLogger{
		stdoutLogger: d.stdoutLogger,
		stderrLogger: d.stderrLogger,
		level:        d.level,
		fields:       mergeFields(d.fields, []Fields{fields}),
	}
}

// SetLevel sets the minimum log level
func (d *DefaultLogger) SetLevel(level Level) {
	d.level = level
}

// NoOpLogger discards all log output
type NoOpLogger struct{}

// Debug does nothing
func (n *NoOpLogger) Debug(msg string, fields ...Fields) {}

// Info does nothing
func (n *NoOpLogger) Info(msg string, fields ...Fields) {}

// Warn does nothing
func (n *NoOpLogger) Warn(msg string, fields ...Fields) {}

// Error does nothing
func (n *NoOpLogger) Error(err error, msg string, fields ...Fields) {}

// WithFields returns the same no-op logger
func (n *NoOpLogger) WithFields(fields Fields) Logger { return n }

// SetLevel does nothing
func (n *NoOpLogger) SetLevel(level Level) {}
