package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Options configures the process-wide logger.
type Options struct {
	Level string
	// File, when set, adds a rotating JSON file sink next to the console.
	File string
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the singleton console logger with the provided level.
// Only the first call to Get or GetWithOptions configures the logger.
func Get(level string) *Logger {
	return GetWithOptions(Options{Level: level})
}

// GetWithOptions is Get with a file sink.
func GetWithOptions(opts Options) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(opts)
	})
	return globalLogger
}

// Nop returns a logger that discards everything; used by tests and
// library callers that pass no logger.
func Nop() *Logger {
	return newNopLogger()
}
