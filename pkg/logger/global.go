package logger

import (
	"os"
	"sync"
)

var (
	globalLogger *Logger
	mu           sync.RWMutex
)

// GetLogger returns the global logger, creating a JSON stderr logger on
// first use. DEBUG=true or LOG_LEVEL override the default warn level.
func GetLogger() *Logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		globalLogger = New(Config{
			Level:  defaultLevel(),
			Format: "json",
			Output: "stderr",
		})
	}
	return globalLogger
}

// SetLogger replaces the global logger
func SetLogger(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = l
	SetGlobalLogger(l)
}

func defaultLevel() string {
	if os.Getenv("DEBUG") == "true" {
		return "debug"
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return "warn"
}

// Debug logs a debug message
func Debug(msg string) {
	GetLogger().Debug(msg)
}

// Info logs an info message
func Info(msg string) {
	GetLogger().Info(msg)
}

// Warn logs a warning message
func Warn(msg string) {
	GetLogger().Warn(msg)
}

// Error logs an error message
func Error(msg string) {
	GetLogger().Error(msg)
}

// WithField adds a field to the logger
func WithField(key string, value interface{}) *Logger {
	return GetLogger().WithField(key, value)
}

// WithError adds an error to the logger
func WithError(err error) *Logger {
	return GetLogger().WithError(err)
}
