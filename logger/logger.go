// Package logger provides the leveled process logger for the user hub.
package logger

import (
	"os"

	"github.com/op/go-logging"

	"userhub/config"
)

const timeFormat = "2006/01/02 15:04:05"

var logger *logging.Logger

func init() {
	// Default backend so library code can log before main configures one.
	InitLogger(logging.INFO)
}

// InitLogger initializes the console logging backend with the given level.
func InitLogger(level logging.Level) {
	newLogger := logging.MustGetLogger(config.GetName())

	backend := logging.NewLogBackend(os.Stderr, "", 0)
	format := logging.MustStringFormatter(`%{time:` + timeFormat + `} %{level} - %{message}`)
	formatted := logging.NewBackendFormatter(backend, format)

	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, config.GetName())

	newLogger.SetBackend(leveled)
	logger = newLogger
}

// Debug logs a debug message.
func Debug(args ...any) {
	logger.Debug(args...)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

// Info logs an info message.
func Info(args ...any) {
	logger.Info(args...)
}

// Infof logs a formatted info message.
func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

// Warning logs a warning message.
func Warning(args ...any) {
	logger.Warning(args...)
}

// Warningf logs a formatted warning message.
func Warningf(format string, args ...any) {
	logger.Warningf(format, args...)
}

// Error logs an error message.
func Error(args ...any) {
	logger.Error(args...)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}
