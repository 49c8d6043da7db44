package util

import (
	"sync"
)

var (
	globalLogger LoggerInterface
	loggerMu     sync.RWMutex
)

// InitLogger initializes the global logger instance with debug mode support
func InitLogger(logLevel, logFile string, debugToConsole bool, format LogFormat) error {
	logger, err := NewLogger(logLevel, logFile, debugToConsole, format)
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

// SetLogger replaces the global logger, closing the previous one. nil disables logging.
func SetLogger(logger LoggerInterface) {
	loggerMu.Lock()
	previous := globalLogger
	globalLogger = logger
	loggerMu.Unlock()

	if previous != nil && previous != logger {
		_ = previous.Close()
	}
}

// GetLogger returns the global logger, or nil when logging is not initialized
func GetLogger() LoggerInterface {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return globalLogger
}

// LogInfo convenience functions for logging
func LogInfo(msg string, fields ...Field) {
	if logger := GetLogger(); logger != nil {
		logger.Info(msg, fields...)
	}
}

func LogInfof(format string, args ...interface{}) {
	if logger := GetLogger(); logger != nil {
		logger.Infof(format, args...)
	}
}

func LogDebug(msg string, fields ...Field) {
	if logger := GetLogger(); logger != nil {
		logger.Debug(msg, fields...)
	}
}

func LogDebugf(format string, args ...interface{}) {
	if logger := GetLogger(); logger != nil {
		logger.Debugf(format, args...)
	}
}

func LogWarn(msg string, fields ...Field) {
	if logger := GetLogger(); logger != nil {
		logger.Warn(msg, fields...)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if logger := GetLogger(); logger != nil {
		logger.Warnf(format, args...)
	}
}

func LogError(msg string, fields ...Field) {
	if logger := GetLogger(); logger != nil {
		logger.Error(msg, fields...)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if logger := GetLogger(); logger != nil {
		logger.Errorf(format, args...)
	}
}
