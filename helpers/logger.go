package helpers

import (
	"fmt"
	"os"
	"sync"
	"time"

	"sjsage522/seafoodcrawler/logger"
)

// LoggerInterface defines the interface for failure log implementations
type LoggerInterface interface {
	LogError(target string, err error)
	LogInfo(format string, args ...interface{})
}

// Logger appends failures to a plain text file and forwards info to the console logger
type Logger struct {
	errorFile string
	mu        sync.Mutex
}

// NewLogger creates a new logger instance
func NewLogger(errorFile string) *Logger {
	return &Logger{
		errorFile: errorFile,
	}
}

// LogError logs an error to a file with the failing target and a timestamp
func (l *Logger) LogError(target string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, fileErr := os.OpenFile(l.errorFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if fileErr != nil {
		logger.Warn("failed to open error log %s: %v", l.errorFile, fileErr)
		return
	}
	defer f.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(f, "[%s] [%s] %s\n", timestamp, target, err.Error())
}

// LogInfo logs an informational message
func (l *Logger) LogInfo(format string, args ...interface{}) {
	logger.Info(format, args...)
}
