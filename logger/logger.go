package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

type CustomLogger struct {
	*log.Logger
}

var logLevelMapping = map[string]log.Level{
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
	"warn":  log.WarnLevel,
	"error": log.ErrorLevel,
}

// ProviderLogger is usable before SetupLogging is called, it writes to stderr until then
var ProviderLogger = NewCustomLogger(os.Stderr, "info")

func SetupLogging(level, folder string) error {
	customLogger, err := CreateCustomLogger(filepath.Join(folder, "simulator.log"), level)
	if err != nil {
		return err
	}
	ProviderLogger = customLogger
	return nil
}

func (l CustomLogger) LogDebug(event_name string, message string) {
	l.WithFields(log.Fields{
		"event": event_name,
	}).Debug(message)
}

func (l CustomLogger) LogInfo(event_name string, message string) {
	l.WithFields(log.Fields{
		"event": event_name,
	}).Info(message)
}

func (l CustomLogger) LogError(event_name string, message string) {
	l.WithFields(log.Fields{
		"event": event_name,
	}).Error(message)
}

func (l CustomLogger) LogWarn(event_name string, message string) {
	l.WithFields(log.Fields{
		"event": event_name,
	}).Warn(message)
}

// NewCustomLogger creates a JSON logger writing to the provided output
func NewCustomLogger(out io.Writer, level string) *CustomLogger {
	logger := log.New()
	logger.SetFormatter(&log.JSONFormatter{})
	logger.SetLevel(levelFor(level))
	logger.SetOutput(out)

	return &CustomLogger{Logger: logger}
}

// Discard returns a logger that drops everything, used by tests
func Discard() *CustomLogger {
	return NewCustomLogger(io.Discard, "error")
}

func CreateCustomLogger(logFilePath, level string) (*CustomLogger, error) {
	err := os.MkdirAll(filepath.Dir(logFilePath), os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("Could not create log folder - %w", err)
	}

	logFile, err := os.OpenFile(logFilePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("Could not set log output - %w", err)
	}

	return NewCustomLogger(logFile, level), nil
}

func levelFor(level string) log.Level {
	if lvl, ok := logLevelMapping[level]; ok {
		return lvl
	}
	return log.InfoLevel
}
