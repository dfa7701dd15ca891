package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger provides leveled logging for bok-choy components.
//
// Every entry is written as "[timestamp] [component] [LEVEL] message".
// Debug entries are dropped unless the logger was created with debug enabled.
type Logger struct {
	runID     string
	component string
	debug     bool
	file      *os.File
	logger    *log.Logger
	mu        *sync.Mutex
	logPath   string
	closeOnce *sync.Once
}

var (
	// runID identifies the current process in log output
	runID     string
	runIDOnce sync.Once
)

// getRunID returns or creates the run ID for this process
func getRunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

// Option configures a Logger.
type Option func(*Logger)

// WithDebug enables Debugf output.
func WithDebug() Option {
	return func(l *Logger) { l.debug = true }
}

// New creates a logger for component that writes to w.
// A nil writer defaults to stderr.
func New(component string, w io.Writer, opts ...Option) *Logger {
	if w == nil {
		w = os.Stderr
	}
	l := &Logger{
		runID:     getRunID(),
		component: component,
		logger:    log.New(w, "", 0), // timestamps are formatted by formatLogEntry
		mu:        &sync.Mutex{},
		closeOnce: &sync.Once{},
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// NewFileLogger creates a logger for component that appends to
// <dir>/<run-id>-bokchoy.log.
//
// If the directory cannot be created or the file cannot be opened, it returns
// a logger writing to stderr along with the error, so callers can detect the
// fallback and carry on.
func NewFileLogger(component, dir string, opts ...Option) (*Logger, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		err = fmt.Errorf("failed to create log directory: %w", err)
		return newFallbackLogger(component, err, opts...), err
	}

	logPath := filepath.Join(dir, fmt.Sprintf("%s-bokchoy.log", getRunID()))

	// Append mode: several components may share the run's file
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newFallbackLogger(component, err, opts...), err
	}

	l := New(component, file, opts...)
	l.file = file
	l.logPath = logPath
	return l, nil
}

// newFallbackLogger creates a stderr logger when file logging fails
func newFallbackLogger(component string, err error, opts ...Option) *Logger {
	l := New(component, os.Stderr, opts...)
	l.Warnf("failed to initialize file logging: %v", err)
	l.Warnf("falling back to stderr logging")
	return l
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New("discard", io.Discard)
}

// With returns a logger for another component sharing this logger's output.
func (l *Logger) With(component string) *Logger {
	return &Logger{
		runID:     l.runID,
		component: component,
		debug:     l.debug,
		file:      l.file,
		logger:    l.logger,
		mu:        l.mu,
		logPath:   l.logPath,
		closeOnce: l.closeOnce,
	}
}

// formatLogEntry creates a log entry with timestamp, component, and level
func (l *Logger) formatLogEntry(level, message string) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	return fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, l.component, level, message)
}

func (l *Logger) write(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	message := fmt.Sprintf(format, v...)
	l.logger.Println(l.formatLogEntry(level, message))
}

// Debugf logs a debug-level message. No-op unless debug is enabled.
func (l *Logger) Debugf(format string, v ...interface{}) {
	if !l.debug {
		return
	}
	l.write("DEBUG", format, v...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.write("INFO", format, v...)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.write("WARN", format, v...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.write("ERROR", format, v...)
}

// RunID returns the run ID shared by all loggers in this process
func (l *Logger) RunID() string {
	return l.runID
}

// LogPath returns the path to the log file, or "" when not file-backed
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
