package logging

import (
	"log"
	"os"
)

const (
	// TraceLevel indicates a log message's level of criticality
	TraceLevel = iota
	// DebugLevel indicates a log message's level of criticality
	DebugLevel
	// InfoLevel indicates a log message's level of criticality
	InfoLevel
	// WarnLevel indicates a log message's level of criticality
	WarnLevel
	// ErrorLevel indicates a log message's level of criticality
	ErrorLevel
	// FatalLevel indicates a log message's level of criticality
	FatalLevel
)

// LogLevelToString translates a log level enum to a string representation
func LogLevelToString(level int) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "TRACE"
	}
}

// Logger filters log messages by level, prefixing each with its level string
type Logger struct {
	level int
	l     *log.Logger
}

var defaultLogger = &Logger{level: WarnLevel, l: log.New(os.Stderr, "", log.LstdFlags)}

// GetDefaultLogger returns the process-wide default Logger, which logs
// messages of WarnLevel and above to stderr
func GetDefaultLogger() *Logger {
	return defaultLogger
}

// CreateLogger produces a Logger which discards messages below the given level
func CreateLogger(level int, l *log.Logger) *Logger {
	return &Logger{level: level, l: l}
}

// Logf logs a message at an arbitrary level
func (lg *Logger) Logf(level int, format string, v ...interface{}) {
	if level < lg.level {
		return
	}
	lg.l.Printf(LogLevelToString(level)+": "+format, v...)
}

// Tracef logs a message at TraceLevel
func (lg *Logger) Tracef(format string, v ...interface{}) {
	lg.Logf(TraceLevel, format, v...)
}

// Debugf logs a message at DebugLevel
func (lg *Logger) Debugf(format string, v ...interface{}) {
	lg.Logf(DebugLevel, format, v...)
}

// Infof logs a message at InfoLevel
func (lg *Logger) Infof(format string, v ...interface{}) {
	lg.Logf(InfoLevel, format, v...)
}

// Warnf logs a message at WarnLevel
func (lg *Logger) Warnf(format string, v ...interface{}) {
	lg.Logf(WarnLevel, format, v...)
}

// Errorf logs a message at ErrorLevel
func (lg *Logger) Errorf(format string, v ...interface{}) {
	lg.Logf(ErrorLevel, format, v...)
}
