// Package logger provides leveled logging for the daemon.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level represents a logging level.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

type leveledLogger struct {
	level Level
	out   *log.Logger
}

var std *leveledLogger

// Init initializes the package logger with the given level and format.
// Format "text" adds caller information; anything else keeps timestamps only.
func Init(level string, format string) {
	flags := log.LstdFlags | log.Lmicroseconds
	if strings.EqualFold(format, "text") {
		flags |= log.Lshortfile
	}
	std = &leveledLogger{
		level: parseLevel(level),
		out:   log.New(os.Stderr, "", flags),
	}
}

// SetOutput redirects log output; used by tests.
func SetOutput(w io.Writer) {
	if std != nil {
		std.out.SetOutput(w)
	}
}

func parseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func output(lvl Level, tag, format string, args ...any) {
	if std == nil || std.level > lvl {
		return
	}
	_ = std.out.Output(3, fmt.Sprintf(tag+format, args...))
}

func Debug(format string, args ...any) { output(DebugLevel, "[DEBUG] ", format, args...) }

func Info(format string, args ...any) { output(InfoLevel, "[INFO] ", format, args...) }

func Warn(format string, args ...any) { output(WarnLevel, "[WARN] ", format, args...) }

func Error(format string, args ...any) { output(ErrorLevel, "[ERROR] ", format, args...) }

// Fatal logs at error severity and terminates the process.
func Fatal(format string, args ...any) {
	if std != nil {
		_ = std.out.Output(2, fmt.Sprintf("[FATAL] "+format, args...))
	}
	os.Exit(1)
}
