package core

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/ky489401/anki-canonical/pkg/clock"
	"github.com/ky489401/anki-canonical/pkg/resync"
	"github.com/sirupsen/logrus"
)

var (
	// Lazy-load and ensure a single read
	loggerOnce      resync.Once
	loggerSingleton *Logger
)

type VerboseLevel int

const (
	VerboseOff VerboseLevel = iota
	VerboseInfo
	VerboseDebug
	VerboseTrace
)

func CurrentLogger() *Logger {
	loggerOnce.Do(func() {
		loggerSingleton = NewLogger()
	})
	return loggerSingleton
}

type Logger struct {
	verbose VerboseLevel
	backend *logrus.Logger
	out     io.Writer
}

func NewLogger() *Logger {
	backend := logrus.New()
	backend.SetOutput(os.Stderr)
	backend.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	// Filtering is done using the verbose level
	backend.SetLevel(logrus.TraceLevel)
	return &Logger{
		verbose: VerboseOff,
		backend: backend,
		out:     os.Stdout,
	}
}

// SetVerboseLevel overrides the default verbose level
func (l *Logger) SetVerboseLevel(level VerboseLevel) *Logger {
	l.verbose = level
	return l
}

// SetOutput redirects log messages (stderr by default) and operation reports (stdout by default).
func (l *Logger) SetOutput(w io.Writer) *Logger {
	l.backend.SetOutput(w)
	l.out = w
	return l
}

func (l *Logger) Warn(v ...any) {
	l.backend.Warn(v...)
}
func (l *Logger) Warnf(format string, v ...any) {
	l.backend.Warnf(format, v...)
}

func (l *Logger) Info(v ...any) {
	if l.verbose >= VerboseInfo {
		l.backend.Info(v...)
	}
}
func (l *Logger) Infof(format string, v ...any) {
	if l.verbose >= VerboseInfo {
		l.backend.Infof(format, v...)
	}
}

func (l *Logger) Debugf(format string, v ...any) {
	if l.verbose >= VerboseDebug {
		l.backend.Debugf(format, v...)
	}
}

func (l *Logger) Tracef(format string, v ...any) {
	if l.verbose >= VerboseTrace {
		l.backend.Tracef(format, v...)
	}
}

// Dump prints a detailed representation of a value in trace mode.
func (l *Logger) Dump(label string, v any) {
	if l.verbose >= VerboseTrace {
		l.backend.Tracef("%s:\n%s", label, spew.Sdump(v))
	}
}

// LogOperation reports the outcome of a user-facing operation.
//
//	[2023-01-01 12:00:00] ✅ Import: deck.apkg
func (l *Logger) LogOperation(operation string, details string, success bool) {
	status := color.GreenString("✅")
	if !success {
		status = color.RedString("❌")
	}
	timestamp := clock.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(l.out, "[%s] %s %s: %s\n", timestamp, status, operation, details)
}
