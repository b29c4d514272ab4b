package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color" // Coloured console output
	"github.com/sirupsen/logrus"
)

// Console printing functions, one colour per level. They behave like fmt.Printf.

// Info prints informational messages in green.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn prints warnings in bright magenta.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error prints errors in red.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug prints debug messages in cyan once Init(true) has been called, otherwise it is a no-op.
var Debug = func(format string, a ...any) {}

// Run is the per-run log written to the dated log file. Until OpenRunLog is called it discards
// everything, so packages can log to it unconditionally.
var Run = newDiscardLogger()

var runFile *os.File

// Init enables or disables debug output on the console and sets the run log level to match.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
		Run.SetLevel(logrus.DebugLevel)
	} else {
		Debug = func(format string, a ...any) {}
		Run.SetLevel(logrus.InfoLevel)
	}
}

// DefaultRunLogName returns the dated default log file name for the given day.
func DefaultRunLogName(now time.Time) string {
	return fmt.Sprintf("mac-provision-%s.log", now.Format("2006-01-02"))
}

// OpenRunLog points the run log at path (appending) and writes the opening entry, which carries
// the current date. Call CloseRunLog when the run ends.
func OpenRunLog(path string, now time.Time) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	runFile = file
	Run.SetOutput(file)
	Run.WithField("date", now.Format("2006-01-02")).Info("provisioning run started")
	return nil
}

// CloseRunLog flushes and closes the run log file, if one is open.
func CloseRunLog() error {
	if runFile == nil {
		return nil
	}
	Run.SetOutput(io.Discard)
	err := runFile.Close()
	runFile = nil
	return err
}

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   true,
		TimestampFormat: time.RFC3339,
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}
