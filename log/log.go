// Package log provides file-backed diagnostic loggers. The TUI owns the
// terminal, so nothing here ever writes to stdout or stderr while the
// dashboard is running.
package log

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var (
	InfoLog    *log.Logger
	WarningLog *log.Logger
	ErrorLog   *log.Logger
)

var logFile *os.File

// Initialize opens (or creates) the log file under the user's config
// directory and wires the package loggers to it. It must be called before
// anything logs; Close releases the file handle.
func Initialize() {
	dir, err := os.UserHomeDir()
	if err != nil {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, ".config", "cosmo", "cosmo.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		path = filepath.Join(os.TempDir(), "cosmo.log")
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		f, err = os.OpenFile(filepath.Join(os.TempDir(), "cosmo.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			panic(fmt.Sprintf("could not open any log file: %v", err))
		}
	}
	logFile = f

	InfoLog = log.New(f, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarningLog = log.New(f, "WARNING: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLog = log.New(f, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}

// Close flushes and closes the log file. Safe to call once after Initialize.
func Close() {
	if logFile != nil {
		_ = logFile.Close()
	}
}

func init() {
	// Default to discard so packages can log before Initialize (tests, etc.).
	devnull, _ := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	InfoLog = log.New(devnull, "INFO: ", log.Lshortfile)
	WarningLog = log.New(devnull, "WARNING: ", log.Lshortfile)
	ErrorLog = log.New(devnull, "ERROR: ", log.Lshortfile)
}
