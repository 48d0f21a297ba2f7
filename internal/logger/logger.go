// Package logger is the process-wide logger used by the explainer, the
// explanation engine and the report compiler.
//
// Errors, warnings and Print messages are always written. Debug and info
// messages are only written once verbose mode has been switched on by the CLI
// --verbose flag.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables debug and info output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the writer all messages go to.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(true, "DEBUG", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write(true, "INFO", format, args...)
}

// Print writes an info message whatever the verbose setting. It is meant for
// output a caller asked for explicitly, like an explainer built verbose.
func Print(format string, args ...any) {
	write(false, "INFO", format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	write(false, "WARN", format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	write(false, "ERROR", format, args...)
}

func write(verboseOnly bool, level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verboseOnly && !verbose {
		return
	}
	fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
}
