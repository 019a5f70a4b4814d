package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

var (
	mu      sync.Mutex
	output  io.Writer = os.Stderr
	enabled atomic.Bool
)

// DebugEnabled returns true if debug mode is enabled via the PT_DEBUG
// environment variable or SetDebug
func DebugEnabled() bool {
	return enabled.Load() || os.Getenv("PT_DEBUG") != ""
}

// SetDebug turns debug output on or off regardless of PT_DEBUG being unset
func SetDebug(on bool) {
	enabled.Store(on)
}

// SetOutput redirects debug messages and returns the previous writer.
// Messages go to stderr by default so they never mix with command output.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := output
	output = w
	return prev
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(output, format, args...)
	}
}

// Debugln prints a debug message followed by a newline only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(output, args...)
	}
}
