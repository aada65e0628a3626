package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
)

// SetOutput redirects all log output and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := output
	output = w
	return prev
}

// DebugEnabled returns true if debug mode is enabled via TS_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TS_DEBUG") != ""
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		write("debug: " + fmt.Sprintf(format, args...))
	}
}

// Debugln prints a debug message followed by a newline only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		write("debug: " + fmt.Sprintln(args...))
	}
}

// Warnf always prints, for conditions the user should know about but that
// do not fail the current operation (a queued stamp being dropped).
func Warnf(format string, args ...interface{}) {
	write("warning: " + fmt.Sprintf(format, args...))
}

// Errorf always prints.
func Errorf(format string, args ...interface{}) {
	write("error: " + fmt.Sprintf(format, args...))
}

func write(msg string) {
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprint(output, msg)
}
