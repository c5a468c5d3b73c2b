package server

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ConsoleLevel classifies a console message for the browser
type ConsoleLevel string

const (
	LevelInfo    ConsoleLevel = "info"
	LevelWarning ConsoleLevel = "warning"
	LevelError   ConsoleLevel = "error"
)

// ConsoleMessage is one log line forwarded to the client as a "console" event
type ConsoleMessage struct {
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	Level     ConsoleLevel `json:"level"`
}

// classifyMessage derives the level of a log line from its wording
func classifyMessage(message string) ConsoleLevel {
	switch {
	case strings.HasPrefix(message, "Render failed"), strings.HasPrefix(message, "Error"):
		return LevelError
	case strings.HasPrefix(message, "Warning"):
		return LevelWarning
	default:
		return LevelInfo
	}
}

// WebLogger is the core.Logger of a single render request. Every line goes
// to the server log and, without blocking, to the request's console channel.
type WebLogger struct {
	consoleChan chan<- ConsoleMessage
	out         io.Writer

	mu      sync.Mutex
	dropped int
}

var _ core.Logger = (*WebLogger)(nil)

// NewWebLogger creates a logger feeding consoleChan. A nil channel only
// writes to out; a nil out discards the server copy.
func NewWebLogger(consoleChan chan<- ConsoleMessage, out io.Writer) *WebLogger {
	if out == nil {
		out = io.Discard
	}
	return &WebLogger{consoleChan: consoleChan, out: out}
}

// Printf implements core.Logger
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	level := classifyMessage(message)

	wl.mu.Lock()
	defer wl.mu.Unlock()

	fmt.Fprintf(wl.out, "[%s] %s", level, message)

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{Message: message, Timestamp: time.Now(), Level: level}:
	default:
		wl.dropped++
	}
}

// Dropped returns how many messages did not fit in the console channel
func (wl *WebLogger) Dropped() int {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	return wl.dropped
}
