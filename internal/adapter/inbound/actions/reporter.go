package actions

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jonny/ci-notify/internal/domain/port/outbound"
)

// CommandReporter writes outcome signals as workflow commands.
type CommandReporter struct {
	mu     sync.Mutex
	w      io.Writer
	failed bool
}

var _ outbound.Reporter = (*CommandReporter)(nil)

// NewCommandReporter writes to w, normally os.Stdout.
func NewCommandReporter(w io.Writer) *CommandReporter {
	return &CommandReporter{w: w}
}

// Info writes a plain log line.
func (r *CommandReporter) Info(message string) {
	r.writeLine(message)
}

// Error writes an ::error:: annotation.
func (r *CommandReporter) Error(message string) {
	r.writeLine("::error::" + escapeData(message))
}

// SetFailed writes an error annotation and marks the invocation failed.
func (r *CommandReporter) SetFailed(message string) {
	r.mu.Lock()
	r.failed = true
	r.mu.Unlock()
	r.Error(message)
}

func (r *CommandReporter) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}

func (r *CommandReporter) writeLine(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.w, s)
}

var dataEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

// escapeData encodes characters the runner treats as command delimiters.
func escapeData(s string) string {
	return dataEscaper.Replace(s)
}
