package notify

import (
	"fmt"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02T15:04:05.000000"

// RunLog is the ordered, append-only log of one request's handling. It
// becomes both the notification mail body and the HTTP response body,
// and is discarded once the response is written.
type RunLog struct {
	clock func() time.Time
	lines []string
}

// NewRunLog creates an empty run log. Pass nil to use the wall clock.
func NewRunLog(clock func() time.Time) *RunLog {
	if clock == nil {
		clock = time.Now
	}
	return &RunLog{clock: clock}
}

// Add appends one timestamped message
func (l *RunLog) Add(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.lines = append(l.lines, l.clock().UTC().Format(timestampLayout)+"Z: "+msg)
}

// Len returns the number of messages logged so far
func (l *RunLog) Len() int {
	return len(l.lines)
}

func (l *RunLog) String() string {
	return strings.Join(l.lines, "\n")
}
