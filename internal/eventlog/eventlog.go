// Package eventlog appends timestamped event lines to a plain text file.
package eventlog

import (
	"fmt"
	"os"
	"sync"
	"time"

	"codeberg.org/mutker/battlevel/internal/errors"
)

const (
	// DefaultPath is relative to the working directory of the daemon.
	DefaultPath = "daemon.log"

	// TimestampLayout is a 12-hour clock without an AM/PM marker, kept for
	// compatibility with existing log readers.
	TimestampLayout = "2006-01-02 03:04:05"

	defaultFilePerm = 0o644
)

// Recorder accepts event messages.
type Recorder interface {
	Append(message string) error
}

// File writes one line per Append call to a file it opens and closes every
// time, so external tools may move or truncate the file between events.
type File struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

type Option func(*File)

// WithClock overrides the time source used for line timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *File) {
		f.now = now
	}
}

func New(path string, opts ...Option) *File {
	if path == "" {
		path = DefaultPath
	}
	f := &File{path: path, now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *File) Path() string {
	return f.path
}

// Append writes "[timestamp] message\n", creating the file if needed.
func (f *File) Append(message string) error {
	line := Format(f.now(), message)

	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.OpenFile(f.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, defaultFilePerm)
	if err != nil {
		return errors.New().Wrap(errors.ErrEventLogWrite, err)
	}

	_, werr := fh.WriteString(line)
	cerr := fh.Close()
	if werr != nil {
		return errors.New().Wrap(errors.ErrEventLogWrite, werr)
	}
	if cerr != nil {
		return errors.New().Wrap(errors.ErrEventLogWrite, cerr)
	}

	return nil
}

// Format renders a single event line.
func Format(t time.Time, message string) string {
	return fmt.Sprintf("[%s] %s\n", t.Format(TimestampLayout), message)
}
