// Package pid records the running daemon's process id so a second
// invocation can find and signal it.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/battlevel/internal/errors"
)

// pidFile is created by os.CreateTemp, so it is always mode 0600.
const pidFile = "battlevel.pid"

// DefaultPath is the PID file location when none is configured.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), pidFile)
}

type File struct {
	path string
}

func New(path string) *File {
	if path == "" {
		path = DefaultPath()
	}
	return &File{path: path}
}

func (f *File) Path() string {
	return f.path
}

// Write records the current process ID. It fails with ErrAlreadyRunning
// when the file names a live process; a stale file is replaced. The file is
// linked into place fully written, so concurrent writers see either no
// file or a complete one and exactly one of them wins.
func (f *File) Write() error {
	errFactory := errors.New()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return errFactory.Wrap(errors.ErrPIDFile, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*")
	if err != nil {
		return errFactory.Wrap(errors.ErrPIDFile, err)
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.WriteString(strconv.Itoa(os.Getpid()))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errFactory.Wrap(errors.ErrPIDFile, err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		err := os.Link(tmp.Name(), f.path)
		if err == nil {
			return nil
		}
		if !os.IsExist(err) {
			return errFactory.Wrap(errors.ErrPIDFile, err)
		}

		existing, readErr := f.Read()
		if readErr == nil && alive(existing) {
			return errFactory.WithData(errors.ErrAlreadyRunning, existing)
		}
		if attempt == 0 {
			if err := f.removeStale(existing); err != nil {
				return err
			}
		}
	}

	return errFactory.WithData(errors.ErrPIDFile, f.path)
}

// removeStale deletes the file only while it still names the stale pid, so
// a writer that replaced it in the meantime keeps its file.
func (f *File) removeStale(stale int) error {
	current, err := f.Read()
	switch {
	case errors.HasCode(err, errors.ErrNotRunning):
		return nil
	case err == nil && current != stale && alive(current):
		return errors.New().WithData(errors.ErrAlreadyRunning, current)
	}
	return f.Remove()
}

// Read returns the recorded process ID.
func (f *File) Read() (int, error) {
	errFactory := errors.New()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return 0, errFactory.Wrap(errors.ErrNotRunning, err)
	}
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrPIDFile, err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, errFactory.WithData(errors.ErrPIDFile, strings.TrimSpace(string(data)))
	}

	return pid, nil
}

// Signal delivers sig to the recorded process. A missing file or a dead
// process yields ErrNotRunning and removes the stale file.
func (f *File) Signal(sig os.Signal) (int, error) {
	errFactory := errors.New()

	pid, err := f.Read()
	if err != nil {
		return 0, err
	}

	if !alive(pid) {
		_ = f.Remove()
		return pid, errFactory.WithData(errors.ErrNotRunning, pid)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return pid, errFactory.Wrap(errors.ErrPIDFile, err)
	}
	if err := process.Signal(sig); err != nil {
		return pid, errFactory.Wrap(errors.ErrPIDFile, err)
	}

	return pid, nil
}

// Remove deletes the PID file if it is present.
func (f *File) Remove() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrPIDFile, err)
	}

	return nil
}

func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
