package pid_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"testing"

	"codeberg.org/mutker/battlevel/internal/errors"
	"codeberg.org/mutker/battlevel/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "battlevel.pid")
	f := pid.New(path)

	require.NoError(t, f.Write())

	got, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, f.Remove())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, f.Remove())
}

func TestWriteRefusesLiveProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battlevel.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o600))

	err := pid.New(path).Write()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

func deadPID(t *testing.T) int {
	t.Helper()
	cmd := exec.Command("true")
	require.NoError(t, cmd.Run())
	return cmd.Process.Pid
}

func TestWriteReplacesStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battlevel.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(deadPID(t))), 0o600))

	f := pid.New(path)
	require.NoError(t, f.Write())

	got, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), got)
}

func TestWriteReplacesGarbageFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "battlevel.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0o600))

	require.NoError(t, pid.New(path).Write())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files may be left behind")
	assert.Equal(t, "battlevel.pid", entries[0].Name())
}

func TestConcurrentWritersOneWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battlevel.pid")

	const writers = 8
	results := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- pid.New(path).Write()
		}()
	}
	wg.Wait()
	close(results)

	won := 0
	for err := range results {
		if err == nil {
			won++
			continue
		}
		assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, won)

	got, err := pid.New(path).Read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), got)
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := pid.New(filepath.Join(dir, "missing.pid")).Read()
	assert.True(t, errors.HasCode(err, errors.ErrNotRunning))

	garbage := filepath.Join(dir, "garbage.pid")
	require.NoError(t, os.WriteFile(garbage, []byte("not-a-pid"), 0o600))
	_, err = pid.New(garbage).Read()
	assert.True(t, errors.HasCode(err, errors.ErrPIDFile))
}

func TestSignalLiveProcess(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() { _ = cmd.Process.Kill() })

	path := filepath.Join(t.TempDir(), "battlevel.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(cmd.Process.Pid)), 0o600))

	got, err := pid.New(path).Signal(syscall.SIGTERM)
	require.NoError(t, err)
	assert.Equal(t, cmd.Process.Pid, got)

	err = cmd.Wait()
	require.Error(t, err)
	status := cmd.ProcessState.Sys().(syscall.WaitStatus)
	assert.Equal(t, syscall.SIGTERM, status.Signal())
}

func TestSignalStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battlevel.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(deadPID(t))), 0o600))

	_, err := pid.New(path).Signal(syscall.SIGTERM)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrNotRunning))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(os.TempDir(), "battlevel.pid"), pid.New("").Path())
}
