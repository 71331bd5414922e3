package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/battlevel/internal/config"
	"codeberg.org/mutker/battlevel/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paths struct {
	dir     string
	logFile string
	pidFile string
}

func newPaths(t *testing.T) paths {
	t.Helper()
	dir := t.TempDir()
	empty := filepath.Join(dir, "battlevel.toml")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	t.Setenv(config.ConfigEnv, empty)
	return paths{
		dir:     dir,
		logFile: filepath.Join(dir, "daemon.log"),
		pidFile: filepath.Join(dir, "battlevel.pid"),
	}
}

func execute(ctx context.Context, args ...string) (string, error) {
	root := NewRootCommand("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestUsageWithoutArguments(t *testing.T) {
	p := newPaths(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(p.dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	out, err := execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, usageNoArgument+"\n", out)

	_, statErr := os.Stat(filepath.Join(p.dir, "daemon.log"))
	assert.True(t, os.IsNotExist(statErr), "usage must not write the event log")
}

func TestUsageWithUnknownArgument(t *testing.T) {
	out, err := execute(context.Background(), "restart")
	require.NoError(t, err)
	assert.Equal(t, usageUnknownArgument+"\n", out)
}

func TestUsageForUnrecognisedInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown long flag", []string{"--bogus"}},
		{"unknown short flag", []string{"-x"}},
		{"unknown flag after start", []string{"start", "--bogus"}},
		{"help command", []string{"help"}},
		{"help with topic", []string{"help", "start"}},
		{"help flag", []string{"--help"}},
		{"help shorthand", []string{"-h"}},
		{"help flag on start", []string{"start", "--help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPaths(t)
			args := append(tt.args, "--log-file", p.logFile, "--pid-file", p.pidFile)

			out, err := execute(context.Background(), args...)
			require.NoError(t, err)
			assert.Equal(t, usageUnknownArgument+"\n", out)

			_, statErr := os.Stat(p.logFile)
			assert.True(t, os.IsNotExist(statErr), "usage must not write the event log")
			_, statErr = os.Stat(p.pidFile)
			assert.True(t, os.IsNotExist(statErr), "usage must not start the daemon")
		})
	}
}

func TestExtraArgumentsAreIgnored(t *testing.T) {
	p := newPaths(t)

	out, err := execute(context.Background(), "stop", "now", "--pid-file", p.pidFile, "--log-file", p.logFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Daemon is not running")

	_, err = execute(context.Background(), "start", "now", "--source", "acpi", "--pid-file", p.pidFile, "--log-file", p.logFile)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidSource))
}

func TestStopWithoutDaemon(t *testing.T) {
	p := newPaths(t)

	out, err := execute(context.Background(), "stop", "--pid-file", p.pidFile, "--log-file", p.logFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Daemon is not running")

	_, statErr := os.Stat(p.logFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStartRejectsUnknownSource(t *testing.T) {
	p := newPaths(t)

	_, err := execute(context.Background(), "start", "--source", "acpi", "--pid-file", p.pidFile, "--log-file", p.logFile)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidSource))
}

func TestStartRefusesSecondInstance(t *testing.T) {
	p := newPaths(t)
	require.NoError(t, os.WriteFile(p.pidFile, []byte(fmt.Sprint(os.Getpid())), 0o600))

	_, err := execute(context.Background(), "start", "--pid-file", p.pidFile, "--log-file", p.logFile)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

func TestStartRunsUntilCancelled(t *testing.T) {
	p := newPaths(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := execute(ctx, "start", "--pid-file", p.pidFile, "--log-file", p.logFile)
		done <- err
	}()

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(p.logFile)
		return err == nil && strings.Contains(string(data), "Battery charge level")
	}, 5*time.Second, 20*time.Millisecond)

	_, err := os.Stat(p.pidFile)
	require.NoError(t, err, "start must record its PID")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("start did not return after cancel")
	}

	data, err := os.ReadFile(p.logFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 3)

	stamp := `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] `
	assert.Regexp(t, regexp.MustCompile(stamp+"Starting the daemon$"), lines[0])
	assert.Regexp(t, regexp.MustCompile(stamp+`Battery charge level \d{1,3}%$`), lines[1])
	assert.Regexp(t, regexp.MustCompile(stamp+"Stopping the daemon$"), lines[len(lines)-1])

	_, err = os.Stat(p.pidFile)
	assert.True(t, os.IsNotExist(err), "PID file must be removed on exit")
}

func TestNotifyRunsConfiguredCommand(t *testing.T) {
	p := newPaths(t)
	marker := filepath.Join(p.dir, "called")
	script := filepath.Join(p.dir, "client")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\ntouch '"+marker+"'\n"), 0o755))

	_, err := execute(context.Background(), "notify", "http://127.0.0.1:9/hook", "level=5",
		"--notify-command", script, "--log-file", p.logFile, "--pid-file", p.pidFile)
	require.NoError(t, err)

	_, err = os.Stat(marker)
	assert.NoError(t, err)

	data, err := os.ReadFile(p.logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Sending curl command to http://127.0.0.1:9/hook with parameters: level=5")
}

func TestNotifyRequiresTwoArguments(t *testing.T) {
	_, err := execute(context.Background(), "notify", "http://127.0.0.1:9/hook")
	assert.Error(t, err)
}
