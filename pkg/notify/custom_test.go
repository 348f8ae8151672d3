package notify

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script in a temp dir.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notify.sh")
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o700) //nolint:gosec // test script needs execute permission
	require.NoError(t, err)
	return path
}

func TestCustomChannel_Send(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}

	t.Run("pipes json to script stdin", func(t *testing.T) {
		r := Result{
			Status:     "failure",
			Target:     "https://www.saucedemo.com/",
			Browser:    "chrome",
			Username:   "locked_out_user",
			Duration:   "4 seconds",
			FailedStep: "reach inventory.html",
			Error:      "Epic sadface: Sorry, this user has been locked out.",
			Screenshot: "screenshots/failure_probe_101112.png",
		}
		outputFile := filepath.Join(t.TempDir(), "output.json")
		ch := newCustomChannel(writeScript(t, "cat > "+outputFile))

		require.NoError(t, ch.send(context.Background(), r))

		data, err := os.ReadFile(outputFile) //nolint:gosec // path from t.TempDir()
		require.NoError(t, err)
		var got Result
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, r, got)
	})

	t.Run("success result omits empty fields", func(t *testing.T) {
		outputFile := filepath.Join(t.TempDir(), "output.json")
		ch := newCustomChannel(writeScript(t, "cat > "+outputFile))

		require.NoError(t, ch.send(context.Background(), Result{Status: "success", Target: "http://x.test"}))
		data, err := os.ReadFile(outputFile) //nolint:gosec // path from t.TempDir()
		require.NoError(t, err)
		assert.NotContains(t, string(data), "failed_step")
		assert.NotContains(t, string(data), "screenshot")
	})

	t.Run("non-zero exit includes output", func(t *testing.T) {
		ch := newCustomChannel(writeScript(t, "echo stdout info\necho stderr info >&2\nexit 3"))

		err := ch.send(context.Background(), Result{Status: "success"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "output:")
		assert.Contains(t, err.Error(), "stdout info")
		assert.Contains(t, err.Error(), "stderr info")
	})

	t.Run("non-zero exit without output", func(t *testing.T) {
		ch := newCustomChannel(writeScript(t, "exit 1"))
		err := ch.send(context.Background(), Result{Status: "success"})
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "output:")
	})

	t.Run("timeout kills script", func(t *testing.T) {
		ch := newCustomChannel(writeScript(t, "exec sleep 5"))

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		require.Error(t, ch.send(ctx, Result{Status: "success"}))
		assert.Less(t, time.Since(start), 4*time.Second)
	})

	t.Run("nonexistent script returns error", func(t *testing.T) {
		ch := newCustomChannel("/nonexistent/script.sh")
		err := ch.send(context.Background(), Result{Status: "success"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "script /nonexistent/script.sh")
	})
}
