package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// customChannel runs a user script for notifications.
type customChannel struct {
	scriptPath string
}

func newCustomChannel(scriptPath string) *customChannel {
	return &customChannel{scriptPath: scriptPath}
}

// send marshals Result to JSON and pipes it to the script's stdin. On failure the
// script's combined stdout and stderr are part of the error.
func (c *customChannel) send(ctx context.Context, r Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.scriptPath) //nolint:gosec // path comes from user config, not user input
	cmd.Stdin = bytes.NewReader(data)
	cmd.WaitDelay = time.Second // children holding the output pipe don't outlive the context

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err = cmd.Run(); err != nil {
		if text := strings.TrimSpace(out.String()); text != "" {
			return fmt.Errorf("script %s: %w, output: %s", c.scriptPath, err, text)
		}
		return fmt.Errorf("script %s: %w", c.scriptPath, err)
	}
	return nil
}
