package llm

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/google/uuid"
)

// ClaudeCLI implements Provider by shelling out to the claude CLI, so no
// API key needs to be stored.
type ClaudeCLI struct {
	cfg     ProviderConfig
	cliPath string
}

// NewClaudeCLI creates the provider. BaseURL, when set, overrides the
// binary looked up on PATH.
func NewClaudeCLI(cfg ProviderConfig) *ClaudeCLI {
	return &ClaudeCLI{cfg: cfg}
}

// Name returns the provider id.
func (c *ClaudeCLI) Name() string { return c.cfg.ID }

// Available checks if the claude CLI is installed and accessible.
func (c *ClaudeCLI) Available() bool {
	bin := c.cfg.BaseURL
	if bin == "" {
		bin = "claude"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return false
	}
	c.cliPath = path
	return true
}

// Complete runs one non-interactive prompt. Each call gets a fresh session
// id; a collision is retried with a new one.
func (c *ClaudeCLI) Complete(ctx context.Context, system, prompt string) (string, error) {
	if c.cliPath == "" && !c.Available() {
		return "", ErrNotConfigured
	}

	const maxRetries = 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		result, err := c.run(ctx, uuid.New().String(), system, prompt)
		if err == nil {
			return result, nil
		}
		var cliErr *CLIError
		if errors.As(err, &cliErr) && strings.Contains(cliErr.Stderr, "already in use") {
			continue
		}
		return "", err
	}
	return "", &CLIError{Err: ErrSessionCollision, Stderr: "session ID collision after max retries"}
}

func (c *ClaudeCLI) run(ctx context.Context, sessionID, system, prompt string) (string, error) {
	args := []string{
		"--print", // Output response and exit (non-interactive mode)
		"--session-id", sessionID,
	}
	if system != "" {
		args = append(args, "--system-prompt", system)
	}
	if c.cfg.DefaultModel != "" {
		args = append(args, "--model", c.cfg.DefaultModel)
	}
	args = append(args, prompt)

	cmd := exec.CommandContext(ctx, c.cliPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", &CLIError{Err: err, Stderr: stderr.String()}
		}
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

// CLIError wraps CLI execution errors with stderr output.
type CLIError struct {
	Err    error
	Stderr string
}

func (e *CLIError) Error() string {
	if e.Stderr != "" {
		return e.Err.Error() + ": " + e.Stderr
	}
	return e.Err.Error()
}

func (e *CLIError) Unwrap() error {
	return e.Err
}
