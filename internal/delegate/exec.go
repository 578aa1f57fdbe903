// Package delegate invokes an external analytics binary to cross-validate
// summary statistics. The exchange format is deliberately primitive so any
// language can implement the other side: the close prices are written as a
// JSON array to a scratch file, the binary gets the file path as its only
// argument and prints a JSON object of metric name to value on stdout.
package delegate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"MarketLens/internal/domain/models"
)

// ErrUnavailable covers every failure mode of the external binary: missing
// executable, non-zero exit, timeout, or unparseable output. Callers treat
// it as "no cross-check available", never as a failure of the overall
// operation.
var ErrUnavailable = errors.New("delegate unavailable")

// DefaultTimeout bounds a single delegate run.
const DefaultTimeout = 5 * time.Second

// Exec runs a configured external command as the cross-validation backend.
type Exec struct {
	command string
	timeout time.Duration
	scratch string
}

// Option adjusts an Exec.
type Option func(*Exec)

// WithScratchFile overrides the input file location, mainly for tests that
// need isolation from the shared temp directory.
func WithScratchFile(path string) Option {
	return func(e *Exec) { e.scratch = path }
}

// NewExec builds a delegate around the given command. A non-positive
// timeout falls back to DefaultTimeout.
func NewExec(command string, timeout time.Duration, opts ...Option) *Exec {
	e := &Exec{
		command: command,
		timeout: timeout,
		scratch: filepath.Join(os.TempDir(), "market_prices.json"),
	}
	if e.timeout <= 0 {
		e.timeout = DefaultTimeout
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name identifies the backend in reports and logs.
func (e *Exec) Name() string {
	if e.command == "" {
		return "none"
	}
	return filepath.Base(e.command)
}

// Summarize writes the closes to the scratch file, runs the command with
// the file path as its only argument, and decodes the JSON object printed
// on stdout. Every failure comes back wrapped in ErrUnavailable.
func (e *Exec) Summarize(ctx context.Context, closes []float64) (models.CrossCheck, error) {
	if e.command == "" {
		return nil, fmt.Errorf("%w: no command configured", ErrUnavailable)
	}
	raw, err := json.Marshal(closes)
	if err != nil {
		return nil, fmt.Errorf("%w: encode prices: %v", ErrUnavailable, err)
	}
	if err := os.WriteFile(e.scratch, raw, 0o644); err != nil {
		return nil, fmt.Errorf("%w: write %s: %v", ErrUnavailable, e.scratch, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, e.command, e.scratch).Output()
	if err != nil {
		return nil, fmt.Errorf("%w: run %s: %v", ErrUnavailable, e.command, err)
	}

	var check models.CrossCheck
	if err := json.Unmarshal(out, &check); err != nil {
		return nil, fmt.Errorf("%w: decode output: %v", ErrUnavailable, err)
	}
	return check, nil
}
