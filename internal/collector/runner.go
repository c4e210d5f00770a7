// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"
)

// defaultProbeTimeout bounds every external tool invocation so a hung
// diagnostic binary cannot hang the whole collection run.
const defaultProbeTimeout = 30 * time.Second

// CommandRunner invokes an external diagnostic binary and returns its
// stdout. A missing binary, a non-zero exit status, and empty output
// are all equivalent for callers: no data from this source.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct {
	timeout time.Duration
}

// NewRunner returns a CommandRunner executing real subprocesses with
// the given per-invocation timeout (0 disables the timeout).
func NewRunner(timeout time.Duration) CommandRunner {
	return &execRunner{timeout: timeout}
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	tool, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%s is not present: %w", name, err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running %s encountered a problem: %w", name, err)
	}
	return out.Bytes(), nil
}
