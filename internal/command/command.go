// Package command runs external utilities (arp, ping) behind a swappable
// function so callers can substitute canned output in tests.
package command

import (
	"context"
	"os/exec"
)

// Runner executes name with args and returns its standard output. A non-nil
// error means the process could not start or exited unsuccessfully.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Exec is the Runner backed by os/exec.
func Exec(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
