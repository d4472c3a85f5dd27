package probe

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"github.com/marcuoli/go-lanscan/internal/command"
)

// PingTimeout is how long the ping fallback waits for one echo reply. The
// subprocess itself is killed after PingTimeout plus PingGrace.
const (
	PingTimeout = 1 * time.Second
	PingGrace   = 1 * time.Second
)

// PingFallback runs the system ping utility with a single echo request.
type PingFallback struct {
	// Path to the ping binary; "ping" resolves through PATH.
	Path    string
	Timeout time.Duration
	// Run executes the command; nil means command.Exec.
	Run command.Runner
}

// NewPingFallback creates a ping fallback with defaults.
func NewPingFallback() *PingFallback {
	return &PingFallback{Path: "ping", Timeout: PingTimeout, Run: command.Exec}
}

// Reachable reports whether ping exited successfully for ip.
func (p *PingFallback) Reachable(ctx context.Context, ip string) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = PingTimeout
	}
	path := p.Path
	if path == "" {
		path = "ping"
	}
	run := p.Run
	if run == nil {
		run = command.Exec
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout+PingGrace)
	defer cancel()

	if _, err := run(runCtx, path, pingArgs(runtime.GOOS, ip, timeout)...); err != nil {
		debugLog("%s: ping failed: %v", ip, err)
		return false
	}
	return true
}

// pingArgs builds a one-request ping command line. Linux takes the reply
// wait in whole seconds, the BSDs and macOS in milliseconds.
func pingArgs(goos, ip string, timeout time.Duration) []string {
	ms := timeout.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	switch goos {
	case "windows":
		return []string{"-n", "1", "-w", strconv.FormatInt(ms, 10), ip}
	case "linux", "android":
		secs := (ms + 999) / 1000
		return []string{"-c", "1", "-W", strconv.FormatInt(secs, 10), ip}
	default:
		return []string{"-c", "1", "-W", strconv.FormatInt(ms, 10), ip}
	}
}
