package probe

import (
	"context"
	"net"
	"time"
)

// LivenessTimeout bounds each fast connect attempt.
const LivenessTimeout = 100 * time.Millisecond

// LivenessPorts are tried in order by the fast liveness check.
var LivenessPorts = []int{22, 80, 135, 139, 443, 445}

// ReachabilityFallback is consulted when no fast probe got an answer.
type ReachabilityFallback interface {
	Reachable(ctx context.Context, ip string) bool
}

// Liveness decides whether a host responds at all.
type Liveness struct {
	// Ports probed in order; the first answer wins.
	Ports []int
	// Timeout per connect attempt.
	Timeout time.Duration
	Dialer  Dialer
	// Fallback runs when every port attempt timed out or was unreachable.
	// Nil disables the slow path.
	Fallback ReachabilityFallback
}

// NewLiveness creates a liveness probe with defaults and the system ping as
// fallback.
func NewLiveness() *Liveness {
	return &Liveness{
		Ports:    append([]int(nil), LivenessPorts...),
		Timeout:  LivenessTimeout,
		Dialer:   &net.Dialer{},
		Fallback: NewPingFallback(),
	}
}

// Alive reports whether ip answered a fast TCP probe or the fallback. A
// refused connection proves the host is up.
func (l *Liveness) Alive(ctx context.Context, ip string) bool {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = LivenessTimeout
	}
	var d Dialer = l.Dialer
	if d == nil {
		d = &net.Dialer{}
	}

	for _, port := range l.Ports {
		if ctx.Err() != nil {
			return false
		}
		switch dial(ctx, d, ip, port, timeout) {
		case connected:
			debugLog("%s: alive (port %d open)", ip, port)
			return true
		case refused:
			debugLog("%s: alive (port %d refused)", ip, port)
			return true
		}
	}

	if l.Fallback == nil || ctx.Err() != nil {
		return false
	}
	if l.Fallback.Reachable(ctx, ip) {
		debugLog("%s: alive (fallback)", ip)
		return true
	}
	return false
}
