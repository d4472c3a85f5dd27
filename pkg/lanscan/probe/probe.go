// Package probe provides TCP connect probes used to decide whether a host is
// alive and which well-known service ports it exposes. Probes never return
// errors: every transport failure resolves to "not alive" or "closed".
package probe

import (
	"context"
	"errors"
	"net"
	"strconv"
	"syscall"
	"time"
)

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from probe operations.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// Dialer opens TCP connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// outcome of a single connect attempt.
type outcome int

const (
	failed outcome = iota
	refused
	connected
)

// dial makes one connect attempt bounded by timeout and closes the
// connection on success.
func dial(ctx context.Context, d Dialer, ip string, port int, timeout time.Duration) outcome {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := d.DialContext(dialCtx, "tcp", net.JoinHostPort(ip, strconv.Itoa(port)))
	if err == nil {
		conn.Close()
		return connected
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return refused
	}
	return failed
}
