//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package arp

import (
	"context"
	"time"
)

// DefaultPingTimeout is the default wait for an ARP reply.
const DefaultPingTimeout = 1 * time.Second

// PingLookup is unavailable on this platform; LookupMAC always fails with
// ErrNotSupported.
type PingLookup struct {
	Timeout time.Duration
}

// NewPingLookup creates an active ARP lookup with defaults.
func NewPingLookup() *PingLookup {
	return &PingLookup{Timeout: DefaultPingTimeout}
}

// LookupMAC implements Lookup.
func (p *PingLookup) LookupMAC(ctx context.Context, ip string) (string, error) {
	return "", ErrNotSupported
}

// PingSupported reports whether active ARP is available on this platform.
func PingSupported() bool {
	return false
}
