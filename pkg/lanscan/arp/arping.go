//go:build linux || darwin || freebsd || netbsd || openbsd

package arp

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/j-keck/arping"
)

// DefaultPingTimeout is the default wait for an ARP reply.
const DefaultPingTimeout = 1 * time.Second

// arping keeps its timeout in a package variable.
var arpingMu sync.Mutex

// PingLookup sends an ARP request and waits for the reply. On most systems
// this needs raw socket privileges.
type PingLookup struct {
	Timeout time.Duration
}

// NewPingLookup creates an active ARP lookup with defaults.
func NewPingLookup() *PingLookup {
	return &PingLookup{Timeout: DefaultPingTimeout}
}

// LookupMAC implements Lookup.
func (p *PingLookup) LookupMAC(ctx context.Context, ip string) (string, error) {
	ip4, err := validIPv4(ip)
	if err != nil {
		return "", err
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultPingTimeout
	}

	type arpResponse struct {
		mac net.HardwareAddr
		dur time.Duration
		err error
	}
	responseChan := make(chan arpResponse, 1)

	go func() {
		arpingMu.Lock()
		arping.SetTimeout(timeout)
		mac, dur, err := arping.Ping(ip4)
		arpingMu.Unlock()
		responseChan <- arpResponse{mac: mac, dur: dur, err: err}
	}()

	select {
	case <-ctx.Done():
		debugLog("%s: arping cancelled", ip)
		return "", ctx.Err()
	case resp := <-responseChan:
		if resp.err != nil {
			debugLog("%s: arping error: %v", ip, resp.err)
			return "", resp.err
		}
		mac := FormatMAC(resp.mac)
		debugLog("%s -> %s (arping %.2fms)", ip, mac, float64(resp.dur.Microseconds())/1000)
		return mac, nil
	}
}

// PingSupported reports whether active ARP is available on this platform.
func PingSupported() bool {
	return true
}
