// Package arp resolves IPv4 addresses to MAC addresses. TableLookup reads the
// operating system neighbor table through the arp utility; PingLookup sends
// an ARP request on the wire and may require elevated privileges.
package arp

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Errors
var (
	// ErrNotSupported is returned when active ARP is unavailable on this platform.
	ErrNotSupported = errors.New("ARP discovery is not supported on this platform")
	// ErrInvalidIP is returned when an invalid IP address is provided.
	ErrInvalidIP = errors.New("invalid IP address")
	// ErrIPv6NotSupported is returned when attempting ARP on an IPv6 address.
	ErrIPv6NotSupported = errors.New("ARP is not supported for IPv6 addresses")
	// ErrNoEntry is returned when no MAC address is known for the address.
	ErrNoEntry = errors.New("no ARP entry")
)

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from ARP operations.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// Lookup resolves the MAC address of an IPv4 address.
type Lookup interface {
	LookupMAC(ctx context.Context, ip string) (string, error)
}

// Chain tries each lookup in order and returns the first MAC found.
type Chain []Lookup

// LookupMAC implements Lookup.
func (c Chain) LookupMAC(ctx context.Context, ip string) (string, error) {
	lastErr := ErrNoEntry
	for _, l := range c {
		if l == nil {
			continue
		}
		mac, err := l.LookupMAC(ctx, ip)
		if err == nil && mac != "" {
			return mac, nil
		}
		if err != nil {
			lastErr = err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

// FormatMAC renders a hardware address as upper-case colon separated
// octets, e.g. AA:BB:CC:DD:EE:FF.
func FormatMAC(hw net.HardwareAddr) string {
	return strings.ToUpper(hw.String())
}

func validIPv4(ip string) (net.IP, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, ErrInvalidIP
	}
	ip4 := parsed.To4()
	if ip4 == nil {
		return nil, ErrIPv6NotSupported
	}
	return ip4, nil
}
