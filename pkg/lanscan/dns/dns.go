// Package dns provides reverse (PTR) name lookups, either through the system
// resolver or against an explicit DNS server.
package dns

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	mdns "github.com/miekg/dns"
)

// DefaultTimeout is the default timeout for one reverse lookup.
const DefaultTimeout = 2 * time.Second

// ErrNoName is returned when a lookup succeeds without any name.
var ErrNoName = errors.New("no PTR record")

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from DNS operations.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// Resolver maps an address to its primary name.
type Resolver interface {
	LookupAddr(ctx context.Context, ip string) (string, error)
}

// System resolves through the operating system resolver.
type System struct {
	Timeout  time.Duration
	Resolver *net.Resolver
}

// NewSystem creates a system resolver with defaults.
func NewSystem() *System {
	return &System{Timeout: DefaultTimeout, Resolver: net.DefaultResolver}
}

// LookupAddr returns the first name the resolver reports for ip.
func (s *System) LookupAddr(ctx context.Context, ip string) (string, error) {
	resolver := s.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	lookupCtx, cancel := context.WithTimeout(ctx, timeoutOr(s.Timeout))
	defer cancel()

	names, err := resolver.LookupAddr(lookupCtx, ip)
	if err != nil {
		debugLog("%s: lookup failed: %v", ip, err)
		return "", err
	}
	return first(ip, names)
}

// Server sends PTR queries straight to one DNS server, bypassing the
// system resolver configuration.
type Server struct {
	// Addr is host:port; a bare host gets port 53.
	Addr    string
	Timeout time.Duration
	// Net is "udp" (default) or "tcp".
	Net string
}

// NewServer creates a resolver that queries addr.
func NewServer(addr string) *Server {
	return &Server{Addr: addr, Timeout: DefaultTimeout, Net: "udp"}
}

// LookupAddr returns the first PTR target for ip.
func (s *Server) LookupAddr(ctx context.Context, ip string) (string, error) {
	arpa, err := mdns.ReverseAddr(ip)
	if err != nil {
		return "", err
	}
	msg := new(mdns.Msg)
	msg.SetQuestion(arpa, mdns.TypePTR)

	client := &mdns.Client{Net: s.Net, Timeout: timeoutOr(s.Timeout)}
	lookupCtx, cancel := context.WithTimeout(ctx, timeoutOr(s.Timeout))
	defer cancel()

	resp, _, err := client.ExchangeContext(lookupCtx, msg, serverAddr(s.Addr))
	if err != nil {
		debugLog("%s: query %s failed: %v", ip, s.Addr, err)
		return "", err
	}
	if resp.Rcode != mdns.RcodeSuccess {
		debugLog("%s: %s answered %s", ip, s.Addr, mdns.RcodeToString[resp.Rcode])
		return "", ErrNoName
	}
	var names []string
	for _, rr := range resp.Answer {
		if ptr, ok := rr.(*mdns.PTR); ok {
			names = append(names, ptr.Ptr)
		}
	}
	return first(ip, names)
}

// Chain tries each resolver in order and returns the first name found.
type Chain []Resolver

// LookupAddr implements Resolver.
func (c Chain) LookupAddr(ctx context.Context, ip string) (string, error) {
	lastErr := ErrNoName
	for _, r := range c {
		if r == nil {
			continue
		}
		name, err := r.LookupAddr(ctx, ip)
		if err == nil && name != "" {
			return name, nil
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

func first(ip string, names []string) (string, error) {
	for _, name := range names {
		if name = strings.TrimSuffix(name, "."); name != "" {
			debugLog("%s -> %s", ip, name)
			return name, nil
		}
	}
	return "", ErrNoName
}

func serverAddr(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, "53")
}

func timeoutOr(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}
