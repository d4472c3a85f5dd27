package dns

import (
	"context"
	"net"
	"strconv"
	"time"

	mdns "github.com/miekg/dns"
)

const (
	// LLMNRPort is where LLMNR responders listen (Windows, systemd-resolved).
	LLMNRPort = 5355
	// MDNSPort is where mDNS responders listen (Avahi, Bonjour).
	MDNSPort = 5353
	// DefaultLinkLocalTimeout bounds one link-local query. Hosts without a
	// responder never answer, so this is kept short.
	DefaultLinkLocalTimeout = 500 * time.Millisecond
)

// LinkLocal asks the host itself for its name by sending a unicast PTR query
// to its LLMNR or mDNS responder.
type LinkLocal struct {
	Port    int
	Timeout time.Duration
}

// NewLLMNR creates a resolver querying the host's LLMNR responder.
func NewLLMNR() *LinkLocal {
	return &LinkLocal{Port: LLMNRPort, Timeout: DefaultLinkLocalTimeout}
}

// NewMDNS creates a resolver querying the host's mDNS responder.
func NewMDNS() *LinkLocal {
	return &LinkLocal{Port: MDNSPort, Timeout: DefaultLinkLocalTimeout}
}

// LookupAddr returns the name ip reports for itself.
func (l *LinkLocal) LookupAddr(ctx context.Context, ip string) (string, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.To4() == nil {
		return "", &net.AddrError{Err: "not an IPv4 address", Addr: ip}
	}
	arpa, err := mdns.ReverseAddr(ip)
	if err != nil {
		return "", err
	}
	msg := new(mdns.Msg)
	msg.SetQuestion(arpa, mdns.TypePTR)
	msg.RecursionDesired = false

	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultLinkLocalTimeout
	}
	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addr := net.JoinHostPort(ip, strconv.Itoa(l.Port))
	client := &mdns.Client{Net: "udp", Timeout: timeout}
	resp, _, err := client.ExchangeContext(lookupCtx, msg, addr)
	if err != nil {
		debugLog("%s: no answer on port %d: %v", ip, l.Port, err)
		return "", err
	}
	var names []string
	for _, rr := range resp.Answer {
		if ptr, ok := rr.(*mdns.PTR); ok {
			names = append(names, ptr.Ptr)
		}
	}
	return first(ip, names)
}
