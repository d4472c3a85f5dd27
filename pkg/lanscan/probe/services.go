package probe

import (
	"context"
	"net"
	"time"
)

// ServiceTimeout bounds each service port attempt.
const ServiceTimeout = 200 * time.Millisecond

// ServicePorts are the well-known ports probed on every live host.
var ServicePorts = []int{21, 22, 23, 25, 53, 80, 110, 135, 139, 143, 443, 445, 993, 995, 3389, 5985, 5986}

// ServiceScanner probes a fixed port list on one host concurrently.
type ServiceScanner struct {
	Ports   []int
	Timeout time.Duration
	Dialer  Dialer
}

// NewServiceScanner creates a service scanner with defaults.
func NewServiceScanner() *ServiceScanner {
	return &ServiceScanner{
		Ports:   append([]int(nil), ServicePorts...),
		Timeout: ServiceTimeout,
		Dialer:  &net.Dialer{},
	}
}

// Scan returns the ports of ip that accepted a connection within the timeout.
// Ports are listed in completion order, so callers needing a canonical order
// must sort.
func (s *ServiceScanner) Scan(ctx context.Context, ip string) []int {
	if len(s.Ports) == 0 {
		return nil
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = ServiceTimeout
	}
	var d Dialer = s.Dialer
	if d == nil {
		d = &net.Dialer{}
	}

	results := make(chan int, len(s.Ports))
	for _, port := range s.Ports {
		go func(p int) {
			if dial(ctx, d, ip, p, timeout) == connected {
				results <- p
				return
			}
			results <- 0
		}(port)
	}

	var open []int
	for range s.Ports {
		if p := <-results; p != 0 {
			open = append(open, p)
		}
	}
	debugLog("%s: %d/%d ports open %v", ip, len(open), len(s.Ports), open)
	return open
}
