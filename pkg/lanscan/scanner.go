package lanscan

import (
	"context"
	"fmt"
	"net"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/marcuoli/go-lanscan/pkg/lanscan/network"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/probe"
)

// Scanner orchestrates a scan: interfaces to ranges, ranges to candidate
// addresses, and one liveness-then-enrichment unit per address behind an
// admission gate.
type Scanner struct {
	Source   network.Source
	Prober   Prober
	Enricher HostEnricher
	// MaxConcurrent is the admission gate capacity; values below 1 mean
	// DefaultMaxConcurrent.
	MaxConcurrent int
	SkipLoopback  bool
}

// New builds a Scanner from opts using the system interfaces, TCP probes,
// the system ping and the system arp utility.
func New(opts Options) *Scanner {
	live := probe.NewLiveness()
	if len(opts.LivenessPorts) > 0 {
		live.Ports = append([]int(nil), opts.LivenessPorts...)
	}
	if opts.LivenessTimeout > 0 {
		live.Timeout = opts.LivenessTimeout
	}
	if opts.PingPath == "" {
		live.Fallback = nil
	} else {
		ping := probe.NewPingFallback()
		ping.Path = opts.PingPath
		if opts.PingTimeout > 0 {
			ping.Timeout = opts.PingTimeout
		}
		live.Fallback = ping
	}

	return &Scanner{
		Source:        network.SystemSource{},
		Prober:        live,
		Enricher:      NewEnricher(opts),
		MaxConcurrent: opts.MaxConcurrent,
		SkipLoopback:  opts.SkipLoopback,
	}
}

// ScanNetwork scans the local networks with DefaultOptions.
func ScanNetwork(ctx context.Context) (ScanResult, error) {
	return New(DefaultOptions()).ScanNetwork(ctx)
}

// ScanNetwork derives one /24 range per interface with an IPv4 address and
// scans all of them. Only an interface enumeration failure or invalid range
// is returned as an error; unreachable hosts are left out of the result.
//
// When ctx is cancelled no further addresses are admitted, in-flight units
// finish, and the hosts found so far are returned together with ctx.Err().
func (s *Scanner) ScanNetwork(ctx context.Context) (ScanResult, error) {
	src := s.Source
	if src == nil {
		src = network.SystemSource{}
	}
	ifaces, err := src.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("enumerate interfaces: %w", err)
	}

	var ranges []*net.IPNet
	for _, iface := range ifaces {
		if s.SkipLoopback && iface.IsLoopback() {
			debugLogVerbose(ComponentNetwork, "%s: loopback skipped", iface.Name)
			continue
		}
		r, ok := network.DeriveRange(iface)
		if !ok {
			debugLogVerbose(ComponentNetwork, "%s: no IPv4 address", iface.Name)
			continue
		}
		debugLog(ComponentNetwork, "%s: scanning %s", iface.Name, r)
		ranges = append(ranges, r)
	}
	return s.ScanRanges(ctx, ranges)
}

// ScanCIDR scans one explicit range such as "10.0.0.0/24".
func (s *Scanner) ScanCIDR(ctx context.Context, cidr string) (ScanResult, error) {
	r, err := network.ParseRange(cidr)
	if err != nil {
		return nil, err
	}
	return s.ScanRanges(ctx, []*net.IPNet{r})
}

// ScanRanges scans every address of ranges. An address shared by
// overlapping ranges is probed once.
func (s *Scanner) ScanRanges(ctx context.Context, ranges []*net.IPNet) (ScanResult, error) {
	var addrs []string
	seen := make(map[string]struct{})
	for _, r := range ranges {
		hosts, err := network.HostStrings(r)
		if err != nil {
			return nil, fmt.Errorf("range %s: %w", r, err)
		}
		for _, h := range hosts {
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
			addrs = append(addrs, h)
		}
	}
	return s.scan(ctx, addrs)
}

func (s *Scanner) scan(ctx context.Context, addrs []string) (ScanResult, error) {
	limit := s.MaxConcurrent
	if limit < 1 {
		limit = DefaultMaxConcurrent
	}
	prober := s.Prober
	if prober == nil {
		prober = probe.NewLiveness()
	}
	enricher := s.Enricher
	if enricher == nil {
		enricher = NewEnricher(DefaultOptions())
	}

	debugLog(ComponentScan, "probing %d addresses, %d at a time", len(addrs), limit)

	gate := semaphore.NewWeighted(int64(limit))
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		records []HostRecord
		stopErr error
	)

	for _, addr := range addrs {
		if err := ctx.Err(); err != nil {
			stopErr = err
			break
		}
		if err := gate.Acquire(ctx, 1); err != nil {
			stopErr = err
			break
		}
		wg.Add(1)
		go func(ip string) {
			defer wg.Done()
			defer gate.Release(1)

			if !prober.Alive(ctx, ip) {
				return
			}
			rec := enricher.Enrich(ctx, ip)
			if rec == nil {
				return
			}
			mu.Lock()
			records = append(records, *rec)
			mu.Unlock()
		}(addr)
	}
	wg.Wait()

	result := newScanResult(records)
	if stopErr != nil {
		debugLog(ComponentScan, "scan stopped early: %v (%d hosts so far)", stopErr, len(result))
		return result, stopErr
	}
	debugLog(ComponentScan, "scan complete: %d live hosts", len(result))
	return result, nil
}
