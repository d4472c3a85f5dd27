package lanscan

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/marcuoli/go-lanscan/pkg/lanscan/arp"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/dns"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/netbios"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/oui"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/probe"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/smb"
)

// Prober decides whether a host is live.
type Prober interface {
	Alive(ctx context.Context, ip string) bool
}

// PortScanner returns the open service ports of a host.
type PortScanner interface {
	Scan(ctx context.Context, ip string) []int
}

// NameResolver maps an address to a hostname.
type NameResolver interface {
	LookupAddr(ctx context.Context, ip string) (string, error)
}

// NeighborLookup maps an address to a MAC address.
type NeighborLookup interface {
	LookupMAC(ctx context.Context, ip string) (string, error)
}

// VendorLookup maps a MAC address to its manufacturer, "" when unknown.
type VendorLookup interface {
	Vendor(mac string) string
}

// ShareHinter lists candidate share names for an SMB host.
type ShareHinter interface {
	ShareHints(ctx context.Context, ip string) []string
}

// HostEnricher builds the record of a host already known to be live.
type HostEnricher interface {
	Enrich(ctx context.Context, ip string) *HostRecord
}

// Enricher gathers ports, hostname, MAC address, vendor and share hints.
// Every lookup is best effort; a failed lookup leaves its field empty.
type Enricher struct {
	Services  PortScanner
	Names     NameResolver   // nil skips hostname lookup
	Neighbors NeighborLookup // nil skips MAC lookup
	Vendors   VendorLookup   // nil leaves Vendor empty
	Shares    ShareHinter    // nil means the common share list
}

// NewEnricher builds an Enricher from opts.
func NewEnricher(opts Options) *Enricher {
	services := probe.NewServiceScanner()
	if len(opts.ServicePorts) > 0 {
		services.Ports = append([]int(nil), opts.ServicePorts...)
	}
	if opts.ServiceTimeout > 0 {
		services.Timeout = opts.ServiceTimeout
	}

	var names dns.Chain
	if opts.DNSServer != "" {
		names = append(names, dns.NewServer(opts.DNSServer))
	} else {
		names = append(names, dns.NewSystem())
	}
	if opts.LinkLocal {
		names = append(names, dns.NewLLMNR(), dns.NewMDNS())
	}
	if opts.NetBIOS {
		names = append(names, netbios.NewResolver())
	}

	table := arp.NewTableLookup()
	if opts.ARPPath != "" {
		table.Path = opts.ARPPath
	}
	neighbors := arp.Chain{table}
	if opts.ARPing && arp.PingSupported() {
		neighbors = append(neighbors, arp.NewPingLookup())
	}

	e := &Enricher{
		Services:  services,
		Names:     names,
		Neighbors: neighbors,
		Shares:    smb.StaticHints{},
	}
	if opts.OUIPath != "" {
		e.Vendors = oui.Open(opts.OUIPath)
	}
	if opts.Catalog != nil {
		e.Shares = smb.CatalogHints{Client: opts.Catalog}
	}
	return e
}

// Enrich runs the service scan, name lookup and MAC lookup of ip in
// parallel and assembles the record.
func (e *Enricher) Enrich(ctx context.Context, ip string) *HostRecord {
	rec := &HostRecord{Address: ip}

	var g errgroup.Group
	g.Go(func() error {
		if e.Services != nil {
			rec.OpenPorts = e.Services.Scan(ctx, ip)
		}
		return nil
	})
	if e.Names != nil {
		g.Go(func() error {
			name, err := e.Names.LookupAddr(ctx, ip)
			if err != nil {
				debugLogVerbose(ComponentDNS, "%s: no hostname: %v", ip, err)
				return nil
			}
			rec.Hostname = name
			return nil
		})
	}
	if e.Neighbors != nil {
		g.Go(func() error {
			mac, err := e.Neighbors.LookupMAC(ctx, ip)
			if err != nil {
				debugLogVerbose(ComponentARP, "%s: no MAC address: %v", ip, err)
				return nil
			}
			rec.MACAddress = mac
			return nil
		})
	}
	_ = g.Wait()

	if rec.OpenPorts == nil {
		rec.OpenPorts = []int{}
	}
	if rec.MACAddress != "" && e.Vendors != nil {
		rec.Vendor = e.Vendors.Vendor(rec.MACAddress)
	}

	rec.SMBShareHints = []string{}
	if rec.HasSMB() {
		shares := e.Shares
		if shares == nil {
			shares = smb.StaticHints{}
		}
		if hints := shares.ShareHints(ctx, ip); len(hints) > 0 {
			rec.SMBShareHints = hints
		} else {
			rec.SMBShareHints = smb.StaticHints{}.ShareHints(ctx, ip)
		}
	}

	debugLog(ComponentScan, "%s: ports=%v hostname=%q mac=%q", ip, rec.OpenPorts, rec.Hostname, rec.MACAddress)
	return rec
}
