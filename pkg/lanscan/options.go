package lanscan

import (
	"time"

	"github.com/marcuoli/go-lanscan/pkg/lanscan/probe"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/smb"
)

// DefaultMaxConcurrent is the number of addresses probed at once.
const DefaultMaxConcurrent = 32

// Options configures a Scanner built by New.
type Options struct {
	// MaxConcurrent bounds the per-address units in flight.
	MaxConcurrent int

	// LivenessPorts are tried in order; the first answer marks a host live.
	LivenessPorts   []int
	LivenessTimeout time.Duration
	// PingPath is the ping binary used when no fast probe answers.
	// Empty disables the ping fallback.
	PingPath    string
	PingTimeout time.Duration

	// ServicePorts are probed concurrently on every live host.
	ServicePorts   []int
	ServiceTimeout time.Duration

	// DNSServer sends PTR queries to this server instead of the system
	// resolver.
	DNSServer string
	// LinkLocal asks the host's LLMNR and mDNS responders when DNS finds
	// no name.
	LinkLocal bool
	// NetBIOS queries node status when no other source finds a name.
	NetBIOS bool

	// ARPPath is the arp binary used for neighbor table lookups.
	ARPPath string
	// ARPing sends an ARP request when the table has no entry.
	ARPing bool

	// OUIPath enables vendor lookup from an IEEE oui.txt file.
	OUIPath string

	// Catalog supplies share names for SMB hosts. Nil attaches the common
	// share list.
	Catalog *smb.Client

	// SkipLoopback ignores loopback interfaces during range derivation.
	SkipLoopback bool
}

// DefaultOptions returns options with default values.
func DefaultOptions() Options {
	return Options{
		MaxConcurrent:   DefaultMaxConcurrent,
		LivenessPorts:   append([]int(nil), probe.LivenessPorts...),
		LivenessTimeout: probe.LivenessTimeout,
		PingPath:        "ping",
		PingTimeout:     probe.PingTimeout,
		ServicePorts:    append([]int(nil), probe.ServicePorts...),
		ServiceTimeout:  probe.ServiceTimeout,
		ARPPath:         "arp",
	}
}
