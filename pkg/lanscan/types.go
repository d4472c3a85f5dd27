// Package lanscan discovers hosts on the local IPv4 networks of this machine.
// It derives a /24 range per interface, probes every candidate address for
// liveness and folds the live hosts into a sorted, deduplicated inventory
// carrying open service ports, hostname, MAC address and SMB share hints.
//
// Probing uses plain TCP connects, the system ping and the system arp
// utility, so no raw sockets or elevated privileges are needed for the
// default configuration.
package lanscan

import (
	"cmp"
	"slices"
)

// Component identifies the part of the engine that produced a log message.
type Component string

const (
	ComponentScan    Component = "scan"
	ComponentNetwork Component = "network"
	ComponentProbe   Component = "probe"
	ComponentDNS     Component = "dns"
	ComponentNetBIOS Component = "netbios"
	ComponentARP     Component = "arp"
	ComponentVendor  Component = "vendor" // MAC vendor lookup (OUI)
	ComponentSMB     Component = "smb"    // share hints and catalog API
)

// SMB ports; a host exposing either gets share hints.
const (
	PortSMB     = 445
	PortNetBIOS = 139
)

// HostRecord is everything learned about one live host.
type HostRecord struct {
	Address    string `json:"ip"`
	Hostname   string `json:"hostname,omitempty"`
	MACAddress string `json:"mac_address,omitempty"`
	Vendor     string `json:"vendor,omitempty"`
	// OpenPorts is in probe completion order.
	OpenPorts []int `json:"open_ports"`
	// SMBShareHints are candidate share names, not verified shares.
	SMBShareHints []string `json:"smb_shares"`
}

// HasSMB reports whether port 445 or 139 is open.
func (h *HostRecord) HasSMB() bool {
	return slices.Contains(h.OpenPorts, PortSMB) || slices.Contains(h.OpenPorts, PortNetBIOS)
}

// ScanResult is the host inventory of one scan, sorted by address string
// with one record per address.
type ScanResult []HostRecord

// Addresses returns the address of every record in order.
func (r ScanResult) Addresses() []string {
	out := make([]string, len(r))
	for i, h := range r {
		out[i] = h.Address
	}
	return out
}

// newScanResult sorts records lexicographically by address and drops
// adjacent duplicates, keeping the first of each run.
func newScanResult(records []HostRecord) ScanResult {
	if len(records) == 0 {
		return ScanResult{}
	}
	slices.SortStableFunc(records, func(a, b HostRecord) int {
		return cmp.Compare(a.Address, b.Address)
	})
	records = slices.CompactFunc(records, func(a, b HostRecord) bool {
		return a.Address == b.Address
	})
	return ScanResult(records)
}
