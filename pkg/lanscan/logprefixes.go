package lanscan

// Log prefixes follow the [Component] or [Component:Sub] pattern. Consumers
// may use them in their SetDebugLogger callback; nothing requires it.
const (
	LogPrefixScan    = "[Scan]"
	LogPrefixNetwork = "[Scan:Network]"
	LogPrefixProbe   = "[Scan:Probe]"
	LogPrefixDNS     = "[Scan:DNS]"
	LogPrefixNetBIOS = "[Scan:NetBIOS]"
	LogPrefixARP     = "[Scan:ARP]"
	LogPrefixVendor  = "[Scan:Vendor]"
	LogPrefixSMB     = "[Scan:SMB]"

	LogPrefixDebug = "[DEBUG]"
)

// ComponentPrefix returns the log prefix for component.
func ComponentPrefix(component Component) string {
	switch component {
	case ComponentNetwork:
		return LogPrefixNetwork
	case ComponentProbe:
		return LogPrefixProbe
	case ComponentDNS:
		return LogPrefixDNS
	case ComponentNetBIOS:
		return LogPrefixNetBIOS
	case ComponentARP:
		return LogPrefixARP
	case ComponentVendor:
		return LogPrefixVendor
	case ComponentSMB:
		return LogPrefixSMB
	default:
		return LogPrefixScan
	}
}
