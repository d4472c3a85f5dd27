// Package smb attaches SMB share hints to hosts exposing ports 139 or 445 and
// talks to the catalog API that performs real share enumeration. Nothing in
// this package speaks the SMB protocol itself.
package smb

import "context"

// CommonShares are the candidate share names attached to every SMB host.
// They are hints, not verified shares.
var CommonShares = []string{"C$", "ADMIN$", "IPC$", "shared", "public", "media", "downloads"}

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from SMB operations.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// StaticHints returns CommonShares for every host.
type StaticHints struct{}

// ShareHints returns a fresh copy of CommonShares.
func (StaticHints) ShareHints(ctx context.Context, ip string) []string {
	return append([]string(nil), CommonShares...)
}

// CatalogHints asks the catalog API for the share names of a host and falls
// back to CommonShares when the catalog fails or knows none.
type CatalogHints struct {
	Client *Client
}

// ShareHints implements the share hint source used by the enricher.
func (c CatalogHints) ShareHints(ctx context.Context, ip string) []string {
	if c.Client == nil {
		return StaticHints{}.ShareHints(ctx, ip)
	}
	shares, err := c.Client.DiscoverShares(ctx, ip)
	if err != nil || len(shares) == 0 {
		debugLog("%s: catalog share discovery unavailable (%v), using common shares", ip, err)
		return StaticHints{}.ShareHints(ctx, ip)
	}
	names := make([]string, 0, len(shares))
	for _, s := range shares {
		if s.ShareName != "" {
			names = append(names, s.ShareName)
		}
	}
	if len(names) == 0 {
		return StaticHints{}.ShareHints(ctx, ip)
	}
	return names
}
