package arp

import (
	"bufio"
	"context"
	"net"
	"strings"
	"time"

	"github.com/marcuoli/go-lanscan/internal/command"
)

// DefaultTableTimeout bounds one arp invocation.
const DefaultTableTimeout = 2 * time.Second

// TableLookup reads the neighbor table with `arp -n <address>`.
type TableLookup struct {
	// Path to the arp binary; "arp" resolves through PATH.
	Path    string
	Timeout time.Duration
	// Run executes the command; nil means command.Exec.
	Run command.Runner
}

// NewTableLookup creates a neighbor table lookup with defaults.
func NewTableLookup() *TableLookup {
	return &TableLookup{Path: "arp", Timeout: DefaultTableTimeout, Run: command.Exec}
}

// LookupMAC implements Lookup.
func (t *TableLookup) LookupMAC(ctx context.Context, ip string) (string, error) {
	if _, err := validIPv4(ip); err != nil {
		return "", err
	}
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultTableTimeout
	}
	path := t.Path
	if path == "" {
		path = "arp"
	}
	run := t.Run
	if run == nil {
		run = command.Exec
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := run(runCtx, path, "-n", ip)
	if err != nil {
		debugLog("%s: arp failed: %v", ip, err)
		return "", err
	}
	mac := ParseTable(string(out), ip)
	if mac == "" {
		debugLog("%s: not in neighbor table", ip)
		return "", ErrNoEntry
	}
	debugLog("%s -> %s (table)", ip, mac)
	return mac, nil
}

// ParseTable extracts the MAC address of ip from arp output. Only lines
// naming ip as a whole field (bare or in parentheses) are considered, and the
// MAC is the first 17-character colon token from the third field onward.
// Both the Linux table form and the BSD "? (ip) at mac" form match. Returns
// "" when nothing matches.
func ParseTable(output, ip string) string {
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if !mentions(fields, ip) {
			continue
		}
		for i := 2; i < len(fields); i++ {
			tok := fields[i]
			if len(tok) != 17 || !strings.Contains(tok, ":") {
				continue
			}
			hw, err := net.ParseMAC(tok)
			if err != nil {
				continue
			}
			return FormatMAC(hw)
		}
	}
	return ""
}

func mentions(fields []string, ip string) bool {
	for _, f := range fields {
		if f == ip || f == "("+ip+")" {
			return true
		}
	}
	return false
}
