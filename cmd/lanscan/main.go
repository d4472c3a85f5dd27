// Command lanscan scans the local networks for live hosts and talks to the
// catalog API about SMB shares.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
)

const usage = `usage: lanscan <command> [flags]

commands:
  scan      scan the local /24 networks (or -cidr) for live hosts
  shares    list or browse the SMB shares of a host via the catalog API
  version   print the version
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	switch args[0] {
	case "scan":
		return runScan(ctx, args[1:], stdout, stderr)
	case "shares":
		return runShares(ctx, args[1:], stdout, stderr)
	case "version":
		return runVersion(stdout)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}
}

func parsePorts(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("ports list is empty")
	}
	parts := strings.Split(s, ",")
	ports := make([]int, 0, len(parts))
	for _, p := range parts {
		var v int
		_, err := fmt.Sscanf(strings.TrimSpace(p), "%d", &v)
		if err != nil || v <= 0 || v > 65535 {
			return nil, fmt.Errorf("invalid port: %q", p)
		}
		ports = append(ports, v)
	}
	return ports, nil
}
