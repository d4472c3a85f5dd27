package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/marcuoli/go-lanscan/internal/config"
	"github.com/marcuoli/go-lanscan/pkg/lanscan"
)

// scanFlags holds command-line overrides; flags left unset keep the
// configured value.
type scanFlags struct {
	configPath   string
	cidr         string
	asJSON       bool
	concurrency  int
	servicePorts string
	netbios      bool
	linkLocal    bool
	arping       bool
	noPing       bool
	skipLoopback bool
	ouiPath      string
	dnsServer    string
	catalog      bool
	logLevel     string
	logFormat    string
}

func runScan(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var f scanFlags
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&f.cidr, "cidr", "", "scan this range instead of the local interfaces (e.g. 192.168.1.0/24)")
	fs.BoolVar(&f.asJSON, "json", false, "print the result as JSON")
	fs.IntVar(&f.concurrency, "concurrency", 0, "addresses probed at once")
	fs.StringVar(&f.servicePorts, "ports", "", "comma-separated service ports to probe on live hosts")
	fs.BoolVar(&f.netbios, "netbios", false, "query NetBIOS names when reverse DNS finds none")
	fs.BoolVar(&f.linkLocal, "link-local", false, "ask LLMNR and mDNS responders when reverse DNS finds no name")
	fs.BoolVar(&f.arping, "arping", false, "send ARP requests when the neighbor table has no entry")
	fs.BoolVar(&f.noPing, "no-ping", false, "disable the ping fallback")
	fs.BoolVar(&f.skipLoopback, "skip-loopback", false, "ignore loopback interfaces")
	fs.StringVar(&f.ouiPath, "oui", "", "IEEE oui.txt file for vendor lookup")
	fs.StringVar(&f.dnsServer, "dns-server", "", "DNS server for reverse lookups (default: system resolver)")
	fs.BoolVar(&f.catalog, "catalog", false, "ask the catalog API for share names")
	fs.StringVar(&f.logLevel, "log-level", "", "off, basic or verbose")
	fs.StringVar(&f.logFormat, "log-format", "", "console or json")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}
	if err := f.apply(fs, &cfg); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 2
	}
	defer logger.Sync() //nolint:errcheck

	scanner := lanscan.New(cfg.Options())
	var res lanscan.ScanResult
	if f.cidr != "" {
		res, err = scanner.ScanCIDR(ctx, f.cidr)
	} else {
		res, err = scanner.ScanNetwork(ctx)
	}
	code := 0
	if err != nil {
		if !errors.Is(err, context.Canceled) || res == nil {
			logger.Error("scan failed", zap.Error(err))
			return 1
		}
		logger.Warn("scan interrupted, printing partial result", zap.Int("hosts", len(res)))
		code = 130
	}

	if f.asJSON {
		err = writeJSON(stdout, res)
	} else {
		err = writeTable(stdout, res)
	}
	if err != nil {
		logger.Error("write result", zap.Error(err))
		return 1
	}
	return code
}

func (f *scanFlags) apply(fs *flag.FlagSet, cfg *config.Config) error {
	var err error
	fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "concurrency":
			cfg.Scan.MaxConcurrent = f.concurrency
		case "ports":
			cfg.Scan.ServicePorts, err = parsePorts(f.servicePorts)
		case "netbios":
			cfg.DNS.NetBIOS = f.netbios
		case "link-local":
			cfg.DNS.LinkLocal = f.linkLocal
		case "arping":
			cfg.ARP.ARPing = f.arping
		case "no-ping":
			cfg.Ping.Disabled = f.noPing
		case "skip-loopback":
			cfg.Scan.SkipLoopback = f.skipLoopback
		case "oui":
			cfg.OUI.Path = f.ouiPath
		case "dns-server":
			cfg.DNS.Server = f.dnsServer
		case "catalog":
			cfg.Catalog.Enabled = f.catalog
		case "log-level":
			cfg.Log.Level = f.logLevel
		case "log-format":
			cfg.Log.Format = f.logFormat
		}
	})
	if err != nil {
		return err
	}
	return cfg.Validate()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, res lanscan.ScanResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tHOSTNAME\tMAC\tVENDOR\tPORTS\tSHARES")
	for _, h := range res {
		ports := make([]string, len(h.OpenPorts))
		for i, p := range h.OpenPorts {
			ports[i] = strconv.Itoa(p)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			h.Address, dash(h.Hostname), dash(h.MACAddress), dash(h.Vendor),
			dash(strings.Join(ports, ",")), dash(strings.Join(h.SMBShareHints, ",")))
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
