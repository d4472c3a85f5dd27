package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/marcuoli/go-lanscan/internal/config"
	"github.com/marcuoli/go-lanscan/pkg/lanscan"
)

func runShares(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var (
		configPath string
		share      string
		path       string
		test       bool
		baseURL    string
		username   string
		password   string
		domain     string
		asJSON     bool
	)
	fs := flag.NewFlagSet("shares", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configPath, "config", "", "YAML configuration file")
	fs.StringVar(&share, "share", "", "browse this share instead of listing shares")
	fs.StringVar(&path, "path", "", "directory inside the share to browse")
	fs.BoolVar(&test, "test", false, "only test the connection to -share")
	fs.StringVar(&baseURL, "catalog-url", "", "catalog API base URL")
	fs.StringVar(&username, "user", "", "SMB user name")
	fs.StringVar(&password, "password", "", "SMB password")
	fs.StringVar(&domain, "domain", "", "SMB domain")
	fs.BoolVar(&asJSON, "json", false, "print the result as JSON")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: lanscan shares [flags] <host>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	host := fs.Arg(0)
	if test && share == "" {
		fmt.Fprintln(stderr, "-test needs -share")
		return 2
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "catalog-url":
			cfg.Catalog.BaseURL = baseURL
		case "user":
			cfg.Catalog.Username = username
		case "password":
			cfg.Catalog.Password = password
		case "domain":
			cfg.Catalog.Domain = domain
		}
	})

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 2
	}
	defer logger.Sync() //nolint:errcheck
	client := cfg.CatalogClient()

	switch {
	case test:
		ok, err := client.TestConnection(ctx, host, share)
		if err != nil {
			logger.Error("test connection", zap.String("host", host), zap.Error(err))
			return 1
		}
		if !ok {
			fmt.Fprintf(stdout, "%s/%s: connection failed\n", host, share)
			return 1
		}
		fmt.Fprintf(stdout, "%s/%s: ok\n", host, share)
		return 0

	case share != "":
		entries, err := client.BrowseShare(ctx, host, share, path)
		if err != nil {
			logger.Error("browse share", zap.String("host", host), zap.String("share", share), zap.Error(err))
			return 1
		}
		if asJSON {
			return encodeOr1(stdout, entries, logger)
		}
		tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TYPE\tSIZE\tNAME")
		for _, e := range entries {
			kind, size := "file", "-"
			if e.IsDirectory {
				kind = "dir"
			}
			if e.Size != nil {
				size = fmt.Sprint(*e.Size)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", kind, size, e.Name)
		}
		return flushOr1(tw, logger)

	default:
		shares, err := client.DiscoverShares(ctx, host)
		if err != nil {
			logger.Error("discover shares", zap.String("host", host), zap.Error(err))
			return 1
		}
		if asJSON {
			return encodeOr1(stdout, shares, logger)
		}
		tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SHARE\tWRITABLE\tPATH")
		for _, s := range shares {
			fmt.Fprintf(tw, "%s\t%v\t%s\n", s.ShareName, s.Writable, s.Path)
		}
		return flushOr1(tw, logger)
	}
}

func encodeOr1(w io.Writer, v interface{}, logger *zap.Logger) int {
	if err := writeJSON(w, v); err != nil {
		logger.Error("write result", zap.Error(err))
		return 1
	}
	return 0
}

func flushOr1(tw *tabwriter.Writer, logger *zap.Logger) int {
	if err := tw.Flush(); err != nil {
		logger.Error("write result", zap.Error(err))
		return 1
	}
	return 0
}

func runVersion(stdout io.Writer) int {
	fmt.Fprintln(stdout, lanscan.VersionInfo())
	return 0
}
