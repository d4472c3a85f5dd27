// Package config loads the lanscan command configuration from an optional
// YAML file and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marcuoli/go-lanscan/pkg/lanscan"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/probe"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/smb"
)

// EnvCatalogURL overrides Catalog.BaseURL when set.
const EnvCatalogURL = "CATALOG_API_URL"

// Config is the full command configuration.
type Config struct {
	Scan    Scan    `yaml:"scan"`
	DNS     DNS     `yaml:"dns"`
	ARP     ARP     `yaml:"arp"`
	Ping    Ping    `yaml:"ping"`
	OUI     OUI     `yaml:"oui"`
	Catalog Catalog `yaml:"catalog"`
	Log     Log     `yaml:"log"`
}

// Scan tunes probing.
type Scan struct {
	MaxConcurrent   int           `yaml:"max_concurrent"`
	LivenessPorts   []int         `yaml:"liveness_ports"`
	LivenessTimeout time.Duration `yaml:"liveness_timeout"`
	ServicePorts    []int         `yaml:"service_ports"`
	ServiceTimeout  time.Duration `yaml:"service_timeout"`
	SkipLoopback    bool          `yaml:"skip_loopback"`
}

// DNS selects the reverse name sources.
type DNS struct {
	// Server is host[:port] of a DNS server queried directly; empty uses
	// the system resolver.
	Server    string `yaml:"server"`
	LinkLocal bool   `yaml:"link_local"`
	NetBIOS   bool   `yaml:"netbios"`
}

type ARP struct {
	Path   string `yaml:"path"`
	ARPing bool   `yaml:"arping"`
}

type Ping struct {
	Path     string        `yaml:"path"`
	Timeout  time.Duration `yaml:"timeout"`
	Disabled bool          `yaml:"disabled"`
}

type OUI struct {
	// Path to an IEEE oui.txt file; empty disables vendor lookup.
	Path string `yaml:"path"`
}

// Catalog configures the catalog API used for share discovery.
type Catalog struct {
	Enabled  bool   `yaml:"enabled"`
	BaseURL  string `yaml:"base_url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Domain   string `yaml:"domain"`
}

// Log configures the command's logger.
type Log struct {
	// Level is off, basic or verbose.
	Level string `yaml:"level"`
	// Format is console or json.
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	o := lanscan.DefaultOptions()
	return Config{
		Scan: Scan{
			MaxConcurrent:   o.MaxConcurrent,
			LivenessPorts:   o.LivenessPorts,
			LivenessTimeout: o.LivenessTimeout,
			ServicePorts:    o.ServicePorts,
			ServiceTimeout:  o.ServiceTimeout,
		},
		ARP:     ARP{Path: o.ARPPath},
		Ping:    Ping{Path: o.PingPath, Timeout: probe.PingTimeout},
		Catalog: Catalog{BaseURL: smb.DefaultBaseURL, Username: smb.GuestUser},
		Log:     Log{Level: "off", Format: "console"},
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped
// when path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv applies environment overrides read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvCatalogURL)); v != "" {
		c.Catalog.BaseURL = v
	}
}

// Validate rejects settings the scanner cannot run with.
func (c Config) Validate() error {
	if c.Scan.MaxConcurrent < 1 {
		return fmt.Errorf("scan.max_concurrent must be at least 1, got %d", c.Scan.MaxConcurrent)
	}
	for _, p := range append(append([]int(nil), c.Scan.LivenessPorts...), c.Scan.ServicePorts...) {
		if p < 1 || p > 65535 {
			return fmt.Errorf("invalid port %d", p)
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// ParseLevel maps a level name to a lanscan.DebugLevel.
func ParseLevel(s string) (lanscan.DebugLevel, error) {
	switch strings.ToLower(s) {
	case "", "off":
		return lanscan.DebugOff, nil
	case "basic", "info":
		return lanscan.DebugBasic, nil
	case "verbose", "debug":
		return lanscan.DebugVerbose, nil
	}
	return lanscan.DebugOff, fmt.Errorf("log.level must be off, basic or verbose, got %q", s)
}

// CatalogClient returns the configured catalog client.
func (c Config) CatalogClient() *smb.Client {
	client := smb.NewClient(c.Catalog.BaseURL)
	client.Credentials = smb.Credentials{
		Username: c.Catalog.Username,
		Password: c.Catalog.Password,
		Domain:   c.Catalog.Domain,
	}
	return client
}

// Options converts the configuration into scanner options.
func (c Config) Options() lanscan.Options {
	o := lanscan.DefaultOptions()
	o.MaxConcurrent = c.Scan.MaxConcurrent
	if len(c.Scan.LivenessPorts) > 0 {
		o.LivenessPorts = c.Scan.LivenessPorts
	}
	if c.Scan.LivenessTimeout > 0 {
		o.LivenessTimeout = c.Scan.LivenessTimeout
	}
	if len(c.Scan.ServicePorts) > 0 {
		o.ServicePorts = c.Scan.ServicePorts
	}
	if c.Scan.ServiceTimeout > 0 {
		o.ServiceTimeout = c.Scan.ServiceTimeout
	}
	o.SkipLoopback = c.Scan.SkipLoopback

	o.PingPath = c.Ping.Path
	if c.Ping.Disabled {
		o.PingPath = ""
	}
	if c.Ping.Timeout > 0 {
		o.PingTimeout = c.Ping.Timeout
	}

	o.DNSServer = c.DNS.Server
	o.LinkLocal = c.DNS.LinkLocal
	o.NetBIOS = c.DNS.NetBIOS
	if c.ARP.Path != "" {
		o.ARPPath = c.ARP.Path
	}
	o.ARPing = c.ARP.ARPing
	o.OUIPath = c.OUI.Path

	if c.Catalog.Enabled {
		o.Catalog = c.CatalogClient()
	}
	return o
}
