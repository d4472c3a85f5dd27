package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/marcuoli/go-lanscan/pkg/lanscan"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/smb"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lanscan.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Scan.MaxConcurrent != lanscan.DefaultMaxConcurrent {
		t.Errorf("MaxConcurrent = %d", cfg.Scan.MaxConcurrent)
	}
	if cfg.Catalog.BaseURL != smb.DefaultBaseURL || cfg.Catalog.Enabled {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
}

func TestLoad_File(t *testing.T) {
	t.Setenv(EnvCatalogURL, "")
	path := writeFile(t, `
scan:
  max_concurrent: 8
  service_ports: [22, 445]
  liveness_timeout: 250ms
  skip_loopback: true
dns:
  server: 10.0.0.1
  netbios: true
  link_local: true
ping:
  disabled: true
oui:
  path: /usr/share/ieee-data/oui.txt
catalog:
  enabled: true
  base_url: http://catalog.lan:9000
  username: alice
log:
  level: verbose
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scan.MaxConcurrent != 8 || cfg.Scan.LivenessTimeout != 250*time.Millisecond {
		t.Errorf("scan = %+v", cfg.Scan)
	}
	if cfg.Scan.ServiceTimeout != lanscan.DefaultOptions().ServiceTimeout {
		t.Error("unset fields must keep their defaults")
	}

	o := cfg.Options()
	if !slices.Equal(o.ServicePorts, []int{22, 445}) {
		t.Errorf("ServicePorts = %v", o.ServicePorts)
	}
	if o.PingPath != "" {
		t.Errorf("PingPath = %q, want disabled", o.PingPath)
	}
	if o.DNSServer != "10.0.0.1" || !o.NetBIOS || !o.LinkLocal || !o.SkipLoopback {
		t.Errorf("options = %+v", o)
	}
	if o.OUIPath == "" {
		t.Error("OUI path not carried over")
	}
	if o.Catalog == nil || o.Catalog.BaseURL != "http://catalog.lan:9000" || o.Catalog.Credentials.Username != "alice" {
		t.Errorf("catalog client = %+v", o.Catalog)
	}
	if lvl, _ := ParseLevel(cfg.Log.Level); lvl != lanscan.DebugVerbose {
		t.Errorf("level = %v", lvl)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvCatalogURL, "http://from-env:8080")
	path := writeFile(t, "catalog:\n  base_url: http://from-file:8080\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog.BaseURL != "http://from-env:8080" {
		t.Errorf("BaseURL = %q", cfg.Catalog.BaseURL)
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv(EnvCatalogURL, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Options().Catalog != nil {
		t.Error("catalog must stay disabled by default")
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(EnvCatalogURL, "")
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "scan:\n  workers: 4\n"},
		{"zero concurrency", "scan:\n  max_concurrent: 0\n"},
		{"bad port", "scan:\n  service_ports: [70000]\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad format", "log:\n  format: xml\n"},
		{"bad duration", "scan:\n  service_timeout: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeFile(t, tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	t.Setenv(EnvCatalogURL, "")
	if _, err := Load(writeFile(t, "")); err != nil {
		t.Errorf("empty file: %v", err)
	}
}
