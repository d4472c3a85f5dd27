package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/marcuoli/go-lanscan/internal/config"
	"github.com/marcuoli/go-lanscan/pkg/lanscan"
)

func TestParsePorts(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"22,445", []int{22, 445}, false},
		{" 80 , 443 ", []int{80, 443}, false},
		{"", nil, true},
		{"0", nil, true},
		{"65536", nil, true},
		{"http", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePorts(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePorts(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("parsePorts(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRun_Usage(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run(context.Background(), nil, &out, &errOut); code != 2 {
		t.Errorf("no args: code = %d, want 2", code)
	}
	if code := run(context.Background(), []string{"frobnicate"}, &out, &errOut); code != 2 {
		t.Errorf("unknown command: code = %d, want 2", code)
	}
	if !strings.Contains(errOut.String(), "unknown command") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	if code := run(context.Background(), []string{"version"}, &out, &out); code != 0 {
		t.Fatalf("code = %d", code)
	}
	if strings.TrimSpace(out.String()) != lanscan.VersionInfo() {
		t.Errorf("output = %q", out.String())
	}
}

func TestScanFlags_Apply(t *testing.T) {
	t.Setenv(config.EnvCatalogURL, "")
	var errOut bytes.Buffer
	code := runScan(context.Background(), []string{"-ports", "22,x"}, &bytes.Buffer{}, &errOut)
	if code != 2 {
		t.Errorf("bad -ports: code = %d, want 2", code)
	}
	code = runScan(context.Background(), []string{"-concurrency", "0"}, &bytes.Buffer{}, &errOut)
	if code != 2 {
		t.Errorf("zero concurrency: code = %d, want 2", code)
	}
	code = runScan(context.Background(), []string{"-cidr", "10.0.0.0/8", "-no-ping"}, &bytes.Buffer{}, &errOut)
	if code != 1 {
		t.Errorf("oversized range: code = %d, want 1", code)
	}
}

func TestWriteTable(t *testing.T) {
	res := lanscan.ScanResult{
		{Address: "10.0.0.5", Hostname: "nas", OpenPorts: []int{445, 22}, SMBShareHints: []string{"media"}},
		{Address: "10.0.0.6", OpenPorts: []int{}},
	}
	var buf bytes.Buffer
	if err := writeTable(&buf, res); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "445,22") || !strings.Contains(lines[1], "media") {
		t.Errorf("row = %q", lines[1])
	}
	if strings.Count(lines[2], "-") != 5 {
		t.Errorf("empty fields should render as dashes: %q", lines[2])
	}
}

func newCatalog(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/smb/discover", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"host": "10.0.0.5", "share_name": "media", "path": `\\10.0.0.5\media`, "writable": true}})
	})
	r.POST("/api/v1/smb/browse", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"name": "movies", "path": "movies", "is_directory": true}})
	})
	r.POST("/api/v1/smb/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunShares(t *testing.T) {
	t.Setenv(config.EnvCatalogURL, "")
	srv := newCatalog(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"list", []string{"-catalog-url", srv.URL, "10.0.0.5"}, "media"},
		{"browse", []string{"-catalog-url", srv.URL, "-share", "media", "10.0.0.5"}, "movies"},
		{"test", []string{"-catalog-url", srv.URL, "-share", "media", "-test", "10.0.0.5"}, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			if code := runShares(context.Background(), tt.args, &out, &errOut); code != 0 {
				t.Fatalf("code = %d, stderr = %s", code, errOut.String())
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output = %q, want it to contain %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunShares_JSONFromEnv(t *testing.T) {
	srv := newCatalog(t)
	t.Setenv(config.EnvCatalogURL, srv.URL)

	var out bytes.Buffer
	if code := runShares(context.Background(), []string{"-json", "10.0.0.5"}, &out, &bytes.Buffer{}); code != 0 {
		t.Fatalf("code = %d", code)
	}
	var shares []map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &shares); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(shares) != 1 || shares[0]["share_name"] != "media" {
		t.Errorf("shares = %v", shares)
	}
}

func TestRunShares_Usage(t *testing.T) {
	var errOut bytes.Buffer
	if code := runShares(context.Background(), nil, &bytes.Buffer{}, &errOut); code != 2 {
		t.Errorf("no host: code = %d, want 2", code)
	}
	if code := runShares(context.Background(), []string{"-test", "10.0.0.5"}, &bytes.Buffer{}, &errOut); code != 2 {
		t.Errorf("-test without -share: code = %d, want 2", code)
	}
}
