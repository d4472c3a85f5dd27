package smb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is where the catalog API listens by default.
	DefaultBaseURL = "http://localhost:8080"
	// DefaultTimeout bounds one catalog request.
	DefaultTimeout = 10 * time.Second
	// DefaultPort is the SMB port sent to the catalog.
	DefaultPort = 445
	// GuestUser is used when no credentials are configured.
	GuestUser = "guest"
)

// ErrCatalogStatus is wrapped by errors for non-2xx catalog responses.
var ErrCatalogStatus = errors.New("catalog API returned an error status")

// Credentials authenticate against an SMB server through the catalog.
type Credentials struct {
	Username string
	Password string
	Domain   string
}

// Share is one share reported by the catalog.
type Share struct {
	Host        string  `json:"host"`
	ShareName   string  `json:"share_name"`
	Path        string  `json:"path"`
	Writable    bool    `json:"writable"`
	Description *string `json:"description"`
}

// FileEntry is one directory entry of a browsed share.
type FileEntry struct {
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	IsDirectory bool    `json:"is_directory"`
	Size        *int64  `json:"size"`
	Modified    *string `json:"modified"`
}

type request struct {
	Host     string  `json:"host"`
	Port     int     `json:"port,omitempty"`
	Share    string  `json:"share,omitempty"`
	Path     string  `json:"path,omitempty"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	Domain   *string `json:"domain,omitempty"`
}

// Client calls the catalog API SMB endpoints. BaseURL is explicit
// configuration; the client never consults the environment.
type Client struct {
	BaseURL     string
	Credentials Credentials
	HTTP        *http.Client
}

// NewClient creates a catalog client for baseURL with guest credentials.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:     baseURL,
		Credentials: Credentials{Username: GuestUser},
		HTTP:        &http.Client{Timeout: DefaultTimeout},
	}
}

// DiscoverShares lists the shares of host.
func (c *Client) DiscoverShares(ctx context.Context, host string) ([]Share, error) {
	var shares []Share
	if err := c.post(ctx, "/api/v1/smb/discover", c.request(host, "", ""), &shares); err != nil {
		return nil, err
	}
	debugLog("%s: catalog reported %d shares", host, len(shares))
	return shares, nil
}

// BrowseShare lists the entries below path in share; an empty path means
// the share root.
func (c *Client) BrowseShare(ctx context.Context, host, share, path string) ([]FileEntry, error) {
	if path == "" {
		path = "."
	}
	var entries []FileEntry
	if err := c.post(ctx, "/api/v1/smb/browse", c.request(host, share, path), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// TestConnection reports whether the catalog could connect to share.
func (c *Client) TestConnection(ctx context.Context, host, share string) (bool, error) {
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, "/api/v1/smb/test", c.request(host, share, ""), &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

func (c *Client) request(host, share, path string) request {
	req := request{
		Host:     host,
		Share:    share,
		Path:     path,
		Username: c.Credentials.Username,
		Password: c.Credentials.Password,
	}
	if req.Username == "" {
		req.Username = GuestUser
	}
	if share != "" {
		req.Port = DefaultPort
	}
	if c.Credentials.Domain != "" {
		d := c.Credentials.Domain
		req.Domain = &d
	}
	return req
}

func (c *Client) post(ctx context.Context, endpoint string, body request, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(base, "/")+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := hc.Do(req)
	if err != nil {
		debugLog("%s: %v", endpoint, err)
		return fmt.Errorf("catalog %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		debugLog("%s: status %d", endpoint, resp.StatusCode)
		return fmt.Errorf("%w: %s %d %s", ErrCatalogStatus, endpoint, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
