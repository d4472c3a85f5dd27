// Package netbios provides NetBIOS Node Status (NBSTAT) lookups over UDP/137,
// similar to nmblookup -A. SMB hosts that have no PTR record usually still
// answer with their workstation name.
package netbios

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

const (
	// Port is the UDP port for NetBIOS Name Service
	Port = 137
	// DefaultTimeout is the default timeout for NetBIOS lookups
	DefaultTimeout = 1 * time.Second
)

// Name suffixes of interest.
const (
	SuffixWorkstation byte = 0x00
	SuffixFileServer  byte = 0x20
)

// ErrNoName is returned when the node answered without a unique workstation name.
var ErrNoName = errors.New("no workstation name in node status")

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from NetBIOS operations.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// Name is one entry of a node status name table.
type Name struct {
	Name    string
	Suffix  byte
	IsGroup bool
}

// Status is a parsed node status response.
type Status struct {
	Names []Name
	// MACAddress as reported by the node, upper-case colon form; empty when
	// the node reports all zeros.
	MACAddress string
}

// Workstation returns the first unique name with the workstation suffix.
func (s *Status) Workstation() string {
	for _, n := range s.Names {
		if n.Suffix == SuffixWorkstation && !n.IsGroup {
			return n.Name
		}
	}
	return ""
}

// FileServer reports whether the node registered the file server service.
func (s *Status) FileServer() bool {
	for _, n := range s.Names {
		if n.Suffix == SuffixFileServer {
			return true
		}
	}
	return false
}

// Resolver queries node status and exposes the workstation name as a
// reverse lookup.
type Resolver struct {
	Timeout time.Duration
	// Port overrides the destination port; zero means 137.
	Port int
}

// NewResolver creates a NetBIOS resolver with defaults.
func NewResolver() *Resolver {
	return &Resolver{Timeout: DefaultTimeout}
}

// LookupAddr returns the workstation name of ip.
func (r *Resolver) LookupAddr(ctx context.Context, ip string) (string, error) {
	st, err := r.NodeStatus(ctx, ip)
	if err != nil {
		return "", err
	}
	name := st.Workstation()
	if name == "" {
		return "", ErrNoName
	}
	debugLog("%s -> %s", ip, name)
	return name, nil
}

// NodeStatus sends one NBSTAT request to ip and parses the answer.
func (r *Resolver) NodeStatus(ctx context.Context, ip string) (*Status, error) {
	target := net.ParseIP(ip)
	if target == nil || target.To4() == nil {
		return nil, fmt.Errorf("invalid IPv4 address: %s", ip)
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	port := r.Port
	if port == 0 {
		port = Port
	}

	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("udp listen: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	if _, err := conn.WriteTo(buildRequest(), &net.UDPAddr{IP: target, Port: port}); err != nil {
		debugLog("%s: send failed: %v", ip, err)
		return nil, fmt.Errorf("send request: %w", err)
	}

	buf := make([]byte, 2048)
	n, _, err := conn.ReadFrom(buf)
	if err != nil {
		debugLog("%s: read failed: %v", ip, err)
		return nil, fmt.Errorf("read response: %w", err)
	}
	st, err := parseResponse(buf[:n])
	if err != nil {
		debugLog("%s: parse failed: %v", ip, err)
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return st, nil
}

const transactionID = 0x4c53

// buildRequest encodes a node status query for the wildcard name "*"
// (RFC 1002 section 4.2.17).
func buildRequest() []byte {
	req := make([]byte, 0, 50)
	req = binary.BigEndian.AppendUint16(req, transactionID)
	req = binary.BigEndian.AppendUint16(req, 0) // flags
	req = binary.BigEndian.AppendUint16(req, 1) // QDCOUNT
	req = append(req, 0, 0, 0, 0, 0, 0)         // AN/NS/AR counts

	req = append(req, 32)
	name := [16]byte{'*'}
	for _, b := range name {
		req = append(req, 'A'+(b>>4), 'A'+(b&0x0F))
	}
	req = append(req, 0)

	req = binary.BigEndian.AppendUint16(req, 0x0021) // NBSTAT
	req = binary.BigEndian.AppendUint16(req, 0x0001) // IN
	return req
}

// parseResponse decodes the name table and unit ID of a node status answer.
// The fixed header plus the echoed question name and RR fields put the name
// count at offset 56.
func parseResponse(data []byte) (*Status, error) {
	if len(data) < 57 {
		return nil, fmt.Errorf("response too short: %d bytes", len(data))
	}
	count := int(data[56])
	if count == 0 {
		return nil, errors.New("no names in response")
	}

	st := &Status{}
	off := 57
	for i := 0; i < count && off+18 <= len(data); i++ {
		entry := data[off : off+18]
		flags := binary.BigEndian.Uint16(entry[16:18])
		st.Names = append(st.Names, Name{
			Name:    strings.TrimRight(string(entry[0:15]), " \x00"),
			Suffix:  entry[15],
			IsGroup: flags&0x8000 != 0,
		})
		off += 18
	}

	if off+6 <= len(data) {
		mac := net.HardwareAddr(data[off : off+6])
		if !allZero(mac) {
			st.MACAddress = strings.ToUpper(mac.String())
		}
	}
	return st, nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
