// Package network tests for range derivation and enumeration.
package network

import (
	"errors"
	"net"
	"testing"
	"testing/quick"
)

func ipNet(t *testing.T, cidr string) *net.IPNet {
	t.Helper()
	ip, n, err := net.ParseCIDR(cidr)
	if err != nil {
		t.Fatalf("ParseCIDR(%s): %v", cidr, err)
	}
	n.IP = ip
	return n
}

func TestDeriveRange(t *testing.T) {
	tests := []struct {
		name  string
		addrs []string
		want  string
	}{
		{"single ipv4", []string{"192.168.1.57/24"}, "192.168.1.0/24"},
		{"masks wider prefix down to /24", []string{"10.1.2.3/8"}, "10.1.2.0/24"},
		{"ipv6 before ipv4", []string{"fe80::1/64", "172.16.5.9/16"}, "172.16.5.0/24"},
		{"first ipv4 wins", []string{"10.0.0.5/24", "192.168.0.7/24"}, "10.0.0.0/24"},
		{"already aligned", []string{"192.168.50.0/24"}, "192.168.50.0/24"},
		{"loopback", []string{"127.0.0.1/8"}, "127.0.0.0/24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iface := Interface{Name: "eth0"}
			for _, a := range tt.addrs {
				iface.Addrs = append(iface.Addrs, ipNet(t, a))
			}
			got, ok := DeriveRange(iface)
			if !ok {
				t.Fatalf("DeriveRange returned no range")
			}
			if got.String() != tt.want {
				t.Errorf("DeriveRange = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDeriveRange_IPAddr(t *testing.T) {
	iface := Interface{Name: "tun0", Addrs: []net.Addr{&net.IPAddr{IP: net.ParseIP("10.8.0.6")}}}
	got, ok := DeriveRange(iface)
	if !ok || got.String() != "10.8.0.0/24" {
		t.Errorf("DeriveRange = %v, %v; want 10.8.0.0/24", got, ok)
	}
}

func TestDeriveRange_NoIPv4(t *testing.T) {
	cases := map[string]Interface{
		"empty":     {Name: "lo"},
		"ipv6 only": {Name: "eth1", Addrs: []net.Addr{ipNet(t, "fe80::1/64"), ipNet(t, "2001:db8::5/64")}},
		"non ip":    {Name: "x", Addrs: []net.Addr{&net.UnixAddr{Name: "/tmp/sock", Net: "unix"}}},
	}
	for name, iface := range cases {
		t.Run(name, func(t *testing.T) {
			if r, ok := DeriveRange(iface); ok {
				t.Errorf("expected no range, got %s", r)
			}
		})
	}
}

// Any interface carrying only non-IPv4 addresses derives no range.
func TestDeriveRange_NoIPv4Property(t *testing.T) {
	f := func(seed []byte, withUnix bool) bool {
		iface := Interface{Name: "synthetic"}
		for i := 0; i+16 <= len(seed); i += 16 {
			ip := make(net.IP, net.IPv6len)
			copy(ip, seed[i:i+16])
			ip[0] = 0xfd // unique local, never IPv4-mapped
			iface.Addrs = append(iface.Addrs, &net.IPNet{IP: ip, Mask: net.CIDRMask(64, 128)})
		}
		if withUnix {
			iface.Addrs = append(iface.Addrs, &net.UnixAddr{Name: "sock", Net: "unix"})
		}
		_, ok := DeriveRange(iface)
		return !ok
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestHosts_Slash24(t *testing.T) {
	r, ok := DeriveRange(Interface{Addrs: []net.Addr{ipNet(t, "192.168.1.77/24")}})
	if !ok {
		t.Fatal("no range")
	}
	ips, err := Hosts(r)
	if err != nil {
		t.Fatalf("Hosts: %v", err)
	}
	if len(ips) != 256 {
		t.Fatalf("Hosts returned %d addresses, want 256", len(ips))
	}
	if ips[0].String() != "192.168.1.0" {
		t.Errorf("first = %s, want 192.168.1.0", ips[0])
	}
	if ips[255].String() != "192.168.1.255" {
		t.Errorf("last = %s, want 192.168.1.255", ips[255])
	}
}

func TestHosts_Sizes(t *testing.T) {
	tests := []struct {
		cidr     string
		expected int
	}{
		{"192.168.1.0/32", 1},
		{"192.168.1.0/30", 4},
		{"192.168.1.0/28", 16},
		{"192.168.1.0/24", 256},
		{"10.0.0.0/16", 65536},
	}
	for _, tt := range tests {
		t.Run(tt.cidr, func(t *testing.T) {
			n, err := ParseRange(tt.cidr)
			if err != nil {
				t.Fatalf("ParseRange: %v", err)
			}
			ips, err := Hosts(n)
			if err != nil {
				t.Fatalf("Hosts: %v", err)
			}
			if len(ips) != tt.expected {
				t.Errorf("got %d addresses, want %d", len(ips), tt.expected)
			}
		})
	}
}

func TestHosts_Errors(t *testing.T) {
	if _, err := Hosts(nil); !errors.Is(err, ErrIPv4Only) {
		t.Errorf("nil range: err = %v, want ErrIPv4Only", err)
	}
	if _, err := Hosts(ipNet(t, "2001:db8::/120")); !errors.Is(err, ErrIPv4Only) {
		t.Errorf("ipv6 range: err = %v, want ErrIPv4Only", err)
	}
	if _, err := Hosts(ipNet(t, "10.0.0.0/8")); !errors.Is(err, ErrRangeTooLarge) {
		t.Errorf("/8 range: err = %v, want ErrRangeTooLarge", err)
	}
}

func TestParseRange_Invalid(t *testing.T) {
	for _, cidr := range []string{"", "invalid", "192.168.1.0", "192.168.1.0/abc"} {
		t.Run(cidr, func(t *testing.T) {
			if _, err := ParseRange(cidr); err == nil {
				t.Errorf("expected error for %q", cidr)
			}
		})
	}
	if _, err := ParseRange("2001:db8::/64"); !errors.Is(err, ErrIPv4Only) {
		t.Errorf("ipv6 CIDR: err = %v, want ErrIPv4Only", err)
	}
}

func TestHostStrings(t *testing.T) {
	n, _ := ParseRange("192.168.1.0/30")
	got, err := HostStrings(n)
	if err != nil {
		t.Fatalf("HostStrings: %v", err)
	}
	want := []string{"192.168.1.0", "192.168.1.1", "192.168.1.2", "192.168.1.3"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestInterface_IsLoopback(t *testing.T) {
	if !(Interface{Flags: net.FlagUp | net.FlagLoopback}).IsLoopback() {
		t.Error("expected loopback")
	}
	if (Interface{Flags: net.FlagUp}).IsLoopback() {
		t.Error("expected non-loopback")
	}
}
