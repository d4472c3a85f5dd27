// Package network provides interface enumeration, /24 range derivation and
// IPv4 address enumeration.
package network

import (
	"errors"
	"fmt"
	"net"
)

// RangePrefix is the prefix length used for every derived range.
const RangePrefix = 24

// MinPrefix is the shortest prefix Hosts will enumerate (65536 addresses).
const MinPrefix = 16

// Errors
var (
	// ErrIPv4Only is returned when a range is not an IPv4 block.
	ErrIPv4Only = errors.New("only IPv4 ranges are supported")
	// ErrRangeTooLarge is returned for ranges shorter than MinPrefix.
	ErrRangeTooLarge = errors.New("range too large to enumerate")
)

// Interface is a named network interface with its bound addresses.
type Interface struct {
	Name  string
	Flags net.Flags
	Addrs []net.Addr
}

// IsLoopback reports whether the interface is flagged as loopback.
func (i Interface) IsLoopback() bool {
	return i.Flags&net.FlagLoopback != 0
}

// Source enumerates the network interfaces of the local machine.
type Source interface {
	Interfaces() ([]Interface, error)
}

// SystemSource reads interfaces from the operating system.
type SystemSource struct{}

// Interfaces returns every interface known to the OS together with its
// addresses. Any failure aborts the enumeration.
func (SystemSource) Interfaces() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make([]Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			return nil, fmt.Errorf("addresses of %s: %w", iface.Name, err)
		}
		out = append(out, Interface{Name: iface.Name, Flags: iface.Flags, Addrs: addrs})
	}
	return out, nil
}

// DeriveRange returns the /24 block holding the first IPv4 address bound to
// iface. The address is masked down to its network address, so 192.168.1.57
// yields 192.168.1.0/24. The second result is false when iface has no IPv4
// address.
func DeriveRange(iface Interface) (*net.IPNet, bool) {
	for _, addr := range iface.Addrs {
		ip4 := addrIPv4(addr)
		if ip4 == nil {
			continue
		}
		mask := net.CIDRMask(RangePrefix, 32)
		return &net.IPNet{IP: ip4.Mask(mask), Mask: mask}, true
	}
	return nil, false
}

func addrIPv4(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.IPNet:
		return a.IP.To4()
	case *net.IPAddr:
		return a.IP.To4()
	}
	return nil
}

// ParseRange parses a CIDR string into an IPv4 range anchored at its network
// address.
func ParseRange(cidr string) (*net.IPNet, error) {
	_, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, err
	}
	if ipnet.IP.To4() == nil {
		return nil, ErrIPv4Only
	}
	return ipnet, nil
}

// Hosts returns every address in n in ascending order, network and broadcast
// addresses included.
func Hosts(n *net.IPNet) ([]net.IP, error) {
	if n == nil {
		return nil, ErrIPv4Only
	}
	base := n.IP.To4()
	if base == nil {
		return nil, ErrIPv4Only
	}
	ones, bits := n.Mask.Size()
	if bits != 32 {
		return nil, ErrIPv4Only
	}
	if ones < MinPrefix {
		return nil, fmt.Errorf("%w: /%d", ErrRangeTooLarge, ones)
	}
	mask := net.IP(n.Mask).To4()
	network := ipToUint32(base) & ipToUint32(mask)
	broadcast := network | ^ipToUint32(mask)

	res := make([]net.IP, 0, int(broadcast-network)+1)
	for u := network; ; u++ {
		res = append(res, uint32ToIP(u))
		if u == broadcast {
			break
		}
	}
	return res, nil
}

// HostStrings is Hosts rendered as dotted-quad strings.
func HostStrings(n *net.IPNet) ([]string, error) {
	ips, err := Hosts(n)
	if err != nil {
		return nil, err
	}
	result := make([]string, len(ips))
	for i, ip := range ips {
		result[i] = ip.String()
	}
	return result, nil
}

func ipToUint32(ip net.IP) uint32 {
	ip = ip.To4()
	return uint32(ip[0])<<24 | uint32(ip[1])<<16 | uint32(ip[2])<<8 | uint32(ip[3])
}

func uint32ToIP(u uint32) net.IP {
	return net.IPv4(byte(u>>24), byte(u>>16), byte(u>>8), byte(u))
}
