package socket

import "net"

// Family identifies whether an address is IPv4 or IPv6.
type Family int

const (
	FamilyV4 Family = iota
	FamilyV6
)

// Addr is a compact, allocation-free socket address. VecRecv decodes
// kernel sockaddr buffers directly into values of this type so the
// batched receive path never allocates a *net.UDPAddr per datagram.
type Addr struct {
	Family Family
	IP     [16]byte // first 4 bytes significant when Family == FamilyV4
	Port   int
}

// AddrFromUDP converts a *net.UDPAddr into an Addr.
func AddrFromUDP(u *net.UDPAddr) Addr {
	a := Addr{Port: u.Port}
	if ip4 := u.IP.To4(); ip4 != nil {
		a.Family = FamilyV4
		copy(a.IP[:4], ip4)
		return a
	}
	a.Family = FamilyV6
	copy(a.IP[:], u.IP.To16())
	return a
}

// UDPAddr converts back to a *net.UDPAddr, allocating a fresh net.IP.
func (a Addr) UDPAddr() *net.UDPAddr {
	if a.Family == FamilyV4 {
		ip := make(net.IP, 4)
		copy(ip, a.IP[:4])
		return &net.UDPAddr{IP: ip, Port: a.Port}
	}
	ip := make(net.IP, 16)
	copy(ip, a.IP[:])
	return &net.UDPAddr{IP: ip, Port: a.Port}
}

func (a Addr) String() string {
	return a.UDPAddr().String()
}
