//go:build unix

package socket

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// vecRecv drains up to b.Capacity() datagrams from fd in a single
// recvmmsg(2) call, decoding each sender address and payload length
// directly into the bucket's preallocated arena.
func vecRecv(raw syscall.RawConn, b *Bucket) (int, error) {
	n := b.Capacity()
	hdrs := make([]unix.Mmsghdr, n)
	iovs := make([]unix.Iovec, n)
	addrs := make([]unix.RawSockaddrInet6, n)

	for i := 0; i < n; i++ {
		iovs[i].Base = &b.payloads[i][0]
		iovs[i].SetLen(len(b.payloads[i]))
		hdrs[i].Hdr.Iov = &iovs[i]
		hdrs[i].Hdr.SetIovlen(1)
		hdrs[i].Hdr.Name = (*byte)(unsafe.Pointer(&addrs[i]))
		hdrs[i].Hdr.Namelen = unix.SizeofSockaddrInet6
	}

	var count int
	var sysErr error
	err := raw.Read(func(fd uintptr) bool {
		c, e := unix.Recvmmsg(int(fd), hdrs, 0, nil)
		if e != nil {
			if e == unix.EAGAIN || e == unix.EWOULDBLOCK {
				return false // tell the runtime poller to wait for readiness/deadline
			}
			sysErr = e
			return true
		}
		count = c
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("recvmmsg: %w", err)
	}
	if sysErr != nil {
		return 0, fmt.Errorf("recvmmsg: %w", sysErr)
	}

	for i := 0; i < count; i++ {
		b.lens[i] = int(hdrs[i].Len)
		b.addrs[i] = addrFromRawSockaddr(&addrs[i])
	}
	b.count = count

	return count, nil
}

// addrFromRawSockaddr decodes a kernel sockaddr_in/sockaddr_in6 filled
// in by recvmmsg, dispatching on the address family.
func addrFromRawSockaddr(raw *unix.RawSockaddrInet6) Addr {
	if raw.Family == unix.AF_INET {
		in4 := (*unix.RawSockaddrInet4)(unsafe.Pointer(raw))
		a := Addr{Family: FamilyV4, Port: ntohs(in4.Port)}
		copy(a.IP[:4], in4.Addr[:])
		return a
	}
	a := Addr{Family: FamilyV6, Port: ntohs(raw.Port)}
	copy(a.IP[:], raw.Addr[:])
	return a
}

// ntohs converts a uint16 holding network-byte-order bits (as written
// directly into a kernel sockaddr by the OS) into a host int,
// regardless of the host's own endianness.
func ntohs(v uint16) int {
	b := (*[2]byte)(unsafe.Pointer(&v))
	return int(b[0])<<8 | int(b[1])
}
