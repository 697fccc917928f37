//go:build windows

package socket

import "syscall"

// setReuseAddr sets SO_REUSEADDR on fd. Windows version, uses
// syscall.Handle rather than an int file descriptor.
func setReuseAddr(fd uintptr) error {
	return syscall.SetsockoptInt(syscall.Handle(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1)
}
