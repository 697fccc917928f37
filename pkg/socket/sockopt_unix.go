//go:build unix

package socket

import "golang.org/x/sys/unix"

// setReuseAddr sets SO_REUSEADDR on fd so every worker can bind the
// same address, and SO_REUSEPORT where the kernel supports it: plain
// SO_REUSEADDR lets the bind succeed but does not itself give per-queue
// hashing, whereas SO_REUSEPORT is what actually spreads datagrams for
// one 4-tuple onto the same listener consistently. SO_REUSEPORT
// failures are not fatal - some unix kernels (or restricted sandboxes)
// lack it, and the bind still works with SO_REUSEADDR alone.
func setReuseAddr(fd uintptr) error {
	if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return err
	}
	_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	return nil
}
