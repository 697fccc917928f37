//go:build !unix

package socket

import (
	"errors"
	"syscall"
)

var errVecRecvUnsupported = errors.New("vecrecv: batched receive is not available on this platform, use PopOne")

// vecRecv is unavailable outside the Unix family; the worker pool falls
// back to the single-message pop loop on these platforms (see
// pkg/worker).
func vecRecv(raw syscall.RawConn, b *Bucket) (int, error) {
	return 0, errVecRecvUnsupported
}
