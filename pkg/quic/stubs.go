package quic

import "net"

// execQuicHandshake, execQuicRetry, execQuic1RTT and
// execQuicVersionNegotiation are recognized but unimplemented packet
// paths. The core only specifies Initial processing; these stubs let
// the dispatcher classify every packet type without panicking on one
// it cannot yet decrypt.
func execQuicHandshake(p *Processor, data []byte, src *net.UDPAddr) int {
	return 0
}

func execQuicRetry(p *Processor, data []byte, src *net.UDPAddr) int {
	return 0
}

func execQuic1RTT(p *Processor, data []byte, src *net.UDPAddr) int {
	return 0
}

func execQuicVersionNegotiation(p *Processor, data []byte, src *net.UDPAddr) int {
	return 0
}
