package quic

import (
	"net"

	"github.com/nilsen/quicd/pkg/log"
	"github.com/nilsen/quicd/pkg/semaphore"
)

// Processor is a single worker's QUIC decode state: its connection
// table and the callback fired the first time a connection is seen.
// Like Registry, it is owned exclusively by one worker goroutine.
type Processor struct {
	id           int
	registry     *Registry
	onConnection OnConnectionHandler
	logger       *log.Logger
}

// NewProcessor builds a per-worker processor. cap, if non-nil, bounds
// the number of connections this processor's registry will admit.
func NewProcessor(id int, cap *semaphore.ConnSemaphore, onConnection OnConnectionHandler, logger *log.Logger) *Processor {
	return &Processor{
		id:           id,
		registry:     NewRegistry(cap),
		onConnection: onConnection,
		logger:       logger,
	}
}

// Registry exposes the processor's connection table, mainly for tests
// and metrics.
func (p *Processor) Registry() *Registry {
	return p.registry
}

const longHeaderFlag = 0x80
const longHeaderFixedBit = 0x40
const minPacketBytes = 8

// execQuicPacket classifies one packet at the front of data by its
// first byte and QUIC version, then dispatches to the matching
// processor. It returns the number of bytes consumed, or 0 if data
// does not hold a parseable packet.
func execQuicPacket(p *Processor, data []byte, src *net.UDPAddr) int {
	if len(data) < minPacketBytes {
		return 0
	}

	byte0 := data[0]
	if byte0&longHeaderFlag == 0 {
		// Short header: 1-RTT path, out of scope for this core.
		return execQuic1RTT(p, data, src)
	}

	version := uint32(data[1])<<24 | uint32(data[2])<<16 | uint32(data[3])<<8 | uint32(data[4])
	if version != 1 {
		return 0
	}

	if byte0&longHeaderFixedBit == 0 {
		return execQuicVersionNegotiation(p, data, src)
	}

	packetType := (byte0 >> 4) & 0x03
	switch packetType {
	case 0:
		return execQuicInitial(p, data, src)
	case 1:
		return execQuicHandshake(p, data, src)
	case 2:
		return execQuicRetry(p, data, src)
	default:
		return execQuic1RTT(p, data, src)
	}
}

// DispatchDatagram runs the coalesced-packet dispatch loop over one UDP
// payload: it repeatedly hands the remaining bytes to
// execQuicPacket, advancing past each consumed packet, and stops as
// soon as a packet fails to parse (an unparseable packet invalidates
// whatever coalesced data follows it).
func (p *Processor) DispatchDatagram(data []byte, src *net.UDPAddr) {
	i := 0
	for len(data)-i >= minPacketBytes {
		consumed := execQuicPacket(p, data[i:], src)
		if consumed == 0 {
			return
		}
		i += consumed
	}
}

// execQuicInitial implements the Initial-packet processing algorithm
// parse the long header, derive Initial secrets from the
// DCID, remove header protection, open the AEAD payload in place, and
// demultiplex the now-authenticated packet onto this processor's
// connection table.
func execQuicInitial(p *Processor, data []byte, src *net.UDPAddr) int {
	// 1. Long header: flags, version (already matched), DCID, SCID.
	if len(data) < 6 {
		return 0
	}
	dcidLen := int(data[5])
	if dcidLen > maxConnIDLen || len(data) < 6+dcidLen+1 {
		return 0
	}
	dcidBytes := data[6 : 6+dcidLen]
	off := 6 + dcidLen

	scidLen := int(data[off])
	off++
	if scidLen > maxConnIDLen || len(data) < off+scidLen {
		return 0
	}
	scidBytes := data[off : off+scidLen]
	off += scidLen

	// 2. Token.
	tokenLen, n, ok := decodeVarint(data[off:])
	if !ok {
		return 0
	}
	off += n
	if uint64(len(data)-off) < tokenLen {
		return 0
	}
	off += int(tokenLen)

	// 3. Length.
	length, n, ok := decodeVarint(data[off:])
	if !ok {
		return 0
	}
	off += n
	pnOffset := off
	packetEnd := pnOffset + int(length)
	if packetEnd > len(data) {
		return 0
	}

	dcid := NewConnectionId(dcidBytes)
	scid := NewConnectionId(scidBytes)

	// 4. Derive Initial secrets from DCID.
	keys, err := deriveInitialKeys(dcid.Bytes())
	if err != nil {
		p.logger.DebugMsg("initial: key derivation failed: %v", err)
		return 0
	}

	// 5. Header protection removal.
	if pnOffset+20 > len(data) {
		return 0
	}
	sample := data[pnOffset+4 : pnOffset+20]
	mask, err := aesECBBlock(keys.hpKey[:], sample)
	if err != nil {
		p.logger.DebugMsg("initial: header protection mask failed: %v", err)
		return 0
	}

	data[0] ^= mask[0] & 0x0F
	byte0 := data[0]
	pnLen := int(byte0&0x03) + 1
	if byte0&0x0C != 0 {
		// P4: reserved bits must be zero after unmasking.
		return 0
	}
	if pnOffset+pnLen > packetEnd {
		return 0
	}
	for i := 0; i < pnLen; i++ {
		data[pnOffset+i] ^= mask[1+i]
	}

	var packetNumber uint64
	for i := 0; i < pnLen; i++ {
		packetNumber = packetNumber<<8 | uint64(data[pnOffset+i])
	}

	// 6. AEAD open in place.
	aad := data[:pnOffset+pnLen]
	nonce := aeadNonce(keys.aeadIV, packetNumber)
	ciphertext := data[pnOffset+pnLen : packetEnd]
	if _, err := openAEAD(keys.aeadKey, nonce, aad, ciphertext); err != nil {
		return 0
	}

	// 7. Demultiplex.
	conn, created, err := p.registry.updateOrInsert(scid, dcid, packetNumber, src)
	if err != nil {
		p.logger.DebugMsg("initial: connection admission refused: %v", err)
		return 0
	}
	if created && p.onConnection != nil {
		p.onConnection(conn)
	}

	// 8. Return consumed length so the caller can continue past any
	// coalesced following packet.
	return packetEnd
}
