package quic

import (
	"fmt"

	"github.com/nilsen/quicd/pkg/log"
)

// transport parameter ids this client advertises (RFC 9000 §18.2).
const (
	tpInitialSourceConnectionID = 0x000f
	tpMaxUDPPayloadSize         = 0x0003
	tpActiveConnectionIDLimit   = 0x000e
)

const (
	maxUDPPayloadSize       = 65527
	activeConnectionIDLimit = 4
	minDatagramSize         = 1200
)

// Client builds wire-valid QUIC Initial packets for interop and
// testing. It does not implement a TLS state machine, nor does it own
// a socket: callers supply the ClientHello bytes to wrap in the CRYPTO
// frame, receive back a padded, header-protected, AEAD-sealed Initial
// datagram, and send it over whatever transport they like.
type Client struct {
	addr     string
	logger   *log.Logger
	scid     ConnectionId
	dcid     ConnectionId
	conn     *Connection
	onOpen   func(*Connection)
	seed     string // non-empty only when SetSeed was called, for reproducible ids
}

// NewClient builds a client targeting addr. logger may be nil.
func NewClient(addr string, logger *log.Logger) *Client {
	return &Client{addr: addr, logger: logger}
}

// SetSeed selects a deterministic connection-ID generator keyed on
// seed instead of the default cryptographically random one, so
// repeated interop runs produce byte-identical datagrams. An empty
// seed restores random generation.
func (c *Client) SetSeed(seed string) {
	c.seed = seed
}

// OnOpen installs the handler invoked once BuildInitialDatagram has built the local
// Connection state for the handshake (the callback-before-any-event
// guarantee on the server side extends to the client side too).
func (c *Client) OnOpen(h func(*Connection)) {
	c.onOpen = h
}

// BuildInitialDatagram constructs a complete, wire-ready Initial
// datagram wrapping clientHello in a single CRYPTO frame. The returned
// slice is always at least minDatagramSize bytes
// (RFC 9000 §14.1 anti-amplification padding).
func (c *Client) BuildInitialDatagram(clientHello []byte) ([]byte, error) {
	scid, err := randomConnectionId(randReader(c.seed), 8)
	if err != nil {
		return nil, fmt.Errorf("generate scid: %w", err)
	}
	dcid, err := randomConnectionId(randReader(c.seed), 20)
	if err != nil {
		return nil, fmt.Errorf("generate dcid: %w", err)
	}
	c.scid, c.dcid = scid, dcid

	packet, err := buildInitialPacket(dcid.Bytes(), scid.Bytes(), clientHello)
	if err != nil {
		return nil, err
	}

	if len(packet) < minDatagramSize {
		padded := make([]byte, minDatagramSize)
		copy(padded, packet)
		packet = padded
	}

	c.conn = newConnection(scid, dcid, 0, nil, RoleClient)
	if c.onOpen != nil {
		c.onOpen(c.conn)
	}
	return packet, nil
}

// buildInitialPacket builds the wire bytes exactly: CRYPTO frame, long
// header, client-schedule key derivation, AEAD seal, header
// protection. It does not pad the result; callers apply the
// minDatagramSize floor.
func buildInitialPacket(dcid, scid, clientHello []byte) ([]byte, error) {
	const pnLen = 2

	crypto := make([]byte, 0, len(clientHello)+8)
	crypto = append(crypto, 0x06)
	crypto = encodeVarint(crypto, 0)
	crypto = encodeVarint(crypto, uint64(len(clientHello)))
	crypto = append(crypto, clientHello...)

	const tagLen = 16
	lengthFieldValue := uint64(pnLen + len(crypto) + tagLen)

	packet := make([]byte, 0, minDatagramSize)
	packet = append(packet, 0xC0|(pnLen-1))
	packet = append(packet, 0x00, 0x00, 0x00, 0x01) // version 1

	packet = append(packet, byte(len(dcid)))
	packet = append(packet, dcid...)
	packet = append(packet, byte(len(scid)))
	packet = append(packet, scid...)
	packet = append(packet, 0x00) // token length = 0

	packet = encodeVarint(packet, lengthFieldValue)

	pnPos := len(packet)
	packet = append(packet, 0x00, 0x00) // packet number 0, 2 bytes big-endian

	header := append([]byte(nil), packet...)

	keys, err := deriveInitialKeys(dcid)
	if err != nil {
		return nil, err
	}

	nonce := aeadNonce(keys.aeadIV, 0)
	sealed, err := sealAEAD(keys.aeadKey, nonce, header, crypto)
	if err != nil {
		return nil, err
	}
	packet = append(packet, sealed...)

	sampleStart := pnPos + 4
	sampleEnd := sampleStart + 16
	if sampleEnd <= len(packet) {
		mask, err := aesECBBlock(keys.hpKey[:], packet[sampleStart:sampleEnd])
		if err != nil {
			return nil, err
		}
		packet[0] ^= mask[0] & 0x0F
		for i := 0; i < pnLen; i++ {
			packet[pnPos+i] ^= mask[1+i]
		}
	}

	return packet, nil
}

// encodeTransportParameters builds the TLS-encoded TransportParameters
// extension body this client advertises: initial_source_connection_id,
// max_udp_payload_size and active_connection_id_limit (RFC 9000 §18.2).
func encodeTransportParameters(scid []byte) []byte {
	body := make([]byte, 0, 32)

	body = append(body, byte(tpInitialSourceConnectionID>>8), byte(tpInitialSourceConnectionID))
	body = append(body, byte(len(scid)>>8), byte(len(scid)))
	body = append(body, scid...)

	maxPayload := encodeVarint(nil, maxUDPPayloadSize)
	body = append(body, byte(tpMaxUDPPayloadSize>>8), byte(tpMaxUDPPayloadSize))
	body = append(body, byte(len(maxPayload)>>8), byte(len(maxPayload)))
	body = append(body, maxPayload...)

	activeLimit := encodeVarint(nil, activeConnectionIDLimit)
	body = append(body, byte(tpActiveConnectionIDLimit>>8), byte(tpActiveConnectionIDLimit))
	body = append(body, byte(len(activeLimit)>>8), byte(len(activeLimit)))
	body = append(body, activeLimit...)

	out := make([]byte, 0, 2+len(body))
	out = append(out, byte(len(body)>>8), byte(len(body)))
	out = append(out, body...)
	return out
}
