package quic

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// initialSalt is the 20-byte constant RFC 9001 §5.2 uses to derive
// Initial secrets from a connection's DCID.
var initialSalt = [20]byte{
	0x38, 0x76, 0x2c, 0xf7, 0xf5, 0x59, 0x34, 0xb3, 0x4d, 0x17,
	0x9a, 0xe6, 0xa4, 0xc8, 0x0c, 0xad, 0xcc, 0xbb, 0x7f, 0x0a,
}

// tls13Prefix is the label prefix HKDF-Expand-Label prepends to every
// label per RFC 8446 §7.1.
const tls13Prefix = "tls13 "

// initialSecret runs HKDF-Extract(salt=initialSalt, ikm=dcid) with
// SHA-256, yielding the per-connection Initial secret both endpoints
// derive their read/write secrets from.
func initialSecret(dcid []byte) []byte {
	return hkdf.Extract(sha256.New, dcid, initialSalt[:])
}

// hkdfExpandLabel implements RFC 8446 §7.1's HKDF-Expand-Label, with an
// always-empty context as RFC 9001's key schedule requires: the info
// block is a 2-byte big-endian output length, a 1-byte total label
// length (including the "tls13 " prefix), the literal "tls13 ", the
// label itself, then a single zero byte for the zero-length context.
func hkdfExpandLabel(secret []byte, label string, out []byte) error {
	fullLabel := tls13Prefix + label

	info := make([]byte, 0, 2+1+len(fullLabel)+1)
	info = binary.BigEndian.AppendUint16(info, uint16(len(out)))
	info = append(info, byte(len(fullLabel)))
	info = append(info, fullLabel...)
	info = append(info, 0) // zero-length context

	r := hkdf.Expand(sha256.New, secret, info)
	if _, err := io.ReadFull(r, out); err != nil {
		return fmt.Errorf("hkdf expand label %q: %w", label, err)
	}
	return nil
}

// initialKeys holds the four values RFC 9001 §5.2/§5.4 derive from a
// connection's Initial secret: the client Initial secret, and the
// header-protection key, the AEAD key and the AEAD IV that all descend
// from it.
type initialKeys struct {
	clientInitialSecret [32]byte
	hpKey               [16]byte
	aeadKey             [16]byte
	aeadIV              [12]byte
}

// deriveInitialKeys runs the full RFC 9001 Appendix A key schedule for
// dcid, producing the client-direction Initial keys (the core only
// decrypts Initial packets sent by a QUIC client, whether in server or
// client-interop-test role).
func deriveInitialKeys(dcid []byte) (initialKeys, error) {
	var k initialKeys

	secret := initialSecret(dcid)
	if err := hkdfExpandLabel(secret, "client in", k.clientInitialSecret[:]); err != nil {
		return k, err
	}
	if err := hkdfExpandLabel(k.clientInitialSecret[:], "quic hp", k.hpKey[:]); err != nil {
		return k, err
	}
	if err := hkdfExpandLabel(k.clientInitialSecret[:], "quic key", k.aeadKey[:]); err != nil {
		return k, err
	}
	if err := hkdfExpandLabel(k.clientInitialSecret[:], "quic iv", k.aeadIV[:]); err != nil {
		return k, err
	}

	return k, nil
}

// aesECBBlock encrypts a single 16-byte block with AES-128 under key,
// used as the header-protection mask generator (RFC 9001 §5.4.3).
// AES-ECB has no standalone stdlib type; a single block under
// crypto/aes.Block.Encrypt *is* one ECB block, so no third-party ECB
// mode package is needed for this one-block use.
func aesECBBlock(key, sample []byte) ([16]byte, error) {
	var out [16]byte

	block, err := aes.NewCipher(key)
	if err != nil {
		return out, fmt.Errorf("aes cipher: %w", err)
	}
	block.Encrypt(out[:], sample)
	return out, nil
}

// aeadNonce builds the AES-128-GCM nonce for packetNumber: the 12-byte
// IV XORed with the packet number, big-endian, left-padded to 12 bytes
// (RFC 9001 §5.3).
func aeadNonce(iv [12]byte, packetNumber uint64) [12]byte {
	nonce := iv
	var pnBytes [8]byte
	binary.BigEndian.PutUint64(pnBytes[:], packetNumber)
	for i := 0; i < 8; i++ {
		nonce[len(nonce)-8+i] ^= pnBytes[i]
	}
	return nonce
}

// openAEAD authenticates and decrypts ciphertextAndTag in place using
// AES-128-GCM, returning the plaintext (a sub-slice of the input
// backing array) or an error on authentication failure.
func openAEAD(key [16]byte, nonce [12]byte, aad, ciphertextAndTag []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return aead.Open(ciphertextAndTag[:0], nonce[:], ciphertextAndTag, aad)
}

// sealAEAD encrypts plaintext in place using AES-128-GCM, appending the
// authentication tag, and returns the sealed buffer.
func sealAEAD(key [16]byte, nonce [12]byte, aad, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return aead.Seal(plaintext[:0], nonce[:], plaintext, aad), nil
}
