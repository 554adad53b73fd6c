// Package claimpk provides the cryptographic primitives used to check genesis
// claims: a wrapper around serialized secp256k1 public keys, signature
// verification over SHA-256 digests (compact r||s and DER encodings) and the
// deterministic derivation of bech32 addresses from public keys.
//
// Every verification helper in this package reports failure as a plain
// boolean. Claims are adversarial input, so malformed keys, signatures or
// hex strings must never surface as panics to the caller.
package claimpk

import (
	"errors"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// CompressedSize is the length of a SEC1 compressed secp256k1 key.
	CompressedSize = btcec.PubKeyBytesLenCompressed
	// CompressedHexSize is the length of CompressedSize bytes written as hex.
	CompressedHexSize = 2 * CompressedSize
)

var (
	// ErrEmptyPubKey is returned when no key bytes were supplied.
	ErrEmptyPubKey = errors.New("empty pubkey")
	// ErrPubKeySize is returned for keys that are not 33 bytes long.
	ErrPubKeySize = errors.New("pubkey is not a 33-byte compressed key")
)

// PubKey is a compressed secp256k1 public key as it appears in claim files.
// Raw keeps the exact serialized bytes (prefix 0x02 or 0x03 followed by the X
// coordinate) because addresses are derived from the serialized form, not from
// the curve point.
type PubKey struct {
	Raw []byte
}

// Empty reports whether the key holds no bytes.
func (pk PubKey) Empty() bool {
	return len(pk.Raw) == 0
}

// String returns the lowercase hex form used in claim documents (no "0x").
func (pk PubKey) String() string {
	return common.Bytes2Hex(pk.Raw)
}

// Bytes returns the serialized key.
func (pk PubKey) Bytes() []byte {
	return pk.Raw
}

// Copy returns a deep copy; Raw is a slice and would otherwise be shared.
func (pk PubKey) Copy() PubKey {
	return PubKey{Raw: common.CopyBytes(pk.Raw)}
}

// Verify checks sig (compact or DER) over message. See VerifySignature.
func (pk PubKey) Verify(sig []byte, message string) bool {
	return VerifySignature(sig, message, pk.Raw)
}

// Address derives the bech32 address of the key under the given prefix.
func (pk PubKey) Address(prefix string) (string, error) {
	return DeriveAddress(pk.Raw, prefix)
}

// FromString parses a hex string, with or without "0x", into a PubKey.
// Unlike common.FromHex it rejects odd lengths and non-hex characters.
func FromString(str string) (PubKey, error) {
	b, err := DecodeHex(str)
	if err != nil {
		return PubKey{}, err
	}
	return FromBytes(b)
}

// FromBytes validates that b is a compressed point on secp256k1 and wraps it.
func FromBytes(b []byte) (PubKey, error) {
	if len(b) == 0 {
		return PubKey{}, ErrEmptyPubKey
	}
	if len(b) != CompressedSize {
		return PubKey{}, ErrPubKeySize
	}
	if _, err := btcec.ParsePubKey(b); err != nil {
		return PubKey{}, err
	}
	return PubKey{Raw: common.CopyBytes(b)}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (pk *PubKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PubKey) UnmarshalText(input []byte) error {
	res, err := FromString(string(input))
	if err != nil {
		return err
	}
	*pk = res
	return nil
}

// DecodeHex strictly decodes a hex string that may carry a "0x" prefix.
func DecodeHex(str string) ([]byte, error) {
	if !strings.HasPrefix(str, "0x") && !strings.HasPrefix(str, "0X") {
		str = "0x" + str
	}
	return hexutil.Decode(str)
}
