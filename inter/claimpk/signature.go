package claimpk

import (
	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// Encoding selects how a signature is serialized.
type Encoding uint8

const (
	// AutoEncoding picks Compact for 64-byte input and DER otherwise.
	AutoEncoding Encoding = iota
	// Compact is the fixed-width r||s form, 32 bytes each, big endian.
	Compact
	// DER is the ASN.1 SEQUENCE{r, s} form produced by openssl.
	DER
)

// CompactSize is the length of a Compact signature.
const CompactSize = 64

// CompactHexSize is CompactSize written as hex.
const CompactHexSize = 2 * CompactSize

func (e Encoding) String() string {
	switch e {
	case Compact:
		return "compact"
	case DER:
		return "der"
	default:
		return "auto"
	}
}

// Digest is the message digest signatures are computed over: SHA-256 of the
// UTF-8 bytes of message.
func Digest(message []byte) hash.Hash {
	return hash.Of(message)
}

// VerifySignature reports whether sig is a valid secp256k1 signature of
// message by the serialized public key pub. Both Compact and DER encodings
// are accepted. It returns false on any decoding error.
func VerifySignature(sig []byte, message string, pub []byte) bool {
	return VerifySignatureEncoded(AutoEncoding, sig, []byte(message), pub)
}

// VerifySignatureHex is VerifySignature for hex-encoded signature and key.
func VerifySignatureHex(sigHex, message, pubHex string) bool {
	sig, err := DecodeHex(sigHex)
	if err != nil {
		return false
	}
	pub, err := DecodeHex(pubHex)
	if err != nil {
		return false
	}
	return VerifySignature(sig, message, pub)
}

// VerifySignatureEncoded verifies sig over the raw message bytes, forcing the
// given encoding unless it is AutoEncoding.
func VerifySignatureEncoded(enc Encoding, sig, message, pub []byte) (valid bool) {
	// Callers never see a panic from adversarial bytes.
	defer func() {
		if recover() != nil {
			valid = false
		}
	}()

	key, err := btcec.ParsePubKey(pub)
	if err != nil {
		return false
	}
	signature, ok := ParseSignature(enc, sig)
	if !ok {
		return false
	}
	digest := Digest(message)
	return signature.Verify(digest[:], key)
}

// ParseSignature decodes sig using enc. The boolean is false when the bytes do
// not form a signature in that encoding.
func ParseSignature(enc Encoding, sig []byte) (*ecdsa.Signature, bool) {
	if enc == AutoEncoding {
		enc = DER
		if len(sig) == CompactSize {
			enc = Compact
		}
	}

	switch enc {
	case Compact:
		if len(sig) != CompactSize {
			return nil, false
		}
		var r, s btcec.ModNScalar
		if overflow := r.SetByteSlice(sig[:32]); overflow {
			return nil, false
		}
		if overflow := s.SetByteSlice(sig[32:]); overflow {
			return nil, false
		}
		if r.IsZero() || s.IsZero() {
			return nil, false
		}
		return ecdsa.NewSignature(&r, &s), true
	case DER:
		parsed, err := ecdsa.ParseDERSignature(sig)
		if err != nil {
			return nil, false
		}
		return parsed, true
	}
	return nil, false
}
