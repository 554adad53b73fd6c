package claimpk

import (
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// PubKeyHashSize is how many leading bytes of the SHA-256 of a public key
// make up the public key hash encoded in an address.
const PubKeyHashSize = 20

// AddressLength returns the length of a bech32 address carrying a 20-byte
// public key hash under prefix: the prefix, the "1" separator, 32 data
// characters and a 6 character checksum.
func AddressLength(prefix string) int {
	return len(prefix) + 1 + 32 + 6
}

// PubKeyHash returns the first 20 bytes of SHA-256(pub).
func PubKeyHash(pub []byte) []byte {
	digest := Digest(pub)
	pkh := make([]byte, PubKeyHashSize)
	copy(pkh, digest[:PubKeyHashSize])
	return pkh
}

// DeriveAddress computes the address controlled by the serialized public key
// pub: the public key hash regrouped into 5-bit words and bech32-encoded with
// the human readable prefix. The result only depends on its inputs.
func DeriveAddress(pub []byte, prefix string) (string, error) {
	words, err := bech32.ConvertBits(PubKeyHash(pub), 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(prefix, words)
}

// DeriveAddressHex is DeriveAddress for a hex-encoded key. Hex decoding
// errors are returned unchanged.
func DeriveAddressHex(pubHex, prefix string) (string, error) {
	pub, err := DecodeHex(pubHex)
	if err != nil {
		return "", err
	}
	return DeriveAddress(pub, prefix)
}

// DecodeAddress returns the prefix and public key hash of a bech32 address.
func DecodeAddress(address string) (string, []byte, error) {
	prefix, words, err := bech32.Decode(address)
	if err != nil {
		return "", nil, err
	}
	pkh, err := bech32.ConvertBits(words, 5, 8, false)
	if err != nil {
		return "", nil, err
	}
	return prefix, pkh, nil
}
