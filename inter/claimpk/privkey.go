package claimpk

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/ethereum/go-ethereum/crypto"
)

// PrivKey is a secp256k1 signing key. The pipeline itself only verifies;
// signing is used to issue participant proofs in-process and by tests.
type PrivKey struct {
	key *btcec.PrivateKey
}

// GenerateKey creates a fresh random key.
func GenerateKey() (*PrivKey, error) {
	k, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	priv, _ := btcec.PrivKeyFromBytes(crypto.FromECDSA(k))
	return &PrivKey{key: priv}, nil
}

// PrivKeyFromHex loads a 32-byte hex scalar.
func PrivKeyFromHex(str string) (*PrivKey, error) {
	if len(str) > 1 && str[0] == '0' && (str[1] == 'x' || str[1] == 'X') {
		str = str[2:]
	}
	k, err := crypto.HexToECDSA(str)
	if err != nil {
		return nil, err
	}
	priv, _ := btcec.PrivKeyFromBytes(crypto.FromECDSA(k))
	return &PrivKey{key: priv}, nil
}

// PubKey returns the compressed public key.
func (k *PrivKey) PubKey() PubKey {
	return PubKey{Raw: k.key.PubKey().SerializeCompressed()}
}

// Sign signs the SHA-256 digest of message. Compact output is the 64-byte
// r||s form; DER output is what openssl dgst -sign writes.
func (k *PrivKey) Sign(message []byte, enc Encoding) ([]byte, error) {
	digest := Digest(message)
	if enc == Compact {
		priv, err := crypto.ToECDSA(k.key.Serialize())
		if err != nil {
			return nil, err
		}
		sig, err := crypto.Sign(digest[:], priv)
		if err != nil {
			return nil, err
		}
		// Drop the recovery id.
		return sig[:CompactSize], nil
	}
	return ecdsa.Sign(k.key, digest[:]).Serialize(), nil
}
