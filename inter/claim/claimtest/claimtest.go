// Package claimtest builds correctly signed claims for tests of the packages
// that consume them.
package claimtest

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/witgen/inter/claim"
	"github.com/rony4d/witgen/inter/claimpk"
)

// Prefix is the address prefix used throughout the tests.
const Prefix = "twit"

// NewKey returns a fresh key and panics on failure.
func NewKey() *claimpk.PrivKey {
	key, err := claimpk.GenerateKey()
	if err != nil {
		panic(err)
	}
	return key
}

// Address derives the test-prefixed address of key.
func Address(key *claimpk.PrivKey) string {
	addr, err := key.PubKey().Address(Prefix)
	if err != nil {
		panic(err)
	}
	return addr
}

// NodeClaim returns a valid node claim of identifier signed by key.
func NodeClaim(key *claimpk.PrivKey, identifier string) claim.NodeClaim {
	sig, err := key.Sign([]byte(identifier), claimpk.Compact)
	if err != nil {
		panic(err)
	}
	return claim.NodeClaim{
		Address:    Address(key),
		Identifier: identifier,
		PublicKey:  key.PubKey().String(),
		Signature:  common.Bytes2Hex(sig),
	}
}

// Disclaimers signs every disclaimer required for source with key.
func Disclaimers(key *claimpk.PrivKey, source claim.Source) map[string]claim.DisclaimerSignature {
	out := make(map[string]claim.DisclaimerSignature)
	for i, text := range claim.DisclaimersFor(source) {
		sig, err := key.Sign([]byte(text), claimpk.DER)
		if err != nil {
			panic(err)
		}
		out[strconv.Itoa(i)] = claim.DisclaimerSignature{
			Signature: common.Bytes2Hex(sig),
			PublicKey: key.PubKey().String(),
		}
	}
	return out
}
