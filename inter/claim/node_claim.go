package claim

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/rony4d/witgen/inter/claimpk"
)

// Field names of a node claim.
const (
	FieldAddress    = "address"
	FieldIdentifier = "identifier"
	FieldPublicKey  = "public_key"
	FieldSignature  = "signature"
)

// IdentifierLength is the length of a WIT_xxxxx identity token.
const IdentifierLength = 9

var identifierPattern = regexp.MustCompile(`^WIT_\w{5}$`)

var (
	// ErrParse wraps JSON syntax errors.
	ErrParse = errors.New("claim is not valid JSON")
	// ErrSchema wraps every structural violation.
	ErrSchema = errors.New("claim schema violation")
)

// NodeClaim is the self-asserted proof that the holder of PublicKey runs the
// node identified by Identifier and wants its rewards sent to Address.
type NodeClaim struct {
	Address    string `json:"address"`
	Identifier string `json:"identifier"`
	PublicKey  string `json:"public_key"`
	Signature  string `json:"signature"`
}

// IsIdentifier reports whether s looks like a WIT_xxxxx identity token.
func IsIdentifier(s string) bool {
	return len(s) == IdentifierLength && identifierPattern.MatchString(s)
}

// ParseNodeClaim decodes raw JSON without imposing any structure.
func ParseNodeClaim(data []byte) (interface{}, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(ErrParse, err.Error())
	}
	return raw, nil
}

// ValidateNodeClaimSchema checks that raw is a JSON object whose fields have
// the exact shape of a node claim for the given address prefix, and returns
// it typed. Cryptographic checks are left to the caller.
func ValidateNodeClaimSchema(raw interface{}, prefix string) (NodeClaim, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return NodeClaim{}, errors.Wrap(ErrSchema, "claim is not an object")
	}

	str := func(field string) (string, error) {
		v, ok := obj[field].(string)
		if !ok {
			return "", errors.Wrapf(ErrSchema, "%s is missing or not a string", field)
		}
		return v, nil
	}

	var (
		c   NodeClaim
		err error
	)
	if c.Address, err = str(FieldAddress); err != nil {
		return NodeClaim{}, err
	}
	if c.Identifier, err = str(FieldIdentifier); err != nil {
		return NodeClaim{}, err
	}
	if c.PublicKey, err = str(FieldPublicKey); err != nil {
		return NodeClaim{}, err
	}
	if c.Signature, err = str(FieldSignature); err != nil {
		return NodeClaim{}, err
	}

	if want := claimpk.AddressLength(prefix); len(c.Address) != want {
		return NodeClaim{}, errors.Wrapf(ErrSchema, "address has length %d, want %d", len(c.Address), want)
	}
	if !strings.HasPrefix(c.Address, prefix+"1") {
		return NodeClaim{}, errors.Wrapf(ErrSchema, "address does not start with %q", prefix+"1")
	}
	if !IsIdentifier(c.Identifier) {
		return NodeClaim{}, errors.Wrapf(ErrSchema, "identifier %q is not a WIT_ token", c.Identifier)
	}
	if len(c.PublicKey) != claimpk.CompressedHexSize {
		return NodeClaim{}, errors.Wrapf(ErrSchema, "public key has length %d, want %d", len(c.PublicKey), claimpk.CompressedHexSize)
	}
	if len(c.Signature) != claimpk.CompactHexSize {
		return NodeClaim{}, errors.Wrapf(ErrSchema, "signature has length %d, want %d", len(c.Signature), claimpk.CompactHexSize)
	}
	return c, nil
}

// VerifySignature checks the compact signature over the identifier.
func (c NodeClaim) VerifySignature() bool {
	return claimpk.VerifySignatureHex(c.Signature, c.Identifier, c.PublicKey)
}

// VerifyAddress checks that Address is derived from PublicKey.
func (c NodeClaim) VerifyAddress(prefix string) bool {
	derived, err := claimpk.DeriveAddressHex(c.PublicKey, prefix)
	return err == nil && derived == c.Address
}

func (c NodeClaim) String() string {
	return fmt.Sprintf("%s -> %s", c.Identifier, c.Address)
}
