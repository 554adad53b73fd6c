package claim

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// ErrMalformed is returned for claim files that decode but lack required
// fields.
var ErrMalformed = errors.New("malformed claim file")

// Uint is a non-negative integer that accepts both JSON numbers and decimal
// strings. Wallets write amounts as numbers, the genesis tooling as strings.
type Uint uint64

// UnmarshalJSON implements json.Unmarshaler.
func (u *Uint) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	data = bytes.Trim(data, `"`)
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*u = Uint(v)
	return nil
}

// AddressEntry is one output a participant asks for: Amount nanowits to
// Address, spendable after Timelock (unix seconds, 0 for unlocked).
type AddressEntry struct {
	Address  string `json:"address"`
	Amount   Uint   `json:"amount"`
	Timelock Uint   `json:"timelock"`
}

// DisclaimerSignature is the acknowledgement of one disclaimer.
type DisclaimerSignature struct {
	Signature string `json:"signature"`
	PublicKey string `json:"public_key"`
}

// ClaimFile is the document a participant returns after importing their
// participant proof into a wallet. Signature echoes the proof signature so
// both documents can be matched.
type ClaimFile struct {
	EmailAddress string                         `json:"email_address"`
	Name         string                         `json:"name"`
	Source       Source                         `json:"source"`
	Addresses    []AddressEntry                 `json:"addresses"`
	Disclaimers  map[string]DisclaimerSignature `json:"disclaimers"`
	Signature    string                         `json:"signature"`
}

// ParseClaimFile decodes a claim file and checks that the fields the
// reconciliation depends on are present.
func ParseClaimFile(data []byte) (*ClaimFile, error) {
	var cf ClaimFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	switch {
	case cf.EmailAddress == "":
		return nil, errors.Wrap(ErrMalformed, "missing email_address")
	case cf.Source == "":
		return nil, errors.Wrap(ErrMalformed, "missing source")
	case cf.Addresses == nil:
		return nil, errors.Wrap(ErrMalformed, "missing addresses")
	case cf.Signature == "":
		return nil, errors.Wrap(ErrMalformed, "missing signature")
	}
	return &cf, nil
}

// Total sums the amounts of all requested outputs.
func (cf *ClaimFile) Total() uint64 {
	var total uint64
	for _, a := range cf.Addresses {
		total += uint64(a.Amount)
	}
	return total
}
