package claim

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Vesting describes how an allocation unlocks: nothing before
// genesis+Delay+Cliff, then InstallmentWits every InstallmentLength seconds
// until the total is released. All durations are seconds, amounts nanowits.
type Vesting struct {
	Delay             uint64 `json:"delay"`
	Cliff             uint64 `json:"cliff"`
	InstallmentLength uint64 `json:"installment_length"`
	InstallmentWits   uint64 `json:"installment_wits"`
}

// ProofData is the signed body of a participant proof. Field order matters:
// the signature covers the indented JSON of this struct as issued.
type ProofData struct {
	EmailAddress string  `json:"email_address"`
	Name         string  `json:"name"`
	Source       Source  `json:"source"`
	USD          uint64  `json:"usd"`
	Wit          uint64  `json:"wit"`
	Vesting      Vesting `json:"vesting"`
	GenesisDate  uint64  `json:"genesis_date"`
}

// ParticipantProof is the foundation-issued statement that EmailAddress is
// entitled to Wit nanowits from Source, pending a claim.
type ParticipantProof struct {
	Data      ProofData `json:"data"`
	Signature string    `json:"signature"`
}

// ParseParticipantProof decodes a participant proof document.
func ParseParticipantProof(data []byte) (*ParticipantProof, error) {
	var p ParticipantProof
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	if p.Data.EmailAddress == "" {
		return nil, errors.Wrap(ErrMalformed, "proof without email_address")
	}
	return &p, nil
}
