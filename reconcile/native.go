package reconcile

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/rony4d/witgen/genesis"
	"github.com/rony4d/witgen/inter/claim"
	"github.com/rony4d/witgen/inter/claimpk"
)

// Unlock is the amount of an allocation that becomes spendable at Date.
type Unlock struct {
	Date   uint64
	Amount uint64
}

// UnlockSchedule expands the vesting of a proof into its installments: one
// every InstallmentLength seconds after genesis+Delay+Cliff, each of
// InstallmentWits except for a smaller last one.
func UnlockSchedule(v claim.Vesting, total, genesisDate uint64) ([]Unlock, error) {
	if v.InstallmentWits == 0 {
		return nil, errors.Wrap(ErrInvalid, "vesting without installments")
	}
	steps := (total + v.InstallmentWits - 1) / v.InstallmentWits
	out := make([]Unlock, 0, steps)
	remaining := total
	for i := uint64(0); i < steps; i++ {
		amount := v.InstallmentWits
		if remaining < amount {
			amount = remaining
		}
		remaining -= amount
		out = append(out, Unlock{
			Date:   genesisDate + v.Delay + v.Cliff + v.InstallmentLength*i,
			Amount: amount,
		})
	}
	return out, nil
}

// SplitAmount breaks an amount into the outputs a wallet creates for it:
// the amount is rounded up to a multiple of ClaimingAddressMin and every
// decimal digit d of amount/ClaimingAddressMin at position e becomes d
// outputs of ClaimingAddressMin*10^e, smallest first.
func SplitAmount(amount uint64) []uint64 {
	if amount == 0 {
		return nil
	}
	const unit = genesis.ClaimingAddressMin
	units := (amount + unit - 1) / unit

	var out []uint64
	digits := strconv.FormatUint(units, 10)
	value := uint64(unit)
	for i := len(digits) - 1; i >= 0; i-- {
		for d := digits[i] - '0'; d > 0; d-- {
			out = append(out, value)
		}
		value *= 10
	}
	return out
}

// ExpectedAddresses lists, in order, the (amount, timelock) pairs a claim
// built from the proof must request. Addresses are left empty: the wallet
// picks them.
func ExpectedAddresses(p *claim.ParticipantProof) ([]claim.AddressEntry, error) {
	if p.Data.Wit == 0 {
		return nil, errors.Wrap(ErrInvalid, "proof assigns nothing")
	}
	unlocks, err := UnlockSchedule(p.Data.Vesting, p.Data.Wit, p.Data.GenesisDate)
	if err != nil {
		return nil, err
	}
	var out []claim.AddressEntry
	for _, u := range unlocks {
		for _, amount := range SplitAmount(u.Amount) {
			out = append(out, claim.AddressEntry{Amount: claim.Uint(amount), Timelock: claim.Uint(u.Date)})
		}
	}
	return out, nil
}

// NativeValidator cross-validates in process. Disclaimers are not its
// concern. When Issuer is set the proof signature is checked against it.
type NativeValidator struct {
	Issuer *claimpk.PubKey
}

// CrossValidate implements CrossValidator.
func (v NativeValidator) CrossValidate(_ context.Context, in Input) (*claim.ClaimFile, error) {
	p, c := in.Proof, in.Claim
	if p == nil || c == nil {
		return nil, errors.Wrap(ErrInvalid, "missing document")
	}
	if v.Issuer != nil && !p.Verify(*v.Issuer) {
		return nil, errors.Wrap(ErrInvalid, "proof not signed by issuer")
	}

	switch {
	case c.EmailAddress != p.Data.EmailAddress:
		return nil, errors.Wrap(ErrInvalid, "email_address differs")
	case c.Name != p.Data.Name:
		return nil, errors.Wrap(ErrInvalid, "name differs")
	case c.Source != p.Data.Source:
		return nil, errors.Wrap(ErrInvalid, "source differs")
	case c.Signature != p.Signature:
		return nil, errors.Wrap(ErrInvalid, "signature differs")
	}

	expected, err := ExpectedAddresses(p)
	if err != nil {
		return nil, err
	}
	if len(c.Addresses) != len(expected) {
		return nil, errors.Wrapf(ErrInvalid, "%d addresses, want %d", len(c.Addresses), len(expected))
	}
	for i, want := range expected {
		got := c.Addresses[i]
		if got.Amount != want.Amount || got.Timelock != want.Timelock {
			return nil, errors.Wrapf(ErrInvalid, "address %d: %d@%d, want %d@%d", i, got.Amount, got.Timelock, want.Amount, want.Timelock)
		}
	}
	return c, nil
}
