// Package genesis defines the monetary parameters of the network launch and
// emits the genesis block: the list of value transfers (address, value,
// timelock) every node starts from.
//
// Key concepts:
//   - Rules: network-wide constants (address prefix, genesis date, supply)
//   - Transfer: one UTXO-like output of the genesis block
//   - Emitter: groups transfers by timelock and shuffles each group
//
// Usage:
//
//	rules := genesis.TestnetRules()
//	em := genesis.NewEmitter(seed)
//	block := em.Build(transfers)
//
// Amounts are always integers in nanowits; wits only appear in constants.
package genesis

import (
	"github.com/pkg/errors"
)

const (
	// NanowitsPerWit is how many nanowits make one wit.
	NanowitsPerWit = 1_000_000_000
	// Precision is the smallest UTXO granularity, in nanowits. Amounts
	// derived from USD are rounded up to a multiple of it.
	Precision = 8_388_608
	// ClaimingAddressMin is the smallest output a wallet splits a claimed
	// amount into (50 wits).
	ClaimingAddressMin = 50 * NanowitsPerWit
)

var (
	// ErrRules is returned by Rules.Validate.
	ErrRules = errors.New("invalid genesis rules")
)

// Rules holds the constants of one network launch. They are fixed once the
// genesis block has been published.
type Rules struct {
	// Name is a human-readable network name ("mainnet", "testnet").
	Name string
	// Prefix is the bech32 human-readable part of addresses.
	Prefix string
	// Timestamp is the genesis date, in unix seconds. Vesting schedules count from it.
	Timestamp uint64
	// TotalWits is the amount allocated in the genesis block, in wits.
	TotalWits uint64
	// TotalSupply is the amount of wits that will ever exist.
	TotalSupply uint64
	// TIPWits is the pool shared by miners of the testnet incentive program, in wits.
	TIPWits uint64
}

func baseRules() Rules {
	return Rules{
		Timestamp:   1_602_666_000,
		TotalWits:   750_000_000,
		TotalSupply: 2_500_000_000,
		TIPWits:     12_500_000,
	}
}

// MainnetRules returns the rules of the main network.
func MainnetRules() Rules {
	r := baseRules()
	r.Name = "mainnet"
	r.Prefix = "wit"
	return r
}

// TestnetRules returns the rules of the test network.
func TestnetRules() Rules {
	r := baseRules()
	r.Name = "testnet"
	r.Prefix = "twit"
	return r
}

// TotalNanowits is TotalWits in nanowits.
func (r Rules) TotalNanowits() uint64 {
	return r.TotalWits * NanowitsPerWit
}

// SupplyNanowits is TotalSupply in nanowits.
func (r Rules) SupplyNanowits() uint64 {
	return r.TotalSupply * NanowitsPerWit
}

// Validate checks the rules are self-consistent.
func (r Rules) Validate() error {
	switch {
	case r.Prefix == "":
		return errors.Wrap(ErrRules, "empty address prefix")
	case r.TotalWits == 0:
		return errors.Wrap(ErrRules, "empty genesis allocation")
	case r.TotalWits > r.TotalSupply:
		return errors.Wrapf(ErrRules, "genesis allocates %d wits out of a supply of %d", r.TotalWits, r.TotalSupply)
	case r.TIPWits > r.TotalWits:
		return errors.Wrapf(ErrRules, "incentive program pool of %d wits exceeds genesis", r.TIPWits)
	}
	return nil
}
