package proofs

import (
	"math/big"

	"github.com/rony4d/witgen/genesis"
	"github.com/rony4d/witgen/inter/claim"
)

// Rates are how many wits one USD bought in each private sale, as decimal
// strings so conversions are exact.
var Rates = map[claim.Source]string{
	claim.SourceDPA:  "41.027225762199",
	claim.SourceSAFT: "41.027225762199",
	claim.SourcePPA:  "82.05446",
}

// Rate returns the wits-per-USD rate of a source, or nil when allocations of
// that source are not bought with USD.
func Rate(source claim.Source) *big.Rat {
	s, ok := Rates[source]
	if !ok {
		return nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		panic("proofs: bad rate " + s)
	}
	return r
}

// USDToNanowits converts usd at rate (wits per USD), rounding up to the
// genesis precision.
func USDToNanowits(usd uint64, rate *big.Rat) uint64 {
	nanowits := new(big.Rat).Mul(new(big.Rat).SetUint64(usd), rate)
	nanowits.Mul(nanowits, new(big.Rat).SetUint64(genesis.NanowitsPerWit))

	// ceil(nanowits / precision) * precision
	precision := big.NewInt(genesis.Precision)
	num := new(big.Int).Set(nanowits.Num())
	den := new(big.Int).Mul(nanowits.Denom(), precision)
	steps, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Sign() > 0 {
		steps.Add(steps, big.NewInt(1))
	}
	return steps.Mul(steps, precision).Uint64()
}

// Schedule is how an allocation of a given source unlocks.
type Schedule struct {
	Delay             uint64
	Cliff             uint64
	InstallmentLength uint64
	Installments      uint64
}

var (
	// founders and stakeholders: 6 months cliff, then 48 installments of 15 days.
	vestingFounders = Schedule{Cliff: 15_552_000, InstallmentLength: 1_296_000, Installments: 48}
	// incentive program: 12 installments of 14 days.
	vestingTIP  = Schedule{Cliff: 1_209_600, InstallmentLength: 1_209_600, Installments: 12}
	vestingNone = Schedule{Installments: 1}
)

// ScheduleOf returns the vesting schedule of a source.
func ScheduleOf(source claim.Source) Schedule {
	switch source {
	case claim.SourceFounder, claim.SourceStakeholder:
		return vestingFounders
	case claim.SourceTIP:
		return vestingTIP
	default:
		return vestingNone
	}
}

// ComputeVesting applies the schedule of source to a total amount. The
// installment is the integer share of the total; the last installment
// absorbs the remainder when participants claim.
func ComputeVesting(source claim.Source, total uint64) claim.Vesting {
	s := ScheduleOf(source)
	return claim.Vesting{
		Delay:             s.Delay,
		Cliff:             s.Cliff,
		InstallmentLength: s.InstallmentLength,
		InstallmentWits:   total / s.Installments,
	}
}
