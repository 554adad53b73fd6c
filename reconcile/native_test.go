package reconcile

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/witgen/genesis"
	"github.com/rony4d/witgen/inter/claim"
	"github.com/rony4d/witgen/inter/claim/claimtest"
)

const wit = genesis.NanowitsPerWit

func TestUnlockSchedule(t *testing.T) {
	require := require.New(t)

	unlocks, err := UnlockSchedule(claim.Vesting{Delay: 1, Cliff: 10, InstallmentLength: 5, InstallmentWits: 40}, 100, 1000)
	require.NoError(err)
	require.Equal([]Unlock{
		{Date: 1011, Amount: 40},
		{Date: 1016, Amount: 40},
		{Date: 1021, Amount: 20},
	}, unlocks)

	unlocks, err = UnlockSchedule(claim.Vesting{InstallmentWits: 100}, 100, 1000)
	require.NoError(err)
	require.Equal([]Unlock{{Date: 1000, Amount: 100}}, unlocks)

	_, err = UnlockSchedule(claim.Vesting{}, 100, 1000)
	require.Equal(ErrInvalid, errors.Cause(err))
}

func TestSplitAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount uint64
		want   []uint64
	}{
		{"zero", 0, nil},
		{"below minimum", 1, []uint64{50 * wit}},
		{"minimum", 50 * wit, []uint64{50 * wit}},
		{"rounds up", 50*wit + 1, []uint64{50 * wit, 50 * wit}},
		{"digits", 123 * 50 * wit, []uint64{50 * wit, 50 * wit, 50 * wit, 500 * wit, 500 * wit, 5000 * wit}},
		{"zero digits", 1001 * 50 * wit, []uint64{50 * wit, 50000 * wit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitAmount(tt.amount)
			require.Equal(t, tt.want, got)
			var total uint64
			for _, v := range got {
				total += v
			}
			require.GreaterOrEqual(t, total, tt.amount)
		})
	}
}

func TestExpectedAddresses(t *testing.T) {
	require := require.New(t)
	p := &claim.ParticipantProof{Data: claim.ProofData{
		Wit:         150 * wit,
		Vesting:     claim.Vesting{Cliff: 100, InstallmentLength: 10, InstallmentWits: 100 * wit},
		GenesisDate: 1000,
	}}
	got, err := ExpectedAddresses(p)
	require.NoError(err)
	require.Equal([]claim.AddressEntry{
		{Amount: claim.Uint(50 * wit), Timelock: 1100},
		{Amount: claim.Uint(50 * wit), Timelock: 1100},
		{Amount: claim.Uint(50 * wit), Timelock: 1110},
	}, got)

	p.Data.Wit = 0
	_, err = ExpectedAddresses(p)
	require.Equal(ErrInvalid, errors.Cause(err))
}

func TestNativeValidator(t *testing.T) {
	f := newFixture(t)
	key := claimtest.NewKey()
	p, _ := f.proof("ada@example.com", claim.SourceTIP, 600*wit, tipVesting)
	issuer := f.issuer.PubKey()

	tests := []struct {
		name   string
		mutate func(c *claim.ClaimFile)
		valid  bool
	}{
		{"matching", func(c *claim.ClaimFile) {}, true},
		{"email", func(c *claim.ClaimFile) { c.EmailAddress = "eve@example.com" }, false},
		{"name", func(c *claim.ClaimFile) { c.Name = "Eve" }, false},
		{"source", func(c *claim.ClaimFile) { c.Source = claim.SourceDPA }, false},
		{"signature", func(c *claim.ClaimFile) { c.Signature = "00" }, false},
		{"missing address", func(c *claim.ClaimFile) { c.Addresses = c.Addresses[1:] }, false},
		{"amount", func(c *claim.ClaimFile) { c.Addresses[0].Amount++ }, false},
		{"timelock", func(c *claim.ClaimFile) { c.Addresses[3].Timelock-- }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := f.claimFor(p, key)
			tt.mutate(c)
			got, err := NativeValidator{Issuer: &issuer}.CrossValidate(context.Background(), Input{Proof: p, Claim: c})
			if tt.valid {
				require.NoError(t, err)
				require.Equal(t, c, got)
				return
			}
			require.Equal(t, ErrInvalid, errors.Cause(err))
		})
	}

	t.Run("foreign issuer", func(t *testing.T) {
		other := claimtest.NewKey().PubKey()
		_, err := NativeValidator{Issuer: &other}.CrossValidate(context.Background(), Input{Proof: p, Claim: f.claimFor(p, key)})
		require.Equal(t, ErrInvalid, errors.Cause(err))
	})
}
