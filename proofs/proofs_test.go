package proofs

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/witgen/genesis"
	"github.com/rony4d/witgen/inter/claim"
	"github.com/rony4d/witgen/inter/claim/claimtest"
)

func TestUSDToNanowits(t *testing.T) {
	tests := []struct {
		source claim.Source
		usd    uint64
		want   uint64
	}{
		{claim.SourceSAFT, 0, 0},
		{claim.SourceSAFT, 1, 41028681728},
		{claim.SourceSAFT, 100, 4102725566464},
		{claim.SourceDPA, 25000, 1025680645029888},
		{claim.SourcePPA, 100, 8205451132928},
		{claim.SourcePPA, 12345, 1012962315730944},
	}
	for _, tt := range tests {
		got := USDToNanowits(tt.usd, Rate(tt.source))
		require.Equal(t, tt.want, got, "%s %d", tt.source, tt.usd)
		require.Zero(t, got%genesis.Precision)
	}
	require.Nil(t, Rate(claim.SourceTIP))
	require.Nil(t, Rate(claim.SourceFoundation))
}

func TestComputeVesting(t *testing.T) {
	require := require.New(t)

	require.Equal(claim.Vesting{Cliff: 1_209_600, InstallmentLength: 1_209_600, InstallmentWits: 100}, ComputeVesting(claim.SourceTIP, 1205))
	require.Equal(claim.Vesting{Cliff: 15_552_000, InstallmentLength: 1_296_000, InstallmentWits: 2}, ComputeVesting(claim.SourceFounder, 96))
	require.Equal(ComputeVesting(claim.SourceFounder, 96), ComputeVesting(claim.SourceStakeholder, 96))
	require.Equal(claim.Vesting{InstallmentWits: 7}, ComputeVesting(claim.SourceSAFT, 7))
	require.Equal(claim.Vesting{InstallmentWits: 7}, ComputeVesting("other", 7))
}

func writeAssignments(t *testing.T, path string, assignments ...claim.Assignment) {
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, claim.WriteAssignments(f, assignments))
}

func TestIssuer_Run(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "assignments")
	out := filepath.Join(dir, "proofs")
	require.NoError(os.Mkdir(in, 0700))

	writeAssignments(t, filepath.Join(in, "saft.csv"),
		claim.Assignment{EmailAddress: "jose@example.com", Name: "José", USD: 100, Nanowit: 1, Source: claim.SourceSAFT, Secret: "s1"},
	)
	writeAssignments(t, filepath.Join(in, "tip.csv"),
		claim.Assignment{EmailAddress: "miner@example.com", Name: "Miner", Nanowit: 1200 * genesis.NanowitsPerWit, Source: claim.SourceTIP, Secret: "s2"},
		claim.Assignment{EmailAddress: "founder@example.com", Nanowit: 48 * genesis.NanowitsPerWit, Source: claim.SourceFounder, Secret: "s3"},
	)

	key := claimtest.NewKey()
	logger, _ := test.NewNullLogger()
	rules := genesis.TestnetRules()
	is := NewIssuer(Config{AssignmentsDir: in, OutputDir: out}, rules, KeySigner{Key: key}, logger)

	stats, err := is.Run(context.Background())
	require.NoError(err)

	files, err := os.ReadDir(out)
	require.NoError(err)
	require.Len(files, 4)

	read := func(name string) *claim.ParticipantProof {
		data, err := os.ReadFile(filepath.Join(out, name))
		require.NoError(err)
		require.True(strings.HasSuffix(string(data), "}\n"))
		p, err := claim.ParseParticipantProof(data)
		require.NoError(err)
		require.True(p.Verify(key.PubKey()), name)
		return p
	}

	saft := read("saft_jose@example.com_s1_participant_proof.json")
	require.Equal(uint64(4102725566464), saft.Data.Wit)
	require.Equal(uint64(100), saft.Data.USD)
	require.Equal("José", saft.Data.Name)
	require.Equal(rules.Timestamp, saft.Data.GenesisDate)

	tip := read("tip_miner@example.com_s2_participant_proof.json")
	require.Equal(uint64(100*genesis.NanowitsPerWit), tip.Data.Vesting.InstallmentWits)

	foundation := read(FileName(claim.SourceFoundation, DefaultFoundation.EmailAddress, DefaultFoundation.Secret))
	assigned := uint64(4102725566464) + 1248*genesis.NanowitsPerWit
	require.Equal(rules.TotalNanowits()-assigned, foundation.Data.Wit)

	require.Equal(4, stats.Total.Identities)
	require.Equal(rules.TotalNanowits(), stats.Total.Wits)
	require.Equal(assigned, stats.NotForFoundation)
	require.Equal(assigned-48*genesis.NanowitsPerWit, stats.Unlocked)
	require.Equal(1, stats.BySource[claim.SourceTIP].Identities)
	require.Equal(100.0, stats.Total.OverGenesis)
	require.Equal(30.0, stats.Total.OverTotalSupply)
}

func TestIssuer_overAllocated(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	writeAssignments(t, filepath.Join(dir, "tip.csv"),
		claim.Assignment{EmailAddress: "a@example.com", Nanowit: 2 * genesis.NanowitsPerWit, Source: claim.SourceTIP, Secret: "s"},
	)

	rules := genesis.TestnetRules()
	rules.TotalWits = 1
	logger, _ := test.NewNullLogger()
	is := NewIssuer(Config{AssignmentsDir: dir, OutputDir: filepath.Join(dir, "out")}, rules, KeySigner{Key: claimtest.NewKey()}, logger)

	_, err := is.Run(context.Background())
	require.Equal(ErrOverAllocated, errors.Cause(err))
}

func TestIssuer_missingInput(t *testing.T) {
	logger, _ := test.NewNullLogger()
	is := NewIssuer(Config{AssignmentsDir: filepath.Join(t.TempDir(), "missing")}, genesis.TestnetRules(), KeySigner{Key: claimtest.NewKey()}, logger)
	_, err := is.Run(context.Background())
	require.Error(t, err)
}

func TestOpenSSLSigner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	require := require.New(t)
	dir := t.TempDir()

	script := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0700))
		return path
	}

	// A stand-in that echoes its arguments instead of a signature.
	ok := OpenSSLSigner{Binary: script("ok.sh", `cat >/dev/null; printf '%s ' "$@"`), KeyPath: "key.pem"}
	sig, err := ok.Sign(context.Background(), []byte("data"))
	require.NoError(err)
	require.Equal("dgst -sha256 -sign key.pem ", string(sig))

	fail := OpenSSLSigner{Binary: script("fail.sh", `echo "unable to load key" >&2; exit 1`), KeyPath: "key.pem"}
	_, err = fail.Sign(context.Background(), []byte("data"))
	require.Error(err)
	require.Contains(err.Error(), "unable to load key")

	silent := OpenSSLSigner{Binary: script("silent.sh", `cat >/dev/null`)}
	_, err = silent.Sign(context.Background(), []byte("data"))
	require.Error(err)
}
