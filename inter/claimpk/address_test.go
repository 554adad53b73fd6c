package claimpk

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestDeriveAddress_fixedVectors(t *testing.T) {
	require := require.New(t)

	got, err := DeriveAddressHex(vectorPubHex, "twit")
	require.NoError(err)
	require.Equal(vectorTestnetAddr, got)
	require.Len(got, 43)
	require.Equal(43, AddressLength("twit"))

	got, err = DeriveAddressHex(vectorPubHex, "wit")
	require.NoError(err)
	require.Equal(vectorMainnetAddr, got)
	require.Len(got, AddressLength("wit"))

	got, err = DeriveAddressHex(generatorHex, "twit")
	require.NoError(err)
	require.Equal(generatorTestnetAdr, got)
}

// TestDeriveAddress_deterministic derives the same key twice and through the
// PubKey wrapper.
func TestDeriveAddress_deterministic(t *testing.T) {
	require := require.New(t)
	key, err := GenerateKey()
	require.NoError(err)

	a, err := DeriveAddress(key.PubKey().Bytes(), "twit")
	require.NoError(err)
	b, err := DeriveAddress(key.PubKey().Bytes(), "twit")
	require.NoError(err)
	require.Equal(a, b)

	c, err := key.PubKey().Address("twit")
	require.NoError(err)
	require.Equal(a, c)
}

func TestDecodeAddress(t *testing.T) {
	require := require.New(t)

	prefix, pkh, err := DecodeAddress(vectorTestnetAddr)
	require.NoError(err)
	require.Equal("twit", prefix)
	require.Equal(PubKeyHash(common.FromHex(vectorPubHex)), pkh)

	// Corrupt the checksum.
	_, _, err = DecodeAddress(vectorTestnetAddr[:42] + "q")
	require.Error(err)
}

func TestDeriveAddressHex_propagatesDecodingErrors(t *testing.T) {
	_, err := DeriveAddressHex("not-hex", "twit")
	require.Error(t, err)
}
