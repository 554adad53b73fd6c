// Public key tests cover parsing, hex round trips and the text marshalling
// used when keys are embedded in claim JSON.
package claimpk

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

// A valid compressed key: the generator point G of secp256k1.
const generatorHex = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"

// TestFromString verifies hex parsing with and without the 0x prefix and the
// rejection of malformed input.
func TestFromString(t *testing.T) {
	require := require.New(t)

	exp := PubKey{Raw: common.FromHex(generatorHex)}

	// Case 1: bare hex.
	{
		got, err := FromString(generatorHex)
		require.NoError(err)
		require.Equal(exp, got)
	}

	// Case 2: 0x prefix.
	{
		got, err := FromString("0x" + generatorHex)
		require.NoError(err)
		require.Equal(exp, got)
	}

	// Case 3: empty input.
	{
		_, err := FromString("")
		require.Error(err)
		_, err = FromString("0x")
		require.ErrorIs(err, ErrEmptyPubKey)
	}

	// Case 4: invalid characters and odd length.
	{
		_, err := FromString("-")
		require.Error(err)
		_, err = FromString(generatorHex[:65])
		require.Error(err)
	}

	// Case 5: right length, not a point on the curve.
	{
		_, err := FromString("05" + generatorHex[2:])
		require.Error(err)
	}

	// Case 6: uncompressed keys are not accepted in claims.
	{
		_, err := FromBytes(make([]byte, 65))
		require.ErrorIs(err, ErrPubKeySize)
	}
}

func TestString(t *testing.T) {
	require := require.New(t)
	pk, err := FromString(generatorHex)
	require.NoError(err)
	require.Equal(generatorHex, pk.String())
	require.Len(pk.String(), CompressedHexSize)
}

func TestEmpty(t *testing.T) {
	require := require.New(t)
	require.True(PubKey{}.Empty(), "Zero value PubKey should be empty")
	require.False(PubKey{Raw: []byte{0x02}}.Empty(), "Populated PubKey should not be empty")
}

// TestCopy verifies that Copy does not share the Raw slice.
func TestCopy(t *testing.T) {
	require := require.New(t)

	original := PubKey{Raw: []byte{0xAA, 0xBB}}
	copyPk := original.Copy()
	require.Equal(original, copyPk)

	copyPk.Raw[0] = 0xFF
	require.Equal(uint8(0xAA), original.Raw[0], "Original PubKey was modified by copy")
	require.NotEqual(original, copyPk)
}

// TestMarshalUnmarshal verifies JSON encoding via MarshalText/UnmarshalText.
func TestMarshalUnmarshal(t *testing.T) {
	require := require.New(t)

	original, err := FromString(generatorHex)
	require.NoError(err)

	data, err := json.Marshal(&original)
	require.NoError(err)
	require.Equal(`"`+generatorHex+`"`, string(data))

	var decoded PubKey
	require.NoError(json.Unmarshal(data, &decoded))
	require.Equal(original, decoded)

	require.Error(json.Unmarshal([]byte(`"zz"`), &decoded))
}
