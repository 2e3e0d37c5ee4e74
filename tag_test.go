package presencemic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testMetadataKey() []byte {
	key := make([]byte, 14)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestGenerateMetadataKeyTag_Deterministic(t *testing.T) {
	tag1, err := GenerateMetadataKeyTag(testMetadataKey(), testSeed())
	require.NoError(t, err)
	require.Len(t, tag1, 32)

	tag2, err := GenerateMetadataKeyTag(testMetadataKey(), testSeed())
	require.NoError(t, err)

	// The discovery layer matches stored tags against received ones, so the
	// tag must be stable across calls and devices.
	require.Equal(t, tag1, tag2)
}

func TestGenerateMetadataKeyTag_KnownVector(t *testing.T) {
	tag, err := GenerateMetadataKeyTag(testMetadataKey(), testSeed())
	require.NoError(t, err)
	require.Equal(t,
		mustHex(t, "22d7a0f26aaf27af1119dc55873d4c8ccc3d2b1737434a8a9e59a822f33036fa"),
		tag)
}

func TestGenerateMetadataKeyTag_DistinctPerSeed(t *testing.T) {
	tag1, err := GenerateMetadataKeyTag(testMetadataKey(), testSeed())
	require.NoError(t, err)

	seed2 := testSeed()
	seed2[7] ^= 0x01
	tag2, err := GenerateMetadataKeyTag(testMetadataKey(), seed2)
	require.NoError(t, err)

	require.NotEqual(t, tag1, tag2)
}

func TestGenerateMetadataKeyTag_DistinctFromMICKeyHMAC(t *testing.T) {
	// The metadata-key HMAC key and the MIC HMAC key are domain-separated;
	// tagging and signing the same bytes must not coincide.
	tag, err := GenerateMetadataKeyTag(testMetadataKey(), testSeed())
	require.NoError(t, err)

	mic, err := NewMICCryptor().Sign(testMetadataKey(), testSeed())
	require.NoError(t, err)

	require.NotEqual(t, tag[:MICLength], mic)
}

func TestGenerateMetadataKeyTag_MissingArguments(t *testing.T) {
	_, err := GenerateMetadataKeyTag(nil, testSeed())
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = GenerateMetadataKeyTag([]byte{}, testSeed())
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = GenerateMetadataKeyTag(testMetadataKey(), nil)
	require.ErrorIs(t, err, ErrEmptySecret)
}
