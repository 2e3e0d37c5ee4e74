package presencemic

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func testSeed() []byte {
	return bytes.Repeat([]byte{0x01}, 32)
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestDeriveKey_Deterministic(t *testing.T) {
	out1, err := deriveKey(testSeed(), hkdfSalt, infoAESKey, aesKeySize)
	require.NoError(t, err)

	out2, err := deriveKey(testSeed(), hkdfSalt, infoAESKey, aesKeySize)
	require.NoError(t, err)

	// Same inputs must produce the same key across independent calls.
	require.Equal(t, out1, out2)
}

func TestDeriveKey_DifferentInfoProducesDifferentKeys(t *testing.T) {
	out1, err := deriveKey(testSeed(), hkdfSalt, infoMICHMAC, hmacKeySize)
	require.NoError(t, err)

	out2, err := deriveKey(testSeed(), hkdfSalt, infoMetadataKeyHMAC, hmacKeySize)
	require.NoError(t, err)

	require.False(t, bytes.Equal(out1, out2),
		"different info strings should produce different keys")
}

func TestDeriveKey_DifferentSeedsProduceDifferentKeys(t *testing.T) {
	seed2 := testSeed()
	seed2[31] ^= 0x01

	out1, err := deriveKey(testSeed(), hkdfSalt, infoAESKey, aesKeySize)
	require.NoError(t, err)

	out2, err := deriveKey(seed2, hkdfSalt, infoAESKey, aesKeySize)
	require.NoError(t, err)

	require.False(t, bytes.Equal(out1, out2))
}

func TestDeriveKey_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		secret []byte
		length int
		want   error
	}{
		{"nil secret", nil, aesKeySize, ErrEmptySecret},
		{"empty secret", []byte{}, aesKeySize, ErrEmptySecret},
		{"zero length", testSeed(), 0, ErrDerivedKeyLength},
		{"negative length", testSeed(), -1, ErrDerivedKeyLength},
		{"over hkdf bound", testSeed(), maxDerivedKeyLength + 1, ErrDerivedKeyLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := deriveKey(tt.secret, hkdfSalt, infoAESKey, tt.length)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDeriveKey_MaxLength(t *testing.T) {
	out, err := deriveKey(testSeed(), hkdfSalt, infoAESKey, maxDerivedKeyLength)
	require.NoError(t, err)
	require.Len(t, out, maxDerivedKeyLength)
}

func TestKeySpecializations_Lengths(t *testing.T) {
	aesKey, err := deriveAESKey(testSeed())
	require.NoError(t, err)
	require.Len(t, aesKey, 16)

	micKey, err := deriveMICHMACKey(testSeed())
	require.NoError(t, err)
	require.Len(t, micKey, 32)

	metadataKey, err := deriveMetadataKeyHMACKey(testSeed())
	require.NoError(t, err)
	require.Len(t, metadataKey, 32)
}

// TestKeySpecializations_KnownVectors pins the derivations to values computed
// with an independent RFC 5869 HKDF-SHA256 implementation. If these change,
// derived keys no longer interoperate with peer devices.
func TestKeySpecializations_KnownVectors(t *testing.T) {
	aesKey, err := deriveAESKey(testSeed())
	require.NoError(t, err)
	require.Equal(t, mustHex(t, "ac0e4bcbe9f2e0dd4f9c1ddd998643a9"), aesKey)

	micKey, err := deriveMICHMACKey(testSeed())
	require.NoError(t, err)
	require.Equal(t,
		mustHex(t, "8dab24a75f273a3a65c6e628780fa9c858b4b6835a55369798d1a05edf05e522"),
		micKey)

	metadataKey, err := deriveMetadataKeyHMACKey(testSeed())
	require.NoError(t, err)
	require.Equal(t,
		mustHex(t, "80bbba4576cec3427377b3c8600242f7b9ca5d16335c68c21bbe699582c394db"),
		metadataKey)
}

// referenceHKDF is a from-scratch RFC 5869 extract-and-expand used to
// cross-check deriveKey against the x/crypto implementation.
func referenceHKDF(ikm, salt, info []byte, length int) []byte {
	extract := hmac.New(sha256.New, salt)
	extract.Write(ikm)
	prk := extract.Sum(nil)

	var okm, block []byte
	for i := byte(1); len(okm) < length; i++ {
		expand := hmac.New(sha256.New, prk)
		expand.Write(block)
		expand.Write(info)
		expand.Write([]byte{i})
		block = expand.Sum(nil)
		okm = append(okm, block...)
	}
	return okm[:length]
}

func TestDeriveKey_MatchesReferenceHKDF(t *testing.T) {
	tests := []struct {
		name   string
		info   []byte
		length int
	}{
		{"aes key", infoAESKey, aesKeySize},
		{"mic hmac key", infoMICHMAC, hmacKeySize},
		{"metadata key hmac key", infoMetadataKeyHMAC, hmacKeySize},
		{"salt nonce", infoSaltNonce, SaltNonceLength},
		{"multi-block output", infoAESKey, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := deriveKey(testSeed(), hkdfSalt, tt.info, tt.length)
			require.NoError(t, err)
			require.Equal(t, referenceHKDF(testSeed(), hkdfSalt, tt.info, tt.length), got)
		})
	}
}
