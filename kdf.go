package presencemic

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// hkdfSalt is the fixed protocol salt for every HKDF derivation in this
// package. It is shared across purposes; the info strings below provide the
// domain separation.
var hkdfSalt = []byte("Google Nearby")

// Info strings for HKDF derivation - distinct strings ensure separate keys.
var (
	infoAESKey                = []byte("Unsigned Section AES key")
	infoMetadataKeyHMAC       = []byte("Unsigned Section metadata key HMAC key")
	infoMICHMAC               = []byte("Unsigned Section HMAC key")
	infoSaltNonce             = []byte("Unsigned Section IV")
	infoEncryptionNoncePrefix = []byte("V1 derived salt")
)

const (
	aesKeySize  = 16
	hmacKeySize = 32

	// maxDerivedKeyLength is the RFC 5869 bound of 255 hash blocks.
	maxDerivedKeyLength = 255 * sha256.Size
)

// deriveKey performs HKDF-SHA256 extract-and-expand (RFC 5869) over the
// secret with the given salt and info, producing length bytes. The output is
// deterministic: identical inputs always yield identical bytes.
func deriveKey(secret, salt, info []byte, length int) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if length <= 0 || length > maxDerivedKeyLength {
		return nil, ErrDerivedKeyLength
	}

	out := make([]byte, length)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, info), out); err != nil {
		// Unreachable for in-bound lengths, kept so an HKDF fault can
		// never escape as anything but a typed error.
		return nil, fmt.Errorf("%w: hkdf: %v", ErrPrimitiveUnavailable, err)
	}
	return out, nil
}

// deriveAESKey derives the 16-byte AES key for the protected section.
// Any two parties holding the same keySeed derive byte-identical keys.
func deriveAESKey(keySeed []byte) ([]byte, error) {
	return deriveKey(keySeed, hkdfSalt, infoAESKey, aesKeySize)
}

// deriveMetadataKeyHMACKey derives the 32-byte HMAC key used to tag
// metadata encryption keys.
func deriveMetadataKeyHMACKey(keySeed []byte) ([]byte, error) {
	return deriveKey(keySeed, hkdfSalt, infoMetadataKeyHMAC, hmacKeySize)
}

// deriveMICHMACKey derives the 32-byte HMAC key for the MIC tag.
func deriveMICHMACKey(keySeed []byte) ([]byte, error) {
	return deriveKey(keySeed, hkdfSalt, infoMICHMAC, hmacKeySize)
}
