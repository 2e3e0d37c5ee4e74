package presencemic

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// MICLength is the length of the truncated HMAC tag appended to a protected
// section.
const MICLength = 16

// Cryptor is the capability surface the advertisement assembly and parsing
// layers use. Implementations are stateless values; a single Cryptor may be
// shared by reference across goroutines.
type Cryptor interface {
	// Encrypt encrypts plaintext with a key derived from keySeed and the
	// caller-supplied iv.
	Encrypt(plaintext, iv, keySeed []byte) ([]byte, error)

	// Decrypt reverses Encrypt under the same iv and keySeed.
	Decrypt(ciphertext, iv, keySeed []byte) ([]byte, error)

	// Sign computes the integrity tag over data.
	Sign(data, keySeed []byte) ([]byte, error)

	// Verify reports whether signature is the tag Sign would produce for
	// data under keySeed.
	Verify(data, keySeed, signature []byte) bool

	// SignatureLength returns the tag length Sign produces.
	SignatureLength() int
}

// MICCryptor implements Cryptor for MIC-tagged V1 advertisements:
// AES-128-CTR for the protected section and a 16-byte truncated HMAC-SHA256
// tag. The zero value is ready to use.
type MICCryptor struct{}

var _ Cryptor = MICCryptor{}

// NewMICCryptor returns the MIC cryptor. The value is immutable and
// zero-size; construct it once and share it with every caller.
func NewMICCryptor() MICCryptor {
	return MICCryptor{}
}

// Encrypt encrypts plaintext with AES-128-CTR under the AES key derived from
// keySeed and the caller-supplied 16-byte iv. The ciphertext has the same
// length as the plaintext. On any failure no partial output is returned.
func (MICCryptor) Encrypt(plaintext, iv, keySeed []byte) ([]byte, error) {
	if len(plaintext) == 0 || len(iv) == 0 || len(keySeed) == 0 {
		return nil, ErrMissingArgument
	}
	stream, err := newCTRStream(iv, keySeed)
	if err != nil {
		return nil, err
	}

	ciphertext := make([]byte, len(plaintext))
	stream.XORKeyStream(ciphertext, plaintext)
	return ciphertext, nil
}

// Decrypt decrypts ciphertext produced by Encrypt under the same iv and
// keySeed. On any failure no partial output is returned.
func (MICCryptor) Decrypt(ciphertext, iv, keySeed []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(iv) == 0 || len(keySeed) == 0 {
		return nil, ErrMissingArgument
	}
	stream, err := newCTRStream(iv, keySeed)
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(ciphertext))
	stream.XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}

// Sign computes the 16-byte MIC tag: HMAC-SHA256 over data under the MIC
// HMAC key derived from keySeed, truncated to its first 16 bytes. A receiver
// verifies it against the trailing bytes of the protected section.
func (MICCryptor) Sign(data, keySeed []byte) ([]byte, error) {
	if len(data) == 0 || len(keySeed) == 0 {
		return nil, ErrMissingArgument
	}
	micHMACKey, err := deriveMICHMACKey(keySeed)
	if err != nil {
		return nil, err
	}
	return computeHMAC(micHMACKey, data)[:MICLength], nil
}

// Verify recomputes the tag for data under keySeed and compares it to
// signature byte for byte. Any failure to compute the tag verifies as false.
func (c MICCryptor) Verify(data, keySeed, signature []byte) bool {
	tag, err := c.Sign(data, keySeed)
	if err != nil {
		return false
	}
	return bytes.Equal(tag, signature)
}

// SignatureLength returns MICLength.
func (MICCryptor) SignatureLength() int {
	return MICLength
}

// newCTRStream derives the AES key from keySeed and builds a CTR stream over
// the caller-supplied iv.
func newCTRStream(iv, keySeed []byte) (cipher.Stream, error) {
	aesKey, err := deriveAESKey(keySeed)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoMismatch, err)
	}
	if len(iv) != block.BlockSize() {
		return nil, ErrInvalidIVSize
	}
	return cipher.NewCTR(block, iv), nil
}
