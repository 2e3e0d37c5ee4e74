package presencemic

const (
	// SaltNonceLength is the length of the IV derived from the 2-byte Salt
	// data element.
	SaltNonceLength = 16

	// EncryptionNonceLength is the length of the nonce derived for a
	// protected data element from the Encryption Info data element.
	EncryptionNonceLength = 12

	// deIndexBytes is the width of the big-endian data element index
	// appended to the nonce info string.
	deIndexBytes = 4
)

// DeriveSaltNonce derives the 16-byte advertisement IV from the 2-byte Salt
// data element. The same salt always yields the same IV.
func DeriveSaltNonce(salt []byte) ([]byte, error) {
	return deriveKey(salt, hkdfSalt, infoSaltNonce, SaltNonceLength)
}

// DeriveEncryptionNonce derives the 12-byte nonce for the protected data
// element at deIndex, using the 2-byte Salt data element.
//
// Indices are encoded as big-endian unsigned 32-bit integers starting at 1;
// index 0 is reserved. Only the low byte of deIndex is significant, so
// callers must constrain it to 1-255. Distinct indices under the same salt
// yield distinct nonces, which keeps several protected data elements sharing
// one salt from reusing a nonce.
func DeriveEncryptionNonce(salt []byte, deIndex int) ([]byte, error) {
	index := make([]byte, deIndexBytes)
	index[deIndexBytes-1] = byte(deIndex)

	info := make([]byte, 0, len(infoEncryptionNoncePrefix)+deIndexBytes)
	info = append(info, infoEncryptionNoncePrefix...)
	info = append(info, index...)

	return deriveKey(salt, hkdfSalt, info, EncryptionNonceLength)
}
