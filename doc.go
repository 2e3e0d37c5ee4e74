// Package presencemic implements the MIC (Message Integrity Code) cryptor
// for V1 proximity-presence advertisements: deterministic per-purpose key
// derivation from a shared key seed, AES-CTR encryption of an advertisement's
// protected section, a truncated HMAC integrity tag over that section, and
// derivation of the nonces that key those operations from small advertisement
// salts.
//
// Two devices that hold the same key seed derive byte-identical keys and
// nonces without ever exchanging key material. Everything in this package is
// a pure function of its inputs: no randomness, no caching, no persisted
// state. Key seeds are borrowed for the duration of a single call and never
// retained.
//
// # Key Derivation
//
// All keys are derived with HKDF-SHA256 (RFC 5869) from the key seed, a fixed
// protocol salt, and a per-purpose info string:
//
//   - AES key (16 bytes):               "Unsigned Section AES key"
//   - metadata-key HMAC key (32 bytes): "Unsigned Section metadata key HMAC key"
//   - MIC HMAC key (32 bytes):          "Unsigned Section HMAC key"
//
// The distinct info strings domain-separate the keys, so leaking one derived
// key does not help derive another.
//
// # Basic Usage
//
//	cryptor := presencemic.NewMICCryptor()
//
//	iv, err := presencemic.DeriveSaltNonce(salt) // salt from the advertisement header
//	if err != nil {
//	    return err
//	}
//
//	ciphertext, err := cryptor.Encrypt(section, iv, keySeed)
//	if err != nil {
//	    return err
//	}
//
//	tag, err := cryptor.Sign(header, keySeed)
//	if err != nil {
//	    return err
//	}
//	// Append tag (16 bytes) to the advertisement.
//
// A receiver holding the same keySeed runs Verify and Decrypt with the same
// derivations and accepts the frame only if both succeed.
//
// # Identity Tags
//
// GenerateMetadataKeyTag computes an HMAC of a broadcaster's metadata
// encryption key under a separately derived HMAC key. A discovery layer
// compares tags to recognize a known identity without the identity key ever
// appearing on the air.
//
// # Errors
//
// Failures never surface as panics. Every error wraps one of three kinds,
// matched with errors.Is:
//
//   - ErrInvalidInput: a required argument is nil/empty or a length is out of range
//   - ErrPrimitiveUnavailable: an underlying primitive could not be used
//   - ErrCryptoMismatch: wrong key or IV size for the cipher
//
// Callers treat any failure uniformly as "this frame cannot be processed";
// no partial plaintext or ciphertext is ever returned.
//
// # Concurrency
//
// MICCryptor is an immutable zero-size value. Every call constructs its own
// cipher and HMAC state, so one cryptor may serve any number of goroutines.
package presencemic
