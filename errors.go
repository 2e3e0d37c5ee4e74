package presencemic

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of
// these, so callers can branch with errors.Is without matching messages.
var (
	// ErrInvalidInput indicates a missing/empty required byte buffer or an
	// out-of-range length.
	ErrInvalidInput = errors.New("presencemic: invalid input")

	// ErrPrimitiveUnavailable indicates an underlying cryptographic
	// primitive could not be used.
	ErrPrimitiveUnavailable = errors.New("presencemic: primitive unavailable")

	// ErrCryptoMismatch indicates a wrong key size or IV size for the
	// configured cipher.
	ErrCryptoMismatch = errors.New("presencemic: crypto mismatch")
)

// Fine-grained sentinels, each wrapping its kind.
var (
	// ErrEmptySecret indicates the key seed is nil or empty.
	ErrEmptySecret = fmt.Errorf("%w: empty key seed", ErrInvalidInput)

	// ErrMissingArgument indicates a required argument is nil or empty.
	ErrMissingArgument = fmt.Errorf("%w: missing required argument", ErrInvalidInput)

	// ErrDerivedKeyLength indicates a requested derived-key length outside
	// the HKDF-SHA256 bound of 255*32 bytes.
	ErrDerivedKeyLength = fmt.Errorf("%w: derived key length out of range", ErrInvalidInput)

	// ErrInvalidIVSize indicates the IV does not match the AES block size.
	ErrInvalidIVSize = fmt.Errorf("%w: iv must be 16 bytes", ErrCryptoMismatch)
)
