package presencemic

import (
	"crypto/hmac"
	"crypto/sha256"
)

// GenerateMetadataKeyTag computes the HMAC-SHA256 tag of a broadcaster's
// metadata encryption key under the metadata-key HMAC key derived from
// keySeed.
//
// The tag is deterministic: same metadata key + same seed = same tag. A
// discovery layer matches tags against its stored credentials to recognize a
// broadcaster's identity without the metadata key itself being revealed.
func GenerateMetadataKeyTag(metadataKey, keySeed []byte) ([]byte, error) {
	if len(metadataKey) == 0 {
		return nil, ErrMissingArgument
	}
	metadataKeyHMACKey, err := deriveMetadataKeyHMACKey(keySeed)
	if err != nil {
		return nil, err
	}
	return computeHMAC(metadataKeyHMACKey, metadataKey), nil
}

// computeHMAC computes HMAC-SHA256 of data with the given key.
func computeHMAC(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
