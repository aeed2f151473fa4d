package tr31

import (
	"crypto/aes"
	"fmt"
	"io"
	"slices"
)

// buildPayload assembles the plaintext key payload: a big-endian bit-length
// field, the key bytes, then random padding up to a cipher block boundary.
// A maskedKeyLen above the true key length pads as if the key were that long,
// hiding the key size from the ciphertext length. Padding is never empty: an
// already aligned payload grows by one full block.
func buildPayload(key []byte, maskedKeyLen int, random io.Reader) ([]byte, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKeyLength)
	}

	effLen := len(key)
	if maskedKeyLen > effLen {
		effLen = maskedKeyLen
	}
	rawLen := 2 + len(key)
	totalLen := (2 + effLen + aes.BlockSize - 1) / aes.BlockSize * aes.BlockSize
	if totalLen == 2+effLen {
		totalLen += aes.BlockSize
	}

	keyBits := len(key) * 8
	payload := make([]byte, 0, totalLen)
	payload = append(payload, byte(keyBits>>8), byte(keyBits))
	payload = append(payload, key...)

	pad := make([]byte, totalLen-rawLen)
	if _, err := io.ReadFull(random, pad); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomSource, err)
	}

	return append(payload, pad...), nil
}

// extractKey recovers the protected key from a decrypted payload using its
// leading bit-length field.
func extractKey(payload []byte) ([]byte, error) {
	if len(payload) < 2 {
		return nil, fmt.Errorf("%w: payload too short", ErrKeyLengthMismatch)
	}
	keyBits := int(payload[0])<<8 | int(payload[1])
	if keyBits == 0 || keyBits%8 != 0 {
		return nil, fmt.Errorf("%w: key bit length %d", ErrKeyLengthMismatch, keyBits)
	}
	keyLen := keyBits / 8
	if 2+keyLen > len(payload) {
		return nil, fmt.Errorf(
			"%w: key bit length %d exceeds payload",
			ErrKeyLengthMismatch, keyBits,
		)
	}

	return slices.Clone(payload[2 : 2+keyLen]), nil
}
