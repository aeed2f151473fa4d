package tr31

import (
	"crypto/aes"
	"fmt"

	"github.com/aead/cmac"
)

// checkValueLen is the X9.24 CMAC key check value length in bytes.
const checkValueLen = 5

// CheckValue computes the AES-CMAC key check value: the CMAC of one zero
// block under key, truncated to 5 bytes.
func CheckValue(key []byte) ([]byte, error) {
	return CheckValueN(key, checkValueLen)
}

// CheckValueN computes the check value truncated to n bytes, 1 through 16.
func CheckValueN(key []byte, n int) ([]byte, error) {
	if n < 1 || n > aes.BlockSize {
		return nil, fmt.Errorf("check value length %d out of range", n)
	}
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf(
			"%w: key must be 16, 24 or 32 bytes, got %d",
			ErrInvalidKeyLength, len(key),
		)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes cipher init failed: %w", err)
	}
	tag, err := cmac.Sum(make([]byte, aes.BlockSize), block, aes.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("cmac computation failed: %w", err)
	}

	return tag[:n], nil
}
