package tr31

import (
	"crypto/aes"
	"fmt"

	"github.com/aead/cmac"
)

// Derivation input constants for the version D key derivation binding method.
const (
	derivationUsageEnc uint16 = 0x0000
	derivationUsageMAC uint16 = 0x0001

	derivationAES128 uint16 = 0x0002
	derivationAES192 uint16 = 0x0003
	derivationAES256 uint16 = 0x0004
)

// DeriveKeys derives the key block encryption key and the key block
// authentication key from the KBPK using the TR-31 AES-CMAC counter-mode
// KDF. Both derived keys have the byte length of the KBPK.
func DeriveKeys(kbpk []byte) (kbek, kbak []byte, err error) {
	var algID uint16
	switch len(kbpk) {
	case 16:
		algID = derivationAES128
	case 24:
		algID = derivationAES192
	case 32:
		algID = derivationAES256
	default:
		return nil, nil, fmt.Errorf(
			"%w: kbpk must be 16, 24 or 32 bytes, got %d",
			ErrInvalidKeyLength, len(kbpk),
		)
	}

	block, err := aes.NewCipher(kbpk)
	if err != nil {
		return nil, nil, fmt.Errorf("aes cipher init failed: %w", err)
	}

	keyBits := uint16(len(kbpk) * 8)
	iters := (len(kbpk) + aes.BlockSize - 1) / aes.BlockSize

	derive := func(usage uint16) ([]byte, error) {
		out := make([]byte, 0, iters*aes.BlockSize)
		for cnt := 1; cnt <= iters; cnt++ {
			// 8-byte derivation input: counter, usage, separator, algorithm,
			// key length in bits.
			in := []byte{
				byte(cnt),
				byte(usage >> 8), byte(usage),
				0x00,
				byte(algID >> 8), byte(algID),
				byte(keyBits >> 8), byte(keyBits),
			}
			tag, err := cmac.Sum(in, block, aes.BlockSize)
			if err != nil {
				return nil, fmt.Errorf("cmac derivation failed: %w", err)
			}
			out = append(out, tag...)
		}

		return out[:len(kbpk)], nil
	}

	kbek, err = derive(derivationUsageEnc)
	if err != nil {
		return nil, nil, err
	}
	kbak, err = derive(derivationUsageMAC)
	if err != nil {
		return nil, nil, err
	}

	return kbek, kbak, nil
}
