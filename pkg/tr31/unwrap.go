package tr31

import (
	"crypto/aes"
	"encoding/hex"
	"fmt"

	"github.com/aead/cmac"

	"github.com/andrei-cloud/go_paykit/pkg/cryptoutils"
)

// Unwrap authenticates and decrypts a serialized key block under kbpk and
// returns the protected key with the parsed header. The MAC over header and
// ciphertext is verified in constant time before anything is decrypted.
func Unwrap(keyBlock string, kbpk []byte) ([]byte, *Header, error) {
	header, err := ParseHeader(keyBlock)
	if err != nil {
		return nil, nil, err
	}
	if header.KeyBlockLength() != len(keyBlock) {
		return nil, nil, fmt.Errorf(
			"%w: declared %d, actual %d",
			ErrLengthMismatch, header.KeyBlockLength(), len(keyBlock),
		)
	}
	if len(keyBlock) < minKeyBlockLen {
		return nil, nil, fmt.Errorf(
			"%w: %d chars, need at least %d",
			ErrMalformedKeyBlock, len(keyBlock), minKeyBlockLen,
		)
	}
	if header.Version != VersionD {
		return nil, nil, fmt.Errorf(
			"%w: only version D is supported, got %q",
			ErrInvalidHeader, string(header.Version),
		)
	}

	headerLen := header.Len()
	if headerLen+2*macLen >= len(keyBlock) {
		return nil, nil, fmt.Errorf(
			"%w: header leaves no room for ciphertext",
			ErrMalformedKeyBlock,
		)
	}
	cipherHex := keyBlock[headerLen : len(keyBlock)-2*macLen]
	macHex := keyBlock[len(keyBlock)-2*macLen:]

	ciphertext, err := hex.DecodeString(cipherHex)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: ciphertext is not hex", ErrMalformedKeyBlock)
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, nil, fmt.Errorf(
			"%w: ciphertext length %d is not a block multiple",
			ErrMalformedKeyBlock, len(ciphertext),
		)
	}
	wantMAC, err := hex.DecodeString(macHex)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: mac is not hex", ErrMalformedKeyBlock)
	}

	kbek, kbak, err := DeriveKeys(kbpk)
	if err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(kbak)
	if err != nil {
		return nil, nil, fmt.Errorf("aes cipher init failed: %w", err)
	}
	macInput := make([]byte, 0, headerLen+len(ciphertext))
	macInput = append(macInput, keyBlock[:headerLen]...)
	macInput = append(macInput, ciphertext...)
	if !cmac.Verify(wantMAC, macInput, block, macLen) {
		return nil, nil, ErrAuthenticationFailed
	}

	payload, err := cryptoutils.DecryptAESCBC(kbek, zeroIV, ciphertext)
	if err != nil {
		return nil, nil, fmt.Errorf("payload decryption failed: %w", err)
	}

	key, err := extractKey(payload)
	if err != nil {
		return nil, nil, err
	}

	return key, header, nil
}
