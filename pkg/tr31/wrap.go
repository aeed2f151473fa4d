package tr31

import (
	"crypto/aes"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/aead/cmac"

	"github.com/andrei-cloud/go_paykit/pkg/cryptoutils"
)

const (
	// macLen is the version D MAC length in bytes.
	macLen = 16

	// minKeyBlockLen is the shortest valid serialized block: a bare header,
	// one hex-expanded ciphertext block and the hex-expanded MAC.
	minKeyBlockLen = headerFixedLen + 2*aes.BlockSize + 2*macLen
)

// zeroIV is the CBC initialization vector fixed by TR-31 version D.
var zeroIV = make([]byte, aes.BlockSize)

// WrapOption adjusts optional Wrap behavior.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	random       io.Reader
	maskedKeyLen int
}

// WithRandom sets the source of payload padding bytes. Wrap defaults to
// crypto/rand; deterministic tests inject fixed readers.
func WithRandom(r io.Reader) WrapOption {
	return func(c *wrapConfig) { c.random = r }
}

// WithMaskedKeyLength pads the payload as if the protected key were n bytes
// long, hiding its true length from the ciphertext size.
func WithMaskedKeyLength(n int) WrapOption {
	return func(c *wrapConfig) { c.maskedKeyLen = n }
}

// Wrap protects key under kbpk and returns the serialized key block: the
// ASCII header followed by hex-encoded ciphertext and MAC. The header is
// finalized and its length field set, so after a successful Wrap the header
// serializes to the block's prefix.
func Wrap(header *Header, key, kbpk []byte, opts ...WrapOption) (string, error) {
	cfg := wrapConfig{random: rand.Reader}
	for _, opt := range opts {
		opt(&cfg)
	}

	if header == nil {
		return "", fmt.Errorf("%w: nil header", ErrInvalidHeader)
	}
	if header.Version != VersionD {
		return "", fmt.Errorf(
			"%w: only version D wraps, got %q",
			ErrInvalidHeader, string(header.Version),
		)
	}
	if err := header.validate(); err != nil {
		return "", err
	}
	if err := header.Finalize(); err != nil {
		return "", err
	}

	payload, err := buildPayload(key, cfg.maskedKeyLen, cfg.random)
	if err != nil {
		return "", err
	}

	kbek, kbak, err := DeriveKeys(kbpk)
	if err != nil {
		return "", err
	}

	ciphertext, err := cryptoutils.EncryptAESCBC(kbek, zeroIV, payload)
	if err != nil {
		return "", fmt.Errorf("payload encryption failed: %w", err)
	}

	totalLen := header.Len() + 2*len(ciphertext) + 2*macLen
	if totalLen > maxKeyBlockLen {
		return "", fmt.Errorf("%w: %d exceeds %d", ErrLengthOverflow, totalLen, maxKeyBlockLen)
	}
	header.keyBlockLen = totalLen
	headerStr := header.String()

	block, err := aes.NewCipher(kbak)
	if err != nil {
		return "", fmt.Errorf("aes cipher init failed: %w", err)
	}
	macInput := make([]byte, 0, len(headerStr)+len(ciphertext))
	macInput = append(macInput, headerStr...)
	macInput = append(macInput, ciphertext...)
	mac, err := cmac.Sum(macInput, block, macLen)
	if err != nil {
		return "", fmt.Errorf("cmac computation failed: %w", err)
	}

	return headerStr + cryptoutils.Raw2Str(ciphertext) + cryptoutils.Raw2Str(mac), nil
}
