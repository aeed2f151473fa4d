package tr31

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// counterReader yields 0x00, 0x01, 0x02, ... so padding is reproducible.
type counterReader struct{ next byte }

func (c *counterReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = c.next
		c.next++
	}

	return len(p), nil
}

func testHeader(t *testing.T, usage string) *Header {
	t.Helper()
	h, err := NewHeader(usage, "A", "E", "00", "N")
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}

	return h
}

func TestWrapUnwrapRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		kbpk    []byte
		key     []byte
		ksBlock bool
	}{
		{
			name: "aes128 kbpk aes128 key",
			kbpk: mustHex(t, "00112233445566778899AABBCCDDEEFF"),
			key:  mustHex(t, "0123456789ABCDEFFEDCBA9876543210"),
		},
		{
			name: "aes192 kbpk aes256 key",
			kbpk: mustHex(t, "00112233445566778899AABBCCDDEEFF0011223344556677"),
			key: mustHex(t,
				"000102030405060708090A0B0C0D0E0F101112131415161718191A1B1C1D1E1F"),
		},
		{
			name: "aes256 kbpk short key",
			kbpk: mustHex(t,
				"88E1AB2A2E3DD38C1FA039A536500CC8A87AB9D62DC92C01058FA79F44657DE6"),
			key: mustHex(t, "AABBCCDDEEFFAABB"),
		},
		{
			name: "odd length key",
			kbpk: mustHex(t, "00112233445566778899AABBCCDDEEFF"),
			key:  mustHex(t, "0102030405060708090A"),
		},
		{
			name:    "with optional block",
			kbpk:    mustHex(t, "00112233445566778899AABBCCDDEEFF"),
			key:     mustHex(t, "0123456789ABCDEFFEDCBA9876543210"),
			ksBlock: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := testHeader(t, "D0")
			if tt.ksBlock {
				if err := h.AddOptionalBlock("KS", "00604B120F9292800000"); err != nil {
					t.Fatalf("AddOptionalBlock: %v", err)
				}
			}

			block, err := Wrap(h, tt.key, tt.kbpk, WithRandom(&counterReader{}))
			if err != nil {
				t.Fatalf("Wrap: %v", err)
			}
			if len(block) != h.KeyBlockLength() {
				t.Errorf("block length %d, header declares %d", len(block), h.KeyBlockLength())
			}
			if tail := block[headerFixedLen:]; tail != strings.ToUpper(tail) {
				t.Errorf("block is not uppercase hex after the fixed header")
			}

			key, parsed, err := Unwrap(block, tt.kbpk)
			if err != nil {
				t.Fatalf("Unwrap: %v", err)
			}
			if !bytes.Equal(key, tt.key) {
				t.Errorf("key = %X, want %X", key, tt.key)
			}
			if parsed.KeyUsage != "D0" || parsed.Version != VersionD {
				t.Errorf("parsed header = %+v", parsed)
			}
			if tt.ksBlock {
				blocks := parsed.OptionalBlocks()
				if len(blocks) < 1 || blocks[0].ID != "KS" {
					t.Errorf("optional blocks = %v", blocks)
				}
			}
		})
	}
}

func TestWrapDeterministic(t *testing.T) {
	t.Parallel()
	kbpk := mustHex(t, "00112233445566778899AABBCCDDEEFF")
	key := mustHex(t, "0123456789ABCDEFFEDCBA9876543210")

	first, err := Wrap(testHeader(t, "D0"), key, kbpk, WithRandom(&counterReader{}))
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	second, err := Wrap(testHeader(t, "D0"), key, kbpk, WithRandom(&counterReader{}))
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if first != second {
		t.Errorf("same inputs, different blocks:\n%s\n%s", first, second)
	}

	other, err := Wrap(testHeader(t, "D0"), key, kbpk, WithRandom(&counterReader{next: 0x80}))
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if first == other {
		t.Errorf("different padding produced the same block")
	}
}

func TestWrapZeroKBPKExample(t *testing.T) {
	t.Parallel()
	kbpk := make([]byte, 16)
	key := bytes.Repeat([]byte{0x11}, 16)

	block, err := Wrap(testHeader(t, "D0"), key, kbpk, WithRandom(&counterReader{}))
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if len(block) != 112 {
		t.Errorf("block length = %d, want 112", len(block))
	}
	if !strings.HasPrefix(block, "D0112D0AE00N0000") {
		t.Errorf("block prefix = %q", block[:headerFixedLen])
	}

	key2, parsed, err := Unwrap(block, kbpk)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if !bytes.Equal(key2, key) {
		t.Errorf("key = %X, want %X", key2, key)
	}
	if parsed.KeyBlockLength() != 112 {
		t.Errorf("parsed length = %d", parsed.KeyBlockLength())
	}
}

func TestWrapMaskedKeyLength(t *testing.T) {
	t.Parallel()
	kbpk := mustHex(t, "00112233445566778899AABBCCDDEEFF")
	key := mustHex(t, "0123456789ABCDEFFEDCBA9876543210")

	plain, err := Wrap(testHeader(t, "D0"), key, kbpk, WithRandom(&counterReader{}))
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	masked, err := Wrap(
		testHeader(t, "D0"), key, kbpk,
		WithRandom(&counterReader{}), WithMaskedKeyLength(32),
	)
	if err != nil {
		t.Fatalf("Wrap masked: %v", err)
	}
	if len(masked) <= len(plain) {
		t.Errorf("masked block %d chars, plain %d; masking must grow the payload",
			len(masked), len(plain))
	}

	got, _, err := Unwrap(masked, kbpk)
	if err != nil {
		t.Fatalf("Unwrap masked: %v", err)
	}
	if !bytes.Equal(got, key) {
		t.Errorf("key = %X, want %X", got, key)
	}
}

func TestUnwrapTamperDetection(t *testing.T) {
	t.Parallel()
	kbpk := mustHex(t, "00112233445566778899AABBCCDDEEFF")
	key := mustHex(t, "0123456789ABCDEFFEDCBA9876543210")

	block, err := Wrap(testHeader(t, "D0"), key, kbpk, WithRandom(&counterReader{}))
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(string) string
	}{
		{
			name:   "ciphertext digit",
			mutate: func(s string) string { return flipHexDigit(s, headerFixedLen+3) },
		},
		{
			name:   "mac digit",
			mutate: func(s string) string { return flipHexDigit(s, len(s)-5) },
		},
		{
			// Key usage B0 is valid, so the header still parses.
			name:   "header usage",
			mutate: func(s string) string { return s[:5] + "B0" + s[7:] },
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mutated := tt.mutate(block)
			if mutated == block {
				t.Fatalf("mutation did not change the block")
			}
			if _, _, err := Unwrap(mutated, kbpk); !errors.Is(err, ErrAuthenticationFailed) {
				t.Errorf("err = %v, want ErrAuthenticationFailed", err)
			}
		})
	}
}

func TestUnwrapWrongKBPK(t *testing.T) {
	t.Parallel()
	kbpk := mustHex(t, "00112233445566778899AABBCCDDEEFF")
	key := mustHex(t, "0123456789ABCDEFFEDCBA9876543210")

	block, err := Wrap(testHeader(t, "D0"), key, kbpk, WithRandom(&counterReader{}))
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	wrong := mustHex(t, "FFEEDDCCBBAA99887766554433221100")
	if _, _, err := Unwrap(block, wrong); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("err = %v, want ErrAuthenticationFailed", err)
	}
}

func TestUnwrapLengthMismatch(t *testing.T) {
	t.Parallel()
	kbpk := mustHex(t, "00112233445566778899AABBCCDDEEFF")
	key := mustHex(t, "0123456789ABCDEFFEDCBA9876543210")

	block, err := Wrap(testHeader(t, "D0"), key, kbpk, WithRandom(&counterReader{}))
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	truncated := block[:len(block)-2]
	if _, _, err := Unwrap(truncated, kbpk); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("truncated: err = %v, want ErrLengthMismatch", err)
	}

	extended := block + "00"
	if _, _, err := Unwrap(extended, kbpk); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("extended: err = %v, want ErrLengthMismatch", err)
	}
}

func TestWrapErrors(t *testing.T) {
	t.Parallel()
	kbpk := mustHex(t, "00112233445566778899AABBCCDDEEFF")
	key := mustHex(t, "0123456789ABCDEFFEDCBA9876543210")

	if _, err := Wrap(nil, key, kbpk); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("nil header: err = %v", err)
	}

	legacy := testHeader(t, "D0")
	legacy.Version = VersionB
	if _, err := Wrap(legacy, key, kbpk); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("version B: err = %v", err)
	}

	if _, err := Wrap(testHeader(t, "D0"), nil, kbpk); !errors.Is(err, ErrInvalidKeyLength) {
		t.Errorf("empty key: err = %v", err)
	}

	badKBPK := mustHex(t, "00112233445566778899AABBCCDDEE")
	if _, err := Wrap(testHeader(t, "D0"), key, badKBPK); !errors.Is(err, ErrInvalidKeyLength) {
		t.Errorf("15-byte kbpk: err = %v", err)
	}

	huge := make([]byte, 5000)
	if _, err := Wrap(testHeader(t, "D0"), huge, kbpk); !errors.Is(err, ErrLengthOverflow) {
		t.Errorf("5000-byte key: err = %v", err)
	}

	short := &shortReader{}
	if _, err := Wrap(
		testHeader(t, "D0"), key, kbpk, WithRandom(short),
	); !errors.Is(err, ErrRandomSource) {
		t.Errorf("exhausted random source: err = %v", err)
	}
}

func TestUnwrapErrors(t *testing.T) {
	t.Parallel()
	kbpk := mustHex(t, "00112233445566778899AABBCCDDEEFF")

	hexBlock := strings.Repeat("A5", 16)
	macBlock := strings.Repeat("0F", 16)

	tests := []struct {
		name    string
		block   string
		wantErr error
	}{
		{
			name:    "garbage",
			block:   "not a key block",
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "version B",
			block:   "B0080P0TE00N0000" + hexBlock + macBlock,
			wantErr: ErrInvalidHeader,
		},
		{
			name:    "too short even though consistent",
			block:   "D0032D0AE00N0000" + strings.Repeat("A", 16),
			wantErr: ErrMalformedKeyBlock,
		},
		{
			name:    "ciphertext not hex",
			block:   "D0080D0AE00N0000" + strings.Repeat("ZZ", 16) + macBlock,
			wantErr: ErrMalformedKeyBlock,
		},
		{
			name:    "mac not hex",
			block:   "D0080D0AE00N0000" + hexBlock + strings.Repeat("ZZ", 16),
			wantErr: ErrMalformedKeyBlock,
		},
		{
			name:    "ciphertext not a block multiple",
			block:   "D0096D0AE00N0000" + strings.Repeat("A5", 24) + macBlock,
			wantErr: ErrMalformedKeyBlock,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, _, err := Unwrap(tt.block, kbpk); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// shortReader fails every read, standing in for an exhausted entropy source.
type shortReader struct{}

func (*shortReader) Read([]byte) (int, error) { return 0, errors.New("out of entropy") }

func flipHexDigit(s string, i int) string {
	replacement := byte('0')
	if s[i] == '0' {
		replacement = '1'
	}

	return s[:i] + string(replacement) + s[i+1:]
}
