package cryptoutils

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex fixture %q: %v", s, err)
	}

	return b
}

// FIPS-197 appendix C single-block vectors.
func TestEncryptDecryptAESECB(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		key  string
		pt   string
		ct   string
	}{
		{
			name: "aes-128",
			key:  "000102030405060708090A0B0C0D0E0F",
			pt:   "00112233445566778899AABBCCDDEEFF",
			ct:   "69C4E0D86A7B0430D8CDB78070B4C55A",
		},
		{
			name: "aes-192",
			key:  "000102030405060708090A0B0C0D0E0F1011121314151617",
			pt:   "00112233445566778899AABBCCDDEEFF",
			ct:   "DDA97CA4864CDFE06EAF70A0EC0D7191",
		},
		{
			name: "aes-256",
			key:  "000102030405060708090A0B0C0D0E0F101112131415161718191A1B1C1D1E1F",
			pt:   "00112233445566778899AABBCCDDEEFF",
			ct:   "8EA2B7CA516745BFEAFC49904B496089",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			key := mustHex(t, tt.key)
			pt := mustHex(t, tt.pt)

			ct, err := EncryptAESECB(key, pt)
			if err != nil {
				t.Fatalf("EncryptAESECB: %v", err)
			}
			if got := Raw2Str(ct); got != tt.ct {
				t.Errorf("ciphertext = %s, want %s", got, tt.ct)
			}

			back, err := DecryptAESECB(key, ct)
			if err != nil {
				t.Fatalf("DecryptAESECB: %v", err)
			}
			if !bytes.Equal(back, pt) {
				t.Errorf("round trip = %X, want %X", back, pt)
			}
		})
	}
}

// NIST SP 800-38A F.2.1/F.2.2 multi-block CBC vector.
func TestEncryptDecryptAESCBC(t *testing.T) {
	t.Parallel()
	key := mustHex(t, "2B7E151628AED2A6ABF7158809CF4F3C")
	iv := mustHex(t, "000102030405060708090A0B0C0D0E0F")
	pt := mustHex(t, "6BC1BEE22E409F96E93D7E117393172A"+
		"AE2D8A571E03AC9C9EB76FAC45AF8E51"+
		"30C81C46A35CE411E5FBC1191A0A52EF"+
		"F69F2445DF4F9B17AD2B417BE66C3710")
	want := "7649ABAC8119B246CEE98E9B12E9197D" +
		"5086CB9B507219EE95DB113A917678B2" +
		"73BED6B8E3C1743B7116E69E22229516" +
		"3FF1CAA1681FAC09120ECA307586E1A7"

	ct, err := EncryptAESCBC(key, iv, pt)
	if err != nil {
		t.Fatalf("EncryptAESCBC: %v", err)
	}
	if got := Raw2Str(ct); got != want {
		t.Errorf("ciphertext = %s, want %s", got, want)
	}

	back, err := DecryptAESCBC(key, iv, ct)
	if err != nil {
		t.Fatalf("DecryptAESCBC: %v", err)
	}
	if !bytes.Equal(back, pt) {
		t.Errorf("round trip = %X, want %X", back, pt)
	}
}

func TestAESECBInputValidation(t *testing.T) {
	t.Parallel()
	key := make([]byte, 16)

	if _, err := EncryptAESECB(key, make([]byte, 15)); err == nil {
		t.Error("expected error for partial block")
	}
	if _, err := EncryptAESECB(key, nil); err == nil {
		t.Error("expected error for empty data")
	}
	if _, err := EncryptAESECB(make([]byte, 10), make([]byte, 16)); err == nil {
		t.Error("expected error for invalid key length")
	}
	if _, err := DecryptAESECB(key, make([]byte, 17)); err == nil {
		t.Error("expected error for partial block")
	}
}

func TestAESCBCInputValidation(t *testing.T) {
	t.Parallel()
	key := make([]byte, 16)

	if _, err := EncryptAESCBC(key, make([]byte, 8), make([]byte, 16)); err == nil {
		t.Error("expected error for short iv")
	}
	if _, err := DecryptAESCBC(key, make([]byte, 16), make([]byte, 20)); err == nil {
		t.Error("expected error for partial block")
	}
}

func TestXORBytes(t *testing.T) {
	t.Parallel()
	a := []byte{0x0F, 0xF0, 0xAA}
	b := []byte{0xFF, 0xFF, 0xAA}

	got, err := XORBytes(a, b)
	if err != nil {
		t.Fatalf("XORBytes: %v", err)
	}
	if !bytes.Equal(got, []byte{0xF0, 0x0F, 0x00}) {
		t.Errorf("XORBytes = %X", got)
	}

	if _, err := XORBytes(a, b[:2]); err == nil {
		t.Error("expected length mismatch error")
	}
}

func TestRaw2Str(t *testing.T) {
	t.Parallel()
	if got := Raw2Str([]byte{0xDE, 0xAD, 0xBE, 0xEF}); got != "DEADBEEF" {
		t.Errorf("Raw2Str = %q", got)
	}
}
