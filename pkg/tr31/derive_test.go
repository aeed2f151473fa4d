package tr31

import (
	"bytes"
	"encoding/hex"
	"errors"
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

func TestDeriveKeys(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		kbpk string
		kbek string
		kbak string
	}{
		{
			name: "aes-128",
			kbpk: "00112233445566778899AABBCCDDEEFF",
			kbek: "37DC7700D70781C3E2498A41A027E0B1",
			kbak: "063E785CE4C4C8FE54921839BD1F9ADF",
		},
		{
			name: "aes-192",
			kbpk: "00112233445566778899AABBCCDDEEFF0011223344556677",
			kbek: "F343DFB92345457EF5CB08309EEB65DEC170BE7B069FB351",
			kbak: "23F93132F6677CD822FA653562F71CCE3CB9361733BFA128",
		},
		{
			name: "aes-256",
			kbpk: "00112233445566778899AABBCCDDEEFF00112233445566778899AABBCCDDEEFF",
			kbek: "FCC7C7F7CA33DA31BA8C60493C7DD384C804C20EBA22022BC5AB29FEF42F20C7",
			kbak: "095DF0DCA65DC922BBEB015F8C855E254FD7CF399B6DA726ABA28206C9A7A3E2",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			kbek, kbak, err := DeriveKeys(mustHex(t, tt.kbpk))
			if err != nil {
				t.Fatalf("DeriveKeys: %v", err)
			}
			if want := mustHex(t, tt.kbek); !bytes.Equal(kbek, want) {
				t.Errorf("kbek = %X, want %X", kbek, want)
			}
			if want := mustHex(t, tt.kbak); !bytes.Equal(kbak, want) {
				t.Errorf("kbak = %X, want %X", kbak, want)
			}
		})
	}
}

func TestDeriveKeysRejectsBadLength(t *testing.T) {
	t.Parallel()
	for _, n := range []int{0, 8, 15, 17, 23, 33} {
		if _, _, err := DeriveKeys(make([]byte, n)); !errors.Is(err, ErrInvalidKeyLength) {
			t.Errorf("DeriveKeys with %d-byte kbpk: err = %v, want ErrInvalidKeyLength", n, err)
		}
	}
}

func TestDeriveKeysDistinct(t *testing.T) {
	t.Parallel()
	for _, n := range []int{16, 24, 32} {
		kbpk := make([]byte, n)
		kbek, kbak, err := DeriveKeys(kbpk)
		if err != nil {
			t.Fatalf("DeriveKeys: %v", err)
		}
		if bytes.Equal(kbek, kbak) {
			t.Errorf("%d-byte kbpk: encryption and mac keys are identical", n)
		}
		if len(kbek) != n || len(kbak) != n {
			t.Errorf("%d-byte kbpk: derived lengths %d/%d", n, len(kbek), len(kbak))
		}
	}
}
