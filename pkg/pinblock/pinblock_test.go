package pinblock

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Format
	}{
		{in: "3", want: ISO3},
		{in: "iso3", want: ISO3},
		{in: "ISO-3", want: ISO3},
		{in: "4", want: ISO4},
		{in: "iso4", want: ISO4},
		{in: " Iso-4 ", want: ISO4},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFormat(tt.in)
			if err != nil {
				t.Fatalf("ParseFormat(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	for _, in := range []string{"", "0", "iso0", "thales47"} {
		if _, err := ParseFormat(in); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ParseFormat(%q): err = %v, want ErrUnknownFormat", in, err)
		}
	}
}

func TestFormatString(t *testing.T) {
	t.Parallel()
	if ISO3.String() != "ISO-3" || ISO4.String() != "ISO-4" {
		t.Errorf("String() = %q, %q", ISO3.String(), ISO4.String())
	}
	if Format(9).String() != "Format(9)" {
		t.Errorf("String() = %q", Format(9).String())
	}
}

func TestEncodeDecodeDispatch(t *testing.T) {
	t.Parallel()
	seed := bytes.Repeat([]byte{0xFF}, 8)

	block, err := Encode(ISO3, "1234", "12345678901234", nil, bytes.NewReader(seed))
	if err != nil {
		t.Fatalf("Encode ISO3: %v", err)
	}
	if block != "341217BA9876FEDC" {
		t.Errorf("block = %q, want 341217BA9876FEDC", block)
	}
	pin, err := Decode(ISO3, block, "12345678901234", nil)
	if err != nil {
		t.Fatalf("Decode ISO3: %v", err)
	}
	if pin != "1234" {
		t.Errorf("pin = %q, want 1234", pin)
	}

	key := mustHex(t, "00112233445566778899AABBCCDDEEFF")
	block, err = Encode(ISO4, "1234", "1234567890123456789", key, bytes.NewReader(seed))
	if err != nil {
		t.Fatalf("Encode ISO4: %v", err)
	}
	if block != "28B41FDDD29B743E93124BD8E32D921E" {
		t.Errorf("block = %q, want 28B41FDDD29B743E93124BD8E32D921E", block)
	}
	pin, err = Decode(ISO4, block, "1234567890123456789", key)
	if err != nil {
		t.Fatalf("Decode ISO4: %v", err)
	}
	if pin != "1234" {
		t.Errorf("pin = %q, want 1234", pin)
	}

	if _, err := Encode(Format(0), "1234", "", nil, bytes.NewReader(seed)); !errors.Is(
		err, ErrUnknownFormat,
	) {
		t.Errorf("Encode unknown format: err = %v", err)
	}
	if _, err := Decode(Format(0), "00", "", nil); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Decode unknown format: err = %v", err)
	}
}

func TestSupportedFormats(t *testing.T) {
	t.Parallel()
	formats := SupportedFormats()
	if len(formats) != 2 {
		t.Fatalf("SupportedFormats() returned %d entries", len(formats))
	}
	if formats[0].Format != ISO3 || formats[0].NeedsKey || formats[0].BlockLen != 8 {
		t.Errorf("ISO3 info = %+v", formats[0])
	}
	if formats[1].Format != ISO4 || !formats[1].NeedsKey || formats[1].BlockLen != 16 {
		t.Errorf("ISO4 info = %+v", formats[1])
	}
}
