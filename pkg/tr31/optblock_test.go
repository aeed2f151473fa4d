package tr31

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseOptionalBlock(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		in       string
		wantID   string
		wantData string
		wantLen  int
	}{
		{
			name:     "short form",
			in:       "CT0C11223344",
			wantID:   "CT",
			wantData: "11223344",
			wantLen:  12,
		},
		{
			name:     "short form with trailing blocks",
			in:       "CT0C11223344HM0E5566778899",
			wantID:   "CT",
			wantData: "11223344",
			wantLen:  12,
		},
		{
			name:     "padding block",
			in:       "PB080000",
			wantID:   "PB",
			wantData: "0000",
			wantLen:  8,
		},
		{
			name:     "extended form",
			in:       "CT00020100" + strings.Repeat("F", 246),
			wantID:   "CT",
			wantData: strings.Repeat("F", 246),
			wantLen:  256,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			blk, consumed, err := parseOptionalBlock(tt.in)
			if err != nil {
				t.Fatalf("parseOptionalBlock: %v", err)
			}
			if blk.ID != tt.wantID || blk.Data != tt.wantData {
				t.Errorf("block = %q/%q, want %q/%q", blk.ID, blk.Data, tt.wantID, tt.wantData)
			}
			if consumed != tt.wantLen {
				t.Errorf("consumed = %d, want %d", consumed, tt.wantLen)
			}
		})
	}
}

func TestParseOptionalBlockSequence(t *testing.T) {
	t.Parallel()
	in := "CT0C11223344HM0E5566778899"

	first, consumed, err := parseOptionalBlock(in)
	if err != nil {
		t.Fatalf("first block: %v", err)
	}
	second, _, err := parseOptionalBlock(in[consumed:])
	if err != nil {
		t.Fatalf("second block: %v", err)
	}
	if first.ID != "CT" || second.ID != "HM" || second.Data != "5566778899" {
		t.Errorf("sequence = %v, %v", first, second)
	}
}

func TestParseOptionalBlockErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "only id", in: "CT"},
		{name: "unknown id", in: "xx081234"},
		{name: "length not hex", in: "CTxx1234"},
		{name: "length below minimum", in: "CT02"},
		{name: "length runs past buffer", in: "CT0800"},
		{name: "extended field truncated", in: "CT000201"},
		{name: "extended length of length", in: "CT0001005500"},
		{name: "extended length not hex", in: "CT0002XXXX" + strings.Repeat("0", 10)},
		{name: "extended length fits short form", in: "CT000200A0" + strings.Repeat("0", 150)},
		{name: "extended length zero", in: "CT00020000"},
		{name: "data not ascii", in: "CT06\xC3\xA9"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := parseOptionalBlock(tt.in)
			if !errors.Is(err, ErrMalformedOptionalBlock) {
				t.Errorf("err = %v, want ErrMalformedOptionalBlock", err)
			}
		})
	}
}

func TestOptionalBlockString(t *testing.T) {
	t.Parallel()

	short := OptionalBlock{ID: "CT", Data: "1CEDCAFFE1A77E"}
	if got := short.String(); got != "CT121CEDCAFFE1A77E" {
		t.Errorf("short form = %q", got)
	}

	data := strings.Repeat("A", 300)
	ext := OptionalBlock{ID: "CT", Data: data}
	want := "CT" + fmt.Sprintf("0002%04X", len(data)+10) + data
	if got := ext.String(); got != want {
		t.Errorf("extended form = %q, want %q", got, want)
	}
}

func TestOptionalBlockWireLen(t *testing.T) {
	t.Parallel()

	if got := (OptionalBlock{ID: "CT", Data: strings.Repeat("A", 251)}).WireLen(); got != 255 {
		t.Errorf("boundary short form WireLen = %d, want 255", got)
	}
	if got := (OptionalBlock{ID: "CT", Data: strings.Repeat("A", 252)}).WireLen(); got != 262 {
		t.Errorf("boundary extended form WireLen = %d, want 262", got)
	}
}

func TestOptionalBlockRoundTrip(t *testing.T) {
	t.Parallel()
	blocks := []OptionalBlock{
		{ID: "CT", Data: "11223344"},
		{ID: "KS", Data: "00604B120F9292800000"},
		{ID: "HM", Data: strings.Repeat("7", 300)},
	}

	for _, blk := range blocks {
		got, consumed, err := parseOptionalBlock(blk.String())
		if err != nil {
			t.Fatalf("round trip of %q: %v", blk.ID, err)
		}
		if got != blk || consumed != blk.WireLen() {
			t.Errorf("round trip of %q = %v (%d chars)", blk.ID, got, consumed)
		}
	}
}
