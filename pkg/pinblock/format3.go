package pinblock

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/andrei-cloud/go_paykit/pkg/cryptoutils"
)

// ISO 9564-1 format 3 constants. The block is 8 bytes and is not enciphered
// here; callers hand the XOR result to their own cipher.
const (
	format3Control  = 0x3
	format3BlockLen = 8

	// Format 3 uses the 12 rightmost PAN digits excluding the check digit,
	// so the PAN must carry at least 13 digits.
	format3MinPanLen = 13
)

// EncodePinFieldISO3 builds the 8-byte format 3 PIN field. Fill nibbles come
// from random, transformed so every fill nibble lands in the A-F range.
func EncodePinFieldISO3(pin string, random io.Reader) ([]byte, error) {
	if err := validatePin(pin); err != nil {
		return nil, err
	}

	field := make([]byte, format3BlockLen)
	if _, err := io.ReadFull(random, field); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	for i := range field {
		field[i] = fillNibble(field[i]>>4)<<4 | fillNibble(field[i]&0x0F)
	}

	setNibble(field, 0, format3Control)
	setNibble(field, 1, byte(len(pin)))
	for i := 0; i < len(pin); i++ {
		setNibble(field, 2+i, pin[i]-'0')
	}

	return field, nil
}

// fillNibble maps a random nibble into A-F: 0-5 shift up by ten, 6-9 by six,
// A-F pass through.
func fillNibble(n byte) byte {
	switch {
	case n <= 5:
		return n + 10
	case n <= 9:
		return n + 6
	default:
		return n
	}
}

// DecodePinFieldISO3 validates an 8-byte format 3 PIN field and returns the
// PIN digits.
func DecodePinFieldISO3(field []byte) (string, error) {
	if len(field) != format3BlockLen {
		return "", fmt.Errorf(
			"%w: pin field is %d bytes, want %d",
			ErrInvalidPinField, len(field), format3BlockLen,
		)
	}
	if nibbleAt(field, 0) != format3Control {
		return "", fmt.Errorf("%w: control nibble is not 3", ErrInvalidPinField)
	}
	pinLen := int(nibbleAt(field, 1))
	if pinLen < pinMinLen || pinLen > pinMaxLen {
		return "", fmt.Errorf("%w: pin length nibble %d", ErrInvalidPinField, pinLen)
	}

	var sb strings.Builder
	sb.Grow(pinLen)
	for i := 2; i < 2+pinLen; i++ {
		d := nibbleAt(field, i)
		if d > 9 {
			return "", fmt.Errorf("%w: pin digit nibble %X", ErrInvalidPinField, d)
		}
		sb.WriteByte('0' + d)
	}
	for i := 2 + pinLen; i < 2*format3BlockLen; i++ {
		if nibbleAt(field, i) < 0xA {
			return "", fmt.Errorf(
				"%w: fill nibble %X outside A-F",
				ErrInvalidPinField, nibbleAt(field, i),
			)
		}
	}

	return sb.String(), nil
}

// EncodePanFieldISO3 builds the 8-byte format 3 account number field: the 12
// rightmost PAN digits excluding the check digit, right justified over zeros.
func EncodePanFieldISO3(pan string) ([]byte, error) {
	if !isDigits(pan) {
		return nil, fmt.Errorf("%w: pan must be decimal digits", ErrInvalidPanLength)
	}
	if len(pan) < format3MinPanLen {
		return nil, fmt.Errorf(
			"%w: %d digits, need at least %d",
			ErrInvalidPanLength, len(pan), format3MinPanLen,
		)
	}

	trimmed := pan[:len(pan)-1]
	digits := trimmed[len(trimmed)-12:]

	field := make([]byte, format3BlockLen)
	for i := 0; i < len(digits); i++ {
		setNibble(field, 4+i, digits[i]-'0')
	}

	return field, nil
}

// EncodeISO3 builds a format 3 PIN block: the XOR of the PIN and account
// number fields, as uppercase hex. The result is plaintext; enciphering it is
// the caller's concern.
func EncodeISO3(pin, pan string, random io.Reader) (string, error) {
	pinField, err := EncodePinFieldISO3(pin, random)
	if err != nil {
		return "", err
	}
	panField, err := EncodePanFieldISO3(pan)
	if err != nil {
		return "", err
	}
	block, err := cryptoutils.XORBytes(pinField, panField)
	if err != nil {
		return "", err
	}

	return cryptoutils.Raw2Str(block), nil
}

// DecodeISO3 recovers the PIN from a format 3 block and the PAN it was built
// with.
func DecodeISO3(blockHex, pan string) (string, error) {
	block, err := hex.DecodeString(blockHex)
	if err != nil {
		return "", fmt.Errorf("%w: pin block is not hex", ErrInvalidBlockLength)
	}
	if len(block) != format3BlockLen {
		return "", fmt.Errorf(
			"%w: %d bytes, want %d",
			ErrInvalidBlockLength, len(block), format3BlockLen,
		)
	}
	panField, err := EncodePanFieldISO3(pan)
	if err != nil {
		return "", err
	}
	pinField, err := cryptoutils.XORBytes(block, panField)
	if err != nil {
		return "", err
	}

	return DecodePinFieldISO3(pinField)
}
