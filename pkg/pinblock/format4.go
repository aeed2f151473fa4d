package pinblock

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/andrei-cloud/go_paykit/pkg/cryptoutils"
)

// ISO 9564-1 format 4 constants. The block is one AES block wide and is
// enciphered under a PIN block key, with the PAN bound in between the two
// encipherments.
const (
	format4Control  = 0x4
	format4BlockLen = 16
	format4Fill     = 0xA
	format4RandLen  = 8

	// Nibbles in the clear first half of the PIN field.
	format4ClearNibbles = 2 * (format4BlockLen - format4RandLen)

	format4MaxPanLen = 19
)

// EncodePinFieldISO4 builds the 16-byte format 4 PIN field: control and
// length nibbles, BCD PIN digits, fixed A fill through the first half, then
// 8 random bytes.
func EncodePinFieldISO4(pin string, random io.Reader) ([]byte, error) {
	if err := validatePin(pin); err != nil {
		return nil, err
	}

	field := make([]byte, format4BlockLen)
	if _, err := io.ReadFull(random, field[format4RandLen:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomSource, err)
	}

	setNibble(field, 0, format4Control)
	setNibble(field, 1, byte(len(pin)))
	for i := 0; i < len(pin); i++ {
		setNibble(field, 2+i, pin[i]-'0')
	}
	for i := 2 + len(pin); i < format4ClearNibbles; i++ {
		setNibble(field, i, format4Fill)
	}

	return field, nil
}

// DecodePinFieldISO4 validates a 16-byte format 4 PIN field and returns the
// PIN digits. The random second half is not inspected.
func DecodePinFieldISO4(field []byte) (string, error) {
	if len(field) != format4BlockLen {
		return "", fmt.Errorf(
			"%w: pin field is %d bytes, want %d",
			ErrInvalidPinField, len(field), format4BlockLen,
		)
	}
	if nibbleAt(field, 0) != format4Control {
		return "", fmt.Errorf("%w: control nibble is not 4", ErrInvalidPinField)
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
	for i := 2 + pinLen; i < format4ClearNibbles; i++ {
		if nibbleAt(field, i) != format4Fill {
			return "", fmt.Errorf(
				"%w: fill nibble %X, want A",
				ErrInvalidPinField, nibbleAt(field, i),
			)
		}
	}

	return sb.String(), nil
}

// EncodePanFieldISO4 builds the 16-byte format 4 PAN field. The leading
// nibble carries how far the PAN exceeds 12 digits; shorter PANs are right
// justified over zeros.
func EncodePanFieldISO4(pan string) ([]byte, error) {
	if !isDigits(pan) {
		return nil, fmt.Errorf("%w: pan must be decimal digits", ErrInvalidPanLength)
	}
	if len(pan) > format4MaxPanLen {
		return nil, fmt.Errorf(
			"%w: %d digits, at most %d",
			ErrInvalidPanLength, len(pan), format4MaxPanLen,
		)
	}

	lenNibble := 0
	if len(pan) > 12 {
		lenNibble = len(pan) - 12
	}
	padded := pan
	if len(padded) < 12 {
		padded = strings.Repeat("0", 12-len(padded)) + padded
	}

	s := fmt.Sprintf("%X%s", lenNibble, padded)
	s += strings.Repeat("0", 2*format4BlockLen-len(s))

	field, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPanLength, err)
	}

	return field, nil
}

// EncipherISO4 builds and enciphers a format 4 PIN block:
// AES(key, AES(key, pinField) XOR panField), as uppercase hex.
func EncipherISO4(key []byte, pin, pan string, random io.Reader) (string, error) {
	pinField, err := EncodePinFieldISO4(pin, random)
	if err != nil {
		return "", err
	}
	panField, err := EncodePanFieldISO4(pan)
	if err != nil {
		return "", err
	}

	inner, err := cryptoutils.EncryptAESECB(key, pinField)
	if err != nil {
		return "", err
	}
	bound, err := cryptoutils.XORBytes(inner, panField)
	if err != nil {
		return "", err
	}
	block, err := cryptoutils.EncryptAESECB(key, bound)
	if err != nil {
		return "", err
	}

	return cryptoutils.Raw2Str(block), nil
}

// DecipherISO4 reverses both encipherments of a format 4 block and returns
// the PIN, validating the recovered PIN field.
func DecipherISO4(key []byte, blockHex, pan string) (string, error) {
	block, err := hex.DecodeString(blockHex)
	if err != nil {
		return "", fmt.Errorf("%w: pin block is not hex", ErrInvalidBlockLength)
	}
	if len(block) != format4BlockLen {
		return "", fmt.Errorf(
			"%w: %d bytes, want %d",
			ErrInvalidBlockLength, len(block), format4BlockLen,
		)
	}

	panField, err := EncodePanFieldISO4(pan)
	if err != nil {
		return "", err
	}

	bound, err := cryptoutils.DecryptAESECB(key, block)
	if err != nil {
		return "", err
	}
	inner, err := cryptoutils.XORBytes(bound, panField)
	if err != nil {
		return "", err
	}
	pinField, err := cryptoutils.DecryptAESECB(key, inner)
	if err != nil {
		return "", err
	}

	return DecodePinFieldISO4(pinField)
}
