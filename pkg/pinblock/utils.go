package pinblock

import "fmt"

const (
	pinMinLen = 4
	pinMaxLen = 12
)

func validatePin(pin string) error {
	if len(pin) < pinMinLen || len(pin) > pinMaxLen {
		return fmt.Errorf("%w: %d digits, need 4 through 12", ErrInvalidPinLength, len(pin))
	}
	if !isDigits(pin) {
		return fmt.Errorf("%w: pin must be decimal digits", ErrInvalidPinField)
	}

	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// nibbleAt returns the i-th nibble of b, high nibble first.
func nibbleAt(b []byte, i int) byte {
	if i%2 == 0 {
		return b[i/2] >> 4
	}

	return b[i/2] & 0x0F
}

// setNibble overwrites the i-th nibble of b, high nibble first.
func setNibble(b []byte, i int, v byte) {
	if i%2 == 0 {
		b[i/2] = v<<4 | b[i/2]&0x0F
	} else {
		b[i/2] = b[i/2]&0xF0 | v&0x0F
	}
}
