package pinblock

import "errors"

var (
	// ErrInvalidPinLength reports a PIN outside 4 through 12 digits.
	ErrInvalidPinLength = errors.New("invalid pin length")

	// ErrInvalidPanLength reports a PAN outside the active format's bounds.
	ErrInvalidPanLength = errors.New("invalid pan length")

	// ErrInvalidPinField reports a PIN field whose control, length, digit or
	// fill nibbles are inconsistent with the format.
	ErrInvalidPinField = errors.New("invalid pin field")

	// ErrInvalidBlockLength reports a PIN block of the wrong size for the
	// format, or one that is not valid hex.
	ErrInvalidBlockLength = errors.New("invalid pin block length")

	// ErrUnknownFormat reports a format this package does not implement.
	ErrUnknownFormat = errors.New("unknown pin block format")

	// ErrRandomSource reports a fill source that failed or ran dry.
	ErrRandomSource = errors.New("random source failed")
)
