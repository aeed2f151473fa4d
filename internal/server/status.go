package server

import (
	"errors"

	"github.com/andrei-cloud/go_paykit/pkg/pinblock"
	"github.com/andrei-cloud/go_paykit/pkg/tr31"
)

// Status is a two-character facade response status with its description.
type Status struct {
	Code        string
	Description string
}

// Predefined facade statuses.
var (
	StatusOK                = Status{"00", "no error"}
	StatusMalformedRequest  = Status{"01", "malformed request"}
	StatusUnknownCommand    = Status{"02", "unknown command"}
	StatusInvalidKeyLength  = Status{"10", "invalid key length"}
	StatusInvalidHeader     = Status{"11", "invalid key block header"}
	StatusMalformedOptBlock = Status{"12", "malformed optional block"}
	StatusLengthMismatch    = Status{"13", "key block length mismatch"}
	StatusLengthOverflow    = Status{"14", "key block length overflow"}
	StatusAuthFailed        = Status{"15", "key block authentication failed"}
	StatusKeyLenMismatch    = Status{"16", "payload key length mismatch"}
	StatusMalformedKeyBlock = Status{"17", "malformed key block"}
	StatusRandomSource      = Status{"18", "random source failure"}
	StatusInvalidPinLength  = Status{"20", "invalid pin length"}
	StatusInvalidPanLength  = Status{"21", "invalid pan length"}
	StatusInvalidPinField   = Status{"22", "invalid pin field"}
	StatusInvalidBlockLen   = Status{"23", "invalid pin block length"}
	StatusUnknownFormat     = Status{"24", "unsupported pin block format"}
	StatusInternal          = Status{"99", "internal error"}
)

// statusFor maps core package errors onto facade statuses.
func statusFor(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, tr31.ErrInvalidKeyLength):
		return StatusInvalidKeyLength
	case errors.Is(err, tr31.ErrInvalidHeader),
		errors.Is(err, tr31.ErrMalformedHeader):
		return StatusInvalidHeader
	case errors.Is(err, tr31.ErrMalformedOptionalBlock):
		return StatusMalformedOptBlock
	case errors.Is(err, tr31.ErrLengthMismatch):
		return StatusLengthMismatch
	case errors.Is(err, tr31.ErrLengthOverflow):
		return StatusLengthOverflow
	case errors.Is(err, tr31.ErrAuthenticationFailed):
		return StatusAuthFailed
	case errors.Is(err, tr31.ErrKeyLengthMismatch):
		return StatusKeyLenMismatch
	case errors.Is(err, tr31.ErrMalformedKeyBlock):
		return StatusMalformedKeyBlock
	case errors.Is(err, tr31.ErrRandomSource),
		errors.Is(err, pinblock.ErrRandomSource):
		return StatusRandomSource
	case errors.Is(err, pinblock.ErrInvalidPinLength):
		return StatusInvalidPinLength
	case errors.Is(err, pinblock.ErrInvalidPanLength):
		return StatusInvalidPanLength
	case errors.Is(err, pinblock.ErrInvalidPinField):
		return StatusInvalidPinField
	case errors.Is(err, pinblock.ErrInvalidBlockLength):
		return StatusInvalidBlockLen
	case errors.Is(err, pinblock.ErrUnknownFormat):
		return StatusUnknownFormat
	default:
		return StatusInternal
	}
}
