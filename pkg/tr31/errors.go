package tr31

import "errors"

// Failure sites wrap these sentinels with fmt.Errorf("...: %w", ...) so
// callers can classify errors with errors.Is.
var (
	// ErrInvalidKeyLength reports a KBPK or key outside the AES sizes.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrInvalidHeader reports header fields rejected at construction or an
	// unsupported version for the requested operation.
	ErrInvalidHeader = errors.New("invalid header")

	// ErrMalformedHeader reports a header that cannot be parsed.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrMalformedOptionalBlock reports an undecodable or duplicated
	// optional block.
	ErrMalformedOptionalBlock = errors.New("malformed optional block")

	// ErrMalformedKeyBlock reports key block framing damage outside the
	// header: bad hex, impossible ciphertext length.
	ErrMalformedKeyBlock = errors.New("malformed key block")

	// ErrLengthMismatch reports a declared total length that disagrees with
	// the actual serialized length.
	ErrLengthMismatch = errors.New("key block length mismatch")

	// ErrLengthOverflow reports a key block that cannot fit the 4-digit
	// length field.
	ErrLengthOverflow = errors.New("key block length overflow")

	// ErrAuthenticationFailed reports a MAC verification failure. It carries
	// no detail about where verification failed.
	ErrAuthenticationFailed = errors.New("key block authentication failed")

	// ErrKeyLengthMismatch reports a decrypted payload whose bit-length
	// field disagrees with the bytes present.
	ErrKeyLengthMismatch = errors.New("key length mismatch")

	// ErrRandomSource reports a padding source that failed or ran short.
	ErrRandomSource = errors.New("random source failure")
)
