package server

import (
	"encoding/hex"

	"github.com/andrei-cloud/go_paykit/pkg/cryptoutils"
	"github.com/andrei-cloud/go_paykit/pkg/pinblock"
	"github.com/andrei-cloud/go_paykit/pkg/tr31"
)

// wrapKey handles WK: kbpkHex keyHex headerTemplate. The template is a
// serialized header whose length field is recomputed by the wrap.
func (s *Server) wrapKey(fields []string) (string, Status) {
	if len(fields) != 3 {
		return "", StatusMalformedRequest
	}
	kbpk, err := hex.DecodeString(fields[0])
	if err != nil {
		return "", StatusMalformedRequest
	}
	key, err := hex.DecodeString(fields[1])
	if err != nil {
		return "", StatusMalformedRequest
	}
	header, err := tr31.ParseHeader(fields[2])
	if err != nil {
		return "", statusFor(err)
	}

	block, err := tr31.Wrap(header, key, kbpk, tr31.WithRandom(s.random))
	if err != nil {
		return "", statusFor(err)
	}

	return block, StatusOK
}

// unwrapKey handles UK: kbpkHex keyBlock. The payload is the two-character
// key usage followed by the recovered key in hex.
func (s *Server) unwrapKey(fields []string) (string, Status) {
	if len(fields) != 2 {
		return "", StatusMalformedRequest
	}
	kbpk, err := hex.DecodeString(fields[0])
	if err != nil {
		return "", StatusMalformedRequest
	}

	key, header, err := tr31.Unwrap(fields[1], kbpk)
	if err != nil {
		return "", statusFor(err)
	}

	return header.KeyUsage + cryptoutils.Raw2Str(key), StatusOK
}

// encodePinBlock handles PE: format pin pan [keyHex].
func (s *Server) encodePinBlock(fields []string) (string, Status) {
	if len(fields) != 3 && len(fields) != 4 {
		return "", StatusMalformedRequest
	}
	format, err := pinblock.ParseFormat(fields[0])
	if err != nil {
		return "", statusFor(err)
	}
	var key []byte
	if len(fields) == 4 {
		if key, err = hex.DecodeString(fields[3]); err != nil {
			return "", StatusMalformedRequest
		}
	}
	if format == pinblock.ISO4 && len(key) == 0 {
		return "", StatusMalformedRequest
	}

	block, err := pinblock.Encode(format, fields[1], fields[2], key, s.random)
	if err != nil {
		return "", statusFor(err)
	}

	return block, StatusOK
}

// decodePinBlock handles PD: format blockHex pan [keyHex].
func (s *Server) decodePinBlock(fields []string) (string, Status) {
	if len(fields) != 3 && len(fields) != 4 {
		return "", StatusMalformedRequest
	}
	format, err := pinblock.ParseFormat(fields[0])
	if err != nil {
		return "", statusFor(err)
	}
	var key []byte
	if len(fields) == 4 {
		if key, err = hex.DecodeString(fields[3]); err != nil {
			return "", StatusMalformedRequest
		}
	}
	if format == pinblock.ISO4 && len(key) == 0 {
		return "", StatusMalformedRequest
	}

	pin, err := pinblock.Decode(format, fields[1], fields[2], key)
	if err != nil {
		return "", statusFor(err)
	}

	return pin, StatusOK
}

// checkValue handles KC: keyHex.
func (s *Server) checkValue(fields []string) (string, Status) {
	if len(fields) != 1 {
		return "", StatusMalformedRequest
	}
	key, err := hex.DecodeString(fields[0])
	if err != nil {
		return "", StatusMalformedRequest
	}

	kcv, err := tr31.CheckValue(key)
	if err != nil {
		return "", statusFor(err)
	}

	return cryptoutils.Raw2Str(kcv), StatusOK
}
