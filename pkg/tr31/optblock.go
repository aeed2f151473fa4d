package tr31

import (
	"fmt"
	"slices"
	"strconv"
)

// Optional block IDs defined by TR-31.
var optionalBlockIDs = []string{"CT", "HM", "IK", "KC", "KP", "KS", "KV", "PB", "TS"}

// optBlockPadding is the ID of the padding block appended by Finalize.
const optBlockPadding = "PB"

const (
	optBlockMinLen    = 4  // ID and short length field.
	optBlockExtMinLen = 10 // ID, escape, length-of-length and extended length field.
	optBlockMaxShort  = 0xFF
	optBlockMaxLen    = 0xFFFF
)

// OptionalBlock is a single TLV entry of a key block header. The serialized
// length field counts the whole block: ID, length field and data. Blocks live
// in an ordered slice on the header; their order is covered by the MAC.
type OptionalBlock struct {
	ID   string
	Data string
}

func newOptionalBlock(id, data string) (OptionalBlock, error) {
	var blk OptionalBlock
	if !slices.Contains(optionalBlockIDs, id) {
		return blk, fmt.Errorf("%w: unknown id %q", ErrMalformedOptionalBlock, id)
	}
	if !isASCII(data) {
		return blk, fmt.Errorf("%w: %s data is not ascii", ErrMalformedOptionalBlock, id)
	}
	if optBlockExtMinLen+len(data) > optBlockMaxLen {
		return blk, fmt.Errorf(
			"%w: %s data length %d exceeds the extended length form",
			ErrMalformedOptionalBlock, id, len(data),
		)
	}

	return OptionalBlock{ID: id, Data: data}, nil
}

// WireLen returns the serialized length of the block in characters.
func (o OptionalBlock) WireLen() int {
	if optBlockMinLen+len(o.Data) > optBlockMaxShort {
		return optBlockExtMinLen + len(o.Data)
	}

	return optBlockMinLen + len(o.Data)
}

// String serializes the block, choosing the short or extended length form.
func (o OptionalBlock) String() string {
	if wire := optBlockMinLen + len(o.Data); wire <= optBlockMaxShort {
		return fmt.Sprintf("%s%02X%s", o.ID, wire, o.Data)
	}

	return fmt.Sprintf("%s0002%04X%s", o.ID, optBlockExtMinLen+len(o.Data), o.Data)
}

// parseOptionalBlock reads one TLV block from the start of s and returns the
// block together with the number of characters consumed.
func parseOptionalBlock(s string) (OptionalBlock, int, error) {
	var blk OptionalBlock
	if len(s) < optBlockMinLen {
		return blk, 0, fmt.Errorf(
			"%w: %d chars left, need at least %d",
			ErrMalformedOptionalBlock, len(s), optBlockMinLen,
		)
	}
	id := s[:2]
	if !slices.Contains(optionalBlockIDs, id) {
		return blk, 0, fmt.Errorf("%w: unknown id %q", ErrMalformedOptionalBlock, id)
	}

	var total, dataStart int
	if s[2:4] == "00" {
		// Extended form: the short field escapes to a length-of-length and a
		// four-digit hex length covering the whole block.
		if len(s) < optBlockExtMinLen {
			return blk, 0, fmt.Errorf(
				"%w: %s extended length field truncated",
				ErrMalformedOptionalBlock, id,
			)
		}
		if s[4:6] != "02" {
			return blk, 0, fmt.Errorf(
				"%w: %s length-of-length %q, want \"02\"",
				ErrMalformedOptionalBlock, id, s[4:6],
			)
		}
		n, err := strconv.ParseUint(s[6:10], 16, 16)
		if err != nil {
			return blk, 0, fmt.Errorf(
				"%w: %s extended length %q is not hex",
				ErrMalformedOptionalBlock, id, s[6:10],
			)
		}
		if n <= optBlockMaxShort {
			return blk, 0, fmt.Errorf(
				"%w: %s extended length %d fits the short form",
				ErrMalformedOptionalBlock, id, n,
			)
		}
		total = int(n)
		dataStart = optBlockExtMinLen
	} else {
		n, err := strconv.ParseUint(s[2:4], 16, 8)
		if err != nil {
			return blk, 0, fmt.Errorf(
				"%w: %s length %q is not hex",
				ErrMalformedOptionalBlock, id, s[2:4],
			)
		}
		if n < optBlockMinLen {
			return blk, 0, fmt.Errorf(
				"%w: %s length %d below minimum %d",
				ErrMalformedOptionalBlock, id, n, optBlockMinLen,
			)
		}
		total = int(n)
		dataStart = optBlockMinLen
	}

	if total > len(s) {
		return blk, 0, fmt.Errorf(
			"%w: %s declared length %d exceeds remaining %d",
			ErrMalformedOptionalBlock, id, total, len(s),
		)
	}
	data := s[dataStart:total]
	if !isASCII(data) {
		return blk, 0, fmt.Errorf("%w: %s data is not ascii", ErrMalformedOptionalBlock, id)
	}

	return OptionalBlock{ID: id, Data: data}, total, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}

	return true
}
