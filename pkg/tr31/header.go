package tr31

import (
	"crypto/aes"
	"fmt"
	"slices"
	"strings"
)

// Key block version identifiers. Versions A through D parse; only D wraps.
const (
	VersionA byte = 'A'
	VersionB byte = 'B'
	VersionC byte = 'C'
	VersionD byte = 'D'
)

const (
	headerFixedLen    = 16
	maxKeyBlockLen    = 9999
	maxOptionalBlocks = 99
	reservedField     = "00"
	defaultKeyVersion = "00"

	// A PB padding block shorter than this is widened by a full cipher block.
	minPadBlockLen = 6
)

// Field tables from ASC X9 TR 31-2018.
var (
	keyUsages = []string{
		"B0", "B1", "B2", "C0", "D0", "D1", "D2",
		"E0", "E1", "E2", "E3", "E4", "E5", "E6",
		"K0", "K1", "K2", "K3",
		"M0", "M1", "M2", "M3", "M4", "M5", "M6", "M7", "M8",
		"P0", "S0",
	}
	algorithms      = []string{"A", "D", "E", "H", "R", "S", "T"}
	modesOfUse      = []string{"B", "C", "D", "E", "G", "N", "S", "T", "V", "X", "Y"}
	exportabilities = []string{"E", "N", "S"}
	versions        = []byte{VersionA, VersionB, VersionC, VersionD}
)

// KeyUsages returns the key usage codes accepted in headers.
func KeyUsages() []string { return slices.Clone(keyUsages) }

// Algorithms returns the algorithm codes accepted in headers.
func Algorithms() []string { return slices.Clone(algorithms) }

// ModesOfUse returns the mode-of-use codes accepted in headers.
func ModesOfUse() []string { return slices.Clone(modesOfUse) }

// Exportabilities returns the exportability codes accepted in headers.
func Exportabilities() []string { return slices.Clone(exportabilities) }

// OptionalBlockIDs returns the optional block IDs accepted in headers.
func OptionalBlockIDs() []string { return slices.Clone(optionalBlockIDs) }

// Header is a key block header: the 16-char fixed part plus the ordered
// optional blocks that follow it. Build headers with NewHeader or ParseHeader
// so field validation happens up front; optional blocks go through
// AddOptionalBlock, which keeps order and rejects duplicate IDs.
type Header struct {
	Version       byte
	KeyUsage      string
	Algorithm     byte
	ModeOfUse     byte
	KeyVersionNum string
	Exportability byte
	Reserved      string

	optionalBlocks []OptionalBlock
	keyBlockLen    int
}

// NewHeader returns a version D header with validated fields. An empty kvn
// defaults to "00". Algorithm, mode of use and exportability are single
// characters.
func NewHeader(usage, algorithm, modeOfUse, kvn, exportability string) (*Header, error) {
	if len(algorithm) != 1 || len(modeOfUse) != 1 || len(exportability) != 1 {
		return nil, fmt.Errorf(
			"%w: algorithm, mode of use and exportability are single characters",
			ErrInvalidHeader,
		)
	}
	if kvn == "" {
		kvn = defaultKeyVersion
	}
	h := &Header{
		Version:       VersionD,
		KeyUsage:      usage,
		Algorithm:     algorithm[0],
		ModeOfUse:     modeOfUse[0],
		KeyVersionNum: kvn,
		Exportability: exportability[0],
		Reserved:      reservedField,
	}
	if err := h.validate(); err != nil {
		return nil, err
	}

	return h, nil
}

// ParseHeader parses the header at the start of s: the 16 fixed chars and as
// many optional blocks as the header declares. s may extend past the header
// (a whole key block parses its header this way).
func ParseHeader(s string) (*Header, error) {
	if len(s) < headerFixedLen {
		return nil, fmt.Errorf(
			"%w: %d chars, need at least %d",
			ErrMalformedHeader, len(s), headerFixedLen,
		)
	}
	declaredLen, ok := parseDecimalField(s[1:5])
	if !ok {
		return nil, fmt.Errorf("%w: length field %q is not numeric", ErrMalformedHeader, s[1:5])
	}
	numOpt, ok := parseDecimalField(s[12:14])
	if !ok {
		return nil, fmt.Errorf(
			"%w: optional block count %q is not numeric",
			ErrMalformedHeader, s[12:14],
		)
	}

	h := &Header{
		Version:       s[0],
		KeyUsage:      s[5:7],
		Algorithm:     s[7],
		ModeOfUse:     s[8],
		KeyVersionNum: s[9:11],
		Exportability: s[11],
		Reserved:      s[14:16],
		keyBlockLen:   declaredLen,
	}
	if err := h.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}

	if numOpt > 0 && len(s) < headerFixedLen+optBlockMinLen {
		return nil, fmt.Errorf(
			"%w: %d optional blocks declared but no room for any",
			ErrMalformedHeader, numOpt,
		)
	}
	rest := s[headerFixedLen:]
	for i := 0; i < numOpt; i++ {
		blk, consumed, err := parseOptionalBlock(rest)
		if err != nil {
			return nil, err
		}
		if h.hasOptionalBlock(blk.ID) {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrMalformedOptionalBlock, blk.ID)
		}
		h.optionalBlocks = append(h.optionalBlocks, blk)
		rest = rest[consumed:]
	}

	return h, nil
}

func (h *Header) validate() error {
	if !slices.Contains(versions, h.Version) {
		return fmt.Errorf("%w: unknown version %q", ErrInvalidHeader, string(h.Version))
	}
	if !slices.Contains(keyUsages, h.KeyUsage) {
		return fmt.Errorf("%w: unknown key usage %q", ErrInvalidHeader, h.KeyUsage)
	}
	if !slices.Contains(algorithms, string(h.Algorithm)) {
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidHeader, string(h.Algorithm))
	}
	if !slices.Contains(modesOfUse, string(h.ModeOfUse)) {
		return fmt.Errorf("%w: unknown mode of use %q", ErrInvalidHeader, string(h.ModeOfUse))
	}
	if len(h.KeyVersionNum) != 2 || !isASCII(h.KeyVersionNum) {
		return fmt.Errorf("%w: key version %q", ErrInvalidHeader, h.KeyVersionNum)
	}
	if !slices.Contains(exportabilities, string(h.Exportability)) {
		return fmt.Errorf(
			"%w: unknown exportability %q",
			ErrInvalidHeader, string(h.Exportability),
		)
	}
	if h.Reserved != reservedField {
		return fmt.Errorf("%w: reserved field %q", ErrInvalidHeader, h.Reserved)
	}

	return nil
}

// AddOptionalBlock appends a validated optional block, rejecting duplicates.
func (h *Header) AddOptionalBlock(id, data string) error {
	blk, err := newOptionalBlock(id, data)
	if err != nil {
		return err
	}
	if h.hasOptionalBlock(id) {
		return fmt.Errorf("%w: duplicate id %q", ErrMalformedOptionalBlock, id)
	}
	if len(h.optionalBlocks) >= maxOptionalBlocks {
		return fmt.Errorf(
			"%w: at most %d optional blocks",
			ErrMalformedOptionalBlock, maxOptionalBlocks,
		)
	}
	h.optionalBlocks = append(h.optionalBlocks, blk)

	return nil
}

// OptionalBlocks returns the optional blocks in serialization order.
func (h *Header) OptionalBlocks() []OptionalBlock {
	return slices.Clone(h.optionalBlocks)
}

func (h *Header) hasOptionalBlock(id string) bool {
	return slices.ContainsFunc(h.optionalBlocks, func(b OptionalBlock) bool {
		return b.ID == id
	})
}

// Len returns the serialized header length in characters.
func (h *Header) Len() int {
	n := headerFixedLen
	for _, b := range h.optionalBlocks {
		n += b.WireLen()
	}

	return n
}

// KeyBlockLength returns the total key block length declared by the header.
// Zero until the header has been through Wrap or was parsed from the wire.
func (h *Header) KeyBlockLength() int { return h.keyBlockLen }

// Finalize pads the optional block list so the serialized header ends on a
// cipher block boundary, appending a PB block when needed. Any existing PB
// block is recomputed, so calling Finalize again is harmless.
func (h *Header) Finalize() error {
	h.optionalBlocks = slices.DeleteFunc(h.optionalBlocks, func(b OptionalBlock) bool {
		return b.ID == optBlockPadding
	})
	if len(h.optionalBlocks) == 0 {
		return nil
	}

	blockSize := 8
	if h.Version == VersionD {
		blockSize = aes.BlockSize
	}
	rem := h.Len() % blockSize
	if rem == 0 {
		return nil
	}
	pad := blockSize - rem
	if pad < minPadBlockLen {
		pad += blockSize
	}

	return h.AddOptionalBlock(optBlockPadding, strings.Repeat("0", pad-optBlockMinLen))
}

// String serializes the header: fixed fields, then optional blocks.
func (h *Header) String() string {
	var sb strings.Builder
	sb.Grow(h.Len())
	sb.WriteByte(h.Version)
	fmt.Fprintf(&sb, "%04d", h.keyBlockLen)
	sb.WriteString(h.KeyUsage)
	sb.WriteByte(h.Algorithm)
	sb.WriteByte(h.ModeOfUse)
	sb.WriteString(h.KeyVersionNum)
	sb.WriteByte(h.Exportability)
	fmt.Fprintf(&sb, "%02d", len(h.optionalBlocks))
	sb.WriteString(h.Reserved)
	for _, b := range h.optionalBlocks {
		sb.WriteString(b.String())
	}

	return sb.String()
}

func parseDecimalField(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}

	return n, true
}
