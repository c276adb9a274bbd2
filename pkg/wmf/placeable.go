package wmf

import (
	"fmt"
	"math"
)

// Placeable is the optional header that fixes the physical size of the
// picture. Dst is in logical units; Inch is the number of logical units per
// inch.
type Placeable struct {
	HWmf     uint16
	Dst      Rect16
	Inch     uint16
	Reserved uint32
	Checksum uint16
}

// Checksum16 is the XOR of the first ten 16-bit words of an encoded placeable
// header.
func Checksum16(b []byte) uint16 {
	var sum uint16
	for i := 0; i < 10; i++ {
		sum ^= le16(b, 2*i)
	}
	return sum
}

// MarshalBinary encodes the header and fills in the checksum.
func (p Placeable) MarshalBinary() ([]byte, error) {
	b := make([]byte, PlaceableSize)
	put32(b, 0, PlaceableKey)
	put16(b, 4, p.HWmf)
	putRect(b[6:], p.Dst)
	put16(b, 14, p.Inch)
	put32(b, 16, p.Reserved)
	put16(b, 20, Checksum16(b))
	return b, nil
}

// Valid reports whether the stored checksum matches the other fields.
func (p Placeable) Valid() bool {
	b, _ := p.MarshalBinary()
	return le16(b, 20) == p.Checksum
}

// ParsePlaceable decodes a placeable header. It fails when b does not start
// with PlaceableKey.
func ParsePlaceable(b []byte) (Placeable, error) {
	if len(b) < PlaceableSize {
		return Placeable{}, fmt.Errorf("%w: placeable header needs %d bytes, have %d", ErrCorruptFile, PlaceableSize, len(b))
	}
	if le32(b, 0) != PlaceableKey {
		return Placeable{}, fmt.Errorf("%w: placeable key %#08x", ErrCorruptFile, le32(b, 0))
	}
	return Placeable{
		HWmf:     le16(b, 4),
		Dst:      rectAt(b[6:]),
		Inch:     le16(b, 14),
		Reserved: le32(b, 16),
		Checksum: le16(b, 20),
	}, nil
}

// Header is the 18-byte main metafile header. Sizew and MaxSize count 16-bit
// words.
type Header struct {
	Type       uint16 `json:"type"`
	HeaderSize uint16 `json:"header_size"` // in words, 9
	Version    uint16 `json:"version"`
	Sizew      uint32 `json:"size_words"`
	NObjects   uint16 `json:"objects"`
	MaxSize    uint32 `json:"max_record_words"`
	NMembers   uint16 `json:"members"`
}

func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)
	h.put(b)
	return b, nil
}

func (h Header) put(b []byte) {
	put16(b, 0, h.Type)
	put16(b, 2, h.HeaderSize)
	put16(b, 4, h.Version)
	put32(b, 6, h.Sizew)
	put16(b, 10, h.NObjects)
	put32(b, 12, h.MaxSize)
	put16(b, 16, h.NMembers)
}

// ParseHeader decodes the main header at the start of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, have %d", ErrCorruptFile, HeaderSize, len(b))
	}
	return Header{
		Type:       le16(b, 0),
		HeaderSize: le16(b, 2),
		Version:    le16(b, 4),
		Sizew:      le32(b, 6),
		NObjects:   le16(b, 10),
		MaxSize:    le32(b, 12),
		NMembers:   le16(b, 16),
	}, nil
}

// NewHeader encodes the start of a metafile: a placeable header sized to
// size inches at dpi logical units per inch followed by the main header, or
// only the main header when size is nil. dpi 0 selects DefaultDPI. The size
// fields of the main header are left for the Builder to fill in.
func NewHeader(size *PairF, dpi uint32) ([]byte, error) {
	main := Header{
		Type:       MemoryMetafile,
		HeaderSize: HeaderSize / 2,
		Version:    MetaVersion300,
	}
	mb, _ := main.MarshalBinary()
	if size == nil {
		return mb, nil
	}
	if dpi == 0 {
		dpi = DefaultDPI
	}
	if dpi > MaxPlaceableCoord {
		return nil, fmt.Errorf("%w: dpi %d", ErrInvalidArgument, dpi)
	}
	x := math.Round(float64(size.X) * float64(dpi))
	y := math.Round(float64(size.Y) * float64(dpi))
	if x < 0 || y < 0 || x > MaxPlaceableCoord || y > MaxPlaceableCoord {
		return nil, fmt.Errorf("%w: %gx%g inches at %d dpi is outside 0..%d", ErrInvalidArgument, size.X, size.Y, dpi, MaxPlaceableCoord)
	}
	p := Placeable{
		Dst:  Rect16{Right: int16(x), Bottom: int16(y)},
		Inch: uint16(dpi),
	}
	pb, _ := p.MarshalBinary()
	return append(pb, mb...), nil
}

// HeaderLen returns the number of bytes taken by the placeable header (when
// present) and the main header at the start of b, using the header size
// word of the main header.
func HeaderLen(b []byte) (int, error) {
	off := 0
	if len(b) >= 4 && le32(b, 0) == PlaceableKey {
		off = PlaceableSize
	}
	h, err := ParseHeader(b[min(off, len(b)):])
	if err != nil {
		return 0, err
	}
	n := off + 2*int(h.HeaderSize)
	if int(h.HeaderSize)*2 < HeaderSize || n > len(b) {
		return 0, fmt.Errorf("%w: header size %d words", ErrCorruptFile, h.HeaderSize)
	}
	return n, nil
}
