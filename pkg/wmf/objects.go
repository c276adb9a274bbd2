package wmf

import (
	"fmt"
	"math"
)

// Point16 is a 16-bit logical coordinate pair.
type Point16 struct {
	X, Y int16
}

// Rect16 is a 16-bit rectangle.
type Rect16 struct {
	Left, Top, Right, Bottom int16
}

// PairF is a float pair, used for physical sizes in inches.
type PairF struct {
	X, Y float32
}

// ColorRef is stored on disk as red, green, blue, reserved. It is never byte
// swapped.
type ColorRef struct {
	R, G, B, Reserved uint8
}

func RGB(r, g, b uint8) ColorRef { return ColorRef{R: r, G: g, B: b} }

func (c ColorRef) put(b []byte) { b[0], b[1], b[2], b[3] = c.R, c.G, c.B, c.Reserved }

func colorAt(b []byte) ColorRef { return ColorRef{R: b[0], G: b[1], B: b[2], Reserved: b[3]} }

func (c ColorRef) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// PaletteEntry is one logical palette color.
type PaletteEntry struct {
	Value, Blue, Green, Red uint8
}

// Palette is the payload of the palette records.
type Palette struct {
	Start   uint16
	Entries []PaletteEntry
}

func (p Palette) size() int { return 4 + 4*len(p.Entries) }

// Pen is a logical pen. Only the first width word is meaningful.
type Pen struct {
	Style uint16
	Width uint16
	Color ColorRef
}

// LogBrush is a logical brush.
type LogBrush struct {
	Style uint16
	Color ColorRef
	Hatch uint16
}

const fontCoreSize = 18

// Font is a logical font. FaceName holds the encoded face bytes without the
// terminating NUL.
type Font struct {
	Height, Width, Escapement, Orientation, Weight int16

	Italic, Underline, StrikeOut         uint8
	CharSet, OutPrecision, ClipPrecision uint8
	Quality, PitchAndFamily              uint8
	FaceName                             []byte
}

// NewFont returns a font with the given face encoded as Windows-1252.
func NewFont(height int16, weight int16, face string) (Font, error) {
	name, err := EncodeText(face)
	if err != nil {
		return Font{}, err
	}
	return Font{Height: height, Weight: weight, FaceName: name}, nil
}

// Face decodes the face name.
func (f Font) Face() string { return DecodeText(f.FaceName) }

func (f Font) size() int { return fontCoreSize + up2(len(f.FaceName)+1) }

const bitmap16HeaderSize = 10

// Bitmap16 is a device dependent bitmap. Bits borrows the record buffer when
// decoded.
type Bitmap16 struct {
	Type       int16
	Width      int16
	Height     int16
	WidthBytes int16
	Planes     uint8
	BitsPixel  uint8
	Bits       []byte
}

// NewBitmap16 builds a bitmap whose scan lines are padded to align bytes
// (AlignWord or AlignDWord).
func NewBitmap16(width, height int16, bitsPixel uint8, align int, bits []byte) (Bitmap16, error) {
	if width <= 0 || height <= 0 || bitsPixel == 0 || align <= 0 {
		return Bitmap16{}, fmt.Errorf("%w: bitmap %dx%d at %d bpp", ErrInvalidArgument, width, height, bitsPixel)
	}
	stride := (int(width)*int(bitsPixel) + 7) / 8
	stride = (stride + align - 1) / align * align
	if stride > math.MaxInt16 {
		return Bitmap16{}, fmt.Errorf("%w: bitmap stride %d", ErrInvalidArgument, stride)
	}
	if len(bits) < stride*int(height) {
		return Bitmap16{}, fmt.Errorf("%w: bitmap has %d bytes, need %d", ErrInvalidArgument, len(bits), stride*int(height))
	}
	return Bitmap16{
		Width:      width,
		Height:     height,
		WidthBytes: int16(stride),
		Planes:     1,
		BitsPixel:  bitsPixel,
		Bits:       bits[:stride*int(height)],
	}, nil
}

// size is the padded on-disk size including the bits.
func (b Bitmap16) size() int { return up4(bitmap16HeaderSize + len(b.Bits)) }

// plausible reports whether the header fields could describe a real bitmap.
func (b Bitmap16) plausible() bool {
	return b.Width > 0 && b.Height > 0 && b.Planes == 1 && b.BitsPixel != 0
}

func (b Bitmap16) put(dst []byte) {
	put16(dst, 0, uint16(b.Type))
	put16(dst, 2, uint16(b.Width))
	put16(dst, 4, uint16(b.Height))
	put16(dst, 6, uint16(b.WidthBytes))
	dst[8] = b.Planes
	dst[9] = b.BitsPixel
	copy(dst[bitmap16HeaderSize:], b.Bits)
}

func bitmap16At(src []byte) (Bitmap16, error) {
	if len(src) < bitmap16HeaderSize {
		return Bitmap16{}, fmt.Errorf("%w: bitmap header needs %d bytes, have %d", ErrShortRecord, bitmap16HeaderSize, len(src))
	}
	return Bitmap16{
		Type:       int16(le16(src, 0)),
		Width:      int16(le16(src, 2)),
		Height:     int16(le16(src, 4)),
		WidthBytes: int16(le16(src, 6)),
		Planes:     src[8],
		BitsPixel:  src[9],
		Bits:       src[bitmap16HeaderSize:],
	}, nil
}

// ScanLine is one horizontal span of a region scan.
type ScanLine struct {
	Left, Right uint16
}

// Scan is a band of a region. On disk Count holds the number of coordinates
// (twice the number of lines) and is repeated after the lines.
type Scan struct {
	Top, Bottom uint16
	Lines       []ScanLine
}

func (s Scan) size() int { return 8 + 4*len(s.Lines) }

const regionHeaderSize = 20

// Region is the payload of CREATEREGION.
type Region struct {
	MaxScan int16
	Bounds  Rect16
	Scans   []Scan
}

func (r Region) size() int {
	n := regionHeaderSize
	for _, s := range r.Scans {
		n += s.size()
	}
	return n
}

func (r Region) put(b []byte) {
	put16(b, 0, 0)
	put16(b, 2, RegionType)
	put16(b, 4, 0)
	put16(b, 6, uint16(r.size()))
	put16(b, 8, uint16(len(r.Scans)))
	put16(b, 10, uint16(r.MaxScan))
	putRect(b[12:], r.Bounds)
	off := regionHeaderSize
	for _, s := range r.Scans {
		put16(b, off, uint16(2*len(s.Lines)))
		put16(b, off+2, s.Top)
		put16(b, off+4, s.Bottom)
		off += 6
		for _, l := range s.Lines {
			put16(b, off, l.Left)
			put16(b, off+2, l.Right)
			off += 4
		}
		put16(b, off, uint16(2*len(s.Lines)))
		off += 2
	}
}

func regionAt(b []byte) (Region, error) {
	if len(b) < regionHeaderSize {
		return Region{}, fmt.Errorf("%w: region needs %d bytes, have %d", ErrShortRecord, regionHeaderSize, len(b))
	}
	r := Region{
		MaxScan: int16(le16(b, 10)),
		Bounds:  rectAt(b[12:]),
	}
	count := int(le16(b, 8))
	off := regionHeaderSize
	r.Scans = make([]Scan, 0, min(count, (len(b)-off)/8))
	for i := 0; i < count; i++ {
		if off+6 > len(b) {
			return Region{}, fmt.Errorf("%w: region scan %d starts past the record", ErrShortRecord, i)
		}
		coords := int(le16(b, off))
		if coords%2 != 0 {
			return Region{}, fmt.Errorf("%w: region scan %d has an odd coordinate count %d", ErrCorruptRecord, i, coords)
		}
		s := Scan{Top: le16(b, off+2), Bottom: le16(b, off+4)}
		off += 6
		if off+2*coords+2 > len(b) {
			return Region{}, fmt.Errorf("%w: region scan %d runs past the record", ErrShortRecord, i)
		}
		s.Lines = make([]ScanLine, coords/2)
		for j := range s.Lines {
			s.Lines[j] = ScanLine{Left: le16(b, off), Right: le16(b, off+2)}
			off += 4
		}
		off += 2
		r.Scans = append(r.Scans, s)
	}
	return r, nil
}

func putPoint(b []byte, p Point16) {
	put16(b, 0, uint16(p.X))
	put16(b, 2, uint16(p.Y))
}

func pointAt(b []byte) Point16 {
	return Point16{X: int16(le16(b, 0)), Y: int16(le16(b, 2))}
}

// putRect writes left, top, right, bottom.
func putRect(b []byte, r Rect16) {
	put16(b, 0, uint16(r.Left))
	put16(b, 2, uint16(r.Top))
	put16(b, 4, uint16(r.Right))
	put16(b, 6, uint16(r.Bottom))
}

func rectAt(b []byte) Rect16 {
	return Rect16{
		Left:   int16(le16(b, 0)),
		Top:    int16(le16(b, 2)),
		Right:  int16(le16(b, 4)),
		Bottom: int16(le16(b, 6)),
	}
}

// SaneRect returns r with its corners ordered so Left <= Right and
// Top <= Bottom.
func SaneRect(r Rect16) Rect16 {
	if r.Left > r.Right {
		r.Left, r.Right = r.Right, r.Left
	}
	if r.Top > r.Bottom {
		r.Top, r.Bottom = r.Bottom, r.Top
	}
	return r
}
