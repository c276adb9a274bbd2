package wmf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"

	"golang.org/x/image/bmp"
)

const (
	coreHeaderSize = 12
	infoHeaderSize = 40
	fileHeaderSize = 14

	BIRGB       uint32 = 0
	BIRLE8      uint32 = 1
	BIRLE4      uint32 = 2
	BIBitfields uint32 = 3
	BIJPEG      uint32 = 4
	BIPNG       uint32 = 5
)

// DIB is a packed device independent bitmap: a BITMAPCOREHEADER or
// BITMAPINFOHEADER, an optional color table and the pixel array. Decoded
// records return views into the record buffer.
type DIB []byte

// DIBHeader is the decoded bitmap header. Core headers are widened.
type DIBHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// Header decodes the bitmap header.
func (d DIB) Header() (DIBHeader, error) {
	if len(d) < 4 {
		return DIBHeader{}, fmt.Errorf("%w: DIB of %d bytes", ErrShortRecord, len(d))
	}
	size := le32(d, 0)
	if size == coreHeaderSize {
		if len(d) < coreHeaderSize {
			return DIBHeader{}, fmt.Errorf("%w: core header needs %d bytes, have %d", ErrShortRecord, coreHeaderSize, len(d))
		}
		return DIBHeader{
			Size:     size,
			Width:    int32(le16(d, 4)),
			Height:   int32(le16(d, 6)),
			Planes:   le16(d, 8),
			BitCount: le16(d, 10),
		}, nil
	}
	if size < infoHeaderSize || uint64(size) > uint64(len(d)) {
		return DIBHeader{}, fmt.Errorf("%w: DIB header size %d with %d bytes available", ErrCorruptRecord, size, len(d))
	}
	return DIBHeader{
		Size:          size,
		Width:         int32(le32(d, 4)),
		Height:        int32(le32(d, 8)),
		Planes:        le16(d, 12),
		BitCount:      le16(d, 14),
		Compression:   le32(d, 16),
		SizeImage:     le32(d, 20),
		XPelsPerMeter: int32(le32(d, 24)),
		YPelsPerMeter: int32(le32(d, 28)),
		ClrUsed:       le32(d, 32),
		ClrImportant:  le32(d, 36),
	}, nil
}

// ColorCount is the number of entries in the color table.
func (h DIBHeader) ColorCount() int {
	if h.ClrUsed != 0 {
		return int(h.ClrUsed)
	}
	var n int
	switch h.BitCount {
	case 1:
		n = 2
	case 4:
		n = 16
	case 8:
		n = 256
	default:
		return 0
	}
	area := int64(h.Width) * int64(h.Height)
	if area < 0 {
		area = -area
	}
	if int64(n) > area {
		n = int(area)
	}
	return n
}

func (h DIBHeader) colorTableSize() int {
	entry := 4
	if h.Size == coreHeaderSize {
		entry = 3
	}
	n := h.ColorCount() * entry
	if h.Size == infoHeaderSize && h.Compression == BIBitfields {
		n += 12
	}
	return n
}

// Colors returns a view of the color table.
func (d DIB) Colors() ([]byte, error) {
	h, err := d.Header()
	if err != nil {
		return nil, err
	}
	start := int(h.Size)
	end := start + h.colorTableSize()
	if end > len(d) {
		return nil, fmt.Errorf("%w: color table ends at %d, DIB has %d bytes", ErrShortRecord, end, len(d))
	}
	return d[start:end], nil
}

// Pixels returns a view of the pixel array.
func (d DIB) Pixels() ([]byte, error) {
	h, err := d.Header()
	if err != nil {
		return nil, err
	}
	start := int(h.Size) + h.colorTableSize()
	if start > len(d) {
		return nil, fmt.Errorf("%w: pixels start at %d, DIB has %d bytes", ErrShortRecord, start, len(d))
	}
	return d[start:], nil
}

// Image decodes the bitmap through the BMP decoder.
func (d DIB) Image() (image.Image, error) {
	h, err := d.Header()
	if err != nil {
		return nil, err
	}
	if h.Size == coreHeaderSize {
		return nil, fmt.Errorf("%w: core header bitmaps", ErrUnsupported)
	}
	fh := make([]byte, fileHeaderSize, fileHeaderSize+len(d))
	fh[0], fh[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(fh[2:], uint32(fileHeaderSize+len(d)))
	binary.LittleEndian.PutUint32(fh[10:], uint32(fileHeaderSize+int(h.Size)+h.colorTableSize()))
	img, err := bmp.Decode(bytes.NewReader(append(fh, d...)))
	if err != nil {
		return nil, fmt.Errorf("decode DIB: %w", err)
	}
	return img, nil
}

// NewDIB packs an uncompressed bitmap with a BITMAPINFOHEADER. palette is
// required for 1, 4 and 8 bit images; pixels are bottom-up rows padded to
// four bytes.
func NewDIB(width, height int32, bitCount uint16, palette []ColorRef, pixels []byte) (DIB, error) {
	if width <= 0 || height == 0 {
		return nil, fmt.Errorf("%w: DIB %dx%d", ErrInvalidArgument, width, height)
	}
	switch bitCount {
	case 1, 4, 8:
		if len(palette) == 0 || len(palette) > 1<<bitCount {
			return nil, fmt.Errorf("%w: %d bpp DIB with %d palette entries", ErrInvalidArgument, bitCount, len(palette))
		}
	case 16, 24, 32:
		palette = nil
	default:
		return nil, fmt.Errorf("%w: %d bpp DIB", ErrInvalidArgument, bitCount)
	}
	stride := (int(width)*int(bitCount) + 31) / 32 * 4
	rows := int(height)
	if rows < 0 {
		rows = -rows
	}
	need := stride * rows
	if len(pixels) < need {
		return nil, fmt.Errorf("%w: DIB has %d pixel bytes, need %d", ErrInvalidArgument, len(pixels), need)
	}
	out := make(DIB, infoHeaderSize+4*len(palette)+need)
	put32(out, 0, infoHeaderSize)
	put32(out, 4, uint32(width))
	put32(out, 8, uint32(height))
	put16(out, 12, 1)
	put16(out, 14, bitCount)
	put32(out, 16, BIRGB)
	put32(out, 20, uint32(need))
	put32(out, 32, uint32(len(palette)))
	off := infoHeaderSize
	for _, c := range palette {
		out[off], out[off+1], out[off+2], out[off+3] = c.B, c.G, c.R, 0
		off += 4
	}
	copy(out[off:], pixels[:need])
	return out, nil
}
