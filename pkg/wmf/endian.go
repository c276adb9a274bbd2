package wmf

import (
	"encoding/binary"
	"fmt"
)

// swapper reverses fields of one buffer in place. Every accessor returns the
// little endian value of the field it swaps: read before swapping when the
// buffer is being converted to the foreign order, after otherwise.
type swapper struct {
	b         []byte
	toForeign bool
}

func (s *swapper) check(off, n int) error {
	if off < 0 || n < 0 || off+n > len(s.b) {
		return fmt.Errorf("%w: field at %d+%d past %d bytes", ErrCorruptRecord, off, n, len(s.b))
	}
	return nil
}

func (s *swapper) peek16(off int) uint16 {
	if s.toForeign {
		return binary.LittleEndian.Uint16(s.b[off:])
	}
	return binary.BigEndian.Uint16(s.b[off:])
}

func (s *swapper) peek32(off int) uint32 {
	if s.toForeign {
		return binary.LittleEndian.Uint32(s.b[off:])
	}
	return binary.BigEndian.Uint32(s.b[off:])
}

func (s *swapper) word(off int) (uint16, error) {
	if err := s.check(off, 2); err != nil {
		return 0, err
	}
	v := s.peek16(off)
	Swap2(s.b[off:], 1)
	return v, nil
}

func (s *swapper) dword(off int) (uint32, error) {
	if err := s.check(off, 4); err != nil {
		return 0, err
	}
	v := s.peek32(off)
	Swap4(s.b[off:], 1)
	return v, nil
}

func (s *swapper) words(off, n int) error {
	if err := s.check(off, 2*n); err != nil {
		return err
	}
	Swap2(s.b[off:], n)
	return nil
}

func (s *swapper) dwords(off, n int) error {
	if err := s.check(off, 4*n); err != nil {
		return err
	}
	Swap4(s.b[off:], n)
	return nil
}

// wordsUpTo swaps at most n words, stopping at the end of the buffer.
func (s *swapper) wordsUpTo(off, n int) {
	if avail := (len(s.b) - off) / 2; avail < n {
		n = max(avail, 0)
	}
	Swap2(s.b[off:], n)
}

// bitmap16 swaps the four 16-bit fields of a Bitmap16 header.
func (s *swapper) bitmap16(off int) error { return s.words(off, 4) }

// dibHeader swaps a BITMAPCOREHEADER or BITMAPINFOHEADER. The color table
// and pixels are bytes and stay as they are.
func (s *swapper) dibHeader(off int) error {
	size, err := s.dword(off)
	if err != nil {
		return err
	}
	if size == coreHeaderSize {
		return s.words(off+4, 4)
	}
	if size < infoHeaderSize {
		return fmt.Errorf("%w: DIB header size %d", ErrCorruptRecord, size)
	}
	if err := s.dwords(off+4, 2); err != nil {
		return err
	}
	if err := s.words(off+12, 2); err != nil {
		return err
	}
	return s.dwords(off+16, 6)
}

// header swaps the common record header: the size as one u32 and the
// ordinal/xb pair as one u16.
func (s *swapper) header() error {
	if err := s.dwords(0, 1); err != nil {
		return err
	}
	return s.words(4, 1)
}

// peekHeader decodes a record header in either byte order without changing
// the buffer.
func peekHeader(rec []byte, toForeign bool) RecordHeader {
	if toForeign {
		h, _ := ParseRecordHeader(rec)
		return h
	}
	return RecordHeader{
		Size16: binary.BigEndian.Uint32(rec),
		Type:   RecordType(rec[5]),
		XB:     rec[4],
	}
}

type swapFunc func(s *swapper, h RecordHeader) error

func swapN(n int) swapFunc {
	return func(s *swapper, _ RecordHeader) error { return s.words(6, n) }
}

func swapU32N(n int) swapFunc {
	return func(s *swapper, _ RecordHeader) error {
		if err := s.dwords(6, 1); err != nil {
			return err
		}
		return s.words(10, n)
	}
}

func swapPaddedMode(s *swapper, _ RecordHeader) error {
	s.wordsUpTo(6, 2)
	return nil
}

// swapColorYX covers records with an optional lead word, a color and a y, x
// pair.
func swapColorYX(lead int) swapFunc {
	return func(s *swapper, _ RecordHeader) error {
		if err := s.words(6, lead); err != nil {
			return err
		}
		return s.words(6+2*lead+4, 2)
	}
}

func swapTextOut(s *swapper, _ RecordHeader) error {
	n, err := s.word(6)
	if err != nil {
		return err
	}
	return s.words(8+up2(int(int16(n))), 2)
}

func swapExtTextOut(s *swapper, _ RecordHeader) error {
	if err := s.words(6, 2); err != nil {
		return err
	}
	n, err := s.word(10)
	if err != nil {
		return err
	}
	opts, err := s.word(12)
	if err != nil {
		return err
	}
	length := int(int16(n))
	if length < 0 {
		return fmt.Errorf("%w: EXTTEXTOUT length %d", ErrCorruptRecord, length)
	}
	off := 14
	if opts&(ETOOpaque|ETOClipped) != 0 {
		if err := s.words(off, 4); err != nil {
			return err
		}
		off += 8
	}
	off += up2(length)
	if length > 0 && off+2*length <= len(s.b) {
		return s.words(off, length)
	}
	return nil
}

// swapBlit covers the four blit records. n is the number of fixed fields of
// the pixel layout; the no-pixel layout adds a reserved word.
func swapBlit(n int, dib bool) swapFunc {
	return func(s *swapper, h RecordHeader) error {
		if err := s.dwords(6, 1); err != nil {
			return err
		}
		if !h.HasPayload() {
			return s.words(10, n+1)
		}
		if err := s.words(10, n); err != nil {
			return err
		}
		if dib {
			return s.dibHeader(10 + 2*n)
		}
		return s.bitmap16(10 + 2*n)
	}
}

func swapPoints(s *swapper, _ RecordHeader) error {
	n, err := s.word(6)
	if err != nil {
		return err
	}
	return s.words(8, 2*int(n))
}

func swapPolyPolygon(s *swapper, _ RecordHeader) error {
	n, err := s.word(6)
	if err != nil {
		return err
	}
	total := 0
	for i := 0; i < int(n); i++ {
		c, err := s.word(8 + 2*i)
		if err != nil {
			return err
		}
		total += int(c)
	}
	return s.words(8+2*int(n), 2*total)
}

func swapEscape(s *swapper, _ RecordHeader) error {
	fn, err := s.word(6)
	if err != nil {
		return err
	}
	n, err := s.word(8)
	if err != nil {
		return err
	}
	switch fn {
	case EscSetLineCap, EscSetLineJoin, EscSetMiterLimit:
		if n >= 4 {
			return s.dwords(10, 1)
		}
	}
	return nil
}

func swapSetDIBToDev(s *swapper, _ RecordHeader) error {
	if err := s.words(6, 9); err != nil {
		return err
	}
	return s.dibHeader(24)
}

func swapStretchDIB(s *swapper, h RecordHeader) error {
	if err := swapU32N(9)(s, h); err != nil {
		return err
	}
	return s.dibHeader(28)
}

func swapDIBPatternBrush(s *swapper, _ RecordHeader) error {
	style, err := s.word(6)
	if err != nil {
		return err
	}
	if err := s.words(8, 1); err != nil {
		return err
	}
	if style == BSPattern && s.check(10, bitmap16HeaderSize) == nil {
		bm := Bitmap16{
			Width:     int16(s.peek16(12)),
			Height:    int16(s.peek16(14)),
			Planes:    s.b[18],
			BitsPixel: s.b[19],
		}
		if bm.plausible() {
			return s.bitmap16(10)
		}
	}
	return s.dibHeader(10)
}

func swapBrush(s *swapper, _ RecordHeader) error {
	if err := s.words(6, 1); err != nil {
		return err
	}
	return s.words(12, 1)
}

func swapRegion(s *swapper, _ RecordHeader) error {
	if err := s.words(6, 10); err != nil {
		return err
	}
	s.wordsUpTo(6+regionHeaderSize, (len(s.b)-6-regionHeaderSize)/2)
	return nil
}

// swappers is indexed by ordinal. A nil entry swaps only the header; that
// covers records without multi-byte fields and the unsupported ordinals.
var swappers = [256]swapFunc{
	TypeSetBkMode:             swapPaddedMode,
	TypeSetMapMode:            swapN(1),
	TypeSetROP2:               swapPaddedMode,
	TypeSetPolyFillMode:       swapPaddedMode,
	TypeSetStretchBltMode:     swapPaddedMode,
	TypeSetTextCharExtra:      swapN(1),
	TypeSetTextJustification:  swapN(2),
	TypeSetWindowOrg:          swapN(2),
	TypeSetWindowExt:          swapN(2),
	TypeSetViewportOrg:        swapN(2),
	TypeSetViewportExt:        swapN(2),
	TypeOffsetWindowOrg:       swapN(2),
	TypeScaleWindowExt:        swapN(4),
	TypeOffsetViewportOrg:     swapN(2),
	TypeScaleViewportExt:      swapN(4),
	TypeLineTo:                swapN(2),
	TypeMoveTo:                swapN(2),
	TypeExcludeClipRect:       swapN(4),
	TypeIntersectClipRect:     swapN(4),
	TypeArc:                   swapN(8),
	TypeEllipse:               swapN(4),
	TypeFloodFill:             swapColorYX(1),
	TypePie:                   swapN(8),
	TypeRectangle:             swapN(4),
	TypeRoundRect:             swapN(6),
	TypePatBlt:                swapU32N(4),
	TypeSetPixel:              swapColorYX(0),
	TypeOffsetClipRgn:         swapN(2),
	TypeTextOut:               swapTextOut,
	TypeBitBlt:                swapBlit(6, false),
	TypeStretchBlt:            swapBlit(8, false),
	TypePolygon:               swapPoints,
	TypePolyline:              swapPoints,
	TypeEscape:                swapEscape,
	TypeRestoreDC:             swapN(1),
	TypeFillRegion:            swapN(2),
	TypeFrameRegion:           swapN(4),
	TypeInvertRegion:          swapN(1),
	TypePaintRegion:           swapN(1),
	TypeSelectClipRegion:      swapN(1),
	TypeSelectObject:          swapN(1),
	TypeSetTextAlign:          swapPaddedMode,
	TypeChord:                 swapN(8),
	TypeSetMapperFlags:        func(s *swapper, _ RecordHeader) error { return s.dwords(6, 1) },
	TypeExtTextOut:            swapExtTextOut,
	TypeSetDIBToDev:           swapSetDIBToDev,
	TypeSelectPalette:         swapN(1),
	TypeAnimatePalette:        swapN(2),
	TypeSetPalEntries:         swapN(2),
	TypePolyPolygon:           swapPolyPolygon,
	TypeResizePalette:         swapN(1),
	TypeDIBBitBlt:             swapBlit(6, true),
	TypeDIBStretchBlt:         swapBlit(8, true),
	TypeDIBCreatePatternBrush: swapDIBPatternBrush,
	TypeStretchDIB:            swapStretchDIB,
	TypeExtFloodFill:          swapColorYX(1),
	TypeDeleteObject:          swapN(1),
	TypeCreatePalette:         swapN(2),
	TypeCreatePatternBrush:    func(s *swapper, _ RecordHeader) error { return s.bitmap16(6) },
	TypeCreatePenIndirect:     swapN(3),
	TypeCreateFontIndirect:    swapN(5),
	TypeCreateBrushIndirect:   swapBrush,
	TypeCreateRegion:          swapRegion,
}

func swapOne(rec []byte, h RecordHeader, toForeign bool) error {
	s := &swapper{b: rec, toForeign: toForeign}
	if err := s.header(); err != nil {
		return err
	}
	if fn := swappers[h.Type]; fn != nil {
		if err := fn(s, h); err != nil {
			return fmt.Errorf("%s: %w", h.Type, err)
		}
	}
	return nil
}

// SwapRecord converts one record between little endian and the reversed
// byte order. toForeign selects the direction: true converts a little endian
// record, false converts a reversed one back. Colors, palette entries, text
// and pixel data are left alone. On error the record may be partially
// converted.
func SwapRecord(rec []byte, toForeign bool) error {
	if len(rec) < RecordHeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrShortRecord, len(rec))
	}
	h := peekHeader(rec, toForeign)
	if h.Size() < RecordHeaderSize || h.Size() > uint64(len(rec)) {
		return fmt.Errorf("%w: %s declares %d bytes, %d available", ErrCorruptRecord, h.Type, h.Size(), len(rec))
	}
	return swapOne(rec[:h.Size()], h, toForeign)
}

// SwapFile converts a whole metafile in place: the placeable header when
// present, the main header and every record up to and including EOF.
// Records are located with sizes read in the order the buffer is in, so a
// truncated or corrupt stream fails with ErrCorruptFile instead of reading
// past the end.
func SwapFile(buf []byte, toForeign bool) error {
	s := &swapper{b: buf, toForeign: toForeign}
	off := 0
	if len(buf) >= 4 && s.peek32(0) == PlaceableKey {
		if len(buf) < PlaceableSize {
			return fmt.Errorf("%w: placeable header truncated", ErrCorruptFile)
		}
		_ = s.dwords(0, 1)  // Key
		_ = s.words(4, 6)   // HWmf, Dst, Inch
		_ = s.dwords(16, 1) // Reserved
		_ = s.words(20, 1)  // Checksum
		off = PlaceableSize
	}
	if len(buf)-off < HeaderSize {
		return fmt.Errorf("%w: header truncated at %d bytes", ErrCorruptFile, len(buf))
	}
	_, _ = s.word(off) // Type
	hwords, _ := s.word(off + 2)
	_, _ = s.word(off + 4) // Version
	_ = s.dwords(off+6, 1)
	_ = s.words(off+10, 1)
	_ = s.dwords(off+12, 1)
	_ = s.words(off+16, 1)
	if int(hwords)*2 < HeaderSize || off+int(hwords)*2 > len(buf) {
		return fmt.Errorf("%w: header size %d words", ErrCorruptFile, hwords)
	}
	off += int(hwords) * 2

	for i := 0; off < len(buf); i++ {
		if len(buf)-off < RecordHeaderSize {
			return fmt.Errorf("%w: record %d at offset %d: %d trailing bytes", ErrCorruptFile, i, off, len(buf)-off)
		}
		h := peekHeader(buf[off:], toForeign)
		if h.Size() < RecordHeaderSize || h.Size() > uint64(len(buf)-off) {
			return fmt.Errorf("%w: record %d at offset %d declares %d bytes, %d remain", ErrCorruptFile, i, off, h.Size(), len(buf)-off)
		}
		size := int(h.Size())
		if err := swapOne(buf[off:off+size], h, toForeign); err != nil {
			return fmt.Errorf("%w: record %d at offset %d: %v", ErrCorruptFile, i, off, err)
		}
		off += size
		if h.Type == TypeEOF {
			break
		}
	}
	return nil
}

// IsForeign reports whether buf holds a metafile in the reversed byte order,
// judged by the placeable key or the main header size word.
func IsForeign(buf []byte) bool {
	if len(buf) >= 4 {
		switch {
		case binary.LittleEndian.Uint32(buf) == PlaceableKey:
			return false
		case binary.BigEndian.Uint32(buf) == PlaceableKey:
			return true
		}
	}
	if len(buf) >= 4 {
		return binary.LittleEndian.Uint16(buf[2:]) != HeaderSize/2 && binary.BigEndian.Uint16(buf[2:]) == HeaderSize/2
	}
	return false
}
