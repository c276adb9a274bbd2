package wmf

import "fmt"

// BitBlt copies a block of pixels. Without a Bitmap the source is the
// current device and the record uses the shorter no-pixel layout.
type BitBlt struct {
	Rop           uint32
	Src           Point16
	Dst           Point16
	Width, Height int16
	Bitmap        *Bitmap16
}

func (BitBlt) Type() RecordType { return TypeBitBlt }

func (r BitBlt) MarshalBinary() ([]byte, error) {
	fields := []uint16{uint16(r.Src.Y), uint16(r.Src.X)}
	if r.Bitmap == nil {
		fields = append(fields, 0)
	}
	fields = append(fields, uint16(r.Height), uint16(r.Width), uint16(r.Dst.Y), uint16(r.Dst.X))
	return setBlit(TypeBitBlt, r.Rop, fields, r.Bitmap, nil)
}

func decodeBitBlt(rec []byte, h RecordHeader) (Record, error) {
	fields, tail, err := getBlit(rec, h, 6)
	if err != nil {
		return nil, err
	}
	r := BitBlt{
		Rop:    le32(rec, 6),
		Src:    Point16{Y: int16(fields[0]), X: int16(fields[1])},
		Height: int16(fields[2]),
		Width:  int16(fields[3]),
		Dst:    Point16{Y: int16(fields[4]), X: int16(fields[5])},
	}
	if tail != nil {
		bm, err := bitmap16At(tail)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", h.Type, err)
		}
		r.Bitmap = &bm
	}
	return r, nil
}

// StretchBlt copies and scales a block of pixels.
type StretchBlt struct {
	Rop                 uint32
	Src                 Point16
	SrcWidth, SrcHeight int16
	Dst                 Point16
	DstWidth, DstHeight int16
	Bitmap              *Bitmap16
}

func (StretchBlt) Type() RecordType { return TypeStretchBlt }

func (r StretchBlt) MarshalBinary() ([]byte, error) {
	return setBlit(TypeStretchBlt, r.Rop, stretchFields(r.Src, r.SrcWidth, r.SrcHeight, r.Dst, r.DstWidth, r.DstHeight, r.Bitmap == nil), r.Bitmap, nil)
}

func decodeStretchBlt(rec []byte, h RecordHeader) (Record, error) {
	fields, tail, err := getBlit(rec, h, 8)
	if err != nil {
		return nil, err
	}
	r := StretchBlt{Rop: le32(rec, 6)}
	r.Src, r.SrcWidth, r.SrcHeight, r.Dst, r.DstWidth, r.DstHeight = splitStretch(fields)
	if tail != nil {
		bm, err := bitmap16At(tail)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", h.Type, err)
		}
		r.Bitmap = &bm
	}
	return r, nil
}

// DIBBitBlt is BitBlt with a device independent source bitmap.
type DIBBitBlt struct {
	Rop           uint32
	Src           Point16
	Dst           Point16
	Width, Height int16
	DIB           DIB
}

func (DIBBitBlt) Type() RecordType { return TypeDIBBitBlt }

func (r DIBBitBlt) MarshalBinary() ([]byte, error) {
	fields := []uint16{uint16(r.Src.Y), uint16(r.Src.X)}
	if len(r.DIB) == 0 {
		fields = append(fields, 0)
	}
	fields = append(fields, uint16(r.Height), uint16(r.Width), uint16(r.Dst.Y), uint16(r.Dst.X))
	return setBlit(TypeDIBBitBlt, r.Rop, fields, nil, r.DIB)
}

func decodeDIBBitBlt(rec []byte, h RecordHeader) (Record, error) {
	fields, tail, err := getBlit(rec, h, 6)
	if err != nil {
		return nil, err
	}
	return DIBBitBlt{
		Rop:    le32(rec, 6),
		Src:    Point16{Y: int16(fields[0]), X: int16(fields[1])},
		Height: int16(fields[2]),
		Width:  int16(fields[3]),
		Dst:    Point16{Y: int16(fields[4]), X: int16(fields[5])},
		DIB:    DIB(tail),
	}, nil
}

// DIBStretchBlt is StretchBlt with a device independent source bitmap.
type DIBStretchBlt struct {
	Rop                 uint32
	Src                 Point16
	SrcWidth, SrcHeight int16
	Dst                 Point16
	DstWidth, DstHeight int16
	DIB                 DIB
}

func (DIBStretchBlt) Type() RecordType { return TypeDIBStretchBlt }

func (r DIBStretchBlt) MarshalBinary() ([]byte, error) {
	return setBlit(TypeDIBStretchBlt, r.Rop, stretchFields(r.Src, r.SrcWidth, r.SrcHeight, r.Dst, r.DstWidth, r.DstHeight, len(r.DIB) == 0), nil, r.DIB)
}

func decodeDIBStretchBlt(rec []byte, h RecordHeader) (Record, error) {
	fields, tail, err := getBlit(rec, h, 8)
	if err != nil {
		return nil, err
	}
	r := DIBStretchBlt{Rop: le32(rec, 6), DIB: DIB(tail)}
	r.Src, r.SrcWidth, r.SrcHeight, r.Dst, r.DstWidth, r.DstHeight = splitStretch(fields)
	return r, nil
}

func stretchFields(src Point16, sw, sh int16, dst Point16, dw, dh int16, reserved bool) []uint16 {
	fields := []uint16{uint16(sh), uint16(sw), uint16(src.Y), uint16(src.X)}
	if reserved {
		fields = append(fields, 0)
	}
	return append(fields, uint16(dh), uint16(dw), uint16(dst.Y), uint16(dst.X))
}

func splitStretch(f []uint16) (src Point16, sw, sh int16, dst Point16, dw, dh int16) {
	sh, sw = int16(f[0]), int16(f[1])
	src = Point16{Y: int16(f[2]), X: int16(f[3])}
	dh, dw = int16(f[4]), int16(f[5])
	dst = Point16{Y: int16(f[6]), X: int16(f[7])}
	return
}

// setBlit writes rop, the fixed fields and at most one of a Bitmap16 or a
// DIB, each padded to four bytes.
func setBlit(t RecordType, rop uint32, fields []uint16, bm *Bitmap16, dib DIB) ([]byte, error) {
	payload := 4 + 2*len(fields)
	switch {
	case bm != nil:
		payload += bm.size()
	case len(dib) > 0:
		payload += up4(len(dib))
	}
	b, err := newRecord(t, payload)
	if err != nil {
		return nil, err
	}
	put32(b, 6, rop)
	off := 10
	for _, f := range fields {
		put16(b, off, f)
		off += 2
	}
	switch {
	case bm != nil:
		bm.put(b[off:])
	case len(dib) > 0:
		copy(b[off:], dib)
	}
	return b, nil
}

// getBlit reads the n fixed fields after rop, skipping the reserved word of
// the no-pixel layout. tail is the pixel payload or nil.
func getBlit(rec []byte, h RecordHeader, n int) (fields []uint16, tail []byte, err error) {
	if !h.HasPayload() {
		if err := need(rec, 10+2*(n+1), h.Type.String()); err != nil {
			return nil, nil, err
		}
	} else if err := need(rec, 10+2*n, h.Type.String()); err != nil {
		return nil, nil, err
	}
	fields = make([]uint16, 0, n)
	off := 10
	for i := 0; i < n; i++ {
		if !h.HasPayload() && i == n-4 {
			off += 2
		}
		fields = append(fields, le16(rec, off))
		off += 2
	}
	if h.HasPayload() {
		tail = rec[off:]
	}
	return fields, tail, nil
}

// SetDIBToDev copies scan lines of a DIB to the device.
type SetDIBToDev struct {
	ColorUsage    uint16
	ScanCount     uint16
	StartScan     uint16
	Src           Point16
	Width, Height int16
	Dst           Point16
	DIB           DIB
}

func (SetDIBToDev) Type() RecordType { return TypeSetDIBToDev }

func (r SetDIBToDev) MarshalBinary() ([]byte, error) {
	if len(r.DIB) == 0 {
		return nil, fmt.Errorf("%w: SETDIBTODEV without a bitmap", ErrInvalidArgument)
	}
	b, err := newRecord(TypeSetDIBToDev, 18+up4(len(r.DIB)))
	if err != nil {
		return nil, err
	}
	for i, w := range []uint16{
		r.ColorUsage, r.ScanCount, r.StartScan,
		uint16(r.Src.Y), uint16(r.Src.X), uint16(r.Height), uint16(r.Width),
		uint16(r.Dst.Y), uint16(r.Dst.X),
	} {
		put16(b, 6+2*i, w)
	}
	copy(b[24:], r.DIB)
	return b, nil
}

func decodeSetDIBToDev(rec []byte, _ RecordHeader) (Record, error) {
	if err := need(rec, 24, "SETDIBTODEV fields"); err != nil {
		return nil, err
	}
	return SetDIBToDev{
		ColorUsage: getWord(rec, 0),
		ScanCount:  getWord(rec, 1),
		StartScan:  getWord(rec, 2),
		Src:        getPointYX(rec, 3),
		Height:     getInt(rec, 5),
		Width:      getInt(rec, 6),
		Dst:        getPointYX(rec, 7),
		DIB:        DIB(rec[24:]),
	}, nil
}

// StretchDIB scales a DIB onto the device.
type StretchDIB struct {
	Rop                 uint32
	ColorUsage          uint16
	Src                 Point16
	SrcWidth, SrcHeight int16
	Dst                 Point16
	DstWidth, DstHeight int16
	DIB                 DIB
}

func (StretchDIB) Type() RecordType { return TypeStretchDIB }

func (r StretchDIB) MarshalBinary() ([]byte, error) {
	if len(r.DIB) == 0 {
		return nil, fmt.Errorf("%w: STRETCHDIB without a bitmap", ErrInvalidArgument)
	}
	fields := append([]uint16{r.ColorUsage}, stretchFields(r.Src, r.SrcWidth, r.SrcHeight, r.Dst, r.DstWidth, r.DstHeight, false)...)
	return setBlit(TypeStretchDIB, r.Rop, fields, nil, r.DIB)
}

func decodeStretchDIB(rec []byte, _ RecordHeader) (Record, error) {
	r := StretchDIB{Rop: le32(rec, 6), ColorUsage: le16(rec, 10), DIB: DIB(rec[28:])}
	f := make([]uint16, 8)
	for i := range f {
		f[i] = le16(rec, 12+2*i)
	}
	r.Src, r.SrcWidth, r.SrcHeight, r.Dst, r.DstWidth, r.DstHeight = splitStretch(f)
	return r, nil
}

// DIBCreatePatternBrush creates a pattern brush. With Style BSPattern the
// pattern is a Bitmap16, otherwise a DIB.
type DIBCreatePatternBrush struct {
	Style      uint16
	ColorUsage uint16
	Bitmap     *Bitmap16
	DIB        DIB
}

func (DIBCreatePatternBrush) Type() RecordType { return TypeDIBCreatePatternBrush }

func (r DIBCreatePatternBrush) MarshalBinary() ([]byte, error) {
	var payload int
	switch {
	case r.Style == BSPattern && r.Bitmap != nil:
		payload = r.Bitmap.size()
	case len(r.DIB) > 0:
		payload = up4(len(r.DIB))
	default:
		return nil, fmt.Errorf("%w: DIBCREATEPATTERNBRUSH style %d without a matching pattern", ErrInvalidArgument, r.Style)
	}
	b, err := newRecord(TypeDIBCreatePatternBrush, 4+payload)
	if err != nil {
		return nil, err
	}
	put16(b, 6, r.Style)
	put16(b, 8, r.ColorUsage)
	if r.Style == BSPattern && r.Bitmap != nil {
		r.Bitmap.put(b[10:])
	} else {
		copy(b[10:], r.DIB)
	}
	return b, nil
}

func decodeDIBCreatePatternBrush(rec []byte, _ RecordHeader) (Record, error) {
	r := DIBCreatePatternBrush{Style: getWord(rec, 0), ColorUsage: getWord(rec, 1)}
	src := rec[10:]
	if r.Style == BSPattern {
		// Some writers store a DIB even for BS_PATTERN; a bitmap header that
		// cannot be real marks those.
		if bm, err := bitmap16At(src); err == nil && bm.plausible() {
			r.Bitmap = &bm
			return r, nil
		}
	}
	r.DIB = DIB(src)
	return r, nil
}
