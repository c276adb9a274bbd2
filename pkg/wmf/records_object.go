package wmf

import (
	"bytes"
	"fmt"
)

// PaletteRecord is ANIMATEPALETTE, SETPALENTRIES or CREATEPALETTE.
type PaletteRecord struct {
	Kind    RecordType
	Palette Palette
}

// NewCreatePalette builds a CREATEPALETTE record for the given entries.
func NewCreatePalette(entries []PaletteEntry) PaletteRecord {
	return PaletteRecord{Kind: TypeCreatePalette, Palette: Palette{Start: PaletteVersion, Entries: entries}}
}

func (r PaletteRecord) Type() RecordType { return r.Kind }

func (r PaletteRecord) MarshalBinary() ([]byte, error) {
	if err := checkKind("PaletteRecord", r.Kind, TypeAnimatePalette, TypeSetPalEntries, TypeCreatePalette); err != nil {
		return nil, err
	}
	return setPalette(r.Kind, r.Palette)
}

func decodePalette(rec []byte, h RecordHeader) (Record, error) {
	p, err := getPalette(rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h.Type, err)
	}
	return PaletteRecord{Kind: h.Type, Palette: p}, nil
}

const patternBrushPrefix = 32 // truncated Bitmap16 plus reserved bytes

// CreatePatternBrush creates a brush from a device dependent bitmap. Only
// the Bitmap16 header fields are stored with the bitmap; the bits follow as
// Pattern.
type CreatePatternBrush struct {
	Bitmap  Bitmap16
	Pattern []byte
}

func (CreatePatternBrush) Type() RecordType { return TypeCreatePatternBrush }

func (r CreatePatternBrush) MarshalBinary() ([]byte, error) {
	b, err := newRecord(TypeCreatePatternBrush, patternBrushPrefix+len(r.Pattern))
	if err != nil {
		return nil, err
	}
	hdr := r.Bitmap
	hdr.Bits = nil
	hdr.put(b[6:])
	copy(b[6+patternBrushPrefix:], r.Pattern)
	return b, nil
}

func decodeCreatePatternBrush(rec []byte, _ RecordHeader) (Record, error) {
	if err := need(rec, 6+patternBrushPrefix, "CREATEPATTERNBRUSH bitmap"); err != nil {
		return nil, err
	}
	bm, err := bitmap16At(rec[6 : 6+bitmap16HeaderSize])
	if err != nil {
		return nil, err
	}
	bm.Bits = nil
	return CreatePatternBrush{Bitmap: bm, Pattern: rec[6+patternBrushPrefix:]}, nil
}

type CreatePenIndirect struct {
	Pen Pen
}

func (CreatePenIndirect) Type() RecordType { return TypeCreatePenIndirect }

func (r CreatePenIndirect) MarshalBinary() ([]byte, error) {
	b, _ := newRecord(TypeCreatePenIndirect, 10)
	put16(b, 6, r.Pen.Style)
	put16(b, 8, r.Pen.Width)
	r.Pen.Color.put(b[12:])
	return b, nil
}

func decodeCreatePen(rec []byte, _ RecordHeader) (Record, error) {
	return CreatePenIndirect{Pen: Pen{
		Style: getWord(rec, 0),
		Width: getWord(rec, 1),
		Color: colorAt(rec[12:]),
	}}, nil
}

type CreateBrushIndirect struct {
	Brush LogBrush
}

func (CreateBrushIndirect) Type() RecordType { return TypeCreateBrushIndirect }

func (r CreateBrushIndirect) MarshalBinary() ([]byte, error) {
	return setColorWords(TypeCreateBrushIndirect, []uint16{r.Brush.Style}, r.Brush.Color, r.Brush.Hatch), nil
}

func decodeCreateBrush(rec []byte, _ RecordHeader) (Record, error) {
	return CreateBrushIndirect{Brush: LogBrush{
		Style: getWord(rec, 0),
		Color: colorAt(rec[8:]),
		Hatch: le16(rec, 12),
	}}, nil
}

type CreateFontIndirect struct {
	Font Font
}

func (CreateFontIndirect) Type() RecordType { return TypeCreateFontIndirect }

func (r CreateFontIndirect) MarshalBinary() ([]byte, error) {
	f := r.Font
	if bytes.IndexByte(f.FaceName, 0) >= 0 {
		return nil, fmt.Errorf("%w: face name contains NUL", ErrInvalidArgument)
	}
	b, err := newRecord(TypeCreateFontIndirect, f.size())
	if err != nil {
		return nil, err
	}
	for i, v := range []int16{f.Height, f.Width, f.Escapement, f.Orientation, f.Weight} {
		put16(b, 6+2*i, uint16(v))
	}
	copy(b[16:24], []byte{
		f.Italic, f.Underline, f.StrikeOut, f.CharSet,
		f.OutPrecision, f.ClipPrecision, f.Quality, f.PitchAndFamily,
	})
	copy(b[24:], f.FaceName)
	return b, nil
}

func decodeCreateFont(rec []byte, _ RecordHeader) (Record, error) {
	f := Font{
		Height:      getInt(rec, 0),
		Width:       getInt(rec, 1),
		Escapement:  getInt(rec, 2),
		Orientation: getInt(rec, 3),
		Weight:      getInt(rec, 4),

		Italic:         rec[16],
		Underline:      rec[17],
		StrikeOut:      rec[18],
		CharSet:        rec[19],
		OutPrecision:   rec[20],
		ClipPrecision:  rec[21],
		Quality:        rec[22],
		PitchAndFamily: rec[23],
	}
	face := rec[24:]
	if i := bytes.IndexByte(face, 0); i >= 0 {
		face = face[:i]
	}
	f.FaceName = face
	return CreateFontIndirect{Font: f}, nil
}

type CreateRegion struct {
	Region Region
}

func (CreateRegion) Type() RecordType { return TypeCreateRegion }

func (r CreateRegion) MarshalBinary() ([]byte, error) {
	size := r.Region.size()
	if size > 0xFFFF {
		return nil, fmt.Errorf("%w: region of %d bytes", ErrRecordTooLarge, size)
	}
	b, err := newRecord(TypeCreateRegion, size)
	if err != nil {
		return nil, err
	}
	r.Region.put(b[6:])
	return b, nil
}

func decodeCreateRegion(rec []byte, h RecordHeader) (Record, error) {
	reg, err := regionAt(rec[6:])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h.Type, err)
	}
	return CreateRegion{Region: reg}, nil
}
