package wmf

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ArcRecord is ARC, PIE or CHORD: an ellipse bounded by Rect, cut by the
// radials through Start and End.
type ArcRecord struct {
	Kind       RecordType
	Rect       Rect16
	Start, End Point16
}

func (r ArcRecord) Type() RecordType { return r.Kind }

func (r ArcRecord) MarshalBinary() ([]byte, error) {
	if err := checkKind("ArcRecord", r.Kind, TypeArc, TypePie, TypeChord); err != nil {
		return nil, err
	}
	words := []uint16{uint16(r.End.Y), uint16(r.End.X), uint16(r.Start.Y), uint16(r.Start.X)}
	return setWords(r.Kind, append(words, rectBRTL(r.Rect)...)...), nil
}

func decodeArc(rec []byte, h RecordHeader) (Record, error) {
	return ArcRecord{
		Kind:  h.Type,
		End:   getPointYX(rec, 0),
		Start: getPointYX(rec, 2),
		Rect:  getRectBRTL(rec, 4),
	}, nil
}

// ArcPoints returns the center of the arc's ellipse, the points where the
// radials meet the ellipse and the ellipse radii.
func (r ArcRecord) ArcPoints() (center, start, end PairF, size PairF) {
	rc := SaneRect(r.Rect)
	center = PairF{X: (float32(rc.Left) + float32(rc.Right)) / 2, Y: (float32(rc.Top) + float32(rc.Bottom)) / 2}
	size = PairF{X: (float32(rc.Right) - float32(rc.Left)) / 2, Y: (float32(rc.Bottom) - float32(rc.Top)) / 2}
	onEllipse := func(p Point16) PairF {
		dx := float64(p.X) - float64(center.X)
		dy := float64(p.Y) - float64(center.Y)
		if (dx == 0 && dy == 0) || size.X == 0 || size.Y == 0 {
			return center
		}
		a, b := float64(size.X), float64(size.Y)
		t := 1 / math.Sqrt(dx*dx/(a*a)+dy*dy/(b*b))
		return PairF{X: center.X + float32(dx*t), Y: center.Y + float32(dy*t)}
	}
	return center, onEllipse(r.Start), onEllipse(r.End), size
}

type RoundRect struct {
	Rect          Rect16
	Width, Height int16 // corner ellipse
}

func (RoundRect) Type() RecordType { return TypeRoundRect }

func (r RoundRect) MarshalBinary() ([]byte, error) {
	words := []uint16{uint16(r.Height), uint16(r.Width)}
	return setWords(TypeRoundRect, append(words, rectBRTL(r.Rect)...)...), nil
}

func decodeRoundRect(rec []byte, _ RecordHeader) (Record, error) {
	return RoundRect{Height: getInt(rec, 0), Width: getInt(rec, 1), Rect: getRectBRTL(rec, 2)}, nil
}

// FloodFill is FLOODFILL or EXTFLOODFILL.
type FloodFill struct {
	Kind  RecordType
	Mode  uint16
	Color ColorRef
	Point Point16
}

func (r FloodFill) Type() RecordType { return r.Kind }

func (r FloodFill) MarshalBinary() ([]byte, error) {
	if err := checkKind("FloodFill", r.Kind, TypeFloodFill, TypeExtFloodFill); err != nil {
		return nil, err
	}
	return setColorWords(r.Kind, []uint16{r.Mode}, r.Color, uint16(r.Point.Y), uint16(r.Point.X)), nil
}

func decodeFloodFill(rec []byte, h RecordHeader) (Record, error) {
	return FloodFill{
		Kind:  h.Type,
		Mode:  getWord(rec, 0),
		Color: colorAt(rec[8:]),
		Point: Point16{Y: int16(le16(rec, 12)), X: int16(le16(rec, 14))},
	}, nil
}

type SetPixel struct {
	Color ColorRef
	Point Point16
}

func (SetPixel) Type() RecordType { return TypeSetPixel }

func (r SetPixel) MarshalBinary() ([]byte, error) {
	return setColorWords(TypeSetPixel, nil, r.Color, uint16(r.Point.Y), uint16(r.Point.X)), nil
}

func decodeSetPixel(rec []byte, _ RecordHeader) (Record, error) {
	return SetPixel{
		Color: colorAt(rec[6:]),
		Point: Point16{Y: int16(le16(rec, 10)), X: int16(le16(rec, 12))},
	}, nil
}

// PatBlt paints a rectangle with the current brush.
type PatBlt struct {
	Rop           uint32
	Dst           Point16
	Width, Height int16
}

func (PatBlt) Type() RecordType { return TypePatBlt }

func (r PatBlt) MarshalBinary() ([]byte, error) {
	b, _ := newRecord(TypePatBlt, 12)
	put32(b, 6, r.Rop)
	put16(b, 10, uint16(r.Height))
	put16(b, 12, uint16(r.Width))
	putPointYX(b, 4, r.Dst)
	return b, nil
}

func decodePatBlt(rec []byte, _ RecordHeader) (Record, error) {
	return PatBlt{
		Rop:    le32(rec, 6),
		Height: getInt(rec, 2),
		Width:  getInt(rec, 3),
		Dst:    getPointYX(rec, 4),
	}, nil
}

// Poly is POLYGON or POLYLINE.
type Poly struct {
	Kind   RecordType
	Points []Point16
}

func (r Poly) Type() RecordType { return r.Kind }

func (r Poly) MarshalBinary() ([]byte, error) {
	if err := checkKind("Poly", r.Kind, TypePolygon, TypePolyline); err != nil {
		return nil, err
	}
	return setCountedPoints(r.Kind, r.Points)
}

func decodePoly(rec []byte, h RecordHeader) (Record, error) {
	pts, err := getCountedPoints(rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h.Type, err)
	}
	return Poly{Kind: h.Type, Points: pts}, nil
}

// PolyPolygon draws several closed polygons at once.
type PolyPolygon struct {
	Polygons [][]Point16
}

func (PolyPolygon) Type() RecordType { return TypePolyPolygon }

func (r PolyPolygon) MarshalBinary() ([]byte, error) {
	total := 0
	for _, p := range r.Polygons {
		if len(p) > math.MaxUint16 {
			return nil, fmt.Errorf("%w: polygon with %d points", ErrRecordTooLarge, len(p))
		}
		total += len(p)
	}
	if len(r.Polygons) == 0 || total == 0 {
		return nil, fmt.Errorf("%w: POLYPOLYGON needs at least one point", ErrInvalidArgument)
	}
	if len(r.Polygons) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d polygons", ErrRecordTooLarge, len(r.Polygons))
	}
	b, err := newRecord(TypePolyPolygon, 2+2*len(r.Polygons)+4*total)
	if err != nil {
		return nil, err
	}
	put16(b, 6, uint16(len(r.Polygons)))
	off := 8
	for _, p := range r.Polygons {
		put16(b, off, uint16(len(p)))
		off += 2
	}
	for _, p := range r.Polygons {
		for _, pt := range p {
			putPoint(b[off:], pt)
			off += 4
		}
	}
	return b, nil
}

func decodePolyPolygon(rec []byte, _ RecordHeader) (Record, error) {
	n := int(getWord(rec, 0))
	if err := need(rec, 8+2*n, "polygon counts"); err != nil {
		return nil, err
	}
	counts := make([]int, n)
	total := 0
	for i := range counts {
		counts[i] = int(le16(rec, 8+2*i))
		total += counts[i]
	}
	off := 8 + 2*n
	if err := need(rec, off+4*total, "polygon points"); err != nil {
		return nil, err
	}
	polys := make([][]Point16, n)
	for i, c := range counts {
		polys[i] = make([]Point16, c)
		for j := range polys[i] {
			polys[i][j] = pointAt(rec[off:])
			off += 4
		}
	}
	return PolyPolygon{Polygons: polys}, nil
}

// TextOut draws Text (Windows-1252 bytes) at Dst.
type TextOut struct {
	Dst  Point16
	Text []byte
}

// NewTextOut encodes s for a TEXTOUT record.
func NewTextOut(dst Point16, s string) (TextOut, error) {
	text, err := EncodeText(s)
	if err != nil {
		return TextOut{}, err
	}
	return TextOut{Dst: dst, Text: text}, nil
}

func (TextOut) Type() RecordType { return TypeTextOut }

func (r TextOut) String() string { return DecodeText(r.Text) }

func (r TextOut) MarshalBinary() ([]byte, error) {
	if len(r.Text) > math.MaxInt16 {
		return nil, fmt.Errorf("%w: TEXTOUT with %d bytes of text", ErrRecordTooLarge, len(r.Text))
	}
	n := up2(len(r.Text))
	b, err := newRecord(TypeTextOut, 2+n+4)
	if err != nil {
		return nil, err
	}
	put16(b, 6, uint16(len(r.Text)))
	copy(b[8:], r.Text)
	put16(b, 8+n, uint16(r.Dst.Y))
	put16(b, 10+n, uint16(r.Dst.X))
	return b, nil
}

func decodeTextOut(rec []byte, _ RecordHeader) (Record, error) {
	length := int(int16(getWord(rec, 0)))
	if length < 0 {
		return nil, fmt.Errorf("%w: TEXTOUT length %d", ErrCorruptRecord, length)
	}
	n := up2(length)
	if err := need(rec, 8+n+4, "TEXTOUT text and position"); err != nil {
		return nil, err
	}
	return TextOut{
		Text: rec[8 : 8+length],
		Dst:  Point16{Y: int16(le16(rec, 8+n)), X: int16(le16(rec, 10+n))},
	}, nil
}

// ExtTextOut draws text with optional clipping rectangle and character
// spacing. Rect is present on disk only when Opts has ETOOpaque or
// ETOClipped; Dx is either empty or one entry per byte of Text.
type ExtTextOut struct {
	Dst  Point16
	Opts uint16
	Rect Rect16
	Text []byte
	Dx   []int16
}

func (ExtTextOut) Type() RecordType { return TypeExtTextOut }

func (r ExtTextOut) String() string { return DecodeText(r.Text) }

func (r ExtTextOut) hasRect() bool { return r.Opts&(ETOOpaque|ETOClipped) != 0 }

func (r ExtTextOut) MarshalBinary() ([]byte, error) {
	if len(r.Text) > math.MaxInt16 {
		return nil, fmt.Errorf("%w: EXTTEXTOUT with %d bytes of text", ErrRecordTooLarge, len(r.Text))
	}
	if len(r.Dx) != 0 && len(r.Dx) != len(r.Text) {
		return nil, fmt.Errorf("%w: EXTTEXTOUT has %d dx entries for %d characters", ErrInvalidArgument, len(r.Dx), len(r.Text))
	}
	payload := 8 + up2(len(r.Text)) + 2*len(r.Dx)
	if r.hasRect() {
		payload += 8
	}
	b, err := newRecord(TypeExtTextOut, payload)
	if err != nil {
		return nil, err
	}
	putPointYX(b, 0, r.Dst)
	put16(b, 10, uint16(len(r.Text)))
	put16(b, 12, r.Opts)
	off := 14
	if r.hasRect() {
		putRect(b[off:], r.Rect)
		off += 8
	}
	copy(b[off:], r.Text)
	off += up2(len(r.Text))
	for _, d := range r.Dx {
		put16(b, off, uint16(d))
		off += 2
	}
	return b, nil
}

func decodeExtTextOut(rec []byte, _ RecordHeader) (Record, error) {
	r := ExtTextOut{Dst: getPointYX(rec, 0), Opts: getWord(rec, 3)}
	length := int(int16(getWord(rec, 2)))
	if length < 0 {
		return nil, fmt.Errorf("%w: EXTTEXTOUT length %d", ErrCorruptRecord, length)
	}
	off := 14
	if r.hasRect() {
		if err := need(rec, off+8, "EXTTEXTOUT rectangle"); err != nil {
			return nil, err
		}
		r.Rect = rectAt(rec[off:])
		off += 8
	}
	if err := need(rec, off+length, "EXTTEXTOUT text"); err != nil {
		return nil, err
	}
	r.Text = rec[off : off+length]
	off += up2(length)
	if length > 0 && off+2*length <= len(rec) {
		r.Dx = make([]int16, length)
		for i := range r.Dx {
			r.Dx[i] = int16(le16(rec, off))
			off += 2
		}
	}
	return r, nil
}

// Escape passes device specific data through the metafile.
type Escape struct {
	Func uint16
	Data []byte
}

func (Escape) Type() RecordType { return TypeEscape }

func (r Escape) Name() string { return EscapeName(r.Func) }

func (r Escape) MarshalBinary() ([]byte, error) {
	if len(r.Data) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: escape with %d data bytes", ErrRecordTooLarge, len(r.Data))
	}
	b, err := newRecord(TypeEscape, 4+len(r.Data))
	if err != nil {
		return nil, err
	}
	put16(b, 6, r.Func)
	put16(b, 8, uint16(len(r.Data)))
	copy(b[10:], r.Data)
	return b, nil
}

func decodeEscape(rec []byte, _ RecordHeader) (Record, error) {
	n := int(getWord(rec, 1))
	if err := need(rec, 10+n, "escape data"); err != nil {
		return nil, err
	}
	return Escape{Func: getWord(rec, 0), Data: rec[10 : 10+n]}, nil
}

// Value32 returns the 32-bit operand of the SETLINECAP, SETLINEJOIN and
// SETMITERLIMIT escapes.
func (r Escape) Value32() (int32, bool) {
	switch r.Func {
	case EscSetLineCap, EscSetLineJoin, EscSetMiterLimit:
	default:
		return 0, false
	}
	if len(r.Data) < 4 {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(r.Data)), true
}

func escape32(fn uint16, v int32) Escape {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(v))
	return Escape{Func: fn, Data: data}
}

func BeginPath() Escape { return Escape{Func: EscBeginPath} }

func EndPath() Escape { return Escape{Func: EscEndPath} }

// LineCap builds a SETLINECAP escape.
func LineCap(c int32) (Escape, error) {
	switch c {
	case CapNotSet, CapFlat, CapRound, CapSquare:
		return escape32(EscSetLineCap, c), nil
	}
	return Escape{}, fmt.Errorf("%w: line cap %d", ErrInvalidArgument, c)
}

// LineJoin builds a SETLINEJOIN escape.
func LineJoin(j int32) (Escape, error) {
	switch j {
	case JoinNotSet, JoinMiter, JoinRound, JoinBevel:
		return escape32(EscSetLineJoin, j), nil
	}
	return Escape{}, fmt.Errorf("%w: line join %d", ErrInvalidArgument, j)
}

func MiterLimit(limit int32) Escape { return escape32(EscSetMiterLimit, limit) }
