package wmf

import (
	"bytes"
	"errors"
	"testing"
)

func mustMarshal(t *testing.T, r Record) []byte {
	t.Helper()
	b, err := r.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal %s: %v", r.Type(), err)
	}
	return b
}

func testBitmap(t *testing.T) Bitmap16 {
	t.Helper()
	bm, err := NewBitmap16(8, 2, 1, AlignWord, []byte{0xF0, 0x00, 0x0F, 0x00})
	if err != nil {
		t.Fatalf("new bitmap: %v", err)
	}
	return bm
}

func testDIB(t *testing.T) DIB {
	t.Helper()
	px := []byte{
		0, 0, 255, 0, 255, 0, 0, 0,
		255, 0, 0, 255, 255, 255, 0, 0,
	}
	d, err := NewDIB(2, 2, 24, nil, px)
	if err != nil {
		t.Fatalf("new DIB: %v", err)
	}
	return d
}

// sampleRecords returns one or more records of every encodable variant.
func sampleRecords(t *testing.T) []Record {
	t.Helper()
	bm := testBitmap(t)
	dib := testDIB(t)
	font, err := NewFont(-16, 700, "Arial")
	if err != nil {
		t.Fatalf("new font: %v", err)
	}
	capRound, err := LineCap(CapRound)
	if err != nil {
		t.Fatalf("line cap: %v", err)
	}
	text, err := NewTextOut(Point16{X: 10, Y: 20}, "odd")
	if err != nil {
		t.Fatalf("text out: %v", err)
	}
	red := RGB(255, 0, 0)
	return []Record{
		Empty{Kind: TypeEOF},
		Empty{Kind: TypeSaveDC},
		SetMode{Kind: TypeSetBkMode, Mode: 2},
		SetMode{Kind: TypeSetMapMode, Mode: 8},
		SetColor{Kind: TypeSetTextColor, Color: RGB(1, 2, 3)},
		SetTextJustification{Count: 3, Extra: 7},
		PointRecord{Kind: TypeMoveTo, Point: Point16{X: -5, Y: 300}},
		PointRecord{Kind: TypeSetWindowExt, Point: Point16{X: 1000, Y: 800}},
		ScaleExt{Kind: TypeScaleWindowExt, XNum: 1, XDenom: 2, YNum: 3, YDenom: 4},
		RectRecord{Kind: TypeRectangle, Rect: Rect16{Left: 1, Top: 2, Right: 300, Bottom: 400}},
		ObjectIndex{Kind: TypeSelectObject, Index: 4},
		ObjectIndex{Kind: TypeRestoreDC, Index: 0xFFFF},
		SetMapperFlags{Flags: 0x00010001},
		FillRegion{Region: 1, Brush: 2},
		FrameRegion{Region: 1, Brush: 2, Width: 3, Height: 4},
		ArcRecord{Kind: TypePie, Rect: Rect16{Left: 0, Top: 0, Right: 100, Bottom: 50}, Start: Point16{X: 100, Y: 25}, End: Point16{X: 50, Y: 0}},
		RoundRect{Rect: Rect16{Left: 5, Top: 5, Right: 50, Bottom: 60}, Width: 8, Height: 6},
		FloodFill{Kind: TypeExtFloodFill, Mode: 1, Color: red, Point: Point16{X: 7, Y: 9}},
		SetPixel{Color: red, Point: Point16{X: -1, Y: 2}},
		PatBlt{Rop: PatCopy, Dst: Point16{X: 1, Y: 2}, Width: 30, Height: 40},
		Poly{Kind: TypePolyline, Points: []Point16{{X: 0, Y: 0}, {X: 5, Y: 5}}},
		PolyPolygon{Polygons: [][]Point16{
			{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 10}},
			{{X: 20, Y: 20}, {X: 30, Y: 20}, {X: 30, Y: 30}, {X: 20, Y: 30}},
		}},
		text,
		ExtTextOut{Dst: Point16{X: 3, Y: 4}, Opts: ETOClipped, Rect: Rect16{Left: 0, Top: 0, Right: 90, Bottom: 20}, Text: []byte("hello"), Dx: []int16{9, 9, 9, 9, 9}},
		ExtTextOut{Dst: Point16{X: 3, Y: 4}, Text: []byte("ab")},
		BeginPath(),
		EndPath(),
		capRound,
		MiterLimit(10),
		Escape{Func: EscPassthrough, Data: []byte{1, 2, 3}},
		// zero-length arrays
		Escape{Func: EscPassthrough},
		TextOut{Dst: Point16{X: 1, Y: 1}},
		ExtTextOut{Dst: Point16{X: 2, Y: 2}},
		Poly{Kind: TypePolygon, Points: []Point16{{X: 7, Y: 7}}},
		BitBlt{Rop: SrcCopy, Src: Point16{X: 1, Y: 2}, Dst: Point16{X: 3, Y: 4}, Width: 5, Height: 6},
		BitBlt{Rop: SrcCopy, Src: Point16{X: 1, Y: 2}, Dst: Point16{X: 3, Y: 4}, Width: 8, Height: 2, Bitmap: &bm},
		StretchBlt{Rop: SrcCopy, SrcWidth: 8, SrcHeight: 2, Dst: Point16{X: 10, Y: 10}, DstWidth: 16, DstHeight: 4},
		StretchBlt{Rop: SrcCopy, SrcWidth: 8, SrcHeight: 2, DstWidth: 16, DstHeight: 4, Bitmap: &bm},
		DIBBitBlt{Rop: SrcCopy, Width: 2, Height: 2, DIB: dib},
		DIBBitBlt{Rop: Blackness, Width: 2, Height: 2},
		DIBStretchBlt{Rop: SrcCopy, SrcWidth: 2, SrcHeight: 2, DstWidth: 20, DstHeight: 20, DIB: dib},
		DIBStretchBlt{Rop: Whiteness, SrcWidth: 2, SrcHeight: 2, DstWidth: 20, DstHeight: 20},
		SetDIBToDev{ColorUsage: DIBRGBColors, ScanCount: 2, Width: 2, Height: 2, DIB: dib},
		StretchDIB{Rop: SrcCopy, ColorUsage: DIBRGBColors, SrcWidth: 2, SrcHeight: 2, DstWidth: 4, DstHeight: 4, DIB: dib},
		DIBCreatePatternBrush{Style: BSDIBPatternPT, ColorUsage: DIBRGBColors, DIB: dib},
		DIBCreatePatternBrush{Style: BSPattern, Bitmap: &bm},
		NewCreatePalette([]PaletteEntry{{Red: 255}, {Green: 255}, {Blue: 255, Value: 1}}),
		PaletteRecord{Kind: TypeSetPalEntries, Palette: Palette{Start: 1, Entries: []PaletteEntry{{Red: 1, Green: 2, Blue: 3}}}},
		CreatePatternBrush{Bitmap: bm, Pattern: []byte{0xAA, 0x55, 0xAA, 0x55}},
		CreatePenIndirect{Pen: Pen{Style: PSDash, Width: 3, Color: red}},
		CreateBrushIndirect{Brush: LogBrush{Style: BSHatched, Color: RGB(0, 0, 255), Hatch: 2}},
		CreateFontIndirect{Font: font},
		CreateRegion{Region: Region{
			MaxScan: 2,
			Bounds:  Rect16{Left: 0, Top: 0, Right: 10, Bottom: 10},
			Scans: []Scan{
				{Top: 0, Bottom: 5, Lines: []ScanLine{{Left: 0, Right: 10}}},
				{Top: 5, Bottom: 10, Lines: []ScanLine{{Left: 0, Right: 2}, {Left: 8, Right: 10}}},
			},
		}},
		Unknown{Kind: TypeDrawText, Payload: []byte{1, 2, 3, 4}},
	}
}

func TestRecordRoundTrip(t *testing.T) {
	t.Parallel()

	for _, r := range sampleRecords(t) {
		b := mustMarshal(t, r)
		got, err := Decode(b)
		if err != nil {
			t.Fatalf("decode %s: %v", r.Type(), err)
		}
		if got.Type() != r.Type() {
			t.Fatalf("decoded type: got %s want %s", got.Type(), r.Type())
		}
		again := mustMarshal(t, got)
		if !bytes.Equal(again, b) {
			t.Fatalf("%s re-encodes differently:\n got % x\nwant % x", r.Type(), again, b)
		}
	}
}

func TestRecordSizeInvariant(t *testing.T) {
	t.Parallel()

	for _, r := range sampleRecords(t) {
		b := mustMarshal(t, r)
		h, err := ParseRecordHeader(b)
		if err != nil {
			t.Fatalf("header %s: %v", r.Type(), err)
		}
		if h.Size() != uint64(len(b)) {
			t.Fatalf("%s: declared %d bytes, encoded %d", r.Type(), h.Size(), len(b))
		}
		if len(b) < MinSize(r.Type()) {
			t.Fatalf("%s: %d bytes is below the minimum %d", r.Type(), len(b), MinSize(r.Type()))
		}
		if h.XB != r.Type().XB() {
			t.Fatalf("%s: xb %#x want %#x", r.Type(), h.XB, r.Type().XB())
		}
	}
}

func TestPolygonThreePoints(t *testing.T) {
	t.Parallel()

	pts := []Point16{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 10}}
	b := mustMarshal(t, Poly{Kind: TypePolygon, Points: pts})
	if len(b) != 20 {
		t.Fatalf("polygon size: got %d want 20", len(b))
	}
	if le32(b, 0) != 10 {
		t.Fatalf("polygon words: got %d want 10", le32(b, 0))
	}
	rec, err := Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	p, ok := rec.(Poly)
	if !ok {
		t.Fatalf("decoded %T, want Poly", rec)
	}
	if len(p.Points) != 3 {
		t.Fatalf("points: got %d want 3", len(p.Points))
	}
	for i := range pts {
		if p.Points[i] != pts[i] {
			t.Fatalf("point %d: got %+v want %+v", i, p.Points[i], pts[i])
		}
	}
}

func TestDecodeFieldOrder(t *testing.T) {
	t.Parallel()

	rect := Rect16{Left: 1, Top: 2, Right: 3, Bottom: 4}
	b := mustMarshal(t, RectRecord{Kind: TypeEllipse, Rect: rect})
	// bottom, right, top, left
	for i, want := range []uint16{4, 3, 2, 1} {
		if got := le16(b, 6+2*i); got != want {
			t.Fatalf("field %d: got %d want %d", i, got, want)
		}
	}
	rec, err := Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := rec.(RectRecord).Rect; got != rect {
		t.Fatalf("rect: got %+v want %+v", got, rect)
	}

	b = mustMarshal(t, ExtTextOut{Opts: ETOOpaque, Rect: rect, Text: []byte("x")})
	// the clip rectangle is stored left, top, right, bottom
	for i, want := range []uint16{1, 2, 3, 4} {
		if got := le16(b, 14+2*i); got != want {
			t.Fatalf("ext rect field %d: got %d want %d", i, got, want)
		}
	}
}

func TestDecodeOddTextPadding(t *testing.T) {
	t.Parallel()

	b := mustMarshal(t, TextOut{Dst: Point16{X: 7, Y: 8}, Text: []byte("abc")})
	if len(b) != 6+2+4+4 {
		t.Fatalf("size: got %d", len(b))
	}
	if b[11] != 0 {
		t.Fatalf("pad byte: got %#x", b[11])
	}
	rec, err := Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	to := rec.(TextOut)
	if to.String() != "abc" || to.Dst != (Point16{X: 7, Y: 8}) {
		t.Fatalf("decoded %q at %+v", to.String(), to.Dst)
	}
}

func TestDecodeTruncated(t *testing.T) {
	t.Parallel()

	for _, r := range sampleRecords(t) {
		b := mustMarshal(t, r)
		for cut := 0; cut < len(b); cut++ {
			if _, err := Decode(b[:cut]); err == nil {
				t.Fatalf("%s truncated to %d of %d bytes decoded without error", r.Type(), cut, len(b))
			}
		}
	}
}

func TestDecodeInconsistentCounts(t *testing.T) {
	t.Parallel()

	poly := mustMarshal(t, Poly{Kind: TypePolygon, Points: []Point16{{X: 1, Y: 1}}})
	put16(poly, 6, 100)
	if _, err := Decode(poly); !errors.Is(err, ErrShortRecord) {
		t.Fatalf("polygon with a bad count: got %v want ErrShortRecord", err)
	}

	text := mustMarshal(t, TextOut{Text: []byte("hi")})
	put16(text, 6, 40)
	if _, err := Decode(text); !errors.Is(err, ErrShortRecord) {
		t.Fatalf("text with a bad length: got %v want ErrShortRecord", err)
	}

	small := []byte{3, 0, 0, 0, byte(TypeSetBkMode), 1}
	if _, err := Decode(small); !errors.Is(err, ErrShortRecord) {
		t.Fatalf("record below its minimum: got %v want ErrShortRecord", err)
	}
}

func TestWrongKindRejected(t *testing.T) {
	t.Parallel()

	cases := []Record{
		Empty{Kind: TypeRectangle},
		SetMode{Kind: TypeSetBkColor},
		PointRecord{Kind: TypeEllipse},
		RectRecord{Kind: TypeMoveTo},
		Poly{Kind: TypePolyPolygon},
		ObjectIndex{Kind: TypeCreateRegion},
	}
	for _, r := range cases {
		if _, err := r.MarshalBinary(); !errors.Is(err, ErrUnsupported) {
			t.Fatalf("%T with kind %s: got %v want ErrUnsupported", r, r.Type(), err)
		}
	}
}

func TestUnsupportedKindsDecodeAsUnknown(t *testing.T) {
	t.Parallel()

	for _, k := range []RecordType{TypeDrawText, TypeCreateBitmapIndirect, TypeCreateBitmap, 0x4C} {
		b := mustMarshal(t, Unknown{Kind: k, Payload: []byte{9, 8}})
		rec, err := Decode(b)
		if err != nil {
			t.Fatalf("decode %s: %v", k, err)
		}
		u, ok := rec.(Unknown)
		if !ok {
			t.Fatalf("%s decoded to %T", k, rec)
		}
		if !bytes.Equal(u.Payload, []byte{9, 8}) {
			t.Fatalf("%s payload: % x", k, u.Payload)
		}
		if Supported(k) {
			t.Fatalf("%s reported as supported", k)
		}
	}
}

func TestEmptyPointListsRejected(t *testing.T) {
	t.Parallel()

	for _, r := range []Record{
		Poly{Kind: TypePolygon},
		Poly{Kind: TypePolyline, Points: []Point16{}},
		PolyPolygon{},
	} {
		if _, err := r.MarshalBinary(); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s without points: got %v want ErrInvalidArgument", r.Type(), err)
		}
	}
}

func TestExtTextOutDxMismatch(t *testing.T) {
	t.Parallel()

	_, err := ExtTextOut{Text: []byte("abc"), Dx: []int16{1}}.MarshalBinary()
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("got %v want ErrInvalidArgument", err)
	}
}

func TestEscapeHelpers(t *testing.T) {
	t.Parallel()

	if _, err := LineCap(7); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("invalid cap: got %v", err)
	}
	if _, err := LineJoin(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("invalid join: got %v", err)
	}
	j, err := LineJoin(JoinBevel)
	if err != nil {
		t.Fatalf("line join: %v", err)
	}
	rec, err := Decode(mustMarshal(t, j))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	esc := rec.(Escape)
	if esc.Name() != "SETLINEJOIN" {
		t.Fatalf("name: %s", esc.Name())
	}
	if v, ok := esc.Value32(); !ok || v != JoinBevel {
		t.Fatalf("value: %d %v", v, ok)
	}
	if _, ok := BeginPath().Value32(); ok {
		t.Fatalf("BEGIN_PATH has no operand")
	}
}

func TestArcPoints(t *testing.T) {
	t.Parallel()

	arc := ArcRecord{
		Kind:  TypeArc,
		Rect:  Rect16{Left: 0, Top: 0, Right: 100, Bottom: 100},
		Start: Point16{X: 200, Y: 50},
		End:   Point16{X: 50, Y: -100},
	}
	center, start, end, size := arc.ArcPoints()
	if center != (PairF{X: 50, Y: 50}) || size != (PairF{X: 50, Y: 50}) {
		t.Fatalf("center %+v size %+v", center, size)
	}
	if start != (PairF{X: 100, Y: 50}) {
		t.Fatalf("start: %+v", start)
	}
	if end != (PairF{X: 50, Y: 0}) {
		t.Fatalf("end: %+v", end)
	}
}

func TestDuplicate(t *testing.T) {
	t.Parallel()

	b := mustMarshal(t, SetPixel{Color: RGB(1, 2, 3)})
	buf := append(bytes.Clone(b), 0xEE, 0xEE)
	dup, err := Duplicate(buf)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if !bytes.Equal(dup, b) {
		t.Fatalf("duplicate: % x", dup)
	}
	buf[6] = 0x77
	if dup[6] == 0x77 {
		t.Fatalf("duplicate shares the source buffer")
	}
}

func TestApproxDx(t *testing.T) {
	t.Parallel()

	dx := ApproxDx(-20, 0, 3)
	if len(dx) != 3 {
		t.Fatalf("len: %d", len(dx))
	}
	// 20 * 0.6 * (0.00024*400 + 0.904) = 12
	for _, d := range dx {
		if d != 12 {
			t.Fatalf("dx: %v", dx)
		}
	}
}
