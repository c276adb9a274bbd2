package wmf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestSwapRecordInvolution(t *testing.T) {
	t.Parallel()

	for _, r := range sampleRecords(t) {
		b := mustMarshal(t, r)
		got := bytes.Clone(b)
		if err := SwapRecord(got, true); err != nil {
			t.Fatalf("%s to foreign: %v", r.Type(), err)
		}
		if binary.BigEndian.Uint32(got) != uint32(len(b)/2) {
			t.Fatalf("%s: swapped size % x", r.Type(), got[:4])
		}
		if err := SwapRecord(got, false); err != nil {
			t.Fatalf("%s back to native: %v", r.Type(), err)
		}
		if !bytes.Equal(got, b) {
			t.Fatalf("%s does not survive a double swap:\n got % x\nwant % x", r.Type(), got, b)
		}
	}
}

func TestSwapSetBkColorLeavesColor(t *testing.T) {
	t.Parallel()

	b := mustMarshal(t, SetColor{Kind: TypeSetBkColor, Color: ColorRef{R: 255}})
	want := []byte{0x05, 0x00, 0x00, 0x00, 0x01, 0x02, 0xFF, 0x00, 0x00, 0x00}
	if !bytes.Equal(b, want) {
		t.Fatalf("native: % x", b)
	}
	if err := SwapRecord(b, true); err != nil {
		t.Fatalf("swap: %v", err)
	}
	want = []byte{0x00, 0x00, 0x00, 0x05, 0x02, 0x01, 0xFF, 0x00, 0x00, 0x00}
	if !bytes.Equal(b, want) {
		t.Fatalf("foreign: got % x want % x", b, want)
	}
}

func TestSwapLayouts(t *testing.T) {
	t.Parallel()

	t.Run("textout", func(t *testing.T) {
		t.Parallel()
		b := mustMarshal(t, TextOut{Dst: Point16{X: 0x0102, Y: 0x0304}, Text: []byte("abc")})
		if err := SwapRecord(b, true); err != nil {
			t.Fatalf("swap: %v", err)
		}
		if binary.BigEndian.Uint16(b[6:]) != 3 {
			t.Fatalf("length: % x", b[6:8])
		}
		if string(b[8:11]) != "abc" {
			t.Fatalf("text was swapped: %q", b[8:11])
		}
		if binary.BigEndian.Uint16(b[12:]) != 0x0304 || binary.BigEndian.Uint16(b[14:]) != 0x0102 {
			t.Fatalf("position: % x", b[12:16])
		}
	})

	t.Run("polygon", func(t *testing.T) {
		t.Parallel()
		b := mustMarshal(t, Poly{Kind: TypePolygon, Points: []Point16{{X: 1, Y: 2}, {X: 3, Y: 4}}})
		if err := SwapRecord(b, true); err != nil {
			t.Fatalf("swap: %v", err)
		}
		for i, want := range []uint16{2, 1, 2, 3, 4} {
			if got := binary.BigEndian.Uint16(b[6+2*i:]); got != want {
				t.Fatalf("word %d: got %d want %d", i, got, want)
			}
		}
	})

	t.Run("palette", func(t *testing.T) {
		t.Parallel()
		b := mustMarshal(t, NewCreatePalette([]PaletteEntry{{Value: 1, Blue: 2, Green: 3, Red: 4}}))
		if err := SwapRecord(b, true); err != nil {
			t.Fatalf("swap: %v", err)
		}
		if binary.BigEndian.Uint16(b[6:]) != PaletteVersion || binary.BigEndian.Uint16(b[8:]) != 1 {
			t.Fatalf("palette header: % x", b[6:10])
		}
		if !bytes.Equal(b[10:14], []byte{1, 2, 3, 4}) {
			t.Fatalf("palette entry was swapped: % x", b[10:14])
		}
	})

	t.Run("dib", func(t *testing.T) {
		t.Parallel()
		dib := testDIB(t)
		b := mustMarshal(t, DIBBitBlt{Rop: SrcCopy, Width: 2, Height: 2, DIB: dib})
		if err := SwapRecord(b, true); err != nil {
			t.Fatalf("swap: %v", err)
		}
		if binary.BigEndian.Uint32(b[6:]) != SrcCopy {
			t.Fatalf("rop: % x", b[6:10])
		}
		hdr := b[22:]
		if binary.BigEndian.Uint32(hdr) != infoHeaderSize || binary.BigEndian.Uint32(hdr[4:]) != 2 {
			t.Fatalf("DIB header: % x", hdr[:12])
		}
		if binary.BigEndian.Uint16(hdr[14:]) != 24 {
			t.Fatalf("bit count: % x", hdr[14:16])
		}
		if !bytes.Equal(hdr[infoHeaderSize:], dib[infoHeaderSize:]) {
			t.Fatalf("pixels were swapped")
		}
	})
}

func TestSwapRecordRejectsBadSize(t *testing.T) {
	t.Parallel()

	b := mustMarshal(t, PointRecord{Kind: TypeLineTo})
	if err := SwapRecord(b[:8], true); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("short buffer: got %v want ErrCorruptRecord", err)
	}
	if err := SwapRecord(b[:4], true); !errors.Is(err, ErrShortRecord) {
		t.Fatalf("partial header: got %v want ErrShortRecord", err)
	}
	poly := mustMarshal(t, Poly{Kind: TypePolyline, Points: []Point16{{X: 1, Y: 1}}})
	put16(poly, 6, 9)
	if err := SwapRecord(poly, true); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("count past the record: got %v want ErrCorruptRecord", err)
	}
}

func buildSampleFile(t *testing.T, placeable bool, opts ...Option) []byte {
	t.Helper()
	var size *PairF
	if placeable {
		size = &PairF{X: 2, Y: 1}
	}
	hdr, err := NewHeader(size, 0)
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	var out bytes.Buffer
	b, err := NewBuilder(&out, 64, 64, opts...)
	if err != nil {
		t.Fatalf("builder: %v", err)
	}
	if err := b.AppendHeader(hdr); err != nil {
		t.Fatalf("append header: %v", err)
	}
	for _, r := range sampleRecords(t) {
		if r.Type() == TypeEOF {
			continue
		}
		if err := b.AppendRecord(r); err != nil {
			t.Fatalf("append %s: %v", r.Type(), err)
		}
	}
	if err := b.AppendRecord(Empty{Kind: TypeEOF}); err != nil {
		t.Fatalf("append EOF: %v", err)
	}
	if err := b.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	return out.Bytes()
}

func TestSwapFileInvolution(t *testing.T) {
	t.Parallel()

	for _, placeable := range []bool{false, true} {
		orig := buildSampleFile(t, placeable)
		b := bytes.Clone(orig)
		if err := SwapFile(b, true); err != nil {
			t.Fatalf("to foreign: %v", err)
		}
		if bytes.Equal(b, orig) {
			t.Fatalf("conversion changed nothing")
		}
		if !IsForeign(b) {
			t.Fatalf("converted file not detected as foreign")
		}
		if IsForeign(orig) {
			t.Fatalf("native file detected as foreign")
		}
		if err := SwapFile(b, false); err != nil {
			t.Fatalf("to native: %v", err)
		}
		if !bytes.Equal(b, orig) {
			t.Fatalf("file does not survive a double swap (placeable=%v)", placeable)
		}
	}
}

func TestSwapFileTruncated(t *testing.T) {
	t.Parallel()

	orig := buildSampleFile(t, true)
	for _, cut := range []int{PlaceableSize - 1, PlaceableSize + HeaderSize - 1, len(orig) - 3, len(orig) - 7} {
		b := bytes.Clone(orig[:cut])
		if err := SwapFile(b, true); !errors.Is(err, ErrCorruptFile) {
			t.Fatalf("cut at %d: got %v want ErrCorruptFile", cut, err)
		}
	}

	zero := bytes.Clone(orig)
	off, err := HeaderLen(zero)
	if err != nil {
		t.Fatalf("header len: %v", err)
	}
	put32(zero, off, 0)
	if err := SwapFile(zero, true); !errors.Is(err, ErrCorruptFile) {
		t.Fatalf("zero sized record: got %v want ErrCorruptFile", err)
	}
}
