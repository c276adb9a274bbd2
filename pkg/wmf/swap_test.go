package wmf

import (
	"bytes"
	"errors"
	"testing"
)

func TestSwapPrimitives(t *testing.T) {
	t.Parallel()

	// Unaligned start: the slice begins at an odd offset.
	buf := []byte{0xFF, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0xEE}
	Swap2(buf[1:], 2)
	if want := []byte{0xFF, 0x02, 0x01, 0x04, 0x03, 0x05, 0x06, 0x07, 0x08, 0xEE}; !bytes.Equal(buf, want) {
		t.Fatalf("Swap2: got % x want % x", buf, want)
	}

	buf = []byte{0xFF, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0xEE}
	Swap4(buf[1:], 2)
	if want := []byte{0xFF, 0x04, 0x03, 0x02, 0x01, 0x08, 0x07, 0x06, 0x05, 0xEE}; !bytes.Equal(buf, want) {
		t.Fatalf("Swap4: got % x want % x", buf, want)
	}

	Swap2(buf, 0)
	Swap4(nil, 0)
}

func TestRecordSizeChecks(t *testing.T) {
	t.Parallel()

	rec, err := RectRecord{Kind: TypeRectangle, Rect: Rect16{Right: 5, Bottom: 5}}.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if n, err := RecordSize(rec); err != nil || n != len(rec) {
		t.Fatalf("RecordSize: %d, %v", n, err)
	}
	if n, err := SafeRecordSize(rec, len(rec)); err != nil || n != len(rec) {
		t.Fatalf("SafeRecordSize: %d, %v", n, err)
	}
	if _, err := SafeRecordSize(rec, len(rec)-2); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord for short limit, got %v", err)
	}
	if _, err := SafeRecordSize(rec, 4); !errors.Is(err, ErrShortRecord) {
		t.Fatalf("expected ErrShortRecord below the header, got %v", err)
	}

	small := bytes.Clone(rec)
	put32(small, 0, 3)
	if _, err := RecordSize(small); !errors.Is(err, ErrShortRecord) {
		t.Fatalf("expected ErrShortRecord below the type minimum, got %v", err)
	}
}

func TestSaneRect(t *testing.T) {
	t.Parallel()

	got := SaneRect(Rect16{Left: 10, Top: 20, Right: -5, Bottom: 3})
	if want := (Rect16{Left: -5, Top: 3, Right: 10, Bottom: 20}); got != want {
		t.Fatalf("SaneRect: got %+v want %+v", got, want)
	}
}

func TestNewBitmap16Stride(t *testing.T) {
	t.Parallel()

	bm, err := NewBitmap16(9, 2, 1, AlignDWord, make([]byte, 16))
	if err != nil {
		t.Fatalf("NewBitmap16: %v", err)
	}
	if bm.WidthBytes != 4 || len(bm.Bits) != 8 || bm.Planes != 1 {
		t.Fatalf("unexpected bitmap %+v", bm)
	}
	if _, err := NewBitmap16(9, 2, 1, AlignDWord, make([]byte, 7)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for short bits, got %v", err)
	}
	if _, err := NewBitmap16(0, 2, 1, AlignWord, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for zero width, got %v", err)
	}
}
