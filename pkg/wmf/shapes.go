package wmf

import (
	"fmt"
	"math"
)

// newRecord allocates a zeroed record with room for payload bytes after the
// common header and writes that header.
func newRecord(t RecordType, payload int) ([]byte, error) {
	size := RecordHeaderSize + up2(payload)
	if uint64(size)/2 > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %s of %d bytes", ErrRecordTooLarge, t, size)
	}
	b := make([]byte, size)
	putRecordHeader(b, t, size)
	return b, nil
}

func setNoArgs(t RecordType) []byte {
	b, _ := newRecord(t, 0)
	return b
}

// setWords writes fixed 16-bit fields in order.
func setWords(t RecordType, words ...uint16) []byte {
	b, _ := newRecord(t, 2*len(words))
	for i, w := range words {
		put16(b, RecordHeaderSize+2*i, w)
	}
	return b
}

// setColorWords writes the optional lead words, a color, then the trailing
// words.
func setColorWords(t RecordType, lead []uint16, c ColorRef, trail ...uint16) []byte {
	b, _ := newRecord(t, 2*len(lead)+4+2*len(trail))
	off := RecordHeaderSize
	for _, w := range lead {
		put16(b, off, w)
		off += 2
	}
	c.put(b[off:])
	off += 4
	for _, w := range trail {
		put16(b, off, w)
		off += 2
	}
	return b
}

// setCountedPoints writes the lead words, the point count and the points.
// At least one point is required; the type minimum counts one.
func setCountedPoints(t RecordType, points []Point16) ([]byte, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s without points", ErrInvalidArgument, t)
	}
	if len(points) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %s with %d points", ErrRecordTooLarge, t, len(points))
	}
	b, err := newRecord(t, 2+4*len(points))
	if err != nil {
		return nil, err
	}
	put16(b, RecordHeaderSize, uint16(len(points)))
	off := RecordHeaderSize + 2
	for _, p := range points {
		putPoint(b[off:], p)
		off += 4
	}
	return b, nil
}

func setPalette(t RecordType, p Palette) ([]byte, error) {
	if len(p.Entries) == 0 {
		return nil, fmt.Errorf("%w: %s with an empty palette", ErrInvalidArgument, t)
	}
	if len(p.Entries) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %s with %d palette entries", ErrRecordTooLarge, t, len(p.Entries))
	}
	b, err := newRecord(t, p.size())
	if err != nil {
		return nil, err
	}
	put16(b, 6, p.Start)
	put16(b, 8, uint16(len(p.Entries)))
	off := 10
	for _, e := range p.Entries {
		b[off], b[off+1], b[off+2], b[off+3] = e.Value, e.Blue, e.Green, e.Red
		off += 4
	}
	return b, nil
}

// need reports ErrShortRecord when rec is shorter than n bytes.
func need(rec []byte, n int, what string) error {
	if n > len(rec) || n < 0 {
		return fmt.Errorf("%w: %s needs %d bytes, record has %d", ErrShortRecord, what, n, len(rec))
	}
	return nil
}

// getWord reads the i-th 16-bit field after the header.
func getWord(rec []byte, i int) uint16 { return le16(rec, RecordHeaderSize+2*i) }

func getInt(rec []byte, i int) int16 { return int16(getWord(rec, i)) }

// getPointYX reads a y, x pair starting at field i.
func getPointYX(rec []byte, i int) Point16 {
	return Point16{X: getInt(rec, i+1), Y: getInt(rec, i)}
}

func putPointYX(rec []byte, i int, p Point16) {
	put16(rec, RecordHeaderSize+2*i, uint16(p.Y))
	put16(rec, RecordHeaderSize+2*i+2, uint16(p.X))
}

// getRectBRTL reads bottom, right, top, left starting at field i.
func getRectBRTL(rec []byte, i int) Rect16 {
	return Rect16{
		Bottom: getInt(rec, i),
		Right:  getInt(rec, i+1),
		Top:    getInt(rec, i+2),
		Left:   getInt(rec, i+3),
	}
}

func rectBRTL(r Rect16) []uint16 {
	return []uint16{uint16(r.Bottom), uint16(r.Right), uint16(r.Top), uint16(r.Left)}
}

func getCountedPoints(rec []byte) ([]Point16, error) {
	n := int(getWord(rec, 0))
	if err := need(rec, RecordHeaderSize+2+4*n, "point array"); err != nil {
		return nil, err
	}
	pts := make([]Point16, n)
	off := RecordHeaderSize + 2
	for i := range pts {
		pts[i] = pointAt(rec[off:])
		off += 4
	}
	return pts, nil
}

func getPalette(rec []byte) (Palette, error) {
	p := Palette{Start: getWord(rec, 0)}
	n := int(getWord(rec, 1))
	if n == 0 {
		return Palette{}, fmt.Errorf("%w: empty palette", ErrShortRecord)
	}
	if err := need(rec, 10+4*n, "palette entries"); err != nil {
		return Palette{}, err
	}
	p.Entries = make([]PaletteEntry, n)
	off := 10
	for i := range p.Entries {
		p.Entries[i] = PaletteEntry{Value: rec[off], Blue: rec[off+1], Green: rec[off+2], Red: rec[off+3]}
		off += 4
	}
	return p, nil
}
