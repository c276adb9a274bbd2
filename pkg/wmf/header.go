package wmf

import "fmt"

// RecordHeader is the 6-byte prefix shared by every record.
type RecordHeader struct {
	Size16 uint32 // record size in 16-bit words
	Type   RecordType
	XB     uint8 // high byte of the type value
}

// ParseRecordHeader reads the common header at the start of b.
func ParseRecordHeader(b []byte) (RecordHeader, error) {
	if len(b) < RecordHeaderSize {
		return RecordHeader{}, fmt.Errorf("%w: %d bytes, need %d for a header", ErrShortRecord, len(b), RecordHeaderSize)
	}
	return RecordHeader{
		Size16: le32(b, 0),
		Type:   RecordType(b[4]),
		XB:     b[5],
	}, nil
}

// Size is the record size in bytes.
func (h RecordHeader) Size() uint64 { return 2 * uint64(h.Size16) }

// HasPayload reports whether a blit-family record carries pixel data.
// A record without a bitmap is exactly XB+3 words long.
func (h RecordHeader) HasPayload() bool { return h.Size16 != uint32(h.XB)+3 }

func putRecordHeader(b []byte, t RecordType, size int) {
	put32(b, 0, uint32(size/2))
	b[4] = byte(t)
	b[5] = t.XB()
}

// RecordSize returns the declared byte size of the record at the start of rec
// after checking it against the type minimum.
func RecordSize(rec []byte) (int, error) {
	h, err := ParseRecordHeader(rec)
	if err != nil {
		return 0, err
	}
	if h.Size() < uint64(MinSize(h.Type)) {
		return 0, fmt.Errorf("%w: %s declares %d bytes, minimum %d", ErrShortRecord, h.Type, h.Size(), MinSize(h.Type))
	}
	return int(h.Size()), nil
}

// SafeRecordSize is RecordSize with the additional guarantee that the record
// ends within the first limit bytes of rec.
func SafeRecordSize(rec []byte, limit int) (int, error) {
	limit = min(max(limit, 0), len(rec))
	h, err := ParseRecordHeader(rec[:limit])
	if err != nil {
		return 0, err
	}
	if h.Size() < uint64(MinSize(h.Type)) {
		return 0, fmt.Errorf("%w: %s declares %d bytes, minimum %d", ErrShortRecord, h.Type, h.Size(), MinSize(h.Type))
	}
	if h.Size() > uint64(limit) {
		return 0, fmt.Errorf("%w: %s declares %d bytes, %d available", ErrCorruptRecord, h.Type, h.Size(), limit)
	}
	return int(h.Size()), nil
}

// Duplicate copies a single record into a new buffer.
func Duplicate(rec []byte) ([]byte, error) {
	size, err := SafeRecordSize(rec, len(rec))
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, rec)
	return out, nil
}
