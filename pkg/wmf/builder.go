package wmf

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
)

// ByteOrder selects the byte order of a finished file.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big"
	}
	return "little"
}

// ParseByteOrder accepts "little"/"le" and "big"/"be".
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "little", "le":
		return LittleEndian, nil
	case "big", "be":
		return BigEndian, nil
	}
	return LittleEndian, fmt.Errorf("%w: byte order %q", ErrInvalidArgument, s)
}

const (
	defaultHandleSlots = 128
	defaultHandleChunk = 128
)

type options struct {
	log   *slog.Logger
	order ByteOrder
}

// Option configures a Builder or Parse.
type Option func(*options)

// WithLogger sends debug traces to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithByteOrder sets the byte order Finish writes in.
func WithByteOrder(order ByteOrder) Option {
	return func(o *options) { o.order = order }
}

func buildOptions(opts []Option) options {
	o := options{log: slog.New(slog.DiscardHandler)}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Builder assembles a metafile in memory and writes it out on Finish.
//
// Records are appended in order after the header. Every object record,
// whether appended raw or through the helper methods, goes through a
// HandleTable, so the indexes written match what a player assigns on
// playback.
// A Builder is not safe for concurrent use.
type Builder struct {
	w      io.Writer
	closer io.Closer // set when the builder created the sink
	path   string    // file created by Start, removed when Finish fails

	buf       []byte
	used      int
	chunk     int
	headerOff int // offset of the main header, -1 until AppendHeader

	records uint32
	largest int

	handles  *HandleTable
	opts     options
	finished bool
}

// NewBuilder returns a Builder that writes to w. initSize is the starting
// buffer size in bytes; the buffer grows by at least chunk bytes.
func NewBuilder(w io.Writer, initSize, chunk int, opts ...Option) (*Builder, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: nil writer", ErrInvalidArgument)
	}
	if initSize < 1 || chunk < 1 {
		return nil, fmt.Errorf("%w: buffer size %d chunk %d", ErrInvalidArgument, initSize, chunk)
	}
	ht, err := NewHandleTable(defaultHandleSlots, defaultHandleChunk)
	if err != nil {
		return nil, err
	}
	return &Builder{
		w:         w,
		buf:       make([]byte, initSize),
		chunk:     chunk,
		headerOff: -1,
		handles:   ht,
		opts:      buildOptions(opts),
	}, nil
}

// Start creates the file at path and returns a Builder writing to it. The
// file is closed by Finish, and removed if Finish fails.
func Start(path string, initSize, chunk int, opts ...Option) (*Builder, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	b, err := NewBuilder(f, initSize, chunk, opts...)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	b.closer = f
	b.path = path
	return b, nil
}

// Handles exposes the handle table used by the object helpers.
func (b *Builder) Handles() *HandleTable { return b.handles }

// Records is the number of records appended, the header excluded.
func (b *Builder) Records() uint32 { return b.records }

// Len is the number of bytes assembled so far.
func (b *Builder) Len() int { return b.used }

func (b *Builder) reserve(n int) {
	if b.used+n <= len(b.buf) {
		return
	}
	deficit := max(b.used+n-len(b.buf), b.chunk)
	grown := make([]byte, len(b.buf)+deficit)
	copy(grown, b.buf[:b.used])
	b.opts.log.Debug("wmf buffer grown", "from", len(b.buf), "to", len(grown))
	b.buf = grown
}

// AppendHeader appends the placeable (optional) and main header produced by
// NewHeader. It must be the first thing appended and is not counted as a
// record.
func (b *Builder) AppendHeader(hdr []byte) error {
	if b.finished {
		return ErrFinished
	}
	if b.headerOff >= 0 || b.used != 0 {
		return fmt.Errorf("%w: header already appended", ErrInvalidArgument)
	}
	n, err := HeaderLen(hdr)
	if err != nil {
		return err
	}
	b.reserve(n)
	copy(b.buf[b.used:], hdr[:n])
	if le32(hdr, 0) == PlaceableKey {
		b.headerOff = PlaceableSize
	} else {
		b.headerOff = 0
	}
	b.used += n
	b.largest = max(b.largest, n)
	return nil
}

// Append copies one encoded record. The record size comes from its own
// header. Object creating records take the lowest free handle and
// DELETEOBJECT releases one, as on playback; a DELETEOBJECT of an object that
// is not live is rejected before anything is copied.
func (b *Builder) Append(rec []byte) error {
	_, err := b.appendRecord(rec)
	return err
}

// takesHandle reports whether playing a record of kind fills an object table
// slot. DIBCREATEPATTERNBRUSH does, although its properties lack DrawObject.
func takesHandle(kind RecordType) bool {
	return kind.CreatesObject() || kind == TypeDIBCreatePatternBrush
}

// appendRecord is Append returning the handle taken by an object creating
// record, or 0.
func (b *Builder) appendRecord(rec []byte) (uint32, error) {
	if b.finished {
		return 0, ErrFinished
	}
	if b.headerOff < 0 {
		return 0, fmt.Errorf("%w: record appended before the header", ErrInvalidArgument)
	}
	size, err := SafeRecordSize(rec, len(rec))
	if err != nil {
		return 0, fmt.Errorf("append record %d: %w", b.records, err)
	}
	var h uint32
	switch kind := RecordType(rec[4]); {
	case takesHandle(kind):
		if h, err = b.handles.Insert(); err != nil {
			return 0, fmt.Errorf("append record %d: %w", b.records, err)
		}
	case kind == TypeDeleteObject:
		index := getWord(rec, 0)
		if err := b.handles.Delete(uint32(index) + 1); err != nil {
			return 0, fmt.Errorf("delete object %d: %w", index, err)
		}
	}
	b.reserve(size)
	copy(b.buf[b.used:], rec[:size])
	b.used += size
	b.records++
	b.largest = max(b.largest, size)
	return h, nil
}

// AppendRecord encodes r and appends it.
func (b *Builder) AppendRecord(r Record) error {
	if b.finished {
		return ErrFinished
	}
	rec, err := r.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.Type(), err)
	}
	return b.Append(rec)
}

// createObject appends an object creating record and returns the object
// index (handle-1) a player will assign to it.
func (b *Builder) createObject(r Record) (uint16, error) {
	if b.finished {
		return 0, ErrFinished
	}
	rec, err := r.MarshalBinary()
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", r.Type(), err)
	}
	h, err := b.appendRecord(rec)
	if err != nil {
		return 0, err
	}
	return uint16(h - 1), nil
}

func (b *Builder) CreatePen(p Pen) (uint16, error) {
	return b.createObject(CreatePenIndirect{Pen: p})
}

func (b *Builder) CreateBrush(br LogBrush) (uint16, error) {
	return b.createObject(CreateBrushIndirect{Brush: br})
}

func (b *Builder) CreateFont(f Font) (uint16, error) {
	return b.createObject(CreateFontIndirect{Font: f})
}

func (b *Builder) CreatePalette(entries []PaletteEntry) (uint16, error) {
	return b.createObject(NewCreatePalette(entries))
}

func (b *Builder) CreateRegion(r Region) (uint16, error) {
	return b.createObject(CreateRegion{Region: r})
}

func (b *Builder) CreatePatternBrush(bm Bitmap16, pattern []byte) (uint16, error) {
	return b.createObject(CreatePatternBrush{Bitmap: bm, Pattern: pattern})
}

func (b *Builder) CreateDIBPatternBrush(r DIBCreatePatternBrush) (uint16, error) {
	return b.createObject(r)
}

func (b *Builder) selectIndex(kind RecordType, index uint16) error {
	if b.finished {
		return ErrFinished
	}
	if !b.handles.Contains(uint32(index) + 1) {
		return fmt.Errorf("%w: %s of object %d, which is not live", ErrInvalidHandle, kind, index)
	}
	return b.AppendRecord(ObjectIndex{Kind: kind, Index: index})
}

// SelectObject selects a live object into the device context.
func (b *Builder) SelectObject(index uint16) error {
	return b.selectIndex(TypeSelectObject, index)
}

// SelectPalette selects a live palette.
func (b *Builder) SelectPalette(index uint16) error {
	return b.selectIndex(TypeSelectPalette, index)
}

// DeleteObject appends DELETEOBJECT, releasing the handle behind index.
func (b *Builder) DeleteObject(index uint16) error {
	return b.AppendRecord(ObjectIndex{Kind: TypeDeleteObject, Index: index})
}

// SetPaletteEntries appends SETPALENTRIES for the selected palette.
func (b *Builder) SetPaletteEntries(p Palette) error {
	return b.AppendRecord(PaletteRecord{Kind: TypeSetPalEntries, Palette: p})
}

func (b *Builder) BeginPath() error { return b.AppendRecord(BeginPath()) }

func (b *Builder) EndPath() error { return b.AppendRecord(EndPath()) }

func (b *Builder) SetLineCap(c int32) error {
	e, err := LineCap(c)
	if err != nil {
		return err
	}
	return b.AppendRecord(e)
}

func (b *Builder) SetLineJoin(j int32) error {
	e, err := LineJoin(j)
	if err != nil {
		return err
	}
	return b.AppendRecord(e)
}

func (b *Builder) SetMiterLimit(limit int32) error {
	return b.AppendRecord(MiterLimit(limit))
}

// Finish fills in the size fields of the main header, converts the buffer
// when big endian output was requested and writes it. Nothing is written
// when the header cannot be completed. A sink opened by Start is closed.
// The Builder cannot be used afterwards.
func (b *Builder) Finish() (err error) {
	if b.finished {
		return ErrFinished
	}
	b.finished = true
	if b.closer != nil {
		defer func() {
			if cerr := b.closer.Close(); err == nil {
				err = cerr
			}
			if err != nil && b.path != "" {
				_ = os.Remove(b.path)
			}
		}()
	}
	if b.headerOff < 0 {
		return fmt.Errorf("%w: finish without a header", ErrInvalidArgument)
	}

	nObjects := b.handles.Peak()
	if nObjects > math.MaxUint16 {
		return fmt.Errorf("%w: %d objects", ErrTooManyObjects, nObjects)
	}
	if uint64(b.used/2) > math.MaxUint32 {
		return fmt.Errorf("%w: file of %d bytes", ErrRecordTooLarge, b.used)
	}

	out := b.buf[:b.used]
	hdr := out[b.headerOff:]
	put32(hdr, 6, uint32(b.used/2))
	put16(hdr, 10, uint16(nObjects))
	put32(hdr, 12, uint32(b.largest/2))

	if b.opts.order == BigEndian {
		if err := SwapFile(out, true); err != nil {
			return fmt.Errorf("convert to %s endian: %w", b.opts.order, err)
		}
	}
	b.opts.log.Debug("wmf finished",
		"bytes", b.used,
		"records", b.records,
		"objects", nObjects,
		"largest", b.largest,
		"order", b.opts.order.String(),
	)
	if _, err := b.w.Write(out); err != nil {
		return fmt.Errorf("write metafile: %w", err)
	}
	if f, ok := b.w.(*os.File); ok && b.closer != nil {
		return f.Sync()
	}
	return nil
}
