package wmf

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"os"

	"golang.org/x/sys/unix"
)

// RecordRef locates one record inside File.Data.
type RecordRef struct {
	Offset int
	Size   int
	Type   RecordType
}

type File struct {
	Data      []byte
	Placeable *Placeable
	Header    Header
	Records   []RecordRef
	// Foreign is set when the input was byte reversed and Data holds a
	// little endian copy.
	Foreign bool
	mmapped bool
}

// Open maps a metafile read-only and indexes its records.
// If mmap is unavailable, it falls back to ReadAt-based loading.
// The returned file must be closed to release any mapping.
func Open(path string, opts ...Option) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		// cannot index this file safely as []byte on this architecture.
		return nil, ErrCorruptFile
	}
	size := int(size64)
	if size < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorruptFile, size)
	}

	data, err := unix.Mmap(
		int(f.Fd()),
		0,
		size,
		unix.PROT_READ,
		unix.MAP_SHARED,
	)
	if err == nil {
		mf, parseErr := parseFileData(data, true, buildOptions(opts))
		if parseErr != nil {
			_ = unix.Munmap(data)
			return nil, parseErr
		}
		return mf, nil
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return parseFileData(data, false, buildOptions(opts))
}

// OpenReaderAt loads and indexes a metafile from a random-access reader
// without mmap.
func OpenReaderAt(r io.ReaderAt, size int64, opts ...Option) (*File, error) {
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return nil, ErrCorruptFile
	}
	data, err := readAllAt(r, int(size))
	if err != nil {
		return nil, err
	}
	return parseFileData(data, false, buildOptions(opts))
}

// Parse indexes a metafile held in memory. Record views alias data unless
// the file is byte reversed, in which case a converted copy is used.
func Parse(data []byte, opts ...Option) (*File, error) {
	return parseFileData(data, false, buildOptions(opts))
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrCorruptFile
	}
	if size == 0 {
		return []byte{}, nil
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

func parseFileData(data []byte, mmapped bool, o options) (*File, error) {
	orig := data
	mf := &File{Data: data, mmapped: mmapped}
	if IsForeign(data) {
		local := bytes.Clone(data)
		if err := SwapFile(local, false); err != nil {
			return nil, err
		}
		mf.Data, mf.Foreign = local, true
		data = local
		o.log.Debug("wmf input is byte reversed, converted a copy", "bytes", len(data))
	}

	off, err := HeaderLen(data)
	if err != nil {
		return nil, err
	}
	if le32(data, 0) == PlaceableKey {
		p, _ := ParsePlaceable(data)
		mf.Placeable = &p
		if !p.Valid() {
			o.log.Debug("wmf placeable checksum mismatch", "stored", p.Checksum)
		}
	}
	if mf.Placeable != nil {
		mf.Header, _ = ParseHeader(data[PlaceableSize:])
	} else {
		mf.Header, _ = ParseHeader(data)
	}

	for i := 0; off < len(data); i++ {
		size, err := SafeRecordSize(data[off:], len(data)-off)
		if err != nil {
			o.log.Debug("wmf corrupt record", "index", i, "offset", off, "err", err)
			return nil, fmt.Errorf("%w: record %d at offset %d: %w", ErrCorruptFile, i, off, err)
		}
		t := RecordType(data[off+4])
		mf.Records = append(mf.Records, RecordRef{Offset: off, Size: size, Type: t})
		off += size
		if t == TypeEOF {
			break
		}
	}
	if off < len(data) {
		o.log.Debug("wmf trailing bytes after EOF", "bytes", len(data)-off)
	}
	if want := 2 * uint64(mf.Header.Sizew); want != 0 && want != uint64(off) {
		o.log.Debug("wmf header size disagrees with records", "header_bytes", want, "record_bytes", off)
	}
	if mf.Foreign && mmapped {
		// the mapping is no longer referenced
		_ = unix.Munmap(orig)
		mf.mmapped = false
	}
	return mf, nil
}

// Close releases file resources and any mmap backing.
func (f *File) Close() error {
	if f == nil {
		return nil
	}
	var err error
	if f.Data != nil && f.mmapped {
		err = unix.Munmap(f.Data)
	}
	f.Data = nil
	f.Placeable = nil
	f.Records = nil
	f.mmapped = false
	return err
}

// Record returns a zero-copy view of record i.
// The caller must not retain this slice after File.Close().
func (f *File) Record(i int) []byte {
	if f == nil || f.Data == nil || i < 0 || i >= len(f.Records) {
		return nil
	}
	r := f.Records[i]
	return f.Data[r.Offset : r.Offset+r.Size]
}

// Decode decodes record i.
func (f *File) Decode(i int) (Record, error) {
	rec := f.Record(i)
	if rec == nil {
		return nil, fmt.Errorf("%w: record %d out of range", ErrInvalidArgument, i)
	}
	return Decode(rec)
}

// All yields every record with its raw bytes.
func (f *File) All() iter.Seq2[RecordRef, []byte] {
	return func(yield func(RecordRef, []byte) bool) {
		for i, r := range f.Records {
			if !yield(r, f.Record(i)) {
				return
			}
		}
	}
}
