// Package wmfio loads and stores metafiles on disk, including gzip
// compressed .wmz files, and computes content digests.
package wmfio

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"lukechampine.com/blake3"

	"github.com/samcharles93/wmfkit/pkg/wmf"
)

// MaxSize caps decompressed input. A metafile cannot describe more than
// 2^32 words but nothing real comes close.
const MaxSize = 256 << 20

var ErrTooLarge = errors.New("wmfio: input exceeds size limit")

var gzipMagic = []byte{0x1f, 0x8b}

// IsCompressed reports whether b starts with a gzip header.
func IsCompressed(b []byte) bool { return bytes.HasPrefix(b, gzipMagic) }

// IsWMZ reports whether path names a compressed metafile.
func IsWMZ(path string) bool { return strings.EqualFold(filepath.Ext(path), ".wmz") }

// ReadAll reads r to the end, inflating gzip input, and fails with
// ErrTooLarge past limit bytes. limit <= 0 selects MaxSize.
func ReadAll(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = MaxSize
	}
	raw, err := readLimited(r, limit)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(raw) {
		return raw, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer func() { _ = zr.Close() }()
	out, err := readLimited(zr, limit)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	return out, nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

// Load opens a metafile. Plain files are memory mapped; .wmz and gzip
// content is inflated into memory first.
func Load(path string, opts ...wmf.Option) (*wmf.File, error) {
	if !IsWMZ(path) {
		head, err := peek(path, len(gzipMagic))
		if err != nil {
			return nil, err
		}
		if !IsCompressed(head) {
			return wmf.Open(path, opts...)
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	data, err := ReadAll(f, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return wmf.Parse(data, opts...)
}

func peek(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	buf := make([]byte, n)
	m, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:m], nil
}

// WriteFile writes data to path through a temporary file in the same
// directory. Paths ending in .wmz are gzip compressed.
func WriteFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if IsWMZ(path) {
		zw, err := gzip.NewWriterLevel(tmp, gzip.BestCompression)
		if err != nil {
			return err
		}
		if _, err := zw.Write(data); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
	} else if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Compress gzips data.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Digest is the hex BLAKE3-256 of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
