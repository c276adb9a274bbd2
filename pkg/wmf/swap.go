package wmf

import "encoding/binary"

// Swap2 reverses the byte order of the first n 16-bit words of b in place.
// b needs no alignment; it must hold at least 2*n bytes.
func Swap2(b []byte, n int) {
	_ = b[:2*n]
	for i := 0; i < n; i++ {
		b[2*i], b[2*i+1] = b[2*i+1], b[2*i]
	}
}

// Swap4 reverses the byte order of the first n 32-bit words of b in place.
// b needs no alignment; it must hold at least 4*n bytes.
func Swap4(b []byte, n int) {
	_ = b[:4*n]
	for i := 0; i < n; i++ {
		w := b[4*i : 4*i+4]
		w[0], w[1], w[2], w[3] = w[3], w[2], w[1], w[0]
	}
}

func le16(b []byte, off int) uint16 { return binary.LittleEndian.Uint16(b[off:]) }
func le32(b []byte, off int) uint32 { return binary.LittleEndian.Uint32(b[off:]) }

func put16(b []byte, off int, v uint16) { binary.LittleEndian.PutUint16(b[off:], v) }
func put32(b []byte, off int, v uint32) { binary.LittleEndian.PutUint32(b[off:], v) }

func up2(n int) int { return (n + 1) &^ 1 }
func up4(n int) int { return (n + 3) &^ 3 }
