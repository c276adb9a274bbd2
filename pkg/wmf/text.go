package wmf

import (
	"fmt"
	"math"

	"golang.org/x/text/encoding/charmap"
)

// EncodeText converts s to the single-byte Windows-1252 encoding used by the
// text records and font face names.
func EncodeText(s string) ([]byte, error) {
	out, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: text %q: %v", ErrInvalidArgument, s, err)
	}
	return out, nil
}

// DecodeText converts Windows-1252 bytes to a string.
func DecodeText(b []byte) string {
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// ApproxDx returns an inter-character spacing array for n characters of a
// font with the given height and weight. A zero weight means normal (400).
// It is only an estimate for callers that have no font metrics.
func ApproxDx(height int32, weight uint32, n int) []int16 {
	if weight == 0 {
		weight = 400
	}
	h := math.Abs(float64(height))
	width := math.Round(h * 0.6 * (0.00024*float64(weight) + 0.904))
	width = min(width, math.MaxInt16)
	dx := make([]int16, n)
	for i := range dx {
		dx[i] = int16(width)
	}
	return dx
}
