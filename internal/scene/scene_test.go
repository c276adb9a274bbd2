package scene

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/wmfkit/pkg/wmf"
)

const houseScene = `
width: 2
height: 1.5
window: [0, 0, 2000, 1500]
objects:
  - name: outline
    pen: {style: solid, width: 10, color: "#202020"}
  - name: wall
    brush: {color: "#f0e0c0"}
  - name: roof
    brush: {style: hatched, color: red, hatch: 3}
  - name: label
    font: {face: Arial, height: -120, weight: 700}
ops:
  - select: outline
  - select: wall
  - rectangle: [200, 600, 1800, 1400]
  - select: roof
  - polygon: [[100, 600], [1000, 100], [1900, 600]]
  - delete: roof
  - linecap: round
  - moveto: [0, 1450]
  - lineto: [2000, 1450]
  - bkmode: transparent
  - textcolor: blue
  - select: label
  - text: {at: [700, 900], string: "Home", spacing: true}
  - create: roof
  - save: true
  - restore: true
`

func TestCompileHouse(t *testing.T) {
	t.Parallel()

	s, err := Load(strings.NewReader(houseScene))
	require.NoError(t, err)

	var out bytes.Buffer
	st, err := Compile(s, &out)
	require.NoError(t, err)
	assert.Equal(t, out.Len(), st.Bytes)
	assert.EqualValues(t, 4, st.Objects)

	mf, err := wmf.Parse(out.Bytes())
	require.NoError(t, err)
	require.NotNil(t, mf.Placeable)
	assert.True(t, mf.Placeable.Valid())
	assert.EqualValues(t, 2880, mf.Placeable.Dst.Right)
	assert.EqualValues(t, 2160, mf.Placeable.Dst.Bottom)
	assert.EqualValues(t, 4, mf.Header.NObjects)
	assert.Equal(t, uint32(len(mf.Records)), st.Records)

	var kinds []wmf.RecordType
	for ref := range mf.All() {
		kinds = append(kinds, ref.Type)
	}
	require.Len(t, kinds, 24)
	assert.Equal(t, []wmf.RecordType{
		wmf.TypeSetMapMode, wmf.TypeSetWindowOrg, wmf.TypeSetWindowExt,
		wmf.TypeCreatePenIndirect, wmf.TypeCreateBrushIndirect, wmf.TypeCreateBrushIndirect, wmf.TypeCreateFontIndirect,
	}, kinds[:7])
	assert.Equal(t, wmf.TypeEOF, kinds[len(kinds)-1])

	var deleted []uint16
	for i, ref := range mf.Records {
		if ref.Type != wmf.TypeDeleteObject {
			continue
		}
		rec, err := mf.Decode(i)
		require.NoError(t, err)
		deleted = append(deleted, rec.(wmf.ObjectIndex).Index)
	}
	assert.Equal(t, []uint16{2}, deleted)
	assert.Equal(t, wmf.TypeCreateBrushIndirect, kinds[20])

	for i, ref := range mf.Records {
		if ref.Type != wmf.TypeExtTextOut {
			continue
		}
		rec, err := mf.Decode(i)
		require.NoError(t, err)
		ext := rec.(wmf.ExtTextOut)
		assert.Equal(t, "Home", wmf.DecodeText(ext.Text))
		assert.Len(t, ext.Dx, 4)
	}
}

func TestCompileBigEndian(t *testing.T) {
	t.Parallel()

	s, err := Load(strings.NewReader(houseScene))
	require.NoError(t, err)

	var little, big bytes.Buffer
	_, err = Compile(s, &little)
	require.NoError(t, err)
	_, err = Compile(s, &big, wmf.WithByteOrder(wmf.BigEndian))
	require.NoError(t, err)

	assert.True(t, wmf.IsForeign(big.Bytes()))
	mf, err := wmf.Parse(big.Bytes())
	require.NoError(t, err)
	assert.Equal(t, little.Bytes(), mf.Data)
}

func TestLoadRejects(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"unknown key":      "widht: 2\n",
		"half size":        "width: 2\n",
		"two actions":      "ops:\n  - {moveto: [1, 2], lineto: [3, 4]}\n",
		"no action":        "ops:\n  - {}\n",
		"duplicate object": "objects:\n  - {name: a, pen: {}}\n  - {name: a, brush: {}}\n",
		"object kinds":     "objects:\n  - {name: a, pen: {}, brush: {}}\n",
		"bad window":       "window: [1, 2]\n",
	}
	for name, doc := range cases {
		_, err := Load(strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrInvalidScene, name)
	}
}

func TestCompileRejects(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"select unknown":   "ops:\n  - select: ghost\n",
		"select deleted":   "objects:\n  - {name: p, pen: {}}\nops:\n  - delete: p\n  - select: p\n",
		"create live":      "objects:\n  - {name: p, pen: {}}\nops:\n  - create: p\n",
		"bad point":        "ops:\n  - moveto: [1]\n",
		"bad color":        "ops:\n  - textcolor: mauve\n",
		"bad pen style":    "objects:\n  - {name: p, pen: {style: wavy}}\n",
		"bad path":         "ops:\n  - path: middle\n",
		"bad roundrect":    "ops:\n  - roundrect: [1, 2, 3, 4]\n",
		"bad linecap name": "ops:\n  - linecap: pointy\n",
	}
	for name, doc := range cases {
		s, err := Load(strings.NewReader(doc))
		require.NoError(t, err, name)
		var out bytes.Buffer
		_, err = Compile(s, &out)
		assert.ErrorIs(t, err, ErrInvalidScene, name)
		assert.Zero(t, out.Len(), name)
	}
}

func TestParseColor(t *testing.T) {
	t.Parallel()

	c, err := ParseColor("#1A2b3C")
	require.NoError(t, err)
	assert.Equal(t, wmf.RGB(0x1a, 0x2b, 0x3c), c)

	c, err = ParseColor(" White ")
	require.NoError(t, err)
	assert.Equal(t, wmf.RGB(255, 255, 255), c)

	_, err = ParseColor("#12345")
	assert.ErrorIs(t, err, ErrInvalidScene)
}
