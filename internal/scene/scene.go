// Package scene compiles YAML drawing descriptions into metafiles.
//
// A scene declares named drawing objects (pens, brushes, fonts, palettes)
// and a list of operations. Objects are created in declaration order before
// the first operation; "delete" releases one and "create" brings it back,
// reusing the lowest free object slot the same way a player would.
package scene

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/samcharles93/wmfkit/pkg/wmf"
)

var ErrInvalidScene = errors.New("scene: invalid description")

type Scene struct {
	// Width and Height are the picture size in inches. Both zero means no
	// placeable header.
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
	DPI    uint32  `yaml:"dpi"`

	// ChunkSize is the initial and growth size of the output buffer.
	ChunkSize int `yaml:"chunk_size"`

	// Window sets an anisotropic mapping with this logical origin and extent.
	Window []int16 `yaml:"window"`

	Objects []Object `yaml:"objects"`
	Ops     []Op     `yaml:"ops"`
}

type Object struct {
	Name    string     `yaml:"name"`
	Pen     *PenSpec   `yaml:"pen"`
	Brush   *BrushSpec `yaml:"brush"`
	Font    *FontSpec  `yaml:"font"`
	Palette []string   `yaml:"palette"`
}

type PenSpec struct {
	Style string `yaml:"style"`
	Width uint16 `yaml:"width"`
	Color string `yaml:"color"`
}

type BrushSpec struct {
	Style string `yaml:"style"`
	Color string `yaml:"color"`
	Hatch uint16 `yaml:"hatch"`
}

type FontSpec struct {
	Face   string `yaml:"face"`
	Height int16  `yaml:"height"`
	Weight int16  `yaml:"weight"`
	Italic bool   `yaml:"italic"`
}

type ArcSpec struct {
	Rect  []int16 `yaml:"rect"`
	Start []int16 `yaml:"start"`
	End   []int16 `yaml:"end"`
}

type TextSpec struct {
	At     []int16 `yaml:"at"`
	String string  `yaml:"string"`
	// Spacing emits EXTTEXTOUT with an estimated spacing array derived from
	// the selected font.
	Spacing bool    `yaml:"spacing"`
	Clip    []int16 `yaml:"clip"`
}

// Op is one drawing operation. Exactly one field must be set.
type Op struct {
	Select string `yaml:"select"`
	Create string `yaml:"create"`
	Delete string `yaml:"delete"`

	MoveTo      []int16     `yaml:"moveto"`
	LineTo      []int16     `yaml:"lineto"`
	Rectangle   []int16     `yaml:"rectangle"`
	Ellipse     []int16     `yaml:"ellipse"`
	RoundRect   []int16     `yaml:"roundrect"`
	Arc         *ArcSpec    `yaml:"arc"`
	Pie         *ArcSpec    `yaml:"pie"`
	Chord       *ArcSpec    `yaml:"chord"`
	Polygon     [][]int16   `yaml:"polygon"`
	Polyline    [][]int16   `yaml:"polyline"`
	PolyPolygon [][][]int16 `yaml:"polypolygon"`
	Text        *TextSpec   `yaml:"text"`

	TextColor string `yaml:"textcolor"`
	BkColor   string `yaml:"bkcolor"`
	BkMode    string `yaml:"bkmode"`
	LineCap   string `yaml:"linecap"`
	LineJoin  string `yaml:"linejoin"`
	Miter     int32  `yaml:"miterlimit"`
	Path      string `yaml:"path"`
	Save      bool   `yaml:"save"`
	Restore   bool   `yaml:"restore"`
}

func (op Op) action() (string, error) {
	var set []string
	add := func(name string, ok bool) {
		if ok {
			set = append(set, name)
		}
	}
	add("select", op.Select != "")
	add("create", op.Create != "")
	add("delete", op.Delete != "")
	add("moveto", op.MoveTo != nil)
	add("lineto", op.LineTo != nil)
	add("rectangle", op.Rectangle != nil)
	add("ellipse", op.Ellipse != nil)
	add("roundrect", op.RoundRect != nil)
	add("arc", op.Arc != nil)
	add("pie", op.Pie != nil)
	add("chord", op.Chord != nil)
	add("polygon", op.Polygon != nil)
	add("polyline", op.Polyline != nil)
	add("polypolygon", op.PolyPolygon != nil)
	add("text", op.Text != nil)
	add("textcolor", op.TextColor != "")
	add("bkcolor", op.BkColor != "")
	add("bkmode", op.BkMode != "")
	add("linecap", op.LineCap != "")
	add("linejoin", op.LineJoin != "")
	add("miterlimit", op.Miter != 0)
	add("path", op.Path != "")
	add("save", op.Save)
	add("restore", op.Restore)
	if len(set) != 1 {
		return "", fmt.Errorf("%w: operation sets %v, want exactly one action", ErrInvalidScene, set)
	}
	return set[0], nil
}

// Load decodes a scene. Unknown keys are rejected.
func Load(r io.Reader) (*Scene, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Scene
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads a scene from path.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Validate checks object declarations and that every operation names one
// action.
func (s *Scene) Validate() error {
	if (s.Width == 0) != (s.Height == 0) {
		return fmt.Errorf("%w: width and height must be set together", ErrInvalidScene)
	}
	if s.Window != nil && len(s.Window) != 4 {
		return fmt.Errorf("%w: window wants [x, y, width, height]", ErrInvalidScene)
	}
	seen := make(map[string]bool, len(s.Objects))
	for i, o := range s.Objects {
		if o.Name == "" {
			return fmt.Errorf("%w: object %d has no name", ErrInvalidScene, i)
		}
		if seen[o.Name] {
			return fmt.Errorf("%w: object %q declared twice", ErrInvalidScene, o.Name)
		}
		seen[o.Name] = true
		kinds := 0
		for _, ok := range []bool{o.Pen != nil, o.Brush != nil, o.Font != nil, o.Palette != nil} {
			if ok {
				kinds++
			}
		}
		if kinds != 1 {
			return fmt.Errorf("%w: object %q must be exactly one of pen, brush, font or palette", ErrInvalidScene, o.Name)
		}
	}
	for i, op := range s.Ops {
		if _, err := op.action(); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
	}
	return nil
}

// Stats summarises a compiled scene.
type Stats struct {
	Records uint32
	Bytes   int
	Objects uint32
}

type compiler struct {
	b       *wmf.Builder
	objects map[string]Object
	live    map[string]uint16
	font    *FontSpec
}

// Compile writes the scene as a metafile to w.
func Compile(s *Scene, w io.Writer, opts ...wmf.Option) (Stats, error) {
	if err := s.Validate(); err != nil {
		return Stats{}, err
	}
	var size *wmf.PairF
	if s.Width != 0 {
		size = &wmf.PairF{X: s.Width, Y: s.Height}
	}
	hdr, err := wmf.NewHeader(size, s.DPI)
	if err != nil {
		return Stats{}, err
	}
	chunk := s.ChunkSize
	if chunk <= 0 {
		chunk = defaultChunk
	}
	b, err := wmf.NewBuilder(w, chunk, chunk, opts...)
	if err != nil {
		return Stats{}, err
	}
	if err := b.AppendHeader(hdr); err != nil {
		return Stats{}, err
	}

	c := &compiler{
		b:       b,
		objects: make(map[string]Object, len(s.Objects)),
		live:    make(map[string]uint16, len(s.Objects)),
	}
	if s.Window != nil {
		for _, r := range []wmf.Record{
			wmf.SetMode{Kind: wmf.TypeSetMapMode, Mode: mmAnisotropic},
			wmf.PointRecord{Kind: wmf.TypeSetWindowOrg, Point: wmf.Point16{X: s.Window[0], Y: s.Window[1]}},
			wmf.PointRecord{Kind: wmf.TypeSetWindowExt, Point: wmf.Point16{X: s.Window[2], Y: s.Window[3]}},
		} {
			if err := b.AppendRecord(r); err != nil {
				return Stats{}, err
			}
		}
	}
	for _, o := range s.Objects {
		c.objects[o.Name] = o
		if err := c.create(o.Name); err != nil {
			return Stats{}, err
		}
	}
	for i, op := range s.Ops {
		if err := c.apply(op); err != nil {
			return Stats{}, fmt.Errorf("op %d: %w", i, err)
		}
	}
	if err := b.AppendRecord(wmf.Empty{Kind: wmf.TypeEOF}); err != nil {
		return Stats{}, err
	}
	st := Stats{Records: b.Records(), Bytes: b.Len(), Objects: b.Handles().Peak()}
	if err := b.Finish(); err != nil {
		return Stats{}, err
	}
	return st, nil
}

const (
	defaultChunk = 4096
	// mmAnisotropic is the MM_ANISOTROPIC mapping mode.
	mmAnisotropic = 8
)

func (c *compiler) create(name string) error {
	o, ok := c.objects[name]
	if !ok {
		return fmt.Errorf("%w: unknown object %q", ErrInvalidScene, name)
	}
	if _, ok := c.live[name]; ok {
		return fmt.Errorf("%w: object %q already exists", ErrInvalidScene, name)
	}
	var (
		idx uint16
		err error
	)
	switch {
	case o.Pen != nil:
		var pen wmf.Pen
		if pen, err = o.Pen.pen(); err == nil {
			idx, err = c.b.CreatePen(pen)
		}
	case o.Brush != nil:
		var br wmf.LogBrush
		if br, err = o.Brush.brush(); err == nil {
			idx, err = c.b.CreateBrush(br)
		}
	case o.Font != nil:
		var f wmf.Font
		if f, err = wmf.NewFont(o.Font.Height, o.Font.Weight, o.Font.Face); err == nil {
			if o.Font.Italic {
				f.Italic = 1
			}
			idx, err = c.b.CreateFont(f)
		}
	default:
		entries := make([]wmf.PaletteEntry, len(o.Palette))
		for i, s := range o.Palette {
			col, perr := ParseColor(s)
			if perr != nil {
				return perr
			}
			entries[i] = wmf.PaletteEntry{Red: col.R, Green: col.G, Blue: col.B}
		}
		idx, err = c.b.CreatePalette(entries)
	}
	if err != nil {
		return fmt.Errorf("create %q: %w", name, err)
	}
	c.live[name] = idx
	return nil
}

func (c *compiler) index(name string) (uint16, error) {
	idx, ok := c.live[name]
	if !ok {
		return 0, fmt.Errorf("%w: object %q is not live", ErrInvalidScene, name)
	}
	return idx, nil
}

func (c *compiler) apply(op Op) error {
	action, err := op.action()
	if err != nil {
		return err
	}
	switch action {
	case "select":
		idx, err := c.index(op.Select)
		if err != nil {
			return err
		}
		o := c.objects[op.Select]
		if o.Palette != nil {
			return c.b.SelectPalette(idx)
		}
		if o.Font != nil {
			c.font = o.Font
		}
		return c.b.SelectObject(idx)
	case "create":
		return c.create(op.Create)
	case "delete":
		idx, err := c.index(op.Delete)
		if err != nil {
			return err
		}
		if err := c.b.DeleteObject(idx); err != nil {
			return err
		}
		delete(c.live, op.Delete)
		if c.font == c.objects[op.Delete].Font {
			c.font = nil
		}
		return nil
	case "moveto":
		return c.point(wmf.TypeMoveTo, op.MoveTo)
	case "lineto":
		return c.point(wmf.TypeLineTo, op.LineTo)
	case "rectangle":
		return c.rect(wmf.TypeRectangle, op.Rectangle)
	case "ellipse":
		return c.rect(wmf.TypeEllipse, op.Ellipse)
	case "roundrect":
		if len(op.RoundRect) != 6 {
			return fmt.Errorf("%w: roundrect wants [left, top, right, bottom, width, height]", ErrInvalidScene)
		}
		v := op.RoundRect
		return c.b.AppendRecord(wmf.RoundRect{Rect: wmf.Rect16{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}, Width: v[4], Height: v[5]})
	case "arc":
		return c.arc(wmf.TypeArc, op.Arc)
	case "pie":
		return c.arc(wmf.TypePie, op.Pie)
	case "chord":
		return c.arc(wmf.TypeChord, op.Chord)
	case "polygon":
		pts, err := points(op.Polygon)
		if err != nil {
			return err
		}
		return c.b.AppendRecord(wmf.Poly{Kind: wmf.TypePolygon, Points: pts})
	case "polyline":
		pts, err := points(op.Polyline)
		if err != nil {
			return err
		}
		return c.b.AppendRecord(wmf.Poly{Kind: wmf.TypePolyline, Points: pts})
	case "polypolygon":
		polys := make([][]wmf.Point16, len(op.PolyPolygon))
		for i, p := range op.PolyPolygon {
			if polys[i], err = points(p); err != nil {
				return err
			}
		}
		return c.b.AppendRecord(wmf.PolyPolygon{Polygons: polys})
	case "text":
		return c.text(op.Text)
	case "textcolor", "bkcolor":
		kind, s := wmf.TypeSetTextColor, op.TextColor
		if action == "bkcolor" {
			kind, s = wmf.TypeSetBkColor, op.BkColor
		}
		col, err := ParseColor(s)
		if err != nil {
			return err
		}
		return c.b.AppendRecord(wmf.SetColor{Kind: kind, Color: col})
	case "bkmode":
		mode, ok := map[string]uint16{"transparent": 1, "opaque": 2}[strings.ToLower(op.BkMode)]
		if !ok {
			return fmt.Errorf("%w: bkmode %q", ErrInvalidScene, op.BkMode)
		}
		return c.b.AppendRecord(wmf.SetMode{Kind: wmf.TypeSetBkMode, Mode: mode})
	case "linecap":
		v, ok := map[string]int32{"flat": wmf.CapFlat, "round": wmf.CapRound, "square": wmf.CapSquare}[strings.ToLower(op.LineCap)]
		if !ok {
			return fmt.Errorf("%w: linecap %q", ErrInvalidScene, op.LineCap)
		}
		return c.b.SetLineCap(v)
	case "linejoin":
		v, ok := map[string]int32{"miter": wmf.JoinMiter, "round": wmf.JoinRound, "bevel": wmf.JoinBevel}[strings.ToLower(op.LineJoin)]
		if !ok {
			return fmt.Errorf("%w: linejoin %q", ErrInvalidScene, op.LineJoin)
		}
		return c.b.SetLineJoin(v)
	case "miterlimit":
		return c.b.SetMiterLimit(op.Miter)
	case "path":
		switch strings.ToLower(op.Path) {
		case "begin":
			return c.b.BeginPath()
		case "end":
			return c.b.EndPath()
		}
		return fmt.Errorf("%w: path %q (want begin or end)", ErrInvalidScene, op.Path)
	case "save":
		return c.b.AppendRecord(wmf.Empty{Kind: wmf.TypeSaveDC})
	case "restore":
		return c.b.AppendRecord(wmf.ObjectIndex{Kind: wmf.TypeRestoreDC, Index: 0xFFFF})
	}
	return fmt.Errorf("%w: unhandled action %q", ErrInvalidScene, action)
}

func point(v []int16) (wmf.Point16, error) {
	if len(v) != 2 {
		return wmf.Point16{}, fmt.Errorf("%w: point wants [x, y], got %v", ErrInvalidScene, v)
	}
	return wmf.Point16{X: v[0], Y: v[1]}, nil
}

func points(vs [][]int16) ([]wmf.Point16, error) {
	out := make([]wmf.Point16, len(vs))
	for i, v := range vs {
		p, err := point(v)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func rect(v []int16) (wmf.Rect16, error) {
	if len(v) != 4 {
		return wmf.Rect16{}, fmt.Errorf("%w: rectangle wants [left, top, right, bottom], got %v", ErrInvalidScene, v)
	}
	return wmf.Rect16{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}, nil
}

func (c *compiler) point(kind wmf.RecordType, v []int16) error {
	p, err := point(v)
	if err != nil {
		return err
	}
	return c.b.AppendRecord(wmf.PointRecord{Kind: kind, Point: p})
}

func (c *compiler) rect(kind wmf.RecordType, v []int16) error {
	r, err := rect(v)
	if err != nil {
		return err
	}
	return c.b.AppendRecord(wmf.RectRecord{Kind: kind, Rect: r})
}

func (c *compiler) arc(kind wmf.RecordType, a *ArcSpec) error {
	r, err := rect(a.Rect)
	if err != nil {
		return err
	}
	start, err := point(a.Start)
	if err != nil {
		return err
	}
	end, err := point(a.End)
	if err != nil {
		return err
	}
	return c.b.AppendRecord(wmf.ArcRecord{Kind: kind, Rect: r, Start: start, End: end})
}

func (c *compiler) text(t *TextSpec) error {
	at, err := point(t.At)
	if err != nil {
		return err
	}
	if !t.Spacing && t.Clip == nil {
		rec, err := wmf.NewTextOut(at, t.String)
		if err != nil {
			return err
		}
		return c.b.AppendRecord(rec)
	}
	text, err := wmf.EncodeText(t.String)
	if err != nil {
		return err
	}
	rec := wmf.ExtTextOut{Dst: at, Text: text}
	if t.Clip != nil {
		if rec.Rect, err = rect(t.Clip); err != nil {
			return err
		}
		rec.Opts = wmf.ETOClipped
	}
	if t.Spacing {
		var height int32 = 12
		var weight uint32
		if c.font != nil {
			height, weight = int32(c.font.Height), uint32(max(c.font.Weight, 0))
		}
		rec.Dx = wmf.ApproxDx(height, weight, len(text))
	}
	return c.b.AppendRecord(rec)
}

var penStyles = map[string]uint16{
	"":            wmf.PSSolid,
	"solid":       wmf.PSSolid,
	"dash":        wmf.PSDash,
	"dot":         wmf.PSDot,
	"dashdot":     wmf.PSDashDot,
	"dashdotdot":  wmf.PSDashDotDot,
	"null":        wmf.PSNull,
	"insideframe": wmf.PSInsideFrame,
}

var brushStyles = map[string]uint16{
	"":        wmf.BSSolid,
	"solid":   wmf.BSSolid,
	"null":    wmf.BSNull,
	"hatched": wmf.BSHatched,
}

func (p *PenSpec) pen() (wmf.Pen, error) {
	style, ok := penStyles[strings.ToLower(p.Style)]
	if !ok {
		return wmf.Pen{}, fmt.Errorf("%w: pen style %q", ErrInvalidScene, p.Style)
	}
	col, err := ParseColor(p.Color)
	if err != nil {
		return wmf.Pen{}, err
	}
	return wmf.Pen{Style: style, Width: p.Width, Color: col}, nil
}

func (b *BrushSpec) brush() (wmf.LogBrush, error) {
	style, ok := brushStyles[strings.ToLower(b.Style)]
	if !ok {
		return wmf.LogBrush{}, fmt.Errorf("%w: brush style %q", ErrInvalidScene, b.Style)
	}
	col, err := ParseColor(b.Color)
	if err != nil {
		return wmf.LogBrush{}, err
	}
	return wmf.LogBrush{Style: style, Color: col, Hatch: b.Hatch}, nil
}

var namedColors = map[string]wmf.ColorRef{
	"black": wmf.RGB(0, 0, 0),
	"white": wmf.RGB(255, 255, 255),
	"red":   wmf.RGB(255, 0, 0),
	"green": wmf.RGB(0, 128, 0),
	"blue":  wmf.RGB(0, 0, 255),
	"gray":  wmf.RGB(128, 128, 128),
}

// ParseColor accepts "#rrggbb" or a basic color name. Empty is black.
func ParseColor(s string) (wmf.ColorRef, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return wmf.ColorRef{}, nil
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if len(s) == 7 && s[0] == '#' {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return wmf.RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
		}
	}
	return wmf.ColorRef{}, fmt.Errorf("%w: color %q", ErrInvalidScene, s)
}
