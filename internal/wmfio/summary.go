package wmfio

import (
	"fmt"
	"strings"

	"github.com/samcharles93/wmfkit/pkg/wmf"
)

type PlaceableInfo struct {
	Left     int16 `json:"left"`
	Top      int16 `json:"top"`
	Right    int16 `json:"right"`
	Bottom   int16 `json:"bottom"`
	Inch     uint16 `json:"inch"`
	Checksum bool   `json:"checksum_ok"`
}

type RecordInfo struct {
	Index  int    `json:"index"`
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
	Type   string `json:"type"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Summary is the report printed by inspect and returned by the HTTP API.
type Summary struct {
	Bytes     int            `json:"bytes"`
	Digest    string         `json:"blake3"`
	Foreign   bool           `json:"byte_reversed"`
	Placeable *PlaceableInfo `json:"placeable,omitempty"`
	Header    wmf.Header     `json:"header"`
	Counts    map[string]int `json:"counts"`
	Records   []RecordInfo   `json:"records,omitempty"`
	// Failed counts records that are well framed but do not decode.
	Failed int `json:"failed"`
}

const maxDetail = 96

// Summarize decodes every record of mf. raw is the input as received and
// feeds the digest. Records are listed only when withRecords is set.
func Summarize(mf *wmf.File, raw []byte, withRecords bool) Summary {
	s := Summary{
		Bytes:   len(raw),
		Digest:  Digest(raw),
		Foreign: mf.Foreign,
		Header:  mf.Header,
		Counts:  make(map[string]int),
	}
	if p := mf.Placeable; p != nil {
		s.Placeable = &PlaceableInfo{
			Left: p.Dst.Left, Top: p.Dst.Top, Right: p.Dst.Right, Bottom: p.Dst.Bottom,
			Inch:     p.Inch,
			Checksum: p.Valid(),
		}
	}
	for i, ref := range mf.Records {
		s.Counts[ref.Type.String()]++
		rec, err := mf.Decode(i)
		if err != nil {
			s.Failed++
		}
		if !withRecords {
			continue
		}
		info := RecordInfo{Index: i, Offset: ref.Offset, Size: ref.Size, Type: ref.Type.String()}
		if err != nil {
			info.Error = err.Error()
		} else {
			info.Detail = Describe(rec)
		}
		s.Records = append(s.Records, info)
	}
	return s
}

// Describe renders the fields of a decoded record on one line.
func Describe(rec wmf.Record) string {
	var d string
	switch r := rec.(type) {
	case wmf.Empty:
		return ""
	case wmf.TextOut:
		d = fmt.Sprintf("at %d,%d %q", r.Dst.X, r.Dst.Y, wmf.DecodeText(r.Text))
	case wmf.ExtTextOut:
		d = fmt.Sprintf("at %d,%d opts %#x %q dx %d", r.Dst.X, r.Dst.Y, r.Opts, wmf.DecodeText(r.Text), len(r.Dx))
	case wmf.Poly:
		d = fmt.Sprintf("%d points", len(r.Points))
	case wmf.PolyPolygon:
		d = fmt.Sprintf("%d polygons", len(r.Polygons))
	case wmf.CreateFontIndirect:
		d = fmt.Sprintf("%q height %d weight %d", r.Font.Face(), r.Font.Height, r.Font.Weight)
	case wmf.Escape:
		d = fmt.Sprintf("%s %d bytes", wmf.EscapeName(r.Func), len(r.Data))
	case wmf.Unknown:
		d = fmt.Sprintf("%d bytes", len(r.Payload))
	default:
		d = strings.TrimPrefix(fmt.Sprintf("%+v", rec), "{")
		d = strings.TrimSuffix(d, "}")
	}
	if len(d) > maxDetail {
		d = d[:maxDetail-3] + "..."
	}
	return d
}
