package wmf

import (
	"fmt"
	"slices"
)

// Record is one decoded or constructed metafile record. Each variant covers
// the record kinds that share a wire shape; Type reports the concrete kind.
type Record interface {
	Type() RecordType
	MarshalBinary() ([]byte, error)
}

func checkKind(v string, kind RecordType, allowed ...RecordType) error {
	if !slices.Contains(allowed, kind) {
		return fmt.Errorf("%w: %s cannot encode %s", ErrUnsupported, v, kind)
	}
	return nil
}

var emptyKinds = []RecordType{TypeEOF, TypeSetRelAbs, TypeSaveDC, TypeRealizePalette}

// Empty is a record with no fields.
type Empty struct {
	Kind RecordType
}

func (r Empty) Type() RecordType { return r.Kind }

func (r Empty) MarshalBinary() ([]byte, error) {
	if err := checkKind("Empty", r.Kind, emptyKinds...); err != nil {
		return nil, err
	}
	return setNoArgs(r.Kind), nil
}

func decodeEmpty(_ []byte, h RecordHeader) (Record, error) { return Empty{Kind: h.Type}, nil }

var (
	// Mode records written with a trailing reserved word.
	paddedModeKinds = []RecordType{TypeSetBkMode, TypeSetROP2, TypeSetPolyFillMode, TypeSetStretchBltMode, TypeSetTextAlign}
	modeKinds       = append([]RecordType{TypeSetMapMode, TypeSetTextCharExtra}, paddedModeKinds...)
)

// SetMode sets a single device context mode.
type SetMode struct {
	Kind RecordType
	Mode uint16
}

func (r SetMode) Type() RecordType { return r.Kind }

func (r SetMode) MarshalBinary() ([]byte, error) {
	if err := checkKind("SetMode", r.Kind, modeKinds...); err != nil {
		return nil, err
	}
	if slices.Contains(paddedModeKinds, r.Kind) {
		return setWords(r.Kind, r.Mode, 0), nil
	}
	return setWords(r.Kind, r.Mode), nil
}

func decodeSetMode(rec []byte, h RecordHeader) (Record, error) {
	return SetMode{Kind: h.Type, Mode: getWord(rec, 0)}, nil
}

// SetColor sets the background or text color.
type SetColor struct {
	Kind  RecordType
	Color ColorRef
}

func (r SetColor) Type() RecordType { return r.Kind }

func (r SetColor) MarshalBinary() ([]byte, error) {
	if err := checkKind("SetColor", r.Kind, TypeSetBkColor, TypeSetTextColor); err != nil {
		return nil, err
	}
	return setColorWords(r.Kind, nil, r.Color), nil
}

func decodeSetColor(rec []byte, h RecordHeader) (Record, error) {
	return SetColor{Kind: h.Type, Color: colorAt(rec[6:])}, nil
}

type SetTextJustification struct {
	Count uint16
	Extra uint16
}

func (SetTextJustification) Type() RecordType { return TypeSetTextJustification }

func (r SetTextJustification) MarshalBinary() ([]byte, error) {
	return setWords(TypeSetTextJustification, r.Count, r.Extra), nil
}

func decodeSetTextJustification(rec []byte, _ RecordHeader) (Record, error) {
	return SetTextJustification{Count: getWord(rec, 0), Extra: getWord(rec, 1)}, nil
}

var pointKinds = []RecordType{
	TypeSetWindowOrg, TypeSetWindowExt, TypeSetViewportOrg, TypeSetViewportExt,
	TypeOffsetWindowOrg, TypeOffsetViewportOrg, TypeLineTo, TypeMoveTo, TypeOffsetClipRgn,
}

// PointRecord carries one coordinate pair, stored y first.
type PointRecord struct {
	Kind  RecordType
	Point Point16
}

func (r PointRecord) Type() RecordType { return r.Kind }

func (r PointRecord) MarshalBinary() ([]byte, error) {
	if err := checkKind("PointRecord", r.Kind, pointKinds...); err != nil {
		return nil, err
	}
	return setWords(r.Kind, uint16(r.Point.Y), uint16(r.Point.X)), nil
}

func decodePoint(rec []byte, h RecordHeader) (Record, error) {
	return PointRecord{Kind: h.Type, Point: getPointYX(rec, 0)}, nil
}

// ScaleExt scales the window or viewport extent by Num/Denom on each axis.
type ScaleExt struct {
	Kind                       RecordType
	XNum, XDenom, YNum, YDenom int16
}

func (r ScaleExt) Type() RecordType { return r.Kind }

func (r ScaleExt) MarshalBinary() ([]byte, error) {
	if err := checkKind("ScaleExt", r.Kind, TypeScaleWindowExt, TypeScaleViewportExt); err != nil {
		return nil, err
	}
	return setWords(r.Kind, uint16(r.YDenom), uint16(r.YNum), uint16(r.XDenom), uint16(r.XNum)), nil
}

func decodeScaleExt(rec []byte, h RecordHeader) (Record, error) {
	return ScaleExt{
		Kind:   h.Type,
		YDenom: getInt(rec, 0),
		YNum:   getInt(rec, 1),
		XDenom: getInt(rec, 2),
		XNum:   getInt(rec, 3),
	}, nil
}

// RectRecord carries one rectangle, stored bottom, right, top, left.
type RectRecord struct {
	Kind RecordType
	Rect Rect16
}

func (r RectRecord) Type() RecordType { return r.Kind }

func (r RectRecord) MarshalBinary() ([]byte, error) {
	if err := checkKind("RectRecord", r.Kind, TypeExcludeClipRect, TypeIntersectClipRect, TypeEllipse, TypeRectangle); err != nil {
		return nil, err
	}
	return setWords(r.Kind, rectBRTL(r.Rect)...), nil
}

func decodeRect(rec []byte, h RecordHeader) (Record, error) {
	return RectRecord{Kind: h.Type, Rect: getRectBRTL(rec, 0)}, nil
}

var indexKinds = []RecordType{
	TypeRestoreDC, TypeInvertRegion, TypePaintRegion, TypeSelectClipRegion,
	TypeSelectObject, TypeSelectPalette, TypeResizePalette, TypeDeleteObject,
}

// ObjectIndex carries a single 16-bit operand: an object table index for the
// select, delete and region records, a saved DC for RESTOREDC and an entry
// count for RESIZEPALETTE.
type ObjectIndex struct {
	Kind  RecordType
	Index uint16
}

func (r ObjectIndex) Type() RecordType { return r.Kind }

func (r ObjectIndex) MarshalBinary() ([]byte, error) {
	if err := checkKind("ObjectIndex", r.Kind, indexKinds...); err != nil {
		return nil, err
	}
	return setWords(r.Kind, r.Index), nil
}

func decodeIndex(rec []byte, h RecordHeader) (Record, error) {
	return ObjectIndex{Kind: h.Type, Index: getWord(rec, 0)}, nil
}

type SetMapperFlags struct {
	Flags uint32
}

func (SetMapperFlags) Type() RecordType { return TypeSetMapperFlags }

func (r SetMapperFlags) MarshalBinary() ([]byte, error) {
	return setWords(TypeSetMapperFlags, uint16(r.Flags), uint16(r.Flags>>16)), nil
}

func decodeSetMapperFlags(rec []byte, _ RecordHeader) (Record, error) {
	return SetMapperFlags{Flags: le32(rec, 6)}, nil
}

// FillRegion paints a region with a brush.
type FillRegion struct {
	Region, Brush uint16
}

func (FillRegion) Type() RecordType { return TypeFillRegion }

func (r FillRegion) MarshalBinary() ([]byte, error) {
	return setWords(TypeFillRegion, r.Region, r.Brush), nil
}

func decodeFillRegion(rec []byte, _ RecordHeader) (Record, error) {
	return FillRegion{Region: getWord(rec, 0), Brush: getWord(rec, 1)}, nil
}

// FrameRegion outlines a region with a brush of the given stroke size.
type FrameRegion struct {
	Region, Brush uint16
	Width, Height int16
}

func (FrameRegion) Type() RecordType { return TypeFrameRegion }

func (r FrameRegion) MarshalBinary() ([]byte, error) {
	return setWords(TypeFrameRegion, r.Region, r.Brush, uint16(r.Height), uint16(r.Width)), nil
}

func decodeFrameRegion(rec []byte, _ RecordHeader) (Record, error) {
	return FrameRegion{
		Region: getWord(rec, 0),
		Brush:  getWord(rec, 1),
		Height: getInt(rec, 2),
		Width:  getInt(rec, 3),
	}, nil
}

// Unknown is a record without a decoder. Its payload is kept as an opaque
// view and written back unchanged.
type Unknown struct {
	Kind    RecordType
	Payload []byte
}

func (r Unknown) Type() RecordType { return r.Kind }

func (r Unknown) MarshalBinary() ([]byte, error) {
	b, err := newRecord(r.Kind, len(r.Payload))
	if err != nil {
		return nil, err
	}
	copy(b[RecordHeaderSize:], r.Payload)
	return b, nil
}

func decodeUnknown(rec []byte, h RecordHeader) (Record, error) {
	return Unknown{Kind: h.Type, Payload: rec[RecordHeaderSize:]}, nil
}
