package wmf

type decodeFunc func(rec []byte, h RecordHeader) (Record, error)

// decoders is indexed by ordinal. Ordinals without an entry decode to
// Unknown; that includes DRAWTEXT, CREATEBITMAPINDIRECT and CREATEBITMAP,
// which have no documented layout.
var decoders = [256]decodeFunc{
	TypeEOF:                   decodeEmpty,
	TypeSetBkColor:            decodeSetColor,
	TypeSetBkMode:             decodeSetMode,
	TypeSetMapMode:            decodeSetMode,
	TypeSetROP2:               decodeSetMode,
	TypeSetRelAbs:             decodeEmpty,
	TypeSetPolyFillMode:       decodeSetMode,
	TypeSetStretchBltMode:     decodeSetMode,
	TypeSetTextCharExtra:      decodeSetMode,
	TypeSetTextColor:          decodeSetColor,
	TypeSetTextJustification:  decodeSetTextJustification,
	TypeSetWindowOrg:          decodePoint,
	TypeSetWindowExt:          decodePoint,
	TypeSetViewportOrg:        decodePoint,
	TypeSetViewportExt:        decodePoint,
	TypeOffsetWindowOrg:       decodePoint,
	TypeScaleWindowExt:        decodeScaleExt,
	TypeOffsetViewportOrg:     decodePoint,
	TypeScaleViewportExt:      decodeScaleExt,
	TypeLineTo:                decodePoint,
	TypeMoveTo:                decodePoint,
	TypeExcludeClipRect:       decodeRect,
	TypeIntersectClipRect:     decodeRect,
	TypeArc:                   decodeArc,
	TypeEllipse:               decodeRect,
	TypeFloodFill:             decodeFloodFill,
	TypePie:                   decodeArc,
	TypeRectangle:             decodeRect,
	TypeRoundRect:             decodeRoundRect,
	TypePatBlt:                decodePatBlt,
	TypeSaveDC:                decodeEmpty,
	TypeSetPixel:              decodeSetPixel,
	TypeOffsetClipRgn:         decodePoint,
	TypeTextOut:               decodeTextOut,
	TypeBitBlt:                decodeBitBlt,
	TypeStretchBlt:            decodeStretchBlt,
	TypePolygon:               decodePoly,
	TypePolyline:              decodePoly,
	TypeEscape:                decodeEscape,
	TypeRestoreDC:             decodeIndex,
	TypeFillRegion:            decodeFillRegion,
	TypeFrameRegion:           decodeFrameRegion,
	TypeInvertRegion:          decodeIndex,
	TypePaintRegion:           decodeIndex,
	TypeSelectClipRegion:      decodeIndex,
	TypeSelectObject:          decodeIndex,
	TypeSetTextAlign:          decodeSetMode,
	TypeChord:                 decodeArc,
	TypeSetMapperFlags:        decodeSetMapperFlags,
	TypeExtTextOut:            decodeExtTextOut,
	TypeSetDIBToDev:           decodeSetDIBToDev,
	TypeSelectPalette:         decodeIndex,
	TypeRealizePalette:        decodeEmpty,
	TypeAnimatePalette:        decodePalette,
	TypeSetPalEntries:         decodePalette,
	TypePolyPolygon:           decodePolyPolygon,
	TypeResizePalette:         decodeIndex,
	TypeDIBBitBlt:             decodeDIBBitBlt,
	TypeDIBStretchBlt:         decodeDIBStretchBlt,
	TypeDIBCreatePatternBrush: decodeDIBCreatePatternBrush,
	TypeStretchDIB:            decodeStretchDIB,
	TypeExtFloodFill:          decodeFloodFill,
	TypeDeleteObject:          decodeIndex,
	TypeCreatePalette:         decodePalette,
	TypeCreatePatternBrush:    decodeCreatePatternBrush,
	TypeCreatePenIndirect:     decodeCreatePen,
	TypeCreateFontIndirect:    decodeCreateFont,
	TypeCreateBrushIndirect:   decodeCreateBrush,
	TypeCreateRegion:          decodeCreateRegion,
}

// Supported reports whether records of type t decode to a typed variant.
func Supported(t RecordType) bool { return decoders[t] != nil }

// Decode parses the record at the start of b. The declared size is checked
// against the type minimum and the length of b. Slices in the result alias b.
func Decode(b []byte) (Record, error) {
	size, err := SafeRecordSize(b, len(b))
	if err != nil {
		return nil, err
	}
	rec := b[:size]
	h, _ := ParseRecordHeader(rec)
	dec := decoders[h.Type]
	if dec == nil {
		dec = decodeUnknown
	}
	return dec(rec, h)
}
