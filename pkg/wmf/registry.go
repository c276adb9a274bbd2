package wmf

import "fmt"

// RecordType is the low byte of a record's type value, its ordinal in the
// registry tables.
type RecordType uint8

const (
	TypeEOF                   RecordType = 0x00
	TypeSetBkColor            RecordType = 0x01
	TypeSetBkMode             RecordType = 0x02
	TypeSetMapMode            RecordType = 0x03
	TypeSetROP2               RecordType = 0x04
	TypeSetRelAbs             RecordType = 0x05
	TypeSetPolyFillMode       RecordType = 0x06
	TypeSetStretchBltMode     RecordType = 0x07
	TypeSetTextCharExtra      RecordType = 0x08
	TypeSetTextColor          RecordType = 0x09
	TypeSetTextJustification  RecordType = 0x0A
	TypeSetWindowOrg          RecordType = 0x0B
	TypeSetWindowExt          RecordType = 0x0C
	TypeSetViewportOrg        RecordType = 0x0D
	TypeSetViewportExt        RecordType = 0x0E
	TypeOffsetWindowOrg       RecordType = 0x0F
	TypeScaleWindowExt        RecordType = 0x10
	TypeOffsetViewportOrg     RecordType = 0x11
	TypeScaleViewportExt      RecordType = 0x12
	TypeLineTo                RecordType = 0x13
	TypeMoveTo                RecordType = 0x14
	TypeExcludeClipRect       RecordType = 0x15
	TypeIntersectClipRect     RecordType = 0x16
	TypeArc                   RecordType = 0x17
	TypeEllipse               RecordType = 0x18
	TypeFloodFill             RecordType = 0x19
	TypePie                   RecordType = 0x1A
	TypeRectangle             RecordType = 0x1B
	TypeRoundRect             RecordType = 0x1C
	TypePatBlt                RecordType = 0x1D
	TypeSaveDC                RecordType = 0x1E
	TypeSetPixel              RecordType = 0x1F
	TypeOffsetClipRgn         RecordType = 0x20
	TypeTextOut               RecordType = 0x21
	TypeBitBlt                RecordType = 0x22
	TypeStretchBlt            RecordType = 0x23
	TypePolygon               RecordType = 0x24
	TypePolyline              RecordType = 0x25
	TypeEscape                RecordType = 0x26
	TypeRestoreDC             RecordType = 0x27
	TypeFillRegion            RecordType = 0x28
	TypeFrameRegion           RecordType = 0x29
	TypeInvertRegion          RecordType = 0x2A
	TypePaintRegion           RecordType = 0x2B
	TypeSelectClipRegion      RecordType = 0x2C
	TypeSelectObject          RecordType = 0x2D
	TypeSetTextAlign          RecordType = 0x2E
	TypeDrawText              RecordType = 0x2F
	TypeChord                 RecordType = 0x30
	TypeSetMapperFlags        RecordType = 0x31
	TypeExtTextOut            RecordType = 0x32
	TypeSetDIBToDev           RecordType = 0x33
	TypeSelectPalette         RecordType = 0x34
	TypeRealizePalette        RecordType = 0x35
	TypeAnimatePalette        RecordType = 0x36
	TypeSetPalEntries         RecordType = 0x37
	TypePolyPolygon           RecordType = 0x38
	TypeResizePalette         RecordType = 0x39
	TypeDIBBitBlt             RecordType = 0x40
	TypeDIBStretchBlt         RecordType = 0x41
	TypeDIBCreatePatternBrush RecordType = 0x42
	TypeStretchDIB            RecordType = 0x43
	TypeExtFloodFill          RecordType = 0x48
	TypeDeleteObject          RecordType = 0xF0
	TypeCreatePalette         RecordType = 0xF7
	TypeCreatePatternBrush    RecordType = 0xF9
	TypeCreatePenIndirect     RecordType = 0xFA
	TypeCreateFontIndirect    RecordType = 0xFB
	TypeCreateBrushIndirect   RecordType = 0xFC
	TypeCreateBitmapIndirect  RecordType = 0xFD
	TypeCreateBitmap          RecordType = 0xFE
	TypeCreateRegion          RecordType = 0xFF
)

// Ordinals without a documented record still carry a canonical value.
var typeValues = [256]uint16{
	0x01: 0x0201,
	0x02: 0x0102,
	0x03: 0x0103,
	0x04: 0x0104,
	0x05: 0x0105,
	0x06: 0x0106,
	0x07: 0x0107,
	0x08: 0x0108,
	0x09: 0x0209,
	0x0A: 0x020A,
	0x0B: 0x020B,
	0x0C: 0x020C,
	0x0D: 0x020D,
	0x0E: 0x020E,
	0x0F: 0x020F,
	0x10: 0x0410,
	0x11: 0x0211,
	0x12: 0x0412,
	0x13: 0x0213,
	0x14: 0x0214,
	0x15: 0x0415,
	0x16: 0x0416,
	0x17: 0x0817,
	0x18: 0x0418,
	0x19: 0x0419,
	0x1A: 0x081A,
	0x1B: 0x041B,
	0x1C: 0x061C,
	0x1D: 0x061D,
	0x1F: 0x041F,
	0x20: 0x0220,
	0x21: 0x0521,
	0x22: 0x0922,
	0x23: 0x0B23,
	0x24: 0x0324,
	0x25: 0x0325,
	0x26: 0x0626,
	0x27: 0x0127,
	0x28: 0x0228,
	0x29: 0x0429,
	0x2A: 0x012A,
	0x2B: 0x012B,
	0x2C: 0x012C,
	0x2D: 0x012D,
	0x2E: 0x012E,
	0x2F: 0x062F,
	0x30: 0x0830,
	0x31: 0x0231,
	0x32: 0x0A32,
	0x33: 0x0D33,
	0x34: 0x0234,
	0x36: 0x0436,
	0x38: 0x0538,
	0x39: 0x0139,
	0x40: 0x0940,
	0x41: 0x0B41,
	0x42: 0x0142,
	0x43: 0x0F43,
	0x48: 0x0548,
	0x4C: 0x014C,
	0x4D: 0x014D,
	0xF0: 0x01F0,
	0xF9: 0x01F9,
	0xFA: 0x02FA,
	0xFB: 0x02FB,
	0xFC: 0x02FC,
	0xFD: 0x02FD,
	0xFE: 0x06FE,
	0xFF: 0x06FF,
}

var typeNames = [256]string{
	0x00: "META_EOF",
	0x01: "META_SETBKCOLOR",
	0x02: "META_SETBKMODE",
	0x03: "META_SETMAPMODE",
	0x04: "META_SETROP2",
	0x05: "META_SETRELABS",
	0x06: "META_SETPOLYFILLMODE",
	0x07: "META_SETSTRETCHBLTMODE",
	0x08: "META_SETTEXTCHAREXTRA",
	0x09: "META_SETTEXTCOLOR",
	0x0A: "META_SETTEXTJUSTIFICATION",
	0x0B: "META_SETWINDOWORG",
	0x0C: "META_SETWINDOWEXT",
	0x0D: "META_SETVIEWPORTORG",
	0x0E: "META_SETVIEWPORTEXT",
	0x0F: "META_OFFSETWINDOWORG",
	0x10: "META_SCALEWINDOWEXT",
	0x11: "META_OFFSETVIEWPORTORG",
	0x12: "META_SCALEVIEWPORTEXT",
	0x13: "META_LINETO",
	0x14: "META_MOVETO",
	0x15: "META_EXCLUDECLIPRECT",
	0x16: "META_INTERSECTCLIPRECT",
	0x17: "META_ARC",
	0x18: "META_ELLIPSE",
	0x19: "META_FLOODFILL",
	0x1A: "META_PIE",
	0x1B: "META_RECTANGLE",
	0x1C: "META_ROUNDRECT",
	0x1D: "META_PATBLT",
	0x1E: "META_SAVEDC",
	0x1F: "META_SETPIXEL",
	0x20: "META_OFFSETCLIPRGN",
	0x21: "META_TEXTOUT",
	0x22: "META_BITBLT",
	0x23: "META_STRETCHBLT",
	0x24: "META_POLYGON",
	0x25: "META_POLYLINE",
	0x26: "META_ESCAPE",
	0x27: "META_RESTOREDC",
	0x28: "META_FILLREGION",
	0x29: "META_FRAMEREGION",
	0x2A: "META_INVERTREGION",
	0x2B: "META_PAINTREGION",
	0x2C: "META_SELECTCLIPREGION",
	0x2D: "META_SELECTOBJECT",
	0x2E: "META_SETTEXTALIGN",
	0x2F: "META_DRAWTEXT",
	0x30: "META_CHORD",
	0x31: "META_SETMAPPERFLAGS",
	0x32: "META_EXTTEXTOUT",
	0x33: "META_SETDIBTODEV",
	0x34: "META_SELECTPALETTE",
	0x35: "META_REALIZEPALETTE",
	0x36: "META_ANIMATEPALETTE",
	0x37: "META_SETPALENTRIES",
	0x38: "META_POLYPOLYGON",
	0x39: "META_RESIZEPALETTE",
	0x40: "META_DIBBITBLT",
	0x41: "META_DIBSTRETCHBLT",
	0x42: "META_DIBCREATEPATTERNBRUSH",
	0x43: "META_STRETCHDIB",
	0x48: "META_EXTFLOODFILL",
	0xF0: "META_DELETEOBJECT",
	0xF7: "META_CREATEPALETTE",
	0xF9: "META_CREATEPATTERNBRUSH",
	0xFA: "META_CREATEPENINDIRECT",
	0xFB: "META_CREATEFONTINDIRECT",
	0xFC: "META_CREATEBRUSHINDIRECT",
	0xFD: "META_CREATEBITMAPINDIRECT",
	0xFE: "META_CREATEBITMAP",
	0xFF: "META_CREATEREGION",
}

// Minimum byte size per ordinal; zero entries default to the bare header.
var minSizes = [256]uint8{
	0x01: 10,
	0x02: 8,
	0x03: 8,
	0x04: 8,
	0x06: 8,
	0x07: 8,
	0x08: 8,
	0x09: 10,
	0x0A: 10,
	0x0B: 10,
	0x0C: 10,
	0x0D: 10,
	0x0E: 10,
	0x0F: 10,
	0x10: 14,
	0x11: 10,
	0x12: 14,
	0x13: 10,
	0x14: 10,
	0x15: 14,
	0x16: 14,
	0x17: 22,
	0x18: 14,
	0x19: 16,
	0x1A: 22,
	0x1B: 14,
	0x1C: 18,
	0x1D: 18,
	0x1F: 14,
	0x20: 10,
	0x21: 8,
	0x22: 22,
	0x23: 26,
	0x24: 10,
	0x25: 10,
	0x26: 10,
	0x27: 8,
	0x28: 10,
	0x29: 14,
	0x2A: 8,
	0x2B: 8,
	0x2C: 8,
	0x2D: 8,
	0x2E: 8,
	0x30: 22,
	0x31: 10,
	0x32: 14,
	0x33: 22,
	0x34: 8,
	0x36: 14,
	0x37: 14,
	0x38: 10,
	0x39: 8,
	0x40: 22,
	0x41: 26,
	0x42: 10,
	0x43: 28,
	0x48: 16,
	0xF0: 8,
	0xF7: 14,
	0xFA: 16,
	0xFB: 26,
	0xFC: 14,
	0xFF: 26,
}

var typeProperties = [256]uint16{
	0x00: 0x0A0,
	0x01: 0x020,
	0x02: 0x020,
	0x03: 0x0A0,
	0x04: 0x0A0,
	0x06: 0x0A0,
	0x07: 0x0A0,
	0x09: 0x020,
	0x0A: 0x020,
	0x0B: 0x0A0,
	0x0C: 0x0A0,
	0x0D: 0x0A0,
	0x0E: 0x0A0,
	0x11: 0x0A0,
	0x12: 0x0A0,
	0x13: 0x28B,
	0x14: 0x289,
	0x15: 0x0A0,
	0x16: 0x0A0,
	0x17: 0x283,
	0x18: 0x087,
	0x19: 0x082,
	0x1A: 0x087,
	0x1B: 0x087,
	0x1C: 0x087,
	0x1E: 0x0A0,
	0x1F: 0x082,
	0x20: 0x0A0,
	0x21: 0x002,
	0x22: 0x082,
	0x23: 0x082,
	0x24: 0x083,
	0x25: 0x283,
	0x26: 0x0A0,
	0x27: 0x0A0,
	0x28: 0x082,
	0x29: 0x082,
	0x2A: 0x082,
	0x2B: 0x082,
	0x2C: 0x0A0,
	0x2D: 0x020,
	0x2E: 0x020,
	0x2F: 0x002,
	0x30: 0x087,
	0x31: 0x0A0,
	0x32: 0x002,
	0x34: 0x0A0,
	0x35: 0x0A0,
	0x36: 0x0A0,
	0x37: 0x0A0,
	0x38: 0x087,
	0x39: 0x0A0,
	0x40: 0x0A0,
	0x41: 0x0A0,
	0x42: 0x080,
	0x43: 0x0A0,
	0x48: 0x082,
	0xF0: 0x020,
	0xF7: 0x120,
	0xF8: 0x120,
	0xF9: 0x120,
	0xFA: 0x120,
	0xFB: 0x120,
	0xFC: 0x120,
	0xFD: 0x020,
	0xFE: 0x020,
	0xFF: 0x120,
}

// TypeValue returns the canonical on-disk type value of an ordinal, or
// InvalidType when idx is outside [MinType, MaxType].
func TypeValue(idx int) uint32 {
	if idx < MinType || idx > MaxType {
		return InvalidType
	}
	if v := typeValues[idx]; v != 0 {
		return uint32(v)
	}
	return uint32(idx)
}

// TypeName returns the display name of an ordinal, or "META_INVALID".
func TypeName(idx int) string {
	if idx < MinType || idx > MaxType {
		return "META_INVALID"
	}
	if n := typeNames[idx]; n != "" {
		return n
	}
	return fmt.Sprintf("META_%02X", idx)
}

// MinSize returns the smallest legal byte size of a record of type t.
func MinSize(t RecordType) int {
	if m := minSizes[t]; m != 0 {
		return int(m)
	}
	return RecordHeaderSize
}

// Properties returns the Draw* bitmask of an ordinal.
//
// The table is static. Passing InvalidType is the release form kept for
// symmetry with lazily built tables: it returns InvalidType and does nothing,
// any number of times.
func Properties(idx uint32) uint32 {
	if idx > MaxType {
		return InvalidType
	}
	return uint32(typeProperties[idx])
}

func (t RecordType) Value() uint16 { return uint16(TypeValue(int(t))) }

// XB is the high byte of the type value, stored in every record header.
func (t RecordType) XB() uint8 { return uint8(t.Value() >> 8) }

func (t RecordType) String() string { return TypeName(int(t)) }

func (t RecordType) Properties() uint32 { return uint32(typeProperties[t]) }

// CreatesObject reports whether records of this type add an entry to the
// object table.
func (t RecordType) CreatesObject() bool { return t.Properties()&DrawObject != 0 }

// Escape function codes.
const (
	EscNewFrame               uint16 = 0x0001
	EscAbortDoc               uint16 = 0x0002
	EscNextBand               uint16 = 0x0003
	EscSetColorTable          uint16 = 0x0004
	EscGetColorTable          uint16 = 0x0005
	EscFlushOut               uint16 = 0x0006
	EscDraftMode              uint16 = 0x0007
	EscQueryEscSupport        uint16 = 0x0008
	EscSetAbortProc           uint16 = 0x0009
	EscStartDoc               uint16 = 0x000A
	EscEndDoc                 uint16 = 0x000B
	EscGetPhysPageSize        uint16 = 0x000C
	EscGetPrintingOffset      uint16 = 0x000D
	EscGetScalingFactor       uint16 = 0x000E
	EscMetaEscapeEnhancedMeta uint16 = 0x000F
	EscSetPenWidth            uint16 = 0x0010
	EscSetCopyCount           uint16 = 0x0011
	EscSetPaperSource         uint16 = 0x0012
	EscPassthrough            uint16 = 0x0013
	EscGetTechnology          uint16 = 0x0014
	EscSetLineCap             uint16 = 0x0015
	EscSetLineJoin            uint16 = 0x0016
	EscSetMiterLimit          uint16 = 0x0017
	EscBandInfo               uint16 = 0x0018
	EscDrawPatternRect        uint16 = 0x0019
	EscGetVectorPenSize       uint16 = 0x001A
	EscGetVectorBrushSize     uint16 = 0x001B
	EscEnableDuplex           uint16 = 0x001C
	EscGetSetPaperBins        uint16 = 0x001D
	EscGetSetPrintOrient      uint16 = 0x001E
	EscEnumPaperBins          uint16 = 0x001F
	EscSetDIBScaling          uint16 = 0x0020
	EscEPSPrinting            uint16 = 0x0021
	EscEnumPaperMetrics       uint16 = 0x0022
	EscGetSetPaperMetrics     uint16 = 0x0023
	EscPostscriptData         uint16 = 0x0025
	EscPostscriptIgnore       uint16 = 0x0026
	EscGetDeviceUnits         uint16 = 0x002A
	EscGetExtendedTextMetrics uint16 = 0x0100
	EscGetPairKernTable       uint16 = 0x0102
	EscExtTextOut             uint16 = 0x0200
	EscGetFaceName            uint16 = 0x0201
	EscDownloadFace           uint16 = 0x0202
	EscMetafileDriver         uint16 = 0x0801
	EscQueryDIBSupport        uint16 = 0x0C01
	EscBeginPath              uint16 = 0x1000
	EscClipToPath             uint16 = 0x1001
	EscEndPath                uint16 = 0x1002
	EscOpenChannel            uint16 = 0x100E
	EscDownloadHeader         uint16 = 0x100F
	EscCloseChannel           uint16 = 0x1010
	EscPostscriptPassthrough  uint16 = 0x1013
	EscEncapsulatedPostscript uint16 = 0x1014
	EscPostscriptIdentify     uint16 = 0x1015
	EscPostscriptInjection    uint16 = 0x1016
	EscCheckJPEGFormat        uint16 = 0x1017
	EscCheckPNGFormat         uint16 = 0x1018
	EscGetPSFeatureSetting    uint16 = 0x1019
	EscMXDCEscape             uint16 = 0x101A
	EscSpecialPassthrough2    uint16 = 0x11D8
)

var escapeNames = map[uint16]string{
	EscNewFrame:               "NEWFRAME",
	EscAbortDoc:               "ABORTDOC",
	EscNextBand:               "NEXTBAND",
	EscSetColorTable:          "SETCOLORTABLE",
	EscGetColorTable:          "GETCOLORTABLE",
	EscFlushOut:               "FLUSHOUT",
	EscDraftMode:              "DRAFTMODE",
	EscQueryEscSupport:        "QUERYESCSUPPORT",
	EscSetAbortProc:           "SETABORTPROC",
	EscStartDoc:               "STARTDOC",
	EscEndDoc:                 "ENDDOC",
	EscGetPhysPageSize:        "GETPHYSPAGESIZE",
	EscGetPrintingOffset:      "GETPRINTINGOFFSET",
	EscGetScalingFactor:       "GETSCALINGFACTOR",
	EscMetaEscapeEnhancedMeta: "META_ESCAPE_ENHANCED_METAFILE",
	EscSetPenWidth:            "SETPENWIDTH",
	EscSetCopyCount:           "SETCOPYCOUNT",
	EscSetPaperSource:         "SETPAPERSOURCE",
	EscPassthrough:            "PASSTHROUGH",
	EscGetTechnology:          "GETTECHNOLOGY",
	EscSetLineCap:             "SETLINECAP",
	EscSetLineJoin:            "SETLINEJOIN",
	EscSetMiterLimit:          "SETMITERLIMIT",
	EscBandInfo:               "BANDINFO",
	EscDrawPatternRect:        "DRAWPATTERNRECT",
	EscGetVectorPenSize:       "GETVECTORPENSIZE",
	EscGetVectorBrushSize:     "GETVECTORBRUSHSIZE",
	EscEnableDuplex:           "ENABLEDUPLEX",
	EscGetSetPaperBins:        "GETSETPAPERBINS",
	EscGetSetPrintOrient:      "GETSETPRINTORIENT",
	EscEnumPaperBins:          "ENUMPAPERBINS",
	EscSetDIBScaling:          "SETDIBSCALING",
	EscEPSPrinting:            "EPSPRINTING",
	EscEnumPaperMetrics:       "ENUMPAPERMETRICS",
	EscGetSetPaperMetrics:     "GETSETPAPERMETRICS",
	EscPostscriptData:         "POSTSCRIPT_DATA",
	EscPostscriptIgnore:       "POSTSCRIPT_IGNORE",
	EscGetDeviceUnits:         "GETDEVICEUNITS",
	EscGetExtendedTextMetrics: "GETEXTENDEDTEXTMETRICS",
	EscGetPairKernTable:       "GETPAIRKERNTABLE",
	EscExtTextOut:             "EXTTEXTOUT",
	EscGetFaceName:            "GETFACENAME",
	EscDownloadFace:           "DOWNLOADFACE",
	EscMetafileDriver:         "METAFILE_DRIVER",
	EscQueryDIBSupport:        "QUERYDIBSUPPORT",
	EscBeginPath:              "BEGIN_PATH",
	EscClipToPath:             "CLIP_TO_PATH",
	EscEndPath:                "END_PATH",
	EscOpenChannel:            "OPEN_CHANNEL",
	EscDownloadHeader:         "DOWNLOADHEADER",
	EscCloseChannel:           "CLOSE_CHANNEL",
	EscPostscriptPassthrough:  "POSTSCRIPT_PASSTHROUGH",
	EscEncapsulatedPostscript: "ENCAPSULATED_POSTSCRIPT",
	EscPostscriptIdentify:     "POSTSCRIPT_IDENTIFY",
	EscPostscriptInjection:    "POSTSCRIPT_INJECTION",
	EscCheckJPEGFormat:        "CHECKJPEGFORMAT",
	EscCheckPNGFormat:         "CHECKPNGFORMAT",
	EscGetPSFeatureSetting:    "GET_PS_FEATURESETTING",
	EscMXDCEscape:             "MXDC_ESCAPE",
	EscSpecialPassthrough2:    "SPCLPASSTHROUGH2",
}

// EscapeName names an escape function code.
func EscapeName(fn uint16) string {
	if n, ok := escapeNames[fn]; ok {
		return n
	}
	return "UNKNOWN_ESCAPE"
}
