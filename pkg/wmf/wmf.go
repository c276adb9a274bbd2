// Package wmf implements the Windows Metafile record codec.
//
// A metafile is an optional 22-byte placeable header, an 18-byte main header
// and a sequence of variable-length records. Every record starts with a 6-byte
// header: the record size in 16-bit words (u32), the type ordinal (u8) and the
// high byte of the type value (u8). All fields are little endian on disk.
//
// The package builds records (MarshalBinary on each Record variant), decodes
// them (Decode), converts whole files or single records between byte orders
// (SwapFile, SwapRecord), tracks object handles (HandleTable) and assembles
// complete files (Builder). Decoded records borrow slices of the input buffer;
// use Duplicate when a record must outlive it.
package wmf

// Format constants must never change.
const (
	// PlaceableKey starts an optional placeable header.
	PlaceableKey uint32 = 0x9AC6CDD7

	PlaceableSize     = 22
	HeaderSize        = 18
	RecordHeaderSize  = 6
	DefaultDPI        = 1440
	MaxPlaceableCoord = 32767

	MetaVersion100 uint16 = 0x0100
	MetaVersion300 uint16 = 0x0300

	// MemoryMetafile is the main header Type of an in-memory/on-disk metafile.
	MemoryMetafile uint16 = 1
	DiskMetafile   uint16 = 2
)

// Record type ordinal bounds.
const (
	MinType     = 0
	MaxType     = 255
	InvalidType = 0xFFFFFFFF
)

// Draw property bits reported by Properties.
const (
	DrawNotEmpty uint32 = 0x001
	DrawVisible  uint32 = 0x002
	DrawClosed   uint32 = 0x004
	DrawOnlyTo   uint32 = 0x008
	DrawForce    uint32 = 0x010
	DrawAlters   uint32 = 0x020
	DrawPath     uint32 = 0x040
	DrawText     uint32 = 0x080
	DrawObject   uint32 = 0x100
	DrawNoFill   uint32 = 0x200
)

// ExtTextOut options.
const (
	ETOOpaque  uint16 = 0x0002
	ETOClipped uint16 = 0x0004
)

// Brush styles.
const (
	BSSolid        uint16 = 0
	BSNull         uint16 = 1
	BSHatched      uint16 = 2
	BSPattern      uint16 = 3
	BSDIBPattern   uint16 = 5
	BSDIBPatternPT uint16 = 6
)

// DIB color table usage.
const (
	DIBRGBColors uint16 = 0
	DIBPalColors uint16 = 1
)

// Pen styles.
const (
	PSSolid       uint16 = 0
	PSDash        uint16 = 1
	PSDot         uint16 = 2
	PSDashDot     uint16 = 3
	PSDashDotDot  uint16 = 4
	PSNull        uint16 = 5
	PSInsideFrame uint16 = 6
)

// Line cap and join values carried by the SETLINECAP and SETLINEJOIN escapes.
const (
	CapNotSet int32 = -2
	CapFlat   int32 = 0
	CapRound  int32 = 1
	CapSquare int32 = 2

	JoinNotSet int32 = -2
	JoinMiter  int32 = 0
	JoinRound  int32 = 1
	JoinBevel  int32 = 2
)

// Bitmap line alignment for Bitmap16 WidthBytes.
const (
	AlignWord  = 2
	AlignDWord = 4
)

// Raster operations commonly used with the blit records.
const (
	SrcCopy   uint32 = 0x00CC0020
	PatCopy   uint32 = 0x00F00021
	Blackness uint32 = 0x00000042
	Whiteness uint32 = 0x00FF0062
)

// Region type stored in CREATEREGION.
const RegionType uint16 = 6

// Palette start value written by CREATEPALETTE.
const PaletteVersion uint16 = 0x0300
