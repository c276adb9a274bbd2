package wmf

import "testing"

func TestRegistryLookups(t *testing.T) {
	t.Parallel()

	cases := []struct {
		t     RecordType
		value uint16
		name  string
		min   int
	}{
		{TypeEOF, 0x0000, "META_EOF", 6},
		{TypeEscape, 0x0626, "META_ESCAPE", 10},
		{TypeSelectObject, 0x012D, "META_SELECTOBJECT", 8},
		{TypeDIBBitBlt, 0x0940, "META_DIBBITBLT", 0},
		{TypeCreatePenIndirect, 0x02FA, "META_CREATEPENINDIRECT", 16},
	}
	for _, c := range cases {
		if c.t.Value() != c.value {
			t.Fatalf("%s value: %#04x want %#04x", c.name, c.t.Value(), c.value)
		}
		if c.t.XB() != uint8(c.value>>8) {
			t.Fatalf("%s xb: %#x", c.name, c.t.XB())
		}
		if c.t.String() != c.name {
			t.Fatalf("name: got %q want %q", c.t.String(), c.name)
		}
		if c.min != 0 && MinSize(c.t) != c.min {
			t.Fatalf("%s min size: %d want %d", c.name, MinSize(c.t), c.min)
		}
	}
}

func TestRegistryOutOfRange(t *testing.T) {
	t.Parallel()

	for _, idx := range []int{-1, 256, 1 << 20} {
		if TypeValue(idx) != InvalidType {
			t.Fatalf("TypeValue(%d) = %#x", idx, TypeValue(idx))
		}
		if TypeName(idx) != "META_INVALID" {
			t.Fatalf("TypeName(%d) = %q", idx, TypeName(idx))
		}
	}
	if Properties(InvalidType) != InvalidType || Properties(InvalidType) != InvalidType {
		t.Fatalf("releasing the property table should be repeatable")
	}
	if got := RecordType(0x44).String(); got != "META_44" {
		t.Fatalf("unnamed ordinal: %q", got)
	}
	if TypeValue(0x44) != 0x44 {
		t.Fatalf("unnamed ordinal value: %#x", TypeValue(0x44))
	}
}

func TestCreatesObject(t *testing.T) {
	t.Parallel()

	for _, k := range []RecordType{TypeCreatePalette, TypeCreatePatternBrush, TypeCreatePenIndirect, TypeCreateFontIndirect, TypeCreateBrushIndirect, TypeCreateRegion} {
		if !k.CreatesObject() {
			t.Fatalf("%s should create an object", k)
		}
	}
	for _, k := range []RecordType{TypeEOF, TypeSelectObject, TypeDeleteObject, TypeDIBCreatePatternBrush, TypeEscape} {
		if k.CreatesObject() {
			t.Fatalf("%s should not create an object", k)
		}
	}
}

func TestEscapeName(t *testing.T) {
	t.Parallel()

	if EscapeName(EscSetLineCap) != "SETLINECAP" {
		t.Fatalf("SETLINECAP: %q", EscapeName(EscSetLineCap))
	}
	if EscapeName(0x7777) == "" {
		t.Fatalf("unknown escape has no name")
	}
}
