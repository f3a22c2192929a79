// Package marker holds the MessagePack tag byte grammar shared by the
// encoder and the decoder: tag values, the ranges of the fix families,
// the width tiers for integers, strings, binaries, containers and
// extensions, and the mapping from a tag to the data-model kind it
// announces.
//
// All multi-byte length and numeric fields that follow a tag are
// big-endian.
package marker

import "fmt"

// Marker is a single MessagePack tag byte.
type Marker byte

const (
	PosFixIntMin Marker = 0x00
	PosFixIntMax Marker = 0x7f
	FixMap       Marker = 0x80
	FixArray     Marker = 0x90
	FixStr       Marker = 0xa0
	Nil          Marker = 0xc0
	NeverUsed    Marker = 0xc1
	False        Marker = 0xc2
	True         Marker = 0xc3
	Bin8         Marker = 0xc4
	Bin16        Marker = 0xc5
	Bin32        Marker = 0xc6
	Ext8         Marker = 0xc7
	Ext16        Marker = 0xc8
	Ext32        Marker = 0xc9
	Float32      Marker = 0xca
	Float64      Marker = 0xcb
	Uint8        Marker = 0xcc
	Uint16       Marker = 0xcd
	Uint32       Marker = 0xce
	Uint64       Marker = 0xcf
	Int8         Marker = 0xd0
	Int16        Marker = 0xd1
	Int32        Marker = 0xd2
	Int64        Marker = 0xd3
	FixExt1      Marker = 0xd4
	FixExt2      Marker = 0xd5
	FixExt4      Marker = 0xd6
	FixExt8      Marker = 0xd7
	FixExt16     Marker = 0xd8
	Str8         Marker = 0xd9
	Str16        Marker = 0xda
	Str32        Marker = 0xdb
	Array16      Marker = 0xdc
	Array32      Marker = 0xdd
	Map16        Marker = 0xde
	Map32        Marker = 0xdf
	NegFixIntMin Marker = 0xe0
	NegFixIntMax Marker = 0xff
)

const (
	// MaxFixStrLen is the longest string whose length fits in the tag.
	MaxFixStrLen = 31
	// MaxFixContainerLen is the largest array or map count that fits in
	// the tag.
	MaxFixContainerLen = 15
	// MaxLen is the largest length or count any tier can declare.
	MaxLen = 1<<32 - 1

	MinNegFixInt = -32
	MaxPosFixInt = 127
)

// TimestampExt is the extension type reserved for timestamps.
const TimestampExt int8 = -1

func (m Marker) IsPosFixInt() bool {
	return m <= PosFixIntMax
}

func (m Marker) IsNegFixInt() bool {
	return m >= NegFixIntMin
}

func (m Marker) IsFixMap() bool {
	return m&0xf0 == FixMap
}

func (m Marker) IsFixArray() bool {
	return m&0xf0 == FixArray
}

func (m Marker) IsFixStr() bool {
	return m&0xe0 == FixStr
}

// Family collapses the fix families onto their base marker so that,
// for instance, every fixstr tag compares equal to FixStr.
func (m Marker) Family() Marker {
	switch {
	case m.IsPosFixInt():
		return PosFixIntMin
	case m.IsNegFixInt():
		return NegFixIntMin
	case m.IsFixMap():
		return FixMap
	case m.IsFixArray():
		return FixArray
	case m.IsFixStr():
		return FixStr
	default:
		return m
	}
}

// Kind reports the data-model kind a tag announces. NeverUsed maps to
// KindInvalid.
func (m Marker) Kind() Kind {
	switch m.Family() {
	case PosFixIntMin, NegFixIntMin,
		Uint8, Uint16, Uint32, Uint64,
		Int8, Int16, Int32, Int64:
		return KindInteger
	case Nil:
		return KindNil
	case True, False:
		return KindBool
	case Float32:
		return KindFloat32
	case Float64:
		return KindFloat64
	case FixStr, Str8, Str16, Str32:
		return KindString
	case Bin8, Bin16, Bin32:
		return KindBinary
	case FixArray, Array16, Array32:
		return KindArray
	case FixMap, Map16, Map32:
		return KindMap
	case FixExt1, FixExt2, FixExt4, FixExt8, FixExt16, Ext8, Ext16, Ext32:
		return KindExt
	default:
		return KindInvalid
	}
}

// Signed reports whether an integer tag carries a two's complement value.
func (m Marker) Signed() bool {
	switch m.Family() {
	case NegFixIntMin, Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

// DataSize is the number of payload bytes that follow a fixed-width tag.
// It returns 0 for tags whose value is entirely inline and -1 for tags
// whose payload size is declared by a length field.
func (m Marker) DataSize() int {
	switch m.Family() {
	case PosFixIntMin, NegFixIntMin, Nil, True, False:
		return 0
	case Uint8, Int8:
		return 1
	case Uint16, Int16:
		return 2
	case Uint32, Int32, Float32:
		return 4
	case Uint64, Int64, Float64:
		return 8
	}
	return -1
}

// LenSize is the width of the explicit length field that follows a
// variable-size tag, or 0 when the length is inline or implied.
func (m Marker) LenSize() int {
	switch m {
	case Str8, Bin8, Ext8:
		return 1
	case Str16, Bin16, Ext16, Array16, Map16:
		return 2
	case Str32, Bin32, Ext32, Array32, Map32:
		return 4
	}
	return 0
}

// InlineLen returns the length carried by the tag itself for fixstr,
// fixarray, fixmap and fixext tags. The second result is false for
// every other tag.
func (m Marker) InlineLen() (int, bool) {
	switch {
	case m.IsFixStr():
		return int(m & 0x1f), true
	case m.IsFixArray(), m.IsFixMap():
		return int(m & 0x0f), true
	}
	switch m {
	case FixExt1:
		return 1, true
	case FixExt2:
		return 2, true
	case FixExt4:
		return 4, true
	case FixExt8:
		return 8, true
	case FixExt16:
		return 16, true
	}
	return 0, false
}

func (m Marker) String() string {
	switch m.Family() {
	case PosFixIntMin:
		return "positive fixint"
	case NegFixIntMin:
		return "negative fixint"
	case FixMap:
		return "fixmap"
	case FixArray:
		return "fixarray"
	case FixStr:
		return "fixstr"
	}
	if name, ok := names[m]; ok {
		return name
	}
	return fmt.Sprintf("marker(%#02x)", byte(m))
}

var names = map[Marker]string{
	Nil:       "nil",
	NeverUsed: "never used",
	False:     "false",
	True:      "true",
	Bin8:      "bin 8",
	Bin16:     "bin 16",
	Bin32:     "bin 32",
	Ext8:      "ext 8",
	Ext16:     "ext 16",
	Ext32:     "ext 32",
	Float32:   "float 32",
	Float64:   "float 64",
	Uint8:     "uint 8",
	Uint16:    "uint 16",
	Uint32:    "uint 32",
	Uint64:    "uint 64",
	Int8:      "int 8",
	Int16:     "int 16",
	Int32:     "int 32",
	Int64:     "int 64",
	FixExt1:   "fixext 1",
	FixExt2:   "fixext 2",
	FixExt4:   "fixext 4",
	FixExt8:   "fixext 8",
	FixExt16:  "fixext 16",
	Str8:      "str 8",
	Str16:     "str 16",
	Str32:     "str 32",
	Array16:   "array 16",
	Array32:   "array 32",
	Map16:     "map 16",
	Map32:     "map 32",
}
