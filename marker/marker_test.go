package marker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForInt(t *testing.T) {
	tests := []struct {
		in  int64
		out Marker
	}{
		{0, Marker(0x00)},
		{1, Marker(0x01)},
		{127, Marker(0x7f)},
		{128, Uint8},
		{255, Uint8},
		{256, Uint16},
		{math.MaxUint16, Uint16},
		{math.MaxUint16 + 1, Uint32},
		{math.MaxUint32, Uint32},
		{math.MaxUint32 + 1, Uint64},
		{math.MaxInt64, Uint64},
		{-1, Marker(0xff)},
		{-32, Marker(0xe0)},
		{-33, Int8},
		{math.MinInt8, Int8},
		{math.MinInt8 - 1, Int16},
		{math.MinInt16, Int16},
		{math.MinInt16 - 1, Int32},
		{math.MinInt32, Int32},
		{math.MinInt32 - 1, Int64},
		{math.MinInt64, Int64},
	}
	for _, tt := range tests {
		require.Equal(t, tt.out, ForInt(tt.in), "value %d", tt.in)
	}
	require.Equal(t, Uint64, ForUint(math.MaxUint64))
}

func TestLengthTiers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(int) (Marker, bool)
		n    int
		out  Marker
	}{
		{"fixstr empty", ForStr, 0, Marker(0xa0)},
		{"fixstr max", ForStr, 31, Marker(0xbf)},
		{"str8", ForStr, 32, Str8},
		{"str8 max", ForStr, 255, Str8},
		{"str16", ForStr, 256, Str16},
		{"str32", ForStr, math.MaxUint16 + 1, Str32},
		{"bin8 empty", ForBin, 0, Bin8},
		{"bin16", ForBin, 256, Bin16},
		{"bin32", ForBin, math.MaxUint16 + 1, Bin32},
		{"fixarray", ForArray, 15, Marker(0x9f)},
		{"array16", ForArray, 16, Array16},
		{"array32", ForArray, math.MaxUint16 + 1, Array32},
		{"fixmap", ForMap, 0, Marker(0x80)},
		{"map16", ForMap, 16, Map16},
		{"fixext1", ForExt, 1, FixExt1},
		{"fixext16", ForExt, 16, FixExt16},
		{"ext8 empty", ForExt, 0, Ext8},
		{"ext8 odd", ForExt, 3, Ext8},
		{"ext16", ForExt, 256, Ext16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := tt.fn(tt.n)
			require.True(t, ok)
			require.Equal(t, tt.out, m)
		})
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		in  Marker
		out Kind
	}{
		{Marker(0x05), KindInteger},
		{Marker(0xe5), KindInteger},
		{Marker(0x83), KindMap},
		{Marker(0x93), KindArray},
		{Marker(0xa3), KindString},
		{Nil, KindNil},
		{NeverUsed, KindInvalid},
		{True, KindBool},
		{Bin16, KindBinary},
		{Ext32, KindExt},
		{FixExt4, KindExt},
		{Float32, KindFloat32},
		{Float64, KindFloat64},
		{Int16, KindInteger},
		{Str32, KindString},
		{Array32, KindArray},
		{Map16, KindMap},
	}
	for _, tt := range tests {
		require.Equal(t, tt.out, tt.in.Kind(), "marker %s", tt.in)
	}
}

func TestSizes(t *testing.T) {
	for b := 0; b <= 0xff; b++ {
		m := Marker(b)
		if m.Kind() == KindInvalid {
			continue
		}
		_, inline := m.InlineLen()
		fixed := m.DataSize() >= 0
		explicit := m.LenSize() > 0
		// every valid tag determines its payload size in exactly one way
		count := 0
		for _, v := range []bool{inline, fixed, explicit} {
			if v {
				count++
			}
		}
		require.Equal(t, 1, count, "marker %#02x", b)
	}

	n, ok := Marker(0xa5).InlineLen()
	require.True(t, ok)
	require.Equal(t, 5, n)
	require.True(t, Int8.Signed())
	require.True(t, Marker(0xf0).Signed())
	require.False(t, Uint8.Signed())
	require.Equal(t, "fixstr", Marker(0xa5).String())
	require.Equal(t, "uint 16", Uint16.String())
}
