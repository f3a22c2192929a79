package mpwire

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadValue(t *testing.T) {
	v, err := ReadValue(newTestDecoder(t, "94 c3 cd 01 2c a2 68 69 92 01 02"))
	require.NoError(t, err)
	require.Equal(t, Array{Bool(true), Uint(300), String("hi"), Array{Uint(1), Uint(2)}}, v)
	require.Equal(t, `[true, 300, "hi", [1, 2]]`, Diagnose(v))
}

func TestWriteValue_RoundTrip(t *testing.T) {
	in := Array{
		Nil{},
		Bool(false),
		Int(-5),
		Int(math.MinInt64),
		Uint(math.MaxUint64),
		Float32(1.5),
		Float64(-0.25),
		String("héllo"),
		Binary{0xca, 0xfe},
		Map{
			{Key: String("a"), Value: Uint(1)},
			{Key: Uint(7), Value: Array{}},
			{Key: Array{Nil{}}, Value: Map{}},
		},
		Ext{Type: -1, Data: []byte{0, 0, 0, 1}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteValue(NewEncoder(&buf, DefaultConfig()), in))
	out, err := ReadValue(NewDecoderBytes(buf.Bytes(), DefaultConfig()))
	require.NoError(t, err)
	require.Equal(t, in, out)

	b, err := Marshal(in)
	require.NoError(t, err)
	require.Equal(t, buf.Bytes(), b)

	var viaDecode Value
	require.NoError(t, Unmarshal(b, &viaDecode))
	require.Equal(t, in, viaDecode)
}

func TestDiagnose(t *testing.T) {
	tests := []struct {
		in  Value
		out string
	}{
		{nil, "nil"},
		{Nil{}, "nil"},
		{Bool(true), "true"},
		{Int(-5), "-5"},
		{Uint(300), "300"},
		{Float32(1.5), "1.5f32"},
		{Float64(2), "2.0"},
		{Float64(1e21), "1e+21"},
		{Float64(math.NaN()), "NaN"},
		{Float64(math.Inf(-1)), "-Infinity"},
		{String("a\"b\n"), `"a\"b\n"`},
		{Binary{0xca, 0xfe}, "h'cafe'"},
		{Array{}, "[]"},
		{Map{{Key: String("a"), Value: Float64(1)}, {Key: Int(-1), Value: Nil{}}}, `{"a": 1.0, -1: nil}`},
		{Ext{Type: -1, Data: []byte{0, 0, 0, 1}}, "ext(-1, h'00000001')"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.out, Diagnose(tt.in))
	}
}
