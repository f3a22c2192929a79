package mpwire

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// Diagnose renders v in a compact diagnostic notation:
//
//	nil  true  -5  300  1.5  "hi"  h'cafe'  [1, 2]  {"a": 1}  ext(-1, h'00000001')
//
// Float32 values carry an f32 suffix so they can be told apart from
// Float64.
func Diagnose(v Value) string {
	var sb strings.Builder
	diagnose(&sb, v)
	return sb.String()
}

func diagnose(sb *strings.Builder, v Value) {
	switch it := v.(type) {
	case nil, Nil:
		sb.WriteString("nil")
	case Bool:
		sb.WriteString(strconv.FormatBool(bool(it)))
	case Int:
		sb.WriteString(strconv.FormatInt(int64(it), 10))
	case Uint:
		sb.WriteString(strconv.FormatUint(uint64(it), 10))
	case Float32:
		sb.WriteString(formatFloat(float64(it), 32))
		sb.WriteString("f32")
	case Float64:
		sb.WriteString(formatFloat(float64(it), 64))
	case String:
		sb.WriteString(strconv.Quote(string(it)))
	case Binary:
		writeHex(sb, it)
	case Array:
		sb.WriteByte('[')
		for i, elem := range it {
			if i > 0 {
				sb.WriteString(", ")
			}
			diagnose(sb, elem)
		}
		sb.WriteByte(']')
	case Map:
		sb.WriteByte('{')
		for i, entry := range it {
			if i > 0 {
				sb.WriteString(", ")
			}
			diagnose(sb, entry.Key)
			sb.WriteString(": ")
			diagnose(sb, entry.Value)
		}
		sb.WriteByte('}')
	case Ext:
		sb.WriteString("ext(")
		sb.WriteString(strconv.Itoa(int(it.Type)))
		sb.WriteString(", ")
		writeHex(sb, it.Data)
		sb.WriteByte(')')
	}
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func writeHex(sb *strings.Builder, b []byte) {
	sb.WriteString("h'")
	sb.WriteString(hex.EncodeToString(b))
	sb.WriteByte('\'')
}
