package marker

import "math"

// ForUint selects the smallest tag that represents v losslessly.
func ForUint(v uint64) Marker {
	switch {
	case v <= MaxPosFixInt:
		return Marker(v)
	case v <= math.MaxUint8:
		return Uint8
	case v <= math.MaxUint16:
		return Uint16
	case v <= math.MaxUint32:
		return Uint32
	default:
		return Uint64
	}
}

// ForInt selects the smallest tag that represents v losslessly.
// Non-negative values use the unsigned tiers.
func ForInt(v int64) Marker {
	if v >= 0 {
		return ForUint(uint64(v))
	}
	switch {
	case v >= MinNegFixInt:
		return Marker(int8(v))
	case v >= math.MinInt8:
		return Int8
	case v >= math.MinInt16:
		return Int16
	case v >= math.MinInt32:
		return Int32
	default:
		return Int64
	}
}

// ForStr selects the string tier for a payload of n bytes. ok is false
// when n exceeds MaxLen.
func ForStr(n int) (m Marker, ok bool) {
	switch {
	case n <= MaxFixStrLen:
		return FixStr | Marker(n), true
	case n <= math.MaxUint8:
		return Str8, true
	case n <= math.MaxUint16:
		return Str16, true
	case uint64(n) <= MaxLen:
		return Str32, true
	}
	return NeverUsed, false
}

// ForBin selects the binary tier for a payload of n bytes.
func ForBin(n int) (m Marker, ok bool) {
	switch {
	case n <= math.MaxUint8:
		return Bin8, true
	case n <= math.MaxUint16:
		return Bin16, true
	case uint64(n) <= MaxLen:
		return Bin32, true
	}
	return NeverUsed, false
}

// ForArray selects the array tier for n elements.
func ForArray(n int) (m Marker, ok bool) {
	return container(FixArray, Array16, Array32, n)
}

// ForMap selects the map tier for n key-value pairs.
func ForMap(n int) (m Marker, ok bool) {
	return container(FixMap, Map16, Map32, n)
}

func container(fix, m16, m32 Marker, n int) (Marker, bool) {
	switch {
	case n <= MaxFixContainerLen:
		return fix | Marker(n), true
	case n <= math.MaxUint16:
		return m16, true
	case uint64(n) <= MaxLen:
		return m32, true
	}
	return NeverUsed, false
}

// ForExt selects the extension tier for a payload of n bytes. Payloads
// of exactly 1, 2, 4, 8 or 16 bytes use the fixext tags.
func ForExt(n int) (m Marker, ok bool) {
	switch n {
	case 1:
		return FixExt1, true
	case 2:
		return FixExt2, true
	case 4:
		return FixExt4, true
	case 8:
		return FixExt8, true
	case 16:
		return FixExt16, true
	}
	switch {
	case n <= math.MaxUint8:
		return Ext8, true
	case n <= math.MaxUint16:
		return Ext16, true
	case uint64(n) <= MaxLen:
		return Ext32, true
	}
	return NeverUsed, false
}
