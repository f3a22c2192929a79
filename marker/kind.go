package marker

// Kind is the data-model category a tag byte announces.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNil
	KindBool
	KindInteger
	KindFloat32
	KindFloat64
	KindString
	KindBinary
	KindArray
	KindMap
	KindExt
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindExt:
		return "ext"
	default:
		return "invalid"
	}
}

// IsContainer reports whether values of this kind nest other values.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindMap
}
