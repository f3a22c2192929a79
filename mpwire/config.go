package mpwire

import "github.com/pkg/errors"

// StructRepr selects how struct-like values are laid out.
type StructRepr int

const (
	// StructAsArray writes field values positionally and drops names.
	StructAsArray StructRepr = iota
	// StructAsMap writes a map of field name to value.
	StructAsMap
)

func (s StructRepr) String() string {
	if s == StructAsMap {
		return "map"
	}
	return "array"
}

// EnumRepr selects how enum variants are identified.
type EnumRepr int

const (
	// EnumByName writes unit variants as their name and payload variants
	// as a one-entry map of name to payload.
	EnumByName EnumRepr = iota
	// EnumByIndex writes unit variants as their index and payload
	// variants as a two-element array of index and payload.
	EnumByIndex
)

func (e EnumRepr) String() string {
	if e == EnumByIndex {
		return "index"
	}
	return "name"
}

const (
	DefaultMaxDepth = 1024
)

// Config is the immutable option set an Encoder or Decoder is built
// with. It is copied at construction.
type Config struct {
	StructRepr StructRepr
	EnumRepr   EnumRepr

	// HumanReadable prefers self-describing forms: struct fields and enum
	// variants are always named, and well-known types use their textual
	// representation.
	HumanReadable bool

	// BytesAsBinary writes byte slices and byte arrays as Binary rather
	// than as an Array of integers.
	BytesAsBinary bool

	// MaxDepth bounds container nesting.
	MaxDepth int
}

// DefaultConfig is the most compact representation: positional structs,
// named variants, binary byte slices.
func DefaultConfig() Config {
	return Config{
		StructRepr:    StructAsArray,
		EnumRepr:      EnumByName,
		BytesAsBinary: true,
		MaxDepth:      DefaultMaxDepth,
	}
}

// NamedConfig writes structs as maps keyed by field name.
func NamedConfig() Config {
	cfg := DefaultConfig()
	cfg.StructRepr = StructAsMap
	return cfg
}

// Validate rejects option values outside their enumerations.
func (c Config) Validate() error {
	if c.StructRepr != StructAsArray && c.StructRepr != StructAsMap {
		return errors.Errorf("invalid struct representation %d", c.StructRepr)
	}
	if c.EnumRepr != EnumByName && c.EnumRepr != EnumByIndex {
		return errors.Errorf("invalid enum representation %d", c.EnumRepr)
	}
	if c.MaxDepth < 1 {
		return errors.New("max depth must be positive")
	}
	return nil
}

func (c Config) structAsMap() bool {
	return c.HumanReadable || c.StructRepr == StructAsMap
}

func (c Config) variantByName() bool {
	return c.HumanReadable || c.EnumRepr == EnumByName
}

func (c Config) normalized() Config {
	if c.MaxDepth < 1 {
		c.MaxDepth = DefaultMaxDepth
	}
	return c
}
