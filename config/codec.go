package config

import (
	"mpk/mpwire"

	"github.com/pkg/errors"
)

// WireConfig converts the [codec] section into the options the encoder
// and decoder are built with.
func (c CodecConfig) WireConfig() (mpwire.Config, error) {
	cfg := mpwire.DefaultConfig()
	switch c.StructRepr {
	case "", mpwire.StructAsArray.String():
		cfg.StructRepr = mpwire.StructAsArray
	case mpwire.StructAsMap.String():
		cfg.StructRepr = mpwire.StructAsMap
	default:
		return cfg, errors.Errorf("invalid struct_repr %q", c.StructRepr)
	}
	switch c.EnumRepr {
	case "", mpwire.EnumByName.String():
		cfg.EnumRepr = mpwire.EnumByName
	case mpwire.EnumByIndex.String():
		cfg.EnumRepr = mpwire.EnumByIndex
	default:
		return cfg, errors.Errorf("invalid enum_repr %q", c.EnumRepr)
	}
	cfg.HumanReadable = c.HumanReadable
	cfg.BytesAsBinary = c.BytesAsBinary
	if c.MaxDepth != 0 {
		cfg.MaxDepth = c.MaxDepth
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid codec config")
	}
	return cfg, nil
}
