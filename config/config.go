package config

import (
	"io"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

type Config struct {
	LogLevel string       `mapstructure:"log_level"`
	Codec    CodecConfig  `mapstructure:"codec"`
	Corpus   CorpusConfig `mapstructure:"corpus"`
}

type CodecConfig struct {
	StructRepr    string `mapstructure:"struct_repr"`
	EnumRepr      string `mapstructure:"enum_repr"`
	HumanReadable bool   `mapstructure:"human_readable"`
	BytesAsBinary bool   `mapstructure:"bytes_as_binary"`
	MaxDepth      int    `mapstructure:"max_depth"`
}

type CorpusConfig struct {
	Workers int `mapstructure:"workers"`
}

// ReadConfig decodes r on top of DefaultConfig, so keys missing from r keep
// their default values.
func ReadConfig(r io.Reader) (*Config, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing config file")
	}
	defaults, err := toml.LoadBytes(GenerateDefaultConfigFile())
	if err != nil {
		return nil, errors.Wrap(err, "error parsing default config")
	}
	mergeDefaults(tree, defaults, nil)

	decoder := toml.NewDecoder(strings.NewReader(tree.String()))
	decoder.SetTagName("mapstructure")
	config := &Config{}
	if err := decoder.Decode(config); err != nil {
		return nil, errors.Wrap(err, "error decoding config file")
	}
	return config, nil
}

func mergeDefaults(tree, defaults *toml.Tree, prefix []string) {
	for _, key := range defaults.Keys() {
		keyPath := append(append([]string{}, prefix...), key)
		def := defaults.GetPath([]string{key})
		if !tree.HasPath(keyPath) {
			tree.SetPath(keyPath, def)
			continue
		}
		sub, ok := def.(*toml.Tree)
		if !ok {
			continue
		}
		if _, ok := tree.GetPath(keyPath).(*toml.Tree); ok {
			mergeDefaults(tree, sub, keyPath)
		}
	}
}
