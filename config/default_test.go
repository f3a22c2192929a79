package config

import (
	"bytes"
	"os"
	"path"
	"strings"
	"testing"

	"mpk/mpwire"
	"mpk/testutil/testfs"

	"github.com/stretchr/testify/require"
)

func TestGenerateDefaultConfigFile(t *testing.T) {
	generatedCfg := GenerateDefaultConfigFile()
	cfg, err := ReadConfig(bytes.NewReader(generatedCfg))
	require.NoError(t, err)
	require.EqualValues(t, DefaultConfig, *cfg)

	wireCfg, err := cfg.Codec.WireConfig()
	require.NoError(t, err)
	require.Equal(t, mpwire.DefaultConfig(), wireCfg)
}

func TestCodecConfig_WireConfig(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(`
[codec]
  struct_repr = "map"
  enum_repr = "index"
  human_readable = true
  bytes_as_binary = false
  max_depth = 16
`))
	require.NoError(t, err)
	wireCfg, err := cfg.Codec.WireConfig()
	require.NoError(t, err)
	require.Equal(t, mpwire.Config{
		StructRepr:    mpwire.StructAsMap,
		EnumRepr:      mpwire.EnumByIndex,
		HumanReadable: true,
		BytesAsBinary: false,
		MaxDepth:      16,
	}, wireCfg)

	_, err = CodecConfig{StructRepr: "tuple"}.WireConfig()
	require.Error(t, err)
	_, err = CodecConfig{EnumRepr: "ordinal"}.WireConfig()
	require.Error(t, err)
	_, err = CodecConfig{MaxDepth: -1}.WireConfig()
	require.Error(t, err)
}

func TestReadConfig_MissingKeysKeepDefaults(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(""))
	require.NoError(t, err)
	require.EqualValues(t, DefaultConfig, *cfg)

	cfg, err = ReadConfig(strings.NewReader(`
[codec]
  struct_repr = "map"
`))
	require.NoError(t, err)
	expected := DefaultConfig
	expected.Codec.StructRepr = "map"
	require.EqualValues(t, expected, *cfg)
	require.True(t, cfg.Codec.BytesAsBinary)

	cfg, err = ReadConfig(strings.NewReader(`
log_level = "debug"
[codec]
  bytes_as_binary = false
`))
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.False(t, cfg.Codec.BytesAsBinary)
	require.Equal(t, DefaultConfig.Codec.MaxDepth, cfg.Codec.MaxDepth)
	require.Equal(t, DefaultConfig.Corpus.Workers, cfg.Corpus.Workers)

	_, err = ReadConfig(strings.NewReader("[codec"))
	require.Error(t, err)
}

func TestInitHomeDir(t *testing.T) {
	dir, done := testfs.NewTempDir(t)
	defer done()

	home := path.Join(dir, "home")
	require.Error(t, EnsureHomeDir(home))
	require.NoError(t, InitHomeDir(home))
	require.NoError(t, EnsureHomeDir(home))

	stat, err := os.Stat(ExpandDBPath(home))
	require.NoError(t, err)
	require.True(t, stat.IsDir())

	cfg, err := ReadConfigFile(home)
	require.NoError(t, err)
	require.EqualValues(t, DefaultConfig, *cfg)
}
