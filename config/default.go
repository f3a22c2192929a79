package config

import (
	"bytes"
	"io"
	"os"
	"path"
	"text/template"

	"mpk/log"
	"mpk/mpwire"

	"github.com/pkg/errors"
)

const ConfigFilename = "config.toml"

var DefaultConfig = Config{
	LogLevel: log.LevelInfo.String(),
	Codec: CodecConfig{
		StructRepr:    mpwire.StructAsArray.String(),
		EnumRepr:      mpwire.EnumByName.String(),
		HumanReadable: false,
		BytesAsBinary: true,
		MaxDepth:      mpwire.DefaultMaxDepth,
	},
	Corpus: CorpusConfig{
		Workers: 4,
	},
}

const defaultConfigTemplateText = `# mpk Config File

# Sets the log level. Can be one of the following values:
# - error
# - warn
# - info
# - debug
# - trace
log_level = "{{.LogLevel}}"

# Configures how values are laid out on the wire.
[codec]
  # Writes byte slices as binary rather than as arrays of integers.
  bytes_as_binary = {{.Codec.BytesAsBinary}}
  # Sets how enum variants are identified. Can be "name" or "index".
  enum_repr = "{{.Codec.EnumRepr}}"
  # Always names struct fields and enum variants, and writes timestamps
  # as RFC 3339 strings.
  human_readable = {{.Codec.HumanReadable}}
  # Sets the deepest container nesting the decoder will accept.
  max_depth = {{.Codec.MaxDepth}}
  # Sets how structs are laid out. Can be "array" or "map".
  struct_repr = "{{.Codec.StructRepr}}"

# Configures the sample corpus.
[corpus]
  # Sets how many samples are verified concurrently.
  workers = {{.Corpus.Workers}}
`

var defaultConfigTemplate *template.Template

func GenerateDefaultConfigFile() []byte {
	buf := new(bytes.Buffer)
	if err := defaultConfigTemplate.Execute(buf, DefaultConfig); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func ReadConfigFile(homeDir string) (*Config, error) {
	f, err := os.OpenFile(path.Join(homeDir, ConfigFilename), os.O_RDONLY, 0755)
	if err != nil {
		return nil, errors.Wrap(err, "error opening config file for reading")
	}
	defer f.Close()
	cfg, err := ReadConfig(f)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}
	return cfg, nil
}

func WriteDefaultConfigFile(homeDir string) error {
	f, err := os.OpenFile(path.Join(homeDir, ConfigFilename), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return errors.Wrap(err, "error opening config file for writing")
	}
	defer f.Close()
	rd := bytes.NewReader(GenerateDefaultConfigFile())
	if _, err := io.Copy(f, rd); err != nil {
		return errors.Wrap(err, "error writing config file")
	}
	return nil
}

func init() {
	tmpl := template.New("defaultConfig")
	t, err := tmpl.Parse(defaultConfigTemplateText)
	if err != nil {
		panic(err)
	}
	defaultConfigTemplate = t
}
