package cli

import (
	"mpk/config"
	"mpk/log"
	"mpk/mpwire"

	"github.com/pkg/errors"
)

// LoadConfig reads the home directory's config file, applies its log
// level and returns it alongside the codec options it describes.
func LoadConfig(homeDir string) (*config.Config, mpwire.Config, error) {
	cfg, err := config.ReadConfigFile(homeDir)
	if err != nil {
		return nil, mpwire.Config{}, err
	}
	logLevel, err := log.NewLevel(cfg.LogLevel)
	if err != nil {
		return nil, mpwire.Config{}, errors.Wrap(err, "error parsing log level")
	}
	log.SetLevel(logLevel)
	wireCfg, err := cfg.Codec.WireConfig()
	if err != nil {
		return nil, mpwire.Config{}, err
	}
	return cfg, wireCfg, nil
}
