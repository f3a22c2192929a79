package cmd

import (
	"fmt"
	"os"

	"mpk/cli"
	"mpk/config"
	"mpk/log"
	"mpk/mpwire"
	"mpk/version"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	configuredHomeDir string
	appCfg            *config.Config
	wireCfg           mpwire.Config
)

var lgr = log.WithModule("main")

var rootCmd = &cobra.Command{
	Use:   "mpk",
	Short: "Inspects, validates and collects MessagePack data.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.CalledAs() == "init" || cmd.CalledAs() == "version" {
			return nil
		}
		configuredHomeDir = cli.GetHomeDir(cmd)
		exists, err := config.HomeDirExists(configuredHomeDir)
		if err != nil {
			return errors.Wrap(err, "error checking home directory")
		}
		if !exists {
			cfg := config.DefaultConfig
			appCfg = &cfg
			wireCfg, err = cfg.Codec.WireConfig()
			return err
		}
		appCfg, wireCfg, err = cli.LoadConfig(configuredHomeDir)
		if err != nil {
			return errors.Wrap(err, "error loading config")
		}
		lgr.Debug("loaded config", "home", configuredHomeDir, "version", version.UserAgent)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String(cli.FlagHome, "~/.mpk", "Home directory for the config and sample corpus.")
	rootCmd.PersistentFlags().String(cli.FlagFormat, "text", "Output format. Can be text or json.")
	rootCmd.PersistentFlags().Bool(cli.FlagHex, false, "Treat input as hex text.")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
