package cmd

import (
	"fmt"
	"io"

	"mpk/cli"
	"mpk/mpwire"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Checks that every top-level value is well formed.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := cli.ReadInput(cmd, args)
		if err != nil {
			return err
		}

		dec := mpwire.NewDecoderBytes(data, wireCfg)
		var count int
		for {
			offset := dec.Position()
			_, err := mpwire.ReadValue(dec)
			if err == io.EOF {
				break
			}
			if err != nil {
				lgr.Debug("validation failed", "offset", offset, "err", err)
				return errors.Wrapf(err, "invalid value at offset %d", offset)
			}
			count++
		}

		fmt.Printf("OK. %d values in %d bytes.\n", count, len(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
