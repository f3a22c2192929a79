package cmd

import (
	"fmt"
	"io"

	"mpk/cli"
	"mpk/mpwire"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var diagCmd = &cobra.Command{
	Use:   "diag [file]",
	Short: "Prints each top-level value in diagnostic notation.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := cli.ReadInput(cmd, args)
		if err != nil {
			return err
		}

		dec := mpwire.NewDecoderBytes(data, wireCfg)
		for {
			offset := dec.Position()
			v, err := mpwire.ReadValue(dec)
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return errors.Wrapf(err, "error decoding value at offset %d", offset)
			}
			fmt.Println(mpwire.Diagnose(v))
		}
	},
}

func init() {
	rootCmd.AddCommand(diagCmd)
}
