package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"mpk/cli"

	"github.com/spf13/cobra"
)

type tokenRecord struct {
	Offset int64  `json:"offset"`
	Depth  int    `json:"depth"`
	Tag    string `json:"tag"`
	Marker string `json:"marker"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Lists every tag in an encoded stream.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := cli.ReadInput(cmd, args)
		if err != nil {
			return err
		}

		toks, inspectErr := cli.Inspect(data, wireCfg)
		var rows [][]string
		var records []interface{}
		for _, tok := range toks {
			rec := tokenRecord{
				Offset: tok.Offset,
				Depth:  tok.Depth,
				Tag:    fmt.Sprintf("%02x", byte(tok.Marker)),
				Marker: tok.Marker.String(),
				Kind:   tok.Marker.Kind().String(),
				Detail: tok.Detail,
			}
			records = append(records, rec)
			rows = append(rows, []string{
				strconv.FormatInt(rec.Offset, 10),
				rec.Tag,
				strings.Repeat("  ", rec.Depth) + rec.Marker,
				rec.Kind,
				rec.Detail,
			})
		}
		if err := render(cmd, []string{"Offset", "Tag", "Marker", "Kind", "Detail"}, rows, records); err != nil {
			return err
		}
		return inspectErr
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
