package cmd

import (
	"encoding/json"
	"os"

	"mpk/cli"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// render writes rows as a table, or one JSON object per row when
// --format=json. records holds the JSON form of each row.
func render(cmd *cobra.Command, header []string, rows [][]string, records []interface{}) error {
	format, err := cmd.Flags().GetString(cli.FlagFormat)
	if err != nil {
		return err
	}
	switch format {
	case "text":
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader(header)
		table.AppendBulk(rows)
		table.Render()
		return nil
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		for _, rec := range records {
			if err := encoder.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.Errorf("invalid output format %q", format)
	}
}
