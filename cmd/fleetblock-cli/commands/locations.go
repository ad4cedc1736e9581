package commands

import (
	"fleetblock-backend/services/blocked"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(locationsCmd)
}

var locationsCmd = &cobra.Command{
	Use:   "locations [query]",
	Short: "Prints the known locations, or the one best matching the query.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		service := blocked.NewService(nil, cfg.Blocked.Options())

		locations := service.Locations().Sorted()
		if len(args) == 1 {
			loc, ok := service.Locations().FindLocation(args[0])
			if !ok {
				fmt.Fprintf(os.Stderr, "no location matches %q\n", args[0])
				os.Exit(1)
			}
			locations = blocked.LocationTable{loc}
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Id", "Code", "Name"})
		for _, loc := range locations {
			t.AppendRow(table.Row{loc.ID, loc.Code, loc.Name})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
