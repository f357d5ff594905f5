package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newWidgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "widgets",
		Short: "List available widgets",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Widgets []struct {
					Name        string `json:"name"`
					HasSettings bool   `json:"has_settings"`
				} `json:"widgets"`
			}
			if err := apiGet(cmd, "/v1/widgets", &out); err != nil {
				return err
			}
			if outputFormat(cmd) == "json" {
				return printJSON(out.Widgets)
			}
			tw := tablewriter.NewWriter(os.Stdout)
			tw.SetHeader([]string{"Name", "Settings"})
			for _, w := range out.Widgets {
				tw.Append([]string{w.Name, fmt.Sprint(w.HasSettings)})
			}
			tw.Render()
			return nil
		},
	}
}
