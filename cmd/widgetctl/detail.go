package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newDetailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detail <instance-id>",
		Short: "Render a widget instance's detail rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("instance id: %w", err)
			}
			var out struct {
				InstanceID int64  `json:"instance_id"`
				Widget     string `json:"widget"`
				Rows       []struct {
					Kind  string `json:"kind"`
					Label string `json:"label"`
					Value string `json:"value"`
				} `json:"rows"`
			}
			if err := apiGet(cmd, fmt.Sprintf("/v1/instances/%d/detail", id), &out); err != nil {
				return err
			}
			if outputFormat(cmd) == "json" {
				return printJSON(out)
			}
			fmt.Printf("%s (instance %d)\n", out.Widget, out.InstanceID)
			tw := tablewriter.NewWriter(os.Stdout)
			tw.SetHeader([]string{"Kind", "Label", "Value"})
			for _, r := range out.Rows {
				tw.Append([]string{r.Kind, r.Label, r.Value})
			}
			tw.Render()
			return nil
		},
	}
}
