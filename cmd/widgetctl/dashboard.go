package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	var userID int64
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Render a user's dashboard tiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Tiles []struct {
					InstanceID int64  `json:"instance_id"`
					Widget     string `json:"widget"`
					Summary    struct {
						Text  string `json:"text"`
						Image string `json:"image"`
					} `json:"summary"`
				} `json:"tiles"`
			}
			path := fmt.Sprintf("/v1/dashboard?user_id=%d", userID)
			if err := apiGet(cmd, path, &out); err != nil {
				return err
			}
			if outputFormat(cmd) == "json" {
				return printJSON(out.Tiles)
			}
			tw := tablewriter.NewWriter(os.Stdout)
			tw.SetHeader([]string{"Instance", "Widget", "Summary"})
			for _, t := range out.Tiles {
				tw.Append([]string{fmt.Sprint(t.InstanceID), t.Widget, t.Summary.Text})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "board owner's user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
