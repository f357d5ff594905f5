package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/faciam-dev/widgetboard/pkg/util"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache and fetch counters from the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := cmd.Root().PersistentFlags().GetString("api-url")
			if err != nil {
				return err
			}
			client := resty.New().SetTimeout(util.GetEnvDuration("WB_CLIENT_TIMEOUT", 10*time.Second))
			resp, err := client.R().Get(strings.TrimSuffix(base, "/") + "/metrics")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("api: /metrics returned %s", resp.Status())
			}
			for _, line := range strings.Split(string(resp.Body()), "\n") {
				if strings.HasPrefix(line, "wb_cache_") || strings.HasPrefix(line, "wb_upstream_") {
					fmt.Println(line)
				}
			}
			return nil
		},
	}
}
