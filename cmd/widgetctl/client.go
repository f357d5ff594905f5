package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/faciam-dev/widgetboard/pkg/util"
)

// apiGet fetches path from the API and decodes the JSON body into out.
func apiGet(cmd *cobra.Command, path string, out any) error {
	base, err := cmd.Root().PersistentFlags().GetString("api-url")
	if err != nil {
		return err
	}
	client := resty.New().SetTimeout(util.GetEnvDuration("WB_CLIENT_TIMEOUT", 10*time.Second))
	resp, err := client.R().Get(strings.TrimSuffix(base, "/") + path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("api: %s returned %s", path, resp.Status())
	}
	return json.Unmarshal(resp.Body(), out)
}

// printJSON emits v as indented JSON for --output=json.
func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func outputFormat(cmd *cobra.Command) string {
	format, err := cmd.Root().PersistentFlags().GetString("output")
	if err != nil {
		return "table"
	}
	return format
}
