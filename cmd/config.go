package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		redacted := *cfg
		if redacted.Gemini.Key != "" {
			redacted.Gemini.Key = "[redacted]"
		}
		if redacted.Anthropic.Key != "" {
			redacted.Anthropic.Key = "[redacted]"
		}
		if redacted.Maps.Key != "" {
			redacted.Maps.Key = "[redacted]"
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(&redacted); err != nil {
			return eris.Wrap(err, "encode config")
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
