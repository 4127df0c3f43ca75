package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gojideth/Docker-compose-networks/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect personsvc configuration",
	Long: `The config command shows and validates the effective configuration:
defaults, overlaid by the config file, overlaid by environment variables.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Display the effective configuration with secrets redacted.

By default, output is in YAML format. Use --output-format json for JSON output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		outputFormat, _ := cmd.Flags().GetString("output-format")
		return printConfig(cmd.OutOrStdout(), cfg, outputFormat)
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		cmd.Println("Configuration is valid")
		return nil
	},
}

func init() {
	configShowCmd.Flags().String("output-format", "yaml", "Output format (yaml|json)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

// printConfig writes the redacted configuration in the requested format.
func printConfig(w io.Writer, cfg *config.Config, format string) error {
	redacted := cfg.Redacted()

	var output []byte
	var err error

	switch strings.ToLower(format) {
	case "json":
		// Go through the YAML encoding so both formats share keys and
		// durations read as "15s" rather than nanoseconds.
		tree, err := yamlTree(redacted)
		if err != nil {
			return err
		}
		output, err = json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		output = append(output, '\n')
	case "yaml", "":
		output, err = yaml.Marshal(redacted)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s (use 'yaml' or 'json')", format)
	}

	_, err = w.Write(output)
	return err
}

func yamlTree(cfg config.Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode config tree: %w", err)
	}
	return tree, nil
}
