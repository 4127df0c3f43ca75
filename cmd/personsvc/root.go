package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/gojideth/Docker-compose-networks/cmd/personsvc/internal"
	"github.com/gojideth/Docker-compose-networks/internal/config"
	"github.com/gojideth/Docker-compose-networks/pkg/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "personsvc",
	Short: "personsvc - a person registry backed by Neo4j",
	Long: `personsvc serves a small HTTP API that creates random persons and lists
stored persons in a Neo4j graph database, and reports database health.

Connection settings come from the config file and the NEO4J_URI, NEO4J_USER
and NEO4J_PASSWORD environment variables.`,
	PersistentPreRunE: validateFlags,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if _, err := ParseGlobalFlags(cmd); err != nil {
		return internal.WrapError(internal.ExitConfigError, "invalid flags", err)
	}
	return nil
}

// loadConfig resolves and loads the configuration for a command, then applies
// the global flag overrides. An explicit --config file must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags, err := ParseGlobalFlags(cmd)
	if err != nil {
		return nil, internal.WrapError(internal.ExitConfigError, "invalid flags", err)
	}

	loader := config.NewConfigLoader(config.NewValidator())
	path := config.ResolveConfigPath(flags.ConfigFile)

	var cfg *config.Config
	if flags.ConfigFileExplicit() {
		cfg, err = loader.Load(path)
	} else {
		cfg, err = loader.LoadWithDefaults(path)
	}
	if err != nil {
		return nil, internal.WrapError(internal.ExitConfigError, "failed to load configuration", err)
	}

	if flags.LogFormat != "" {
		cfg.Logging.Format = flags.LogFormat
	}
	if flags.IsVerbose() {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func init() {
	RegisterGlobalFlags(rootCmd)

	versionCmd.Flags().Bool("json", false, "Print version information as JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(version.Info())
		}
		cmd.Println(version.String())
		return nil
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for personsvc.

Bash:

  $ source <(personsvc completion bash)

Zsh:

  $ personsvc completion zsh > "${fpath[1]}/_personsvc"

Fish:

  $ personsvc completion fish | source

PowerShell:

  PS> personsvc completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		default:
			return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
	},
}
