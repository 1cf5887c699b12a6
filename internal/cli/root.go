package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds flags shared across all commands.
type GlobalFlags struct {
	ConfigPath string
	Verbose    bool
}

var globalFlags GlobalFlags

var rootCmd = &cobra.Command{
	Use:   "cargomcp",
	Short: "Safe cargo tool server over stdio JSON-RPC",
	Long: "cargomcp exposes a fixed whitelist of cargo operations (check, clippy, test,\n" +
		"fmt-check, build, bench, add, remove, update, clean, run) to an MCP client\n" +
		"over stdin/stdout. Every invocation is validated against a project-root\n" +
		"precondition and executed as an explicit argv vector, never a shell string.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.ConfigPath, "config", "", "config file path (default .cargomcp.toml)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Verbose, "verbose", false, "enable debug logging on stderr")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
