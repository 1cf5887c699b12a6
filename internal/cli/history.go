package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cargomcp/internal/config"
	"cargomcp/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent tool invocations from the audit log",
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of invocations to show")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.Options{ConfigPath: globalFlags.ConfigPath})
	if err != nil {
		return err
	}
	if cfg.StateDir == "" {
		return fmt.Errorf("no state_dir configured; auditing is disabled")
	}

	audit := store.NewAuditStore(filepath.Join(cfg.StateDir, "invocations.db"))
	if err := audit.Init(cmd.Context()); err != nil {
		return fmt.Errorf("failed to open audit store: %w", err)
	}
	defer func() { _ = audit.Close() }()

	invocations, err := audit.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(invocations) == 0 {
		fmt.Println("No invocations recorded.")
		return nil
	}

	for _, inv := range invocations {
		status := fmt.Sprintf("exit %d", inv.ExitCode)
		if inv.ErrorKind != "" {
			status = inv.ErrorKind
		}
		fmt.Printf("%s  %-16s %-8s %6dms  %s\n",
			inv.Timestamp.Format("2006-01-02 15:04:05"),
			inv.Tool,
			status,
			inv.DurationMS,
			strings.Join(inv.Argv, " "),
		)
	}
	return nil
}
