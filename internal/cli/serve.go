package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cargomcp/internal/cargo"
	"cargomcp/internal/config"
	"cargomcp/internal/mcp"
	"cargomcp/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP over stdin/stdout",
	RunE:  runServe,
}

var (
	serveToolchain string
	serveStateDir  string
	serveTimeout   int
	serveMaxOutput int
)

func init() {
	serveCmd.Flags().StringVar(&serveToolchain, "toolchain", "", "default toolchain for cargo invocations (e.g. stable, nightly)")
	serveCmd.Flags().StringVar(&serveStateDir, "state-dir", "", "directory for the invocation audit database (empty disables auditing)")
	serveCmd.Flags().IntVar(&serveTimeout, "timeout", 0, "per-invocation timeout in seconds (0 = none)")
	serveCmd.Flags().IntVar(&serveMaxOutput, "max-output-bytes", 0, "cap per captured output stream in bytes (0 = config default)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	overrides := &config.Overrides{}
	if cmd.Flags().Changed("toolchain") {
		overrides.DefaultToolchain = &serveToolchain
	}
	if cmd.Flags().Changed("state-dir") {
		overrides.StateDir = &serveStateDir
	}
	if cmd.Flags().Changed("timeout") {
		overrides.TimeoutSeconds = &serveTimeout
	}
	if cmd.Flags().Changed("max-output-bytes") {
		overrides.MaxOutputBytes = &serveMaxOutput
	}
	if globalFlags.Verbose {
		verbose := true
		overrides.Verbose = &verbose
	}

	cfg, err := config.Load(config.Options{ConfigPath: globalFlags.ConfigPath, Overrides: overrides})
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var audit *store.AuditStore
	if cfg.StateDir != "" {
		if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
			return fmt.Errorf("failed to create state dir: %w", err)
		}
		audit = store.NewAuditStore(filepath.Join(cfg.StateDir, "invocations.db"))
		if err := audit.Init(cmd.Context()); err != nil {
			return fmt.Errorf("failed to open audit store: %w", err)
		}
		defer func() { _ = audit.Close() }()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := mcp.NewServer(mcp.Options{
		DefaultToolchain: cfg.DefaultToolchain,
		Runner: &cargo.Executor{
			Timeout:        time.Duration(cfg.TimeoutSeconds) * time.Second,
			MaxOutputBytes: cfg.MaxOutputBytes,
		},
		Audit:  audit,
		Logger: logger,
	})

	logger.Info("serving MCP on stdio",
		zap.String("default_toolchain", cfg.DefaultToolchain),
		zap.Int("timeout_seconds", cfg.TimeoutSeconds),
		zap.Bool("audit", audit != nil),
	)
	return server.Serve(ctx, os.Stdin, os.Stdout)
}

// newLogger builds a zap logger writing to stderr only. Stdout belongs to
// the protocol and must never carry diagnostics.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
