package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boards/internal/host"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize boards storage",
		Long:  "Create the configuration and data directories, write a default config.yaml,\nthen open the configured backend once so its files exist.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return systemErr("create data directory: %w", err)
	}

	h, err := host.Open(cfg, nil)
	if err != nil {
		return systemErr("initialize storage: %w", err)
	}
	if err := h.Close(); err != nil {
		return systemErr("finalize storage: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Boards initialized (%s backend, %s)\n", cfg.Backend, cfg.DataDir)
	return nil
}
