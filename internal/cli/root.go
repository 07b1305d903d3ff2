// Package cli implements the boards command-line interface. Each command
// opens the configured board, applies one store operation, and exits.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	board     string
	jsonMode  bool
}

var flags rootFlags

// NewRootCmd creates the top-level "boards" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "boards",
		Short: "Persisted task and shape boards",
		Long:  "Boards keeps a kanban task board and a shape board in a local slot\nand renders them in the terminal.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .boards-db)")
	root.PersistentFlags().StringVar(&flags.board, "board", "", "board to open: tasks or shapes (default from config)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newAddCmd(),
		newRemoveCmd(),
		newRecolorCmd(),
		newMoveCmd(),
		newShiftCmd(),
		newEditCmd(),
		newSortCmd(),
		newCountCmd(),
		newListCmd(),
		newShowCmd(),
	)

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// sysError marks failures of the environment rather than of the request.
type sysError struct{ err error }

func (e sysError) Error() string { return e.err.Error() }
func (e sysError) Unwrap() error { return e.err }

// systemErr wraps err so that exitCode reports a system error.
func systemErr(format string, args ...any) error {
	return sysError{err: fmt.Errorf(format, args...)}
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	var se sysError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &se), errors.Is(err, types.ErrPersistenceUnavailable):
		return exitSysError
	default:
		return exitUserError
	}
}
