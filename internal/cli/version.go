package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the boards release.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/boards"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the boards version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "boards v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
