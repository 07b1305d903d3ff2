package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boards/internal/host"
	"github.com/mesh-intelligence/boards/internal/render"
	"github.com/mesh-intelligence/boards/pkg/types"
)

func newCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count [kind]",
		Short: "Count items per kind",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHost(func(h *host.Host) error {
				b := h.Store.Board()
				kinds := b.Kinds
				if len(args) == 1 {
					k, err := parseKind(b, args[0])
					if err != nil {
						return err
					}
					kinds = []types.Kind{k}
				}

				counts := make(map[types.Kind]int, len(kinds))
				for _, k := range kinds {
					counts[k] = h.Store.CountByKind(k)
				}
				if flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), counts)
				}
				for _, k := range kinds {
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", k, counts[k]); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newListCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items in board order",
		Long: `List prints every item in collection order.

Example:
  boards list
  boards list --kind done
  boards --board shapes list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHost(func(h *host.Host) error {
				b := h.Store.Board()
				items := h.Store.Items()
				if kind != "" {
					k, err := parseKind(b, kind)
					if err != nil {
						return err
					}
					items = items.Group(k)
				}

				if flags.jsonMode {
					views := make([]itemView, len(items))
					for i, it := range items {
						views[i] = viewOf(it)
					}
					return writeJSON(cmd.OutOrStdout(), views)
				}
				return printItemTable(cmd, b, items)
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only list this kind")
	return cmd
}

// printItemTable prints items in a human-readable table format.
func printItemTable(cmd *cobra.Command, b types.Board, items types.Collection) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No items found")
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "ID\tKIND\tCOLOR")
	for _, f := range b.Fields {
		fmt.Fprintf(w, "\t%s", f)
	}
	fmt.Fprintln(w)
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%s", it.ID, it.Kind, it.Color)
		for _, f := range b.Fields {
			fmt.Fprintf(w, "\t%s", it.Field(f))
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Render the board in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHost(func(h *host.Host) error {
				surf := render.NewTermSurface(h.Store.Board())
				h.Attach(surf)
				return surf.Render(cmd.OutOrStdout())
			})
		},
	}
}
