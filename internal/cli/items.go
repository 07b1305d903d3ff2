package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boards/internal/host"
	"github.com/mesh-intelligence/boards/internal/store"
	"github.com/mesh-intelligence/boards/pkg/types"
)

func newAddCmd() *cobra.Command {
	var title, content string
	cmd := &cobra.Command{
		Use:   "add <kind>",
		Short: "Add an item to a group",
		Long: `Add creates an item with a fresh ID and a random color at the end of
the named group.

Example:
  boards add todo --title "Write tests"
  boards --board shapes add circle`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHost(func(h *host.Host) error {
				kind, err := parseKind(h.Store.Board(), args[0])
				if err != nil {
					return err
				}
				initial := map[string]string{}
				if cmd.Flags().Changed("title") {
					initial[types.FieldTitle] = title
				}
				if cmd.Flags().Changed("content") {
					initial[types.FieldContent] = content
				}
				it, err := h.Store.Create(kind, initial)
				if it.ID == "" {
					return err
				}
				if perr := printItem(cmd, "added", it); perr != nil {
					return perr
				}
				return err
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "card title")
	cmd.Flags().StringVar(&content, "content", "", "card description")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHost(func(h *host.Host) error {
				it, err := lookup(h, args[0])
				if err != nil {
					return err
				}
				if err := h.Store.Remove(it.ID); err != nil {
					return err
				}
				return printItem(cmd, "removed", it)
			})
		},
	}
}

func newRecolorCmd() *cobra.Command {
	var kind, id string
	var all bool
	cmd := &cobra.Command{
		Use:   "recolor",
		Short: "Assign new random colors",
		Long: `Recolor gives every selected item a new random color in one write.

Example:
  boards recolor --all
  boards --board shapes recolor --kind circle
  boards recolor --id 0192`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHost(func(h *host.Host) error {
				var sel store.Selector
				switch {
				case all:
					sel = store.All()
				case kind != "":
					k, err := parseKind(h.Store.Board(), kind)
					if err != nil {
						return err
					}
					sel = store.ByKind(k)
				default:
					it, err := lookup(h, id)
					if err != nil {
						return err
					}
					sel = store.ByID(it.ID)
				}
				before := h.Store.Items()
				if err := h.Store.Recolor(sel); err != nil {
					return err
				}
				n := 0
				for _, it := range before {
					if sel(it) {
						n++
					}
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "recolored %d item(s)\n", n)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "recolor every item of this kind")
	cmd.Flags().StringVar(&id, "id", "", "recolor one item")
	cmd.Flags().BoolVar(&all, "all", false, "recolor every item")
	cmd.MarkFlagsOneRequired("kind", "id", "all")
	cmd.MarkFlagsMutuallyExclusive("kind", "id", "all")
	return cmd
}

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <kind>",
		Short: "Move an item to the end of another group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHost(func(h *host.Host) error {
				it, err := lookup(h, args[0])
				if err != nil {
					return err
				}
				kind, err := parseKind(h.Store.Board(), args[1])
				if err != nil {
					return err
				}
				if err := h.Store.MoveToGroup(it.ID, kind); err != nil {
					return err
				}
				moved, _ := h.Store.Get(it.ID)
				return printItem(cmd, "moved", moved)
			})
		},
	}
}

func newShiftCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "shift <id> left|right",
		Short:     "Move an item to the neighbouring column",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"left", "right"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var delta int
			switch strings.ToLower(args[1]) {
			case "left":
				delta = -1
			case "right":
				delta = 1
			default:
				return fmt.Errorf("direction %q: want left or right", args[1])
			}
			return withHost(func(h *host.Host) error {
				it, err := lookup(h, args[0])
				if err != nil {
					return err
				}
				if err := h.Store.Shift(it.ID, delta); err != nil {
					return err
				}
				shifted, _ := h.Store.Get(it.ID)
				return printItem(cmd, "shifted", shifted)
			})
		},
	}
}

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <field> [value...]",
		Short: "Set a text field of an item",
		Long: `Edit replaces one text field. An empty value is stored as the board's
placeholder for that field.

Example:
  boards edit 0192 title "Ship release"
  boards edit 0192 content`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHost(func(h *host.Host) error {
				it, err := lookup(h, args[0])
				if err != nil {
					return err
				}
				value := strings.Join(args[2:], " ")
				if err := h.Store.UpdateField(it.ID, args[1], value); err != nil {
					return err
				}
				edited, _ := h.Store.Get(it.ID)
				return printItem(cmd, "edited", edited)
			})
		},
	}
}

func newSortCmd() *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "sort <kind>",
		Short: "Sort one group by a text field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHost(func(h *host.Host) error {
				b := h.Store.Board()
				kind, err := parseKind(b, args[0])
				if err != nil {
					return err
				}
				var cmp store.Comparator
				if by != "" {
					if !b.HasField(by) {
						return fmt.Errorf("sort by %q: %w", by, types.ErrInvalidField)
					}
					cmp = store.ByField(by)
				}
				if err := h.Store.SortGroup(kind, cmp); err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "sorted %s\n", kind)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "field to compare (default: the board's sort field)")
	return cmd
}

// lookup resolves ref against the open store.
func lookup(h *host.Host, ref string) (types.Item, error) {
	id, err := resolveID(h.Store.Items(), ref)
	if err != nil {
		return types.Item{}, err
	}
	it, _ := h.Store.Get(id)
	return it, nil
}
