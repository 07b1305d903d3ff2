package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boards/internal/host"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// errAmbiguousID is returned when an ID prefix matches more than one item.
var errAmbiguousID = errors.New("ambiguous id prefix")

// withHost opens the configured board, runs fn, and closes the board.
func withHost(fn func(h *host.Host) error) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	h, err := host.Open(cfg, logger)
	if err != nil {
		return systemErr("open board: %w", err)
	}
	runErr := fn(h)
	if err := h.Close(); err != nil && runErr == nil {
		return systemErr("close board: %w", err)
	}
	return runErr
}

// resolveID finds the item named by ref, either its full ID or a prefix
// unique within the collection.
func resolveID(items types.Collection, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("empty id: %w", types.ErrNotFound)
	}
	if _, ok := items.Get(ref); ok {
		return ref, nil
	}
	var match string
	for _, it := range items {
		if !strings.HasPrefix(it.ID, ref) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%q: %w", ref, errAmbiguousID)
		}
		match = it.ID
	}
	if match == "" {
		return "", fmt.Errorf("item %q: %w", ref, types.ErrNotFound)
	}
	return match, nil
}

// parseKind checks that name is one of the board's kinds.
func parseKind(b types.Board, name string) (types.Kind, error) {
	k := types.Kind(name)
	if !b.HasKind(k) {
		return "", fmt.Errorf("%q on board %s: %w", name, b.Name, types.ErrInvalidKind)
	}
	return k, nil
}

// itemView is the JSON shape of an item in command output.
type itemView struct {
	ID     string            `json:"id"`
	Kind   types.Kind        `json:"kind"`
	Color  string            `json:"color"`
	Fields map[string]string `json:"fields,omitempty"`
}

func viewOf(it types.Item) itemView {
	return itemView{ID: it.ID, Kind: it.Kind, Color: it.Color, Fields: it.Fields}
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// printItem reports one item after a mutation.
func printItem(cmd *cobra.Command, verb string, it types.Item) error {
	if flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), viewOf(it))
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", verb, it.ID, it.Kind)
	return err
}
