// JSON snapshot encodings. The grouped encoding is an object of kind to
// ordered record list; the flat encoding is a list of records that carry
// their own kind under "type".
package persist

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Reserved record keys. Board text fields are stored alongside them.
const (
	recID    = "id"
	recColor = "color"
	recType  = "type"
)

// record is the on-disk form of one item.
type record map[string]string

// codec converts between a Collection and its snapshot text.
type codec interface {
	encode(b types.Board, c types.Collection) ([]byte, error)
	// decode parses a snapshot. A non-nil error means the whole snapshot is
	// unusable; skipped holds per-record problems that were dropped.
	decode(b types.Board, data []byte) (c types.Collection, skipped []error, err error)
}

func codecFor(b types.Board) codec {
	if b.Layout == types.LayoutGrouped {
		return groupedCodec{}
	}
	return flatCodec{}
}

func toRecord(b types.Board, it types.Item) record {
	rec := record{recID: it.ID, recColor: it.Color}
	for _, f := range b.Fields {
		rec[f] = it.Field(f)
	}
	return rec
}

func fromRecord(b types.Board, kind types.Kind, rec record) types.Item {
	it := types.Item{ID: rec[recID], Kind: kind, Color: rec[recColor]}
	if len(b.Fields) > 0 {
		it.Fields = make(map[string]string, len(b.Fields))
		for _, f := range b.Fields {
			it.Fields[f] = rec[f]
		}
	}
	return it
}

type groupedCodec struct{}

func (groupedCodec) encode(b types.Board, c types.Collection) ([]byte, error) {
	state := make(map[string][]record, len(b.Kinds))
	for _, k := range b.Kinds {
		state[string(k)] = []record{}
	}
	for _, it := range c {
		state[string(it.Kind)] = append(state[string(it.Kind)], toRecord(b, it))
	}
	return json.Marshal(state)
}

func (groupedCodec) decode(b types.Board, data []byte) (types.Collection, []error, error) {
	var state map[string][]json.RawMessage
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", types.ErrCorruptSnapshot, err)
	}

	var (
		out     types.Collection
		skipped []error
	)
	// Declared kinds first, in column order; undeclared groups are kept
	// so the adapter can report them.
	seen := make(map[string]bool, len(state))
	appendGroup := func(name string) {
		seen[name] = true
		for i, raw := range state[name] {
			var rec record
			if err := json.Unmarshal(raw, &rec); err != nil {
				skipped = append(skipped, fmt.Errorf("group %s record %d: %w", name, i, err))
				continue
			}
			out = append(out, fromRecord(b, types.Kind(name), rec))
		}
	}
	for _, k := range b.Kinds {
		if _, ok := state[string(k)]; ok {
			appendGroup(string(k))
		}
	}
	for name := range state {
		if !seen[name] {
			appendGroup(name)
		}
	}
	return out, skipped, nil
}

type flatCodec struct{}

func (flatCodec) encode(b types.Board, c types.Collection) ([]byte, error) {
	recs := make([]record, 0, len(c))
	for _, it := range c {
		rec := toRecord(b, it)
		rec[recType] = string(it.Kind)
		recs = append(recs, rec)
	}
	return json.Marshal(recs)
}

func (flatCodec) decode(b types.Board, data []byte) (types.Collection, []error, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", types.ErrCorruptSnapshot, err)
	}

	var (
		out     types.Collection
		skipped []error
	)
	for i, raw := range raws {
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			skipped = append(skipped, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		out = append(out, fromRecord(b, types.Kind(rec[recType]), rec))
	}
	return out, skipped, nil
}
