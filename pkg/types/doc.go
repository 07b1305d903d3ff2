// Package types defines the board entities (Item, Kind, Collection, Board),
// configuration, and the standard error values shared by the store, the
// persistence adapter, and the reconciler.
package types
