// Package vellum copies pages between PDF documents and prices the copy
// before it happens.
//
// A page owns a subgraph of the source document: its content streams,
// resource dictionaries, fonts, images, and whatever those reach. Copying
// the page means copying exactly that subgraph, once per shared object,
// and renumbering every reference for the destination.
// [PageByteCost] reports how many serialized bytes such a copy would add,
// excluding objects the destination already has; [ImportPage] performs
// it. Both lean on the collector package for reachability and on the
// writer package for byte-exact measurement.
package vellum

import (
	"fmt"

	"github.com/vellumpdf/vellum/collector"
	"github.com/vellumpdf/vellum/core"
	"github.com/vellumpdf/vellum/document"
)

// PageByteCost returns the number of bytes that importing page would add
// to a destination document: the serialized size of every indirect object
// reachable from the page that is not declared existing via WithExisting.
// The page's Parent link is ignored, so the source's page tree is not
// priced in.
func PageByteCost(page core.Object, opts ...Option) (int64, error) {
	cfg := applyOptions(opts)
	root, err := detach(page)
	if err != nil {
		return 0, err
	}
	c := collector.New(root)
	return c.Length(cfg.existing, cfg.writerOpts...)
}

// ImportPage copies page and its reachable subgraph into dst, assigning
// fresh object numbers and rewriting every reference, then attaches the
// copy to dst's page tree. Objects declared existing via WithExisting are
// not copied; references to them are rewritten to the supplied
// destination handles. The source document is never mutated.
//
// References to objects that were deliberately not collected — children
// of page tree branch nodes — are replaced with null in the copy.
func ImportPage(dst *document.Document, page *core.Indirect, opts ...Option) (*core.Indirect, error) {
	cfg := applyOptions(opts)
	root, err := detach(page)
	if err != nil {
		return nil, err
	}

	reachable := collector.New(root).Reachable()

	// Allocate destination identities first so that bodies can be
	// rewritten against a complete mapping, cycles included.
	mapping := make(map[int]*core.Indirect, len(reachable))
	for num := range reachable {
		if existing, ok := cfg.existing[num]; ok {
			mapping[num] = existing
			continue
		}
		mapping[num] = dst.Add(core.Null{})
	}
	for num, ind := range reachable {
		if _, ok := cfg.existing[num]; ok {
			continue
		}
		mapping[num].Value = renumber(ind.Value, mapping)
	}

	imported, ok := mapping[page.Number]
	if !ok {
		return nil, fmt.Errorf("page object %d was not collected", page.Number)
	}
	if err := dst.AttachPage(imported); err != nil {
		return nil, err
	}
	return imported, nil
}

// detach returns a traversal root equivalent to page but with the page
// dictionary's Parent entry removed, so that collection does not ascend
// into the source's page tree. The caller's objects are never modified:
// the dictionary is cloned (nested indirect objects stay shared).
func detach(page core.Object) (core.Object, error) {
	switch v := page.(type) {
	case *core.Indirect:
		dict, ok := v.Value.(core.Dict)
		if !ok {
			return nil, fmt.Errorf("page object %d is not a dictionary: %T", v.Number, v.Value)
		}
		detached := dict.Clone().(core.Dict)
		detached.Delete("Parent")
		root := core.NewIndirect(v.Number, detached)
		root.Generation = v.Generation
		return root, nil
	case core.Dict:
		detached := v.Clone().(core.Dict)
		detached.Delete("Parent")
		return detached, nil
	default:
		return nil, fmt.Errorf("page must be a dictionary or an indirect dictionary, got %T", page)
	}
}

// renumber deep-copies obj, rewriting indirect references through
// mapping. References with no mapping point at objects the collector
// deliberately refused to descend into; they become null.
func renumber(obj core.Object, mapping map[int]*core.Indirect) core.Object {
	switch v := obj.(type) {
	case nil:
		return core.Null{}
	case *core.Indirect:
		if mapped, ok := mapping[v.Number]; ok {
			return mapped
		}
		return core.Null{}
	case core.Array:
		out := make(core.Array, len(v))
		for i, elem := range v {
			out[i] = renumber(elem, mapping)
		}
		return out
	case core.Dict:
		out := make(core.Dict, len(v))
		for key, val := range v {
			out[key] = renumber(val, mapping)
		}
		return out
	case *core.Stream:
		out := &core.Stream{Data: make([]byte, len(v.Data))}
		copy(out.Data, v.Data)
		if v.Dict != nil {
			out.Dict = renumber(v.Dict, mapping).(core.Dict)
		} else {
			out.Dict = make(core.Dict)
		}
		return out
	default:
		return v.Clone()
	}
}
