package collector

import (
	"fmt"

	"github.com/vellumpdf/vellum/core"
	"github.com/vellumpdf/vellum/writer"
)

// ObjectCollector discovers every indirect object reachable from a root
// object and can bill the serialized byte cost of the ones not already
// accounted for elsewhere. It is the planning half of a page copy: run it
// over a page dictionary to learn which objects a merge would add to the
// destination and how many bytes they cost, without writing anything.
//
// A collector assumes exclusive read access to the graph for the duration
// of construction and of each Length call. It holds no locks and shares no
// state between instances.
type ObjectCollector struct {
	visited map[int]*core.Indirect
}

// New walks the graph starting at root and records every reachable
// indirect object. Construction cannot fail: a degenerate root (a bare
// scalar, or nil) yields a collector with at most the root's own entry.
func New(root core.Object) *ObjectCollector {
	c := &ObjectCollector{visited: make(map[int]*core.Indirect)}
	c.collect(root)
	return c
}

// collect performs the traversal with an explicit work stack, so depth is
// bounded by the heap rather than the call stack. Array elements are
// pushed in reverse so they are visited in index order.
func (c *ObjectCollector) collect(root core.Object) {
	if root == nil {
		return
	}
	stack := []core.Object{root}
	for len(stack) > 0 {
		obj := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch v := obj.(type) {
		case *core.Indirect:
			if _, seen := c.visited[v.Number]; seen {
				// Already recorded: its subgraph is fully accounted for.
				// This is also what terminates cycles.
				continue
			}
			// Record before descending so a cycle back to this number
			// stops at the check above.
			c.visited[v.Number] = v
			if v.Value != nil {
				stack = append(stack, v.Value)
			}

		case core.Array:
			for i := v.Len() - 1; i >= 0; i-- {
				if elem := v.Get(i); elem != nil {
					stack = append(stack, elem)
				}
			}

		case core.Dict:
			stack = c.pushDictValues(stack, v)

		case *core.Stream:
			stack = c.pushDictValues(stack, v.Dict)

		default:
			// Scalars are terminal. Direct (non-indirect) containers were
			// walked through above without being recorded: they have no
			// stable identity to deduplicate on, and re-walking inline
			// substructure is cheap and cannot cycle on its own.
		}
	}
}

// pushDictValues pushes a dictionary's values for traversal, unless the
// dictionary is a page tree branch node. Page tree nodes are recorded but
// never expanded: their Kids and Parent links span the whole document,
// and expanding them would pull every page into what should be a single
// page's resource set. Exactly this one tag is exempted; other
// back-reference-bearing keys are traversed normally.
func (c *ObjectCollector) pushDictValues(stack []core.Object, dict core.Dict) []core.Object {
	if dict == nil || dict.IsPageTree() {
		return stack
	}
	for _, key := range dict.Keys() {
		if val := dict.Get(key); val != nil {
			stack = append(stack, val)
		}
	}
	return stack
}

// Reachable returns the reachable indirect objects keyed by object
// number. The map is a fresh copy on every call; mutating it does not
// affect the collector.
func (c *ObjectCollector) Reachable() map[int]*core.Indirect {
	out := make(map[int]*core.Indirect, len(c.visited))
	for num, ind := range c.visited {
		out[num] = ind
	}
	return out
}

// Len returns the number of reachable indirect objects.
func (c *ObjectCollector) Len() int {
	return len(c.visited)
}

// Length returns the total serialized byte cost of the reachable objects
// whose numbers are not present in exclude. Each billed object is
// serialized as a complete indirect object body through a counting sink;
// clones are measured, never the live nodes, so repeated calls with
// different exclusion sets see identical graphs and return identical
// sums. A serialization failure aborts the call: no partial count is ever
// returned.
func (c *ObjectCollector) Length(exclude map[int]*core.Indirect, opts ...writer.Option) (int64, error) {
	var total int64
	for num, ind := range c.visited {
		if _, skip := exclude[num]; skip {
			continue
		}
		var value core.Object
		if ind.Value != nil {
			value = ind.Value.Clone()
		}
		n, err := writer.ObjectLength(ind.Number, ind.Generation, value, opts...)
		if err != nil {
			return 0, fmt.Errorf("measuring object %d: %w", num, err)
		}
		total += n
	}
	return total, nil
}
