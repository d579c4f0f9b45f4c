// Package collector discovers the indirect objects reachable from a root
// object and accounts for their serialized byte cost.
//
// [New] traverses the graph once, deduplicating shared objects and
// terminating on cycles: an indirect object is recorded before its value
// is descended into, and a number already recorded is never descended
// again. Dictionaries tagged /Type /Pages (page tree branch nodes) are
// recorded but not expanded, so collecting from a page does not drag in
// the entire document through Parent links.
//
// [ObjectCollector.Reachable] reports the collected set;
// [ObjectCollector.Length] replays it through a length-only serialization
// sink, skipping a caller-supplied set of already-accounted-for numbers.
// Typical use is costing a page import:
//
//	c := collector.New(pageDict)
//	fresh, err := c.Length(alreadyInDestination)
//
// Length can be called any number of times with different exclusion sets;
// the graph is never re-traversed and never mutated.
package collector
