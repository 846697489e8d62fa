package internal

import (
	"reflect"
	"slices"
)

// source is a node a computation can depend on: a cell or a derived cell.
type source interface {
	addSub(sub subscriber)
	removeSub(sub subscriber)

	// refresh brings the node up to date. Cells are always up to date.
	refresh() error

	// ver is bumped every time the node's value observably changes.
	ver() uint64

	label() string
}

// subscriber is a node that depends on sources: a derived cell or a task.
type subscriber interface {
	markStale()
	label() string
}

// dependency records a source and the version seen when it was read.
type dependency struct {
	src     source
	version uint64
}

// subscribers is an ordered set of subscribers.
type subscribers []subscriber

func (s *subscribers) add(sub subscriber) {
	if !slices.Contains(*s, sub) {
		*s = append(*s, sub)
	}
}

func (s *subscribers) remove(sub subscriber) {
	if i := slices.Index(*s, sub); i >= 0 {
		*s = slices.Delete(*s, i, i+1)
	}
}

// markStale notifies a snapshot of the set, so subscribers may unlink while
// being notified.
func (s subscribers) markStale() {
	for _, sub := range slices.Clone(s) {
		sub.markStale()
	}
}

// relink replaces the edges of sub from prev to next, keeping the position
// of edges present in both.
func relink(sub subscriber, prev, next []dependency) {
	keep := make(map[source]struct{}, len(next))
	for _, dep := range next {
		keep[dep.src] = struct{}{}
	}

	had := make(map[source]struct{}, len(prev))
	for _, dep := range prev {
		had[dep.src] = struct{}{}
		if _, ok := keep[dep.src]; !ok {
			dep.src.removeSub(sub)
		}
	}

	for _, dep := range next {
		if _, ok := had[dep.src]; !ok {
			dep.src.addSub(sub)
		}
	}
}

// unlink removes sub from every source in deps.
func unlink(sub subscriber, deps []dependency) {
	for _, dep := range deps {
		dep.src.removeSub(sub)
	}
}

// changed reports whether any dependency moved past the recorded version.
// Derived dependencies are refreshed first, in read order.
func changed(deps []dependency) (bool, error) {
	for _, dep := range deps {
		if err := dep.src.refresh(); err != nil {
			return true, err
		}
		if dep.src.ver() != dep.version {
			return true, nil
		}
	}
	return false, nil
}

func dependsOn(deps []dependency, src source) bool {
	return slices.ContainsFunc(deps, func(d dependency) bool { return d.src == src })
}

// Equal is the default equality policy: == for comparable dynamic types,
// and "always different" for everything else (slices, maps, funcs).
func Equal(a, b any) (eq bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}

	// structs holding non-comparable values in interface fields panic on ==
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()

	return a == b
}
