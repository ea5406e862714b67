// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package snarl

import (
	"fmt"

	"github.com/karyon-bio/snarltree/handlegraph"
)

// sidesOf returns the NodeSide standing on the far end of every edge
// incident on side, by asking the backing graph to follow edges off a
// handle constructed for that side. Going right from a handle whose
// orientation is !side.Backward exits exactly side, by the same
// exitFlag identity contents.go and internal/testgraph's FollowEdges
// both use: exitFlag := goLeft == isReverse, so goLeft=false requires
// isReverse == side.Backward's complement to make exitFlag equal
// side.Backward.
func sidesOf(g handlegraph.Graph, side NodeSide) []NodeSide {
	h := g.GetHandle(side.ID, !side.Backward)
	var out []NodeSide
	g.FollowEdges(h, false, func(other handlegraph.Handle) bool {
		out = append(out, NodeSide{ID: g.GetID(other), Backward: g.GetIsReverse(other)})
		return true
	})
	return out
}

// visitDirection reports whether side is the boundary-entry key
// registering child via its Start (backward false) or its End
// (backward true). side is only ever passed in here after a store
// lookup already resolved it to child, so a match against neither key
// means the store's index and child's own Start/End fields have gone
// out of sync with each other — the fatal condition spec.md §7 calls
// out for visit expansion.
func visitDirection(child *Snarl, side NodeSide) (backward bool, err error) {
	switch side {
	case NodeSide{ID: child.Start.ID, Backward: child.Start.Backward}:
		return false, nil
	case NodeSide{ID: child.End.ID, Backward: !child.End.Backward}:
		return true, nil
	default:
		return false, fmt.Errorf("snarl: visit expansion: %w: side %+v resolves to child %+v via neither boundary",
			ErrInvariantViolation, side, child.Key())
	}
}

// visitsFrom returns the Visit values entered by crossing an edge off
// side, scoped to parent's direct children: a neighbor that is the entry
// boundary of one of them becomes a SnarlVisit oriented by which of the
// child's two boundary keys the neighbor matches; every other neighbor
// becomes a plain NodeVisit. parent is required because a neighbor side
// can be a boundary of several snarls at different nesting levels at
// once, and only the caller knows which level it is walking.
//
// side itself is checked against parent's children first, in arrival
// form, before any edge is followed: two sibling snarls commonly share a
// physical boundary node with no real edge between them (one's End is
// the next one's Start), so standing on side can already mean "you are
// at the next child's boundary" with zero edges crossed. Skipping this
// check would resolve one level too deep, into the sibling's own
// interior, exactly the bug fixed in contents.go's arrival handling.
func visitsFrom(g handlegraph.Graph, mgr *Manager, parent SnarlKey, side NodeSide) ([]Visit, error) {
	arrival := interiorSide(side)
	if child, ok := mgr.IntoWhichChildSnarl(parent, arrival); ok {
		backward, err := visitDirection(child, arrival)
		if err != nil {
			return nil, err
		}
		return []Visit{SnarlVisit{Snarl: child, Backward: backward}}, nil
	}

	neighbors := sidesOf(g, side)
	out := make([]Visit, 0, len(neighbors))
	for _, n := range neighbors {
		if child, ok := mgr.IntoWhichChildSnarl(parent, n); ok {
			backward, err := visitDirection(child, n)
			if err != nil {
				return nil, err
			}
			out = append(out, SnarlVisit{Snarl: child, Backward: backward})
			continue
		}
		out = append(out, NodeVisit{ID: n.ID, Backward: n.Backward})
	}
	return out, nil
}

// VisitsRight returns every visit reachable by stepping right off v,
// treating parent's direct children as the only snarls a neighbor side
// can resolve to. It returns ErrInvariantViolation if expansion finds a
// node attached to a child snarl that matches neither of the child's
// own two boundaries.
func VisitsRight(g handlegraph.Graph, mgr *Manager, parent SnarlKey, v Visit) ([]Visit, error) {
	return visitsFrom(g, mgr, parent, ToRightSide(v))
}

// VisitsLeft returns every visit reachable by stepping left off v, with
// the same parent scoping and error behavior as VisitsRight.
func VisitsLeft(g handlegraph.Graph, mgr *Manager, parent SnarlKey, v Visit) ([]Visit, error) {
	return visitsFrom(g, mgr, parent, ToLeftSide(v))
}
