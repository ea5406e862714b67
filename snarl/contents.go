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
	"context"

	"github.com/karyon-bio/snarltree/handlegraph"
)

// Contents is the node and edge set discovered by a content enumeration.
// The snarl's two boundary nodes are included only when the enumeration
// was asked to include them.
type Contents struct {
	Nodes []NodeID
	Edges []handlegraph.Edge
}

// edgeEntersSide reports whether e is one of the two edges incident on
// side: an edge{From,To,FromStart,ToEnd} is incident on (From,
// FromStart) directly and on (To, !ToEnd) — the same pairing the store
// uses for its boundary-entry keys, applied here to an arbitrary node
// rather than a snarl boundary.
func edgeEntersSide(e handlegraph.Edge, side NodeSide) bool {
	return (e.From == side.ID && e.FromStart == side.Backward) ||
		(e.To == side.ID && e.ToEnd == !side.Backward)
}

// otherSideOf returns the NodeSide at the far end of e from side, in
// arrival form — the same (id, backward) shape Start and End fields use
// to describe how a boundary is entered. e must be incident on side
// (edgeEntersSide(e, side) must hold).
func otherSideOf(e handlegraph.Edge, side NodeSide) NodeSide {
	if e.From == side.ID && e.FromStart == side.Backward {
		return NodeSide{ID: e.To, Backward: !e.ToEnd}
	}
	return NodeSide{ID: e.From, Backward: e.FromStart}
}

// interiorSide converts an arrival-form NodeSide into the form
// edgeEntersSide expects as the side a walk is currently standing on:
// arrival form names the side just crossed to get here, which is the
// physical opposite of the side now facing further in.
func interiorSide(arrival NodeSide) NodeSide {
	return NodeSide{ID: arrival.ID, Backward: !arrival.Backward}
}

// oppositeBoundary returns, in arrival form, the boundary sn is exited
// through after being crossed from the side named by entered: exiting
// forward (entered at Start) leaves through End in the same polarity a
// following element's own Start would use to describe being entered
// forward; exiting backward (entered at End) leaves through Start in the
// mirrored polarity. For a unary snarl (Start.ID == End.ID) this always
// resolves back to the same physical node, which is correct — a unary
// snarl has no far side distinct from its near one.
func oppositeBoundary(sn *Snarl, entered NodeSide) NodeSide {
	if entered.ID == sn.Start.ID {
		return NodeSide{ID: sn.End.ID, Backward: sn.End.Backward}
	}
	return NodeSide{ID: sn.Start.ID, Backward: !sn.Start.Backward}
}

// contentsWalker holds the state shared across one content enumeration,
// including every nested walker spawned to fold a descendant's deep
// contents in: visited and folded are shared by pointer across all of
// them so a node or child is never double-counted no matter how many
// directions it is approached from.
//
// parent scopes every child-boundary lookup to one specific snarl's
// direct children — the walker for sn's own contents only ever needs to
// recognize sn's children, never an unrelated ancestor that happens to
// share a physical boundary node with sn itself, which is common (see
// Store's boundary-entry index doc).
type contentsWalker struct {
	backing   handlegraph.ContentGraph
	mgr       *Manager
	parent    SnarlKey
	deep      bool
	visited   map[NodeID]bool
	folded    map[SnarlKey]bool
	edgesSeen map[handlegraph.Edge]bool
	nodes     []NodeID
	edges     []handlegraph.Edge
}

// addEdge records e once, no matter how many of its endpoints the walk
// reaches independently — an edge whose far endpoint is a child's own
// boundary is discoverable both by stepping onto that boundary directly
// and by landing on it from the child's opposite side, and each
// discovery must not produce a second copy of the same edge.
func (w *contentsWalker) addEdge(e handlegraph.Edge) {
	if w.edgesSeen[e] {
		return
	}
	w.edgesSeen[e] = true
	w.edges = append(w.edges, e)
}

func (w *contentsWalker) visit(id NodeID) bool {
	if w.visited[id] {
		return false
	}
	w.visited[id] = true
	w.nodes = append(w.nodes, id)
	return true
}

// enter processes an arrival at side, a place the walk has just crossed
// into, described in arrival form. If side is the boundary of one of
// parent's direct children, that child is opaque: enter folds the
// child's own deep contents in first (deep enumeration only, and only
// once per child no matter how many directions it is entered from), then
// jumps straight to the child's far boundary rather than stepping
// through its interior node by node. Otherwise it resumes the plain edge
// walk from the interior-facing side.
func (w *contentsWalker) enter(side NodeSide) {
	if child, ok := w.mgr.IntoWhichChildSnarl(w.parent, side); ok {
		if w.deep && !w.folded[child.Key()] {
			w.folded[child.Key()] = true
			foldDeepContents(w, child)
		}
		far := oppositeBoundary(child, side)
		if w.visit(far.ID) {
			w.enter(far)
		}
		return
	}
	w.walk(interiorSide(side))
}

// walk expands the frontier standing on side (interior-facing form),
// admitting only edges that actually leave through side, and handing
// every node reached back to enter so it can be re-checked against
// parent's children before the walk continues past it.
func (w *contentsWalker) walk(side NodeSide) {
	for _, e := range w.backing.EdgesOfNode(side.ID) {
		if !edgeEntersSide(e, side) {
			continue
		}
		other := otherSideOf(e, side)
		w.addEdge(e)
		if w.visit(other.ID) {
			w.enter(other)
		}
	}
}

// foldDeepContents folds child's own deep contents into w in place. It
// shares w's visited and folded sets so nothing the outer walk (or a
// sibling fold) already claimed is re-added, and rescopes to child's own
// key so the inner walk recognizes child's children rather than w's
// siblings. A unary child (Start.ID == End.ID) is a single degenerate
// node with no interior edges of its own to fold in — walking it with
// the ordinary edge machinery would leak into whatever the graph attaches
// to that node from outside the snarl entirely.
func foldDeepContents(w *contentsWalker, child *Snarl) {
	if child.Start.ID == child.End.ID {
		return
	}
	inner := &contentsWalker{
		backing:   w.backing,
		mgr:       w.mgr,
		parent:    child.Key(),
		deep:      true,
		visited:   w.visited,
		folded:    w.folded,
		edgesSeen: w.edgesSeen,
	}
	inner.enter(NodeSide{ID: child.Start.ID, Backward: child.Start.Backward})
	inner.enter(NodeSide{ID: child.End.ID, Backward: !child.End.Backward})
	w.nodes = append(w.nodes, inner.nodes...)
	w.edges = append(w.edges, inner.edges...)
}

func contentsOf(ctx context.Context, backing handlegraph.ContentGraph, mgr *Manager, sn *Snarl, deep, includeBoundary bool) Contents {
	spanName := "ShallowContents"
	if deep {
		spanName = "DeepContents"
	}
	_, span := tracer.Start(ctx, spanName)
	defer span.End()

	w := &contentsWalker{
		backing:   backing,
		mgr:       mgr,
		parent:    sn.Key(),
		deep:      deep,
		visited:   make(map[NodeID]bool),
		folded:    make(map[SnarlKey]bool),
		edgesSeen: make(map[handlegraph.Edge]bool),
	}
	// sn's own boundary nodes always stop the walk from crossing back out
	// through them, but only join the returned node set when the caller
	// asked for it — a descendant's boundary, reached later via enter, is
	// ordinary interior content and always included regardless of this
	// flag.
	markBoundary := func(id NodeID) {
		if w.visited[id] {
			return
		}
		w.visited[id] = true
		if includeBoundary {
			w.nodes = append(w.nodes, id)
		}
	}
	markBoundary(sn.Start.ID)
	markBoundary(sn.End.ID)
	w.enter(NodeSide{ID: sn.Start.ID, Backward: sn.Start.Backward})
	w.enter(NodeSide{ID: sn.End.ID, Backward: !sn.End.Backward})

	return Contents{Nodes: w.nodes, Edges: w.edges}
}

// ShallowContents returns the nodes and edges directly inside sn,
// treating every child snarl as an opaque boundary pair rather than
// descending into its interior. includeBoundary selects whether sn's own
// Start/End nodes join the returned node set; the edges bordering them
// are returned either way.
func ShallowContents(ctx context.Context, backing handlegraph.ContentGraph, mgr *Manager, sn *Snarl, includeBoundary bool) Contents {
	return contentsOf(ctx, backing, mgr, sn, false, includeBoundary)
}

// DeepContents returns every node and edge inside sn, including the
// interiors of every descendant snarl, subject to the same includeBoundary
// rule as ShallowContents for sn's own Start/End nodes.
func DeepContents(ctx context.Context, backing handlegraph.ContentGraph, mgr *Manager, sn *Snarl, includeBoundary bool) Contents {
	return contentsOf(ctx, backing, mgr, sn, true, includeBoundary)
}
