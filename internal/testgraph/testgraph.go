// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package testgraph is an in-memory handlegraph.ContentGraph used only by
// this module's own tests. It stands in for the real bidirected sequence
// graph that spec.md declares an external collaborator.
package testgraph

import "github.com/karyon-bio/snarltree/handlegraph"

// Graph is a small bidirected sequence graph: a set of node IDs and a set
// of undirected edges, each carrying the orientation each endpoint was
// entered from.
//
// Lifecycle: build with AddNode/AddEdge, then use as a
// handlegraph.ContentGraph. There is no freeze step — the graph is meant
// to be constructed once per test and never mutated concurrently with
// reads.
type Graph struct {
	nodes map[handlegraph.NodeID]bool
	edges map[handlegraph.NodeID][]handlegraph.Edge
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[handlegraph.NodeID]bool),
		edges: make(map[handlegraph.NodeID][]handlegraph.Edge),
	}
}

// AddNode registers a node ID.
func (g *Graph) AddNode(id handlegraph.NodeID) {
	g.nodes[id] = true
}

// AddEdge records an undirected edge between From/To, leaving From's end
// (right) side iff fromStart, and arriving at To's start (left) side iff
// toEnd; see handlegraph.Edge. The edge is indexed under both endpoints so EdgesOfNode(from) and
// EdgesOfNode(to) both see it.
func (g *Graph) AddEdge(from, to handlegraph.NodeID, fromStart, toEnd bool) {
	e := handlegraph.Edge{From: from, To: to, FromStart: fromStart, ToEnd: toEnd}
	g.edges[from] = append(g.edges[from], e)
	if to != from {
		g.edges[to] = append(g.edges[to], e)
	}
}

// GetHandle returns the handle for id in the requested orientation.
func (g *Graph) GetHandle(id handlegraph.NodeID, isReverse bool) handlegraph.Handle {
	return handlegraph.NewHandle(id, isReverse)
}

// GetID returns the node identity a handle names.
func (g *Graph) GetID(h handlegraph.Handle) handlegraph.NodeID { return h.ID() }

// GetIsReverse reports the orientation a handle observes its node in.
func (g *Graph) GetIsReverse(h handlegraph.Handle) bool { return h.IsReverse() }

// Flip returns the same node observed in the opposite orientation.
func (g *Graph) Flip(h handlegraph.Handle) handlegraph.Handle {
	return handlegraph.NewHandle(h.ID(), !h.IsReverse())
}

// FollowEdges walks edges attached to h's left or right side, translating
// stored (From/To, FromStart/ToEnd) records into oriented neighbor handles.
//
// An edge{From,To,FromStart,ToEnd} is incident on side (From, FromStart)
// and on side (To, !ToEnd); this is the same pairing the boundary "into
// the snarl" checks use, just applied to an arbitrary node instead of a
// snarl boundary. The side of h that a given goLeft exits is (id,
// goLeft==h.IsReverse()) — a forward handle exits its true/right side
// going right, a reverse handle exits it going left.
func (g *Graph) FollowEdges(h handlegraph.Handle, goLeft bool, visit func(handlegraph.Handle) bool) bool {
	id := h.ID()
	exitFlag := goLeft == h.IsReverse()

	for _, e := range g.edges[id] {
		if e.From == id && e.FromStart == exitFlag {
			other := handlegraph.NewHandle(e.To, !e.ToEnd)
			if !visit(other) {
				return false
			}
		} else if e.To == id && e.ToEnd == !exitFlag {
			other := handlegraph.NewHandle(e.From, e.FromStart)
			if !visit(other) {
				return false
			}
		}
	}
	return true
}

// GetNode reports whether id exists in the graph.
func (g *Graph) GetNode(id handlegraph.NodeID) (handlegraph.NodeID, bool) {
	ok := g.nodes[id]
	return id, ok
}

// EdgesOfNode returns every edge with id as either endpoint.
func (g *Graph) EdgesOfNode(id handlegraph.NodeID) []handlegraph.Edge {
	return g.edges[id]
}
