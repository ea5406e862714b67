// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package snarl implements a variation-graph decomposition: an immutable
// tree of nested snarls (bubbles) and chains over a backing bidirected
// handle graph, plus the queries a caller runs against it once built.
//
// The package never computes a decomposition from scratch — it loads one
// that was already found elsewhere (see RecordSource) and answers
// structural queries against it: which snarl contains a node, what a
// snarl's children and chains are, what a snarl's contents look like as a
// subgraph. See package netgraph for the handle-graph view over a single
// snarl (kept out of this package to avoid an import cycle: netgraph
// depends on snarl, not the other way around).
package snarl

import "github.com/karyon-bio/snarltree/handlegraph"

// NodeID identifies a node in the backing graph. It is the same identity
// space as handlegraph.NodeID; the alias exists so callers of this
// package never need to import handlegraph directly for the common case.
type NodeID = handlegraph.NodeID

// NodeSide names one side of a node: the side reached going forward
// through it when Backward is false, the side reached going forward
// through the reverse-complement node when Backward is true.
//
// NodeSide is the currency the boundary-index and chain-adjacency code
// trades in: a snarl's entry into its children is keyed by the NodeSide a
// traversal is standing on, not by a bare node ID.
type NodeSide struct {
	ID       NodeID
	Backward bool
}
