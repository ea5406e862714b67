// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package netgraph

import "github.com/karyon-bio/snarltree/handlegraph"

// rewrite warps a raw backing-graph handle that names a chain's tail
// (approached forward or backed into in reverse) to the chain's head,
// so a chain always reads as a single node no matter which of its two
// physical ends an edge actually lands on.
func (ng *NetGraph) rewrite(h handlegraph.Handle) handlegraph.Handle {
	if head, ok := ng.chainEndRewrites[h]; ok {
		return head
	}
	if head, ok := ng.chainEndRewrites[ng.backing.Flip(h)]; ok {
		return ng.backing.Flip(head)
	}
	return h
}

// FollowEdges invokes visit once per handle adjacent to h in this net
// graph, with edges deduplicated by their rewritten form so a chain
// reachable via both its head and its tail is reported exactly once.
// Four cases, tried in order:
//
//  1. h reads outward through one of the snarl's own two boundaries: no
//     edges, the net graph is bounded.
//  2. h (or its flip) is a chain's start handle: successors/predecessors
//     are derived from the chain's connectivity triple, per
//     followChainEdges.
//  3. h (or its flip) is a unary child's boundary: handled per
//     followUnaryEdges.
//  4. Otherwise h is an ordinary content node: delegate to the backing
//     graph directly.
func (ng *NetGraph) FollowEdges(h handlegraph.Handle, goLeft bool, visit func(handlegraph.Handle) bool) bool {
	flipped := ng.backing.Flip(h)

	if (h == ng.end && !goLeft) || (flipped == ng.end && goLeft) ||
		(flipped == ng.start && !goLeft) || (h == ng.start && goLeft) {
		followEdgesCases.WithLabelValues("bounded").Inc()
		return true
	}

	seen := make(map[handlegraph.Handle]bool)
	handleEdge := func(other handlegraph.Handle) bool {
		real := ng.rewrite(other)
		if seen[real] {
			return true
		}
		seen[real] = true
		return visit(real)
	}
	flipAndHandleEdge := func(other handlegraph.Handle) bool {
		real := ng.backing.Flip(ng.rewrite(other))
		if seen[real] {
			return true
		}
		seen[real] = true
		return visit(real)
	}

	if _, forward := ng.chainEndsByStart[h]; forward {
		followEdgesCases.WithLabelValues("chain").Inc()
		return ng.followChainEdges(h, goLeft, true, handleEdge, flipAndHandleEdge)
	}
	if _, forward := ng.chainEndsByStart[flipped]; forward {
		followEdgesCases.WithLabelValues("chain").Inc()
		return ng.followChainEdges(flipped, goLeft, false, handleEdge, flipAndHandleEdge)
	}

	if ng.unaryBoundaries[h] {
		followEdgesCases.WithLabelValues("unary").Inc()
		return ng.followUnaryEdges(h, goLeft, true, handleEdge, flipAndHandleEdge)
	}
	if ng.unaryBoundaries[flipped] {
		followEdgesCases.WithLabelValues("unary").Inc()
		return ng.followUnaryEdges(h, goLeft, false, handleEdge, flipAndHandleEdge)
	}

	followEdgesCases.WithLabelValues("ordinary").Inc()
	return ng.backing.FollowEdges(h, goLeft, handleEdge)
}

// followChainEdges implements case 2 of FollowEdges. chainStart is the
// chain's own inward-facing start handle; forward reports whether h
// itself equals chainStart (the chain is being visited in its natural
// orientation) or h is chainStart's flip (visited in reverse).
func (ng *NetGraph) followChainEdges(chainStart handlegraph.Handle, goLeft, forward bool, handleEdge, flipAndHandleEdge func(handlegraph.Handle) bool) bool {
	t := ng.connectivity[chainStart.ID()]
	chainEnd := ng.chainEndsByStart[chainStart]

	if forward {
		if goLeft {
			if t.EndEnd && !ng.backing.FollowEdges(chainEnd, false, flipAndHandleEdge) {
				return false
			}
			if t.StartEnd && !ng.backing.FollowEdges(chainStart, true, handleEdge) {
				return false
			}
			return true
		}
		if t.StartStart && !ng.backing.FollowEdges(chainStart, true, flipAndHandleEdge) {
			return false
		}
		if t.StartEnd && !ng.backing.FollowEdges(chainEnd, false, handleEdge) {
			return false
		}
		return true
	}

	// Visiting the chain in reverse: mirror every case above and flip
	// every emitted orientation.
	if goLeft {
		if t.StartStart && !ng.backing.FollowEdges(chainStart, true, handleEdge) {
			return false
		}
		if t.StartEnd && !ng.backing.FollowEdges(chainEnd, false, flipAndHandleEdge) {
			return false
		}
		return true
	}
	if t.EndEnd && !ng.backing.FollowEdges(chainEnd, false, handleEdge) {
		return false
	}
	if t.StartEnd && !ng.backing.FollowEdges(chainStart, true, flipAndHandleEdge) {
		return false
	}
	return true
}

// followUnaryEdges implements case 3 of FollowEdges. inward reports
// whether h itself is the unary boundary's inward-facing handle
// (pointing into the unary child) or its flip (pointing out of it).
func (ng *NetGraph) followUnaryEdges(h handlegraph.Handle, goLeft, inward bool, handleEdge, flipAndHandleEdge func(handlegraph.Handle) bool) bool {
	t := ng.connectivity[h.ID()]
	canTurnAround := t.StartStart || t.EndEnd || t.StartEnd

	if inward {
		if goLeft {
			if !ng.useInternalConnectivity {
				return ng.backing.FollowEdges(h, true, handleEdge)
			}
			return true
		}
		if canTurnAround {
			return ng.backing.FollowEdges(h, true, flipAndHandleEdge)
		}
		return true
	}

	if goLeft {
		if canTurnAround {
			return ng.backing.FollowEdges(h, false, handleEdge)
		}
		return true
	}
	if !ng.useInternalConnectivity {
		return ng.backing.FollowEdges(h, false, flipAndHandleEdge)
	}
	return true
}
