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

// ForEachHandle invokes visit once per node visible in this net graph,
// each in forward orientation, by breadth-first search over the backing
// graph starting from both of the snarl's own boundaries.
//
// The walk runs on the backing graph rather than through FollowEdges
// deliberately: FollowEdges applies internal-connectivity gating, which
// can make part of the interior structurally present but unreachable
// under that gating — for_each_handle still needs to name every node
// that exists, not just the ones a gated walk could reach. A backward
// unary boundary, chain head, or chain tail encountered during the walk
// is flipped to its canonical forward form before being examined or
// emitted; chain tails are never emitted themselves, only used as
// pivots to keep the walk going on the chain's far side.
//
// A chain head or chain tail pivot only fires when its target sits
// strictly inside the snarl: when a child chain spans the snarl
// end-to-end, its tail coincides with the snarl's own outward boundary,
// and pivoting off it would walk straight out of the snarl into
// whatever lies beyond — which FollowEdges is allowed to report (a
// caller legitimately reading through the whole snarl and out its far
// side) but this enumeration, bounded to the snarl's own contents, must
// not.
func (ng *NetGraph) ForEachHandle(visit func(handlegraph.Handle) bool) bool {
	queue := []handlegraph.Handle{ng.start, ng.end}
	queued := map[handlegraph.NodeID]bool{ng.start.ID(): true, ng.end.ID(): true}

	enqueue := func(h handlegraph.Handle) {
		if !queued[h.ID()] {
			queued[h.ID()] = true
			queue = append(queue, h)
		}
	}

	for len(queue) > 0 {
		here := queue[0]
		queue = queue[1:]

		flipped := ng.backing.Flip(here)
		_, flippedIsChainStart := ng.chainEndsByStart[flipped]
		_, flippedIsChainTail := ng.chainEndRewrites[flipped]
		if ng.unaryBoundaries[flipped] || flippedIsChainStart || flippedIsChainTail {
			here = flipped
		}
		_, isChainTail := ng.chainEndRewrites[here]

		if !isChainTail {
			if ng.backing.GetIsReverse(here) {
				if !visit(ng.backing.Flip(here)) {
					return false
				}
			} else if !visit(here) {
				return false
			}
		}

		_, isUnary := ng.unaryBoundaries[here]
		chainEnd, isChainHead := ng.chainEndsByStart[here]

		if here != ng.end && here != ng.backing.Flip(ng.start) && !isUnary && !isChainHead && !isChainTail {
			ng.backing.FollowEdges(here, false, func(o handlegraph.Handle) bool { enqueue(o); return true })
		}
		if here != ng.start && here != ng.backing.Flip(ng.end) {
			ng.backing.FollowEdges(here, true, func(o handlegraph.Handle) bool { enqueue(o); return true })
		}
		if isChainTail {
			tailStart := ng.chainEndRewrites[here]
			if tailStart != ng.end && tailStart != ng.backing.Flip(ng.start) {
				ng.backing.FollowEdges(tailStart, false, func(o handlegraph.Handle) bool { enqueue(o); return true })
			}
		}
		if isChainHead {
			if chainEnd != ng.end && chainEnd != ng.backing.Flip(ng.start) {
				ng.backing.FollowEdges(chainEnd, false, func(o handlegraph.Handle) bool { enqueue(o); return true })
			}
		}
	}
	return true
}
