// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package netgraph implements the net-graph view: a handle-graph façade
// over one snarl's interior. Every child chain (a run of one or more
// sibling snarls, including a trivial one-element chain) collapses to a
// single virtual node named by the chain's own head boundary; a unary
// child (whose start and end already coincide) needs no collapsing and
// appears as its own single node. Reading out through either of the
// snarl's own two boundaries yields no edges at all — the net graph is
// bounded by construction.
package netgraph

import (
	"context"
	"fmt"

	"github.com/karyon-bio/snarltree/handlegraph"
	"github.com/karyon-bio/snarltree/snarl"
)

// connectivityTriple records, for one child (unary or chain), whether a
// traversal can turn around and leave back out its own entry side
// (StartStart / EndEnd) and whether it can be crossed start to end
// (StartEnd). With UseInternalConnectivity false every child behaves like
// an ordinary through-node: both turn-arounds are false and StartEnd is
// true.
type connectivityTriple struct {
	StartStart bool
	EndEnd     bool
	StartEnd   bool
}

// NetGraph is a handlegraph.Graph view over a single snarl's immediate
// children.
//
// # Thread Safety
//
// NetGraph is read-only after NewNetGraph returns and is safe for
// concurrent use, provided the Manager and backing graph it was built
// from are not concurrently mutated (see snarl.Store's Thread Safety
// doc regarding Flip).
type NetGraph struct {
	mgr     *snarl.Manager
	backing handlegraph.Graph

	start, end              handlegraph.Handle
	useInternalConnectivity bool

	// unaryBoundaries holds the inward-facing start handle of every unary
	// child.
	unaryBoundaries map[handlegraph.Handle]bool
	// chainEndsByStart maps the inward-facing start handle of a chain to
	// its inward-facing end handle.
	chainEndsByStart map[handlegraph.Handle]handlegraph.Handle
	// chainEndRewrites maps a chain's flipped end handle to its flipped
	// start handle, so an edge arriving at a chain's tail is warped back
	// to the chain's head and the chain reads as a single node.
	chainEndRewrites map[handlegraph.Handle]handlegraph.Handle
	// connectivity is keyed by node ID: a chain's key is its start
	// handle's ID, a unary child's key is its one node's ID.
	connectivity map[handlegraph.NodeID]connectivityTriple
}

// NewNetGraph builds a net-graph view over root using mgr's decomposition
// and backing for adjacency. useInternalConnectivity selects whether a
// child's own reachability flags (spec.md §3) govern which turn-arounds
// this net graph exposes, or whether every child is treated as an
// ordinary connected-through node regardless of its own internal
// structure.
func NewNetGraph(ctx context.Context, mgr *snarl.Manager, root *snarl.Snarl, backing handlegraph.Graph, useInternalConnectivity bool) (*NetGraph, error) {
	ctx, span := tracer.Start(ctx, "NewNetGraph")
	defer span.End()

	ng := &NetGraph{
		mgr:                     mgr,
		backing:                 backing,
		start:                   backing.GetHandle(root.Start.ID, root.Start.Backward),
		end:                     backing.GetHandle(root.End.ID, root.End.Backward),
		useInternalConnectivity: useInternalConnectivity,
		unaryBoundaries:         make(map[handlegraph.Handle]bool),
		chainEndsByStart:        make(map[handlegraph.Handle]handlegraph.Handle),
		chainEndRewrites:        make(map[handlegraph.Handle]handlegraph.Handle),
		connectivity:            make(map[handlegraph.NodeID]connectivityTriple),
	}

	chains, err := mgr.ChainsOf(ctx, root.Key())
	if err != nil {
		return nil, fmt.Errorf("netgraph: %w", err)
	}
	for _, chain := range chains {
		if len(chain) == 1 && chain[0].Start.ID == chain[0].End.ID {
			ng.addUnaryChild(chain[0])
		} else {
			ng.addChainChild(chain)
		}
	}
	return ng, nil
}

// addUnaryChild records unary's single node as a unary boundary and,
// when internal connectivity is in play, its own reachability flags —
// otherwise it is given the connectivity of an ordinary through-node
// (both turn-arounds false, StartEnd true).
func (ng *NetGraph) addUnaryChild(unary *snarl.Snarl) {
	bound := ng.backing.GetHandle(unary.Start.ID, unary.Start.Backward)
	ng.unaryBoundaries[bound] = true

	if ng.useInternalConnectivity {
		ng.connectivity[unary.Start.ID] = connectivityTriple{
			StartStart: unary.StartSelfReachable,
			EndEnd:     unary.EndSelfReachable,
			StartEnd:   unary.StartEndReachable,
		}
	} else {
		ng.connectivity[unary.Start.ID] = connectivityTriple{StartEnd: true}
	}
}

// addChainChild records chain's bounding handles and, when internal
// connectivity is in play, the connectivity triple derived by walking
// its members. ChainsOf never re-keys a member to a canonical
// orientation, so chainConnectivity walks the chain through a
// ChainIterator and reorients each member's own reachability flags by
// its Backward() flag rather than assuming Start/End already align
// with the chain's own head-to-tail direction.
func (ng *NetGraph) addChainChild(chain snarl.Chain) {
	startHandle := ng.backing.GetHandle(snarl.GetStart(chain).ID, snarl.GetStart(chain).Backward)
	endHandle := ng.backing.GetHandle(snarl.GetEnd(chain).ID, snarl.GetEnd(chain).Backward)

	ng.chainEndsByStart[startHandle] = endHandle
	ng.chainEndRewrites[ng.backing.Flip(endHandle)] = ng.backing.Flip(startHandle)

	if ng.useInternalConnectivity {
		ng.connectivity[startHandle.ID()] = chainConnectivity(chain)
	} else {
		ng.connectivity[startHandle.ID()] = connectivityTriple{StartEnd: true}
	}
}

// orientedReachability reorients member's own StartSelfReachable and
// EndSelfReachable flags to the chain's own walking direction: a member
// walked backward (its Backward() flag from ChainIterator) has its
// physical Start and End swapped relative to which one faces the
// chain's head versus its tail.
func orientedReachability(member *snarl.Snarl, backward bool) (startSelf, endSelf bool) {
	if backward {
		return member.EndSelfReachable, member.StartSelfReachable
	}
	return member.StartSelfReachable, member.EndSelfReachable
}

// chainConnectivity walks chain left to right to find whether a
// traversal can turn around at the left end (StartStart), at the right
// end (EndEnd), or pass all the way through (StartEnd) — stopping the
// left-to-right scan at the first member that blocks passage, and
// stopping the right-to-left scan as soon as a turn-around is found.
// Each member's reachability flags are read through
// orientedReachability, oriented by that member's ChainIterator
// Backward() flag rather than its raw Start/End labels.
func chainConnectivity(chain snarl.Chain) connectivityTriple {
	backwards := make([]bool, len(chain))
	it := snarl.NewChainIterator(chain)
	for i := 0; it.Valid(); i++ {
		backwards[i] = it.Backward()
		it.Next()
	}

	var t connectivityTriple
	t.StartEnd = true
	for i, member := range chain {
		startSelf, _ := orientedReachability(member, backwards[i])
		if startSelf {
			t.StartStart = true
		}
		if !member.StartEndReachable {
			t.StartEnd = false
			break
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		_, endSelf := orientedReachability(chain[i], backwards[i])
		if endSelf {
			t.EndEnd = true
			break
		}
		if !chain[i].StartEndReachable {
			break
		}
	}
	return t
}

// GetHandle returns the handle for id observed with the given
// orientation. It does no validation that id is actually visible in
// this net graph — callers are expected to only pass IDs previously
// obtained from this NetGraph's own methods.
func (ng *NetGraph) GetHandle(id handlegraph.NodeID, isReverse bool) handlegraph.Handle {
	return ng.backing.GetHandle(id, isReverse)
}

// GetID returns the node identity a handle names.
func (ng *NetGraph) GetID(h handlegraph.Handle) handlegraph.NodeID {
	return ng.backing.GetID(h)
}

// GetIsReverse reports the orientation a handle observes its node in.
func (ng *NetGraph) GetIsReverse(h handlegraph.Handle) bool {
	return ng.backing.GetIsReverse(h)
}

// Flip returns the same node observed in the opposite orientation.
func (ng *NetGraph) Flip(h handlegraph.Handle) handlegraph.Handle {
	return ng.backing.Flip(h)
}

// GetLength always fails: the net graph never exposes sequence content,
// only topology, so there is no length to report.
func (ng *NetGraph) GetLength(h handlegraph.Handle) (int, error) {
	return 0, ErrUnsupportedOperation
}

// GetSequence always fails, for the same reason as GetLength.
func (ng *NetGraph) GetSequence(h handlegraph.Handle) (string, error) {
	return "", ErrUnsupportedOperation
}

// NodeSize returns the number of handles this net graph exposes, the
// same count ForEachHandle produces.
func (ng *NetGraph) NodeSize() int {
	n := 0
	ng.ForEachHandle(func(handlegraph.Handle) bool {
		n++
		return true
	})
	return n
}
