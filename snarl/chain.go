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
)

// Chain is a maximal run of sibling snarls linked end to start by a
// shared boundary node. Members are stored exactly as the store holds
// them — chaining never re-keys or flips a member to normalize its
// orientation — so a chain's physical walking direction across any
// given element is not guaranteed to run Start to End. StartBackward,
// EndBackward, and ChainIterator.Backward recover that orientation by
// comparing adjacent members' boundary nodes, the same way spec.md
// §4.4 defines it.
type Chain []*Snarl

// exitSideOf returns the arrival-form NodeSide a traversal produces
// when it exits sn through its start (backward true) or its end
// (backward false) — the same physical boundary node, in the
// orientation a chain-adjacent neighbor is registered under in the
// store's boundary-entry index. This is the mirror image of the two
// keys indexGroup registers for sn itself: entering sn via Start uses
// the unnegated Start side, so exiting through Start uses the negated
// one, and vice versa for End.
func exitSideOf(sn *Snarl, backward bool) NodeSide {
	if backward {
		return NodeSide{ID: sn.Start.ID, Backward: !sn.Start.Backward}
	}
	return NodeSide{ID: sn.End.ID, Backward: sn.End.Backward}
}

// neighborAt resolves side against the boundary-entry index scoped to
// sn's own parent — sn's siblings, or the top-level snarls when sn has
// no parent.
func neighborAt(st *Store, sn *Snarl, side NodeSide) (*Snarl, bool) {
	if sn.Parent != nil {
		return st.IntoWhichChildSnarl(*sn.Parent, side)
	}
	return st.IntoWhichTopLevelSnarl(side)
}

// SnarlSharingStart returns the sibling entered by exiting sn through
// its start boundary, if any: snarl_into[(start.id, ¬start.backward)]
// per spec.md:100. A unary snarl's own two boundary-entry keys
// coincide on the same physical node, which would otherwise resolve
// back to sn itself; that case is excluded here rather than reported
// as a sharing sibling.
func SnarlSharingStart(st *Store, sn *Snarl) (*Snarl, bool) {
	cand, ok := neighborAt(st, sn, exitSideOf(sn, true))
	if !ok || cand == sn {
		return nil, false
	}
	return cand, true
}

// SnarlSharingEnd returns the sibling entered by exiting sn through
// its end boundary, if any: snarl_into[(end.id, end.backward)] per
// spec.md:101.
func SnarlSharingEnd(st *Store, sn *Snarl) (*Snarl, bool) {
	cand, ok := neighborAt(st, sn, exitSideOf(sn, false))
	if !ok || cand == sn {
		return nil, false
	}
	return cand, true
}

// InNontrivialChain reports whether sn has a neighbor on either
// boundary — i.e. whether sn belongs to a chain of length greater than
// one rather than standing alone between its parent's other children.
func InNontrivialChain(st *Store, sn *Snarl) bool {
	if _, ok := SnarlSharingStart(st, sn); ok {
		return true
	}
	_, ok := SnarlSharingEnd(st, sn)
	return ok
}

// NextInChain returns the sibling that continues the chain forward
// from sn, given that sn is currently being traversed backward or not.
// The returned backward flag describes the orientation the next snarl
// must be traversed in to continue the same physical direction. ok is
// false when sn is the last snarl in its chain.
//
// The neighbor is resolved through the store's boundary-entry index
// (SnarlSharingStart/SnarlSharingEnd), not by scanning siblings for a
// matching raw node ID: two siblings can touch the same physical node
// from opposite orientations, and only the index — keyed on (id,
// orientation) — picks out the one actually registered at the side sn
// exits through.
func NextInChain(st *Store, sn *Snarl, backward bool) (next *Snarl, nextBackward bool, ok bool) {
	var cand *Snarl
	if backward {
		cand, ok = SnarlSharingStart(st, sn)
	} else {
		cand, ok = SnarlSharingEnd(st, sn)
	}
	if !ok {
		return nil, false, false
	}
	entry := exitSideOf(sn, backward)
	nextBackward = entry != NodeSide{ID: cand.Start.ID, Backward: cand.Start.Backward}
	return cand, nextBackward, true
}

// PrevInChain is the mirror of NextInChain: prev_in_chain(v) =
// reverse(next_in_chain(reverse(v))), per spec.md:107.
func PrevInChain(st *Store, sn *Snarl, backward bool) (prev *Snarl, prevBackward bool, ok bool) {
	cand, nb, ok := NextInChain(st, sn, !backward)
	if !ok {
		return nil, false, false
	}
	return cand, !nb, true
}

// ChainsOf returns every chain among the direct children of the snarl
// named by parent, including trivial one-element chains for children
// that share no boundary with any sibling. Every returned Chain is
// walked once: seed on an unseen sibling, extend right via NextInChain,
// extend left via PrevInChain, mark every visited member seen so no
// sibling is placed into two chains.
func ChainsOf(ctx context.Context, st *Store, parent SnarlKey) ([]Chain, error) {
	ctx, span := tracer.Start(ctx, "ChainsOf")
	defer span.End()
	return chainsAmong(ctx, st, st.ChildrenOf(parent))
}

// ChainsOfTopLevel is ChainsOf's counterpart for the root snarls
// themselves, which have no parent key to look children up by: siblings
// here means the top-level slice rather than one snarl's children.
func ChainsOfTopLevel(ctx context.Context, st *Store) ([]Chain, error) {
	ctx, span := tracer.Start(ctx, "ChainsOfTopLevel")
	defer span.End()
	return chainsAmong(ctx, st, st.TopLevel())
}

// chainsAmong builds every chain among siblings by walking
// NextInChain/PrevInChain from each unseen seed. It never mutates a
// member's boundaries: a chain's members are recorded exactly as the
// store holds them, walked-backward or not, since Store.Flip is the
// package's sole mutator and is not safe to call from a read query
// (see Store's Thread Safety doc) — chain orientation is instead
// recovered on demand by StartBackward/EndBackward/ChainIterator.
func chainsAmong(ctx context.Context, st *Store, siblings []*Snarl) ([]Chain, error) {
	seen := make(map[SnarlKey]bool, len(siblings))
	var chains []Chain

	for _, seed := range siblings {
		if seen[seed.Key()] {
			continue
		}

		members := []*Snarl{seed}
		seen[seed.Key()] = true

		cur, curBackward := seed, false
		for {
			next, nextBackward, ok := NextInChain(st, cur, curBackward)
			if !ok || seen[next.Key()] {
				break
			}
			members = append(members, next)
			seen[next.Key()] = true
			cur, curBackward = next, nextBackward
		}

		cur, curBackward = seed, false
		for {
			prev, prevBackward, ok := PrevInChain(st, cur, curBackward)
			if !ok || seen[prev.Key()] {
				break
			}
			members = append([]*Snarl{prev}, members...)
			seen[prev.Key()] = true
			cur, curBackward = prev, prevBackward
		}

		chains = append(chains, Chain(members))
	}

	for _, c := range chains {
		recordChainLength(ctx, len(c))
		chainWalkSteps.Observe(float64(len(c)))
	}
	return chains, nil
}

// connectingNode returns the boundary node shared between chain-adjacent
// a and b, preferring a match on a's End (the ordinary forward-adjacency
// case) before falling back to a's Start (a is entered from its end).
// ok is false if a and b share no boundary node at all.
func connectingNode(a, b *Snarl) (node NodeID, ok bool) {
	switch {
	case a.End.ID == b.Start.ID || a.End.ID == b.End.ID:
		return a.End.ID, true
	case a.Start.ID == b.Start.ID || a.Start.ID == b.End.ID:
		return a.Start.ID, true
	}
	return 0, false
}

// StartBackward reports whether the chain's first member is entered
// from its end rather than its start: true when its start node is the
// one shared with the second member, per spec.md:114.
func StartBackward(c Chain) bool {
	if len(c) < 2 {
		return false
	}
	node, ok := connectingNode(c[0], c[1])
	return ok && node == c[0].Start.ID
}

// EndBackward is StartBackward's symmetric counterpart for the chain's
// last member, per spec.md:115.
func EndBackward(c Chain) bool {
	if len(c) < 2 {
		return false
	}
	n := len(c)
	node, ok := connectingNode(c[n-2], c[n-1])
	return ok && node == c[n-1].End.ID
}

// GetStart returns the chain's entry boundary: the first snarl's start,
// or its end (negated) when StartBackward holds.
func GetStart(c Chain) NodeSide {
	if len(c) == 0 {
		return NodeSide{}
	}
	if StartBackward(c) {
		e := c[0].End
		return NodeSide{ID: e.ID, Backward: !e.Backward}
	}
	return c[0].Start
}

// GetEnd returns the chain's exit boundary: the last snarl's end, or
// its start (negated) when EndBackward holds.
func GetEnd(c Chain) NodeSide {
	if len(c) == 0 {
		return NodeSide{}
	}
	n := len(c)
	if EndBackward(c) {
		s := c[n-1].Start
		return NodeSide{ID: s.ID, Backward: !s.Backward}
	}
	return c[n-1].End
}

// ChainIterator walks a Chain by position, forward or backward, without
// the caller needing to track index bookkeeping itself, and exposes
// each element's walking orientation alongside its snarl.
type ChainIterator struct {
	chain Chain
	idx   int
}

// NewChainIterator returns an iterator positioned at the chain's first
// element.
func NewChainIterator(c Chain) *ChainIterator {
	return &ChainIterator{chain: c, idx: 0}
}

// Valid reports whether the iterator is positioned on an element.
func (it *ChainIterator) Valid() bool {
	return it.idx >= 0 && it.idx < len(it.chain)
}

// Snarl returns the element at the iterator's current position, or nil
// if the iterator has run off either end.
func (it *ChainIterator) Snarl() *Snarl {
	if !it.Valid() {
		return nil
	}
	return it.chain[it.idx]
}

// Backward reports the orientation the current element must be
// traversed in to continue the chain in the direction it was reached
// from, per spec.md:111: it compares the current element's trailing
// boundary node to its neighbor's leading boundary node — equal means
// forward, unequal means backward. The neighbor used is the next
// element when one exists, otherwise the previous one.
func (it *ChainIterator) Backward() bool {
	if !it.Valid() || len(it.chain) < 2 {
		return false
	}
	cur := it.chain[it.idx]
	if it.idx+1 < len(it.chain) {
		node, ok := connectingNode(cur, it.chain[it.idx+1])
		return ok && node == cur.Start.ID
	}
	node, ok := connectingNode(it.chain[it.idx-1], cur)
	return ok && node == cur.End.ID
}

// Next advances the iterator one position forward. It reports whether
// the new position is valid.
func (it *ChainIterator) Next() bool {
	if it.idx >= len(it.chain) {
		return false
	}
	it.idx++
	return it.Valid()
}

// Prev moves the iterator one position backward. It reports whether the
// new position is valid.
func (it *ChainIterator) Prev() bool {
	if it.idx < 0 {
		return false
	}
	it.idx--
	return it.Valid()
}

// Reset repositions the iterator at the chain's first element.
func (it *ChainIterator) Reset() {
	it.idx = 0
}
