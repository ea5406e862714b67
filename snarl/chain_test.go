// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package snarl_test

import (
	"context"
	"testing"

	"github.com/karyon-bio/snarltree/snarl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnarlSharingStartAndEnd(t *testing.T) {
	p := &snarl.Snarl{Start: snarl.NodeSide{ID: 0}, End: snarl.NodeSide{ID: 4}, Type: snarl.Ultrabubble}
	pKey := p.Key()
	a := &snarl.Snarl{Start: snarl.NodeSide{ID: 1}, End: snarl.NodeSide{ID: 2}, Type: snarl.Ultrabubble, Parent: &pKey}
	b := &snarl.Snarl{Start: snarl.NodeSide{ID: 2}, End: snarl.NodeSide{ID: 3}, Type: snarl.Ultrabubble, Parent: &pKey}
	c := &snarl.Snarl{Start: snarl.NodeSide{ID: 3}, End: snarl.NodeSide{ID: 4}, Type: snarl.Ultrabubble, Parent: &pKey}

	mgr, err := snarl.Manage(context.Background(), snarl.NewSliceSource([]*snarl.Snarl{p, a, b, c}))
	require.NoError(t, err)
	st := mgr.Store()

	next, ok := snarl.SnarlSharingEnd(st, a)
	require.True(t, ok)
	assert.True(t, next.Equal(b), "a's end (node 2) is b's start")

	prev, ok := snarl.SnarlSharingStart(st, b)
	require.True(t, ok)
	assert.True(t, prev.Equal(a), "b's start (node 2) is a's end")

	_, ok = snarl.SnarlSharingStart(st, a)
	assert.False(t, ok, "node 1 is p's own boundary, shared with no sibling")

	next2, ok := snarl.SnarlSharingEnd(st, b)
	require.True(t, ok)
	assert.True(t, next2.Equal(c))
}

func TestChainsOfFindsTheTwoElementChain(t *testing.T) {
	mgr, _, s1, c1, c2, _ := buildFixture(t)

	chains, err := mgr.ChainsOf(context.Background(), s1.Key())
	require.NoError(t, err)
	require.Len(t, chains, 1)

	chain := chains[0]
	require.Len(t, chain, 2)
	assert.True(t, chain[0].Equal(c1))
	assert.True(t, chain[1].Equal(c2))

	assert.Equal(t, snarl.NodeSide{ID: 1, Backward: false}, snarl.GetStart(chain))
	assert.Equal(t, snarl.NodeSide{ID: 6, Backward: false}, snarl.GetEnd(chain))
	assert.False(t, snarl.StartBackward(chain))
	assert.False(t, snarl.EndBackward(chain))
}

func TestInNontrivialChain(t *testing.T) {
	mgr, _, s1, c1, _, u := buildFixture(t)

	assert.True(t, snarl.InNontrivialChain(mgr.Store(), c1),
		"c1 shares node 3 with c2, its sibling under s1")
	assert.False(t, snarl.InNontrivialChain(mgr.Store(), u),
		"u has no siblings under its parent c1")

	assert.False(t, snarl.InNontrivialChain(mgr.Store(), s1),
		"s1 is the sole top-level snarl, with no siblings at all")
}

func TestNextAndPrevInChain(t *testing.T) {
	mgr, _, _, c1, c2, _ := buildFixture(t)
	st := mgr.Store()

	next, nextBackward, ok := snarl.NextInChain(st, c1, false)
	require.True(t, ok)
	assert.True(t, next.Equal(c2))
	assert.False(t, nextBackward)

	_, _, ok = snarl.NextInChain(st, c2, false)
	assert.False(t, ok, "c2 is the last snarl in its chain")

	prev, prevBackward, ok := snarl.PrevInChain(st, c2, false)
	require.True(t, ok)
	assert.True(t, prev.Equal(c1))
	assert.False(t, prevBackward)

	_, _, ok = snarl.PrevInChain(st, c1, false)
	assert.False(t, ok, "c1 is the first snarl in its chain")
}

func TestChainIteratorWalksForwardAndBackward(t *testing.T) {
	mgr, _, s1, c1, c2, _ := buildFixture(t)

	chains, err := mgr.ChainsOf(context.Background(), s1.Key())
	require.NoError(t, err)
	require.Len(t, chains, 1)

	it := snarl.NewChainIterator(chains[0])
	require.True(t, it.Valid())
	assert.True(t, it.Snarl().Equal(c1))
	assert.False(t, it.Backward(), "c1 connects to c2 through its own End, so it reads forward")

	require.True(t, it.Next())
	assert.True(t, it.Snarl().Equal(c2))
	assert.False(t, it.Backward(), "c2 connects to c1 through its own Start, so it also reads forward")

	assert.False(t, it.Next(), "advancing past the last element invalidates the iterator")
	assert.False(t, it.Valid())
	assert.Nil(t, it.Snarl())

	it.Reset()
	require.True(t, it.Valid())
	assert.True(t, it.Snarl().Equal(c1))

	assert.False(t, it.Prev(), "stepping back from the first element invalidates the iterator")
	assert.False(t, it.Valid())
}

// TestChainIteratorBackwardAfterFlip covers the case NextInChain and
// PrevInChain are grounded on: a chain member whose store-assigned
// orientation was reversed by Flip must still report the correct
// Backward() flag, computed from its boundary nodes rather than from
// any stored "already normalized" state.
func TestChainIteratorBackwardAfterFlip(t *testing.T) {
	mgr, p, a, b := buildTwoSiblingFixture(t)

	flippedA, err := mgr.Flip(a.Key())
	require.NoError(t, err)

	chains, err := mgr.ChainsOf(context.Background(), p.Key())
	require.NoError(t, err)
	require.Len(t, chains, 1)
	chain := chains[0]
	require.Len(t, chain, 2)

	it := snarl.NewChainIterator(chain)
	for it.Valid() {
		if it.Snarl() == flippedA {
			assert.False(t, it.Backward(), "A's connecting node (2) is now its own Start and A is the chain's last member, entered at that Start, so it reads forward")
		} else {
			assert.True(t, it.Snarl().Equal(b))
			assert.True(t, it.Backward(), "the chain is seeded at flipped A, so b comes first and is walked from its End (node 2) to its Start")
		}
		it.Next()
	}
}
