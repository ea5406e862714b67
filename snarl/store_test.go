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

func TestManageNilSourceFails(t *testing.T) {
	_, err := snarl.Manage(context.Background(), nil)
	require.ErrorIs(t, err, snarl.ErrNilSource)
}

func TestStoreTopLevelAndChildren(t *testing.T) {
	mgr, _, s1, c1, c2, u := buildFixture(t)

	top := mgr.TopLevelSnarls()
	require.Len(t, top, 1)
	assert.True(t, top[0].Equal(s1))

	children := mgr.ChildrenOf(s1.Key())
	require.Len(t, children, 2)
	assert.ElementsMatch(t, []*snarl.Snarl{c1, c2}, children)

	assert.Empty(t, mgr.ChildrenOf(c2.Key()))
	require.Len(t, mgr.ChildrenOf(c1.Key()), 1)
	assert.True(t, mgr.ChildrenOf(c1.Key())[0].Equal(u))
}

func TestIntoWhichSnarl(t *testing.T) {
	mgr, _, s1, _, _, _ := buildFixture(t)

	found, ok := mgr.IntoWhichSnarl(1, false)
	require.True(t, ok)
	assert.True(t, found.Equal(s1))

	_, ok = mgr.IntoWhichSnarl(1, true)
	assert.False(t, ok, "the reverse orientation of a boundary node is not a registered entry")

	_, ok = mgr.IntoWhichSnarl(42, false)
	assert.False(t, ok)
}

func TestFlipSwapsBoundariesAndPreservesLookup(t *testing.T) {
	mgr, _, s1, _, _, _ := buildFixture(t)

	before, ok := mgr.IntoWhichSnarl(1, false)
	require.True(t, ok)
	assert.Equal(t, s1.Key(), before.Key())

	flipped, err := mgr.Flip(s1.Key())
	require.NoError(t, err)
	assert.Equal(t, snarl.NodeSide{ID: 6, Backward: true}, flipped.Start)
	assert.Equal(t, snarl.NodeSide{ID: 1, Backward: true}, flipped.End)

	// Both original physical boundary sides still resolve, now to the
	// flipped record.
	afterStart, ok := mgr.IntoWhichSnarl(1, false)
	require.True(t, ok)
	assert.Equal(t, flipped.Key(), afterStart.Key())

	afterEnd, ok := mgr.IntoWhichSnarl(6, true)
	require.True(t, ok)
	assert.Equal(t, flipped.Key(), afterEnd.Key())
}

// TestFlipTwiceRestoresOriginal covers spec.md §8's quantified round-trip
// property: flip(flip(S)) restores S's boundaries, parent, and every
// index entry bit-exact.
func TestFlipTwiceRestoresOriginal(t *testing.T) {
	mgr, _, s1, c1, c2, u := buildFixture(t)

	originalStart, originalEnd, originalParent := c1.Start, c1.End, c1.Parent

	once, err := mgr.Flip(c1.Key())
	require.NoError(t, err)

	twice, err := mgr.Flip(once.Key())
	require.NoError(t, err)

	assert.Equal(t, originalStart, twice.Start)
	assert.Equal(t, originalEnd, twice.End)
	assert.Equal(t, originalParent, twice.Parent)
	assert.Equal(t, c1.Type, twice.Type)
	assert.Equal(t, c1.StartSelfReachable, twice.StartSelfReachable)
	assert.Equal(t, c1.EndSelfReachable, twice.EndSelfReachable)
	assert.Equal(t, c1.StartEndReachable, twice.StartEndReachable)

	// Every index entry a caller could have resolved through before the
	// round trip resolves the same way afterward.
	fromStart, ok := mgr.IntoWhichChildSnarl(s1.Key(), snarl.NodeSide{ID: 1, Backward: false})
	require.True(t, ok)
	assert.Equal(t, twice.Key(), fromStart.Key())

	children := mgr.ChildrenOf(s1.Key())
	require.Len(t, children, 2)
	assert.ElementsMatch(t, []*snarl.Snarl{twice, c2}, children)

	chains, err := mgr.ChainsOf(context.Background(), s1.Key())
	require.NoError(t, err)
	require.Len(t, chains, 1)
	assert.ElementsMatch(t, []*snarl.Snarl{twice, c2}, []*snarl.Snarl(chains[0]))

	require.Len(t, mgr.ChildrenOf(twice.Key()), 1)
	assert.True(t, mgr.ChildrenOf(twice.Key())[0].Equal(u))
}

func TestFlipUnknownSnarlFails(t *testing.T) {
	mgr, _, _, _, _, _ := buildFixture(t)
	_, err := mgr.Flip(snarl.SnarlKey{StartID: 99, EndID: 100})
	require.ErrorIs(t, err, snarl.ErrUnknownSnarl)
}
