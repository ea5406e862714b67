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
	"errors"
	"testing"

	"github.com/karyon-bio/snarltree/snarl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachSnarlPreorderVisitsRootThenChildren(t *testing.T) {
	mgr, _, s1, c1, c2, u := buildFixture(t)

	var order []*snarl.Snarl
	ok := mgr.ForEachSnarlPreorder(s1, func(sn *snarl.Snarl) bool {
		order = append(order, sn)
		return true
	})
	require.True(t, ok)
	require.Len(t, order, 4)
	assert.True(t, order[0].Equal(s1))
	assert.True(t, order[1].Equal(c1))
	assert.True(t, order[2].Equal(u), "u is c1's child, so it comes before c1's sibling c2 in preorder")
	assert.True(t, order[3].Equal(c2))
}

func TestForEachSnarlPreorderStopsEarly(t *testing.T) {
	mgr, _, s1, _, _, _ := buildFixture(t)

	var visited int
	ok := mgr.ForEachSnarlPreorder(s1, func(sn *snarl.Snarl) bool {
		visited++
		return false
	})
	assert.False(t, ok)
	assert.Equal(t, 1, visited)
}

func TestForEachTopLevelSnarl(t *testing.T) {
	mgr, _, s1, _, _, _ := buildFixture(t)

	var roots []*snarl.Snarl
	ok := mgr.ForEachTopLevelSnarl(func(sn *snarl.Snarl) bool {
		roots = append(roots, sn)
		return true
	})
	require.True(t, ok)
	require.Len(t, roots, 1)
	assert.True(t, roots[0].Equal(s1))
}

func TestForEachTopLevelSnarlParallelSucceeds(t *testing.T) {
	mgr, _, s1, _, _, _ := buildFixture(t)

	var visited int32
	err := mgr.ForEachTopLevelSnarlParallel(context.Background(), func(ctx context.Context, sn *snarl.Snarl) error {
		if !sn.Equal(s1) {
			t.Errorf("unexpected root %+v", sn)
		}
		visited++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), visited)
}

func TestForEachTopLevelSnarlParallelPropagatesError(t *testing.T) {
	mgr, _, _, _, _, _ := buildFixture(t)
	boom := errors.New("boom")

	err := mgr.ForEachTopLevelSnarlParallel(context.Background(), func(ctx context.Context, sn *snarl.Snarl) error {
		return boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestIsLeafAndIsRoot(t *testing.T) {
	mgr, _, s1, c1, c2, u := buildFixture(t)

	assert.True(t, mgr.IsRoot(s1))
	assert.False(t, mgr.IsRoot(c1))

	assert.False(t, mgr.IsLeaf(s1))
	assert.False(t, mgr.IsLeaf(c1))
	assert.True(t, mgr.IsLeaf(c2))
	assert.True(t, mgr.IsLeaf(u))
}

func TestManageResolvesCanonicalRecord(t *testing.T) {
	mgr, _, s1, c1, _, _ := buildFixture(t)

	value := &snarl.Snarl{Start: c1.Start, End: c1.End, Type: c1.Type}
	found, err := mgr.Manage(value)
	require.NoError(t, err)
	assert.Same(t, c1, found, "Manage must resolve to the store's own canonical record, not the caller's value")

	found, err = mgr.Manage(&snarl.Snarl{Start: s1.Start, End: s1.End, Type: s1.Type})
	require.NoError(t, err)
	assert.Same(t, s1, found)
}

func TestManageRejectsMisownedSnarl(t *testing.T) {
	mgr, _, _, _, _, _ := buildFixture(t)

	foreign := &snarl.Snarl{Start: snarl.NodeSide{ID: 100}, End: snarl.NodeSide{ID: 200}}
	_, err := mgr.Manage(foreign)
	require.Error(t, err)
	assert.ErrorIs(t, err, snarl.ErrMisownedSnarl)
}

func TestIntoWhichChildSnarl(t *testing.T) {
	mgr, _, s1, c1, c2, _ := buildFixture(t)

	// Node 1 is a boundary of both s1 (top-level) and c1 (a direct child
	// of s1) at once. Scoping the lookup to s1 must find c1, never s1
	// itself, since c1 is what a walker enumerating s1's own contents is
	// looking for.
	found, ok := mgr.IntoWhichChildSnarl(s1.Key(), snarl.NodeSide{ID: 1, Backward: false})
	require.True(t, ok)
	assert.True(t, found.Equal(c1))

	found, ok = mgr.IntoWhichChildSnarl(s1.Key(), snarl.NodeSide{ID: 6, Backward: true})
	require.True(t, ok)
	assert.True(t, found.Equal(c2))

	_, ok = mgr.IntoWhichChildSnarl(c2.Key(), snarl.NodeSide{ID: 1, Backward: false})
	assert.False(t, ok, "node 1 is not a boundary of any child of c2")
}
