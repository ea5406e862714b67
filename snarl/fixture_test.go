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

	"github.com/karyon-bio/snarltree/handlegraph"
	"github.com/karyon-bio/snarltree/internal/testgraph"
	"github.com/karyon-bio/snarltree/snarl"
	"github.com/stretchr/testify/require"
)

// buildFixture returns a small decomposition over the six-node path
// 1-2-3-4-5-6, plus its backing graph:
//
//	top-level S1: [1 .. 6]
//	  children (a chain of two): C1 [1..3], C2 [3..6]
//	    C1's own child: U, a unary snarl around node 2
//
// Every edge in the backing graph is a plain forward edge: from's right
// side to to's left side, which this fixture's convention encodes as
// fromStart=true, toEnd=true (see internal/testgraph and
// snarl/contents.go's edgeEntersSide for why those flags, not the more
// intuitive-looking (false,false), name a left-to-right edge).
func buildFixture(t *testing.T) (*snarl.Manager, handlegraph.ContentGraph, *snarl.Snarl, *snarl.Snarl, *snarl.Snarl, *snarl.Snarl) {
	t.Helper()

	g := testgraph.New()
	for id := handlegraph.NodeID(1); id <= 6; id++ {
		g.AddNode(id)
	}
	for id := handlegraph.NodeID(1); id < 6; id++ {
		g.AddEdge(id, id+1, true, true)
	}

	s1 := &snarl.Snarl{
		Start: snarl.NodeSide{ID: 1, Backward: false},
		End:   snarl.NodeSide{ID: 6, Backward: false},
		Type:  snarl.Ultrabubble,
	}
	s1Key := s1.Key()

	c1 := &snarl.Snarl{
		Start:  snarl.NodeSide{ID: 1, Backward: false},
		End:    snarl.NodeSide{ID: 3, Backward: false},
		Type:   snarl.Ultrabubble,
		Parent: &s1Key,
	}
	c1Key := c1.Key()

	c2 := &snarl.Snarl{
		Start:  snarl.NodeSide{ID: 3, Backward: false},
		End:    snarl.NodeSide{ID: 6, Backward: false},
		Type:   snarl.Ultrabubble,
		Parent: &s1Key,
	}

	u := &snarl.Snarl{
		Start:  snarl.NodeSide{ID: 2, Backward: false},
		End:    snarl.NodeSide{ID: 2, Backward: false},
		Type:   snarl.Unary,
		Parent: &c1Key,
	}

	records := []*snarl.Snarl{s1, c1, c2, u}
	mgr, err := snarl.Manage(context.Background(), snarl.NewSliceSource(records))
	require.NoError(t, err)

	return mgr, g, s1, c1, c2, u
}
