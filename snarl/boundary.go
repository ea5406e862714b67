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

// ToRightSide returns the NodeSide a traversal is standing on after
// completing v, i.e. the side it would next cross an edge from.
//
// For a NodeVisit, the right side is the node's forward-right side when
// traversed forward, its forward-left side when traversed backward: a
// node's own "backward" flag and its right-side's Backward flag are
// complements of each other (v.Backward=false gives right side
// Backward=true; walking a node backward makes its right side the one
// you'd otherwise call its left).
//
// For a SnarlVisit, the right side is the child snarl's own boundary on
// the far end from where it was entered — the same (id, backward) pair
// the store's boundary-entry index uses to key entry into that boundary,
// per the store's invariant that a snarl has exactly two such entries:
// (Start.ID, Start.Backward) for forward entry and (End.ID,
// !End.Backward) for backward entry. Traversing the child forward exits
// at its End boundary; traversing it backward exits at its Start
// boundary — in each case using the *other* boundary's entry key, since
// that is the side that continues the traversal past the child.
func ToRightSide(v Visit) NodeSide {
	switch t := v.(type) {
	case NodeVisit:
		return NodeSide{ID: t.ID, Backward: !t.Backward}
	case SnarlVisit:
		if !t.Backward {
			return NodeSide{ID: t.Snarl.End.ID, Backward: !t.Snarl.End.Backward}
		}
		return NodeSide{ID: t.Snarl.Start.ID, Backward: t.Snarl.Start.Backward}
	default:
		return NodeSide{}
	}
}

// ToLeftSide returns the NodeSide a traversal starts from to perform v.
// It is always ToRightSide of v traversed in reverse.
func ToLeftSide(v Visit) NodeSide {
	return ToRightSide(v.Reverse())
}
