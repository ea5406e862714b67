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

// SnarlType classifies a snarl by the shape of paths through it.
type SnarlType int

const (
	// Unclassified snarls have not had their type determined.
	Unclassified SnarlType = iota
	// Ultrabubble snarls are DAG-shaped: every path from start to end
	// passes through every node exactly once in one orientation.
	Ultrabubble
	// Unary snarls have coincident start and end nodes: a single node
	// forms a self-contained loop-free bubble around itself.
	Unary
)

// String renders a SnarlType for logs and error messages.
func (t SnarlType) String() string {
	switch t {
	case Ultrabubble:
		return "ultrabubble"
	case Unary:
		return "unary"
	default:
		return "unclassified"
	}
}

// SnarlKey is the identity of a snarl: its two boundaries in the order
// the store keys them under. It depends on orientation: Flip swaps which
// boundary is called Start, so a flipped snarl is stored under a new,
// different SnarlKey.
type SnarlKey struct {
	StartID       NodeID
	StartBackward bool
	EndID         NodeID
	EndBackward   bool
}

// snarlKeyLess gives SnarlKey a total order; Snarl.Less is built on it.
func snarlKeyLess(a, b SnarlKey) bool {
	if a.StartID != b.StartID {
		return a.StartID < b.StartID
	}
	if a.StartBackward != b.StartBackward {
		return !a.StartBackward
	}
	if a.EndID != b.EndID {
		return a.EndID < b.EndID
	}
	return !a.EndBackward && b.EndBackward
}

// Snarl is one node of the decomposition tree: a bubble between two
// boundary node-sides, classified by shape, with cached reachability
// facts about its own interior.
type Snarl struct {
	Start NodeSide
	End   NodeSide
	Type  SnarlType

	// Parent is the key of the snarl one level up the tree, or nil for a
	// top-level snarl.
	Parent *SnarlKey

	// StartSelfReachable reports whether Start can be reached from
	// itself without leaving the snarl (a signature of a non-simple
	// bubble containing a cycle back to its own entrance).
	StartSelfReachable bool
	// EndSelfReachable is the same fact about End.
	EndSelfReachable bool
	// StartEndReachable reports whether End is reachable from Start
	// without leaving the snarl in the forward direction implied by
	// their own orientations — false marks a snarl no simple path
	// crosses start-to-end at all.
	StartEndReachable bool
}

// Key returns the canonical identity of s.
func (s *Snarl) Key() SnarlKey {
	return SnarlKey{
		StartID:       s.Start.ID,
		StartBackward: s.Start.Backward,
		EndID:         s.End.ID,
		EndBackward:   s.End.Backward,
	}
}

// Equal reports whether two snarls have the same boundaries, type, and
// parent. Two Snarl values naming the same boundaries but with
// mismatched Type or Parent are not equal — that state should not occur
// within one Store, but Equal does not assume it.
func (s *Snarl) Equal(other *Snarl) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Key() != other.Key() || s.Type != other.Type {
		return false
	}
	switch {
	case s.Parent == nil && other.Parent == nil:
		return true
	case s.Parent == nil || other.Parent == nil:
		return false
	default:
		return *s.Parent == *other.Parent
	}
}

// Less imposes a total order over snarls: by key, then by type, then by
// parent (root snarls sort before children).
func (s *Snarl) Less(other *Snarl) bool {
	sk, ok := s.Key(), other.Key()
	if sk != ok {
		return snarlKeyLess(sk, ok)
	}
	if s.Type != other.Type {
		return s.Type < other.Type
	}
	switch {
	case s.Parent == nil:
		return other.Parent != nil
	case other.Parent == nil:
		return false
	default:
		return snarlKeyLess(*s.Parent, *other.Parent)
	}
}
