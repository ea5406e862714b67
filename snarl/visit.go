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

// Visit names a single step of a traversal: either a plain node, observed
// forward or backward, or a nested snarl, entered from one end or the
// other. It is modeled as a sum type — an interface with two concrete
// implementations — rather than one struct with a "kind" tag and
// overloaded fields, because a NodeVisit and a SnarlVisit carry
// genuinely different data (a bare orientation versus a child snarl
// reference plus orientation) and conflating them into optional fields on
// one struct invites states that mean nothing (a node visit with a
// dangling snarl pointer, a snarl visit with a stray node ID).
type Visit interface {
	// Reverse returns the same visit traversed in the opposite direction.
	Reverse() Visit

	// Equal reports whether two visits name the same step in the same
	// direction.
	Equal(other Visit) bool

	// Less imposes a total order over visits, used to give chains and
	// traversal sets a canonical iteration order. Node visits sort before
	// snarl visits; within a kind, ID/boundary then orientation.
	Less(other Visit) bool

	isVisit()
}

// NodeVisit is a Visit that names a plain node in the backing graph.
type NodeVisit struct {
	ID       NodeID
	Backward bool
}

func (NodeVisit) isVisit() {}

// Reverse returns the same node visited in the opposite orientation.
func (v NodeVisit) Reverse() Visit {
	return NodeVisit{ID: v.ID, Backward: !v.Backward}
}

// Equal reports whether other is a NodeVisit naming the same node in the
// same orientation.
func (v NodeVisit) Equal(other Visit) bool {
	o, ok := other.(NodeVisit)
	return ok && o.ID == v.ID && o.Backward == v.Backward
}

// Less orders NodeVisit before SnarlVisit, and among NodeVisits by ID
// then by orientation.
func (v NodeVisit) Less(other Visit) bool {
	switch o := other.(type) {
	case NodeVisit:
		if v.ID != o.ID {
			return v.ID < o.ID
		}
		return !v.Backward && o.Backward
	case SnarlVisit:
		return true
	default:
		return false
	}
}

// SnarlVisit is a Visit that names a traversal through a nested snarl,
// entered at its start (Backward false) or at its end (Backward true).
type SnarlVisit struct {
	Snarl    *Snarl
	Backward bool
}

func (SnarlVisit) isVisit() {}

// Reverse returns the same child snarl entered from the opposite end.
func (v SnarlVisit) Reverse() Visit {
	return SnarlVisit{Snarl: v.Snarl, Backward: !v.Backward}
}

// Equal reports whether other is a SnarlVisit naming the same snarl
// entered from the same end. Snarls compare by Snarl.Equal, not by
// pointer identity or boundary key alone, so visits built from
// independently looked-up Snarl values still compare equal, and two
// snarls that merely share a boundary but differ in Type or Parent do
// not.
func (v SnarlVisit) Equal(other Visit) bool {
	o, ok := other.(SnarlVisit)
	if !ok {
		return false
	}
	if v.Backward != o.Backward {
		return false
	}
	return v.Snarl.Equal(o.Snarl)
}

// Less orders SnarlVisit after NodeVisit, and among SnarlVisits by
// Snarl.Less then by orientation.
func (v SnarlVisit) Less(other Visit) bool {
	o, ok := other.(SnarlVisit)
	if !ok {
		return false
	}
	if !v.Snarl.Equal(o.Snarl) {
		return v.Snarl.Less(o.Snarl)
	}
	return !v.Backward && o.Backward
}
