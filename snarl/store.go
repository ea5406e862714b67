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
	"fmt"
	"log/slog"
	"time"
)

// RecordSource yields the snarl records an upstream finder already
// computed, one at a time. Next returns (nil, false) once exhausted. A
// Store never asks a RecordSource to seek or rewind — Load consumes it
// exactly once, front to back.
type RecordSource interface {
	Next() (*Snarl, bool)
}

// SliceSource adapts a plain slice of records to RecordSource, for
// callers that already hold every record in memory.
type SliceSource struct {
	records []*Snarl
	pos     int
}

// NewSliceSource wraps records as a RecordSource. Load does not copy the
// slice; do not mutate records concurrently with a Load call over it.
func NewSliceSource(records []*Snarl) *SliceSource {
	return &SliceSource{records: records}
}

// Next returns the next record, or (nil, false) when exhausted.
func (s *SliceSource) Next() (*Snarl, bool) {
	if s.pos >= len(s.records) {
		return nil, false
	}
	r := s.records[s.pos]
	s.pos++
	return r, true
}

// Store is the immutable arena of snarl records plus the indexes derived
// from them: parent, children, a boundary-entry lookup, and indexOf (a
// snarl's position within its parent's children slice).
//
// The boundary-entry lookup is split into topLevelInto and childInto
// rather than one flat map, because a child's boundary can coincide with
// an ancestor's — nested bubbles very often share a physical anchor node
// with the snarl that contains them — so "which snarl does this side
// enter" only has a single answer once the caller says which level it is
// asking about.
//
// # Thread Safety
//
// Every method except Flip is read-only and safe for concurrent use once
// Load has returned. Flip is the sole mutator; it is not safe to call
// concurrently with itself or with reads, since it rewrites index
// entries in place. Callers that flip snarls from multiple goroutines
// must serialize those calls themselves.
type Store struct {
	bySnarlKey   map[SnarlKey]*Snarl
	parentOf     map[SnarlKey]*SnarlKey
	childrenOf   map[SnarlKey][]*Snarl
	topLevel     []*Snarl
	topLevelInto map[NodeSide]*Snarl
	childInto    map[SnarlKey]map[NodeSide]*Snarl
	indexOf      map[SnarlKey]int
}

// Load consumes src and builds a Store from its records in two passes:
// the first pass records every snarl and groups it under its parent (or
// the top-level bucket), the second pass walks each group to populate
// the boundary and position indexes, since a snarl's position within its
// siblings and its snarlInto entries both depend on the full sibling
// group being known first.
func Load(ctx context.Context, src RecordSource) (*Store, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	ctx, span := tracer.Start(ctx, "Store.Load")
	defer span.End()
	start := time.Now()

	st := &Store{
		bySnarlKey:   make(map[SnarlKey]*Snarl),
		parentOf:     make(map[SnarlKey]*SnarlKey),
		childrenOf:   make(map[SnarlKey][]*Snarl),
		topLevelInto: make(map[NodeSide]*Snarl),
		childInto:    make(map[SnarlKey]map[NodeSide]*Snarl),
		indexOf:      make(map[SnarlKey]int),
	}

	// Pass 1: record every snarl and bucket it under its parent.
	count := 0
	for {
		sn, ok := src.Next()
		if !ok {
			break
		}
		key := sn.Key()
		if _, dup := st.bySnarlKey[key]; dup {
			return nil, fmt.Errorf("%w: duplicate snarl %+v", ErrInvariantViolation, key)
		}
		st.bySnarlKey[key] = sn
		if sn.Parent != nil {
			st.parentOf[key] = sn.Parent
			st.childrenOf[*sn.Parent] = append(st.childrenOf[*sn.Parent], sn)
		} else {
			st.topLevel = append(st.topLevel, sn)
		}
		count++
	}

	// Pass 2: index each sibling group by position and boundary.
	for parentKey, group := range st.childrenOf {
		if _, ok := st.bySnarlKey[parentKey]; !ok {
			return nil, fmt.Errorf("%w: children reference unknown parent %+v", ErrInvariantViolation, parentKey)
		}
		pk := parentKey
		st.indexGroup(group, &pk)
	}
	st.indexGroup(st.topLevel, nil)

	recordBuildMetrics(ctx, time.Since(start), count, true)
	slog.DebugContext(ctx, "snarl store built", "snarl_count", count, "top_level_count", len(st.topLevel))
	return st, nil
}

// indexGroup fills indexOf and the boundary-entry index for one sibling
// group: all direct children of parent, or the top-level snarls when
// parent is nil.
func (st *Store) indexGroup(group []*Snarl, parent *SnarlKey) {
	var into map[NodeSide]*Snarl
	if parent == nil {
		into = st.topLevelInto
	} else {
		into = st.childInto[*parent]
		if into == nil {
			into = make(map[NodeSide]*Snarl, len(group)*2)
			st.childInto[*parent] = into
		}
	}
	for i, sn := range group {
		key := sn.Key()
		st.indexOf[key] = i
		into[NodeSide{ID: sn.Start.ID, Backward: sn.Start.Backward}] = sn
		into[NodeSide{ID: sn.End.ID, Backward: !sn.End.Backward}] = sn
	}
}

// Get returns the snarl with the given key, if any.
func (st *Store) Get(key SnarlKey) (*Snarl, bool) {
	sn, ok := st.bySnarlKey[key]
	return sn, ok
}

// ParentOf returns the key of key's parent, or nil if key names a
// top-level snarl.
func (st *Store) ParentOf(key SnarlKey) *SnarlKey {
	return st.parentOf[key]
}

// ChildrenOf returns the direct children of the snarl named by parent.
// The returned slice is shared with the Store and must not be mutated.
func (st *Store) ChildrenOf(parent SnarlKey) []*Snarl {
	return st.childrenOf[parent]
}

// TopLevel returns every top-level snarl. The returned slice is shared
// with the Store and must not be mutated.
func (st *Store) TopLevel() []*Snarl {
	return st.topLevel
}

// SiblingsOf returns the sibling slice sn belongs to (its parent's
// children, or the top-level slice) along with sn's position within it.
func (st *Store) SiblingsOf(sn *Snarl) (siblings []*Snarl, index int) {
	key := sn.Key()
	i, ok := st.indexOf[key]
	if !ok {
		return nil, -1
	}
	if sn.Parent == nil {
		return st.topLevel, i
	}
	return st.childrenOf[*sn.Parent], i
}

// IntoWhichTopLevelSnarl returns the top-level snarl entered by standing
// on side, if any.
func (st *Store) IntoWhichTopLevelSnarl(side NodeSide) (*Snarl, bool) {
	sn, ok := st.topLevelInto[side]
	return sn, ok
}

// IntoWhichChildSnarl returns the direct child of parent entered by
// standing on side, if any. The lookup is scoped to parent because side
// may simultaneously be a boundary of parent itself, or of some
// unrelated ancestor, and only the caller knows which level it means.
func (st *Store) IntoWhichChildSnarl(parent SnarlKey, side NodeSide) (*Snarl, bool) {
	sn, ok := st.childInto[parent][side]
	return sn, ok
}

// Flip re-keys the snarl named by key so that its End boundary becomes
// its Start and vice versa, preserving the two physical boundary entries
// in the boundary-entry index (they remain registered at the same
// NodeSides, now returning a Snarl whose Start/End labels — and
// StartSelfReachable/EndSelfReachable, which boundary they describe —
// have swapped). It returns the new, re-keyed record; the old key no
// longer resolves via Get. Flip is the only mutator this package
// exposes; it is not concurrency-safe (see Store's Thread Safety doc).
func (st *Store) Flip(key SnarlKey) (*Snarl, error) {
	sn, ok := st.bySnarlKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %+v", ErrUnknownSnarl, key)
	}

	flipped := &Snarl{
		Start:              NodeSide{ID: sn.End.ID, Backward: !sn.End.Backward},
		End:                NodeSide{ID: sn.Start.ID, Backward: !sn.Start.Backward},
		Type:               sn.Type,
		Parent:             sn.Parent,
		StartSelfReachable: sn.EndSelfReachable,
		EndSelfReachable:   sn.StartSelfReachable,
		StartEndReachable:  sn.StartEndReachable,
	}
	newKey := flipped.Key()

	delete(st.bySnarlKey, key)
	st.bySnarlKey[newKey] = flipped

	if sn.Parent != nil {
		delete(st.parentOf, key)
		st.parentOf[newKey] = flipped.Parent
	}

	siblings, idx := st.siblingSliceFor(sn, key)
	if idx >= 0 && idx < len(siblings) {
		siblings[idx] = flipped
	}
	delete(st.indexOf, key)
	st.indexOf[newKey] = idx

	// The two physical boundary sides stay registered; only the pointer
	// they resolve to changes.
	var into map[NodeSide]*Snarl
	if sn.Parent != nil {
		into = st.childInto[*sn.Parent]
	} else {
		into = st.topLevelInto
	}
	into[NodeSide{ID: sn.Start.ID, Backward: sn.Start.Backward}] = flipped
	into[NodeSide{ID: sn.End.ID, Backward: !sn.End.Backward}] = flipped

	return flipped, nil
}

func (st *Store) siblingSliceFor(sn *Snarl, key SnarlKey) ([]*Snarl, int) {
	idx, ok := st.indexOf[key]
	if !ok {
		return nil, -1
	}
	if sn.Parent == nil {
		return st.topLevel, idx
	}
	return st.childrenOf[*sn.Parent], idx
}
