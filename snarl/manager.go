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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// Manager is the public façade over a Store: every structural query a
// caller runs against a loaded decomposition goes through it.
//
// # Thread Safety
//
// All methods except Flip are safe for concurrent use. Flip is not; see
// Store's Thread Safety doc.
type Manager struct {
	store *Store
}

// Manage builds a Manager from a RecordSource. It is the only entry
// point that constructs a Manager — there is no exported way to build
// one from an already-built Store, since a Store's lifetime is meant to
// be owned by exactly one Manager.
func Manage(ctx context.Context, src RecordSource) (*Manager, error) {
	st, err := Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("snarl: manage: %w", err)
	}
	return &Manager{store: st}, nil
}

// Store returns the underlying Store, for callers that need direct
// index access (netgraph.NewNetGraph, for instance).
func (m *Manager) Store() *Store {
	return m.store
}

// Manage looks up the canonical record for a caller-supplied snarl
// value, keyed by v's own boundaries. It returns
// ErrMisownedSnarl when v's key names no snarl this Manager was built
// from — a value the caller constructed themselves, or one carried over
// from a different store's decomposition.
func (m *Manager) Manage(v *Snarl) (*Snarl, error) {
	sn, ok := m.store.Get(v.Key())
	if !ok {
		return nil, fmt.Errorf("snarl: manage: %w", ErrMisownedSnarl)
	}
	return sn, nil
}

// ChildrenOf returns the direct children of the snarl named by key.
func (m *Manager) ChildrenOf(key SnarlKey) []*Snarl {
	return m.store.ChildrenOf(key)
}

// ParentOf returns the key of key's parent, or nil for a top-level
// snarl.
func (m *Manager) ParentOf(key SnarlKey) *SnarlKey {
	return m.store.ParentOf(key)
}

// TopLevelSnarls returns every snarl with no parent.
func (m *Manager) TopLevelSnarls() []*Snarl {
	return m.store.TopLevel()
}

// IsLeaf reports whether sn has no children.
func (m *Manager) IsLeaf(sn *Snarl) bool {
	return len(m.store.ChildrenOf(sn.Key())) == 0
}

// IsRoot reports whether sn is a top-level snarl.
func (m *Manager) IsRoot(sn *Snarl) bool {
	return sn.Parent == nil
}

// ChainsOf returns every chain among key's direct children.
func (m *Manager) ChainsOf(ctx context.Context, key SnarlKey) ([]Chain, error) {
	return ChainsOf(ctx, m.store, key)
}

// ChainsOfTopLevel returns every chain among the root snarls themselves.
func (m *Manager) ChainsOfTopLevel(ctx context.Context) ([]Chain, error) {
	return ChainsOfTopLevel(ctx, m.store)
}

// Flip re-keys the snarl named by key, swapping its Start and End
// boundaries. See Store.Flip.
func (m *Manager) Flip(key SnarlKey) (*Snarl, error) {
	return m.store.Flip(key)
}

// IntoWhichTopLevelSnarl returns the top-level snarl a traversal standing
// on side would enter, if any.
func (m *Manager) IntoWhichTopLevelSnarl(side NodeSide) (*Snarl, bool) {
	return m.store.IntoWhichTopLevelSnarl(side)
}

// IntoWhichSnarl is IntoWhichTopLevelSnarl with the node ID and
// orientation given separately, for callers that do not already have a
// NodeSide value handy.
func (m *Manager) IntoWhichSnarl(id NodeID, backward bool) (*Snarl, bool) {
	return m.store.IntoWhichTopLevelSnarl(NodeSide{ID: id, Backward: backward})
}

// IntoWhichChildSnarl returns the direct child of parent that a
// traversal standing on side would enter, if any. Content and visit
// enumeration always call this rather than IntoWhichTopLevelSnarl,
// since they walk relative to one specific snarl's own children.
func (m *Manager) IntoWhichChildSnarl(parent SnarlKey, side NodeSide) (*Snarl, bool) {
	return m.store.IntoWhichChildSnarl(parent, side)
}

// SnarlVisitor is called once per snarl during a preorder walk. It
// returns false to stop the walk early.
type SnarlVisitor func(sn *Snarl) bool

// ForEachSnarlPreorder walks every snarl in the tree rooted at root in
// preorder — root itself, then each child subtree left to right — until
// visit returns false or the tree is exhausted.
func (m *Manager) ForEachSnarlPreorder(root *Snarl, visit SnarlVisitor) bool {
	if !visit(root) {
		return false
	}
	for _, child := range m.store.ChildrenOf(root.Key()) {
		if !m.ForEachSnarlPreorder(child, visit) {
			return false
		}
	}
	return true
}

// ForEachTopLevelSnarl calls visit once per top-level snarl, in order,
// until visit returns false or every root has been visited.
func (m *Manager) ForEachTopLevelSnarl(visit SnarlVisitor) bool {
	for _, root := range m.store.TopLevel() {
		if !visit(root) {
			return false
		}
	}
	return true
}

// maxParallelTopLevelSnarls caps ForEachTopLevelSnarlParallel's concurrent
// goroutines: a graph can have thousands of top-level snarls, and work is
// caller-supplied, so an unbounded fan-out would let one call flood the
// runtime with goroutines sized entirely by input rather than by the
// machine running them.
const maxParallelTopLevelSnarls = 64

// ForEachTopLevelSnarlParallel runs work once per top-level snarl,
// concurrently, up to maxParallelTopLevelSnarls at a time. It returns the
// first error any invocation returns, after every invocation has
// finished — later invocations are not canceled by an earlier error,
// since each root's subtree is independent and a caller processing
// several roots generally wants partial results rather than a truncated
// run.
func (m *Manager) ForEachTopLevelSnarlParallel(ctx context.Context, work func(ctx context.Context, sn *Snarl) error) error {
	ctx, span := tracer.Start(ctx, "Manager.ForEachTopLevelSnarlParallel")
	defer span.End()

	roots := m.store.TopLevel()
	span.SetAttributes(attribute.Int("snarl.root_count", len(roots)))

	var g errgroup.Group
	g.SetLimit(maxParallelTopLevelSnarls)
	for _, root := range roots {
		root := root
		g.Go(func() error {
			if err := work(ctx, root); err != nil {
				parallelSnarlErrors.Inc()
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
