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

import "errors"

// Sentinel errors for the snarl package.
var (
	// ErrMisownedSnarl is returned by Manager.Manage when a caller-supplied
	// Snarl value's key names no record in the store it was handed to —
	// a value built by hand, or carried over from a different store's
	// decomposition.
	ErrMisownedSnarl = errors.New("snarl: snarl does not belong to this manager's store")

	// ErrInvariantViolation is returned when the store detects its own
	// indexes are inconsistent with the loaded records — a bug in the
	// upstream snarl finder, or a caller mutating records after Load.
	ErrInvariantViolation = errors.New("snarl: store invariant violated")

	// ErrUnknownSnarl is returned when a lookup finds no snarl with the
	// requested key.
	ErrUnknownSnarl = errors.New("snarl: no such snarl")

	// ErrNodeNotInAnySnarl names the case of a node ID that is not a
	// boundary of any snarl in the store. IntoWhichSnarl reports that case
	// with a false second result rather than with this error.
	ErrNodeNotInAnySnarl = errors.New("snarl: node is not a boundary of any snarl")

	// ErrNilSource is returned by Load when given a nil RecordSource.
	ErrNilSource = errors.New("snarl: record source is nil")
)
