// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import "errors"

// EngineMetrics receives mutation outcomes from the services so hosts
// can export them as counters. Implementations must be safe for
// concurrent use.
type EngineMetrics interface {
	// MutationApplied is called after a mutation persists.
	MutationApplied(entityKind string)
	// ConflictRejected is called when a mutation is rejected as a
	// duplicate of an active row.
	ConflictRejected(entityKind string)
}

// Relationship rows are counted under their own labels, separate from
// the entity kinds the authorizer dispatches on.
const (
	metricEditorGrant    = "editor_grant"
	metricAttribution    = "author_attribution"
	metricCollectionPost = "collection_post"
)

// recordOutcome reports one mutation attempt to m. A nil sink disables
// recording. Denials and validation failures are not counted here; the
// authorizer's denial hook covers the former.
func recordOutcome(m EngineMetrics, entityKind string, err error) {
	switch {
	case m == nil:
	case err == nil:
		m.MutationApplied(entityKind)
	case errors.Is(err, ErrConflict):
		m.ConflictRejected(entityKind)
	}
}
