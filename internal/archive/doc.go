// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

// Package archive holds the ownership and collaborative-authorization
// engine of Lorekeep: who may create, attribute, delegate, and mutate
// profiles, posts, and collections, and how those delegations survive
// soft deletion.
//
// # Domain Types
//
// Domain types (Profile, Post, Collection, EditorGrant,
// AuthorAttribution, CollectionPost) should be created through their
// New* constructors, which validate required fields. Rows subject to
// logical deletion carry a DeletedAt tombstone; relationship rows are
// reactivated in place so their identity survives remove/re-add cycles.
//
// # Services
//
// Service types coordinate the engine's operations:
//   - ProfileService - profile creation with hierarchy validation
//   - PostService - post creation with atomic primary attribution
//   - CollectionService - collection curation, compatibility, ordering
//   - EditorService - editor delegation per entity
//   - AuthorService - profile-based authorship per content instance
//
// Every mutation is gated by Authorizer.CanMutate (owner or active
// editor), evaluated fresh per call. Expected business outcomes are
// reported as the sentinel errors in errors.go, wrapped with oops codes.
package archive
