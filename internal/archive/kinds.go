// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

// ProfileKind identifies the in-world type of a profile.
type ProfileKind string

// Profile kinds.
const (
	ProfileCharacter    ProfileKind = "character"
	ProfileItem         ProfileKind = "item"
	ProfileKinship      ProfileKind = "kinship"
	ProfileOrganization ProfileKind = "organization"
	ProfileLocation     ProfileKind = "location"
)

// Valid reports whether the profile kind is one of the known kinds.
func (k ProfileKind) Valid() bool {
	switch k {
	case ProfileCharacter, ProfileItem, ProfileKinship, ProfileOrganization, ProfileLocation:
		return true
	}
	return false
}

// Independent reports whether profiles of this kind stand on their own.
// Independent kinds never have a parent profile.
func (k ProfileKind) Independent() bool {
	return k == ProfileCharacter || k == ProfileLocation
}

// Authorable reports whether profiles of this kind may be credited as
// authors of content. Items and locations cannot author anything.
func (k ProfileKind) Authorable() bool {
	switch k {
	case ProfileCharacter, ProfileKinship, ProfileOrganization:
		return true
	}
	return false
}

// PostKind identifies the type of a post.
type PostKind string

// Post kinds.
const (
	PostWriting PostKind = "writing"
	PostArt     PostKind = "art"
	PostMedia   PostKind = "media"
	PostEvent   PostKind = "event"
)

// Valid reports whether the post kind is one of the known kinds.
func (k PostKind) Valid() bool {
	switch k {
	case PostWriting, PostArt, PostMedia, PostEvent:
		return true
	}
	return false
}

// CollectionKind identifies the type of a collection.
type CollectionKind string

// Collection kinds.
const (
	CollectionGeneral     CollectionKind = "general"
	CollectionChronicle   CollectionKind = "chronicle"
	CollectionAlbum       CollectionKind = "album"
	CollectionGallery     CollectionKind = "gallery"
	CollectionEventSeries CollectionKind = "event_series"
)

// Valid reports whether the collection kind is one of the known kinds.
func (k CollectionKind) Valid() bool {
	switch k {
	case CollectionGeneral, CollectionChronicle, CollectionAlbum, CollectionGallery, CollectionEventSeries:
		return true
	}
	return false
}

// DefaultAllowedPostKinds returns the post kinds a new collection of this
// kind accepts. A nil result means any kind is accepted. The set is fixed
// on the collection at creation time.
func (k CollectionKind) DefaultAllowedPostKinds() []PostKind {
	switch k {
	case CollectionChronicle:
		return []PostKind{PostWriting}
	case CollectionAlbum:
		return []PostKind{PostArt, PostMedia}
	case CollectionGallery:
		return []PostKind{PostArt}
	case CollectionEventSeries:
		return []PostKind{PostEvent}
	default:
		return nil
	}
}

// EntityKind identifies which aggregate an editor grant or ownership
// check refers to. The set is closed; storage dispatch is static per
// kind, never built from runtime strings.
type EntityKind string

// Entity kinds subject to ownership and editor delegation.
const (
	EntityProfile    EntityKind = "profile"
	EntityPost       EntityKind = "post"
	EntityCollection EntityKind = "collection"
)

// Valid reports whether the entity kind is one of the known kinds.
func (k EntityKind) Valid() bool {
	switch k {
	case EntityProfile, EntityPost, EntityCollection:
		return true
	}
	return false
}

// ContentKind identifies content that can carry author attributions and
// is a subset of EntityKind.
type ContentKind string

// Content kinds subject to author attribution.
const (
	ContentPost       ContentKind = "post"
	ContentCollection ContentKind = "collection"
)

// Valid reports whether the content kind is one of the known kinds.
func (k ContentKind) Valid() bool {
	return k == ContentPost || k == ContentCollection
}

// Entity returns the entity kind corresponding to this content kind.
func (k ContentKind) Entity() EntityKind {
	if k == ContentCollection {
		return EntityCollection
	}
	return EntityPost
}
