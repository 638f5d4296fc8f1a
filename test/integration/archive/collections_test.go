// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

//go:build integration

package archive_test

import (
	"context"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/lorekeep/lorekeep/internal/archive"
)

var _ = Describe("Collection membership", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		cleanupArchive(ctx, env.pool)
	})

	listPostIDs := func(collectionID ulid.ULID) []ulid.ULID {
		posts, err := env.services.Collections.ListPosts(ctx, collectionID)
		Expect(err).NotTo(HaveOccurred())
		ids := make([]ulid.ULID, len(posts))
		for i, p := range posts {
			ids[i] = p.ID
		}
		return ids
	}

	Describe("Type compatibility", func() {
		It("derives allowed post kinds from the collection kind", func() {
			ownerID := createAccount(ctx, "kind_owner")
			album, err := env.services.Collections.Create(ctx, ownerID, archive.CreateCollectionInput{
				Kind:  archive.CollectionAlbum,
				Title: "Sketchbook",
			})
			Expect(err).NotTo(HaveOccurred())

			art := mustPost(ctx, ownerID, archive.PostArt, "Portrait")
			story := mustPost(ctx, ownerID, archive.PostWriting, "Short Story")

			_, err = env.services.Collections.AddPost(ctx, album.ID, ownerID, art.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = env.services.Collections.AddPost(ctx, album.ID, ownerID, story.ID)
			Expect(err).To(MatchError(archive.ErrInvalidInput))
			Expect(err.Error()).To(ContainSubstring("writing posts cannot be added to a album collection"))
		})

		It("accepts any post kind in a general collection", func() {
			ownerID := createAccount(ctx, "kind_owner")
			general, err := env.services.Collections.Create(ctx, ownerID, archive.CreateCollectionInput{
				Kind:  archive.CollectionGeneral,
				Title: "Everything Box",
			})
			Expect(err).NotTo(HaveOccurred())

			for _, kind := range []archive.PostKind{archive.PostWriting, archive.PostArt, archive.PostMedia, archive.PostEvent} {
				p := mustPost(ctx, ownerID, kind, "Any Kind "+string(kind))
				_, err := env.services.Collections.AddPost(ctx, general.ID, ownerID, p.ID)
				Expect(err).NotTo(HaveOccurred())
			}
		})
	})

	Describe("Ordering", func() {
		var (
			ownerID    ulid.ULID
			collection *archive.Collection
			posts      []*archive.Post
		)

		BeforeEach(func() {
			ownerID = createAccount(ctx, "order_owner")
			var err error
			collection, err = env.services.Collections.Create(ctx, ownerID, archive.CreateCollectionInput{
				Kind:  archive.CollectionChronicle,
				Title: "Season One",
			})
			Expect(err).NotTo(HaveOccurred())

			titles := []string{"Chapter One", "Chapter Two", "Chapter Three"}
			posts = make([]*archive.Post, len(titles))
			for i, title := range titles {
				posts[i] = mustPost(ctx, ownerID, archive.PostWriting, title)
				_, err := env.services.Collections.AddPost(ctx, collection.ID, ownerID, posts[i].ID)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("appends new members at the end", func() {
			Expect(listPostIDs(collection.ID)).To(Equal([]ulid.ULID{posts[0].ID, posts[1].ID, posts[2].ID}))
		})

		It("applies a complete reordering", func() {
			reversed := []ulid.ULID{posts[2].ID, posts[1].ID, posts[0].ID}
			Expect(env.services.Collections.Reorder(ctx, collection.ID, ownerID, reversed)).To(Succeed())
			Expect(listPostIDs(collection.ID)).To(Equal(reversed))
		})

		It("rejects a partial reordering", func() {
			err := env.services.Collections.Reorder(ctx, collection.ID, ownerID, []ulid.ULID{posts[0].ID, posts[1].ID})
			Expect(err).To(MatchError(archive.ErrInvalidInput))
			Expect(err.Error()).To(ContainSubstring("every post in the collection exactly once"))
		})

		It("keeps surviving order after a removal", func() {
			Expect(env.services.Collections.RemovePost(ctx, collection.ID, ownerID, posts[1].ID)).To(Succeed())
			Expect(listPostIDs(collection.ID)).To(Equal([]ulid.ULID{posts[0].ID, posts[2].ID}))

			// A later addition still lands at the end.
			late := mustPost(ctx, ownerID, archive.PostWriting, "Epilogue")
			_, err := env.services.Collections.AddPost(ctx, collection.ID, ownerID, late.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(listPostIDs(collection.ID)).To(Equal([]ulid.ULID{posts[0].ID, posts[2].ID, late.ID}))
		})

		It("re-adds a removed post at the end under its original membership", func() {
			Expect(env.services.Collections.RemovePost(ctx, collection.ID, ownerID, posts[0].ID)).To(Succeed())

			m, err := env.services.Collections.AddPost(ctx, collection.ID, ownerID, posts[0].ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(listPostIDs(collection.ID)).To(Equal([]ulid.ULID{posts[1].ID, posts[2].ID, posts[0].ID}))
			Expect(m.SortOrder).To(BeNumerically(">=", 2))
		})

		It("hides soft-deleted posts without disturbing the rest", func() {
			Expect(env.services.Posts.Delete(ctx, ownerID, posts[1].ID)).To(Succeed())
			Expect(listPostIDs(collection.ID)).To(Equal([]ulid.ULID{posts[0].ID, posts[2].ID}))
		})
	})

	Describe("Delegated curation", func() {
		It("lets an editor curate but not delete the collection", func() {
			ownerID := createAccount(ctx, "curator_owner")
			editorID := createAccount(ctx, "curator_editor")

			gallery, err := env.services.Collections.Create(ctx, ownerID, archive.CreateCollectionInput{
				Kind:  archive.CollectionGallery,
				Title: "Commissions",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = env.services.Editors.Add(ctx, archive.EntityCollection, gallery.ID, ownerID, "curator_editor")
			Expect(err).NotTo(HaveOccurred())

			piece := mustPost(ctx, ownerID, archive.PostArt, "Commission One")
			_, err = env.services.Collections.AddPost(ctx, gallery.ID, editorID, piece.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(env.services.Collections.Delete(ctx, editorID, gallery.ID)).To(MatchError(archive.ErrForbidden))
			Expect(env.services.Collections.Delete(ctx, ownerID, gallery.ID)).To(Succeed())

			_, err = env.services.Collections.Get(ctx, gallery.ID)
			Expect(err).To(MatchError(archive.ErrNotFound))
		})
	})
})
