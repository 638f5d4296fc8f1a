// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

//go:build integration

package archive_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/lorekeep/lorekeep/internal/archive"
)

var _ = Describe("Editor delegation and attribution", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		cleanupArchive(ctx, env.pool)
	})

	Describe("Profile hierarchy", func() {
		It("creates dependent profiles under an owned character", func() {
			ownerID := createAccount(ctx, "hierarchy_owner")
			character := mustCharacter(ctx, ownerID, "Aria Moon")

			item, err := env.services.Profiles.Create(ctx, ownerID, archive.CreateProfileInput{
				Kind:            archive.ProfileItem,
				Name:            "Moonblade",
				ParentProfileID: &character.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(item.ParentProfileID).To(HaveValue(Equal(character.ID)))
		})

		It("rejects a parent character owned by someone else", func() {
			ownerID := createAccount(ctx, "hierarchy_owner")
			otherID := createAccount(ctx, "hierarchy_other")
			character := mustCharacter(ctx, otherID, "Not Yours")

			_, err := env.services.Profiles.Create(ctx, ownerID, archive.CreateProfileInput{
				Kind:            archive.ProfileItem,
				Name:            "Stolen Blade",
				ParentProfileID: &character.ID,
			})
			Expect(err).To(MatchError(archive.ErrInvalidInput))
		})

		It("frees a profile name for reuse after deletion", func() {
			ownerID := createAccount(ctx, "hierarchy_owner")
			character := mustCharacter(ctx, ownerID, "Aria Moon")

			_, err := env.services.Profiles.Create(ctx, ownerID, archive.CreateProfileInput{
				Kind: archive.ProfileCharacter,
				Name: "aria moon",
			})
			Expect(err).To(MatchError(archive.ErrConflict))

			Expect(env.services.Profiles.Delete(ctx, ownerID, character.ID)).To(Succeed())

			_, err = env.services.Profiles.Create(ctx, ownerID, archive.CreateProfileInput{
				Kind: archive.ProfileCharacter,
				Name: "Aria Moon",
			})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Editor grants", func() {
		It("lets a grantee edit but not delete or delegate", func() {
			ownerID := createAccount(ctx, "grant_owner")
			editorID := createAccount(ctx, "grant_editor")
			strangerID := createAccount(ctx, "grant_stranger")
			post := mustPost(ctx, ownerID, archive.PostWriting, "Shared Draft")

			_, err := env.services.Posts.Update(ctx, editorID, post.ID, archive.UpdatePostInput{Title: "Too Early"})
			Expect(err).To(MatchError(archive.ErrForbidden))

			_, err = env.services.Editors.Add(ctx, archive.EntityPost, post.ID, ownerID, "grant_editor")
			Expect(err).NotTo(HaveOccurred())

			updated, err := env.services.Posts.Update(ctx, editorID, post.ID, archive.UpdatePostInput{Title: "Edited By Grantee"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Title).To(Equal("Edited By Grantee"))

			// Editing rights never include deletion or delegation.
			Expect(env.services.Posts.Delete(ctx, editorID, post.ID)).To(MatchError(archive.ErrForbidden))
			_, err = env.services.Editors.Add(ctx, archive.EntityPost, post.ID, editorID, "grant_stranger")
			Expect(err).To(MatchError(archive.ErrForbidden))

			_, err = env.services.Posts.Update(ctx, strangerID, post.ID, archive.UpdatePostInput{Title: "Nope"})
			Expect(err).To(MatchError(archive.ErrForbidden))
		})

		It("revives the original grant when an editor is re-added", func() {
			ownerID := createAccount(ctx, "grant_owner")
			createAccount(ctx, "grant_editor")
			post := mustPost(ctx, ownerID, archive.PostWriting, "Revolving Door")

			first, err := env.services.Editors.Add(ctx, archive.EntityPost, post.ID, ownerID, "grant_editor")
			Expect(err).NotTo(HaveOccurred())

			Expect(env.services.Editors.Remove(ctx, archive.EntityPost, post.ID, ownerID, first.ID)).To(Succeed())

			second, err := env.services.Editors.Add(ctx, archive.EntityPost, post.ID, ownerID, "grant_editor")
			Expect(err).NotTo(HaveOccurred())
			Expect(second.ID).To(Equal(first.ID))

			records, err := env.services.Editors.List(ctx, archive.EntityPost, post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].GranteeUsername).To(Equal("grant_editor"))
		})

		It("lets a grantee walk away on their own", func() {
			ownerID := createAccount(ctx, "grant_owner")
			editorID := createAccount(ctx, "grant_editor")
			post := mustPost(ctx, ownerID, archive.PostWriting, "Abandoned Draft")

			g, err := env.services.Editors.Add(ctx, archive.EntityPost, post.ID, ownerID, "grant_editor")
			Expect(err).NotTo(HaveOccurred())

			Expect(env.services.Editors.Remove(ctx, archive.EntityPost, post.ID, editorID, g.ID)).To(Succeed())

			_, err = env.services.Posts.Update(ctx, editorID, post.ID, archive.UpdatePostInput{Title: "No Longer Mine"})
			Expect(err).To(MatchError(archive.ErrForbidden))
		})
	})

	Describe("Author attribution", func() {
		It("carries primary status through creation, transfer, and removal", func() {
			ownerID := createAccount(ctx, "author_owner")
			narrator := mustCharacter(ctx, ownerID, "Narrator")
			guest := mustCharacter(ctx, ownerID, "Guest Star")

			post, err := env.services.Posts.Create(ctx, ownerID, archive.CreatePostInput{
				Kind:            archive.PostWriting,
				Title:           "Two Voices",
				AuthorProfileID: &narrator.ID,
			})
			Expect(err).NotTo(HaveOccurred())

			added, err := env.services.Authors.Add(ctx, archive.ContentPost, post.ID, ownerID, guest.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(added.IsPrimary).To(BeFalse(), "added authors are never primary")

			records, err := env.services.Authors.List(ctx, archive.ContentPost, post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].ProfileName).To(Equal("Narrator"))
			Expect(records[0].IsPrimary).To(BeTrue())

			// The primary author cannot be removed outright.
			Expect(env.services.Authors.Remove(ctx, archive.ContentPost, post.ID, ownerID, records[0].ID)).
				To(MatchError(archive.ErrInvalidInput))

			Expect(env.services.Authors.TransferPrimary(ctx, archive.ContentPost, post.ID, ownerID, added.ID)).
				To(Succeed())

			records, err = env.services.Authors.List(ctx, archive.ContentPost, post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(records[0].ProfileName).To(Equal("Guest Star"))
			Expect(records[0].IsPrimary).To(BeTrue())
			Expect(records[1].IsPrimary).To(BeFalse())

			// The demoted author can now leave the byline.
			Expect(env.services.Authors.Remove(ctx, archive.ContentPost, post.ID, ownerID, records[1].ID)).
				To(Succeed())
		})

		It("lets an editor credit their own character on the owner's post", func() {
			ownerID := createAccount(ctx, "author_owner")
			editorID := createAccount(ctx, "author_editor")
			cowriter := mustCharacter(ctx, editorID, "Co-Writer")
			post := mustPost(ctx, ownerID, archive.PostWriting, "Joint Work")

			_, err := env.services.Editors.Add(ctx, archive.EntityPost, post.ID, ownerID, "author_editor")
			Expect(err).NotTo(HaveOccurred())

			added, err := env.services.Authors.Add(ctx, archive.ContentPost, post.ID, editorID, cowriter.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(added.ProfileName).To(Equal("Co-Writer"))
		})

		It("restores a removed attribution with its identity intact", func() {
			ownerID := createAccount(ctx, "author_owner")
			mustCharacter(ctx, ownerID, "Narrator")
			guest := mustCharacter(ctx, ownerID, "Guest Star")
			post := mustPost(ctx, ownerID, archive.PostWriting, "On Again Off Again")

			first, err := env.services.Authors.Add(ctx, archive.ContentPost, post.ID, ownerID, guest.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(env.services.Authors.Remove(ctx, archive.ContentPost, post.ID, ownerID, first.ID)).To(Succeed())

			second, err := env.services.Authors.Add(ctx, archive.ContentPost, post.ID, ownerID, guest.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.ID).To(Equal(first.ID))
		})
	})
})
