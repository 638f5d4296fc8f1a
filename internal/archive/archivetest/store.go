// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

// Package archivetest provides in-memory repository fakes for testing
// the archive services without a database.
package archivetest

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/lorekeep/lorekeep/internal/archive"
)

// Store holds all entities in insertion order. The repository fakes
// share one Store so cross-aggregate lookups (usernames on grants,
// profile names on attributions) behave like the SQL joins they mimic.
type Store struct {
	Accounts     []*archive.Account
	Profiles     []*archive.Profile
	Posts        []*archive.Post
	Collections  []*archive.Collection
	Grants       []*archive.EditorGrant
	Attributions []*archive.AuthorAttribution
	Memberships  []*archive.CollectionPost
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Repos returns fakes for every repository interface backed by s.
func (s *Store) Repos() (
	*AccountRepo, *ProfileRepo, *PostRepo, *CollectionRepo,
	*GrantRepo, *AttributionRepo, *MembershipRepo,
) {
	return &AccountRepo{s}, &ProfileRepo{s}, &PostRepo{s}, &CollectionRepo{s},
		&GrantRepo{s}, &AttributionRepo{s}, &MembershipRepo{s}
}

// SeedAccount adds an account and returns it.
func (s *Store) SeedAccount(username string) *archive.Account {
	a := &archive.Account{ID: ulid.Make(), Username: username, CreatedAt: time.Now().UTC()}
	s.Accounts = append(s.Accounts, a)
	return a
}

// Transactor runs the function directly; the fakes have no transactions.
type Transactor struct{}

// InTransaction calls fn with the unchanged context.
func (Transactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// AccountRepo is an in-memory archive.AccountRepository.
type AccountRepo struct{ s *Store }

func (r *AccountRepo) GetByID(_ context.Context, id ulid.ULID) (*archive.Account, error) {
	for _, a := range r.s.Accounts {
		if a.ID == id && a.Active() {
			return a, nil
		}
	}
	return nil, archive.ErrNotFound
}

func (r *AccountRepo) GetByUsername(_ context.Context, username string) (*archive.Account, error) {
	for _, a := range r.s.Accounts {
		if strings.EqualFold(a.Username, username) && a.Active() {
			return a, nil
		}
	}
	return nil, archive.ErrNotFound
}

// ProfileRepo is an in-memory archive.ProfileRepository.
type ProfileRepo struct{ s *Store }

func (r *ProfileRepo) Get(_ context.Context, id ulid.ULID) (*archive.Profile, error) {
	for _, p := range r.s.Profiles {
		if p.ID == id && p.Active() {
			return p, nil
		}
	}
	return nil, archive.ErrNotFound
}

func (r *ProfileRepo) Create(_ context.Context, p *archive.Profile) error {
	for _, existing := range r.s.Profiles {
		if existing.AccountID == p.AccountID && existing.Active() &&
			strings.EqualFold(existing.Name, p.Name) {
			return archive.ErrConflict
		}
	}
	r.s.Profiles = append(r.s.Profiles, p)
	return nil
}

func (r *ProfileRepo) Update(ctx context.Context, p *archive.Profile) error {
	existing, err := r.Get(ctx, p.ID)
	if err != nil {
		return err
	}
	*existing = *p
	return nil
}

func (r *ProfileRepo) SoftDelete(ctx context.Context, id ulid.ULID) error {
	p, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	p.DeletedAt = &now
	return nil
}

func (r *ProfileRepo) ListByAccount(_ context.Context, accountID ulid.ULID) ([]*archive.Profile, error) {
	out := make([]*archive.Profile, 0)
	for _, p := range r.s.Profiles {
		if p.AccountID == accountID && p.Active() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProfileRepo) ExistsByName(_ context.Context, accountID ulid.ULID, name string) (bool, error) {
	for _, p := range r.s.Profiles {
		if p.AccountID == accountID && p.Active() && strings.EqualFold(p.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *ProfileRepo) OwnerOf(ctx context.Context, id ulid.ULID) (ulid.ULID, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return ulid.ULID{}, err
	}
	return p.AccountID, nil
}

// PostRepo is an in-memory archive.PostRepository.
type PostRepo struct{ s *Store }

func (r *PostRepo) Get(_ context.Context, id ulid.ULID) (*archive.Post, error) {
	for _, p := range r.s.Posts {
		if p.ID == id && p.Active() {
			return p, nil
		}
	}
	return nil, archive.ErrNotFound
}

func (r *PostRepo) Create(_ context.Context, p *archive.Post) error {
	r.s.Posts = append(r.s.Posts, p)
	return nil
}

func (r *PostRepo) Update(ctx context.Context, p *archive.Post) error {
	existing, err := r.Get(ctx, p.ID)
	if err != nil {
		return err
	}
	*existing = *p
	return nil
}

func (r *PostRepo) SoftDelete(ctx context.Context, id ulid.ULID) error {
	p, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	p.DeletedAt = &now
	return nil
}

func (r *PostRepo) ListByAccount(_ context.Context, accountID ulid.ULID) ([]*archive.Post, error) {
	out := make([]*archive.Post, 0)
	for _, p := range r.s.Posts {
		if p.AccountID == accountID && p.Active() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PostRepo) OwnerOf(ctx context.Context, id ulid.ULID) (ulid.ULID, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return ulid.ULID{}, err
	}
	return p.AccountID, nil
}

// CollectionRepo is an in-memory archive.CollectionRepository.
type CollectionRepo struct{ s *Store }

func (r *CollectionRepo) Get(_ context.Context, id ulid.ULID) (*archive.Collection, error) {
	for _, c := range r.s.Collections {
		if c.ID == id && c.Active() {
			return c, nil
		}
	}
	return nil, archive.ErrNotFound
}

func (r *CollectionRepo) Create(_ context.Context, c *archive.Collection) error {
	r.s.Collections = append(r.s.Collections, c)
	return nil
}

func (r *CollectionRepo) Update(ctx context.Context, c *archive.Collection) error {
	existing, err := r.Get(ctx, c.ID)
	if err != nil {
		return err
	}
	*existing = *c
	return nil
}

func (r *CollectionRepo) SoftDelete(ctx context.Context, id ulid.ULID) error {
	c, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	c.DeletedAt = &now
	return nil
}

func (r *CollectionRepo) ListByAccount(_ context.Context, accountID ulid.ULID) ([]*archive.Collection, error) {
	out := make([]*archive.Collection, 0)
	for _, c := range r.s.Collections {
		if c.AccountID == accountID && c.Active() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *CollectionRepo) OwnerOf(ctx context.Context, id ulid.ULID) (ulid.ULID, error) {
	c, err := r.Get(ctx, id)
	if err != nil {
		return ulid.ULID{}, err
	}
	return c.AccountID, nil
}

// GrantRepo is an in-memory archive.GrantRepository.
type GrantRepo struct{ s *Store }

func (r *GrantRepo) Get(_ context.Context, id ulid.ULID) (*archive.EditorGrant, error) {
	for _, g := range r.s.Grants {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, archive.ErrNotFound
}

func (r *GrantRepo) ListActive(_ context.Context, kind archive.EntityKind, entityID ulid.ULID) ([]*archive.EditorGrantRecord, error) {
	out := make([]*archive.EditorGrantRecord, 0)
	for _, g := range r.s.Grants {
		if g.EntityKind != kind || g.EntityID != entityID || !g.Active() {
			continue
		}
		out = append(out, &archive.EditorGrantRecord{
			EditorGrant:       *g,
			GranteeUsername:   r.username(g.GranteeID),
			GrantedByUsername: r.username(g.GrantedByID),
		})
	}
	return out, nil
}

func (r *GrantRepo) username(id ulid.ULID) string {
	for _, a := range r.s.Accounts {
		if a.ID == id {
			return a.Username
		}
	}
	return ""
}

func (r *GrantRepo) FindByGrantee(_ context.Context, kind archive.EntityKind, entityID, granteeID ulid.ULID) (*archive.EditorGrant, error) {
	for i := len(r.s.Grants) - 1; i >= 0; i-- {
		g := r.s.Grants[i]
		if g.EntityKind == kind && g.EntityID == entityID && g.GranteeID == granteeID {
			return g, nil
		}
	}
	return nil, archive.ErrNotFound
}

func (r *GrantRepo) ActiveExists(_ context.Context, kind archive.EntityKind, entityID, granteeID ulid.ULID) (bool, error) {
	for _, g := range r.s.Grants {
		if g.EntityKind == kind && g.EntityID == entityID && g.GranteeID == granteeID && g.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (r *GrantRepo) Create(ctx context.Context, g *archive.EditorGrant) error {
	exists, _ := r.ActiveExists(ctx, g.EntityKind, g.EntityID, g.GranteeID)
	if exists {
		return archive.ErrConflict
	}
	r.s.Grants = append(r.s.Grants, g)
	return nil
}

func (r *GrantRepo) Reactivate(ctx context.Context, id, grantedByID ulid.ULID) (*archive.EditorGrant, error) {
	g, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.Active() {
		return nil, archive.ErrNotFound
	}
	g.DeletedAt = nil
	g.GrantedByID = grantedByID
	g.UpdatedAt = time.Now().UTC()
	return g, nil
}

func (r *GrantRepo) SoftDelete(ctx context.Context, id ulid.ULID) error {
	g, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if !g.Active() {
		return archive.ErrNotFound
	}
	now := time.Now().UTC()
	g.DeletedAt = &now
	return nil
}

// AttributionRepo is an in-memory archive.AttributionRepository.
type AttributionRepo struct{ s *Store }

func (r *AttributionRepo) Get(_ context.Context, id ulid.ULID) (*archive.AuthorAttribution, error) {
	for _, a := range r.s.Attributions {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, archive.ErrNotFound
}

func (r *AttributionRepo) ListActive(_ context.Context, kind archive.ContentKind, contentID ulid.ULID) ([]*archive.AttributionRecord, error) {
	primary := make([]*archive.AttributionRecord, 0)
	rest := make([]*archive.AttributionRecord, 0)
	for _, a := range r.s.Attributions {
		if a.ContentKind != kind || a.ContentID != contentID || !a.Active() {
			continue
		}
		rec := &archive.AttributionRecord{
			AuthorAttribution: *a,
			ProfileName:       r.profileName(a.ProfileID),
		}
		if a.IsPrimary {
			primary = append(primary, rec)
		} else {
			rest = append(rest, rec)
		}
	}
	return append(primary, rest...), nil
}

func (r *AttributionRepo) profileName(id ulid.ULID) string {
	for _, p := range r.s.Profiles {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}

func (r *AttributionRepo) FindByProfile(_ context.Context, kind archive.ContentKind, contentID, profileID ulid.ULID) (*archive.AuthorAttribution, error) {
	for i := len(r.s.Attributions) - 1; i >= 0; i-- {
		a := r.s.Attributions[i]
		if a.ContentKind == kind && a.ContentID == contentID && a.ProfileID == profileID {
			return a, nil
		}
	}
	return nil, archive.ErrNotFound
}

func (r *AttributionRepo) GetPrimary(_ context.Context, kind archive.ContentKind, contentID ulid.ULID) (*archive.AuthorAttribution, error) {
	for _, a := range r.s.Attributions {
		if a.ContentKind == kind && a.ContentID == contentID && a.IsPrimary && a.Active() {
			return a, nil
		}
	}
	return nil, archive.ErrNotFound
}

func (r *AttributionRepo) Create(_ context.Context, a *archive.AuthorAttribution) error {
	for _, existing := range r.s.Attributions {
		if existing.ContentKind == a.ContentKind && existing.ContentID == a.ContentID &&
			existing.ProfileID == a.ProfileID && existing.Active() {
			return archive.ErrConflict
		}
	}
	r.s.Attributions = append(r.s.Attributions, a)
	return nil
}

func (r *AttributionRepo) Reactivate(ctx context.Context, id ulid.ULID) (*archive.AuthorAttribution, error) {
	a, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Active() {
		return nil, archive.ErrNotFound
	}
	a.DeletedAt = nil
	a.UpdatedAt = time.Now().UTC()
	return a, nil
}

func (r *AttributionRepo) SetPrimary(ctx context.Context, id ulid.ULID, isPrimary bool) error {
	a, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if !a.Active() {
		return archive.ErrNotFound
	}
	a.IsPrimary = isPrimary
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *AttributionRepo) SoftDelete(ctx context.Context, id ulid.ULID) error {
	a, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if !a.Active() {
		return archive.ErrNotFound
	}
	now := time.Now().UTC()
	a.DeletedAt = &now
	return nil
}

// MembershipRepo is an in-memory archive.MembershipRepository.
type MembershipRepo struct{ s *Store }

func (r *MembershipRepo) Get(_ context.Context, id ulid.ULID) (*archive.CollectionPost, error) {
	for _, m := range r.s.Memberships {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, archive.ErrNotFound
}

func (r *MembershipRepo) ListActive(_ context.Context, collectionID ulid.ULID) ([]*archive.CollectionPost, error) {
	out := make([]*archive.CollectionPost, 0)
	for _, m := range r.s.Memberships {
		if m.CollectionID == collectionID && m.Active() {
			out = append(out, m)
		}
	}
	sortMemberships(out)
	return out, nil
}

func (r *MembershipRepo) ListPosts(ctx context.Context, collectionID ulid.ULID) ([]*archive.Post, error) {
	memberships, err := r.ListActive(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	out := make([]*archive.Post, 0, len(memberships))
	for _, m := range memberships {
		for _, p := range r.s.Posts {
			if p.ID == m.PostID && p.Active() {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r *MembershipRepo) FindByPost(_ context.Context, collectionID, postID ulid.ULID) (*archive.CollectionPost, error) {
	for i := len(r.s.Memberships) - 1; i >= 0; i-- {
		m := r.s.Memberships[i]
		if m.CollectionID == collectionID && m.PostID == postID {
			return m, nil
		}
	}
	return nil, archive.ErrNotFound
}

func (r *MembershipRepo) CountActive(ctx context.Context, collectionID ulid.ULID) (int, error) {
	memberships, err := r.ListActive(ctx, collectionID)
	if err != nil {
		return 0, err
	}
	return len(memberships), nil
}

func (r *MembershipRepo) Create(_ context.Context, m *archive.CollectionPost) error {
	for _, existing := range r.s.Memberships {
		if existing.CollectionID == m.CollectionID && existing.PostID == m.PostID && existing.Active() {
			return archive.ErrConflict
		}
	}
	r.s.Memberships = append(r.s.Memberships, m)
	return nil
}

func (r *MembershipRepo) Reactivate(ctx context.Context, id ulid.ULID, sortOrder int) (*archive.CollectionPost, error) {
	m, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Active() {
		return nil, archive.ErrNotFound
	}
	m.DeletedAt = nil
	m.SortOrder = sortOrder
	m.UpdatedAt = time.Now().UTC()
	return m, nil
}

func (r *MembershipRepo) UpdateSortOrder(ctx context.Context, id ulid.ULID, sortOrder int) error {
	m, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if !m.Active() {
		return archive.ErrNotFound
	}
	m.SortOrder = sortOrder
	m.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MembershipRepo) SoftDelete(ctx context.Context, id ulid.ULID) error {
	m, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if !m.Active() {
		return archive.ErrNotFound
	}
	now := time.Now().UTC()
	m.DeletedAt = &now
	return nil
}

func sortMemberships(ms []*archive.CollectionPost) {
	for i := 1; i < len(ms); i++ {
		for j := i; j > 0 && ms[j-1].SortOrder > ms[j].SortOrder; j-- {
			ms[j-1], ms[j] = ms[j], ms[j-1]
		}
	}
}

// Compile-time interface checks.
var (
	_ archive.AccountRepository     = (*AccountRepo)(nil)
	_ archive.ProfileRepository     = (*ProfileRepo)(nil)
	_ archive.PostRepository        = (*PostRepo)(nil)
	_ archive.CollectionRepository  = (*CollectionRepo)(nil)
	_ archive.GrantRepository       = (*GrantRepo)(nil)
	_ archive.AttributionRepository = (*AttributionRepo)(nil)
	_ archive.MembershipRepository  = (*MembershipRepo)(nil)
	_ archive.Transactor            = (Transactor{})
)
