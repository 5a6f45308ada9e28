package usecase

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medconnect/internal/domain/entity"
	"medconnect/internal/infrastructure/search"
	"medconnect/pkg/errors"
)

type fakeAuth struct {
	mu        sync.Mutex
	passwords map[string]string
	uids      map[string]string
	disabled  map[string]bool
	seq       int
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{passwords: map[string]string{}, uids: map[string]string{}, disabled: map[string]bool{}}
}

func (a *fakeAuth) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.uids[email]; ok {
		return "", errors.Auth(errors.CodeEmailInUse, "Email already in use", nil)
	}
	a.seq++
	uid := "uid" + string(rune('0'+a.seq))
	a.uids[email] = uid
	a.passwords[uid] = password
	return uid, nil
}

func (a *fakeAuth) VerifyToken(ctx context.Context, token string) (string, error) {
	return token, nil
}

func (a *fakeAuth) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	uid, ok := a.uids[email]
	if !ok {
		return nil, errors.Auth(errors.CodeUserNotFound, "No account", nil)
	}
	if a.passwords[uid] != password {
		return nil, errors.Auth(errors.CodeWrongPassword, "Wrong password", nil)
	}
	return &entity.Session{UID: uid, IDToken: "id-" + uid, RefreshToken: "rt-" + uid}, nil
}

func (a *fakeAuth) Refresh(ctx context.Context, refreshToken string) (*entity.Session, error) {
	return &entity.Session{IDToken: "fresh", RefreshToken: refreshToken}, nil
}

func (a *fakeAuth) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.passwords[uid] = newPassword
	return nil
}

func (a *fakeAuth) UpdateEmail(ctx context.Context, uid, email string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for e, id := range a.uids {
		if id == uid {
			delete(a.uids, e)
		}
	}
	a.uids[email] = uid
	return nil
}

func (a *fakeAuth) SendPasswordReset(ctx context.Context, email string) error { return nil }

func (a *fakeAuth) Providers(ctx context.Context, uid string) ([]string, error) {
	return []string{"password"}, nil
}

func (a *fakeAuth) Disable(ctx context.Context, uid string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.disabled[uid] = true
	return nil
}

func TestRegister_StartsOnboarding(t *testing.T) {
	users := newFakeUserRepo()
	uc := NewAuthUseCase(users, newFakeAuth(), &fakeNetwork{}, nil)

	result, err := uc.Register(context.Background(), RegisterInput{
		Email:     " Ana@Example.com ",
		Password:  "secret1",
		FirstName: "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.UserPhaseOnboarding, result.User.Phase)
	assert.Equal(t, "ana@example.com", result.User.Email)
	assert.Equal(t, entity.UserKindProfessional, result.User.Kind)
	assert.Equal(t, result.User.ID, result.Session.UID)
}

func TestRegister_RecordFailureDisablesIdentity(t *testing.T) {
	users := newFakeUserRepo()
	users.failNew = true
	auth := newFakeAuth()
	uc := NewAuthUseCase(users, auth, &fakeNetwork{}, nil)

	_, err := uc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "secret1"})
	require.Error(t, err)
	assert.True(t, auth.disabled[auth.uids["a@b.c"]])
}

func TestUpdatePassword_Reauthenticates(t *testing.T) {
	users := newFakeUserRepo()
	auth := newFakeAuth()
	uc := NewAuthUseCase(users, auth, &fakeNetwork{}, nil)
	ctx := context.Background()
	result, err := uc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "old-pass"})
	require.NoError(t, err)
	uid := result.User.ID

	err = uc.UpdatePassword(ctx, uid, "wrong", "new-pass")
	assert.True(t, errors.Is(err, errors.CodeWrongPassword))

	require.NoError(t, uc.UpdatePassword(ctx, uid, "old-pass", "new-pass"))
	_, err = uc.Login(ctx, "a@b.c", "new-pass")
	require.NoError(t, err)
}

func TestUpdateEmail_UpdatesRecord(t *testing.T) {
	users := newFakeUserRepo()
	uc := NewAuthUseCase(users, newFakeAuth(), &fakeNetwork{}, nil)
	ctx := context.Background()
	result, err := uc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "pass123"})
	require.NoError(t, err)

	require.NoError(t, uc.UpdateEmail(ctx, result.User.ID, "pass123", "New@b.c"))
	u, _ := users.GetByID(ctx, result.User.ID)
	assert.Equal(t, "new@b.c", u.Email)
}

func TestDeleteAccount_DeactivatesAndDisables(t *testing.T) {
	users := newFakeUserRepo()
	auth := newFakeAuth()
	uc := NewAuthUseCase(users, auth, &fakeNetwork{}, nil)
	ctx := context.Background()
	result, err := uc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "pass123"})
	require.NoError(t, err)
	uid := result.User.ID

	require.NoError(t, uc.DeleteAccount(ctx, uid, "pass123"))
	u, _ := users.GetByID(ctx, uid)
	assert.Equal(t, entity.UserPhaseDeactivated, u.Phase)
	assert.True(t, auth.disabled[uid])

	_, err = uc.Login(ctx, "a@b.c", "pass123")
	assert.True(t, errors.Is(err, errors.CodeUserNotFound))
}

func TestLogin_Offline(t *testing.T) {
	uc := NewAuthUseCase(newFakeUserRepo(), newFakeAuth(), &fakeNetwork{offline: true}, nil)
	_, err := uc.Login(context.Background(), "a@b.c", "x")
	assert.True(t, errors.Is(err, errors.CodeNetwork))
}

func newUserUseCase(users *fakeUserRepo) (*UserUseCase, *fakeFollowRepo, *fakeConnectionRepo) {
	follows := newFakeFollowRepo()
	conns := newFakeConnectionRepo()
	uc := NewUserUseCase(users, follows, conns, newFakePostRepo(), newFakeCaseRepo(), &fakeImages{}, &fakeNetwork{}, 16)
	return uc, follows, conns
}

func TestGetUser_Cached(t *testing.T) {
	users := newFakeUserRepo(&entity.User{ID: "u", FirstName: "Ana"})
	uc, _, _ := newUserUseCase(users)
	ctx := context.Background()

	first, err := uc.GetUser(ctx, "u")
	require.NoError(t, err)
	first.FirstName = "mutated"

	second, err := uc.GetUser(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "Ana", second.FirstName)
	assert.Equal(t, 1, users.gets)

	_, err = uc.UpdateProfile(ctx, "u", UpdateProfileInput{FirstName: "Ana María"})
	require.NoError(t, err)
	third, _ := uc.GetUser(ctx, "u")
	assert.Equal(t, "Ana María", third.FirstName)
}

func TestGetUsers_MissingFailsAll(t *testing.T) {
	users := newFakeUserRepo(&entity.User{ID: "a"}, &entity.User{ID: "b"})
	uc, _, _ := newUserUseCase(users)

	got, err := uc.GetUsers(context.Background(), []string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, "b", got[0].ID)

	_, err = uc.GetUsers(context.Background(), []string{"a", "ghost"})
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestUpdatePhase(t *testing.T) {
	users := newFakeUserRepo(&entity.User{ID: "u", Phase: entity.UserPhaseOnboarding})
	uc, _, _ := newUserUseCase(users)
	ctx := context.Background()

	err := uc.UpdatePhase(ctx, "u", entity.UserPhaseVerified)
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	require.NoError(t, uc.UpdatePhase(ctx, "u", entity.UserPhaseAwaitingVerification))

	err = uc.UpdatePhase(ctx, "u", entity.UserPhaseOnboarding)
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	require.NoError(t, uc.UpdatePhase(ctx, "u", entity.UserPhaseDeactivated))
}

func TestUpdatePhase_CannotSelfVerify(t *testing.T) {
	users := newFakeUserRepo(&entity.User{ID: "u", Phase: entity.UserPhaseAwaitingVerification})
	uc, _, _ := newUserUseCase(users)
	ctx := context.Background()

	err := uc.UpdatePhase(ctx, "u", entity.UserPhaseVerified)
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	user, err := uc.GetUser(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, entity.UserPhaseAwaitingVerification, user.Phase)
}

func TestVerify(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{ID: "waiting", Phase: entity.UserPhaseAwaitingVerification},
		&entity.User{ID: "new", Phase: entity.UserPhaseOnboarding},
		&entity.User{ID: "admin", Role: entity.UserRoleAdmin, Phase: entity.UserPhaseVerified},
	)
	uc, _, _ := newUserUseCase(users)
	ctx := context.Background()

	require.NoError(t, uc.Verify(ctx, "waiting"))
	user, err := uc.GetUser(ctx, "waiting")
	require.NoError(t, err)
	assert.Equal(t, entity.UserPhaseVerified, user.Phase)

	err = uc.Verify(ctx, "new")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	isAdmin, err := uc.IsAdmin(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, isAdmin)
	isAdmin, err = uc.IsAdmin(ctx, "waiting")
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestFetchStats(t *testing.T) {
	users := newFakeUserRepo(&entity.User{ID: "u"})
	uc, follows, conns := newUserUseCase(users)
	ctx := context.Background()
	require.NoError(t, follows.AddFollower(ctx, "u", "a"))
	require.NoError(t, follows.AddFollower(ctx, "u", "b"))
	require.NoError(t, follows.AddFollowing(ctx, "u", "c"))
	require.NoError(t, conns.Set(ctx, "u", "d", entity.ConnectionConnected))
	require.NoError(t, conns.Set(ctx, "u", "e", entity.ConnectionPending))

	stats, err := uc.FetchStats(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, entity.UserStats{Followers: 2, Following: 1, Connections: 1}, *stats)
}

func TestUploadProfileImage(t *testing.T) {
	users := newFakeUserRepo(&entity.User{ID: "u"})
	uc, _, _ := newUserUseCase(users)

	url, err := uc.UploadProfileImage(context.Background(), "u", bytes.NewReader([]byte("x")), "image/jpeg")
	require.NoError(t, err)
	u, _ := uc.GetUser(context.Background(), "u")
	assert.Equal(t, url, u.ImageURL)
}

func TestUploadBannerImage_DeletesReplaced(t *testing.T) {
	users := newFakeUserRepo(&entity.User{ID: "u", BannerURL: "https://blobs.test/old"})
	images := &fakeImages{}
	uc := NewUserUseCase(users, newFakeFollowRepo(), newFakeConnectionRepo(), newFakePostRepo(), newFakeCaseRepo(), images, &fakeNetwork{}, 16)

	url, err := uc.UploadBannerImage(context.Background(), "u", bytes.NewReader([]byte("x")), "image/png")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://blobs.test/old"}, images.deleted)

	u, _ := uc.GetUser(context.Background(), "u")
	assert.Equal(t, url, u.BannerURL)
}

type fakeRecentRepo struct {
	items map[string]*entity.RecentSearch
}

func (r *fakeRecentRepo) Add(ctx context.Context, uid string, recent *entity.RecentSearch) error {
	r.items[recent.ID] = recent
	return nil
}

func (r *fakeRecentRepo) List(ctx context.Context, uid string, limit int) ([]*entity.RecentSearch, error) {
	var out []*entity.RecentSearch
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRecentRepo) Delete(ctx context.Context, uid, id string) error {
	delete(r.items, id)
	return nil
}

func (r *fakeRecentRepo) Clear(ctx context.Context, uid string) error {
	r.items = map[string]*entity.RecentSearch{}
	return nil
}

func TestSearch_KeepsRankOrderAndDropsHidden(t *testing.T) {
	hidden := post("p2", "a", 2)
	hidden.Visibility = entity.VisibilityHidden
	posts := newFakePostRepo(post("p1", "a", 1), hidden, post("p3", "a", 3))
	searcher := &fakeSearcher{result: &search.Result{IDs: []string{"p3", "p2", "p1", "gone"}, Page: 0, NbPages: 2}}
	uc := NewSearchUseCase(searcher, newFakeUserRepo(), posts, newFakeCaseRepo(), &fakeRecentRepo{items: map[string]*entity.RecentSearch{}}, nil)

	result, err := uc.Search(context.Background(), "viewer", search.ScopePosts, "fever", 0, 20)
	require.NoError(t, err)
	require.Len(t, result.Posts, 2)
	assert.Equal(t, "p3", result.Posts[0].ID)
	assert.Equal(t, "p1", result.Posts[1].ID)
	assert.True(t, result.HasMore)

	_, err = uc.Search(context.Background(), "viewer", search.Scope("groups"), "fever", 0, 20)
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestSearch_DropsGroupContent(t *testing.T) {
	grouped := post("p2", "a", 2)
	grouped.Privacy = entity.PrivacyGroup
	grouped.GroupID = "private"
	posts := newFakePostRepo(post("p1", "a", 1), grouped)
	searcher := &fakeSearcher{result: &search.Result{IDs: []string{"p2", "p1"}}}
	uc := NewSearchUseCase(searcher, newFakeUserRepo(), posts, newFakeCaseRepo(), &fakeRecentRepo{items: map[string]*entity.RecentSearch{}}, nil)

	result, err := uc.Search(context.Background(), "outsider", search.ScopePosts, "fever", 0, 20)
	require.NoError(t, err)
	require.Len(t, result.Posts, 1)
	assert.Equal(t, "p1", result.Posts[0].ID)
}

func TestRecents_DeduplicatesAndKeepsTen(t *testing.T) {
	recents := &fakeRecentRepo{items: map[string]*entity.RecentSearch{}}
	uc := NewSearchUseCase(&fakeSearcher{}, newFakeUserRepo(), newFakePostRepo(), newFakeCaseRepo(), recents, nil)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		r, err := uc.AddRecent(ctx, "u", "term"+string(rune('a'+i)), "")
		require.NoError(t, err)
		r.Timestamp = int64(i) // strictly increasing regardless of clock resolution
	}
	list, err := uc.Recents(ctx, "u")
	require.NoError(t, err)
	assert.Len(t, list, maxRecentSearches)
	assert.Len(t, recents.items, maxRecentSearches)

	_, err = uc.AddRecent(ctx, "u", "TERMl", "")
	require.NoError(t, err)
	assert.Len(t, recents.items, maxRecentSearches)

	require.NoError(t, uc.ClearRecents(ctx, "u"))
	list, _ = uc.Recents(ctx, "u")
	assert.Empty(t, list)
}

func TestProfileSections(t *testing.T) {
	repo := &fakeProfileRepo{items: map[entity.ProfileSection][]*entity.ProfileItem{}}
	uc := NewProfileUseCase(repo, &fakeNetwork{})
	ctx := context.Background()

	_, err := uc.List(ctx, "u", entity.ProfileSection("hobbies"))
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = uc.Save(ctx, "u", entity.SectionEducation, &entity.ProfileItem{})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	item, err := uc.Save(ctx, "u", entity.SectionEducation, &entity.ProfileItem{Title: "MD", Organization: "UB"})
	require.NoError(t, err)
	assert.NotZero(t, item.Timestamp)

	list, err := uc.List(ctx, "u", entity.SectionEducation)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.Delete(ctx, "u", entity.SectionEducation, item.ID))
	list, _ = uc.List(ctx, "u", entity.SectionEducation)
	assert.Empty(t, list)
}

type fakeProfileRepo struct {
	items map[entity.ProfileSection][]*entity.ProfileItem
}

func (r *fakeProfileRepo) List(ctx context.Context, uid string, section entity.ProfileSection) ([]*entity.ProfileItem, error) {
	return r.items[section], nil
}

func (r *fakeProfileRepo) Set(ctx context.Context, uid string, section entity.ProfileSection, item *entity.ProfileItem) error {
	if item.ID == "" {
		item.ID = newID()
	}
	r.items[section] = append(r.items[section], item)
	return nil
}

func (r *fakeProfileRepo) Delete(ctx context.Context, uid string, section entity.ProfileSection, id string) error {
	kept := r.items[section][:0]
	for _, item := range r.items[section] {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	r.items[section] = kept
	return nil
}

func TestSuggestions_LimitIsBounded(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{ID: "u", Profession: "nurse"},
		&entity.User{ID: "a", Profession: "nurse"},
	)
	uc, _, _ := newUserUseCase(users)

	got, err := uc.Suggestions(context.Background(), "u", "", 100000)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, maxSuggestions, users.lastLimit)
}
