package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/internal/infrastructure/search"
	"medconnect/internal/infrastructure/storage"
	"medconnect/pkg/errors"
)

type fakeNetwork struct{ offline bool }

func (n *fakeNetwork) Require() error {
	if n.offline {
		return errors.Network()
	}
	return nil
}

type functionCall struct {
	Name string
	Args interface{}
}

type fakeFunctions struct {
	mu    sync.Mutex
	calls []functionCall
}

func (f *fakeFunctions) Call(name string, args interface{}, idToken string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, functionCall{Name: name, Args: args})
}

func (f *fakeFunctions) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Name
	}
	return out
}

type published struct {
	UserID string
	Type   string
	Data   interface{}
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []published
}

func (b *fakeBroadcaster) Publish(userID, eventType string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, published{UserID: userID, Type: eventType, Data: data})
}

type fakeImages struct {
	uploads int
	deleted []string
}

func (f *fakeImages) Delete(ctx context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeImages) UploadImage(ctx context.Context, kind entity.ImageKind, id string, r io.Reader, contentType string) (string, error) {
	f.uploads++
	return fmt.Sprintf("https://blobs.test/%s/%s/%d", kind.Folder(), id, f.uploads), nil
}

func (f *fakeImages) UploadImages(ctx context.Context, kind entity.ImageKind, id string, files []storage.Upload) ([]string, error) {
	urls := make([]string, len(files))
	for i, file := range files {
		url, err := f.UploadImage(ctx, kind, id, file.Reader, file.ContentType)
		if err != nil {
			return nil, err
		}
		urls[i] = url
	}
	return urls, nil
}

// fakeEngagement keeps like and bookmark edges in memory.
type fakeEngagement struct {
	mu        sync.Mutex
	likes     map[string]map[string]bool
	bookmarks map[string]map[string]time.Time
	comments  map[string]int64
	byUser    map[string]int64
}

func newFakeEngagement() *fakeEngagement {
	return &fakeEngagement{
		likes:     map[string]map[string]bool{},
		bookmarks: map[string]map[string]time.Time{},
		comments:  map[string]int64{},
		byUser:    map[string]int64{},
	}
}

func (f *fakeEngagement) Like(ctx context.Context, contentID, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.likes[contentID] == nil {
		f.likes[contentID] = map[string]bool{}
	}
	f.likes[contentID][uid] = true
	return nil
}

func (f *fakeEngagement) Unlike(ctx context.Context, contentID, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.likes[contentID], uid)
	return nil
}

func (f *fakeEngagement) Bookmark(ctx context.Context, contentID, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bookmarks[uid] == nil {
		f.bookmarks[uid] = map[string]time.Time{}
	}
	f.bookmarks[uid][contentID] = time.Now()
	return nil
}

func (f *fakeEngagement) Unbookmark(ctx context.Context, contentID, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.bookmarks[uid], contentID)
	return nil
}

func (f *fakeEngagement) CountLikes(ctx context.Context, contentID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.likes[contentID])), nil
}

func (f *fakeEngagement) CountComments(ctx context.Context, contentID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.comments[contentID], nil
}

func (f *fakeEngagement) DidLike(ctx context.Context, contentID, uid string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.likes[contentID][uid], nil
}

func (f *fakeEngagement) DidBookmark(ctx context.Context, contentID, uid string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.bookmarks[uid][contentID]
	return ok, nil
}

func (f *fakeEngagement) ListBookmarks(ctx context.Context, uid, cursor string, limit int) ([]*entity.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Bookmark
	for id, ts := range f.bookmarks[uid] {
		out = append(out, &entity.Bookmark{ID: id, Timestamp: ts})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEngagement) CountByUser(ctx context.Context, uid string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byUser[uid], nil
}

type fakePostRepo struct {
	*fakeEngagement
	mu        sync.Mutex
	posts     map[string]*entity.Post
	likeErr   error
	lastQuery repository.ContentFilter
}

func newFakePostRepo(posts ...*entity.Post) *fakePostRepo {
	r := &fakePostRepo{fakeEngagement: newFakeEngagement(), posts: map[string]*entity.Post{}}
	for _, p := range posts {
		r.posts[p.ID] = p
	}
	return r
}

func (r *fakePostRepo) Like(ctx context.Context, contentID, uid string) error {
	if r.likeErr != nil {
		return r.likeErr
	}
	return r.fakeEngagement.Like(ctx, contentID, uid)
}

func (r *fakePostRepo) Create(ctx context.Context, post *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post.ID == "" {
		post.ID = fmt.Sprintf("post-%d", len(r.posts)+1)
	}
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *fakePostRepo) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, errors.NotFound("Post", nil)
	}
	copied := *p
	return &copied, nil
}

func (r *fakePostRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Post, error) {
	var out []*entity.Post
	for _, id := range ids {
		if p, err := r.GetByID(ctx, id); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

// List pages like the document store: newest first, starting after the
// cursor document. The page itself is returned in map order so the caller's
// sort is observable.
func (r *fakePostRepo) List(ctx context.Context, filter repository.ContentFilter, cursor string, limit int) ([]*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = filter
	want := filter.Visibility
	if want == "" {
		want = entity.VisibilityRegular
	}

	var matched []*entity.Post
	for _, p := range r.posts {
		if p.Visibility != want {
			continue
		}
		if filter.UserID != "" && p.UserID != filter.UserID {
			continue
		}
		if filter.GroupID != "" && p.GroupID != filter.GroupID {
			continue
		}
		if filter.ExcludeGroups && p.Privacy == entity.PrivacyGroup {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].ID < matched[j].ID
	})

	if cursor != "" {
		at, ok := r.posts[cursor]
		if !ok {
			return nil, errors.BadRequest("Invalid cursor", nil)
		}
		idx := len(matched)
		for i, p := range matched {
			if p.Timestamp.Before(at.Timestamp) || (p.Timestamp.Equal(at.Timestamp) && p.ID > at.ID) {
				idx = i
				break
			}
		}
		matched = matched[idx:]
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	page := map[string]bool{}
	for _, p := range matched {
		page[p.ID] = true
	}
	var out []*entity.Post
	for id, p := range r.posts {
		if page[id] {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakePostRepo) UpdateContent(ctx context.Context, id, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[id].Content = content
	r.posts[id].Edited = true
	return nil
}

func (r *fakePostRepo) UpdateVisibility(ctx context.Context, id string, visibility entity.Visibility) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[id].Visibility = visibility
	return nil
}

type fakeCaseRepo struct {
	*fakeEngagement
	mu    sync.Mutex
	cases map[string]*entity.Case
}

func newFakeCaseRepo(cases ...*entity.Case) *fakeCaseRepo {
	r := &fakeCaseRepo{fakeEngagement: newFakeEngagement(), cases: map[string]*entity.Case{}}
	for _, c := range cases {
		r.cases[c.ID] = c
	}
	return r
}

func (r *fakeCaseRepo) Create(ctx context.Context, c *entity.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = fmt.Sprintf("case-%d", len(r.cases)+1)
	}
	copied := *c
	r.cases[c.ID] = &copied
	return nil
}

func (r *fakeCaseRepo) GetByID(ctx context.Context, id string) (*entity.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[id]
	if !ok {
		return nil, errors.NotFound("Case", nil)
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCaseRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Case, error) {
	var out []*entity.Case
	for _, id := range ids {
		if c, err := r.GetByID(ctx, id); err == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCaseRepo) List(ctx context.Context, filter repository.ContentFilter, cursor string, limit int) ([]*entity.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Case
	for _, c := range r.cases {
		if c.Visibility != entity.VisibilityRegular {
			continue
		}
		if filter.Hashtag != "" {
			found := false
			for _, h := range c.Hashtags {
				found = found || h == filter.Hashtag
			}
			if !found {
				continue
			}
		}
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeCaseRepo) UpdateVisibility(ctx context.Context, id string, visibility entity.Visibility) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cases[id].Visibility = visibility
	return nil
}

func (r *fakeCaseRepo) Solve(ctx context.Context, id, revision string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cases[id].Phase = entity.CasePhaseSolved
	if revision != "" {
		r.cases[id].Revision = revision
	}
	return nil
}

func (r *fakeCaseRepo) AddRevision(ctx context.Context, id, revision string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cases[id].Revision = revision
	return nil
}

type fakeGroupRepo struct {
	mu      sync.Mutex
	groups  map[string]*entity.Group
	members map[string]map[string]*entity.GroupMember
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups:  map[string]*entity.Group{},
		members: map[string]map[string]*entity.GroupMember{},
	}
}

func (r *fakeGroupRepo) put(group *entity.Group, members ...*entity.GroupMember) {
	r.groups[group.ID] = group
	r.members[group.ID] = map[string]*entity.GroupMember{}
	for _, m := range members {
		r.members[group.ID][m.UserID] = m
	}
}

func (r *fakeGroupRepo) Create(ctx context.Context, group *entity.Group, owner *entity.GroupMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if group.ID == "" {
		group.ID = fmt.Sprintf("group-%d", len(r.groups)+1)
	}
	r.put(group, owner)
	return nil
}

func (r *fakeGroupRepo) GetByID(ctx context.Context, id string) (*entity.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return nil, errors.NotFound("Group", nil)
	}
	copied := *g
	return &copied, nil
}

func (r *fakeGroupRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Group, error) {
	var out []*entity.Group
	for _, id := range ids {
		if g, err := r.GetByID(ctx, id); err == nil {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) ListPublic(ctx context.Context, profession, cursor string, limit int) ([]*entity.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Group
	for _, g := range r.groups {
		if g.Visibility == entity.GroupPublic {
			copied := *g
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) GetMember(ctx context.Context, groupID, uid string) (*entity.GroupMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[groupID][uid]
	if !ok {
		return nil, errors.NotFound("Group member", nil)
	}
	copied := *m
	return &copied, nil
}

func (r *fakeGroupRepo) SetMember(ctx context.Context, groupID string, member *entity.GroupMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.members[groupID] == nil {
		r.members[groupID] = map[string]*entity.GroupMember{}
	}
	r.members[groupID][member.UserID] = member
	return nil
}

func (r *fakeGroupRepo) RemoveMember(ctx context.Context, groupID, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members[groupID], uid)
	return nil
}

func (r *fakeGroupRepo) ListMembers(ctx context.Context, groupID string, phase entity.MemberPhase, cursor string, limit int) ([]*entity.GroupMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.GroupMember
	for _, m := range r.members[groupID] {
		if phase == "" || m.Phase == phase {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) CountMembers(ctx context.Context, groupID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.members[groupID] {
		if isActiveMember(m.Phase) {
			n++
		}
	}
	return n, nil
}

func (r *fakeGroupRepo) ListUserGroupIDs(ctx context.Context, uid string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for groupID, members := range r.members {
		if m, ok := members[uid]; ok && isActiveMember(m.Phase) {
			ids = append(ids, groupID)
		}
	}
	return ids, nil
}

// fakeConnectionRepo stores both sides and can fail writes addressed to a
// given owner.
type fakeConnectionRepo struct {
	mu      sync.Mutex
	edges   map[[2]string]entity.ConnectionPhase
	failFor string
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{edges: map[[2]string]entity.ConnectionPhase{}}
}

func (r *fakeConnectionRepo) phase(uid, otherID string) (entity.ConnectionPhase, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.edges[[2]string{uid, otherID}]
	return p, ok
}

func (r *fakeConnectionRepo) Get(ctx context.Context, uid, otherID string) (*entity.Connection, error) {
	p, ok := r.phase(uid, otherID)
	if !ok {
		return nil, errors.NotFound("Connection", nil)
	}
	return &entity.Connection{UserID: otherID, Phase: p}, nil
}

func (r *fakeConnectionRepo) Set(ctx context.Context, uid, otherID string, phase entity.ConnectionPhase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if uid == r.failFor {
		return errors.Unknown("write failed", nil)
	}
	r.edges[[2]string{uid, otherID}] = phase
	return nil
}

func (r *fakeConnectionRepo) Delete(ctx context.Context, uid, otherID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.edges, [2]string{uid, otherID})
	return nil
}

func (r *fakeConnectionRepo) List(ctx context.Context, uid string, phase entity.ConnectionPhase, cursor string, limit int) ([]*entity.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Connection
	for key, p := range r.edges {
		if key[0] == uid && p == phase {
			out = append(out, &entity.Connection{UserID: key[1], Phase: p})
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) Count(ctx context.Context, uid string, phase entity.ConnectionPhase) (int64, error) {
	list, _ := r.List(ctx, uid, phase, "", 0)
	return int64(len(list)), nil
}

type fakeFollowRepo struct {
	mu            sync.Mutex
	following     map[[2]string]bool
	followers     map[[2]string]bool
	failFollower  bool
	failUnfollows bool
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{following: map[[2]string]bool{}, followers: map[[2]string]bool{}}
}

func (r *fakeFollowRepo) AddFollowing(ctx context.Context, uid, otherID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.following[[2]string{uid, otherID}] = true
	return nil
}

func (r *fakeFollowRepo) RemoveFollowing(ctx context.Context, uid, otherID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.following, [2]string{uid, otherID})
	return nil
}

func (r *fakeFollowRepo) AddFollower(ctx context.Context, uid, followerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFollower {
		return errors.Unknown("write failed", nil)
	}
	r.followers[[2]string{uid, followerID}] = true
	return nil
}

func (r *fakeFollowRepo) RemoveFollower(ctx context.Context, uid, followerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUnfollows {
		return errors.Unknown("write failed", nil)
	}
	delete(r.followers, [2]string{uid, followerID})
	return nil
}

func (r *fakeFollowRepo) IsFollowing(ctx context.Context, uid, otherID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.following[[2]string{uid, otherID}], nil
}

func (r *fakeFollowRepo) ListFollowing(ctx context.Context, uid, cursor string, limit int) ([]*entity.Follow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Follow
	for key := range r.following {
		if key[0] == uid {
			out = append(out, &entity.Follow{UserID: key[1]})
		}
	}
	return out, nil
}

func (r *fakeFollowRepo) ListFollowers(ctx context.Context, uid, cursor string, limit int) ([]*entity.Follow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Follow
	for key := range r.followers {
		if key[0] == uid {
			out = append(out, &entity.Follow{UserID: key[1]})
		}
	}
	return out, nil
}

func (r *fakeFollowRepo) CountFollowing(ctx context.Context, uid string) (int64, error) {
	list, _ := r.ListFollowing(ctx, uid, "", 0)
	return int64(len(list)), nil
}

func (r *fakeFollowRepo) CountFollowers(ctx context.Context, uid string) (int64, error) {
	list, _ := r.ListFollowers(ctx, uid, "", 0)
	return int64(len(list)), nil
}

type fakeBlockRepo struct {
	mu      sync.Mutex
	blocked map[[2]string]bool
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{blocked: map[[2]string]bool{}}
}

func (r *fakeBlockRepo) Block(ctx context.Context, uid, otherID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocked[[2]string{uid, otherID}] = true
	return nil
}

func (r *fakeBlockRepo) Unblock(ctx context.Context, uid, otherID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blocked, [2]string{uid, otherID})
	return nil
}

func (r *fakeBlockRepo) IsBlocked(ctx context.Context, uid, otherID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blocked[[2]string{uid, otherID}], nil
}

func (r *fakeBlockRepo) List(ctx context.Context, uid, cursor string, limit int) ([]*entity.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Block
	for key := range r.blocked {
		if key[0] == uid {
			out = append(out, &entity.Block{UserID: key[1]})
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	gets      int
	failNew   bool
	lastLimit int
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*entity.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNew {
		return errors.Unknown("write failed", nil)
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	u, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	var out []*entity.User
	for _, id := range ids {
		if u, err := r.GetByID(ctx, id); err == nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	for key, value := range fields {
		s, _ := value.(string)
		if s == "" {
			continue
		}
		switch key {
		case "firstName":
			u.FirstName = s
		case "lastName":
			u.LastName = s
		case "email":
			u.Email = s
		case "phase":
			u.Phase = entity.UserPhase(s)
		case "imageUrl":
			u.ImageURL = s
		case "bannerUrl":
			u.BannerURL = s
		case "profession":
			u.Profession = s
		}
	}
	return nil
}

func (r *fakeUserRepo) ListByProfession(ctx context.Context, profession, excludeID string, limit int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit
	var out []*entity.User
	for _, u := range r.users {
		if u.Profession == profession && u.ID != excludeID {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeSearcher struct {
	result *search.Result
}

func (f *fakeSearcher) Search(ctx context.Context, scope search.Scope, term string, page, hitsPerPage int) (*search.Result, error) {
	return f.result, nil
}
