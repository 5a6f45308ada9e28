package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medconnect/internal/adapter/repository"
	"medconnect/internal/domain/entity"
	"medconnect/internal/infrastructure/localdb"
	"medconnect/pkg/errors"
)

type fakeNotificationRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Notification
}

func (r *fakeNotificationRepo) List(ctx context.Context, uid, cursor string, limit int) ([]*entity.Notification, error) {
	return r.ListSince(ctx, uid, time.Time{})
}

func (r *fakeNotificationRepo) ListSince(ctx context.Context, uid string, since time.Time) ([]*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Notification
	for _, n := range r.items {
		if n.UserID == uid && n.Timestamp.After(since) {
			copied := *n
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, uid string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, item := range r.items {
		if item.UserID == uid && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, uid, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[id].IsRead = true
	return nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, uid, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type fakeNotificationStore struct {
	items map[string]*entity.Notification
	saves int
}

func (s *fakeNotificationStore) Save(ctx context.Context, notifications []*entity.Notification) error {
	s.saves++
	for _, n := range notifications {
		s.items[n.ID] = n
	}
	return nil
}

func (s *fakeNotificationStore) List(ctx context.Context, uid string, limit, offset int) ([]*entity.Notification, int64, error) {
	var out []*entity.Notification
	for _, n := range s.items {
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

func (s *fakeNotificationStore) MarkRead(ctx context.Context, id string) error {
	if n, ok := s.items[id]; ok {
		n.IsRead = true
	}
	return nil
}

func (s *fakeNotificationStore) Delete(ctx context.Context, id string) error {
	delete(s.items, id)
	return nil
}

func (s *fakeNotificationStore) UnreadCount(ctx context.Context, uid string) (int64, error) {
	var n int64
	for _, item := range s.items {
		if !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (s *fakeNotificationStore) LatestTimestamp(ctx context.Context, uid string) (time.Time, error) {
	var latest time.Time
	for _, n := range s.items {
		if n.Timestamp.After(latest) {
			latest = n.Timestamp
		}
	}
	return latest, nil
}

func notification(id string, minutes int) *entity.Notification {
	return &entity.Notification{ID: id, UserID: "u", FromID: "x", Kind: entity.NotificationFollow, Timestamp: base.Add(time.Duration(minutes) * time.Minute)}
}

func TestNotificationSync_FetchesOnlyNewer(t *testing.T) {
	remote := &fakeNotificationRepo{items: map[string]*entity.Notification{
		"n1": notification("n1", 1),
		"n2": notification("n2", 2),
	}}
	local := &fakeNotificationStore{items: map[string]*entity.Notification{}}
	uc := NewNotificationUseCase(remote, local, &fakeNetwork{})
	ctx := context.Background()

	n, err := uc.Sync(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	remote.items["n3"] = notification("n3", 3)
	n, err = uc.Sync(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = uc.Sync(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, local.saves)

	badge, err := uc.LocalBadge(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, int64(3), badge)
}

func TestNotificationMarkReadAndDelete_UpdateBothCopies(t *testing.T) {
	remote := &fakeNotificationRepo{items: map[string]*entity.Notification{"n1": notification("n1", 1), "n2": notification("n2", 2)}}
	local := &fakeNotificationStore{items: map[string]*entity.Notification{}}
	uc := NewNotificationUseCase(remote, local, &fakeNetwork{})
	ctx := context.Background()
	_, err := uc.Sync(ctx, "u")
	require.NoError(t, err)

	require.NoError(t, uc.MarkRead(ctx, "u", "n1"))
	unread, err := uc.UnreadCount(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
	assert.True(t, local.items["n1"].IsRead)

	require.NoError(t, uc.Delete(ctx, "u", "n2"))
	items, total, err := uc.LocalList(ctx, "u", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "n1", items[0].ID)
}

func TestNotificationSync_Offline(t *testing.T) {
	uc := NewNotificationUseCase(&fakeNotificationRepo{}, &fakeNotificationStore{}, &fakeNetwork{offline: true})
	_, err := uc.Sync(context.Background(), "u")
	assert.True(t, errors.Is(err, errors.CodeNetwork))
}

func TestNotificationSync_SubMillisecondTimestampSyncsOnce(t *testing.T) {
	db, err := localdb.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	at := time.Date(2024, 3, 1, 12, 0, 0, 123456000, time.UTC)
	remote := &fakeNotificationRepo{items: map[string]*entity.Notification{
		"n1": {ID: "n1", UserID: "u", FromID: "x", Kind: entity.NotificationFollow, Timestamp: at},
	}}
	uc := NewNotificationUseCase(remote, repository.NewSQLiteNotificationStore(db), &fakeNetwork{})
	ctx := context.Background()

	n, err := uc.Sync(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	for i := 0; i < 2; i++ {
		n, err = uc.Sync(ctx, "u")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	}
}
