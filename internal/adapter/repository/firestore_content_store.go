package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

// contentStore implements the engagement edges for one content family.
// Likes live under {collection}/{id}/likes/{uid} with an index at
// users/{uid}/{prefix}-likes/{id}; bookmarks only have the user index.
type contentStore struct {
	client     *firestore.Client
	collection string
	prefix     string
	resource   string
}

func newContentStore(client *firestore.Client, kind entity.ContentKind) *contentStore {
	resource := "Post"
	if kind == entity.ContentCase {
		resource = "Case"
	}
	return &contentStore{
		client:     client,
		collection: kind.Collection(),
		prefix:     string(kind),
		resource:   resource,
	}
}

func (s *contentStore) coll() *firestore.CollectionRef {
	return s.client.Collection(s.collection)
}

func (s *contentStore) likeRef(contentID, uid string) *firestore.DocumentRef {
	return s.coll().Doc(contentID).Collection("likes").Doc(uid)
}

func (s *contentStore) userLikeRef(contentID, uid string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(uid).Collection(s.prefix + "-likes").Doc(contentID)
}

func (s *contentStore) bookmarks(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection(s.prefix + "-bookmarks")
}

func (s *contentStore) Like(ctx context.Context, contentID, uid string) error {
	now := time.Now()
	batch := s.client.Batch()
	batch.Set(s.likeRef(contentID, uid), map[string]interface{}{"uid": uid, "timestamp": now})
	batch.Set(s.userLikeRef(contentID, uid), map[string]interface{}{"id": contentID, "timestamp": now})

	if _, err := batch.Commit(ctx); err != nil {
		return errors.FromBackend(err, s.resource+" like")
	}
	return nil
}

func (s *contentStore) Unlike(ctx context.Context, contentID, uid string) error {
	batch := s.client.Batch()
	batch.Delete(s.likeRef(contentID, uid))
	batch.Delete(s.userLikeRef(contentID, uid))

	if _, err := batch.Commit(ctx); err != nil {
		return errors.FromBackend(err, s.resource+" like")
	}
	return nil
}

func (s *contentStore) Bookmark(ctx context.Context, contentID, uid string) error {
	_, err := s.bookmarks(uid).Doc(contentID).Set(ctx, entity.Bookmark{ID: contentID, Timestamp: time.Now()})
	if err != nil {
		return errors.FromBackend(err, s.resource+" bookmark")
	}
	return nil
}

func (s *contentStore) Unbookmark(ctx context.Context, contentID, uid string) error {
	if _, err := s.bookmarks(uid).Doc(contentID).Delete(ctx); err != nil {
		return errors.FromBackend(err, s.resource+" bookmark")
	}
	return nil
}

func (s *contentStore) CountLikes(ctx context.Context, contentID string) (int64, error) {
	n, err := count(ctx, s.coll().Doc(contentID).Collection("likes").Query)
	if err != nil {
		return 0, errors.FromBackend(err, s.resource+" likes")
	}
	return n, nil
}

func (s *contentStore) CountComments(ctx context.Context, contentID string) (int64, error) {
	query := s.coll().Doc(contentID).Collection("comments").
		Where("visibility", "in", []string{string(entity.CommentRegular), string(entity.CommentAnonymous)})

	n, err := count(ctx, query)
	if err != nil {
		return 0, errors.FromBackend(err, s.resource+" comments")
	}
	return n, nil
}

func (s *contentStore) DidLike(ctx context.Context, contentID, uid string) (bool, error) {
	ok, err := exists(ctx, s.likeRef(contentID, uid))
	if err != nil {
		return false, errors.FromBackend(err, s.resource+" like")
	}
	return ok, nil
}

func (s *contentStore) DidBookmark(ctx context.Context, contentID, uid string) (bool, error) {
	ok, err := exists(ctx, s.bookmarks(uid).Doc(contentID))
	if err != nil {
		return false, errors.FromBackend(err, s.resource+" bookmark")
	}
	return ok, nil
}

func (s *contentStore) ListBookmarks(ctx context.Context, uid, cursor string, limit int) ([]*entity.Bookmark, error) {
	coll := s.bookmarks(uid)
	query, err := startAfter(ctx, coll, coll.OrderBy("timestamp", firestore.Desc), cursor)
	if err != nil {
		return nil, errors.FromBackend(err, s.resource+" bookmarks")
	}

	bookmarks, err := collect[entity.Bookmark](query.Limit(limit).Documents(ctx))
	if err != nil {
		return nil, errors.FromBackend(err, s.resource+" bookmarks")
	}
	return bookmarks, nil
}

func (s *contentStore) CountByUser(ctx context.Context, uid string) (int64, error) {
	query := s.coll().
		Where("uid", "==", uid).
		Where("visibility", "==", string(entity.VisibilityRegular))

	n, err := count(ctx, query)
	if err != nil {
		return 0, errors.FromBackend(err, s.resource+" count")
	}
	return n, nil
}

// listQuery builds the filtered, newest-first query used by both families.
func (s *contentStore) listQuery(ctx context.Context, filter repository.ContentFilter, cursor string, limit int) (firestore.Query, error) {
	visibility := filter.Visibility
	if visibility == "" {
		visibility = entity.VisibilityRegular
	}

	query := s.coll().Where("visibility", "==", string(visibility))
	if filter.UserID != "" {
		query = query.Where("uid", "==", filter.UserID)
	}
	if filter.GroupID != "" {
		query = query.Where("groupId", "==", filter.GroupID)
	}
	if filter.Hashtag != "" {
		query = query.Where("hashtags", "array-contains", filter.Hashtag)
	} else if filter.Profession != "" {
		query = query.Where("professions", "array-contains", filter.Profession)
	}
	if filter.Public {
		query = query.Where("privacy", "==", string(entity.PrivacyPublic))
	} else if filter.ExcludeGroups {
		query = query.Where("privacy", "in", []string{string(entity.PrivacyPublic), string(entity.PrivacyAnonymous)})
	}

	query, err := startAfter(ctx, s.coll(), query.OrderBy("timestamp", firestore.Desc), cursor)
	if err != nil {
		return query, err
	}
	return query.Limit(limit), nil
}

func (s *contentStore) updateVisibility(ctx context.Context, id string, visibility entity.Visibility) error {
	_, err := s.coll().Doc(id).Update(ctx, []firestore.Update{
		{Path: "visibility", Value: string(visibility)},
	})
	if err != nil {
		return errors.FromBackend(err, s.resource)
	}
	return nil
}
