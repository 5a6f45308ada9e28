package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

type firestoreFollowRepository struct {
	client *firestore.Client
}

func NewFirestoreFollowRepository(client *firestore.Client) repository.FollowRepository {
	return &firestoreFollowRepository{
		client: client,
	}
}

func (r *firestoreFollowRepository) edges(uid, name string) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(uid).Collection(name)
}

func (r *firestoreFollowRepository) set(ctx context.Context, uid, name, otherID string) error {
	_, err := r.edges(uid, name).Doc(otherID).Set(ctx, entity.Follow{UserID: otherID, Timestamp: time.Now()})
	if err != nil {
		return errors.FromBackend(err, "Follow")
	}
	return nil
}

func (r *firestoreFollowRepository) remove(ctx context.Context, uid, name, otherID string) error {
	if _, err := r.edges(uid, name).Doc(otherID).Delete(ctx); err != nil {
		return errors.FromBackend(err, "Follow")
	}
	return nil
}

func (r *firestoreFollowRepository) list(ctx context.Context, uid, name, cursor string, limit int) ([]*entity.Follow, error) {
	coll := r.edges(uid, name)
	query, err := startAfter(ctx, coll, coll.OrderBy("timestamp", firestore.Desc), cursor)
	if err != nil {
		return nil, errors.FromBackend(err, "Follows")
	}

	follows, err := collect[entity.Follow](query.Limit(limit).Documents(ctx))
	if err != nil {
		return nil, errors.FromBackend(err, "Follows")
	}
	return follows, nil
}

func (r *firestoreFollowRepository) AddFollowing(ctx context.Context, uid, otherID string) error {
	return r.set(ctx, uid, "following", otherID)
}

func (r *firestoreFollowRepository) RemoveFollowing(ctx context.Context, uid, otherID string) error {
	return r.remove(ctx, uid, "following", otherID)
}

func (r *firestoreFollowRepository) AddFollower(ctx context.Context, uid, followerID string) error {
	return r.set(ctx, uid, "followers", followerID)
}

func (r *firestoreFollowRepository) RemoveFollower(ctx context.Context, uid, followerID string) error {
	return r.remove(ctx, uid, "followers", followerID)
}

func (r *firestoreFollowRepository) IsFollowing(ctx context.Context, uid, otherID string) (bool, error) {
	ok, err := exists(ctx, r.edges(uid, "following").Doc(otherID))
	if err != nil {
		return false, errors.FromBackend(err, "Follow")
	}
	return ok, nil
}

func (r *firestoreFollowRepository) ListFollowing(ctx context.Context, uid, cursor string, limit int) ([]*entity.Follow, error) {
	return r.list(ctx, uid, "following", cursor, limit)
}

func (r *firestoreFollowRepository) ListFollowers(ctx context.Context, uid, cursor string, limit int) ([]*entity.Follow, error) {
	return r.list(ctx, uid, "followers", cursor, limit)
}

func (r *firestoreFollowRepository) CountFollowing(ctx context.Context, uid string) (int64, error) {
	n, err := count(ctx, r.edges(uid, "following").Query)
	if err != nil {
		return 0, errors.FromBackend(err, "Following")
	}
	return n, nil
}

func (r *firestoreFollowRepository) CountFollowers(ctx context.Context, uid string) (int64, error) {
	n, err := count(ctx, r.edges(uid, "followers").Query)
	if err != nil {
		return 0, errors.FromBackend(err, "Followers")
	}
	return n, nil
}
