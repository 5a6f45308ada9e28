package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

type firestoreBlockRepository struct {
	client *firestore.Client
}

func NewFirestoreBlockRepository(client *firestore.Client) repository.BlockRepository {
	return &firestoreBlockRepository{
		client: client,
	}
}

func (r *firestoreBlockRepository) user(uid string) *firestore.DocumentRef {
	return r.client.Collection("users").Doc(uid)
}

// Block removes every follow and connection edge between the pair in the
// same batch as the block itself. A failed batch leaves nothing written.
func (r *firestoreBlockRepository) Block(ctx context.Context, uid, otherID string) error {
	batch := r.client.Batch()
	batch.Set(r.user(uid).Collection("blocks").Doc(otherID), entity.Block{UserID: otherID, Timestamp: time.Now()})

	batch.Delete(r.user(uid).Collection("following").Doc(otherID))
	batch.Delete(r.user(otherID).Collection("followers").Doc(uid))
	batch.Delete(r.user(otherID).Collection("following").Doc(uid))
	batch.Delete(r.user(uid).Collection("followers").Doc(otherID))

	batch.Delete(r.user(uid).Collection("connections").Doc(otherID))
	batch.Delete(r.user(otherID).Collection("connections").Doc(uid))

	if _, err := batch.Commit(ctx); err != nil {
		return errors.FromBackend(err, "Block")
	}
	return nil
}

func (r *firestoreBlockRepository) Unblock(ctx context.Context, uid, otherID string) error {
	if _, err := r.user(uid).Collection("blocks").Doc(otherID).Delete(ctx); err != nil {
		return errors.FromBackend(err, "Block")
	}
	return nil
}

func (r *firestoreBlockRepository) IsBlocked(ctx context.Context, uid, otherID string) (bool, error) {
	ok, err := exists(ctx, r.user(uid).Collection("blocks").Doc(otherID))
	if err != nil {
		return false, errors.FromBackend(err, "Block")
	}
	return ok, nil
}

func (r *firestoreBlockRepository) List(ctx context.Context, uid, cursor string, limit int) ([]*entity.Block, error) {
	coll := r.user(uid).Collection("blocks")
	query, err := startAfter(ctx, coll, coll.OrderBy("timestamp", firestore.Desc), cursor)
	if err != nil {
		return nil, errors.FromBackend(err, "Blocks")
	}

	blocks, err := collect[entity.Block](query.Limit(limit).Documents(ctx))
	if err != nil {
		return nil, errors.FromBackend(err, "Blocks")
	}
	return blocks, nil
}
