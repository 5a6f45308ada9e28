package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

type firestorePostRepository struct {
	*contentStore
}

func NewFirestorePostRepository(client *firestore.Client) repository.PostRepository {
	return &firestorePostRepository{
		contentStore: newContentStore(client, entity.ContentPost),
	}
}

func (r *firestorePostRepository) Create(ctx context.Context, post *entity.Post) error {
	if post.ID == "" {
		post.ID = r.coll().NewDoc().ID
	}
	if post.Timestamp.IsZero() {
		post.Timestamp = time.Now()
	}

	_, err := r.coll().Doc(post.ID).Set(ctx, post)
	if err != nil {
		return errors.Unknown("Failed to create post", err)
	}

	return nil
}

func (r *firestorePostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	doc, err := r.coll().Doc(id).Get(ctx)
	if err != nil {
		return nil, errors.FromBackend(err, "Post")
	}

	var post entity.Post
	if err := doc.DataTo(&post); err != nil {
		return nil, errors.Unknown("Failed to parse post data", err)
	}

	return &post, nil
}

func (r *firestorePostRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Post, error) {
	posts, err := getAll[entity.Post](ctx, r.client, r.coll(), ids)
	if err != nil {
		return nil, errors.FromBackend(err, "Posts")
	}
	return posts, nil
}

func (r *firestorePostRepository) List(ctx context.Context, filter repository.ContentFilter, cursor string, limit int) ([]*entity.Post, error) {
	query, err := r.listQuery(ctx, filter, cursor, limit)
	if err != nil {
		return nil, errors.FromBackend(err, "Posts")
	}

	posts, err := collect[entity.Post](query.Documents(ctx))
	if err != nil {
		return nil, errors.FromBackend(err, "Posts")
	}
	return posts, nil
}

func (r *firestorePostRepository) UpdateContent(ctx context.Context, id, content string) error {
	_, err := r.coll().Doc(id).Update(ctx, []firestore.Update{
		{Path: "content", Value: content},
		{Path: "edited", Value: true},
	})
	if err != nil {
		return errors.FromBackend(err, "Post")
	}
	return nil
}

func (r *firestorePostRepository) UpdateVisibility(ctx context.Context, id string, visibility entity.Visibility) error {
	return r.updateVisibility(ctx, id, visibility)
}
