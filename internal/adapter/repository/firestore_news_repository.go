package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

type firestoreNewsRepository struct {
	client *firestore.Client
}

func NewFirestoreNewsRepository(client *firestore.Client) repository.NewsRepository {
	return &firestoreNewsRepository{
		client: client,
	}
}

func (r *firestoreNewsRepository) GetByID(ctx context.Context, id string) (*entity.News, error) {
	doc, err := r.client.Collection("news").Doc(id).Get(ctx)
	if err != nil {
		return nil, errors.FromBackend(err, "News")
	}

	var news entity.News
	if err := doc.DataTo(&news); err != nil {
		return nil, errors.Unknown("Failed to parse news data", err)
	}
	return &news, nil
}

func (r *firestoreNewsRepository) List(ctx context.Context, category, cursor string, limit int) ([]*entity.News, error) {
	coll := r.client.Collection("news")
	query := coll.Query
	if category != "" {
		query = query.Where("category", "==", category)
	}

	query, err := startAfter(ctx, coll, query.OrderBy("timestamp", firestore.Desc), cursor)
	if err != nil {
		return nil, errors.FromBackend(err, "News")
	}

	news, err := collect[entity.News](query.Limit(limit).Documents(ctx))
	if err != nil {
		return nil, errors.FromBackend(err, "News")
	}
	return news, nil
}
