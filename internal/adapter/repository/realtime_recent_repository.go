package repository

import (
	"context"

	"firebase.google.com/go/v4/db"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

type realtimeRecentSearchRepository struct {
	client *db.Client
}

func NewRealtimeRecentSearchRepository(client *db.Client) repository.RecentSearchRepository {
	return &realtimeRecentSearchRepository{
		client: client,
	}
}

func (r *realtimeRecentSearchRepository) recents(uid string) *db.Ref {
	return r.client.NewRef("recents").Child(uid)
}

// Add overwrites by id, so searching the same term twice only moves it up.
func (r *realtimeRecentSearchRepository) Add(ctx context.Context, uid string, recent *entity.RecentSearch) error {
	if err := r.recents(uid).Child(recent.ID).Set(ctx, recent); err != nil {
		return errors.FromBackend(err, "Recent search")
	}
	return nil
}

func (r *realtimeRecentSearchRepository) List(ctx context.Context, uid string, limit int) ([]*entity.RecentSearch, error) {
	query := r.recents(uid).OrderByChild("timestamp")
	if limit > 0 {
		query = query.LimitToLast(limit)
	}

	nodes, err := query.GetOrdered(ctx)
	if err != nil {
		return nil, errors.FromBackend(err, "Recent searches")
	}

	recents := make([]*entity.RecentSearch, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		var recent entity.RecentSearch
		if err := nodes[i].Unmarshal(&recent); err != nil {
			return nil, errors.Unknown("Failed to parse recent search", err)
		}
		recent.ID = nodes[i].Key()
		recents = append(recents, &recent)
	}
	return recents, nil
}

func (r *realtimeRecentSearchRepository) Delete(ctx context.Context, uid, id string) error {
	if err := r.recents(uid).Child(id).Delete(ctx); err != nil {
		return errors.FromBackend(err, "Recent search")
	}
	return nil
}

func (r *realtimeRecentSearchRepository) Clear(ctx context.Context, uid string) error {
	if err := r.recents(uid).Delete(ctx); err != nil {
		return errors.FromBackend(err, "Recent searches")
	}
	return nil
}
