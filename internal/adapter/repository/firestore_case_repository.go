package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

type firestoreCaseRepository struct {
	*contentStore
}

func NewFirestoreCaseRepository(client *firestore.Client) repository.CaseRepository {
	return &firestoreCaseRepository{
		contentStore: newContentStore(client, entity.ContentCase),
	}
}

func (r *firestoreCaseRepository) Create(ctx context.Context, c *entity.Case) error {
	if c.ID == "" {
		c.ID = r.coll().NewDoc().ID
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}
	if c.Phase == "" {
		c.Phase = entity.CasePhaseUnsolved
	}

	_, err := r.coll().Doc(c.ID).Set(ctx, c)
	if err != nil {
		return errors.Unknown("Failed to create case", err)
	}

	return nil
}

func (r *firestoreCaseRepository) GetByID(ctx context.Context, id string) (*entity.Case, error) {
	doc, err := r.coll().Doc(id).Get(ctx)
	if err != nil {
		return nil, errors.FromBackend(err, "Case")
	}

	var c entity.Case
	if err := doc.DataTo(&c); err != nil {
		return nil, errors.Unknown("Failed to parse case data", err)
	}

	return &c, nil
}

func (r *firestoreCaseRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Case, error) {
	cases, err := getAll[entity.Case](ctx, r.client, r.coll(), ids)
	if err != nil {
		return nil, errors.FromBackend(err, "Cases")
	}
	return cases, nil
}

func (r *firestoreCaseRepository) List(ctx context.Context, filter repository.ContentFilter, cursor string, limit int) ([]*entity.Case, error) {
	query, err := r.listQuery(ctx, filter, cursor, limit)
	if err != nil {
		return nil, errors.FromBackend(err, "Cases")
	}

	cases, err := collect[entity.Case](query.Documents(ctx))
	if err != nil {
		return nil, errors.FromBackend(err, "Cases")
	}
	return cases, nil
}

func (r *firestoreCaseRepository) UpdateVisibility(ctx context.Context, id string, visibility entity.Visibility) error {
	return r.updateVisibility(ctx, id, visibility)
}

func (r *firestoreCaseRepository) Solve(ctx context.Context, id, revision string) error {
	updates := []firestore.Update{
		{Path: "phase", Value: string(entity.CasePhaseSolved)},
	}
	if revision != "" {
		updates = append(updates, firestore.Update{Path: "revision", Value: revision})
	}

	if _, err := r.coll().Doc(id).Update(ctx, updates); err != nil {
		return errors.FromBackend(err, "Case")
	}
	return nil
}

// AddRevision keeps the history under cases/{id}/revisions and mirrors the
// latest text on the case document.
func (r *firestoreCaseRepository) AddRevision(ctx context.Context, id, revision string) error {
	ref := r.coll().Doc(id)
	batch := r.client.Batch()
	batch.Set(ref.Collection("revisions").NewDoc(), map[string]interface{}{
		"content":   revision,
		"timestamp": time.Now(),
	})
	batch.Update(ref, []firestore.Update{{Path: "revision", Value: revision}})

	if _, err := batch.Commit(ctx); err != nil {
		return errors.FromBackend(err, "Case")
	}
	return nil
}
