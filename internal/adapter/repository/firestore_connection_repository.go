package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

type firestoreConnectionRepository struct {
	client *firestore.Client
}

func NewFirestoreConnectionRepository(client *firestore.Client) repository.ConnectionRepository {
	return &firestoreConnectionRepository{
		client: client,
	}
}

func (r *firestoreConnectionRepository) connections(uid string) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(uid).Collection("connections")
}

func (r *firestoreConnectionRepository) Get(ctx context.Context, uid, otherID string) (*entity.Connection, error) {
	doc, err := r.connections(uid).Doc(otherID).Get(ctx)
	if err != nil {
		return nil, errors.FromBackend(err, "Connection")
	}

	var connection entity.Connection
	if err := doc.DataTo(&connection); err != nil {
		return nil, errors.Unknown("Failed to parse connection data", err)
	}
	return &connection, nil
}

func (r *firestoreConnectionRepository) Set(ctx context.Context, uid, otherID string, phase entity.ConnectionPhase) error {
	_, err := r.connections(uid).Doc(otherID).Set(ctx, entity.Connection{
		UserID:    otherID,
		Phase:     phase,
		Timestamp: time.Now(),
	})
	if err != nil {
		return errors.FromBackend(err, "Connection")
	}
	return nil
}

func (r *firestoreConnectionRepository) Delete(ctx context.Context, uid, otherID string) error {
	if _, err := r.connections(uid).Doc(otherID).Delete(ctx); err != nil {
		return errors.FromBackend(err, "Connection")
	}
	return nil
}

func (r *firestoreConnectionRepository) List(ctx context.Context, uid string, phase entity.ConnectionPhase, cursor string, limit int) ([]*entity.Connection, error) {
	coll := r.connections(uid)
	query := coll.Where("phase", "==", string(phase)).OrderBy("timestamp", firestore.Desc)

	query, err := startAfter(ctx, coll, query, cursor)
	if err != nil {
		return nil, errors.FromBackend(err, "Connections")
	}

	connections, err := collect[entity.Connection](query.Limit(limit).Documents(ctx))
	if err != nil {
		return nil, errors.FromBackend(err, "Connections")
	}
	return connections, nil
}

func (r *firestoreConnectionRepository) Count(ctx context.Context, uid string, phase entity.ConnectionPhase) (int64, error) {
	n, err := count(ctx, r.connections(uid).Where("phase", "==", string(phase)))
	if err != nil {
		return 0, errors.FromBackend(err, "Connections")
	}
	return n, nil
}
