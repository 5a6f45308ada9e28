package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) notifications(uid string) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(uid).Collection("notifications")
}

func (r *firestoreNotificationRepository) List(ctx context.Context, uid, cursor string, limit int) ([]*entity.Notification, error) {
	coll := r.notifications(uid)
	query, err := startAfter(ctx, coll, coll.OrderBy("timestamp", firestore.Desc), cursor)
	if err != nil {
		return nil, errors.FromBackend(err, "Notifications")
	}

	notifications, err := collect[entity.Notification](query.Limit(limit).Documents(ctx))
	if err != nil {
		return nil, errors.FromBackend(err, "Notifications")
	}
	return notifications, nil
}

func (r *firestoreNotificationRepository) ListSince(ctx context.Context, uid string, since time.Time) ([]*entity.Notification, error) {
	query := r.notifications(uid).
		Where("timestamp", ">", since).
		OrderBy("timestamp", firestore.Desc)

	notifications, err := collect[entity.Notification](query.Documents(ctx))
	if err != nil {
		return nil, errors.FromBackend(err, "Notifications")
	}
	return notifications, nil
}

func (r *firestoreNotificationRepository) CountUnread(ctx context.Context, uid string) (int64, error) {
	n, err := count(ctx, r.notifications(uid).Where("isRead", "==", false))
	if err != nil {
		return 0, errors.FromBackend(err, "Notifications")
	}
	return n, nil
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, uid, id string) error {
	_, err := r.notifications(uid).Doc(id).Update(ctx, []firestore.Update{
		{Path: "isRead", Value: true},
	})
	if err != nil {
		return errors.FromBackend(err, "Notification")
	}
	return nil
}

func (r *firestoreNotificationRepository) Delete(ctx context.Context, uid, id string) error {
	if _, err := r.notifications(uid).Doc(id).Delete(ctx); err != nil {
		return errors.FromBackend(err, "Notification")
	}
	return nil
}
