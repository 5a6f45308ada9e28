package repository

import (
	"context"
	"time"

	"firebase.google.com/go/v4/db"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

type realtimeProfileRepository struct {
	client *db.Client
}

func NewRealtimeProfileRepository(client *db.Client) repository.ProfileRepository {
	return &realtimeProfileRepository{
		client: client,
	}
}

func (r *realtimeProfileRepository) section(uid string, section entity.ProfileSection) *db.Ref {
	return r.client.NewRef("profiles").Child(uid).Child(string(section))
}

func (r *realtimeProfileRepository) List(ctx context.Context, uid string, section entity.ProfileSection) ([]*entity.ProfileItem, error) {
	nodes, err := r.section(uid, section).OrderByChild("timestamp").GetOrdered(ctx)
	if err != nil {
		return nil, errors.FromBackend(err, "Profile "+string(section))
	}

	items := make([]*entity.ProfileItem, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		var item entity.ProfileItem
		if err := nodes[i].Unmarshal(&item); err != nil {
			return nil, errors.Unknown("Failed to parse profile item", err)
		}
		item.ID = nodes[i].Key()
		items = append(items, &item)
	}
	return items, nil
}

// Set updates the item when it has an id and pushes a new one otherwise.
func (r *realtimeProfileRepository) Set(ctx context.Context, uid string, section entity.ProfileSection, item *entity.ProfileItem) error {
	if item.Timestamp == 0 {
		item.Timestamp = time.Now().UnixMilli()
	}

	ref := r.section(uid, section)
	if item.ID == "" {
		child, err := ref.Push(ctx, item)
		if err != nil {
			return errors.FromBackend(err, "Profile "+string(section))
		}
		item.ID = child.Key
		return nil
	}

	if err := ref.Child(item.ID).Set(ctx, item); err != nil {
		return errors.FromBackend(err, "Profile "+string(section))
	}
	return nil
}

func (r *realtimeProfileRepository) Delete(ctx context.Context, uid string, section entity.ProfileSection, id string) error {
	if err := r.section(uid, section).Child(id).Delete(ctx); err != nil {
		return errors.FromBackend(err, "Profile "+string(section))
	}
	return nil
}
