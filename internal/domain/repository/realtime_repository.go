package repository

import (
	"context"

	"medconnect/internal/domain/entity"
)

type RecentSearchRepository interface {
	Add(ctx context.Context, uid string, recent *entity.RecentSearch) error
	List(ctx context.Context, uid string, limit int) ([]*entity.RecentSearch, error)
	Delete(ctx context.Context, uid, id string) error
	Clear(ctx context.Context, uid string) error
}

type ProfileRepository interface {
	List(ctx context.Context, uid string, section entity.ProfileSection) ([]*entity.ProfileItem, error)
	Set(ctx context.Context, uid string, section entity.ProfileSection, item *entity.ProfileItem) error
	Delete(ctx context.Context, uid string, section entity.ProfileSection, id string) error
}
