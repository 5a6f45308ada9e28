package repository

import (
	"context"

	"medconnect/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	ListByProfession(ctx context.Context, profession, excludeID string, limit int) ([]*entity.User, error)
}
