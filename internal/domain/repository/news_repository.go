package repository

import (
	"context"

	"medconnect/internal/domain/entity"
)

type NewsRepository interface {
	GetByID(ctx context.Context, id string) (*entity.News, error)
	List(ctx context.Context, category, cursor string, limit int) ([]*entity.News, error)
}
