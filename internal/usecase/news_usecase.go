package usecase

import (
	"context"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
)

type NewsUseCase struct {
	newsRepo repository.NewsRepository
}

func NewNewsUseCase(newsRepo repository.NewsRepository) *NewsUseCase {
	return &NewsUseCase{newsRepo: newsRepo}
}

func (uc *NewsUseCase) List(ctx context.Context, category, cursor string, limit int) (*Page[*entity.News], error) {
	items, err := uc.newsRepo.List(ctx, category, cursor, limit)
	if err != nil {
		return nil, err
	}
	return newPage(items, limit, func(n *entity.News) string { return n.ID }), nil
}

func (uc *NewsUseCase) Get(ctx context.Context, id string) (*entity.News, error) {
	return uc.newsRepo.GetByID(ctx, id)
}
