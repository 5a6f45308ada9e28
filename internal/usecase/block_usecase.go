package usecase

import (
	"context"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

type BlockUseCase struct {
	blockRepo repository.BlockRepository
	network   Reachability
}

func NewBlockUseCase(blockRepo repository.BlockRepository, network Reachability) *BlockUseCase {
	return &BlockUseCase{
		blockRepo: blockRepo,
		network:   network,
	}
}

// Block also drops follows and connections in both directions, in one batch.
func (uc *BlockUseCase) Block(ctx context.Context, uid, otherID string) error {
	if uid == otherID {
		return errors.BadRequest("Cannot block yourself", nil)
	}
	if err := uc.network.Require(); err != nil {
		return err
	}
	return uc.blockRepo.Block(ctx, uid, otherID)
}

func (uc *BlockUseCase) Unblock(ctx context.Context, uid, otherID string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}
	return uc.blockRepo.Unblock(ctx, uid, otherID)
}

func (uc *BlockUseCase) IsBlocked(ctx context.Context, uid, otherID string) (bool, error) {
	return uc.blockRepo.IsBlocked(ctx, uid, otherID)
}

func (uc *BlockUseCase) List(ctx context.Context, uid, cursor string, limit int) (*Page[*entity.Block], error) {
	blocks, err := uc.blockRepo.List(ctx, uid, cursor, limit)
	if err != nil {
		return nil, err
	}
	return newPage(blocks, limit, func(b *entity.Block) string { return b.UserID }), nil
}
