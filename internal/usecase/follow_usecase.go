package usecase

import (
	"context"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/internal/infrastructure/telemetry"
	"medconnect/pkg/errors"
)

type FollowUseCase struct {
	followRepo repository.FollowRepository
	blockRepo  repository.BlockRepository
	functions  FunctionCaller
	network    Reachability
	telemetry  *telemetry.Recorder
}

func NewFollowUseCase(
	followRepo repository.FollowRepository,
	blockRepo repository.BlockRepository,
	functions FunctionCaller,
	network Reachability,
	recorder *telemetry.Recorder,
) *FollowUseCase {
	return &FollowUseCase{
		followRepo: followRepo,
		blockRepo:  blockRepo,
		functions:  functions,
		network:    network,
		telemetry:  recorder,
	}
}

func (uc *FollowUseCase) Follow(ctx context.Context, uid, otherID string) error {
	if uid == otherID {
		return errors.BadRequest("Cannot follow yourself", nil)
	}
	if err := uc.network.Require(); err != nil {
		return err
	}
	if err := notBlocked(ctx, uc.blockRepo, uid, otherID); err != nil {
		return err
	}

	err := twoSided(ctx,
		step{
			do: func(ctx context.Context) error {
				return uc.followRepo.AddFollowing(ctx, uid, otherID)
			},
			undo: func(ctx context.Context) error {
				return uc.followRepo.RemoveFollowing(ctx, uid, otherID)
			},
		},
		func(ctx context.Context) error {
			return uc.followRepo.AddFollower(ctx, otherID, uid)
		},
	)
	if err != nil {
		return err
	}

	uc.functions.Call(FnFollow, map[string]string{"uid": uid, "otherId": otherID}, "")
	uc.telemetry.Event(ctx, telemetry.EventFollow)
	return nil
}

func (uc *FollowUseCase) Unfollow(ctx context.Context, uid, otherID string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}

	return twoSided(ctx,
		step{
			do: func(ctx context.Context) error {
				return uc.followRepo.RemoveFollowing(ctx, uid, otherID)
			},
			undo: func(ctx context.Context) error {
				return uc.followRepo.AddFollowing(ctx, uid, otherID)
			},
		},
		func(ctx context.Context) error {
			return uc.followRepo.RemoveFollower(ctx, otherID, uid)
		},
	)
}

func (uc *FollowUseCase) IsFollowing(ctx context.Context, uid, otherID string) (bool, error) {
	return uc.followRepo.IsFollowing(ctx, uid, otherID)
}

func (uc *FollowUseCase) Following(ctx context.Context, uid, cursor string, limit int) (*Page[*entity.Follow], error) {
	follows, err := uc.followRepo.ListFollowing(ctx, uid, cursor, limit)
	if err != nil {
		return nil, err
	}
	return newPage(follows, limit, followUserID), nil
}

func (uc *FollowUseCase) Followers(ctx context.Context, uid, cursor string, limit int) (*Page[*entity.Follow], error) {
	follows, err := uc.followRepo.ListFollowers(ctx, uid, cursor, limit)
	if err != nil {
		return nil, err
	}
	return newPage(follows, limit, followUserID), nil
}

func followUserID(f *entity.Follow) string { return f.UserID }
