package usecase

import (
	"context"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
)

// NotificationUseCase reads the remote inbox and keeps the local mirror in
// step with it.
type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	local            repository.NotificationStore
	network          Reachability
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository, local repository.NotificationStore, network Reachability) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		local:            local,
		network:          network,
	}
}

func (uc *NotificationUseCase) List(ctx context.Context, uid, cursor string, limit int) (*Page[*entity.Notification], error) {
	items, err := uc.notificationRepo.List(ctx, uid, cursor, limit)
	if err != nil {
		return nil, err
	}
	return newPage(items, limit, func(n *entity.Notification) string { return n.ID }), nil
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context, uid string) (int64, error) {
	return uc.notificationRepo.CountUnread(ctx, uid)
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, uid, id string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}
	if err := uc.notificationRepo.MarkRead(ctx, uid, id); err != nil {
		return err
	}
	return uc.local.MarkRead(ctx, id)
}

func (uc *NotificationUseCase) Delete(ctx context.Context, uid, id string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}
	if err := uc.notificationRepo.Delete(ctx, uid, id); err != nil {
		return err
	}
	return uc.local.Delete(ctx, id)
}

// Sync copies remote notifications newer than the latest local one into
// the local store and returns how many were fetched.
func (uc *NotificationUseCase) Sync(ctx context.Context, uid string) (int, error) {
	if err := uc.network.Require(); err != nil {
		return 0, err
	}

	since, err := uc.local.LatestTimestamp(ctx, uid)
	if err != nil {
		return 0, err
	}

	fresh, err := uc.notificationRepo.ListSince(ctx, uid, since)
	if err != nil {
		return 0, err
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	if err := uc.local.Save(ctx, fresh); err != nil {
		return 0, err
	}
	return len(fresh), nil
}

// LocalList pages the local inbox by offset.
func (uc *NotificationUseCase) LocalList(ctx context.Context, uid string, limit, offset int) ([]*entity.Notification, int64, error) {
	return uc.local.List(ctx, uid, limit, offset)
}

func (uc *NotificationUseCase) LocalBadge(ctx context.Context, uid string) (int64, error) {
	return uc.local.UnreadCount(ctx, uid)
}
