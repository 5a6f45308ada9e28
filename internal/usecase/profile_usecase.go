package usecase

import (
	"context"
	"strings"
	"time"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

// ProfileUseCase manages the realtime-store profile sections.
type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	network     Reachability
}

func NewProfileUseCase(profileRepo repository.ProfileRepository, network Reachability) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		network:     network,
	}
}

func (uc *ProfileUseCase) List(ctx context.Context, uid string, section entity.ProfileSection) ([]*entity.ProfileItem, error) {
	if !section.Valid() {
		return nil, errors.BadRequest("Unknown profile section", nil)
	}
	return uc.profileRepo.List(ctx, uid, section)
}

// Save adds the item when it has no id, otherwise replaces it.
func (uc *ProfileUseCase) Save(ctx context.Context, uid string, section entity.ProfileSection, item *entity.ProfileItem) (*entity.ProfileItem, error) {
	if !section.Valid() {
		return nil, errors.BadRequest("Unknown profile section", nil)
	}
	if strings.TrimSpace(item.Title) == "" {
		return nil, errors.BadRequest("Title is required", nil)
	}
	if err := uc.network.Require(); err != nil {
		return nil, err
	}

	item.Timestamp = time.Now().UnixMilli()
	if err := uc.profileRepo.Set(ctx, uid, section, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *ProfileUseCase) Delete(ctx context.Context, uid string, section entity.ProfileSection, id string) error {
	if !section.Valid() {
		return errors.BadRequest("Unknown profile section", nil)
	}
	if err := uc.network.Require(); err != nil {
		return err
	}
	return uc.profileRepo.Delete(ctx, uid, section, id)
}
