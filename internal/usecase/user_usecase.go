package usecase

import (
	"context"
	"io"
	"time"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/internal/infrastructure/cache"
	"medconnect/pkg/errors"
	"medconnect/pkg/logger"
)

const (
	userCacheTTL   = 5 * time.Minute
	maxSuggestions = 100
)

type UserUseCase struct {
	userRepo       repository.UserRepository
	followRepo     repository.FollowRepository
	connectionRepo repository.ConnectionRepository
	postRepo       repository.PostRepository
	caseRepo       repository.CaseRepository
	images         ImageUploader
	network        Reachability
	cache          *cache.LRU[string, *entity.User]
}

func NewUserUseCase(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	connectionRepo repository.ConnectionRepository,
	postRepo repository.PostRepository,
	caseRepo repository.CaseRepository,
	images ImageUploader,
	network Reachability,
	cacheSize int,
) *UserUseCase {
	return &UserUseCase{
		userRepo:       userRepo,
		followRepo:     followRepo,
		connectionRepo: connectionRepo,
		postRepo:       postRepo,
		caseRepo:       caseRepo,
		images:         images,
		network:        network,
		cache:          cache.NewLRU[string, *entity.User](cacheSize, userCacheTTL),
	}
}

// GetUser serves from the in-memory cache when possible. The returned value
// is a copy the caller may modify.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*entity.User, error) {
	if user, ok := uc.cache.Get(id); ok {
		copied := *user
		return &copied, nil
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.cache.Set(id, user)
	copied := *user
	return &copied, nil
}

// GetUsers fetches every id concurrently. Missing users fail the call.
func (uc *UserUseCase) GetUsers(ctx context.Context, ids []string) ([]*entity.User, error) {
	users := make([]*entity.User, len(ids))
	err := join(len(ids), func(i int) error {
		user, err := uc.GetUser(ctx, ids[i])
		if err != nil {
			return err
		}
		users[i] = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

type UpdateProfileInput struct {
	FirstName  string
	LastName   string
	Profession string
	Speciality string
	Country    string
	City       string
	Biography  string
	Website    string
	Hobbies    []string
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, uid string, input UpdateProfileInput) (*entity.User, error) {
	if err := uc.network.Require(); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"firstName":  input.FirstName,
		"lastName":   input.LastName,
		"profession": input.Profession,
		"speciality": input.Speciality,
		"country":    input.Country,
		"city":       input.City,
		"biography":  input.Biography,
		"website":    input.Website,
	}
	if input.Hobbies != nil {
		fields["hobbies"] = input.Hobbies
	}

	if err := uc.userRepo.Update(ctx, uid, fields); err != nil {
		return nil, err
	}
	uc.cache.Remove(uid)
	return uc.GetUser(ctx, uid)
}

// UpdatePhase advances the caller's own registration phase. Backward moves
// are rejected and verification is only granted through Verify.
func (uc *UserUseCase) UpdatePhase(ctx context.Context, uid string, next entity.UserPhase) error {
	if next == entity.UserPhaseVerified {
		return errors.Forbidden("Verification is granted by a reviewer", nil)
	}
	return uc.setPhase(ctx, uid, next)
}

// Verify marks a user awaiting verification as verified. Callers are
// admins, enforced by the admin middleware.
func (uc *UserUseCase) Verify(ctx context.Context, uid string) error {
	return uc.setPhase(ctx, uid, entity.UserPhaseVerified)
}

// IsAdmin reads the role from the store, bypassing the cache.
func (uc *UserUseCase) IsAdmin(ctx context.Context, uid string) (bool, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

func (uc *UserUseCase) setPhase(ctx context.Context, uid string, next entity.UserPhase) error {
	if err := uc.network.Require(); err != nil {
		return err
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return err
	}
	if !user.Phase.CanAdvanceTo(next) {
		return errors.BadRequest("Cannot move from "+string(user.Phase)+" to "+string(next), nil)
	}

	if err := uc.userRepo.Update(ctx, uid, map[string]interface{}{"phase": string(next)}); err != nil {
		return err
	}
	uc.cache.Remove(uid)
	return nil
}

func (uc *UserUseCase) UploadProfileImage(ctx context.Context, uid string, r io.Reader, contentType string) (string, error) {
	return uc.uploadImage(ctx, uid, entity.ImageProfile, "imageUrl", r, contentType)
}

func (uc *UserUseCase) UploadBannerImage(ctx context.Context, uid string, r io.Reader, contentType string) (string, error) {
	return uc.uploadImage(ctx, uid, entity.ImageBanner, "bannerUrl", r, contentType)
}

func (uc *UserUseCase) uploadImage(ctx context.Context, uid string, kind entity.ImageKind, field string, r io.Reader, contentType string) (string, error) {
	if err := uc.network.Require(); err != nil {
		return "", err
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return "", err
	}
	previous := user.ImageURL
	if kind == entity.ImageBanner {
		previous = user.BannerURL
	}

	url, err := uc.images.UploadImage(ctx, kind, uid, r, contentType)
	if err != nil {
		return "", err
	}
	if err := uc.userRepo.Update(ctx, uid, map[string]interface{}{field: url}); err != nil {
		return "", err
	}
	uc.cache.Remove(uid)

	// the old object is unreachable once the document points at the new one
	if previous != "" && previous != url {
		if err := uc.images.Delete(ctx, previous); err != nil {
			logger.Warn("Failed to delete replaced image %s: %v", previous, err)
		}
	}
	return url, nil
}

// FetchStats runs the five count aggregations concurrently.
func (uc *UserUseCase) FetchStats(ctx context.Context, uid string) (*entity.UserStats, error) {
	var stats entity.UserStats
	err := join(5, func(i int) error {
		var err error
		switch i {
		case 0:
			stats.Followers, err = uc.followRepo.CountFollowers(ctx, uid)
		case 1:
			stats.Following, err = uc.followRepo.CountFollowing(ctx, uid)
		case 2:
			stats.Connections, err = uc.connectionRepo.Count(ctx, uid, entity.ConnectionConnected)
		case 3:
			stats.Posts, err = uc.postRepo.CountByUser(ctx, uid)
		case 4:
			stats.Cases, err = uc.caseRepo.CountByUser(ctx, uid)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Profile is the user with stats filled.
func (uc *UserUseCase) Profile(ctx context.Context, uid string) (*entity.User, error) {
	user, err := uc.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	stats, err := uc.FetchStats(ctx, uid)
	if err != nil {
		return nil, err
	}
	user.Stats = stats
	return user, nil
}

// Suggestions lists verified users of the same profession, excluding uid.
func (uc *UserUseCase) Suggestions(ctx context.Context, uid, profession string, limit int) ([]*entity.User, error) {
	if profession == "" {
		user, err := uc.GetUser(ctx, uid)
		if err != nil {
			return nil, err
		}
		profession = user.Profession
	}
	return uc.userRepo.ListByProfession(ctx, profession, uid, min(limit, maxSuggestions))
}
