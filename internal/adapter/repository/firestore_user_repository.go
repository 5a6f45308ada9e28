package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
	"medconnect/pkg/logger"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := r.client.Collection("users").Doc(user.ID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Exists("User")
		}
		return errors.Unknown("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		return nil, errors.FromBackend(err, "User")
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Unknown("Failed to parse user data", err)
	}

	return &user, nil
}

func (r *firestoreUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	users, err := getAll[entity.User](ctx, r.client, r.client.Collection("users"), ids)
	if err != nil {
		return nil, errors.FromBackend(err, "Users")
	}
	return users, nil
}

// Update merges the given fields. Empty strings are dropped so a partial
// profile edit never blanks existing data.
func (r *firestoreUserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	clean := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		clean[key] = value
	}
	if len(clean) == 0 {
		return nil
	}

	logger.Debug("Updating user %s fields: %v", id, clean)

	_, err := r.client.Collection("users").Doc(id).Set(ctx, clean, firestore.MergeAll)
	if err != nil {
		logger.Error("Firestore update error for user %s: %v", id, err)
		return errors.FromBackend(err, "User")
	}
	return nil
}

func (r *firestoreUserRepository) ListByProfession(ctx context.Context, profession, excludeID string, limit int) ([]*entity.User, error) {
	query := r.client.Collection("users").
		Where("profession", "==", profession).
		Where("phase", "==", string(entity.UserPhaseVerified)).
		Limit(limit + 1)

	users, err := collect[entity.User](query.Documents(ctx))
	if err != nil {
		return nil, errors.FromBackend(err, "Users")
	}

	filtered := make([]*entity.User, 0, len(users))
	for _, u := range users {
		if u.ID == excludeID {
			continue
		}
		filtered = append(filtered, u)
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}
