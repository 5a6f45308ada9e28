package repository

import (
	"context"

	"medconnect/internal/domain/entity"
)

type GroupRepository interface {
	Create(ctx context.Context, group *entity.Group, owner *entity.GroupMember) error
	GetByID(ctx context.Context, id string) (*entity.Group, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Group, error)
	ListPublic(ctx context.Context, profession, cursor string, limit int) ([]*entity.Group, error)

	GetMember(ctx context.Context, groupID, uid string) (*entity.GroupMember, error)
	SetMember(ctx context.Context, groupID string, member *entity.GroupMember) error
	RemoveMember(ctx context.Context, groupID, uid string) error
	ListMembers(ctx context.Context, groupID string, phase entity.MemberPhase, cursor string, limit int) ([]*entity.GroupMember, error)
	CountMembers(ctx context.Context, groupID string) (int64, error)
	// ListUserGroupIDs reads the per-user index of joined groups.
	ListUserGroupIDs(ctx context.Context, uid string) ([]string, error)
}
