package usecase

import (
	"context"
	"strings"
	"time"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/internal/infrastructure/telemetry"
	"medconnect/pkg/errors"
)

type GroupUseCase struct {
	groupRepo repository.GroupRepository
	functions FunctionCaller
	network   Reachability
	telemetry *telemetry.Recorder
}

func NewGroupUseCase(groupRepo repository.GroupRepository, functions FunctionCaller, network Reachability, recorder *telemetry.Recorder) *GroupUseCase {
	return &GroupUseCase{
		groupRepo: groupRepo,
		functions: functions,
		network:   network,
		telemetry: recorder,
	}
}

type CreateGroupInput struct {
	Name         string
	Description  string
	Professions  []string
	Visibility   entity.GroupVisibility
	PostApproval bool
}

// Create stores the group with its creator as admin.
func (uc *GroupUseCase) Create(ctx context.Context, uid string, input CreateGroupInput) (*entity.Group, error) {
	if err := uc.network.Require(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.BadRequest("Group name is required", nil)
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = entity.GroupPublic
	}
	if visibility != entity.GroupPublic && visibility != entity.GroupPrivate {
		return nil, errors.BadRequest("Invalid group visibility", nil)
	}

	now := time.Now()
	group := &entity.Group{
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		OwnerID:      uid,
		Professions:  input.Professions,
		Visibility:   visibility,
		PostApproval: input.PostApproval,
		Timestamp:    now,
		Members:      1,
	}
	owner := &entity.GroupMember{
		UserID:    uid,
		Phase:     entity.MemberPhaseAdmin,
		Timestamp: now,
	}

	if err := uc.groupRepo.Create(ctx, group, owner); err != nil {
		return nil, err
	}
	return group, nil
}

func (uc *GroupUseCase) Get(ctx context.Context, id string) (*entity.Group, error) {
	group, err := uc.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.countMembers(ctx, []*entity.Group{group}); err != nil {
		return nil, err
	}
	return group, nil
}

func (uc *GroupUseCase) ListPublic(ctx context.Context, profession, cursor string, limit int) (*Page[*entity.Group], error) {
	groups, err := uc.groupRepo.ListPublic(ctx, profession, cursor, limit)
	if err != nil {
		return nil, err
	}
	if err := uc.countMembers(ctx, groups); err != nil {
		return nil, err
	}
	sortNewestFirst(groups, groupTime)
	return newPage(groups, limit, func(g *entity.Group) string { return g.ID }), nil
}

// ListUserGroups returns the groups uid is an active member of.
func (uc *GroupUseCase) ListUserGroups(ctx context.Context, uid string) ([]*entity.Group, error) {
	ids, err := uc.groupRepo.ListUserGroupIDs(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*entity.Group{}, nil
	}

	groups, err := uc.groupRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := uc.countMembers(ctx, groups); err != nil {
		return nil, err
	}
	sortNewestFirst(groups, groupTime)
	return groups, nil
}

// Join makes uid a member of a public group, or a pending member of a
// private one. It returns the resulting phase.
func (uc *GroupUseCase) Join(ctx context.Context, uid, groupID string) (entity.MemberPhase, error) {
	if err := uc.network.Require(); err != nil {
		return "", err
	}

	group, err := uc.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return "", err
	}

	current, err := memberPhase(ctx, uc.groupRepo, groupID, uid)
	if err != nil {
		return "", err
	}
	switch current {
	case entity.MemberPhaseBanned:
		return "", errors.Forbidden("You cannot join this group", nil)
	case entity.MemberPhaseMember, entity.MemberPhaseAdmin, entity.MemberPhasePending:
		return current, nil
	}

	phase := entity.MemberPhaseMember
	if group.Visibility == entity.GroupPrivate {
		phase = entity.MemberPhasePending
	}

	if err := uc.groupRepo.SetMember(ctx, groupID, &entity.GroupMember{UserID: uid, Phase: phase, Timestamp: time.Now()}); err != nil {
		return "", err
	}

	if phase == entity.MemberPhasePending {
		uc.functions.Call(FnGroupRequest, map[string]string{"groupId": groupID, "uid": uid, "ownerId": group.OwnerID}, "")
	}
	uc.telemetry.Event(ctx, telemetry.EventJoinGroup)
	return phase, nil
}

func (uc *GroupUseCase) Leave(ctx context.Context, uid, groupID string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}

	group, err := uc.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.OwnerID == uid {
		return errors.BadRequest("The owner cannot leave the group", nil)
	}
	return uc.groupRepo.RemoveMember(ctx, groupID, uid)
}

// AcceptMember turns a pending request into a membership. Admins only.
func (uc *GroupUseCase) AcceptMember(ctx context.Context, adminID, groupID, uid string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}
	if err := requireAdmin(ctx, uc.groupRepo, groupID, adminID); err != nil {
		return err
	}

	phase, err := memberPhase(ctx, uc.groupRepo, groupID, uid)
	if err != nil {
		return err
	}
	if phase != entity.MemberPhasePending {
		return errors.BadRequest("User has no pending request", nil)
	}

	if err := uc.groupRepo.SetMember(ctx, groupID, &entity.GroupMember{UserID: uid, Phase: entity.MemberPhaseMember, Timestamp: time.Now()}); err != nil {
		return err
	}

	uc.functions.Call(FnGroupAccept, map[string]string{"groupId": groupID, "uid": uid}, "")
	return nil
}

// Ban removes a member's access and keeps them from joining again.
func (uc *GroupUseCase) Ban(ctx context.Context, adminID, groupID, uid string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}
	if err := requireAdmin(ctx, uc.groupRepo, groupID, adminID); err != nil {
		return err
	}
	if adminID == uid {
		return errors.BadRequest("Cannot ban yourself", nil)
	}

	group, err := uc.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.OwnerID == uid {
		return errors.Forbidden("The owner cannot be banned", nil)
	}
	return uc.groupRepo.SetMember(ctx, groupID, &entity.GroupMember{UserID: uid, Phase: entity.MemberPhaseBanned, Timestamp: time.Now()})
}

// Members lists active members to anyone who can see the group, and
// pending requests to admins.
func (uc *GroupUseCase) Members(ctx context.Context, viewerID, groupID string, phase entity.MemberPhase, cursor string, limit int) (*Page[*entity.GroupMember], error) {
	if phase == entity.MemberPhasePending || phase == entity.MemberPhaseBanned {
		if err := requireAdmin(ctx, uc.groupRepo, groupID, viewerID); err != nil {
			return nil, err
		}
	} else if _, _, err := groupAccess(ctx, uc.groupRepo, groupID, viewerID); err != nil {
		return nil, err
	}

	members, err := uc.groupRepo.ListMembers(ctx, groupID, phase, cursor, limit)
	if err != nil {
		return nil, err
	}
	return newPage(members, limit, func(m *entity.GroupMember) string { return m.UserID }), nil
}

func (uc *GroupUseCase) countMembers(ctx context.Context, groups []*entity.Group) error {
	return join(len(groups), func(i int) error {
		n, err := uc.groupRepo.CountMembers(ctx, groups[i].ID)
		if err != nil {
			return err
		}
		groups[i].Members = n
		return nil
	})
}

func groupTime(g *entity.Group) time.Time { return g.Timestamp }
