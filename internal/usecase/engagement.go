package usecase

import (
	"context"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

// fetchEngagement runs the four per-item side queries concurrently.
func fetchEngagement(ctx context.Context, repo repository.EngagementRepository, contentID, viewerID string) (entity.Engagement, error) {
	var e entity.Engagement
	err := join(4, func(i int) error {
		var err error
		switch i {
		case 0:
			e.Likes, err = repo.CountLikes(ctx, contentID)
		case 1:
			e.Comments, err = repo.CountComments(ctx, contentID)
		case 2:
			e.DidLike, err = repo.DidLike(ctx, contentID, viewerID)
		case 3:
			e.DidBookmark, err = repo.DidBookmark(ctx, contentID, viewerID)
		}
		return err
	})
	return e, err
}

// enrich fills the engagement of n items, addressed by index.
func enrich(ctx context.Context, repo repository.EngagementRepository, viewerID string, n int, id func(i int) string, slot func(i int) *entity.Engagement) error {
	return join(n, func(i int) error {
		e, err := fetchEngagement(ctx, repo, id(i), viewerID)
		if err != nil {
			return err
		}
		*slot(i) = e
		return nil
	})
}

// memberPhase returns "" when uid is not in the group.
func memberPhase(ctx context.Context, groups repository.GroupRepository, groupID, uid string) (entity.MemberPhase, error) {
	member, err := groups.GetMember(ctx, groupID, uid)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return "", nil
		}
		return "", err
	}
	return member.Phase, nil
}

func isActiveMember(phase entity.MemberPhase) bool {
	return phase == entity.MemberPhaseMember || phase == entity.MemberPhaseAdmin
}

// groupAccess checks that uid may read a group's content.
func groupAccess(ctx context.Context, groups repository.GroupRepository, groupID, uid string) (*entity.Group, entity.MemberPhase, error) {
	group, err := groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, "", err
	}

	phase, err := memberPhase(ctx, groups, groupID, uid)
	if err != nil {
		return nil, "", err
	}
	if group.Visibility == entity.GroupPrivate && !isActiveMember(phase) {
		return nil, "", errors.Forbidden("Group content is only visible to members", nil)
	}
	return group, phase, nil
}

// initialVisibility is pending when the group moderates new content.
func initialVisibility(ctx context.Context, groups repository.GroupRepository, groupID, uid string) (entity.Visibility, error) {
	if groupID == "" {
		return entity.VisibilityRegular, nil
	}

	group, err := groups.GetByID(ctx, groupID)
	if err != nil {
		return "", err
	}
	phase, err := memberPhase(ctx, groups, groupID, uid)
	if err != nil {
		return "", err
	}
	if !isActiveMember(phase) {
		return "", errors.Forbidden("Only members can publish in this group", nil)
	}
	if group.PostApproval && phase != entity.MemberPhaseAdmin {
		return entity.VisibilityPending, nil
	}
	return entity.VisibilityRegular, nil
}

func requireAdmin(ctx context.Context, groups repository.GroupRepository, groupID, uid string) error {
	phase, err := memberPhase(ctx, groups, groupID, uid)
	if err != nil {
		return err
	}
	if phase != entity.MemberPhaseAdmin {
		return errors.Forbidden("Only group admins can do this", nil)
	}
	return nil
}
