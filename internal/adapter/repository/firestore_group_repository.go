package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

type firestoreGroupRepository struct {
	client *firestore.Client
}

func NewFirestoreGroupRepository(client *firestore.Client) repository.GroupRepository {
	return &firestoreGroupRepository{
		client: client,
	}
}

func (r *firestoreGroupRepository) groups() *firestore.CollectionRef {
	return r.client.Collection("groups")
}

func (r *firestoreGroupRepository) members(groupID string) *firestore.CollectionRef {
	return r.groups().Doc(groupID).Collection("members")
}

func (r *firestoreGroupRepository) userIndex(uid string) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(uid).Collection("groups")
}

func (r *firestoreGroupRepository) Create(ctx context.Context, group *entity.Group, owner *entity.GroupMember) error {
	if group.ID == "" {
		group.ID = r.groups().NewDoc().ID
	}
	if group.Timestamp.IsZero() {
		group.Timestamp = time.Now()
	}

	batch := r.client.Batch()
	batch.Set(r.groups().Doc(group.ID), group)
	r.setMember(batch, group.ID, owner)

	if _, err := batch.Commit(ctx); err != nil {
		return errors.Unknown("Failed to create group", err)
	}
	return nil
}

func (r *firestoreGroupRepository) GetByID(ctx context.Context, id string) (*entity.Group, error) {
	doc, err := r.groups().Doc(id).Get(ctx)
	if err != nil {
		return nil, errors.FromBackend(err, "Group")
	}

	var group entity.Group
	if err := doc.DataTo(&group); err != nil {
		return nil, errors.Unknown("Failed to parse group data", err)
	}
	return &group, nil
}

func (r *firestoreGroupRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Group, error) {
	groups, err := getAll[entity.Group](ctx, r.client, r.groups(), ids)
	if err != nil {
		return nil, errors.FromBackend(err, "Groups")
	}
	return groups, nil
}

func (r *firestoreGroupRepository) ListPublic(ctx context.Context, profession, cursor string, limit int) ([]*entity.Group, error) {
	query := r.groups().Where("visibility", "==", string(entity.GroupPublic))
	if profession != "" {
		query = query.Where("professions", "array-contains", profession)
	}

	query, err := startAfter(ctx, r.groups(), query.OrderBy("timestamp", firestore.Desc), cursor)
	if err != nil {
		return nil, errors.FromBackend(err, "Groups")
	}

	groups, err := collect[entity.Group](query.Limit(limit).Documents(ctx))
	if err != nil {
		return nil, errors.FromBackend(err, "Groups")
	}
	return groups, nil
}

func (r *firestoreGroupRepository) GetMember(ctx context.Context, groupID, uid string) (*entity.GroupMember, error) {
	doc, err := r.members(groupID).Doc(uid).Get(ctx)
	if err != nil {
		return nil, errors.FromBackend(err, "Group member")
	}

	var member entity.GroupMember
	if err := doc.DataTo(&member); err != nil {
		return nil, errors.Unknown("Failed to parse member data", err)
	}
	return &member, nil
}

func (r *firestoreGroupRepository) setMember(batch *firestore.WriteBatch, groupID string, member *entity.GroupMember) {
	if member.Timestamp.IsZero() {
		member.Timestamp = time.Now()
	}
	batch.Set(r.members(groupID).Doc(member.UserID), member)
	batch.Set(r.userIndex(member.UserID).Doc(groupID), map[string]interface{}{
		"id":        groupID,
		"phase":     string(member.Phase),
		"timestamp": member.Timestamp,
	})
}

// SetMember writes the member document and the per-user index together.
func (r *firestoreGroupRepository) SetMember(ctx context.Context, groupID string, member *entity.GroupMember) error {
	batch := r.client.Batch()
	r.setMember(batch, groupID, member)

	if _, err := batch.Commit(ctx); err != nil {
		return errors.FromBackend(err, "Group member")
	}
	return nil
}

func (r *firestoreGroupRepository) RemoveMember(ctx context.Context, groupID, uid string) error {
	batch := r.client.Batch()
	batch.Delete(r.members(groupID).Doc(uid))
	batch.Delete(r.userIndex(uid).Doc(groupID))

	if _, err := batch.Commit(ctx); err != nil {
		return errors.FromBackend(err, "Group member")
	}
	return nil
}

func (r *firestoreGroupRepository) ListMembers(ctx context.Context, groupID string, phase entity.MemberPhase, cursor string, limit int) ([]*entity.GroupMember, error) {
	coll := r.members(groupID)
	query := coll.Query
	if phase != "" {
		query = query.Where("phase", "==", string(phase))
	}

	query, err := startAfter(ctx, coll, query.OrderBy("timestamp", firestore.Desc), cursor)
	if err != nil {
		return nil, errors.FromBackend(err, "Group members")
	}

	members, err := collect[entity.GroupMember](query.Limit(limit).Documents(ctx))
	if err != nil {
		return nil, errors.FromBackend(err, "Group members")
	}
	return members, nil
}

func (r *firestoreGroupRepository) CountMembers(ctx context.Context, groupID string) (int64, error) {
	query := r.members(groupID).Where("phase", "in", []string{string(entity.MemberPhaseMember), string(entity.MemberPhaseAdmin)})
	n, err := count(ctx, query)
	if err != nil {
		return 0, errors.FromBackend(err, "Group members")
	}
	return n, nil
}

func (r *firestoreGroupRepository) ListUserGroupIDs(ctx context.Context, uid string) ([]string, error) {
	query := r.userIndex(uid).Where("phase", "in", []string{string(entity.MemberPhaseMember), string(entity.MemberPhaseAdmin)})

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.FromBackend(err, "Groups")
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.Ref.ID)
	}
	return ids, nil
}
