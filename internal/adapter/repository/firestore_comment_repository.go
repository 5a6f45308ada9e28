package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

type firestoreCommentRepository struct {
	client *firestore.Client
}

func NewFirestoreCommentRepository(client *firestore.Client) repository.CommentRepository {
	return &firestoreCommentRepository{
		client: client,
	}
}

func (r *firestoreCommentRepository) comments(ref entity.CommentRef) *firestore.CollectionRef {
	return r.client.Collection(ref.Kind.Collection()).Doc(ref.ContentID).Collection("comments")
}

func (r *firestoreCommentRepository) replies(ref entity.CommentRef) *firestore.CollectionRef {
	return r.comments(ref).Doc(ref.CommentID).Collection("replies")
}

func (r *firestoreCommentRepository) doc(ref entity.CommentRef) *firestore.DocumentRef {
	if ref.IsReply() {
		return r.replies(ref).Doc(ref.ReplyID)
	}
	return r.comments(ref).Doc(ref.CommentID)
}

func (r *firestoreCommentRepository) Create(ctx context.Context, ref entity.CommentRef, comment *entity.Comment) error {
	coll := r.comments(ref)
	if ref.CommentID != "" {
		coll = r.replies(ref)
		comment.ParentID = ref.CommentID
	}

	if comment.ID == "" {
		comment.ID = coll.NewDoc().ID
	}
	comment.ContentID = ref.ContentID
	if comment.Timestamp.IsZero() {
		comment.Timestamp = time.Now()
	}

	if _, err := coll.Doc(comment.ID).Set(ctx, comment); err != nil {
		return errors.Unknown("Failed to create comment", err)
	}
	return nil
}

func (r *firestoreCommentRepository) Get(ctx context.Context, ref entity.CommentRef) (*entity.Comment, error) {
	doc, err := r.doc(ref).Get(ctx)
	if err != nil {
		return nil, errors.FromBackend(err, "Comment")
	}

	var comment entity.Comment
	if err := doc.DataTo(&comment); err != nil {
		return nil, errors.Unknown("Failed to parse comment data", err)
	}
	return &comment, nil
}

// List returns top-level comments newest first, or replies oldest first.
func (r *firestoreCommentRepository) List(ctx context.Context, ref entity.CommentRef, cursor string, limit int) ([]*entity.Comment, error) {
	coll := r.comments(ref)
	direction := firestore.Desc
	if ref.CommentID != "" {
		coll = r.replies(ref)
		direction = firestore.Asc
	}

	query, err := startAfter(ctx, coll, coll.OrderBy("timestamp", direction), cursor)
	if err != nil {
		return nil, errors.FromBackend(err, "Comments")
	}

	comments, err := collect[entity.Comment](query.Limit(limit).Documents(ctx))
	if err != nil {
		return nil, errors.FromBackend(err, "Comments")
	}
	return comments, nil
}

func (r *firestoreCommentRepository) UpdateVisibility(ctx context.Context, ref entity.CommentRef, visibility entity.CommentVisibility) error {
	_, err := r.doc(ref).Update(ctx, []firestore.Update{
		{Path: "visibility", Value: string(visibility)},
	})
	if err != nil {
		return errors.FromBackend(err, "Comment")
	}
	return nil
}

func (r *firestoreCommentRepository) Like(ctx context.Context, ref entity.CommentRef, uid string) error {
	_, err := r.doc(ref).Collection("likes").Doc(uid).Set(ctx, map[string]interface{}{
		"uid":       uid,
		"timestamp": time.Now(),
	})
	if err != nil {
		return errors.FromBackend(err, "Comment like")
	}
	return nil
}

// Unlike physically deletes the like document.
func (r *firestoreCommentRepository) Unlike(ctx context.Context, ref entity.CommentRef, uid string) error {
	if _, err := r.doc(ref).Collection("likes").Doc(uid).Delete(ctx); err != nil {
		return errors.FromBackend(err, "Comment like")
	}
	return nil
}

func (r *firestoreCommentRepository) CountLikes(ctx context.Context, ref entity.CommentRef) (int64, error) {
	n, err := count(ctx, r.doc(ref).Collection("likes").Query)
	if err != nil {
		return 0, errors.FromBackend(err, "Comment likes")
	}
	return n, nil
}

func (r *firestoreCommentRepository) DidLike(ctx context.Context, ref entity.CommentRef, uid string) (bool, error) {
	ok, err := exists(ctx, r.doc(ref).Collection("likes").Doc(uid))
	if err != nil {
		return false, errors.FromBackend(err, "Comment like")
	}
	return ok, nil
}

func (r *firestoreCommentRepository) CountReplies(ctx context.Context, ref entity.CommentRef) (int64, error) {
	query := r.replies(ref).Where("visibility", "in", []string{string(entity.CommentRegular), string(entity.CommentAnonymous)})
	n, err := count(ctx, query)
	if err != nil {
		return 0, errors.FromBackend(err, "Replies")
	}
	return n, nil
}

func (r *firestoreCommentRepository) HasReplyFrom(ctx context.Context, ref entity.CommentRef, uid string) (bool, error) {
	query := r.replies(ref).
		Where("uid", "==", uid).
		Where("visibility", "in", []string{string(entity.CommentRegular), string(entity.CommentAnonymous)})

	n, err := count(ctx, query.Limit(1))
	if err != nil {
		return false, errors.FromBackend(err, "Replies")
	}
	return n > 0, nil
}
