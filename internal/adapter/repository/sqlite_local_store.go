package repository

import (
	"context"
	"database/sql"
	"time"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

// Local mirrors live in the embedded sqlite database opened by
// infrastructure/localdb. Notification timestamps are stored as unix
// microseconds, the precision Firestore keeps, so LatestTimestamp round-trips
// exactly. Message timestamps are already milliseconds.

type sqliteNotificationStore struct {
	db *sql.DB
}

func NewSQLiteNotificationStore(db *sql.DB) repository.NotificationStore {
	return &sqliteNotificationStore{
		db: db,
	}
}

func (s *sqliteNotificationStore) Save(ctx context.Context, notifications []*entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Unknown("Failed to open local transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO notifications (id, uid, from_id, kind, content_id, comment_id, timestamp, is_read)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			timestamp = excluded.timestamp,
			is_read = excluded.is_read`)
	if err != nil {
		return errors.Unknown("Failed to prepare notification insert", err)
	}
	defer stmt.Close()

	for _, n := range notifications {
		_, err := stmt.ExecContext(ctx,
			n.ID, n.UserID, n.FromID, string(n.Kind), n.ContentID, n.CommentID,
			n.Timestamp.UnixMicro(), n.IsRead)
		if err != nil {
			return errors.Unknown("Failed to save notification", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Unknown("Failed to commit notifications", err)
	}
	return nil
}

func (s *sqliteNotificationStore) List(ctx context.Context, uid string, limit, offset int) ([]*entity.Notification, int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE uid = ?`, uid).Scan(&total)
	if err != nil {
		return nil, 0, errors.Unknown("Failed to count notifications", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, uid, from_id, kind, content_id, comment_id, timestamp, is_read
		FROM notifications
		WHERE uid = ?
		ORDER BY timestamp DESC
		LIMIT ? OFFSET ?`, uid, limit, offset)
	if err != nil {
		return nil, 0, errors.Unknown("Failed to list notifications", err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var (
			n    entity.Notification
			kind string
			ts   int64
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.FromID, &kind, &n.ContentID, &n.CommentID, &ts, &n.IsRead); err != nil {
			return nil, 0, errors.Unknown("Failed to read notification", err)
		}
		n.Kind = entity.NotificationKind(kind)
		n.Timestamp = time.UnixMicro(ts)
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Unknown("Failed to list notifications", err)
	}

	return notifications, total, nil
}

func (s *sqliteNotificationStore) MarkRead(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ?`, id); err != nil {
		return errors.Unknown("Failed to mark notification read", err)
	}
	return nil
}

func (s *sqliteNotificationStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id); err != nil {
		return errors.Unknown("Failed to delete notification", err)
	}
	return nil
}

func (s *sqliteNotificationStore) UnreadCount(ctx context.Context, uid string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE uid = ? AND is_read = 0`, uid).Scan(&n)
	if err != nil {
		return 0, errors.Unknown("Failed to count unread notifications", err)
	}
	return n, nil
}

// LatestTimestamp returns the zero time when nothing is stored for uid.
func (s *sqliteNotificationStore) LatestTimestamp(ctx context.Context, uid string) (time.Time, error) {
	var ts sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(timestamp) FROM notifications WHERE uid = ?`, uid).Scan(&ts)
	if err != nil {
		return time.Time{}, errors.Unknown("Failed to read latest notification", err)
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	return time.UnixMicro(ts.Int64), nil
}

type sqliteConversationStore struct {
	db *sql.DB
}

func NewSQLiteConversationStore(db *sql.DB) repository.ConversationStore {
	return &sqliteConversationStore{
		db: db,
	}
}

func (s *sqliteConversationStore) SaveConversations(ctx context.Context, uid string, conversations []*entity.Conversation) error {
	if len(conversations) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Unknown("Failed to open local transaction", err)
	}
	defer tx.Rollback()

	for _, c := range conversations {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO conversations (id, owner_id, user_id, latest_message, timestamp, sync)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(owner_id, id) DO UPDATE SET
				latest_message = excluded.latest_message,
				timestamp = excluded.timestamp,
				sync = excluded.sync`,
			c.ID, uid, c.UserID, c.LatestMessage, c.Timestamp, c.Sync)
		if err != nil {
			return errors.Unknown("Failed to save conversation", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Unknown("Failed to commit conversations", err)
	}
	return nil
}

func (s *sqliteConversationStore) ListConversations(ctx context.Context, uid string) ([]*entity.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, latest_message, timestamp, sync
		FROM conversations
		WHERE owner_id = ?
		ORDER BY timestamp DESC`, uid)
	if err != nil {
		return nil, errors.Unknown("Failed to list conversations", err)
	}
	defer rows.Close()

	var conversations []*entity.Conversation
	for rows.Next() {
		var c entity.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.LatestMessage, &c.Timestamp, &c.Sync); err != nil {
			return nil, errors.Unknown("Failed to read conversation", err)
		}
		conversations = append(conversations, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Unknown("Failed to list conversations", err)
	}
	return conversations, nil
}

func (s *sqliteConversationStore) SaveMessages(ctx context.Context, conversationID string, messages []*entity.Message) error {
	if len(messages) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Unknown("Failed to open local transaction", err)
	}
	defer tx.Rollback()

	for _, m := range messages {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO messages (id, conversation_id, sender_id, text, kind, image_url, timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.ID, conversationID, m.SenderID, m.Text, string(m.Kind), m.ImageURL, m.Timestamp)
		if err != nil {
			return errors.Unknown("Failed to save message", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Unknown("Failed to commit messages", err)
	}
	return nil
}

// ListMessages returns the latest limit messages, oldest first.
func (s *sqliteConversationStore) ListMessages(ctx context.Context, conversationID string, limit int) ([]*entity.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sender_id, text, kind, image_url, timestamp
		FROM messages
		WHERE conversation_id = ?
		ORDER BY timestamp DESC
		LIMIT ?`, conversationID, limit)
	if err != nil {
		return nil, errors.Unknown("Failed to list messages", err)
	}
	defer rows.Close()

	var messages []*entity.Message
	for rows.Next() {
		var (
			m    entity.Message
			kind string
		)
		if err := rows.Scan(&m.ID, &m.SenderID, &m.Text, &kind, &m.ImageURL, &m.Timestamp); err != nil {
			return nil, errors.Unknown("Failed to read message", err)
		}
		m.Kind = entity.MessageKind(kind)
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Unknown("Failed to list messages", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
