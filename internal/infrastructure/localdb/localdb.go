package localdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const fileName = "medconnect.db"

// Open creates the data directory if needed and returns a migrated database.
func Open(dataDir string) (*sql.DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, fileName)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// one writer, sqlite serializes anyway
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

func migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			uid TEXT NOT NULL,
			from_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			content_id TEXT NOT NULL DEFAULT '',
			comment_id TEXT NOT NULL DEFAULT '',
			timestamp INTEGER NOT NULL,
			is_read INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_uid_timestamp
			ON notifications (uid, timestamp DESC)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			latest_message TEXT NOT NULL DEFAULT '',
			timestamp INTEGER NOT NULL,
			sync INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (owner_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT NOT NULL,
			conversation_id TEXT NOT NULL,
			sender_id TEXT NOT NULL,
			text TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			timestamp INTEGER NOT NULL,
			PRIMARY KEY (conversation_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation_timestamp
			ON messages (conversation_id, timestamp DESC)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}

	return nil
}
