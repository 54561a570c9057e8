package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/ricardojlrufino/whatsapp-history-exporter/models"
)

// Store is the structured message store. Production runs use the mysql
// driver; tests use sqlite3. The schema and the upsert statement are kept
// portable across both.
type Store struct {
	conn *sql.DB
	log  waLog.Logger
}

// NewStore opens and verifies a database connection.
func NewStore(driver, dsn string, log waLog.Logger) (*Store, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	return &Store{conn: conn, log: log}, nil
}

// InitSchema creates the messages table if it does not exist.
func (s *Store) InitSchema() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			message_id VARCHAR(255) PRIMARY KEY,
			timestamp DATETIME NOT NULL,
			chat_id VARCHAR(255) NOT NULL,
			from_me BOOLEAN NOT NULL DEFAULT FALSE,
			type VARCHAR(64) NOT NULL,
			text TEXT,
			has_media BOOLEAN NOT NULL DEFAULT FALSE
		)
	`)
	if err != nil {
		return fmt.Errorf("creating messages table: %w", err)
	}
	return nil
}

// Begin opens the transaction that scopes one migration run.
func (s *Store) Begin() (*sql.Tx, error) {
	return s.conn.Begin()
}

// UpsertMessage inserts the record or fully replaces the existing row with
// the same message identifier.
func (s *Store) UpsertMessage(tx *sql.Tx, msg *models.Message) error {
	_, err := tx.Exec(`
		REPLACE INTO messages (message_id, timestamp, chat_id, from_me, type, text, has_media)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, msg.MessageID, msg.Timestamp, msg.ChatID, msg.FromMe, msg.Type, msg.Text, msg.HasMedia)
	if err != nil {
		return fmt.Errorf("upserting message %s: %w", msg.MessageID, err)
	}
	return nil
}

// CountMessages returns the total number of stored records.
func (s *Store) CountMessages() (int, error) {
	var count int
	if err := s.conn.QueryRow("SELECT COUNT(*) FROM messages").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}
	return count, nil
}

// LoadChatMessages returns the stored records of one chat in timestamp order.
func (s *Store) LoadChatMessages(chatID string) ([]models.Message, error) {
	rows, err := s.conn.Query(`
		SELECT message_id, timestamp, chat_id, from_me, type, text, has_media
		FROM messages
		WHERE chat_id = ?
		ORDER BY timestamp ASC
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("loading messages for %s: %w", chatID, err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.MessageID, &msg.Timestamp, &msg.ChatID, &msg.FromMe, &msg.Type, &msg.Text, &msg.HasMedia); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
