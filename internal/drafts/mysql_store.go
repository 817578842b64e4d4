package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/01moynul/marketfeed/internal/models"
	"github.com/goccy/go-json"
)

// MySQLStore keeps drafts in the ad_drafts table as a JSON payload.
type MySQLStore struct {
	DB *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{DB: db}
}

func (s *MySQLStore) Create(ctx context.Context, userID string) (*models.AdDraft, error) {
	d := newDraft(userID, time.Now().UTC().Truncate(time.Second))
	payload, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO ad_drafts (id, user_id, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	if _, err := s.DB.ExecContext(ctx, query, d.ID, d.UserID, payload, d.CreatedAt, d.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}
	return d, nil
}

func (s *MySQLStore) Get(ctx context.Context, userID, id string) (*models.AdDraft, error) {
	var payload []byte
	var createdAt, updatedAt time.Time
	err := s.DB.QueryRowContext(ctx,
		"SELECT payload, created_at, updated_at FROM ad_drafts WHERE id = ? AND user_id = ?",
		id, userID,
	).Scan(&payload, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var d models.AdDraft
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, fmt.Errorf("corrupt draft %s: %w", id, err)
	}
	d.ID, d.UserID = id, userID
	d.CreatedAt, d.UpdatedAt = createdAt, updatedAt
	return &d, nil
}

func (s *MySQLStore) Save(ctx context.Context, d *models.AdDraft) error {
	d.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx,
		"UPDATE ad_drafts SET payload = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		payload, d.UpdatedAt, d.ID, d.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return expectOneRow(res)
}

func (s *MySQLStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM ad_drafts WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
