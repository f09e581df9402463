package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/futig/course-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ HistoryRepository = &HistoryPostgres{}

// HistoryPostgres stores the chat history as one JSONB row keyed by HistoryName
type HistoryPostgres struct {
	db *pgxpool.Pool
}

func NewHistoryPostgres(db *pgxpool.Pool) *HistoryPostgres {
	return &HistoryPostgres{db: db}
}

const (
	loadHistoryQuery = `SELECT messages FROM chat_history WHERE name = $1`
	saveHistoryQuery = `
INSERT INTO chat_history (name, messages, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET messages = EXCLUDED.messages, updated_at = now()`
)

func (r *HistoryPostgres) Load(ctx context.Context) ([]entity.Message, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, loadHistoryQuery, HistoryName).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return []entity.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}

	messages := []entity.Message{}
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("decode chat history: %w", err)
	}
	return messages, nil
}

func (r *HistoryPostgres) Save(ctx context.Context, messages []entity.Message) error {
	if messages == nil {
		messages = []entity.Message{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encode chat history: %w", err)
	}

	if _, err := r.db.Exec(ctx, saveHistoryQuery, HistoryName, raw); err != nil {
		return fmt.Errorf("save chat history: %w", err)
	}
	return nil
}
