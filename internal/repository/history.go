package repository

import (
	"context"

	"github.com/futig/course-backend/internal/entity"
)

const (
	// HistoryName is the fixed logical name the chat history is stored under
	HistoryName = "chat_history"
	// historyMessagesKey is the key of the message list inside the stored blob
	historyMessagesKey = "messages"
)

// HistoryRepository persists the chat history as a whole: Save overwrites, it never appends
type HistoryRepository interface {
	Load(ctx context.Context) ([]entity.Message, error)
	Save(ctx context.Context, messages []entity.Message) error
}
