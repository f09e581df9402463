package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/futig/course-backend/internal/entity"
)

var _ HistoryRepository = &HistoryFile{}

// HistoryFile keeps the chat history in a single JSON document on the local filesystem
type HistoryFile struct {
	path string
	mu   sync.Mutex
}

func NewHistoryFile(path string) *HistoryFile {
	return &HistoryFile{path: path}
}

func (r *HistoryFile) Load(ctx context.Context) ([]entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []entity.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	if len(data) == 0 {
		return []entity.Message{}, nil
	}

	var blob map[string][]entity.Message
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("decode history file: %w", err)
	}

	messages := blob[historyMessagesKey]
	if messages == nil {
		messages = []entity.Message{}
	}
	return messages, nil
}

// Save replaces the file content through a temp file and rename
func (r *HistoryFile) Save(ctx context.Context, messages []entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if messages == nil {
		messages = []entity.Message{}
	}
	data, err := json.MarshalIndent(map[string][]entity.Message{historyMessagesKey: messages}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+HistoryName+"-*")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp history file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}
