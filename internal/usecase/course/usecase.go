// Package course drives the course generation pipeline:
// outline, then chapter content and quiz per chapter, then the assembled document.
package course

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/course-backend/internal/entity"
	"github.com/futig/course-backend/internal/outline"
	"github.com/futig/course-backend/internal/pkg/validator"
	"github.com/futig/course-backend/internal/prompt"
	"github.com/futig/course-backend/internal/repository"
	"github.com/futig/course-backend/internal/session"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Config struct {
	QuizQuestions      int
	ChapterConcurrency int
}

// CourseUsecase implements the pipeline orchestration
type CourseUsecase struct {
	llm       LLMConnector
	prompts   *prompt.Builder
	parser    outline.Parser
	cleaner   TextCleaner
	assembler DocumentAssembler
	sessions  SessionRegistry
	history   repository.HistoryRepository
	validator *validator.Validator
	cfg       Config
	logger    *zap.Logger
}

// NewUsecase creates a new course use case
func NewUsecase(
	llm LLMConnector,
	prompts *prompt.Builder,
	parser outline.Parser,
	cleaner TextCleaner,
	assembler DocumentAssembler,
	sessions SessionRegistry,
	history repository.HistoryRepository,
	validator *validator.Validator,
	cfg Config,
	logger *zap.Logger,
) *CourseUsecase {
	if cfg.QuizQuestions < 1 {
		cfg.QuizQuestions = prompt.DefaultQuizQuestions
	}
	if cfg.ChapterConcurrency < 1 {
		cfg.ChapterConcurrency = 1
	}
	return &CourseUsecase{
		llm:       llm,
		prompts:   prompts,
		parser:    parser,
		cleaner:   cleaner,
		assembler: assembler,
		sessions:  sessions,
		history:   history,
		validator: validator,
		cfg:       cfg,
		logger:    logger,
	}
}

// StartSession opens a session with the persisted chat history loaded
func (uc *CourseUsecase) StartSession(ctx context.Context) (*session.Session, error) {
	messages, err := uc.history.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}

	s := uc.sessions.Create(uc.prompts.Mode(), messages)

	ctxzap.Info(ctx, "session started",
		zap.String("session_id", s.ID),
		zap.String("mode", string(s.Mode)),
		zap.Int("history_entries", len(messages)),
	)

	return s, nil
}

func (uc *CourseUsecase) GetSession(ctx context.Context, id string) (*session.Session, error) {
	return uc.sessions.Get(id)
}

// EndSession drops the session and its pipeline state. The chat history stays persisted.
func (uc *CourseUsecase) EndSession(ctx context.Context, id string) error {
	s, err := uc.sessions.Get(id)
	if err != nil {
		return err
	}
	if s.Busy() {
		return entity.ErrPipelineBusy
	}
	if err := uc.sessions.Delete(id); err != nil {
		return err
	}

	ctxzap.Info(ctx, "session ended", zap.String("session_id", id))
	return nil
}

func (uc *CourseUsecase) History(ctx context.Context) ([]entity.Message, error) {
	messages, err := uc.history.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	if messages == nil {
		messages = []entity.Message{}
	}
	return messages, nil
}

// DeleteHistory persists an empty history and empties it in every live session
func (uc *CourseUsecase) DeleteHistory(ctx context.Context) error {
	if err := uc.history.Save(ctx, []entity.Message{}); err != nil {
		return fmt.Errorf("save chat history: %w", err)
	}

	uc.sessions.Each(func(s *session.Session) {
		s.ClearHistory()
	})

	ctxzap.Info(ctx, "chat history deleted")
	return nil
}

// SetCredential installs the API key used by later generation calls
func (uc *CourseUsecase) SetCredential(ctx context.Context, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("%w: api_key", entity.ErrMissingField)
	}

	uc.llm.SetAPIKey(apiKey)

	ctxzap.Info(ctx, "llm credential updated")
	return nil
}

func (uc *CourseUsecase) HasCredential() bool {
	return uc.llm.HasCredential()
}

// saveHistory persists the session history at the end of an interaction cycle.
// A failed save is logged and does not fail the pipeline step.
func (uc *CourseUsecase) saveHistory(ctx context.Context, s *session.Session) {
	if err := uc.history.Save(ctx, s.History()); err != nil {
		ctxzap.Error(ctx, "failed to save chat history", zap.Error(err))
	}
}
