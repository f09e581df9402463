package course

import (
	"context"

	"github.com/futig/course-backend/internal/document"
	"github.com/futig/course-backend/internal/entity"
	"github.com/futig/course-backend/internal/session"
)

type LLMConnector interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
	SetAPIKey(key string)
	HasCredential() bool
	DefaultModel() string
}

type DocumentAssembler interface {
	Compose(h document.Header, chapters []entity.Chapter) string
	ChapterBody(ch entity.Chapter) string
	Assemble(h document.Header, chapters []entity.Chapter) (*entity.CourseDocument, *entity.Artifact, error)
	Render(kind document.ArtifactKind, name, title, body string, format entity.ResultFormat) (*entity.Artifact, error)
	WriteArtifact(kind document.ArtifactKind, courseTitle string, artifact *entity.Artifact) error
}

type SessionRegistry interface {
	Create(mode entity.PipelineMode, history []entity.Message) *session.Session
	Get(id string) (*session.Session, error)
	Delete(id string) error
	Each(fn func(*session.Session))
}

type TextCleaner interface {
	Clean(text string) string
}
