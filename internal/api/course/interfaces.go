package course

import (
	"context"

	"github.com/futig/course-backend/internal/entity"
	"github.com/futig/course-backend/internal/session"
)

type CourseUsecase interface {
	StartSession(ctx context.Context) (*session.Session, error)
	GetSession(ctx context.Context, id string) (*session.Session, error)
	EndSession(ctx context.Context, id string) error
	GenerateOutline(ctx context.Context, s *session.Session, spec entity.CourseSpec) (*entity.CourseOutline, error)
	GenerateCourse(ctx context.Context, s *session.Session) (*entity.CourseDocument, error)
	ResetCourse(ctx context.Context, s *session.Session) error
	Export(ctx context.Context, s *session.Session, target entity.ExportTarget, format entity.ResultFormat, chapter int) (*entity.Artifact, error)
	History(ctx context.Context) ([]entity.Message, error)
	DeleteHistory(ctx context.Context) error
	SetCredential(ctx context.Context, apiKey string) error
	HasCredential() bool
}
