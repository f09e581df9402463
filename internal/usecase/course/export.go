package course

import (
	"context"
	"fmt"

	"github.com/futig/course-backend/internal/document"
	"github.com/futig/course-backend/internal/entity"
	"github.com/futig/course-backend/internal/session"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Export renders the outline, the whole course or one chapter (1-based) in the requested format
func (uc *CourseUsecase) Export(
	ctx context.Context,
	s *session.Session,
	target entity.ExportTarget,
	format entity.ResultFormat,
	chapter int,
) (*entity.Artifact, error) {
	if format == "" {
		format = entity.FormatPDF
	}
	spec, _ := s.Spec()

	var (
		artifact *entity.Artifact
		err      error
	)
	switch target {
	case entity.ExportOutline:
		courseOutline, ok := s.Outline()
		if !ok {
			return nil, fmt.Errorf("%w: outline has not been generated", entity.ErrNoArtifact)
		}
		if cached, ok := s.Artifact(session.KeyPlanArtifact); ok && format == entity.FormatPDF {
			return cached, nil
		}
		artifact, err = uc.assembler.Render(document.KindPlan, spec.Title, uc.outlineTitle(spec), courseOutline.Text, format)

	case entity.ExportCourse:
		doc, ok := s.Document()
		if !ok {
			return nil, fmt.Errorf("%w: course has not been assembled", entity.ErrNoArtifact)
		}
		if cached, ok := s.Artifact(session.KeyCourseArtifact); ok && format == entity.FormatPDF {
			return cached, nil
		}
		artifact, err = uc.assembler.Render(document.KindCourse, spec.Title, spec.Title, doc.Body, format)

	case entity.ExportChapter:
		chapters := s.Chapters()
		if chapter < 1 || chapter > len(chapters) {
			if len(chapters) == 0 {
				return nil, fmt.Errorf("%w: no chapter has been generated", entity.ErrNoArtifact)
			}
			return nil, fmt.Errorf("%w: chapter must be between 1 and %d, got %d", entity.ErrInvalidParameter, len(chapters), chapter)
		}
		ch := chapters[chapter-1]
		artifact, err = uc.assembler.Render(document.KindChapter, ch.Title, ch.Title, uc.assembler.ChapterBody(ch), format)

	default:
		return nil, fmt.Errorf("%w: unknown export target %q", entity.ErrInvalidParameter, target)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", target, err)
	}

	ctxzap.Info(ctx, "artifact exported",
		zap.String("target", string(target)),
		zap.String("format", string(format)),
		zap.Int("size", len(artifact.Data)),
	)
	return artifact, nil
}
