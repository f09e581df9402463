package course

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/course-backend/internal/document"
	"github.com/futig/course-backend/internal/entity"
	"github.com/futig/course-backend/internal/pkg/logger"
	"github.com/futig/course-backend/internal/pkg/validator"
	"github.com/futig/course-backend/internal/session"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GenerateOutline validates the course parameters and produces the chapter outline.
// Calling it past IDLE starts the course over.
func (uc *CourseUsecase) GenerateOutline(ctx context.Context, s *session.Session, spec entity.CourseSpec) (*entity.CourseOutline, error) {
	if !s.TryAcquire() {
		return nil, entity.ErrPipelineBusy
	}
	defer s.Release()

	ctx = logger.WithAction(logger.WithSession(ctx, s.ID), "generate_outline")

	spec = validator.SanitizeCourseSpec(spec)
	if err := uc.validator.ValidateCourseSpec(&spec); err != nil {
		return nil, err
	}

	outlinePrompt := uc.prompts.OutlinePrompt(spec)
	refined := ""
	if uc.prompts.Mode() == entity.PipelineModeRefined {
		var err error
		refined, err = uc.generate(ctx, entity.StageRefinePrompt, 0, "", uc.prompts.RefinePrompt(spec))
		if err != nil {
			return nil, err
		}
		outlinePrompt = refined
	}

	raw, err := uc.generate(ctx, entity.StageOutline, 0, "", outlinePrompt)
	if err != nil {
		return nil, err
	}

	text := uc.cleaner.Clean(raw)
	courseOutline := &entity.CourseOutline{
		Prompt:        outlinePrompt,
		RawText:       raw,
		Text:          text,
		ChapterTitles: uc.parser.Parse(text),
	}
	uc.checkChapterTitles(ctx, spec, courseOutline.ChapterTitles)

	artifact, err := uc.assembler.Render(document.KindPlan, spec.Title, uc.outlineTitle(spec), text, entity.FormatPDF)
	if err != nil {
		return nil, fmt.Errorf("render outline: %w", err)
	}
	if err := uc.assembler.WriteArtifact(document.KindPlan, spec.Title, artifact); err != nil {
		return nil, err
	}

	// The session keeps its previous course until the new outline is complete.
	if s.Status() != entity.PipelineStatusIdle {
		ctxzap.Info(ctx, "outline regenerated on a started course, resetting", zap.String("status", string(s.Status())))
		s.Reset()
	}
	s.State.Set(session.KeyCourseSpec, spec)
	s.State.Set(session.KeyQuizQuestions, []string{})
	if refined != "" {
		s.State.Set(session.KeyRefinedPrompt, refined)
	}
	s.State.Set(session.KeyCourseOutline, courseOutline)
	s.State.Set(session.KeyPlanArtifact, artifact)
	if err := s.Transition(entity.PipelineStatusOutlineGenerated); err != nil {
		return nil, err
	}

	s.AppendHistory(
		entity.Message{Role: entity.RoleUser, Content: uc.prompts.UserSelections(spec)},
		entity.Message{Role: entity.RoleAssistant, Content: text},
	)
	uc.saveHistory(ctx, s)

	ctxzap.Info(ctx, "outline generated",
		zap.Int("chapter_count", len(courseOutline.ChapterTitles)),
		zap.String("artifact_path", artifact.Path),
	)

	return courseOutline, nil
}

// GenerateChapters writes content and a quiz for every chapter of the outline
func (uc *CourseUsecase) GenerateChapters(ctx context.Context, s *session.Session) ([]entity.Chapter, error) {
	if !s.TryAcquire() {
		return nil, entity.ErrPipelineBusy
	}
	defer s.Release()

	ctx = logger.WithAction(logger.WithSession(ctx, s.ID), "generate_chapters")
	return uc.generateChapters(ctx, s)
}

// AssembleCourse builds the final document from the generated chapters
func (uc *CourseUsecase) AssembleCourse(ctx context.Context, s *session.Session) (*entity.CourseDocument, error) {
	if !s.TryAcquire() {
		return nil, entity.ErrPipelineBusy
	}
	defer s.Release()

	ctx = logger.WithAction(logger.WithSession(ctx, s.ID), "assemble_course")
	return uc.assembleCourse(ctx, s)
}

// GenerateCourse runs the remaining steps after the outline: chapters, then the document
func (uc *CourseUsecase) GenerateCourse(ctx context.Context, s *session.Session) (*entity.CourseDocument, error) {
	if !s.TryAcquire() {
		return nil, entity.ErrPipelineBusy
	}
	defer s.Release()

	ctx = logger.WithAction(logger.WithSession(ctx, s.ID), "generate_course")

	switch status := s.Status(); status {
	case entity.PipelineStatusOutlineGenerated:
		if _, err := uc.generateChapters(ctx, s); err != nil {
			return nil, err
		}
	case entity.PipelineStatusChaptersGenerated:
		// chapters survived a failed assembly, only the document is missing
	default:
		return nil, fmt.Errorf("%w: course cannot be generated from %s", entity.ErrInvalidTransition, status)
	}

	return uc.assembleCourse(ctx, s)
}

// ResetCourse clears the pipeline state and returns to IDLE. The chat history is kept.
func (uc *CourseUsecase) ResetCourse(ctx context.Context, s *session.Session) error {
	if !s.TryAcquire() {
		return entity.ErrPipelineBusy
	}
	defer s.Release()

	s.Reset()

	ctxzap.Info(ctx, "course reset", zap.String("session_id", s.ID))
	return nil
}

func (uc *CourseUsecase) generateChapters(ctx context.Context, s *session.Session) ([]entity.Chapter, error) {
	if status := s.Status(); status != entity.PipelineStatusOutlineGenerated {
		return nil, fmt.Errorf("%w: chapters cannot be generated from %s", entity.ErrInvalidTransition, status)
	}

	spec, _ := s.Spec()
	courseOutline, ok := s.Outline()
	if !ok {
		return nil, fmt.Errorf("%w: outline is missing", entity.ErrInvalidTransition)
	}
	titles := courseOutline.ChapterTitles
	if len(titles) == 0 {
		return nil, entity.ErrMalformedOutline
	}

	progress := newChapterProgress(s.State, titles)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.cfg.ChapterConcurrency)

	for i, title := range titles {
		i, title := i, title
		if gctx.Err() != nil {
			break
		}
		index := i + 1
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			content, err := uc.generate(gctx, entity.StageChapter, index, title, uc.prompts.ChapterPrompt(title, spec))
			if err != nil {
				return err
			}
			progress.setContent(i, content)

			quiz, err := uc.generate(gctx, entity.StageQuiz, index, title, uc.prompts.QuizPrompt(content, uc.cfg.QuizQuestions))
			if err != nil {
				return err
			}
			progress.setQuiz(i, quiz)

			ctxzap.Debug(gctx, "chapter generated", zap.Int("chapter", index), zap.String("title", title))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var genErr *entity.GenerationError
		if errors.As(err, &genErr) {
			ctxzap.Error(ctx, "chapter generation failed",
				zap.String("stage", string(genErr.Stage)),
				zap.Int("chapter", genErr.ChapterIndex),
				zap.Int("chapters_kept", len(s.Chapters())),
				zap.Error(genErr.Err),
			)
		}
		return nil, err
	}

	chapters := progress.chapters()
	if err := s.Transition(entity.PipelineStatusChaptersGenerated); err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "chapters generated", zap.Int("chapter_count", len(chapters)))
	return chapters, nil
}

func (uc *CourseUsecase) assembleCourse(ctx context.Context, s *session.Session) (*entity.CourseDocument, error) {
	if status := s.Status(); status != entity.PipelineStatusChaptersGenerated {
		return nil, fmt.Errorf("%w: course cannot be assembled from %s", entity.ErrInvalidTransition, status)
	}

	spec, _ := s.Spec()
	chapters := s.Chapters()

	doc, artifact, err := uc.assembler.Assemble(document.Header{Title: spec.Title, Duration: spec.Duration}, chapters)
	if err != nil {
		return nil, fmt.Errorf("assemble course: %w", err)
	}
	if err := uc.assembler.WriteArtifact(document.KindCourse, spec.Title, artifact); err != nil {
		return nil, err
	}

	for _, ch := range chapters {
		chapterArtifact, err := uc.assembler.Render(document.KindChapter, ch.Title, ch.Title, uc.assembler.ChapterBody(ch), entity.FormatPDF)
		if err != nil {
			return nil, fmt.Errorf("render chapter %d: %w", ch.Index, err)
		}
		if err := uc.assembler.WriteArtifact(document.KindChapter, spec.Title, chapterArtifact); err != nil {
			return nil, err
		}
	}

	s.State.Set(session.KeyCourseDocument, doc)
	s.State.Set(session.KeyCourseArtifact, artifact)
	if err := s.Transition(entity.PipelineStatusDone); err != nil {
		return nil, err
	}

	s.AppendHistory(entity.Message{Role: entity.RoleAssistant, Content: doc.Body})
	uc.saveHistory(ctx, s)

	ctxzap.Info(ctx, "course assembled",
		zap.Int("chapter_count", len(chapters)),
		zap.String("artifact_path", artifact.Path),
	)
	return doc, nil
}

func (uc *CourseUsecase) generate(ctx context.Context, stage entity.GenerationStage, index int, title, prompt string) (string, error) {
	text, err := uc.llm.Generate(ctx, prompt, uc.llm.DefaultModel())
	if err != nil {
		return "", &entity.GenerationError{
			Stage:        stage,
			ChapterIndex: index,
			ChapterTitle: title,
			Err:          err,
		}
	}
	return text, nil
}
