package course

import (
	"context"
	"sync"

	"github.com/futig/course-backend/internal/entity"
	"github.com/futig/course-backend/internal/session"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// checkChapterTitles logs outlines that diverge from what was asked for.
// Divergence is not an error: every detected chapter is generated.
func (uc *CourseUsecase) checkChapterTitles(ctx context.Context, spec entity.CourseSpec, titles []string) {
	if len(titles) == 0 {
		ctxzap.Warn(ctx, "outline contains no chapter markers", zap.Strings("markers", uc.prompts.ChapterMarkers()))
		return
	}
	if len(titles) != spec.ChapterCount {
		ctxzap.Warn(ctx, "chapter count differs from the requested one",
			zap.Int("requested", spec.ChapterCount),
			zap.Int("detected", len(titles)),
		)
	}

	seen := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		if _, ok := seen[t]; ok {
			ctxzap.Warn(ctx, "duplicate chapter title in outline", zap.String("title", t))
			continue
		}
		seen[t] = struct{}{}
	}
}

func (uc *CourseUsecase) outlineTitle(spec entity.CourseSpec) string {
	return uc.prompts.Labels().Outline + " : " + spec.Title
}

// chapterProgress collects chapter results by outline position and mirrors
// every chapter that has content into the session state.
type chapterProgress struct {
	mu    sync.Mutex
	state *session.State
	slots []entity.Chapter
}

func newChapterProgress(state *session.State, titles []string) *chapterProgress {
	slots := make([]entity.Chapter, len(titles))
	for i, t := range titles {
		slots[i] = entity.Chapter{Index: i + 1, Title: t}
	}
	p := &chapterProgress{state: state, slots: slots}
	p.publish()
	return p
}

func (p *chapterProgress) setContent(i int, content string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.slots[i].Content = content
	p.publish()
}

func (p *chapterProgress) setQuiz(i int, quiz string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.slots[i].Quiz = quiz
	p.publish()
}

func (p *chapterProgress) chapters() []entity.Chapter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.Chapter(nil), p.slots...)
}

// publish must be called with mu held
func (p *chapterProgress) publish() {
	chapters := make([]entity.Chapter, 0, len(p.slots))
	quizzes := make([]string, 0, len(p.slots))
	for _, ch := range p.slots {
		if ch.Content == "" {
			continue
		}
		chapters = append(chapters, ch)
		if ch.Quiz != "" {
			quizzes = append(quizzes, ch.Quiz)
		}
	}
	p.state.Set(session.KeyChapters, chapters)
	p.state.Set(session.KeyQuizQuestions, quizzes)
}
