package session

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/futig/course-backend/internal/entity"
)

// Session is the explicit context every pipeline call receives
type Session struct {
	ID        string
	Mode      entity.PipelineMode
	CreatedAt time.Time
	State     *State

	busy atomic.Bool

	mu      sync.RWMutex
	status  entity.PipelineStatus
	history []entity.Message
}

func New(id string, mode entity.PipelineMode, history []entity.Message) *Session {
	return &Session{
		ID:        id,
		Mode:      mode,
		CreatedAt: time.Now(),
		State:     NewState(),
		status:    entity.PipelineStatusIdle,
		history:   slices.Clone(history),
	}
}

// TryAcquire marks the session as running a pipeline step.
// It returns false when another step is still in flight.
func (s *Session) TryAcquire() bool {
	return s.busy.CompareAndSwap(false, true)
}

func (s *Session) Release() {
	s.busy.Store(false)
}

func (s *Session) Busy() bool {
	return s.busy.Load()
}

func (s *Session) Status() entity.PipelineStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

var transitions = map[entity.PipelineStatus][]entity.PipelineStatus{
	entity.PipelineStatusIdle:              {entity.PipelineStatusOutlineGenerated},
	entity.PipelineStatusOutlineGenerated:  {entity.PipelineStatusChaptersGenerated},
	entity.PipelineStatusChaptersGenerated: {entity.PipelineStatusDone},
}

// Transition moves the pipeline forward. Moving back to IDLE is always allowed.
func (s *Session) Transition(to entity.PipelineStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if to != entity.PipelineStatusIdle && !slices.Contains(transitions[s.status], to) {
		return fmt.Errorf("%w: %s -> %s", entity.ErrInvalidTransition, s.status, to)
	}
	s.status = to
	return nil
}

// Reset clears pipeline-derived state and returns to IDLE. The chat history is kept.
func (s *Session) Reset() {
	s.State.Clear()
	s.mu.Lock()
	s.status = entity.PipelineStatusIdle
	s.mu.Unlock()
}

func (s *Session) History() []entity.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.history)
}

func (s *Session) AppendHistory(messages ...entity.Message) {
	s.mu.Lock()
	s.history = append(s.history, messages...)
	s.mu.Unlock()
}

func (s *Session) ClearHistory() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}

// Typed accessors over State

func (s *Session) Spec() (entity.CourseSpec, bool) {
	v, ok := s.State.Get(KeyCourseSpec)
	if !ok {
		return entity.CourseSpec{}, false
	}
	spec, ok := v.(entity.CourseSpec)
	return spec, ok
}

func (s *Session) Outline() (*entity.CourseOutline, bool) {
	v, ok := s.State.Get(KeyCourseOutline)
	if !ok {
		return nil, false
	}
	outline, ok := v.(*entity.CourseOutline)
	return outline, ok
}

// Chapters returns a copy of the chapters generated so far, in outline order
func (s *Session) Chapters() []entity.Chapter {
	v, ok := s.State.Get(KeyChapters)
	if !ok {
		return nil
	}
	chapters, _ := v.([]entity.Chapter)
	return slices.Clone(chapters)
}

func (s *Session) Document() (*entity.CourseDocument, bool) {
	v, ok := s.State.Get(KeyCourseDocument)
	if !ok {
		return nil, false
	}
	doc, ok := v.(*entity.CourseDocument)
	return doc, ok
}

func (s *Session) Artifact(key string) (*entity.Artifact, bool) {
	v, ok := s.State.Get(key)
	if !ok {
		return nil, false
	}
	a, ok := v.(*entity.Artifact)
	return a, ok
}

// ToDTO builds the read model returned by the API
func (s *Session) ToDTO() *entity.SessionDTO {
	dto := &entity.SessionDTO{
		ID:        s.ID,
		Status:    s.Status(),
		Mode:      s.Mode,
		Chapters:  s.Chapters(),
		CreatedAt: s.CreatedAt,
	}
	if spec, ok := s.Spec(); ok {
		dto.Spec = &spec
	}
	if outline, ok := s.Outline(); ok {
		dto.Outline = outline
	}
	if doc, ok := s.Document(); ok {
		dto.Document = doc
	}
	for _, key := range []string{KeyPlanArtifact, KeyCourseArtifact} {
		if a, ok := s.Artifact(key); ok {
			dto.Artifacts = append(dto.Artifacts, *a)
		}
	}
	return dto
}
