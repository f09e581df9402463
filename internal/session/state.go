// Package session keeps the per-session pipeline state in process memory.
package session

import (
	gocache "github.com/patrickmn/go-cache"
)

// Logical keys of pipeline-derived values
const (
	KeyCourseSpec     = "course_spec"
	KeyRefinedPrompt  = "refined_prompt"
	KeyCourseOutline  = "course_outline"
	KeyChapters       = "chapters"
	KeyQuizQuestions  = "quiz_questions"
	KeyCourseDocument = "course_document"
	KeyPlanArtifact   = "plan_artifact"
	KeyCourseArtifact = "course_artifact"
)

// PipelineKeys lists every key Clear is guaranteed to reset
var PipelineKeys = []string{
	KeyCourseSpec,
	KeyRefinedPrompt,
	KeyCourseOutline,
	KeyChapters,
	KeyQuizQuestions,
	KeyCourseDocument,
	KeyPlanArtifact,
	KeyCourseArtifact,
}

// State is a key-value store scoped to one session. Values never expire on
// their own; they live until Clear or until the session is dropped.
type State struct {
	cache *gocache.Cache
}

func NewState() *State {
	return &State{cache: gocache.New(gocache.NoExpiration, 0)}
}

func (s *State) Get(key string) (any, bool) {
	return s.cache.Get(key)
}

func (s *State) Set(key string, value any) {
	s.cache.Set(key, value, gocache.NoExpiration)
}

func (s *State) Delete(key string) {
	s.cache.Delete(key)
}

func (s *State) Clear() {
	s.cache.Flush()
}

func (s *State) Len() int {
	return s.cache.ItemCount()
}
