package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Configuration errors
	ErrMissingCredential = errors.New("llm api key is not configured")

	// Generation errors
	ErrGenerationFailed = errors.New("generation failed")
	ErrMalformedOutline = errors.New("outline contains no chapter markers")

	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid pipeline transition")
	ErrPipelineBusy      = errors.New("pipeline is already running for this session")
	ErrNoArtifact        = errors.New("artifact not available")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// GenerationStage names the pipeline step that issued a generation call
type GenerationStage string

const (
	StageRefinePrompt GenerationStage = "refine_prompt"
	StageOutline      GenerationStage = "outline"
	StageChapter      GenerationStage = "chapter_content"
	StageQuiz         GenerationStage = "quiz"
)

// GenerationError reports which stage (and chapter, if any) failed.
// ChapterIndex is 1-based; zero means the failure is not tied to a chapter.
type GenerationError struct {
	Stage        GenerationStage
	ChapterIndex int
	ChapterTitle string
	Err          error
}

func (e *GenerationError) Error() string {
	if e.ChapterIndex > 0 {
		return fmt.Sprintf("%s for chapter %d (%q): %v", e.Stage, e.ChapterIndex, e.ChapterTitle, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is makes every GenerationError match ErrGenerationFailed, except credential
// failures, which keep their own identity through Unwrap.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed && !errors.Is(e.Err, ErrMissingCredential)
}
