// Package prompt turns course parameters into model instructions.
//
// Builders are pure: identical inputs always yield identical prompts. Inputs are
// inserted verbatim, so callers must pass values that went through
// validator.SanitizeCourseSpec.
package prompt

import (
	"fmt"
	"strings"

	"github.com/futig/course-backend/internal/entity"
)

// Builder renders the prompts of one pipeline mode
type Builder struct {
	mode      entity.PipelineMode
	templates templateSet
}

func NewBuilder(mode entity.PipelineMode) *Builder {
	t, ok := templateSets[mode]
	if !ok {
		t = templateSets[entity.PipelineModePlan]
		mode = entity.PipelineModePlan
	}
	return &Builder{mode: mode, templates: t}
}

func (b *Builder) Mode() entity.PipelineMode {
	return b.mode
}

// ChapterMarkers returns the line prefixes that start a chapter in outlines
// generated by this builder's prompts.
func (b *Builder) ChapterMarkers() []string {
	return b.templates.markers
}

// Labels returns the header labels used when assembling documents.
func (b *Builder) Labels() Labels {
	return b.templates.labels
}

// RefinePrompt asks the model to write the outline prompt itself.
func (b *Builder) RefinePrompt(spec entity.CourseSpec) string {
	return fmt.Sprintf(b.templates.refine,
		spec.Title, spec.Audience, difficultyOrDefault(spec.Difficulty), spec.ChapterCount,
		spec.Duration, spec.Credit) + optional(b.templates.objectivesLine, spec.Objectives)
}

func (b *Builder) OutlinePrompt(spec entity.CourseSpec) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(b.templates.outline, spec.Title, spec.Duration, spec.Audience, spec.ChapterCount))
	sb.WriteString(optional(b.templates.difficultyLine, string(spec.Difficulty)))
	sb.WriteString(optional(b.templates.objectivesLine, spec.Objectives))
	sb.WriteString(b.templates.outlineTail)
	return sb.String()
}

func (b *Builder) ChapterPrompt(chapterTitle string, spec entity.CourseSpec) string {
	return fmt.Sprintf(b.templates.chapter, chapterTitle, spec.Title, spec.Audience, difficultyOrDefault(spec.Difficulty))
}

func (b *Builder) QuizPrompt(chapterText string, questionCount int) string {
	if questionCount < 1 {
		questionCount = DefaultQuizQuestions
	}
	return fmt.Sprintf(b.templates.quiz, questionCount, chapterText)
}

// UserSelections summarises the submitted parameters as the user turn of the chat history.
func (b *Builder) UserSelections(spec entity.CourseSpec) string {
	l := b.templates.labels
	lines := []string{
		l.Title + " : " + spec.Title,
		l.Audience + " : " + spec.Audience,
		l.Difficulty + " : " + string(spec.Difficulty),
		fmt.Sprintf("%s : %d", l.Chapters, spec.ChapterCount),
		l.Duration + " : " + spec.Duration,
	}
	if spec.Credit != "" {
		lines = append(lines, l.Credit+" : "+spec.Credit)
	}
	if spec.Objectives != "" {
		lines = append(lines, l.Objectives+" : "+spec.Objectives)
	}
	return strings.Join(lines, "\n")
}

const DefaultQuizQuestions = 5

func optional(format, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf(format, value)
}

func difficultyOrDefault(d entity.Difficulty) string {
	if d == "" {
		return string(entity.DifficultyBeginner)
	}
	return string(d)
}
