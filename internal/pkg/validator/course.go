package validator

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/futig/course-backend/internal/entity"
)

const (
	maxShortFieldLength = 200
	maxObjectivesLength = 2000

	// maxFilenameBytes leaves room for prefixes and extensions under the 255-byte name limit
	maxFilenameBytes = 150
)

// Validator checks course parameters before they reach the prompt builder
type Validator struct {
	mode entity.PipelineMode
}

func NewCourseValidator(mode entity.PipelineMode) *Validator {
	return &Validator{mode: mode}
}

// ValidateCourseSpec expects a spec that already went through SanitizeCourseSpec
func (v *Validator) ValidateCourseSpec(spec *entity.CourseSpec) error {
	if spec.Title == "" {
		return fmt.Errorf("%w: title", entity.ErrMissingField)
	}
	if spec.Duration == "" {
		return fmt.Errorf("%w: duration", entity.ErrMissingField)
	}
	if v.mode == entity.PipelineModePlan && spec.Audience == "" {
		return fmt.Errorf("%w: audience", entity.ErrMissingField)
	}

	if spec.ChapterCount < entity.MinChapterCount || spec.ChapterCount > entity.MaxChapterCount {
		return fmt.Errorf("%w: chapter_count must be between %d and %d, got %d",
			entity.ErrInvalidParameter, entity.MinChapterCount, entity.MaxChapterCount, spec.ChapterCount)
	}

	if err := spec.Difficulty.Validate(); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
	}

	for name, value := range map[string]string{
		"title":    spec.Title,
		"audience": spec.Audience,
		"duration": spec.Duration,
		"credit":   spec.Credit,
	} {
		if utf8.RuneCountInString(value) > maxShortFieldLength {
			return fmt.Errorf("%w: %s is longer than %d characters", entity.ErrInvalidParameter, name, maxShortFieldLength)
		}
	}
	if utf8.RuneCountInString(spec.Objectives) > maxObjectivesLength {
		return fmt.Errorf("%w: objectives is longer than %d characters", entity.ErrInvalidParameter, maxObjectivesLength)
	}

	return nil
}

// SanitizeCourseSpec is the boundary between user input and prompt text.
// Single-line fields lose line breaks; every field loses control characters and
// the delimiters prompts use to quote content.
func SanitizeCourseSpec(spec entity.CourseSpec) entity.CourseSpec {
	spec.Title = sanitizeLine(spec.Title)
	spec.Audience = sanitizeText(spec.Audience)
	spec.Duration = sanitizeLine(spec.Duration)
	spec.Credit = sanitizeLine(spec.Credit)
	spec.Objectives = sanitizeText(spec.Objectives)
	spec.Difficulty = entity.Difficulty(sanitizeLine(string(spec.Difficulty)))
	return spec
}

var delimiterReplacer = strings.NewReplacer(
	"```", "'''",
	`"""`, `'''`,
	`"`, `'`,
)

func sanitizeLine(s string) string {
	s = stripControl(s, false)
	s = delimiterReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func sanitizeText(s string) string {
	s = stripControl(s, true)
	s = delimiterReplacer.Replace(s)

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		kept = append(kept, strings.Join(strings.Fields(line), " "))
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func stripControl(s string, keepNewlines bool) string {
	s = strings.ToValidUTF8(s, "")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' && keepNewlines:
			return r
		case r == '\n' || r == '\t' || r == '\r':
			if r == '\r' && keepNewlines {
				return -1
			}
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// SanitizeFilename sanitizes a filename for safe storage
func SanitizeFilename(filename string) string {
	filename = strings.TrimSpace(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"/", "_",
		"\\", "_",
		":", "",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
		"\"", "",
		"'", "",
	)
	filename = truncateBytes(replacer.Replace(filename), maxFilenameBytes)
	if filename == "" || filename == "." || filename == ".." {
		return "course"
	}
	return filename
}

// truncateBytes cuts s to at most limit bytes without splitting a character
func truncateBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimRight(s[:cut], "_.")
}
