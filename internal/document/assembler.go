// Package document assembles generated text into course documents and
// renders them to downloadable artifacts.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/futig/course-backend/internal/entity"
	"github.com/futig/course-backend/internal/pkg/formatter"
	"github.com/futig/course-backend/internal/pkg/validator"
	"github.com/futig/course-backend/internal/prompt"
	"go.uber.org/zap"
)

type ArtifactKind string

const (
	KindPlan    ArtifactKind = "plan"
	KindCourse  ArtifactKind = "course"
	KindChapter ArtifactKind = "chapter"
)

const (
	planDir    = "plan"
	chapterDir = "chapitres"
)

// Header is the metadata printed before the chapters
type Header struct {
	Title    string
	Duration string
}

type Assembler struct {
	labels     prompt.Labels
	formatters *formatter.Factory
	outputDir  string
	writeFiles bool
	logger     *zap.Logger
}

type Config struct {
	OutputDir  string
	WriteFiles bool
}

func NewAssembler(cfg Config, labels prompt.Labels, formatters *formatter.Factory, logger *zap.Logger) *Assembler {
	return &Assembler{
		labels:     labels,
		formatters: formatters,
		outputDir:  cfg.OutputDir,
		writeFiles: cfg.WriteFiles && cfg.OutputDir != "",
		logger:     logger,
	}
}

// Compose concatenates the header and every chapter into one text body.
// The result depends only on its inputs.
func (a *Assembler) Compose(h Header, chapters []entity.Chapter) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s : %s\n%s : %s\n\n%s :\n", a.labels.Title, h.Title, a.labels.Duration, h.Duration, a.labels.ChapterList)
	for _, ch := range chapters {
		sb.WriteString("\n\n")
		sb.WriteString(a.ChapterBody(ch))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// ChapterBody renders one chapter as title, content and quiz
func (a *Assembler) ChapterBody(ch entity.Chapter) string {
	var sb strings.Builder
	sb.WriteString(ch.Title)
	sb.WriteString("\n\n")
	sb.WriteString(ch.Content)
	if ch.Quiz != "" {
		fmt.Fprintf(&sb, "\n\n%s:\n%s", a.labels.Quiz, ch.Quiz)
	}
	return sb.String()
}

// Assemble builds the course document and renders it to PDF
func (a *Assembler) Assemble(h Header, chapters []entity.Chapter) (*entity.CourseDocument, *entity.Artifact, error) {
	doc := &entity.CourseDocument{
		Title:    h.Title,
		Duration: h.Duration,
		Chapters: chapters,
		Body:     a.Compose(h, chapters),
	}

	artifact, err := a.Render(KindCourse, h.Title, h.Title, doc.Body, entity.FormatPDF)
	if err != nil {
		return nil, nil, err
	}
	return doc, artifact, nil
}

// Render turns a text body into an artifact of the given format.
// name is used for the file name, title is printed at the top.
func (a *Assembler) Render(kind ArtifactKind, name, title, body string, format entity.ResultFormat) (*entity.Artifact, error) {
	f, err := a.formatters.Create(format)
	if err != nil {
		return nil, err
	}

	data, err := f.Format(title, body)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", kind, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("render %s: renderer produced no output", kind)
	}

	return &entity.Artifact{
		Name:        fileName(kind, name) + f.FileExtension(),
		ContentType: f.ContentType(),
		Data:        data,
		CreatedAt:   time.Now(),
	}, nil
}

// WriteArtifact stores the artifact under the output directory and records its path.
// courseTitle groups chapter artifacts of the same course.
func (a *Assembler) WriteArtifact(kind ArtifactKind, courseTitle string, artifact *entity.Artifact) error {
	if !a.writeFiles {
		return nil
	}

	var dir string
	switch kind {
	case KindPlan:
		dir = filepath.Join(a.outputDir, planDir)
	case KindCourse:
		dir = filepath.Join(a.outputDir, chapterDir)
	case KindChapter:
		dir = filepath.Join(a.outputDir, chapterDir, validator.SanitizeFilename(courseTitle))
	default:
		return fmt.Errorf("%w: artifact kind %s", entity.ErrInvalidParameter, kind)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	path := filepath.Join(dir, artifact.Name)
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	artifact.Path = path

	a.logger.Debug("artifact written",
		zap.String("kind", string(kind)),
		zap.String("path", path),
		zap.Int("size", len(artifact.Data)),
	)
	return nil
}

func fileName(kind ArtifactKind, name string) string {
	name = validator.SanitizeFilename(name)
	if kind == KindPlan {
		return "plan_" + name
	}
	return name
}
