package document

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/futig/course-backend/internal/entity"
	"github.com/futig/course-backend/internal/pkg/formatter"
	"github.com/futig/course-backend/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testChapters = []entity.Chapter{
	{Index: 1, Title: "Chapitre 1: Basics", Content: "SELECT basics", Quiz: "Q1"},
	{Index: 2, Title: "Chapitre 2: Joins", Content: "JOIN content", Quiz: "Q2"},
}

func newTestAssembler(t *testing.T, dir string) *Assembler {
	t.Helper()
	labels := prompt.NewBuilder(entity.PipelineModePlan).Labels()
	factory := formatter.NewFactory(formatter.WithEncoding(formatter.EncodingASCII))
	return NewAssembler(Config{OutputDir: dir, WriteFiles: dir != ""}, labels, factory, zap.NewNop())
}

func TestCompose_Layout(t *testing.T) {
	a := newTestAssembler(t, "")
	body := a.Compose(Header{Title: "Intro to SQL", Duration: "10h"}, testChapters)

	want := "Titre : Intro to SQL\nDurée : 10h\n\nListe des chapitres :\n" +
		"\n\nChapitre 1: Basics\n\nSELECT basics\n\nQuiz:\nQ1\n\n" +
		"\n\nChapitre 2: Joins\n\nJOIN content\n\nQuiz:\nQ2\n\n"
	assert.Equal(t, want, body)
}

func TestCompose_IsIdempotent(t *testing.T) {
	a := newTestAssembler(t, "")
	h := Header{Title: "Intro to SQL", Duration: "10h"}

	first := a.Compose(h, testChapters)
	second := a.Compose(h, testChapters)
	assert.Equal(t, []byte(first), []byte(second))
}

func TestChapterBody_WithoutQuiz(t *testing.T) {
	a := newTestAssembler(t, "")
	assert.Equal(t, "T\n\nC", a.ChapterBody(entity.Chapter{Title: "T", Content: "C"}))
}

func TestAssemble_RendersPDF(t *testing.T) {
	a := newTestAssembler(t, "")
	doc, artifact, err := a.Assemble(Header{Title: "Intro to SQL", Duration: "10h"}, testChapters)
	require.NoError(t, err)

	assert.Len(t, doc.Chapters, 2)
	assert.Contains(t, doc.Body, "Chapitre 2: Joins")
	assert.Equal(t, "Intro_to_SQL.pdf", artifact.Name)
	assert.Equal(t, "application/pdf", artifact.ContentType)
	assert.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF-")))
}

func TestWriteArtifact_Paths(t *testing.T) {
	dir := t.TempDir()
	a := newTestAssembler(t, dir)

	plan, err := a.Render(KindPlan, "Intro to SQL", "Plan", "Chapitre 1", entity.FormatPDF)
	require.NoError(t, err)
	require.NoError(t, a.WriteArtifact(KindPlan, "Intro to SQL", plan))
	assert.Equal(t, filepath.Join(dir, "plan", "plan_Intro_to_SQL.pdf"), plan.Path)

	course, err := a.Render(KindCourse, "Intro to SQL", "Intro to SQL", "body", entity.FormatPDF)
	require.NoError(t, err)
	require.NoError(t, a.WriteArtifact(KindCourse, "Intro to SQL", course))
	assert.Equal(t, filepath.Join(dir, "chapitres", "Intro_to_SQL.pdf"), course.Path)

	chapter, err := a.Render(KindChapter, "Chapitre 1: Basics", "Chapitre 1: Basics", "body", entity.FormatMarkdown)
	require.NoError(t, err)
	require.NoError(t, a.WriteArtifact(KindChapter, "Intro to SQL", chapter))
	assert.Equal(t, filepath.Join(dir, "chapitres", "Intro_to_SQL", "Chapitre_1_Basics.md"), chapter.Path)

	data, err := os.ReadFile(chapter.Path)
	require.NoError(t, err)
	assert.Equal(t, "# Chapitre 1: Basics\n\nbody\n", string(data))
}

func TestWriteArtifact_Disabled(t *testing.T) {
	a := newTestAssembler(t, "")
	artifact := &entity.Artifact{Name: "x.pdf", Data: []byte("x")}
	require.NoError(t, a.WriteArtifact(KindCourse, "x", artifact))
	assert.Empty(t, artifact.Path)
}
