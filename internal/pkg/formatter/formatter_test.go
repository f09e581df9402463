package formatter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/futig/course-backend/internal/entity"
	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldASCII(t *testing.T) {
	assert.Equal(t, "Duree : 10h, eleves", FoldASCII("Durée : 10h, élèves"))
	assert.Equal(t, "Quiz ", FoldASCII("Quiz 🤖"))
	assert.Equal(t, "a\nb\tc", FoldASCII("a\nb\tc"))
}

func TestFactory_Create(t *testing.T) {
	f := NewFactory()

	cases := map[entity.ResultFormat]string{
		entity.FormatPDF:      ".pdf",
		"":                    ".pdf",
		entity.FormatDOCX:     ".docx",
		entity.FormatMarkdown: ".md",
		entity.FormatHTML:     ".html",
	}
	for format, ext := range cases {
		fm, err := f.Create(format)
		require.NoError(t, err)
		assert.Equal(t, ext, fm.FileExtension())
	}

	_, err := f.Create("xls")
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}

func TestPDFFormatter_ASCIIPolicyProducesReadablePDF(t *testing.T) {
	body := strings.Repeat("Chapitre 1: Les bases\nContenu détaillé.\n", 80)
	data, err := NewPDFFormatter(WithEncoding(EncodingASCII)).Format("Intro to SQL", body)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, r.NumPage(), 2)
}

func TestPDFFormatter_BundledFontKeepsAccents(t *testing.T) {
	data, err := NewPDFFormatter(WithEncoding(EncodingUTF8)).Format("Générateur", "Durée : 10h")
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	assert.Contains(t, string(data), "/BaseFont /utf8dejavusans")
	assert.NotContains(t, string(data), "/BaseFont /Helvetica")
}

func TestPDFFormatter_MissingFontUsesBundledFont(t *testing.T) {
	f := NewPDFFormatter(WithEncoding(EncodingUTF8), WithFontPath("does/not/exist.ttf"))
	data, err := f.Format("Générateur", "Durée : 10h")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, string(data), "/BaseFont /utf8dejavusans")
}

func TestPDFFormatter_InvalidFontUsesBundledFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ttf")
	require.NoError(t, os.WriteFile(path, []byte("not a font"), 0o644))

	data, err := NewPDFFormatter(WithFontPath(path)).Format("Générateur", "Durée : 10h")
	require.NoError(t, err)
	assert.Contains(t, string(data), "/BaseFont /utf8dejavusans")
}

func TestMarkdownFormatter(t *testing.T) {
	data, err := NewMarkdownFormatter().Format("Intro", "body")
	require.NoError(t, err)
	assert.Equal(t, "# Intro\n\nbody\n", string(data))
}

func TestHTMLFormatter_EscapesTitleAndRendersMarkdown(t *testing.T) {
	data, err := NewHTMLFormatter().Format("SQL <joins>", "## Basics\n\n- one\n- two\n\n<script>x</script>")
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "<h1>SQL &lt;joins&gt;</h1>")
	assert.Contains(t, out, "<h2>Basics</h2>")
	assert.Contains(t, out, "<li>one</li>")
	assert.NotContains(t, out, "<script>")
}

func TestDOCXFormatter(t *testing.T) {
	data, err := NewDOCXFormatter().Format("Intro", "line one\n\nline two")
	if err != nil {
		// unioffice refuses to save without a license key in some builds
		t.Skipf("docx rendering unavailable: %v", err)
	}
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "docx is a zip archive")
}
