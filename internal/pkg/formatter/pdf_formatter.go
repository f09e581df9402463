package formatter

import (
	"bytes"
	_ "embed"
	"errors"
	"os"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// pdfCoreFont is the built-in font used by the ASCII policy
	pdfCoreFont = "Arial"
)

//go:embed ttf/DejaVuSans.ttf
var bundledFont []byte

type PDFFormatter struct {
	encoding Encoding
	fontPath string
	logger   *zap.Logger
}

type PDFOption func(*PDFFormatter)

func WithEncoding(encoding Encoding) PDFOption {
	return func(f *PDFFormatter) {
		f.encoding = encoding
	}
}

// WithFontPath sets a TTF font used instead of the bundled DejaVuSans
func WithFontPath(path string) PDFOption {
	return func(f *PDFFormatter) {
		f.fontPath = path
	}
}

func WithLogger(logger *zap.Logger) PDFOption {
	return func(f *PDFFormatter) {
		f.logger = logger
	}
}

func NewPDFFormatter(opts ...PDFOption) *PDFFormatter {
	f := &PDFFormatter{
		encoding: EncodingUTF8,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// fontBytes returns the configured font, or the bundled one when it is unset or unreadable
func (mf *PDFFormatter) fontBytes() []byte {
	if mf.fontPath == "" {
		return bundledFont
	}
	data, err := os.ReadFile(mf.fontPath)
	if err == nil && !isTrueType(data) {
		err = errors.New("not a TrueType font")
	}
	if err != nil {
		mf.logger.Warn("configured font unreadable, using bundled DejaVuSans",
			zap.String("font_path", mf.fontPath),
			zap.Error(err),
		)
		return bundledFont
	}
	return data
}

// isTrueType checks the sfnt version tag gofpdf accepts
func isTrueType(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0x00, 0x01, 0x00, 0x00}) || bytes.HasPrefix(data, []byte("true"))
}

func (mf *PDFFormatter) Format(title, text string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	fontName := pdfCoreFont
	if mf.encoding == EncodingUTF8 {
		font := mf.fontBytes()
		// Register regular and bold styles under the same family name
		pdf.AddUTF8FontFromBytes(pdfFontName, "", font)
		pdf.AddUTF8FontFromBytes(pdfFontName, "B", font)
		fontName = pdfFontName
	}

	if fontName == pdfCoreFont {
		title = FoldASCII(title)
		text = FoldASCII(text)
	}

	pdf.SetFont(fontName, "B", 20)
	pdf.MultiCell(0, 10, title, "", "", false)
	pdf.Ln(4)

	pdf.SetFont(fontName, "", 12)
	_, lineHeight := pdf.GetFontSize()
	pdf.MultiCell(0, lineHeight*1.5, text, "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}

// FoldASCII decomposes text (NFKD) and keeps only ASCII characters, so accented
// letters lose their accents and symbols without an ASCII form disappear.
func FoldASCII(s string) string {
	decomposed := norm.NFKD.String(s)
	var sb strings.Builder
	sb.Grow(len(decomposed))
	for _, r := range decomposed {
		if r <= unicode.MaxASCII {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
