package formatter

import (
	"fmt"

	"github.com/futig/course-backend/internal/entity"
)

type Formatter interface {
	Format(title, plainText string) ([]byte, error)
	ContentType() string
	FileExtension() string
}

// Encoding selects how the PDF renderer treats non-ASCII text
type Encoding string

const (
	// EncodingUTF8 embeds a Unicode TTF font; falls back to EncodingASCII when no font is found
	EncodingUTF8 Encoding = "utf8"
	// EncodingASCII folds text to ASCII and uses a core font; characters without an ASCII form are dropped
	EncodingASCII Encoding = "ascii"
)

type Factory struct {
	pdfOpts []PDFOption
}

func NewFactory(pdfOpts ...PDFOption) *Factory {
	return &Factory{pdfOpts: pdfOpts}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF, "":
		return NewPDFFormatter(f.pdfOpts...), nil
	case entity.FormatHTML:
		return NewHTMLFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format: %s", entity.ErrInvalidFormat, format)
	}
}
