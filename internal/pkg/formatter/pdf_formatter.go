package formatter

import (
	"bytes"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// In the Docker runtime fonts are copied next to the binary,
	// so the runtime path is ./ttf/DejaVuSans.ttf.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"

	// Source-relative path (useful when running from repo root with `go run`).
	pdfFontSourcePath = "internal/pkg/formatter/ttf/DejaVuSans.ttf"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

// resolveFontPath tries to find the DejaVuSans font in
// runtime layout (next to the binary) or source layout.
func resolveFontPath() string {
	if _, err := os.Stat(pdfFontRuntimePath); err == nil {
		return pdfFontRuntimePath
	}

	if _, err := os.Stat(pdfFontSourcePath); err == nil {
		return pdfFontSourcePath
	}

	return ""
}

func (pf *PDFFormatter) Format(title, body string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Use the UTF-8 capable DejaVuSans font when bundled, Arial otherwise.
	fontName := "Arial"
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		fontName = pdfFontName
	}

	pdf.SetFont(fontName, "B", 20)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont(fontName, "", 12)
	_, lineHeight := pdf.GetFontSize()
	pdf.MultiCell(0, lineHeight*1.5, body, "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
