package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/jung-kurt/gofpdf"
)

// Physical card dimensions on the printed page, CR80 size in millimeters.
const (
	cardWidthMM  = 85.6
	cardHeightMM = 54.0
	cardGapMM    = 10.0

	pageWidthMM  = 210.0
	pageHeightMM = 297.0
)

// CardPDFExporter lays out a rendered card front and back on a single
// portrait A4 page, stacked vertically and centered.
type CardPDFExporter struct{}

// NewCardPDFExporter constructs a card PDF exporter.
func NewCardPDFExporter() *CardPDFExporter {
	return &CardPDFExporter{}
}

// Render produces PDF bytes with both card sides at print size.
func (e *CardPDFExporter) Render(front, back image.Image) ([]byte, error) {
	if front == nil || back == nil {
		return nil, fmt.Errorf("card pdf requires both sides")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	x := (pageWidthMM - cardWidthMM) / 2
	y := (pageHeightMM - (2*cardHeightMM + cardGapMM)) / 2

	if err := placeImage(pdf, "front", front, x, y); err != nil {
		return nil, err
	}
	if err := placeImage(pdf, "back", back, x, y+cardHeightMM+cardGapMM); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render card pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func placeImage(pdf *gofpdf.Fpdf, name string, img image.Image, x, y float64) error {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return fmt.Errorf("encode %s side: %w", name, err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, buf)
	if pdf.Err() {
		return fmt.Errorf("register %s side: %w", name, pdf.Error())
	}
	pdf.ImageOptions(name, x, y, cardWidthMM, cardHeightMM, false, opts, 0, "")
	if pdf.Err() {
		return fmt.Errorf("place %s side: %w", name, pdf.Error())
	}
	return nil
}
