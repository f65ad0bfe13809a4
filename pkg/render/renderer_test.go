package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData() CardData {
	return CardData{
		Name:             "Juan Dela Cruz",
		PresentAddress:   "Mandaue City, Cebu",
		Birthdate:        "1/1/1990",
		Gender:           "Male",
		CoopName:         "Sugbo Coop",
		DateIssued:       "JAN-DEC 2025",
		EmergencyContact: "Maria Dela Cruz",
		Years: []YearRow{
			{Year: "2022"}, {Year: "2023"}, {Year: "2024"},
			{Year: "2025", Package: "DIGNITY", Validity: "1 YEAR", Representative: "SUGBO COOP", Remarks: "NEW"},
			{Year: "2026"}, {Year: "2027"},
		},
	}
}

func TestRenderFrontDimensions(t *testing.T) {
	r, err := NewRenderer(DefaultTemplate())
	require.NoError(t, err)

	img := r.RenderFront(testData())
	assert.Equal(t, CardWidthPx, img.Bounds().Dx())
	assert.Equal(t, CardHeightPx, img.Bounds().Dy())
}

func TestRenderBackDimensions(t *testing.T) {
	r, err := NewRenderer(DefaultTemplate())
	require.NoError(t, err)

	img := r.RenderBack(testData())
	assert.Equal(t, CardWidthPx, img.Bounds().Dx())
	assert.Equal(t, CardHeightPx, img.Bounds().Dy())
}

func TestRenderFrontBackgroundColor(t *testing.T) {
	r, err := NewRenderer(DefaultTemplate())
	require.NoError(t, err)

	img := r.RenderFront(testData())
	got := color.NRGBAModel.Convert(img.At(5, img.Bounds().Dy()-5)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 0xfc, G: 0xf8, B: 0xe3, A: 0xff}, got)
}

func TestRenderFrontWithPhoto(t *testing.T) {
	r, err := NewRenderer(DefaultTemplate())
	require.NoError(t, err)

	src := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	data := testData()
	data.Photo = buf.Bytes()
	img := r.RenderFront(data)

	// Inside the photo cell the fitted image replaces the background.
	got := color.NRGBAModel.Convert(img.At(120, 320)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}, got)
}

func TestRenderFrontCorruptPhotoFallsBack(t *testing.T) {
	r, err := NewRenderer(DefaultTemplate())
	require.NoError(t, err)

	data := testData()
	data.Photo = []byte("not an image")
	img := r.RenderFront(data)
	assert.Equal(t, CardWidthPx, img.Bounds().Dx())
}

func TestWrapText(t *testing.T) {
	r, err := NewRenderer(DefaultTemplate())
	require.NoError(t, err)

	lines := wrapText(r.disclaimer, DefaultTemplate().Disclaimer, 910)
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.LessOrEqual(t, textWidth(r.disclaimer, line), 910)
	}
}
