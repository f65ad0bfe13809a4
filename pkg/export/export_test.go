package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fonuscebu/coop-admin-api/pkg/render"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"Name", "Email"},
		Rows: []map[string]string{
			{"Name": "Juan", "Email": "juan@example.com"},
			{"Name": "Maria, Jr.", "Email": "maria@example.com"},
		},
	}

	out, err := exporter.Render(data)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Name,Email\n")
	assert.Contains(t, string(out), "\"Maria, Jr.\"")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	assert.Error(t, err)
}

func TestCardPDFExporterRender(t *testing.T) {
	r, err := render.NewRenderer(render.DefaultTemplate())
	require.NoError(t, err)

	data := render.CardData{Name: "Juan Dela Cruz", Years: []render.YearRow{{Year: "2025"}}}
	front := r.RenderFront(data)
	back := r.RenderBack(data)

	out, err := NewCardPDFExporter().Render(front, back)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestCardPDFExporterRequiresBothSides(t *testing.T) {
	_, err := NewCardPDFExporter().Render(nil, nil)
	assert.Error(t, err)
}
