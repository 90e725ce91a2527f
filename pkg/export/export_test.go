package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset(rows int) Dataset {
	data := Dataset{
		Title:   "Qualification schedule",
		Headers: []string{"Match", "Red", "Blue"},
		Widths:  []float64{1, 3, 3},
	}
	for i := 0; i < rows; i++ {
		data.Rows = append(data.Rows, []string{fmt.Sprintf("%d", i+1), "254, 1678", "118, 971"})
	}
	return data
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset(2))
	require.NoError(t, err)
	assert.Equal(t, "Match,Red,Blue\n1,\"254, 1678\",\"118, 971\"\n2,\"254, 1678\",\"118, 971\"\n", string(out))
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	data := sampleDataset(1)
	data.Rows = append(data.Rows, []string{"2"})
	_, err := NewCSVExporter().Render(data)
	require.Error(t, err)
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRenderSpansPages(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(80))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporterRejectsMismatchedWidths(t *testing.T) {
	data := sampleDataset(1)
	data.Widths = []float64{1}
	_, err := NewPDFExporter().Render(data)
	require.Error(t, err)
}

func TestColumnWidthsScaleToPage(t *testing.T) {
	widths := columnWidths(Dataset{Headers: []string{"a", "b"}, Widths: []float64{1, 3}})
	assert.InDelta(t, pdfPageWidth/4, widths[0], 0.001)
	assert.InDelta(t, pdfPageWidth*3/4, widths[1], 0.001)
}
