package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()

	data, err := exporter.Render(Dataset{
		Headers: []string{"a", "b"},
		Rows:    [][]string{{"1", "2"}, {"3", "4"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n3,4\n", string(data))
}

func TestCSVExporterPadsShortRows(t *testing.T) {
	exporter := NewCSVExporter()

	data, err := exporter.Render(Dataset{
		Headers: []string{"a", "b", "c"},
		Rows:    [][]string{{"1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "a,b,c\n1,,\n", string(data))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()

	data, err := exporter.Render(Dataset{
		Headers: []string{"a", "b"},
		Rows:    [][]string{{"1", "2"}},
	}, "Sample")
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}
