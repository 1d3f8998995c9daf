package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Dataset {
	return Dataset{
		Title:   "Layout",
		Headers: []string{"Student ID", "Room ID"},
		Sections: []Section{
			{Title: "R1", Rows: [][]string{{"S1", "R1"}, {"S2", "R1"}}},
			{Title: "R2", Rows: [][]string{{"S3", "R2"}}},
		},
	}
}

func TestCSVExporterFlattensSections(t *testing.T) {
	out, err := NewCSVExporter().Render(sample())
	require.NoError(t, err)
	assert.Equal(t, "Student ID,Room ID\nS1,R1\nS2,R1\nS3,R2\n", string(out))
	assert.Equal(t, 3, sample().Len())
}

func TestExportersRejectBadShape(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)

	bad := sample()
	bad.Sections[0].Rows[0] = []string{"only-one"}
	_, err = NewPDFExporter().Render(bad)
	assert.Error(t, err)
}

func TestPDFExporterPaginates(t *testing.T) {
	data := Dataset{Headers: []string{"Student ID", "Room ID"}}
	rows := make([][]string, 120)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("S%d", i+1), "R1"}
	}
	data.Sections = []Section{{Title: "R1", Rows: rows}}

	out, err := NewPDFExporter().Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestForFormat(t *testing.T) {
	r, ok := ForFormat(FormatCSV)
	require.True(t, ok)
	assert.Equal(t, "csv", r.Extension())

	r, ok = ForFormat(FormatPDF)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", r.ContentType())

	_, ok = ForFormat("xlsx")
	assert.False(t, ok)
}
