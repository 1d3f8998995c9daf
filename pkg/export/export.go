// Package export renders tabular seating data as downloadable documents.
package export

import "fmt"

const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// Section groups rows under an optional caption, e.g. one room of a layout.
type Section struct {
	Title string
	Rows  [][]string
}

// Dataset defines tabular export content.
type Dataset struct {
	Title    string
	Headers  []string
	Sections []Section
}

// Len returns the total number of body rows.
func (d Dataset) Len() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Rows)
	}
	return n
}

func (d Dataset) validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	for _, s := range d.Sections {
		for i, row := range s.Rows {
			if len(row) != len(d.Headers) {
				return fmt.Errorf("row %d of %q has %d cells, want %d", i, s.Title, len(row), len(d.Headers))
			}
		}
	}
	return nil
}

// Renderer turns a dataset into bytes of a single document format.
type Renderer interface {
	Render(Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ForFormat returns the renderer registered for format.
func ForFormat(format string) (Renderer, bool) {
	switch format {
	case FormatCSV:
		return NewCSVExporter(), true
	case FormatPDF:
		return NewPDFExporter(), true
	default:
		return nil, false
	}
}
