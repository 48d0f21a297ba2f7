package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Frame is a table of raw string cells read from a CSV file with a header row.
type Frame struct {
	Headers []string
	Rows    [][]string
}

// LoadCSV reads the whole file at path. The first record is the header.
func LoadCSV(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV reads a header row followed by data rows from r.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("data: csv has no header row")
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return &Frame{Headers: headers, Rows: records[1:]}, nil
}

// Len returns the number of data rows.
func (f *Frame) Len() int { return len(f.Rows) }

// Index returns the position of the named column, or -1.
func (f *Frame) Index(name string) int {
	for i, h := range f.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column.
func (f *Frame) Column(name string) ([]string, error) {
	j := f.Index(name)
	if j < 0 {
		return nil, fmt.Errorf("data: unknown column %q", name)
	}
	col := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		col[i] = row[j]
	}
	return col, nil
}

// SetColumn overwrites the named column with values.
func (f *Frame) SetColumn(name string, values []string) error {
	j := f.Index(name)
	if j < 0 {
		return fmt.Errorf("data: unknown column %q", name)
	}
	if len(values) != len(f.Rows) {
		return fmt.Errorf("data: column %q needs %d values, got %d", name, len(f.Rows), len(values))
	}
	for i := range f.Rows {
		f.Rows[i][j] = values[i]
	}
	return nil
}

// Select returns a new frame holding only the named columns, in that order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	idx := make([]int, len(names))
	for k, name := range names {
		idx[k] = f.Index(name)
		if idx[k] < 0 {
			return nil, fmt.Errorf("data: unknown column %q", name)
		}
	}
	out := &Frame{Headers: append([]string(nil), names...), Rows: make([][]string, len(f.Rows))}
	for i, row := range f.Rows {
		out.Rows[i] = make([]string, len(idx))
		for k, j := range idx {
			out.Rows[i][k] = row[j]
		}
	}
	return out, nil
}

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "NA" || v == "NaN"
}

// Numeric parses the named column. ok is false when a present cell is not a
// number; missing cells are skipped and counted.
func (f *Frame) Numeric(name string) (values []float64, missing int, ok bool) {
	col, err := f.Column(name)
	if err != nil {
		return nil, 0, false
	}
	values = make([]float64, 0, len(col))
	for _, v := range col {
		if IsMissing(v) {
			missing++
			continue
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, missing, false
		}
		values = append(values, x)
	}
	return values, missing, true
}

// IsNumeric reports whether every present cell of the named column parses as a number.
func (f *Frame) IsNumeric(name string) bool {
	values, _, ok := f.Numeric(name)
	return ok && len(values) > 0
}
