package compiler

import (
	"fmt"
	"strings"

	"gonum.org/v1/plot"
)

// Block kinds.
const (
	BlockText  = "text"
	BlockTable = "table"
	BlockChart = "chart"
)

// Block is one rendered piece of a component's output.
type Block struct {
	Kind    string
	Title   string
	Text    string
	Headers []string
	Rows    [][]string
	Chart   *Chart
}

// Chart is a plot that writers save next to their output.
type Chart struct {
	Name string
	// Path is set by the writer once the image is saved, relative to its output.
	Path string
	plot *plot.Plot
}

// RenderedSection is a section of the flattened outline, ready for a writer.
type RenderedSection struct {
	Number  string
	Level   int
	Heading string // markdown heading marker for Level
	Anchor  string
	Title   string
	Desc    string
	Blocks  []Block
}

// Report is what writers receive.
type Report struct {
	Name         string
	Overview     bool
	ContentTable bool
	Sections     []*RenderedSection
	// Summary lists one line per component for the overview.
	Summary []string
}

func textBlock(format string, args ...any) Block {
	return Block{Kind: BlockText, Text: fmt.Sprintf(format, args...)}
}

func tableBlock(title string, headers []string, rows [][]string) Block {
	return Block{Kind: BlockTable, Title: title, Headers: headers, Rows: rows}
}

func chartBlock(title, name string, p *plot.Plot) Block {
	return Block{Kind: BlockChart, Title: title, Chart: &Chart{Name: name, plot: p}}
}

// charts returns every chart of the report.
func (r *Report) charts() []*Chart {
	var out []*Chart
	for _, s := range r.Sections {
		for _, b := range s.Blocks {
			if b.Chart != nil {
				out = append(out, b.Chart)
			}
		}
	}
	return out
}

func anchor(number, title string) string {
	return "s" + strings.ReplaceAll(number, ".", "-") + "-" + slug(title)
}

// slug lowercases s and replaces everything but letters and digits with '-'.
func slug(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + 'a' - 'A'
		}
		return '-'
	}, s)
}
