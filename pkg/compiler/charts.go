package compiler

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const histogramBins = 10

func histogram(title string, values []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(plotter.Values(values), histogramBins)
	if err != nil {
		return nil, err
	}
	p.Add(h)
	return p, nil
}

func barChart(title string, labels []string, values []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(20))
	if err != nil {
		return nil, err
	}
	bars.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

func scatter(title, xName, yName string, x, y []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xName
	p.Y.Label.Text = yName

	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i] = plotter.XY{X: x[i], Y: y[i]}
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	s.Shape = draw.CircleGlyph{}
	s.Radius = vg.Points(2)
	p.Add(s)
	return p, nil
}

// saveChart writes the plot as an image; the format follows the file extension.
func saveChart(c *Chart, file string) error {
	return c.plot.Save(6*vg.Inch, 4*vg.Inch, file)
}
