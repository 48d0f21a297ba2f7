package stats

// StandardScaler keeps per-column means and scales. Columns with zero variance
// get a scale of 1 so Transform never divides by zero.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
	Fit   bool
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// FitData computes column means and population standard deviations of X.
func (s *StandardScaler) FitData(X [][]float64) {
	if len(X) == 0 {
		return
	}
	c := len(X[0])
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)
	for j := 0; j < c; j++ {
		col := Column(X, j)
		s.Mean[j] = Mean(col)
		s.Scale[j] = Std(col)
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}
	s.Fit = true
}

// Pin forces column j to pass through Transform unchanged.
func (s *StandardScaler) Pin(j int) {
	s.Mean[j] = 0
	s.Scale[j] = 1
}

// Transform returns (X - mean) / scale without touching X.
func (s *StandardScaler) Transform(X [][]float64) [][]float64 {
	if !s.Fit {
		return X
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = s.TransformRow(row)
	}
	return out
}

// TransformRow scales a single row.
func (s *StandardScaler) TransformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out
}
