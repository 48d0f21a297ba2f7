package model

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// RidgeRegression is an L2-penalised least squares model with optional
// per-sample weights, solved in closed form.
type RidgeRegression struct {
	Alpha        float64
	FitIntercept bool

	Coef      []float64
	Intercept float64
}

// NewRidgeRegression returns a ridge model that fits an intercept.
func NewRidgeRegression(alpha float64) *RidgeRegression {
	return &RidgeRegression{Alpha: alpha, FitIntercept: true}
}

// Fit minimises sum_i w_i (y_i - x_i.b - c)^2 + alpha |b|^2.
// A nil w means every sample has weight 1.
func (m *RidgeRegression) Fit(X [][]float64, y, w []float64) error {
	n := len(X)
	if n == 0 {
		return errors.New("ridge: empty X")
	}
	if len(y) != n {
		return errors.New("ridge: X and y length mismatch")
	}
	if w == nil {
		w = ones(n)
	} else if len(w) != n {
		return errors.New("ridge: X and sample weights length mismatch")
	}
	p := len(X[0])

	sw := floats.Sum(w)
	if sw <= 0 {
		return errors.New("ridge: sample weights must have a positive sum")
	}
	xMean := make([]float64, p)
	yMean := 0.0
	for _, row := range X {
		if len(row) != p {
			return errors.New("ridge: inconsistent number of features in X rows")
		}
	}
	if m.FitIntercept {
		for i, row := range X {
			floats.AddScaled(xMean, w[i], row)
			yMean += w[i] * y[i]
		}
		floats.Scale(1/sw, xMean)
		yMean /= sw
	}

	if p == 0 {
		m.Coef = []float64{}
		m.Intercept = yMean
		return nil
	}

	// Rows of xc and yc carry sqrt(w_i) so that xc'xc = X'WX after centring.
	xc := mat.NewDense(n, p, nil)
	yc := mat.NewVecDense(n, nil)
	for i, row := range X {
		sq := math.Sqrt(w[i])
		for j, v := range row {
			xc.Set(i, j, (v-xMean[j])*sq)
		}
		yc.SetVec(i, (y[i]-yMean)*sq)
	}

	var a mat.SymDense
	a.SymOuterK(1, xc.T())
	for j := 0; j < p; j++ {
		a.SetSym(j, j, a.At(j, j)+m.Alpha)
	}
	var b mat.VecDense
	b.MulVec(xc.T(), yc)

	var chol mat.Cholesky
	if ok := chol.Factorize(&a); !ok {
		return errors.New("ridge: normal equations are not positive definite")
	}
	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return err
		}
	}

	m.Coef = make([]float64, p)
	for j := range m.Coef {
		m.Coef[j] = beta.AtVec(j)
	}
	m.Intercept = 0
	if m.FitIntercept {
		m.Intercept = yMean - floats.Dot(xMean, m.Coef)
	}
	return nil
}

// Predict returns predictions for rows in X.
func (m *RidgeRegression) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = m.Intercept + floats.Dot(m.Coef, row)
	}
	return out
}

// Score returns the weighted coefficient of determination of the fitted model on X, y.
func (m *RidgeRegression) Score(X [][]float64, y, w []float64) float64 {
	return WeightedR2(y, m.Predict(X), w)
}

func ones(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}
