package model

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/kuzeydev/contextual-ai/pkg/NeuralNetwork"
	"github.com/kuzeydev/contextual-ai/pkg/optim"
)

// LogisticRegression is a multinomial (softmax) classifier trained with
// mini-batch gradient descent. Binary problems are the two-class case.
type LogisticRegression struct {
	W           [][]float64 // classes x features
	B           []float64
	Lr          float64
	Epochs      int
	BatchSize   int
	L2          float64
	RandomState int64

	classes []int
}

// NewLogisticRegression stores the hyperparameters; weights are sized on Fit.
func NewLogisticRegression(lr float64, epochs int, batchSize int) *LogisticRegression {
	return &LogisticRegression{
		Lr:          lr,
		Epochs:      epochs,
		BatchSize:   batchSize,
		RandomState: time.Now().UnixNano(),
	}
}

// Fit trains on X and integer labels y, reshuffling the rows every epoch.
func (m *LogisticRegression) Fit(X [][]float64, y []int) error {
	n := len(X)
	if n == 0 {
		return errors.New("logistic: empty X")
	}
	if len(y) != n {
		return errors.New("logistic: X and y length mismatch")
	}
	p := len(X[0])
	m.classes = uniqueInts(y)
	if len(m.classes) < 2 {
		return errors.New("logistic: need at least two classes")
	}
	pos := make(map[int]int, len(m.classes))
	for i, c := range m.classes {
		pos[c] = i
	}
	yi := make([]int, n)
	for i, lab := range y {
		yi[i] = pos[lab]
	}

	k := len(m.classes)
	rnd := rand.New(rand.NewPCG(uint64(m.RandomState), 2))
	m.W = make([][]float64, k)
	for c := range m.W {
		m.W[c] = make([]float64, p)
		for j := range m.W[c] {
			m.W[c][j] = rnd.NormFloat64() * 0.01
		}
	}
	m.B = make([]float64, k)

	opt := optim.NewSGD(m.Lr)
	opt.WeightDecay = m.L2
	bias := optim.NewSGD(m.Lr)

	batch := m.BatchSize
	if batch <= 0 || batch > n {
		batch = n
	}
	for ep := 0; ep < m.Epochs; ep++ {
		order := rnd.Perm(n)
		for start := 0; start < n; start += batch {
			end := min(start+batch, n)
			bx := make([][]float64, 0, end-start)
			by := make([]int, 0, end-start)
			for _, i := range order[start:end] {
				if len(X[i]) != p {
					return errors.New("logistic: inconsistent number of features in X rows")
				}
				bx = append(bx, X[i])
				by = append(by, yi[i])
			}

			_, dz := NeuralNetwork.CrossEntropy(by, m.PredictProba(bx))
			gW := make([][]float64, k)
			for c := range gW {
				gW[c] = make([]float64, p)
			}
			gB := make([]float64, k)
			for i, row := range bx {
				for c := 0; c < k; c++ {
					d := dz[i][c]
					for j, v := range row {
						gW[c][j] += d * v
					}
					gB[c] += d
				}
			}
			for c := 0; c < k; c++ {
				opt.Step(m.W[c], gW[c])
			}
			bias.Step(m.B, gB)
		}
	}
	return nil
}

// Classes returns the sorted class labels seen during Fit.
func (m *LogisticRegression) Classes() []int { return m.classes }

// PredictProba returns one probability vector per row, aligned with Classes.
func (m *LogisticRegression) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		z := make([]float64, len(m.W))
		for c, w := range m.W {
			z[c] = m.B[c]
			for j, v := range row {
				z[c] += w[j] * v
			}
		}
		out[i] = NeuralNetwork.Softmax(z)
	}
	return out
}

// Predict returns the most probable class label per row.
func (m *LogisticRegression) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, probas := range m.PredictProba(X) {
		out[i] = m.classes[argmax(probas)]
	}
	return out
}
