package model

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"
)

// RandomForest is a bagged ensemble of DecisionTreeClassifier whose
// probabilities are the average of its trees'.
type RandomForest struct {
	// Hyperparameters / options
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Bootstrap       bool
	RandomState     int64

	// Internal state
	Trees   []*DecisionTreeClassifier
	classes []int
}

// RandomForestOption functional config for RandomForest
type RandomForestOption func(*RandomForest)

func WithNEstimators(n int) RandomForestOption { return func(rf *RandomForest) { rf.NEstimators = n } }
func WithBootstrap(b bool) RandomForestOption  { return func(rf *RandomForest) { rf.Bootstrap = b } }
func WithForestMaxDepth(d int) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxDepth = d }
}
func WithForestMinSamplesLeaf(n int) RandomForestOption {
	return func(rf *RandomForest) { rf.MinSamplesLeaf = n }
}
func WithForestMaxFeatures(k int) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxFeatures = k }
}
func WithForestRandomState(seed int64) RandomForestOption {
	return func(rf *RandomForest) { rf.RandomState = seed }
}

// NewRandomForest initializes the forest with sensible defaults.
func NewRandomForest(opts ...RandomForestOption) *RandomForest {
	rf := &RandomForest{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Bootstrap:       true,
		RandomState:     time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit trains every tree on its own bootstrap sample, one goroutine per tree.
// Each tree is seeded from RandomState so a fixed seed gives a fixed forest.
func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("randomforest: empty X")
	}
	n := len(X)
	if len(y) != n {
		return errors.New("randomforest: X and y length mismatch")
	}
	if rf.NEstimators <= 0 {
		return errors.New("randomforest: NEstimators must be positive")
	}

	rf.classes = uniqueInts(y)
	rf.Trees = make([]*DecisionTreeClassifier, rf.NEstimators)
	errs := make([]error, rf.NEstimators)
	var wg sync.WaitGroup

	for i := 0; i < rf.NEstimators; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			seed := rf.RandomState + int64(idx)
			treeRand := rand.New(rand.NewPCG(uint64(seed), 1))

			Xs, ys := X, y
			if rf.Bootstrap {
				Xs = make([][]float64, n)
				ys = make([]int, n)
				for j := 0; j < n; j++ {
					k := treeRand.IntN(n)
					Xs[j], ys[j] = X[k], y[k]
				}
			}

			tree := NewDecisionTreeClassifier(
				WithMaxDepth(rf.MaxDepth),
				WithMinSamplesSplit(rf.MinSamplesSplit),
				WithMinSamplesLeaf(rf.MinSamplesLeaf),
				WithMaxFeatures(rf.MaxFeatures),
				WithRandomState(seed),
			)
			if err := tree.Fit(Xs, ys); err != nil {
				errs[idx] = err
				return
			}
			rf.Trees[idx] = tree
		}(i)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Classes returns the sorted class labels seen during Fit.
func (rf *RandomForest) Classes() []int { return rf.classes }

// PredictProba averages tree probabilities. A tree that never saw a class
// in its bootstrap sample contributes 0 for it.
func (rf *RandomForest) PredictProba(X [][]float64) [][]float64 {
	pos := make(map[int]int, len(rf.classes))
	for i, c := range rf.classes {
		pos[c] = i
	}
	out := make([][]float64, len(X))
	for i := range out {
		out[i] = make([]float64, len(rf.classes))
	}
	for _, tree := range rf.Trees {
		classes := tree.Classes()
		for i, probas := range tree.PredictProba(X) {
			for k, p := range probas {
				out[i][pos[classes[k]]] += p
			}
		}
	}
	scale := 1 / float64(len(rf.Trees))
	for _, row := range out {
		for k := range row {
			row[k] *= scale
		}
	}
	return out
}

// Predict returns the class with the highest averaged probability.
func (rf *RandomForest) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, probas := range rf.PredictProba(X) {
		out[i] = rf.classes[argmax(probas)]
	}
	return out
}
