package model

import (
	"errors"
	"math"
	"math/rand/v2"
	"sort"
	"time"
)

// ---------------------------
// Types & options
// ---------------------------

// DecisionTreeClassifier is a CART-style classifier with axis-aligned
// threshold splits (x <= threshold goes left).
type DecisionTreeClassifier struct {
	// Hyperparameters / options
	MaxDepth            int     // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	Criterion           string  // "gini" (default) or "entropy"
	MaxFeatures         int     // 0 => use all features, >0 => number of features sampled per split
	MinImpurityDecrease float64 // minimal impurity decrease to accept a split
	RandomState         int64   // seed for feature subsampling

	// internals
	root    *Node
	classes []int // sorted class labels (order used by probas)
}

// Node is one node of a fitted tree.
type Node struct {
	Leaf      bool
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node
	N         int
	Probas    []float64 // aligned with the tree's classes
}

// Option functional config
type Option func(*DecisionTreeClassifier)

func WithMaxDepth(d int) Option { return func(t *DecisionTreeClassifier) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesLeaf = n }
}
func WithCriterion(c string) Option { return func(t *DecisionTreeClassifier) { t.Criterion = c } }
func WithMaxFeatures(k int) Option  { return func(t *DecisionTreeClassifier) { t.MaxFeatures = k } }
func WithMinImpurityDecrease(v float64) Option {
	return func(t *DecisionTreeClassifier) { t.MinImpurityDecrease = v }
}
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeClassifier) { t.RandomState = seed }
}

// NewDecisionTreeClassifier returns a classifier with sensible defaults.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	d := &DecisionTreeClassifier{
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       "gini",
		RandomState:     time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// ---------------------------
// Public API
// ---------------------------

// Fit trains the tree on X (n x p) and integer labels y.
func (t *DecisionTreeClassifier) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("dtree: empty X")
	}
	n := len(X)
	if len(y) != n {
		return errors.New("dtree: X and y length mismatch")
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return errors.New("dtree: inconsistent number of features in X rows")
		}
	}
	if t.Criterion != "gini" && t.Criterion != "entropy" {
		return errors.New("dtree: criterion must be gini or entropy")
	}

	t.classes = uniqueInts(y)
	classIdx := make(map[int]int, len(t.classes))
	for i, c := range t.classes {
		classIdx[c] = i
	}
	yi := make([]int, n)
	for i, lab := range y {
		yi[i] = classIdx[lab]
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rnd := rand.New(rand.NewPCG(uint64(t.RandomState), 0))
	t.root = t.buildNode(X, yi, idx, 0, p, rnd)
	return nil
}

// Classes returns the sorted class labels seen during Fit.
func (t *DecisionTreeClassifier) Classes() []int { return t.classes }

// Predict returns the most probable class label per row.
func (t *DecisionTreeClassifier) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i := range X {
		out[i] = t.classes[argmax(t.leaf(X[i]).Probas)]
	}
	return out
}

// PredictProba returns the per-class probability vectors for rows in X.
func (t *DecisionTreeClassifier) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		probas := t.leaf(X[i]).Probas
		out[i] = append([]float64(nil), probas...)
	}
	return out
}

// Thresholds returns the sorted distinct split thresholds the tree uses on feature f.
func (t *DecisionTreeClassifier) Thresholds(f int) []float64 {
	seen := map[float64]struct{}{}
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil || n.Leaf {
			return
		}
		if n.Feature == f {
			seen[n.Threshold] = struct{}{}
		}
		walk(n.Left)
		walk(n.Right)
	}
	walk(t.root)

	out := make([]float64, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

// ---------------------------
// Internal builders & helpers
// ---------------------------

type split struct {
	gain      float64
	feature   int
	threshold float64
	left      []int
	right     []int
}

func (t *DecisionTreeClassifier) buildNode(X [][]float64, y, idx []int, depth, p int, rnd *rand.Rand) *Node {
	counts := make([]int, len(t.classes))
	for _, i := range idx {
		counts[y[i]]++
	}
	leaf := &Node{Leaf: true, N: len(idx), Probas: countsToProbas(counts)}

	if isPure(counts) || len(idx) < t.MinSamplesSplit {
		return leaf
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return leaf
	}

	features := make([]int, p)
	for j := range features {
		features[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		rnd.Shuffle(p, func(i, j int) { features[i], features[j] = features[j], features[i] })
		features = features[:t.MaxFeatures]
	}

	parent := t.impurity(counts)
	best := split{feature: -1}
	for _, f := range features {
		if s := t.bestSplit(X, y, idx, f, parent); s.feature >= 0 && s.gain > best.gain {
			best = s
		}
	}
	if best.feature == -1 || best.gain <= t.MinImpurityDecrease {
		return leaf
	}

	return &Node{
		Feature:   best.feature,
		Threshold: best.threshold,
		N:         len(idx),
		Probas:    leaf.Probas,
		Left:      t.buildNode(X, y, best.left, depth+1, p, rnd),
		Right:     t.buildNode(X, y, best.right, depth+1, p, rnd),
	}
}

// bestSplit sweeps the sorted values of feature f and evaluates every
// midpoint between consecutive distinct values. Missing values follow the
// right branch, as they do in leaf.
func (t *DecisionTreeClassifier) bestSplit(X [][]float64, y, idx []int, f int, parent float64) split {
	order := make([]int, 0, len(idx))
	var nans []int
	for _, i := range idx {
		if math.IsNaN(X[i][f]) {
			nans = append(nans, i)
		} else {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

	n := len(order)
	minLeaf := max(t.MinSamplesLeaf, 1)
	left := make([]int, len(t.classes))
	right := make([]int, len(t.classes))
	for _, i := range order {
		right[y[i]]++
	}

	best := split{feature: -1}
	for k := 0; k < n-1; k++ {
		c := y[order[k]]
		left[c]++
		right[c]--
		v, next := X[order[k]][f], X[order[k+1]][f]
		if v == next || k+1 < minLeaf || n-k-1 < minLeaf {
			continue
		}
		nl, nr := float64(k+1), float64(n-k-1)
		weighted := (nl*t.impurity(left) + nr*t.impurity(right)) / float64(n)
		if gain := parent - weighted; gain > best.gain {
			best = split{gain: gain, feature: f, threshold: (v + next) / 2}
			best.left = append([]int(nil), order[:k+1]...)
			best.right = append(append([]int(nil), order[k+1:]...), nans...)
		}
	}
	return best
}

func (t *DecisionTreeClassifier) impurity(counts []int) float64 {
	if t.Criterion == "entropy" {
		return entropyFromCounts(counts)
	}
	return giniFromCounts(counts)
}

// leaf walks a row down to its leaf.
func (t *DecisionTreeClassifier) leaf(row []float64) *Node {
	n := t.root
	for !n.Leaf {
		if row[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n
}

func giniFromCounts(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		g -= p * p
	}
	return g
}

func entropyFromCounts(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	e := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		e -= p * math.Log2(p)
	}
	return e
}

func countsToProbas(counts []int) []float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	out := make([]float64, len(counts))
	if total == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = float64(c) / float64(total)
	}
	return out
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func argmax(x []float64) int {
	best := 0
	for i := 1; i < len(x); i++ {
		if x[i] > x[best] {
			best = i
		}
	}
	return best
}

func uniqueInts(y []int) []int {
	seen := map[int]struct{}{}
	var out []int
	for _, v := range y {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}
