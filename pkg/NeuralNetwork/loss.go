package NeuralNetwork

import "math"

// CrossEntropy returns the mean categorical cross-entropy of predicted
// probabilities against integer class indices, and its gradient with respect
// to the logits that produced probs through Softmax.
func CrossEntropy(yTrue []int, probs [][]float64) (float64, [][]float64) {
	n := len(yTrue)
	s := 0.0
	grad := make([][]float64, n)

	for i := range n {
		p := math.Max(probs[i][yTrue[i]], 1e-12)
		s -= math.Log(p)
		grad[i] = make([]float64, len(probs[i]))
		for k, pk := range probs[i] {
			grad[i][k] = pk / float64(n)
		}
		grad[i][yTrue[i]] -= 1 / float64(n)
	}
	return s / float64(n), grad
}
