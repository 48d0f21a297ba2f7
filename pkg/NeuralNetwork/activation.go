package NeuralNetwork

import "math"

// Softmax maps logits to a probability vector. The max logit is subtracted
// first so large inputs do not overflow.
func Softmax(z []float64) []float64 {
	out := make([]float64, len(z))
	if len(z) == 0 {
		return out
	}
	m := z[0]
	for _, v := range z[1:] {
		m = math.Max(m, v)
	}
	sum := 0.0
	for i, v := range z {
		out[i] = math.Exp(v - m)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
