package NeuralNetwork

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSoftmax_SumsToOneAndIsStable(t *testing.T) {
	p := Softmax([]float64{1000, 1000})

	assert.InDelta(t, 0.5, p[0], 1e-12)
	assert.InDelta(t, 0.5, p[1], 1e-12)
	assert.Empty(t, Softmax(nil))
}

func TestCrossEntropy_Gradient(t *testing.T) {
	loss, grad := CrossEntropy([]int{1}, [][]float64{{0.25, 0.75}})

	assert.InDelta(t, 0.2876820724517809, loss, 1e-12)
	assert.InDelta(t, 0.25, grad[0][0], 1e-12)
	assert.InDelta(t, -0.25, grad[0][1], 1e-12)
}
