package model

import "math"

func MSE(yTrue, yPred []float64) float64 {
	n := float64(len(yTrue))
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		s += d * d
	}
	return s / n
}

func RMSE(yTrue, yPred []float64) float64 { return math.Sqrt(MSE(yTrue, yPred)) }

// WeightedR2 is the coefficient of determination with optional sample weights.
// A constant target scores 1 when predicted exactly and 0 otherwise.
func WeightedR2(yTrue, yPred, w []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	if w == nil {
		w = ones(len(yTrue))
	}
	sw, m := 0.0, 0.0
	for i, v := range yTrue {
		sw += w[i]
		m += w[i] * v
	}
	m /= sw
	ssTot := 0.0
	ssRes := 0.0
	for i := range yTrue {
		d := yTrue[i] - m
		ssTot += w[i] * d * d
		r := yTrue[i] - yPred[i]
		ssRes += w[i] * r * r
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

func R2(yTrue, yPred []float64) float64 { return WeightedR2(yTrue, yPred, nil) }

func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}
