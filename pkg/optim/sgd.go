package optim

// SGD is stochastic gradient descent with an optional L2 weight decay.
type SGD struct {
	LearningRate float64
	WeightDecay  float64
}

func NewSGD(lr float64) *SGD { return &SGD{LearningRate: lr} }

// Step updates weights in place: w -= lr * (g + decay * w).
func (o *SGD) Step(weights, grads []float64) {
	for i := range weights {
		weights[i] -= o.LearningRate * (grads[i] + o.WeightDecay*weights[i])
	}
}
