package loader

import "math/rand/v2"

// TrainTestSplit shuffles X and y in unison with a seeded source and moves
// the first testRatio share of the rows into the test set.
func TrainTestSplit[T any](X [][]float64, y []T, testRatio float64, seed uint64) (XTrain, XTest [][]float64, yTrain, yTest []T) {
	n := len(X)
	indices := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	nTest := int(float64(n) * testRatio)
	for i, idx := range indices {
		if i < nTest {
			XTest = append(XTest, X[idx])
			yTest = append(yTest, y[idx])
		} else {
			XTrain = append(XTrain, X[idx])
			yTrain = append(yTrain, y[idx])
		}
	}
	return
}
