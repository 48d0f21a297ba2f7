package model

// Classifier is a supervised model that scores class probabilities.
// PredictProba rows are aligned with Classes.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	PredictProba(X [][]float64) [][]float64
	Classes() []int
}

// Regressor is a supervised model with a continuous target.
type Regressor interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
}

var (
	_ Classifier = (*DecisionTreeClassifier)(nil)
	_ Classifier = (*RandomForest)(nil)
	_ Classifier = (*LogisticRegression)(nil)
	_ Regressor  = (*KNNRegressor)(nil)
)
