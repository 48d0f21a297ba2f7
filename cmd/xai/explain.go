package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kuzeydev/contextual-ai/internal/logger"
	"github.com/kuzeydev/contextual-ai/pkg/data"
	"github.com/kuzeydev/contextual-ai/pkg/explainer"
	"github.com/kuzeydev/contextual-ai/pkg/lime"
	"github.com/kuzeydev/contextual-ai/pkg/loader"
	"github.com/kuzeydev/contextual-ai/pkg/model"
	"github.com/kuzeydev/contextual-ai/pkg/pipeline"
	"github.com/kuzeydev/contextual-ai/pkg/stats"
)

var (
	explainData        string
	explainLabel       string
	explainDrop        []string
	explainMode        string
	explainModel       string
	explainRow         int
	explainFeatures    int
	explainSamples     int
	explainSeed        int64
	explainDiscretizer string
	explainSelection   string
	explainSampling    string
	explainSave        string
	explainLoad        string
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Train a model and explain one of its predictions",
	Long: `Loads a CSV dataset, cleans and encodes it, trains a model on a
train/test split and explains the prediction for a single row with a
LIME tabular explainer.`,
	Args: cobra.NoArgs,
	RunE: runExplain,
}

func init() {
	fl := explainCmd.Flags()
	fl.StringVarP(&explainData, "data", "d", "sample_template/data/titanic.csv", "CSV dataset with a header row")
	fl.StringVarP(&explainLabel, "label", "l", "Survived", "target column")
	fl.StringSliceVar(&explainDrop, "drop", []string{"PassengerId", "Name", "Ticket"}, "columns left out of the model")
	fl.StringVarP(&explainMode, "mode", "m", lime.ModeClassification, "classification or regression")
	fl.StringVar(&explainModel, "model", "forest", "classifier: forest or logistic (regression always uses knn)")
	fl.IntVarP(&explainRow, "row", "r", 0, "row of the dataset to explain")
	fl.IntVarP(&explainFeatures, "features", "k", explainer.NumTopFeatures, "number of features in the explanation")
	fl.IntVarP(&explainSamples, "samples", "n", 5000, "perturbed samples drawn around the row")
	fl.Int64Var(&explainSeed, "seed", 42, "random seed for the split, the model and the explainer")
	fl.StringVar(&explainDiscretizer, "discretizer", "quartile", "quartile, decile or entropy")
	fl.StringVar(&explainSelection, "selection", "auto", "none, forward_selection, highest_weights, lasso_path or auto")
	fl.StringVar(&explainSampling, "sampling", "gaussian", "gaussian or lhs")
	fl.StringVar(&explainSave, "save", "", "write the built explainer to this file")
	fl.StringVar(&explainLoad, "load", "", "use a saved explainer instead of building one")
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, _ []string) error {
	f, err := data.LoadCSV(explainData)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	f, err = pipeline.NewPipeline(
		pipeline.DropColumns(explainDrop...),
		pipeline.ImputeMissing(0.5, explainLabel),
		pipeline.DropMissingRows(explainLabel),
	).Run(f)
	if err != nil {
		return err
	}
	classification := explainMode != lime.ModeRegression
	ds, err := pipeline.Encode(f, explainLabel, classification)
	if err != nil {
		return err
	}
	if explainRow < 0 || explainRow >= len(ds.X) {
		return fmt.Errorf("row %d out of range, dataset has %d rows", explainRow, len(ds.X))
	}

	var predict explainer.PredictFunc
	if classification {
		predict, err = trainClassifier(cmd, ds)
	} else {
		predict, err = trainRegressor(cmd, ds)
	}
	if err != nil {
		return err
	}

	exp := explainer.NewLimeTabularExplainer()
	if explainLoad != "" {
		if err := exp.Load(explainLoad); err != nil {
			return fmt.Errorf("load explainer: %w", err)
		}
	} else {
		opts := []explainer.BuildOption{
			explainer.WithColumnNames(ds.Schema.ColumnNames),
			explainer.WithCategoricalFeatures(ds.Schema.CategoricalFeatures),
			explainer.WithCategoricalNames(ds.Schema.CategoricalNames),
			explainer.WithDiscretizer(explainDiscretizer),
			explainer.WithFeatureSelection(explainSelection),
			explainer.WithRandomState(explainSeed),
			explainer.WithVerbose(verbose),
		}
		if classification {
			opts = append(opts,
				explainer.WithClassNames(ds.ClassNames),
				explainer.WithTrainingLabels(ds.Labels),
			)
		}
		if err := exp.Build(ds.X, explainMode, opts...); err != nil {
			return fmt.Errorf("build explainer: %w", err)
		}
	}
	if !exp.Built() {
		return errors.New("no explainer available, check --mode")
	}

	// saved before explaining so a loaded copy resumes from the same sampler state
	if explainSave != "" {
		if err := exp.Save(explainSave); err != nil {
			return fmt.Errorf("save explainer: %w", err)
		}
		logger.Info("explainer saved to %s", explainSave)
	}

	weights, err := exp.Explain(predict, ds.X[explainRow],
		explainer.WithNumFeatures(explainFeatures),
		explainer.WithNumSamples(explainSamples),
		explainer.WithSamplingMethod(explainSampling),
	)
	if err != nil {
		return fmt.Errorf("explain row %d: %w", explainRow, err)
	}
	cmd.Printf("Explanation for row %d (%s):\n", explainRow, exp.Mode())
	for _, w := range weights {
		cmd.Printf("  %-30s %+.4f\n", w.Feature, w.Weight)
	}
	return nil
}

func trainClassifier(cmd *cobra.Command, ds *pipeline.Dataset) (explainer.PredictFunc, error) {
	XTrain, XTest, yTrain, yTest := loader.TrainTestSplit(ds.X, ds.Labels, 0.3, uint64(explainSeed))

	var clf model.Classifier
	switch explainModel {
	case "forest":
		clf = model.NewRandomForest(
			model.WithNEstimators(50),
			model.WithForestMaxDepth(6),
			model.WithForestRandomState(explainSeed),
		)
	case "logistic":
		lr := model.NewLogisticRegression(0.1, 200, 16)
		lr.RandomState = explainSeed
		clf = &scaledClassifier{Classifier: lr, scaler: stats.NewStandardScaler()}
	default:
		return nil, fmt.Errorf("unknown model %q, want forest or logistic", explainModel)
	}
	if err := clf.Fit(XTrain, yTrain); err != nil {
		return nil, fmt.Errorf("train %s: %w", explainModel, err)
	}

	numClasses := len(ds.ClassNames)
	probs := func(rows [][]float64) [][]float64 {
		p := clf.PredictProba(rows)
		classes := clf.Classes()
		out := make([][]float64, len(p))
		for i := range p {
			out[i] = make([]float64, numClasses)
			for k, c := range classes {
				out[i][c] = p[i][k]
			}
		}
		return out
	}
	if len(XTest) > 0 {
		acc := model.Accuracy(yTest, argmax(probs(XTest)))
		cmd.Printf("%s accuracy on %d held-out rows: %.2f%%\n", explainModel, len(XTest), acc*100)
	}
	return func(rows [][]float64) ([][]float64, error) { return probs(rows), nil }, nil
}

func trainRegressor(cmd *cobra.Command, ds *pipeline.Dataset) (explainer.PredictFunc, error) {
	XTrain, XTest, yTrain, yTest := loader.TrainTestSplit(ds.X, ds.Targets, 0.3, uint64(explainSeed))
	knn := model.NewKNNRegressor(5)
	if err := knn.Fit(XTrain, yTrain); err != nil {
		return nil, fmt.Errorf("train knn: %w", err)
	}
	if len(XTest) > 0 {
		cmd.Printf("knn RMSE on %d held-out rows: %.4f\n", len(XTest), model.RMSE(yTest, knn.Predict(XTest)))
	}
	return func(rows [][]float64) ([][]float64, error) {
		p := knn.Predict(rows)
		out := make([][]float64, len(p))
		for i, v := range p {
			out[i] = []float64{v}
		}
		return out, nil
	}, nil
}

// scaledClassifier standardizes rows before they reach the wrapped model.
type scaledClassifier struct {
	model.Classifier
	scaler *stats.StandardScaler
}

func (s *scaledClassifier) Fit(X [][]float64, y []int) error {
	s.scaler.FitData(X)
	return s.Classifier.Fit(s.scaler.Transform(X), y)
}

func (s *scaledClassifier) PredictProba(X [][]float64) [][]float64 {
	return s.Classifier.PredictProba(s.scaler.Transform(X))
}

func argmax(p [][]float64) []int {
	out := make([]int, len(p))
	for i, row := range p {
		for k, v := range row {
			if v > row[out[i]] {
				out[i] = k
			}
		}
	}
	return out
}
