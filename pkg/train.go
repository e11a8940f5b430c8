package pkg

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"maxmargin/pkg/io"
	"maxmargin/pkg/model"
	"maxmargin/pkg/qp"
	"maxmargin/pkg/svm"
)

type TrainingParameters struct {
	Epsilon                float64
	SupportVectorTolerance float64
	SolverMaxIterations    int
	SolverTolerance        float64
	PositiveClass          string
}

// Train fits a hard-margin SVM on the labeled points in trainFile,
// saves the resulting model and reports classification metrics on the
// training data and, when given, on testFile.
func Train(trainFile, testFile, outputFileName, targetColumn string, params TrainingParameters) error {

	metaData, records, dataErrors, err := io.LoadData(io.DataParameters{
		DataFile:      trainFile,
		TargetColumn:  targetColumn,
		PositiveClass: params.PositiveClass,
	}, nil)
	if err != nil {
		return fmt.Errorf("error reading training data: %w", err)
	}
	printDataErrors(dataErrors)
	if len(records) == 0 {
		return fmt.Errorf("no data to train")
	}

	points, labels := io.Points(records)
	hyperplane, err := svm.Fit(points, labels, svm.Config{
		Epsilon:                params.Epsilon,
		SupportVectorTolerance: params.SupportVectorTolerance,
		Solver: &qp.ActiveSet{
			MaxIter: params.SolverMaxIterations,
			Tol:     params.SolverTolerance,
		},
	})
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	log.Info().
		Int("Points", len(records)).
		Int("SupportVectors", len(hyperplane.SupportIndices)).
		Floats64("Weights", hyperplane.Weights).
		Float64("Bias", hyperplane.Bias).
		Float64("Margin", hyperplane.Margin()).
		Msg("Training complete")

	m := &model.Model{
		MetaData:   metaData,
		Hyperplane: hyperplane,
	}

	if outputFileName != "" {
		outputFile, err := os.Create(outputFileName)
		if err != nil {
			return fmt.Errorf("error creating output file %s: %w", outputFileName, err)
		}
		defer outputFile.Close()
		if err := io.SaveModel(m, outputFile); err != nil {
			return fmt.Errorf("error saving model to %s: %w", outputFileName, err)
		}
	}

	if err := testInternal(m, records, ""); err != nil {
		return err
	}

	if testFile != "" {
		_, testRecords, testErrors, err := io.LoadData(io.DataParameters{
			DataFile:     testFile,
			TargetColumn: targetColumn,
		}, metaData)
		if err != nil {
			return fmt.Errorf("error reading test data: %w", err)
		}
		printDataErrors(testErrors)
		return testInternal(m, testRecords, "")
	}
	return nil
}
