package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"maxmargin/pkg"
	"maxmargin/pkg/svm"

	"github.com/spf13/cobra"
)

func TrainCommand() *cobra.Command {

	var trainFile string
	var testFile string
	var outputFile string
	var targetColumn string
	var trainingParameters pkg.TrainingParameters

	var cmd = &cobra.Command{
		Use:   "train -i trainData -o outputFile -t targetColumn",
		Short: "Fits a hard-margin SVM to the provided training data and saves the resulting model",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pkg.Train(trainFile, testFile, outputFile, targetColumn, trainingParameters)
		},
	}

	cmd.Flags().StringVarP(&trainFile, "train-file", "i", "", "name of train file")
	cmd.Flags().StringVarP(&testFile, "test-file", "", "", "name of test file")
	cmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "name of the file to save model to")
	cmd.Flags().StringVarP(&targetColumn, "target-column", "t", "", "target column")
	cmd.Flags().StringVarP(&trainingParameters.PositiveClass, "positive-label", "p", "", "class mapped to +1 (default: lexicographically larger class)")
	cmd.Flags().Float64VarP(&trainingParameters.Epsilon, "epsilon", "e", svm.DefaultEpsilon, "diagonal regularization added to the Gram matrix")
	cmd.Flags().Float64VarP(&trainingParameters.SupportVectorTolerance, "sv-tolerance", "", svm.DefaultSupportVectorTolerance, "threshold above which a dual coefficient marks a support vector")
	cmd.Flags().IntVarP(&trainingParameters.SolverMaxIterations, "solver-max-iterations", "", 0, "iteration budget of the QP solver (0 = proportional to problem size)")
	cmd.Flags().Float64VarP(&trainingParameters.SolverTolerance, "solver-tolerance", "", 0, "numerical tolerance of the QP solver (0 = default)")

	_ = cmd.MarkFlagRequired("train-file")
	_ = cmd.MarkFlagRequired("output-file")
	_ = cmd.MarkFlagRequired("target-column")

	return cmd
}

func TestCommand() *cobra.Command {
	var modelFile string
	var inputFile string
	var outputFile string

	var cmd = &cobra.Command{
		Use:   "test -m modelFile -i inputFile [-o outputFile]",
		Short: "Runs the provided model on the specified data input and optionally writes the predictions",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pkg.Test(modelFile, inputFile, outputFile)
		},
	}

	cmd.Flags().StringVarP(&modelFile, "model", "m", "", "name of model to test")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "name of data input file")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "name of output file (optional)")

	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("input")

	return cmd

}

var logLevel string
var logFormat string

func main() {

	Main := &cobra.Command{Use: "maxmargin", PersistentPreRun: setupLogging}

	Main.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info", "Logging level: info error or debug")
	Main.PersistentFlags().StringVarP(&logFormat, "log-format", "", "pretty", "Logging format: pretty or json")

	Main.AddCommand(TrainCommand())
	Main.AddCommand(TestCommand())

	if err := Main.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) {

	switch logLevel {
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		panic("Invalid logging level specified")
	}

	switch logFormat {
	case "pretty":
		setupPrettyLogging()
	case "json":
	default:
		panic("Invalid log format specified")

	}

}

func setupPrettyLogging() {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	writer.FormatFieldValue = func(i interface{}) string {
		switch v := i.(type) {
		case json.Number:
			val, _ := v.Float64()
			return fmt.Sprintf("%.3f", val)
		default:
			return fmt.Sprintf("%s", i)
		}

	}
	log.Logger = log.Output(writer)

}
