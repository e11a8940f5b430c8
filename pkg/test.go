package pkg

import (
	"fmt"
	gio "io"
	"os"
	"sort"

	"github.com/rs/zerolog/log"

	"maxmargin/pkg/io"
	"maxmargin/pkg/model"
)

type NoopWriter struct{}

func (x NoopWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// Test runs a saved model on the labeled points in inputFileName and
// reports per-class precision/recall/F1 and overall accuracy.
// When outputFileName is given, one "label,prediction,decision" row is
// written per point.
func Test(modelFileName, inputFileName, outputFileName string) error {

	modelFile, err := os.Open(modelFileName)
	if err != nil {
		return fmt.Errorf("error opening model file %s: %w", modelFileName, err)
	}
	defer modelFile.Close()

	m, err := io.LoadModel(modelFile)
	if err != nil {
		return fmt.Errorf("error loading model from file %s: %w", modelFileName, err)
	}

	_, records, dataErrors, err := io.LoadData(io.DataParameters{
		DataFile:     inputFileName,
		TargetColumn: m.MetaData.Columns[m.MetaData.TargetColumn],
	}, m.MetaData)
	if err != nil {
		return fmt.Errorf("error loading data from %s: %w", inputFileName, err)
	}
	printDataErrors(dataErrors)
	if len(records) == 0 {
		return fmt.Errorf("no data to test")
	}
	return testInternal(m, records, outputFileName)
}

type classMetrics struct {
	TruePos  int
	FalsePos int
	TrueNeg  int
	FalseNeg int
}

func (m *classMetrics) Precision() float64 {
	if m.TruePos+m.FalsePos == 0 {
		return 0
	}
	return float64(m.TruePos) / float64(m.TruePos+m.FalsePos)
}

func (m *classMetrics) Recall() float64 {
	if m.TruePos+m.FalseNeg == 0 {
		return 0
	}
	return float64(m.TruePos) / float64(m.TruePos+m.FalseNeg)
}

func (m *classMetrics) F1Score() float64 {
	p, r := m.Precision(), m.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

type classificationEvaluator struct {
	predictionCount int
	correct         int
	metrics         map[string]*classMetrics
	model           *model.Model
	outputWriter    gio.Writer
}

func (c *classificationEvaluator) EvaluatePrediction(record *io.DataRecord) {
	h := c.model.Hyperplane
	predicted := h.Predict(record.Features)
	predictedClass := c.model.MetaData.TargetName(predicted)
	c.predictionCount++

	fmt.Fprintf(c.outputWriter, "%s,%s,%.5f\n", record.Class, predictedClass, h.Decision(record.Features))

	labelClassMetrics, ok := c.metrics[record.Class]
	if !ok {
		labelClassMetrics = &classMetrics{}
		c.metrics[record.Class] = labelClassMetrics
	}
	predictedClassMetrics, ok := c.metrics[predictedClass]
	if !ok {
		predictedClassMetrics = &classMetrics{}
		c.metrics[predictedClass] = predictedClassMetrics
	}

	if record.Class == predictedClass {
		c.correct++
		labelClassMetrics.TruePos++
	} else {
		labelClassMetrics.FalseNeg++
		predictedClassMetrics.FalsePos++
	}
}

func (c *classificationEvaluator) LogMetrics() {
	// Sort class names for deterministic output
	sortedClasses := sortClasses(c.metrics)
	for _, class := range sortedClasses {
		result := c.metrics[class]
		log.Info().Str("Class", class).
			Int("TP", result.TruePos).
			Int("FP", result.FalsePos).
			Int("FN", result.FalseNeg).
			Float64("Precision", result.Precision()).
			Float64("Recall", result.Recall()).
			Float64("F1", result.F1Score()).
			Msg("")
	}

	microF1, macroF1 := computeOverallF1(c.metrics)
	log.Info().
		Float64("Accuracy", c.Accuracy()).
		Float64("MacroF1", macroF1).
		Float64("MicroF1", microF1).
		Msg("")
}

func (c *classificationEvaluator) Accuracy() float64 {
	if c.predictionCount == 0 {
		return 0
	}
	return float64(c.correct) / float64(c.predictionCount)
}

func testInternal(m *model.Model, records []*io.DataRecord, outputFileName string) error {

	var outputWriter gio.Writer
	if outputFileName != "" {
		outputFile, err := os.Create(outputFileName)
		if err != nil {
			return fmt.Errorf("error opening output file %s: %w", outputFileName, err)
		}
		defer outputFile.Close()
		outputWriter = outputFile
	} else {
		outputWriter = NoopWriter{}
	}

	evaluator := &classificationEvaluator{
		metrics:      map[string]*classMetrics{},
		model:        m,
		outputWriter: outputWriter,
	}
	for _, record := range records {
		evaluator.EvaluatePrediction(record)
	}
	evaluator.LogMetrics()

	return nil
}

func computeOverallF1(metrics map[string]*classMetrics) (float64, float64) {
	macroF1 := 0.0
	for _, metric := range metrics {
		macroF1 += metric.F1Score()
	}
	macroF1 /= float64(len(metrics))

	micro := &classMetrics{}
	for _, result := range metrics {
		micro.TruePos += result.TruePos
		micro.FalsePos += result.FalsePos
		micro.FalseNeg += result.FalseNeg
		micro.TrueNeg += result.TrueNeg
	}
	return micro.F1Score(), macroF1
}

func sortClasses(metrics map[string]*classMetrics) []string {
	result := make([]string, 0, len(metrics))
	for class := range metrics {
		result = append(result, class)
	}
	sort.Strings(result)
	return result
}
