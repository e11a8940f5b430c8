package io

import (
	"encoding/csv"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"maxmargin/pkg/model"
)

// DataRecord is one labeled example parsed from a data file.
type DataRecord struct {
	Features []float64

	// Class is the raw target value from the data file.
	Class string

	// Target is the -1/+1 label assigned to Class.
	Target float64
}

type DataError struct {
	Line  int
	Error string
}

type DataParameters struct {
	DataFile     string
	TargetColumn string

	// PositiveClass optionally names the class mapped to +1. When empty
	// the lexicographically larger of the two class names is used.
	PositiveClass string
}

// LoadData reads a CSV data file with a header row. Every column except
// the target column is parsed as a numeric feature. Rows that fail to
// parse are skipped and reported as DataErrors.
//
// When metaData is nil a new Metadata is built from the header and the
// class names found in the data; otherwise the given Metadata drives
// parsing and rows with unknown classes are reported as errors.
func LoadData(p DataParameters, metaData *model.Metadata) (*model.Metadata, []*DataRecord, []DataError, error) {

	var errors []DataError
	inputFile, err := os.Open(p.DataFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error opening file: %w", err)
	}
	defer inputFile.Close()

	reader := csv.NewReader(inputFile)
	reader.Comma = ','

	//First line is expected to be a header
	header, err := reader.Read()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error reading data header: %w", err)
	}

	newMetadata := false
	if metaData == nil {
		metaData = model.NewMetadata()
		newMetadata = true
		metaData.Columns = header
		if err := setTargetColumn(p, metaData); err != nil {
			return nil, nil, nil, err
		}
		buildFeatureIndex(metaData)
	}

	var records []*DataRecord
	currentLine := 1

	for record, err := reader.Read(); err != io.EOF; record, err = reader.Read() {
		currentLine++
		if err != nil {
			if _, ok := err.(*csv.ParseError); !ok {
				return nil, nil, nil, fmt.Errorf("error reading data: %w", err)
			}
			errors = append(errors, DataError{Line: currentLine, Error: err.Error()})
			continue
		}
		if len(record) != len(metaData.Columns) {
			errors = append(errors, DataError{
				Line:  currentLine,
				Error: fmt.Sprintf("row has %d columns, expected %d", len(record), len(metaData.Columns)),
			})
			continue
		}

		features, err := parseFeatures(metaData, record)
		if err != nil {
			errors = append(errors, DataError{Line: currentLine, Error: err.Error()})
			continue
		}

		rec := &DataRecord{Features: features, Class: record[metaData.TargetColumn]}
		if !newMetadata {
			target, ok := metaData.Labels.ContainsName(rec.Class)
			if !ok {
				errors = append(errors, DataError{
					Line:  currentLine,
					Error: fmt.Sprintf("unknown class %q for target column %s", rec.Class, metaData.Columns[metaData.TargetColumn]),
				})
				continue
			}
			rec.Target = target
		}
		records = append(records, rec)
	}

	if newMetadata {
		if err := assignLabels(metaData, records, p.PositiveClass); err != nil {
			return nil, nil, nil, err
		}
	}

	return metaData, records, errors, nil
}

// Points splits parsed records into the feature matrix and label vector
// consumed by the trainer.
func Points(records []*DataRecord) ([][]float64, []float64) {
	points := make([][]float64, len(records))
	labels := make([]float64, len(records))
	for i, rec := range records {
		points[i] = rec.Features
		labels[i] = rec.Target
	}
	return points, labels
}

func parseFeatures(metaData *model.Metadata, record []string) ([]float64, error) {
	features := make([]float64, 0, metaData.FeatureCount())
	for _, column := range metaData.FeatureColumns {
		value, err := strconv.ParseFloat(record[column], 64)
		if err != nil {
			return nil, fmt.Errorf("error parsing feature %s: %w", metaData.Columns[column], err)
		}
		features = append(features, value)
	}
	return features, nil
}

// assignLabels maps the class names found in the data onto -1/+1 and
// resolves the Target of every record.
func assignLabels(metaData *model.Metadata, records []*DataRecord, positiveClass string) error {
	seen := map[string]bool{}
	var classes []string
	for _, rec := range records {
		if !seen[rec.Class] {
			seen[rec.Class] = true
			classes = append(classes, rec.Class)
		}
	}
	if len(classes) > 2 {
		return fmt.Errorf("expected at most two classes, found %d", len(classes))
	}
	sort.Strings(classes)

	if positiveClass != "" {
		if !seen[positiveClass] {
			return fmt.Errorf("positive class %q not present in the data", positiveClass)
		}
		metaData.Labels.Set(positiveClass, 1)
		for _, class := range classes {
			if class != positiveClass {
				metaData.Labels.Set(class, -1)
			}
		}
	} else {
		labels := []float64{-1, 1}
		for i, class := range classes {
			metaData.Labels.Set(class, labels[i])
		}
	}

	for _, rec := range records {
		rec.Target = metaData.Labels.NameToLabel[rec.Class]
	}
	return nil
}

func buildFeatureIndex(metaData *model.Metadata) {
	for i := range metaData.Columns {
		if i != metaData.TargetColumn {
			metaData.FeatureColumns = append(metaData.FeatureColumns, i)
		}
	}
}

func setTargetColumn(p DataParameters, metaData *model.Metadata) error {
	for i, col := range metaData.Columns {
		if col == p.TargetColumn {
			metaData.TargetColumn = i
			return nil
		}
	}
	return fmt.Errorf("target column %s not found in data header", p.TargetColumn)
}

func SaveModel(model *model.Model, writer io.Writer) error {
	encoder := gob.NewEncoder(writer)
	err := encoder.Encode(model)
	if err != nil {
		return fmt.Errorf("error encoding model: %w", err)
	}
	return nil
}

func LoadModel(input io.Reader) (*model.Model, error) {
	decoder := gob.NewDecoder(input)
	model := model.Model{}
	err := decoder.Decode(&model)
	if err != nil {
		return nil, fmt.Errorf("error decoding model: %w", err)
	}
	return &model, nil
}
