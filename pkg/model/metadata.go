package model

// NameMap implements a bidirectional mapping between a class name and
// its numeric label (-1 or +1).
type NameMap struct {
	NameToLabel map[string]float64
	LabelToName map[float64]string
}

func NewNameMap() NameMap {
	return NameMap{
		NameToLabel: map[string]float64{},
		LabelToName: map[float64]string{},
	}
}

func (m NameMap) Set(name string, label float64) {
	m.NameToLabel[name] = label
	m.LabelToName[label] = name
}

func (m NameMap) Size() int {
	return len(m.NameToLabel)
}

func (m NameMap) ContainsName(name string) (float64, bool) {
	label, ok := m.NameToLabel[name]
	return label, ok
}

type Metadata struct {
	Columns []string

	// FeatureColumns holds the data row column indexes used as features,
	// in feature-vector order.
	FeatureColumns []int

	// TargetColumn points to the column in the data row that contains the
	// class to predict.
	TargetColumn int

	// Labels maps the two class names to the -1/+1 labels used by the
	// classifier.
	Labels NameMap
}

func NewMetadata() *Metadata {
	return &Metadata{
		TargetColumn: -1,
		Labels:       NewNameMap(),
	}
}

func (d *Metadata) FeatureCount() int {
	return len(d.FeatureColumns)
}

// TargetName returns the class name for a -1/+1 label.
func (d *Metadata) TargetName(label float64) string {
	return d.Labels.LabelToName[label]
}
