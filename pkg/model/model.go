package model

import "maxmargin/pkg/svm"

// Model is the persisted training artifact: the recovered hyperplane
// together with the metadata needed to map raw data rows onto it.
type Model struct {
	MetaData   *Metadata
	Hyperplane *svm.Hyperplane
}
