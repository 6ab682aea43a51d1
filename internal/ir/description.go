package ir

// DataDescription lays out a parameter evaluator's values.
// A nil DataDescription on a ParameterEvaluator means UNKNOWN.
type DataDescription interface {
	DescriptionType() DataDescriptionType
	// IndexEvaluators lists sparse indexes first, then dense indexes.
	IndexEvaluators() []Handle
	sealedDescription()
}

// DenseIndex is one dense axis: an ensemble-valued evaluator with an
// optional rank-1 order source.
type DenseIndex struct {
	Evaluator Handle
	Order     Handle
}

// DenseArrayDescription stores values in a dense array, one axis per index.
type DenseArrayDescription struct {
	DenseIndexes []DenseIndex
	DataSource   Handle
}

// DOKArrayDescription stores values as a dictionary of keys.
type DOKArrayDescription struct {
	SparseIndexes []Handle
	DenseIndexes  []DenseIndex
	KeySource     Handle
	ValueSource   Handle
}

func (*DenseArrayDescription) DescriptionType() DataDescriptionType { return DescriptionDenseArray }
func (*DOKArrayDescription) DescriptionType() DataDescriptionType   { return DescriptionDOKArray }
func (*DenseArrayDescription) sealedDescription()                  {}
func (*DOKArrayDescription) sealedDescription()                    {}

func (d *DenseArrayDescription) IndexEvaluators() []Handle {
	out := make([]Handle, 0, len(d.DenseIndexes))
	for _, idx := range d.DenseIndexes {
		out = append(out, idx.Evaluator)
	}
	return out
}

func (d *DOKArrayDescription) IndexEvaluators() []Handle {
	out := make([]Handle, 0, len(d.SparseIndexes)+len(d.DenseIndexes))
	out = append(out, d.SparseIndexes...)
	for _, idx := range d.DenseIndexes {
		out = append(out, idx.Evaluator)
	}
	return out
}

// DescriptionTypeOf returns the type of d, treating nil as UNKNOWN.
func DescriptionTypeOf(d DataDescription) DataDescriptionType {
	if d == nil {
		return DescriptionUnknown
	}
	return d.DescriptionType()
}
