package fieldml

import (
	"github.com/codecurve/fieldml.api/internal/ir"
)

// SetParameterDataDescription chooses the data layout of a parameter. The
// description can be chosen once; later calls fail with AccessViolation.
func (s *Session) SetParameterDataDescription(param ir.Handle, t ir.DataDescriptionType) error {
	const op = "SetParameterDataDescription"
	s.begin(op)
	if err := s.checkLocal(op, param); err != nil {
		return err
	}
	p, err := as[*ir.ParameterEvaluator](s, op, param)
	if err != nil {
		return err
	}
	if p.Description != nil {
		return s.fail(op, CodeAccessViolation, "%s already has a %s description", s.describe(param), p.Description.DescriptionType())
	}
	switch t {
	case ir.DescriptionDenseArray:
		p.Description = &ir.DenseArrayDescription{}
	case ir.DescriptionDOKArray:
		p.Description = &ir.DOKArrayDescription{}
	default:
		return s.fail(op, CodeUnsupported, "description type %s is not supported", t)
	}
	return nil
}

// ParameterDataDescription returns the description type of a parameter.
func (s *Session) ParameterDataDescription(param ir.Handle) (ir.DataDescriptionType, error) {
	const op = "ParameterDataDescription"
	s.begin(op)
	p, err := as[*ir.ParameterEvaluator](s, op, param)
	if err != nil {
		return ir.DescriptionUnknown, err
	}
	return ir.DescriptionTypeOf(p.Description), nil
}

// describedParameter resolves a parameter that already has a description.
func (s *Session) describedParameter(op string, param ir.Handle) (*ir.ParameterEvaluator, error) {
	p, err := as[*ir.ParameterEvaluator](s, op, param)
	if err != nil {
		return nil, err
	}
	if p.Description == nil {
		return nil, s.fail(op, CodeMisconfiguredObject, "%s has no data description", s.describe(param))
	}
	return p, nil
}

// AddDenseIndexEvaluator appends an ensemble-valued dense index to a
// parameter, with an optional rank-1 order source.
func (s *Session) AddDenseIndexEvaluator(param, index, order ir.Handle) error {
	const op = "AddDenseIndexEvaluator"
	s.begin(op)
	for _, x := range []ir.Handle{param, index, order} {
		if err := s.checkLocal(op, x); err != nil {
			return err
		}
	}
	p, err := s.describedParameter(op, param)
	if err != nil {
		return err
	}
	if err := s.checkEvaluatorType(op, index, 2, allowEnsemble); err != nil {
		return err
	}
	if order.Valid() {
		src, ok := s.dataSource(order)
		if !ok || src.Rank != 1 {
			return s.fail(op, CodeInvalidParameter3, "order %s must be a rank 1 array data source", s.describe(order))
		}
	}
	if err := s.checkCycle(op, param, index); err != nil {
		return err
	}

	entry := ir.DenseIndex{Evaluator: index, Order: order}
	switch d := p.Description.(type) {
	case *ir.DenseArrayDescription:
		d.DenseIndexes = append(d.DenseIndexes, entry)
	case *ir.DOKArrayDescription:
		d.DenseIndexes = append(d.DenseIndexes, entry)
	}
	return nil
}

// AddSparseIndexEvaluator appends an ensemble-valued sparse index to a DOK parameter.
func (s *Session) AddSparseIndexEvaluator(param, index ir.Handle) error {
	const op = "AddSparseIndexEvaluator"
	s.begin(op)
	if err := s.checkLocal(op, param); err != nil {
		return err
	}
	if err := s.checkLocal(op, index); err != nil {
		return err
	}
	p, err := s.describedParameter(op, param)
	if err != nil {
		return err
	}
	d, ok := p.Description.(*ir.DOKArrayDescription)
	if !ok {
		return s.fail(op, CodeInvalidObject, "%s has a %s description without sparse indexes", s.describe(param), p.Description.DescriptionType())
	}
	if err := s.checkEvaluatorType(op, index, 2, allowEnsemble); err != nil {
		return err
	}
	if err := s.checkCycle(op, param, index); err != nil {
		return err
	}
	d.SparseIndexes = append(d.SparseIndexes, index)
	return nil
}

// setParameterIndex replaces the i-th (1-based, sparse first) index of a parameter.
func (s *Session) setParameterIndex(op string, p *ir.ParameterEvaluator, i int, eval ir.Handle) error {
	var sparse []ir.Handle
	var dense []ir.DenseIndex
	switch d := p.Description.(type) {
	case nil:
		return s.fail(op, CodeMisconfiguredObject, "%q has no data description", p.Name)
	case *ir.DenseArrayDescription:
		dense = d.DenseIndexes
	case *ir.DOKArrayDescription:
		sparse, dense = d.SparseIndexes, d.DenseIndexes
	}
	switch {
	case i >= 1 && i <= len(sparse):
		sparse[i-1] = eval
	case i > len(sparse) && i <= len(sparse)+len(dense):
		dense[i-1-len(sparse)].Evaluator = eval
	default:
		return s.fail(op, CodeInvalidParameter2, "index %d out of range 1..%d", i, len(sparse)+len(dense))
	}
	return nil
}

func indexLists(d ir.DataDescription) ([]ir.Handle, []ir.DenseIndex) {
	switch v := d.(type) {
	case *ir.DenseArrayDescription:
		return nil, v.DenseIndexes
	case *ir.DOKArrayDescription:
		return v.SparseIndexes, v.DenseIndexes
	}
	return nil, nil
}

// ParameterIndexCount returns the number of sparse or dense indexes of a parameter.
func (s *Session) ParameterIndexCount(param ir.Handle, sparse bool) (int, error) {
	const op = "ParameterIndexCount"
	s.begin(op)
	p, err := s.describedParameter(op, param)
	if err != nil {
		return -1, err
	}
	sp, dense := indexLists(p.Description)
	if sparse {
		return len(sp), nil
	}
	return len(dense), nil
}

// ParameterIndexEvaluator returns the i-th (1-based) sparse or dense index.
func (s *Session) ParameterIndexEvaluator(param ir.Handle, i int, sparse bool) (ir.Handle, error) {
	const op = "ParameterIndexEvaluator"
	s.begin(op)
	p, err := s.describedParameter(op, param)
	if err != nil {
		return ir.InvalidHandle, err
	}
	sp, dense := indexLists(p.Description)
	if sparse {
		if i < 1 || i > len(sp) {
			return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "sparse index %d out of range 1..%d", i, len(sp))
		}
		return sp[i-1], nil
	}
	if i < 1 || i > len(dense) {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "dense index %d out of range 1..%d", i, len(dense))
	}
	return dense[i-1].Evaluator, nil
}

// ParameterIndexOrder returns the order source of the i-th (1-based) dense index.
func (s *Session) ParameterIndexOrder(param ir.Handle, i int) (ir.Handle, error) {
	const op = "ParameterIndexOrder"
	s.begin(op)
	p, err := s.describedParameter(op, param)
	if err != nil {
		return ir.InvalidHandle, err
	}
	_, dense := indexLists(p.Description)
	if i < 1 || i > len(dense) {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "dense index %d out of range 1..%d", i, len(dense))
	}
	return dense[i-1].Order, nil
}

// SetDataSource attaches source as a parameter's values (the DOK value
// source for sparse parameters) or as the membership source of an ensemble
// or mesh with data-described members.
func (s *Session) SetDataSource(h, source ir.Handle) error {
	const op = "SetDataSource"
	s.begin(op)
	if err := s.checkLocal(op, h); err != nil {
		return err
	}
	if err := s.checkLocal(op, source); err != nil {
		return err
	}
	if _, ok := s.dataSource(source); !ok {
		return s.fail(op, CodeInvalidParameter2, "%s is not a data source", s.describe(source))
	}
	o, err := s.object(op, h)
	if err != nil {
		return err
	}

	switch v := o.(type) {
	case *ir.ParameterEvaluator:
		switch d := v.Description.(type) {
		case *ir.DenseArrayDescription:
			d.DataSource = source
		case *ir.DOKArrayDescription:
			d.ValueSource = source
		default:
			return s.fail(op, CodeMisconfiguredObject, "%s has no data description", s.describe(h))
		}
		return nil
	case *ir.EnsembleType, *ir.MeshType:
		e, err := s.ensembleOf(op, h)
		if err != nil {
			return err
		}
		if !e.MembersType.IsData() {
			return s.fail(op, CodeInvalidParameter2, "%s has %s members and takes no data source", s.describe(h), e.MembersType)
		}
		e.DataSource = source
		return nil
	}
	return s.fail(op, CodeInvalidObject, "%s is a %s and takes no data source", s.describe(h), o.Kind())
}

// DataSource returns the source attached by SetDataSource, or InvalidHandle.
func (s *Session) DataSource(h ir.Handle) (ir.Handle, error) {
	const op = "DataSource"
	s.begin(op)
	o, err := s.object(op, h)
	if err != nil {
		return ir.InvalidHandle, err
	}
	switch v := o.(type) {
	case *ir.ParameterEvaluator:
		switch d := v.Description.(type) {
		case *ir.DenseArrayDescription:
			return d.DataSource, nil
		case *ir.DOKArrayDescription:
			return d.ValueSource, nil
		}
		return ir.InvalidHandle, s.fail(op, CodeMisconfiguredObject, "%s has no data description", s.describe(h))
	case *ir.EnsembleType, *ir.MeshType:
		e, err := s.ensembleOf(op, h)
		if err != nil {
			return ir.InvalidHandle, err
		}
		return e.DataSource, nil
	}
	return ir.InvalidHandle, s.fail(op, CodeInvalidObject, "%s is a %s and has no data source", s.describe(h), o.Kind())
}

// SetKeyDataSource attaches the rank 2 key source of a DOK parameter.
func (s *Session) SetKeyDataSource(param, source ir.Handle) error {
	const op = "SetKeyDataSource"
	s.begin(op)
	if err := s.checkLocal(op, param); err != nil {
		return err
	}
	if err := s.checkLocal(op, source); err != nil {
		return err
	}
	src, ok := s.dataSource(source)
	if !ok || src.Rank != 2 {
		return s.fail(op, CodeInvalidParameter2, "key source %s must be a rank 2 array data source", s.describe(source))
	}
	p, err := s.describedParameter(op, param)
	if err != nil {
		return err
	}
	d, ok := p.Description.(*ir.DOKArrayDescription)
	if !ok {
		return s.fail(op, CodeInvalidObject, "%s has a %s description without keys", s.describe(param), p.Description.DescriptionType())
	}
	d.KeySource = source
	return nil
}

// KeyDataSource returns the key source of a DOK parameter.
func (s *Session) KeyDataSource(param ir.Handle) (ir.Handle, error) {
	const op = "KeyDataSource"
	s.begin(op)
	p, err := s.describedParameter(op, param)
	if err != nil {
		return ir.InvalidHandle, err
	}
	d, ok := p.Description.(*ir.DOKArrayDescription)
	if !ok {
		return ir.InvalidHandle, s.fail(op, CodeInvalidObject, "%s has a %s description without keys", s.describe(param), p.Description.DescriptionType())
	}
	return d.KeySource, nil
}
