package fieldml

import (
	"github.com/codecurve/fieldml.api/internal/ir"
)

// addObject registers o in the store and the current region. A name already
// visible in the region, as a local or an import alias, is a collision and
// leaves the store unchanged.
func (s *Session) addObject(op string, o ir.Object) (ir.Handle, error) {
	if s.region == nil {
		return ir.InvalidHandle, s.fail(op, CodeInvalidRegion, "session has no region")
	}
	name := o.DeclaredName()
	if old := s.region.NamedObject(name); old.Valid() {
		return ir.InvalidHandle, s.fail(op, CodeNameCollision, "cannot replace %q (%s)", name, old)
	}
	h := s.objects.Add(o)
	s.region.addLocalObject(h)
	return h, nil
}

// checkName rejects empty names and names already taken in the region.
func (s *Session) checkName(op, name string, param int) error {
	if name == "" {
		return s.fail(op, InvalidParameter(param), "name must not be empty")
	}
	if s.region != nil && s.region.NamedObject(name).Valid() {
		return s.fail(op, CodeNameCollision, "name %q is already in use", name)
	}
	return nil
}

// checkLocal verifies h is visible from the current region. InvalidHandle
// passes; callers that require an object check that separately.
func (s *Session) checkLocal(op string, h ir.Handle) error {
	if s.region == nil {
		return s.fail(op, CodeInvalidRegion, "session has no region")
	}
	if h == ir.InvalidHandle {
		return nil
	}
	if _, ok := s.objects.Get(h); !ok {
		return s.fail(op, CodeUnknownObject, "no object with handle %s", h)
	}
	if !s.region.HasLocalObject(h, true, true) {
		return s.fail(op, CodeNonlocalObject, "%s is not visible in region %q", s.describe(h), s.region.name)
	}
	return nil
}

func (s *Session) object(op string, h ir.Handle) (ir.Object, error) {
	o, ok := s.objects.Get(h)
	if !ok {
		return nil, s.fail(op, CodeUnknownObject, "no object with handle %s", h)
	}
	return o, nil
}

// as resolves h to the concrete variant T, failing with InvalidObject for
// any other kind.
func as[T ir.Object](s *Session, op string, h ir.Handle) (T, error) {
	var zero T
	o, err := s.object(op, h)
	if err != nil {
		return zero, err
	}
	t, ok := o.(T)
	if !ok {
		return zero, s.fail(op, CodeInvalidObject, "%s is a %s", s.describe(h), o.Kind())
	}
	return t, nil
}

func (s *Session) evaluator(op string, h ir.Handle) (ir.Evaluator, error) {
	o, err := s.object(op, h)
	if err != nil {
		return nil, err
	}
	e, ok := o.(ir.Evaluator)
	if !ok {
		return nil, s.fail(op, CodeInvalidObject, "%s is a %s, not an evaluator", s.describe(h), o.Kind())
	}
	return e, nil
}

// TotalObjectCount returns the number of objects in the session's store,
// including objects owned by imported regions.
func (s *Session) TotalObjectCount() int {
	s.begin("TotalObjectCount")
	return s.objects.Count()
}

// ObjectByIndex returns the i-th object in handle order (1-based).
func (s *Session) ObjectByIndex(i int) (ir.Handle, error) {
	const op = "ObjectByIndex"
	s.begin(op)
	h := s.objects.ByIndex(i - 1)
	if !h.Valid() {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter1, "index %d out of range 1..%d", i, s.objects.Count())
	}
	return h, nil
}

// ObjectCount returns the number of objects of the given kind.
func (s *Session) ObjectCount(kind ir.ObjectKind) (int, error) {
	const op = "ObjectCount"
	s.begin(op)
	if kind <= ir.KindUnknown || kind > ir.KindDataSource {
		return -1, s.fail(op, CodeInvalidParameter1, "unknown object kind %s", kind)
	}
	return s.objects.CountKind(kind), nil
}

// Object returns the i-th object of the given kind (1-based).
func (s *Session) Object(kind ir.ObjectKind, i int) (ir.Handle, error) {
	const op = "Object"
	s.begin(op)
	if kind <= ir.KindUnknown || kind > ir.KindDataSource {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter1, "unknown object kind %s", kind)
	}
	h := s.objects.ByKindIndex(kind, i-1)
	if !h.Valid() {
		return ir.InvalidHandle, s.fail(op, CodeInvalidParameter2, "no %s at index %d", kind, i)
	}
	return h, nil
}

// ObjectByName resolves name in the current region: locals first, then import
// aliases. It returns InvalidHandle when nothing matches.
func (s *Session) ObjectByName(name string) ir.Handle {
	s.begin("ObjectByName")
	if s.region == nil {
		return ir.InvalidHandle
	}
	return s.region.NamedObject(name)
}

// ObjectByDeclaredName scans the whole store for an object declared with name.
func (s *Session) ObjectByDeclaredName(name string) ir.Handle {
	s.begin("ObjectByDeclaredName")
	return s.objects.ByName(name)
}

// ObjectKind returns the kind of h.
func (s *Session) ObjectKind(h ir.Handle) (ir.ObjectKind, error) {
	const op = "ObjectKind"
	s.begin(op)
	o, err := s.object(op, h)
	if err != nil {
		return ir.KindUnknown, err
	}
	return o.Kind(), nil
}

// IsObjectLocal reports whether h is visible from the current region. With
// declaredOnly, virtual and imported objects do not count.
func (s *Session) IsObjectLocal(h ir.Handle, declaredOnly bool) (bool, error) {
	const op = "IsObjectLocal"
	s.begin(op)
	if s.region == nil {
		return false, s.fail(op, CodeInvalidRegion, "session has no region")
	}
	return s.region.HasLocalObject(h, !declaredOnly, !declaredOnly), nil
}

// ObjectName returns the name h is known by in the current region: its
// declared name if local, otherwise its import alias.
func (s *Session) ObjectName(h ir.Handle) (string, error) {
	const op = "ObjectName"
	s.begin(op)
	if s.region == nil {
		return "", s.fail(op, CodeInvalidRegion, "session has no region")
	}
	if _, err := s.object(op, h); err != nil {
		return "", err
	}
	name, ok := s.region.ObjectName(h)
	if !ok {
		return "", s.fail(op, CodeNonlocalObject, "%s is not visible in region %q", h, s.region.name)
	}
	return name, nil
}

// ObjectDeclaredName returns the name h was created with.
func (s *Session) ObjectDeclaredName(h ir.Handle) (string, error) {
	const op = "ObjectDeclaredName"
	s.begin(op)
	o, err := s.object(op, h)
	if err != nil {
		return "", err
	}
	return o.DeclaredName(), nil
}

// SetObjectInt stores a caller-owned integer on h.
func (s *Session) SetObjectInt(h ir.Handle, v int) error {
	const op = "SetObjectInt"
	s.begin(op)
	o, err := s.object(op, h)
	if err != nil {
		return err
	}
	o.SetAnnotation(v)
	return nil
}

// ObjectInt returns the integer stored by SetObjectInt.
func (s *Session) ObjectInt(h ir.Handle) (int, error) {
	const op = "ObjectInt"
	s.begin(op)
	o, err := s.object(op, h)
	if err != nil {
		return 0, err
	}
	return o.Annotation(), nil
}

// ValueType returns the value type of an evaluator.
func (s *Session) ValueType(h ir.Handle) (ir.Handle, error) {
	const op = "ValueType"
	s.begin(op)
	e, err := s.evaluator(op, h)
	if err != nil {
		return ir.InvalidHandle, err
	}
	return e.ValueTypeHandle(), nil
}
