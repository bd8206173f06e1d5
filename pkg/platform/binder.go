package platform

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/lobbylink/lobbylink/pkg/errors"
	"github.com/lobbylink/lobbylink/pkg/logging"
)

// Shape describes one candidate call shape for a logical operation: the
// method name to look for on the native module and which logical arguments
// to pass, in which order. Shapes for the same operation may differ in
// method name, argument count and argument order.
type Shape struct {
	Method string
	Args   []int // indices into the logical argument list
}

func (s Shape) String() string {
	return fmt.Sprintf("%s/%d", s.Method, len(s.Args))
}

// binding holds the candidate shapes for one operation plus the index of the
// shape that resolved, or -1 while unresolved.
type binding struct {
	shapes   []Shape
	resolved int
}

// Binder resolves logical operations against a native module whose method
// shapes are unknown until runtime. Resolution probes candidates in order
// and memoizes the first that binds; an invocation-time failure with the
// memoized shape falls back to the remaining candidates once and re-caches
// on success.
type Binder struct {
	mu       sync.Mutex
	target   reflect.Value
	bindings map[string]*binding
	log      *logging.ColoredLogger
}

// NewBinder creates a binder over the loaded native module. The shapes map
// gives the ordered candidate list per operation name; DefaultShapes covers
// the known module variants.
func NewBinder(native interface{}, shapes map[string][]Shape, log *logging.ColoredLogger) *Binder {
	bindings := make(map[string]*binding, len(shapes))
	for op, candidates := range shapes {
		bindings[op] = &binding{shapes: candidates, resolved: -1}
	}
	return &Binder{
		target:   reflect.ValueOf(native),
		bindings: bindings,
		log:      log,
	}
}

// Resolve returns the call shape bound to op, probing the candidate list on
// first use. The choice is memoized for the binder's lifetime.
func (b *Binder) Resolve(op string) (Shape, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resolveLocked(op)
}

func (b *Binder) resolveLocked(op string) (Shape, error) {
	bd, ok := b.bindings[op]
	if !ok {
		return Shape{}, errors.NewBindingError(op, 0, fmt.Errorf("unknown operation"))
	}
	if bd.resolved >= 0 {
		return bd.shapes[bd.resolved], nil
	}
	for i, shape := range bd.shapes {
		if err := b.probe(shape); err != nil {
			continue
		}
		bd.resolved = i
		b.log.ComponentDebug(logging.ComponentBinder, "resolved call shape",
			zap.String("op", op),
			zap.String("shape", shape.String()),
			zap.Int("probes", i+1))
		return shape, nil
	}
	return Shape{}, errors.NewBindingError(op, len(bd.shapes), nil)
}

// probe checks whether a candidate shape can bind: the method must exist on
// the native module and accept exactly the shape's argument count. Probing
// never calls into the module.
func (b *Binder) probe(shape Shape) error {
	m := b.target.MethodByName(shape.Method)
	if !m.IsValid() {
		return fmt.Errorf("no method %q", shape.Method)
	}
	t := m.Type()
	if t.IsVariadic() || t.NumIn() != len(shape.Args) {
		return fmt.Errorf("method %q arity %d does not match shape arity %d", shape.Method, t.NumIn(), len(shape.Args))
	}
	return nil
}

// Invoke calls op with the given logical arguments through the memoized
// shape, resolving first if needed. If the memoized shape fails at
// invocation time, the remaining candidates are retried once and the first
// that succeeds replaces the cached choice; if none succeed the call reports
// a binding failure.
func (b *Binder) Invoke(op string, args ...interface{}) (interface{}, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bd, ok := b.bindings[op]
	if !ok {
		return nil, errors.NewBindingError(op, 0, fmt.Errorf("unknown operation"))
	}

	shape, err := b.resolveLocked(op)
	if err != nil {
		return nil, err
	}

	result, err := b.call(shape, args)
	if err == nil {
		return result, nil
	}
	firstErr := err

	// The cached shape stopped working; retry the remaining candidates once.
	b.log.ComponentWarn(logging.ComponentBinder, "cached shape failed, re-probing",
		zap.String("op", op),
		zap.String("shape", shape.String()),
		zap.Error(err))
	for i, candidate := range bd.shapes {
		if i == bd.resolved {
			continue
		}
		if b.probe(candidate) != nil {
			continue
		}
		result, err := b.call(candidate, args)
		if err != nil {
			continue
		}
		bd.resolved = i
		b.log.ComponentDebug(logging.ComponentBinder, "re-resolved call shape",
			zap.String("op", op),
			zap.String("shape", candidate.String()))
		return result, nil
	}
	return nil, errors.NewBindingError(op, len(bd.shapes), firstErr)
}

// call invokes one concrete shape with error isolation: argument conversion
// failures, panics inside the native module and error returns all surface as
// a plain error instead of propagating.
func (b *Binder) call(shape Shape, args []interface{}) (result interface{}, err error) {
	m := b.target.MethodByName(shape.Method)
	if !m.IsValid() {
		return nil, fmt.Errorf("no method %q", shape.Method)
	}
	t := m.Type()
	if t.NumIn() != len(shape.Args) {
		return nil, fmt.Errorf("arity mismatch for %q", shape.Method)
	}

	in := make([]reflect.Value, len(shape.Args))
	for i, ai := range shape.Args {
		if ai >= len(args) {
			return nil, fmt.Errorf("shape %s references logical argument %d, only %d supplied", shape, ai, len(args))
		}
		cv, ok := convertArg(args[ai], t.In(i))
		if !ok {
			return nil, fmt.Errorf("argument %d: cannot pass %T as %s", i, args[ai], t.In(i))
		}
		in[i] = cv
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("native call %q panicked: %v", shape.Method, r)
		}
	}()

	out := m.Call(in)
	for _, o := range out {
		if o.Type() == errorType {
			if !o.IsNil() {
				return nil, o.Interface().(error)
			}
			continue
		}
		if result == nil {
			result = o.Interface()
		}
	}
	return result, nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// convertArg adapts a logical argument to the parameter type a concrete
// method expects. Numeric widths may differ between module builds, so any
// integer kind converts to any other; string/int cross-conversion is
// rejected because reflect would treat it as a rune conversion.
func convertArg(v interface{}, target reflect.Type) (reflect.Value, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		switch target.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			return reflect.Zero(target), true
		}
		return reflect.Value{}, false
	}
	if rv.Type().AssignableTo(target) {
		return rv, true
	}
	if isIntegerKind(rv.Kind()) && isIntegerKind(target.Kind()) {
		return rv.Convert(target), true
	}
	return reflect.Value{}, false
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
