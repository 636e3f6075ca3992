package ioc

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/a-peyrard/ioc/option"
	"github.com/a-peyrard/ioc/reflectutils"
	"github.com/a-peyrard/ioc/set"
	"github.com/a-peyrard/ioc/slices"
	"github.com/rs/zerolog"
)

// InjectTag is the struct tag marking a field for injection, e.g. `inject:""`.
const InjectTag = "inject"

type (
	// Introspector exposes the structure of implementations, and performs the reflective
	// calls needed to build them.
	Introspector interface {
		Describe(impl *Implementation) (*Description, error)
		Construct(ctor Constructor, args []reflect.Value) (reflect.Value, error)
		SetField(instance reflect.Value, field Field, value reflect.Value) error
		Invoke(instance reflect.Value, method Method, args []reflect.Value) error
	}

	Description struct {
		Implementation reflect.Type
		Constructors   []Constructor
		// Levels holds the implementation struct followed by its embedded structs, depth first.
		Levels []Level
	}

	Constructor struct {
		// Func is invalid for the implicit constructor.
		Func     reflect.Value
		Type     reflect.Type
		Params   []reflect.Type
		Inject   bool
		Implicit bool
	}

	Level struct {
		reflectutils.Embedded
		Fields  []Field
		Methods []Method
	}

	Field struct {
		Name   string
		Type   reflect.Type
		Index  []int
		Inject bool
	}

	Method struct {
		Name   string
		Params []reflect.Type
		Level  []int
		Inject bool
	}

	// ReflectIntrospector is the Introspector built on reflect, methods markers are read from
	// a Markers table.
	ReflectIntrospector struct {
		markers *Markers
		logger  zerolog.Logger
	}

	IntrospectorOptions struct {
		logger zerolog.Logger
	}
)

// WithIntrospectorLogger sets the logger warning about suspicious method declarations.
func WithIntrospectorLogger(logger zerolog.Logger) option.Option[IntrospectorOptions] {
	return func(opts *IntrospectorOptions) {
		opts.logger = logger
	}
}

func NewReflectIntrospector(markers *Markers, opts ...option.Option[IntrospectorOptions]) *ReflectIntrospector {
	if markers == nil {
		markers = NewMarkers()
	}
	options := option.Build(&IntrospectorOptions{logger: zerolog.Nop()}, opts...)
	return &ReflectIntrospector{markers: markers, logger: options.logger}
}

func (r *ReflectIntrospector) Describe(impl *Implementation) (*Description, error) {
	if impl == nil || impl.typ == nil {
		return nil, &IllegalComponentError{Reason: "implementation type is nil"}
	}
	typ := impl.typ

	constructors := make([]Constructor, 0, len(impl.constructors))
	for i, declared := range impl.constructors {
		ctor, err := describeConstructor(typ, declared)
		if err != nil {
			return nil, &IllegalComponentError{
				Implementation: typ,
				Reason:         fmt.Sprintf("constructor #%d is invalid: %s", i, err),
			}
		}
		constructors = append(constructors, ctor)
	}
	if len(impl.constructors) == 0 && reflectutils.DerefType(typ).Kind() == reflect.Struct {
		constructors = append(constructors, Constructor{Type: typ, Implicit: true})
	}

	var levels []Level
	for _, embedded := range reflectutils.EmbeddedStructs(typ) {
		level, err := r.describeLevel(embedded)
		if err != nil {
			return nil, &IllegalComponentError{Implementation: typ, Reason: err.Error()}
		}
		levels = append(levels, level)
	}
	r.warnUndeclaredShadowing(levels)

	return &Description{
		Implementation: typ,
		Constructors:   constructors,
		Levels:         levels,
	}, nil
}

func describeConstructor(typ reflect.Type, declared declaredConstructor) (Constructor, error) {
	fn := reflect.ValueOf(declared.fn)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return Constructor{}, fmt.Errorf("a function is expected, got %T", declared.fn)
	}
	fnType := fn.Type()
	if fnType.IsVariadic() {
		return Constructor{}, fmt.Errorf("variadic function %s is not supported", fnType)
	}
	if fnType.NumOut() == 0 || fnType.NumOut() > 2 {
		return Constructor{}, fmt.Errorf("function %s must return the implementation, and optionally an error", fnType)
	}
	if fnType.NumOut() == 2 && fnType.Out(1) != ErrorType {
		return Constructor{}, fmt.Errorf("second result of %s must be an error", fnType)
	}
	if !fnType.Out(0).AssignableTo(typ) {
		return Constructor{}, fmt.Errorf("function %s does not return %s", fnType, typ)
	}

	params := make([]reflect.Type, fnType.NumIn())
	for i := range params {
		params[i] = fnType.In(i)
	}
	return Constructor{
		Func:   fn,
		Type:   fnType.Out(0),
		Params: params,
		Inject: declared.inject,
	}, nil
}

func (r *ReflectIntrospector) describeLevel(embedded reflectutils.Embedded) (Level, error) {
	level := Level{Embedded: embedded}

	for i := 0; i < embedded.Type.NumField(); i++ {
		f := embedded.Type.Field(i)
		_, inject := f.Tag.Lookup(InjectTag)
		if inject && !f.IsExported() {
			return Level{}, fmt.Errorf("field %s.%s carries the inject tag but is not exported", embedded.Type, f.Name)
		}
		if !f.IsExported() {
			continue
		}
		level.Fields = append(level.Fields, Field{
			Name:   f.Name,
			Type:   f.Type,
			Index:  append(append([]int{}, embedded.Index...), i),
			Inject: inject,
		})
	}

	methods := reflect.PointerTo(embedded.Type)
	for _, name := range r.markers.Declared(embedded.Type) {
		m, found := methods.MethodByName(name)
		if !found {
			return Level{}, fmt.Errorf("method %s is not an exported method of %s", name, embedded.Type)
		}
		inject := r.markers.IsInject(embedded.Type, name)
		// the receiver is the first input of a method type obtained from a type
		out := m.Type.NumOut()
		if inject && (out > 1 || (out == 1 && m.Type.Out(0) != ErrorType)) {
			return Level{}, fmt.Errorf("inject method %s.%s must return nothing or an error", embedded.Type, name)
		}
		params := make([]reflect.Type, m.Type.NumIn()-1)
		for i := range params {
			params[i] = m.Type.In(i + 1)
		}
		if inject && m.Type.IsVariadic() {
			return Level{}, fmt.Errorf("inject method %s.%s cannot be variadic", embedded.Type, name)
		}
		level.Methods = append(level.Methods, Method{
			Name:   name,
			Params: params,
			Level:  embedded.Index,
			Inject: inject,
		})
	}

	return level, nil
}

// warnUndeclaredShadowing logs the methods hiding an embedded inject method while missing
// from the markers of their own type: the embedded method is then called, not the hiding one.
func (r *ReflectIntrospector) warnUndeclaredShadowing(levels []Level) {
	for _, outer := range levels {
		known := set.NewFromSlice(slices.Map(outer.Methods, func(m Method) string { return m.Name }))
		for _, inner := range levels {
			if !outer.Encloses(inner.Embedded) {
				continue
			}
			for _, m := range inner.Methods {
				if !m.Inject || known.Contains(m.Name) || !declaresMethod(outer.Type, m.Name) {
					continue
				}
				known.Add(m.Name)
				r.logger.Warn().
					Stringer("type", outer.Type).
					Str("method", m.Name).
					Stringer("embedded", inner.Type).
					Msg("method hides an embedded inject method but is not declared in the markers, the embedded one will be called")
			}
		}
	}
}

// declaresMethod reports if name is declared on typ itself, and not promoted from an embedded
// field. Promoted methods are compiler generated wrappers.
func declaresMethod(typ reflect.Type, name string) bool {
	for _, t := range []reflect.Type{typ, reflect.PointerTo(typ)} {
		m, found := t.MethodByName(name)
		if !found {
			continue
		}
		fn := runtime.FuncForPC(m.Func.Pointer())
		if fn == nil {
			continue
		}
		if file, _ := fn.FileLine(fn.Entry()); file != "<autogenerated>" {
			return true
		}
	}
	return false
}

func (r *ReflectIntrospector) Construct(ctor Constructor, args []reflect.Value) (reflect.Value, error) {
	if ctor.Implicit {
		if ctor.Type.Kind() == reflect.Pointer {
			return reflect.New(ctor.Type.Elem()), nil
		}
		return reflect.New(ctor.Type).Elem(), nil
	}

	results, err := call(ctor.Func, args, fmt.Sprintf("constructor of %s", typeName(ctor.Type)))
	if err != nil {
		return reflect.Value{}, err
	}
	if len(results) == 2 && !results[1].IsNil() {
		return reflect.Value{}, results[1].Interface().(error)
	}
	return results[0], nil
}

func (r *ReflectIntrospector) SetField(instance reflect.Value, field Field, value reflect.Value) error {
	target := reflectutils.Deref(instance).FieldByIndex(field.Index)
	if !target.CanSet() {
		return fmt.Errorf("field %s of %s cannot be set", field.Name, instance.Type())
	}
	if !value.IsValid() {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	if !value.Type().AssignableTo(target.Type()) {
		return fmt.Errorf("value of type %s cannot be assigned to field %s of type %s", value.Type(), field.Name, target.Type())
	}
	target.Set(value)
	return nil
}

func (r *ReflectIntrospector) Invoke(instance reflect.Value, method Method, args []reflect.Value) error {
	receiver := reflectutils.Deref(instance).FieldByIndex(method.Level).Addr()
	fn := receiver.MethodByName(method.Name)
	if !fn.IsValid() {
		return fmt.Errorf("method %s not found on %s", method.Name, receiver.Type())
	}

	results, err := call(fn, args, fmt.Sprintf("method %s of %s", method.Name, receiver.Type()))
	if err != nil {
		return err
	}
	if len(results) == 1 && !results[0].IsNil() {
		return results[0].Interface().(error)
	}
	return nil
}

// call invokes fn, turning a panic into an error.
func call(fn reflect.Value, args []reflect.Value, what string) (results []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic calling %s: %v", what, r)
		}
	}()
	return fn.Call(args), nil
}
