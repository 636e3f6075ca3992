package ioc

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type resolverMock struct {
	mock.Mock
}

func (m *resolverMock) Resolve(typ reflect.Type) (reflect.Value, bool, error) {
	args := m.Called(typ)
	return args.Get(0).(reflect.Value), args.Bool(1), args.Error(2)
}

func newProvider(t *testing.T, component reflect.Type, impl *Implementation) *ConstructorInjectProvider {
	t.Helper()
	provider, err := NewConstructorInjectProvider(
		component,
		impl,
		NewReflectIntrospector(NewMarkers().Register(testRegistry{})),
		zerolog.Nop(),
	)
	require.NoError(t, err)
	return provider
}

func TestConstructorInjectProvider_Get(t *testing.T) {
	t.Run("it should create component with injection", func(t *testing.T) {
		// GIVEN
		dependency := &dependencyStub{}
		resolver := &resolverMock{}
		resolver.On("Resolve", TypeOf[Dependency]()).Return(reflect.ValueOf(dependency), true, nil)
		provider := newProvider(t, TypeOf[*ComponentWithFieldInjection](), Implement[*ComponentWithFieldInjection]())

		// WHEN
		value, err := provider.Get(resolver)

		// THEN
		require.NoError(t, err)
		component := value.Interface().(*ComponentWithFieldInjection)
		assert.Same(t, dependency, component.Dependency)
		resolver.AssertExpectations(t)
	})

	t.Run("it should report the missing dependency and the requiring component", func(t *testing.T) {
		// GIVEN
		resolver := &resolverMock{}
		resolver.On("Resolve", TypeOf[Dependency]()).Return(reflect.Value{}, false, nil)
		provider := newProvider(t, TypeOf[Component](), Implement[*componentWithInjectConstructor](
			WithConstructor(newComponentWithInjectConstructor),
		))

		// WHEN
		_, err := provider.Get(resolver)

		// THEN
		var notFound *DependencyNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, TypeOf[Dependency](), notFound.Dependency)
		assert.Equal(t, TypeOf[Component](), notFound.Component)
	})

	t.Run("it should return a cycle found below unwrapped", func(t *testing.T) {
		// GIVEN
		resolver := &resolverMock{}
		resolver.On("Resolve", TypeOf[Dependency]()).
			Return(reflect.Value{}, false, newCycleDependenciesFoundError(TypeOf[Component](), TypeOf[Dependency]()))
		provider := newProvider(t, TypeOf[Component](), Implement[*componentWithInjectConstructor](
			WithConstructor(newComponentWithInjectConstructor),
		))

		// WHEN
		_, err := provider.Get(resolver)

		// THEN
		var cycle *CycleDependenciesFoundError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, []reflect.Type{TypeOf[Component](), TypeOf[Dependency]()}, cycle.Components())
	})

	t.Run("it should call inject methods after setting fields", func(t *testing.T) {
		// GIVEN
		resolver := &resolverMock{}
		resolver.On("Resolve", TypeOf[AnotherDependency]()).Return(reflect.Zero(TypeOf[AnotherDependency]()), true, nil)
		resolver.On("Resolve", TypeOf[string]()).Return(reflect.ValueOf("root"), true, nil)
		resolver.On("Resolve", TypeOf[int]()).Return(reflect.ValueOf(42), true, nil)
		resolver.On("Resolve", TypeOf[float64]()).Return(reflect.ValueOf(1.5), true, nil)
		resolver.On("Resolve", TypeOf[Dependency]()).Return(reflect.ValueOf(&dependencyStub{}), true, nil)
		provider := newProvider(t, TypeOf[*OrderRoot](), Implement[*OrderRoot](WithConstructor(newOrderRoot)))

		// WHEN
		value, err := provider.Get(resolver)

		// THEN
		require.NoError(t, err)
		root := value.Interface().(*OrderRoot)
		assert.Equal(t, "root", root.Root)
		assert.Equal(t, 42, root.Base)
		resolver.AssertExpectations(t)
	})
}

func TestConstructorInjectProvider_Dependencies(t *testing.T) {
	t.Run("it should include field dependencies", func(t *testing.T) {
		// GIVEN
		provider := newProvider(t, TypeOf[*ComponentWithFieldInjection](), Implement[*ComponentWithFieldInjection]())

		// WHEN
		dependencies := provider.Dependencies()

		// THEN
		assert.Equal(t, []reflect.Type{TypeOf[Dependency]()}, dependencies)
	})

	t.Run("it should include dependencies from inject methods", func(t *testing.T) {
		// GIVEN
		provider := newProvider(t, TypeOf[*InjectMethodWithDependency](), Implement[*InjectMethodWithDependency]())

		// WHEN
		dependencies := provider.Dependencies()

		// THEN
		assert.Equal(t, []reflect.Type{TypeOf[Dependency]()}, dependencies)
	})

	t.Run("it should list constructor, then fields, then methods dependencies", func(t *testing.T) {
		// GIVEN
		provider := newProvider(t, TypeOf[*OrderRoot](), Implement[*OrderRoot](WithConstructor(newOrderRoot)))

		// WHEN
		dependencies := provider.Dependencies()

		// THEN
		assert.Equal(t,
			[]reflect.Type{
				TypeOf[AnotherDependency](),
				TypeOf[string](),
				TypeOf[int](),
				TypeOf[float64](),
				TypeOf[Dependency](),
			},
			dependencies,
		)
	})

	t.Run("it should have no dependency for an implicit constructor", func(t *testing.T) {
		// GIVEN
		provider := newProvider(t, TypeOf[Component](), Implement[*componentWithDefaultConstructor]())

		// WHEN
		dependencies := provider.Dependencies()

		// THEN
		assert.Empty(t, dependencies)
	})
}

func TestInstanceProvider(t *testing.T) {
	t.Run("it should always return the instance without dependency", func(t *testing.T) {
		// GIVEN
		instance := &dependencyStub{}
		provider := NewInstanceProvider(reflect.ValueOf(instance))

		// WHEN
		first, err := provider.Get(&resolverMock{})
		require.NoError(t, err)
		second, err := provider.Get(&resolverMock{})
		require.NoError(t, err)

		// THEN
		assert.Same(t, instance, first.Interface())
		assert.Same(t, instance, second.Interface())
		assert.Empty(t, provider.Dependencies())
	})
}
