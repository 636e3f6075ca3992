package ioc

import (
	"errors"
)

var errBoom = errors.New("boom")

type (
	Component interface {
		Dependency() Dependency
	}

	Dependency interface {
		Value() string
	}

	AnotherDependency interface {
		Other() string
	}

	dependencyStub struct {
		value string
	}

	componentWithDefaultConstructor struct{}

	componentWithInjectConstructor struct {
		dependency Dependency
	}

	dependencyWithInjectConstructor struct {
		value string
	}

	dependencyDependedOnComponent struct {
		component Component
	}

	anotherDependencyDependOnComponent struct {
		component Component
	}

	dependencyDependOnAnotherDependency struct {
		another AnotherDependency
	}
)

func (d *dependencyStub) Value() string { return d.value }

func (c *componentWithDefaultConstructor) Dependency() Dependency { return nil }

func newComponentWithInjectConstructor(dependency Dependency) *componentWithInjectConstructor {
	return &componentWithInjectConstructor{dependency: dependency}
}

func (c *componentWithInjectConstructor) Dependency() Dependency { return c.dependency }

func newDependencyWithInjectConstructor(value string) *dependencyWithInjectConstructor {
	return &dependencyWithInjectConstructor{value: value}
}

func (d *dependencyWithInjectConstructor) Value() string { return d.value }

func newDependencyDependedOnComponent(component Component) *dependencyDependedOnComponent {
	return &dependencyDependedOnComponent{component: component}
}

func (d *dependencyDependedOnComponent) Value() string { return "depends on component" }

func newAnotherDependencyDependOnComponent(component Component) *anotherDependencyDependOnComponent {
	return &anotherDependencyDependOnComponent{component: component}
}

func (d *anotherDependencyDependOnComponent) Other() string { return "depends on component" }

func newDependencyDependOnAnotherDependency(another AnotherDependency) *dependencyDependOnAnotherDependency {
	return &dependencyDependOnAnotherDependency{another: another}
}

func (d *dependencyDependOnAnotherDependency) Value() string { return d.another.Other() }

// field injection

type (
	ComponentWithFieldInjection struct {
		Dependency Dependency `inject:""`
	}

	SubclassWithFieldInjection struct {
		ComponentWithFieldInjection
	}

	componentWithPrivateField struct {
		dependency Dependency `inject:""`
	}
)

// method injection

type (
	InjectMethodWithNoDependency struct {
		Called bool
	}

	InjectMethodWithDependency struct {
		dependency Dependency
	}

	SuperClassWithInjectMethods struct {
		SuperCalled int
	}

	SubclassWithInjectMethod struct {
		SuperClassWithInjectMethods
		SubCalled int
	}

	SubclassOverrideSuperclassWithInject struct {
		SuperClassWithInjectMethods
	}

	SubclassOverrideSuperClassWithNoInject struct {
		SuperClassWithInjectMethods
	}

	// SubclassHidingInstallUndeclared hides Install, but is missing from testRegistry.
	SubclassHidingInstallUndeclared struct {
		SuperClassWithInjectMethods
	}

	InjectMethodFailing struct{}

	// OrderRoot mixes every kind of injection point.
	OrderRoot struct {
		OrderBase
		Root string `inject:""`
	}

	OrderBase struct {
		Base int `inject:""`
	}
)

func (c *InjectMethodWithNoDependency) Install() { c.Called = true }

func (c *InjectMethodWithDependency) Install(dependency Dependency) { c.dependency = dependency }

func (s *SuperClassWithInjectMethods) Install() { s.SuperCalled++ }

func (s *SubclassWithInjectMethod) InstallAnother() { s.SubCalled = s.SuperCalled + 1 }

func (s *SubclassOverrideSuperclassWithInject) Install() { s.SuperClassWithInjectMethods.Install() }

func (s *SubclassOverrideSuperClassWithNoInject) Install() { s.SuperClassWithInjectMethods.Install() }

func (s *SubclassHidingInstallUndeclared) Install() {}

func (f *InjectMethodFailing) Install() error { return errBoom }

func newOrderRoot(AnotherDependency) *OrderRoot { return &OrderRoot{} }

func (b *OrderBase) Setup(float64) {}

func (r *OrderRoot) Configure(Dependency) {}

// testRegistry is what cmd/generator would produce for the types above.
type testRegistry struct {
	EmptyRegistry
}

func (testRegistry) Register(m *Markers) {
	m.Inject(TypeOf[InjectMethodWithNoDependency](), "Install")
	m.Inject(TypeOf[InjectMethodWithDependency](), "Install")
	m.Inject(TypeOf[SuperClassWithInjectMethods](), "Install")
	m.Inject(TypeOf[SubclassWithInjectMethod](), "InstallAnother")
	m.Inject(TypeOf[SubclassOverrideSuperclassWithInject](), "Install")
	m.Declare(TypeOf[SubclassOverrideSuperClassWithNoInject](), "Install")
	m.Inject(TypeOf[InjectMethodFailing](), "Install")
	m.Inject(TypeOf[OrderBase](), "Setup")
	m.Inject(TypeOf[OrderRoot](), "Configure")
}

func newTestConfig() *ContextConfig {
	return NewContextConfig(WithRegistry(testRegistry{}))
}
