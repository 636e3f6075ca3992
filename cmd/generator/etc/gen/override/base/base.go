package base

type Base struct {
	Calls int
	Name  string
}

// @inject
func (b *Base) Install() {
	b.Calls++
}

// Setup names the component.
// @inject
func (b *Base) Setup(name string) {
	b.Name = name
}
