package service

type Printer struct{}

// @inject
func (p *Printer) Warmup() {}
