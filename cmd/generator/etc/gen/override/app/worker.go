package app

type worker struct{}

// @inject
func (w *worker) Start() {}

type Pool[T any] struct{}

// @inject
func (p *Pool[T]) Fill() {}
