package service

type Mailer struct{}

// @inject
func (m *Mailer) Connect() {}
