package registry

type Service struct {
	Ready bool
}

// Init prepares the service.
//
// @inject
func (s *Service) Init() {
	s.Ready = true
}

func (s *Service) Close() {}

type cache struct{}

// @inject
func (c *cache) Warmup() {}

// @inject
func (c *cache) flush() {}
