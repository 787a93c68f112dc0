package event

import (
	"errors"
	"sync"
)

var (
	ErrNilHandler = errors.New("event handler is nil")
	ErrSealed     = errors.New("event registry is sealed")
)

// Registry keeps handlers in registration order. Several handlers may react to
// the same kind; they have no identity beyond the value itself.
type Registry struct {
	mu       sync.RWMutex
	handlers []Handler
	sealed   bool
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends h. It fails once the registry is sealed.
func (r *Registry) Register(h Handler) error {
	if h == nil {
		return ErrNilHandler
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return ErrSealed
	}
	r.handlers = append(r.handlers, h)
	return nil
}

func (r *Registry) MustRegister(h Handler) {
	if err := r.Register(h); err != nil {
		panic(err)
	}
}

// All returns a snapshot in registration order.
func (r *Registry) All() []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Handler, len(r.handlers))
	copy(out, r.handlers)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}
