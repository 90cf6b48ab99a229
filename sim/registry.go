package sim

import (
	"sync"
)

// Registry keeps one handle per UDID so repeated requests share the resolved caches
type Registry struct {
	mu         sync.Mutex
	simulators map[string]*Simulator
	newSim     func(udid string) (*Simulator, error)
}

func NewRegistry(newSim func(udid string) (*Simulator, error)) *Registry {
	return &Registry{
		simulators: make(map[string]*Simulator),
		newSim:     newSim,
	}
}

func (r *Registry) Get(udid string) (*Simulator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.simulators[udid]; ok {
		return s, nil
	}

	s, err := r.newSim(udid)
	if err != nil {
		return nil, err
	}
	r.simulators[udid] = s
	return s, nil
}

// Forget drops the handle, the next Get builds a new one with empty caches
func (r *Registry) Forget(udid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.simulators, udid)
}
