package breaker

import (
	"sort"
	"sync"
	"time"
)

// Registry holds one breaker per dependency, created lazily with shared
// threshold and cooldown settings. Owned by the composition root and passed
// by reference; never an ambient singleton.
type Registry struct {
	threshold int
	cooldown  time.Duration
	onChange  func(name string, from, to State)

	mu       sync.RWMutex
	breakers map[string]*Breaker
}

// NewRegistry creates an empty registry.
func NewRegistry(threshold int, cooldown time.Duration) *Registry {
	return &Registry{
		threshold: threshold,
		cooldown:  cooldown,
		breakers:  make(map[string]*Breaker),
	}
}

// WithOnChange registers a transition callback applied to every breaker
// created afterwards. Must be called before Get.
func (r *Registry) WithOnChange(fn func(name string, from, to State)) *Registry {
	r.onChange = fn
	return r
}

// Get returns the breaker for a dependency, creating it on first use.
func (r *Registry) Get(name string) *Breaker {
	r.mu.RLock()
	b, ok := r.breakers[name]
	r.mu.RUnlock()
	if ok {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok = r.breakers[name]; ok {
		return b
	}
	b = New(name, r.threshold, r.cooldown)
	if r.onChange != nil {
		name := name
		b.WithOnChange(func(from, to State) { r.onChange(name, from, to) })
	}
	r.breakers[name] = b
	return b
}

// Snapshot returns the status of every registered breaker, sorted by name.
func (r *Registry) Snapshot() []Status {
	r.mu.RLock()
	statuses := make([]Status, 0, len(r.breakers))
	for _, b := range r.breakers {
		statuses = append(statuses, b.Snapshot())
	}
	r.mu.RUnlock()

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}
