package user

import "sync"

// Registry is a concurrent-safe store of users keyed by name.
type Registry struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{users: make(map[string]*User)}
}

// Add registers the user unless the name is already taken; the first
// writer wins. Reports whether the user was added.
func (r *Registry) Add(u *User) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Name]; ok {
		return false
	}
	r.users[u.Name] = u
	return true
}

// Get returns the user with the given name, or nil when absent.
func (r *Registry) Get(name string) *User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[name]
}

// All returns a point-in-time snapshot of every registered user, safe to
// iterate while the registry keeps mutating.
func (r *Registry) All() []*User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out
}

// Len returns the number of registered users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
