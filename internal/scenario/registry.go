package scenario

// Registry is the local table of registered entities. Registration order
// is preserved so pair enumeration and reports are deterministic. The
// registry is owned by a single Builder for the duration of a run and is
// not safe for concurrent use.
type Registry struct {
	order    []string
	entities map[string]*Entity
}

func NewRegistry() *Registry {
	return &Registry{entities: make(map[string]*Entity)}
}

// add inserts e, failing if the name is already taken.
func (r *Registry) add(e *Entity) error {
	if _, ok := r.entities[e.Name]; ok {
		return &DuplicateEntityError{Name: e.Name}
	}
	r.entities[e.Name] = e
	r.order = append(r.order, e.Name)
	return nil
}

// Get returns the entity registered under name.
func (r *Registry) Get(name string) (*Entity, error) {
	e, ok := r.entities[name]
	if !ok {
		return nil, &UnknownEntityError{Name: name}
	}
	return e, nil
}

// Len reports the number of registered entities.
func (r *Registry) Len() int { return len(r.order) }

// Entities returns all entities in registration order.
func (r *Registry) Entities() []*Entity {
	out := make([]*Entity, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entities[name])
	}
	return out
}

// ByKind returns the entities of one kind, in registration order.
func (r *Registry) ByKind(k Kind) []*Entity {
	var out []*Entity
	for _, name := range r.order {
		if e := r.entities[name]; e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}
