package vis

// AllocatePrimitive takes a fresh primitive from the pool. It is not part
// of any query until AddPrimitive. The pool only fails by running out of
// memory, which is fatal.
func (s *System) AllocatePrimitive() *Primitive {
	p := s.pool.get()
	p.QueryGroup = QueryDefault
	p.VisGroup = VisibilityDefault
	return p
}

// AddPrimitive registers p and queues it for the next link pass.
func (s *System) AddPrimitive(p *Primitive) {
	if !s.pool.owns(p) {
		panic("vis: primitive was not allocated by this system")
	}
	if p.state != primAllocated {
		panic("vis: primitive added twice")
	}

	p.state = primRegistered
	p.index = len(s.prims)
	s.prims = append(s.prims, p)
	s.MarkPrimitive(p)
}

// RemovePrimitive unlinks p from every area, drops it from the registry and
// returns it to the pool. p must not be used afterwards. Removing an
// allocated primitive that was never added just frees it.
func (s *System) RemovePrimitive(p *Primitive) {
	if !s.pool.owns(p) {
		panic("vis: primitive was not allocated by this system")
	}
	if p.state == primFree {
		panic("vis: primitive removed twice")
	}

	s.unlink(p)

	if p.state == primRegistered {
		last := len(s.prims) - 1
		moved := s.prims[last]
		s.prims[p.index] = moved
		moved.index = p.index
		s.prims[last] = nil
		s.prims = s.prims[:last]

		if p.pending {
			s.dropPending(p)
		}
	}

	s.pool.put(p)
}

func (s *System) dropPending(p *Primitive) {
	for i, q := range s.dirty {
		if q == p {
			copy(s.dirty[i:], s.dirty[i+1:])
			s.dirty[len(s.dirty)-1] = nil
			s.dirty = s.dirty[:len(s.dirty)-1]
			return
		}
	}
}

// MarkPrimitive queues p for relinking. Marking a primitive that is
// already queued, or not registered, does nothing.
func (s *System) MarkPrimitive(p *Primitive) {
	if p.state != primRegistered || p.pending {
		return
	}
	p.pending = true
	s.dirty = append(s.dirty, p)
}

// MarkPrimitives queues every registered primitive for relinking.
func (s *System) MarkPrimitives() {
	for _, p := range s.prims {
		s.MarkPrimitive(p)
	}
}

// UpdatePrimitiveLinks relinks every queued primitive against its current
// bounds, in the order they were queued, and returns how many it processed.
// Queries only see bounds changes after this has run.
func (s *System) UpdatePrimitiveLinks() int {
	n := len(s.dirty)
	for _, p := range s.dirty {
		p.pending = false
		s.unlink(p)
		s.link(p)
	}
	clear(s.dirty)
	s.dirty = s.dirty[:0]
	return n
}

// PrimitiveCount returns the number of registered primitives.
func (s *System) PrimitiveCount() int {
	return len(s.prims)
}

// Primitives returns the registered primitives. The slice is owned by the
// system and must not be modified.
func (s *System) Primitives() []*Primitive {
	return s.prims
}

// PendingCount returns the number of primitives waiting for a link pass.
func (s *System) PendingCount() int {
	return len(s.dirty)
}
