package vis

func (s *System) linkWithBSP() bool {
	if !s.hasBSP {
		return false
	}
	switch s.opts.LinkMode {
	case LinkBounds:
		return false
	case LinkBSP:
		return true
	default:
		return s.AreaCount() > s.opts.SmallLevelAreas
	}
}

// link attaches p to every area its current shape overlaps.
func (s *System) link(p *Primitive) {
	var shape overlapShape
	if p.Kind == ShapeSphere {
		shape = overlapShape{sphere: p.Sphere, isSphere: true}
	} else {
		shape = overlapShape{box: p.Box}
	}

	s.scratch = s.queryOverlapAreas(&shape, s.scratch[:0], s.linkWithBSP())
	for _, a := range s.scratch {
		p.links = append(p.links, areaLink{area: a, slot: len(a.prims)})
		a.prims = append(a.prims, p)
	}
	clear(s.scratch)
}

// unlink detaches p from all its areas. Area lists are unordered; the last
// entry fills the hole and has its slot updated.
func (s *System) unlink(p *Primitive) {
	for _, l := range p.links {
		a := l.area
		if l.slot >= len(a.prims) || a.prims[l.slot] != p {
			panic("vis: area link does not point back to its primitive")
		}

		last := len(a.prims) - 1
		moved := a.prims[last]
		a.prims[l.slot] = moved
		if moved != p {
			moved.setSlot(a, l.slot)
		}
		a.prims[last] = nil
		a.prims = a.prims[:last]
	}
	p.links = p.links[:0]
}

func (p *Primitive) setSlot(a *Area, slot int) {
	for i := range p.links {
		if p.links[i].area == a {
			p.links[i].slot = slot
			return
		}
	}
}
