package vis

// QueryGroup tags a primitive with the kinds of query it takes part in.
type QueryGroup uint32

// Query groups. A primitive usually carries one of each Visible/Invisible
// pair plus one shadow bit.
const (
	QueryVisible QueryGroup = 1 << iota
	QueryInvisible
	QueryVisibleInLightPass
	QueryInvisibleInLightPass
	QueryShadowCast
	QueryNoShadowCast

	// QueryDefault is the group set a plain visible, shadow casting object gets.
	QueryDefault = QueryVisible | QueryVisibleInLightPass | QueryShadowCast
)

// VisibilityGroup is a user bitmask partitioning primitives into layers.
type VisibilityGroup uint32

// Visibility groups.
const (
	VisibilityDefault VisibilityGroup = 1
	VisibilityAll     VisibilityGroup = ^VisibilityGroup(0)
)

// Filter selects the primitives a query considers.
//
// A primitive passes when it carries every bit of QueryMask and at least one
// bit of VisibilityMask.
type Filter struct {
	VisibilityMask VisibilityGroup
	QueryMask      QueryGroup
	SortByDistance bool
}

// DefaultFilter accepts visible primitives in every visibility group and
// sorts results by distance. Shadow-caster-only primitives (QueryInvisible)
// are excluded.
func DefaultFilter() Filter {
	return Filter{
		VisibilityMask: VisibilityAll,
		QueryMask:      QueryVisible,
		SortByDistance: true,
	}
}

// Accept reports whether p passes the filter.
func (f *Filter) Accept(p *Primitive) bool {
	return p.QueryGroup&f.QueryMask == f.QueryMask && p.VisGroup&f.VisibilityMask != 0
}

func filterOrDefault(f *Filter) *Filter {
	if f != nil {
		return f
	}
	d := DefaultFilter()
	return &d
}
