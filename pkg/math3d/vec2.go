package math3d

// Vec2 holds texture coordinates, barycentric weights and NDC positions.
type Vec2 struct {
	X, Y float64
}

func V2(x, y float64) Vec2 { return Vec2{x, y} }

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }

func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }

// Scale multiplies both components; UV interpolation weights go through it.
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
