package render

import (
	"math"

	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
	"github.com/taigrr/portalvis/pkg/vis"
)

// Camera is a first-person viewpoint: a position, yaw and pitch in radians,
// and a perspective lens. Yaw 0 looks down -Z and positive yaw turns left.
type Camera struct {
	Position   math3d.Vec3
	Pitch, Yaw float64
	Lens       Lens
}

// Lens describes the perspective projection.
type Lens struct {
	FOV    float64 // vertical, radians
	Aspect float64 // width / height
	Near   float64
	Far    float64
}

// NewCamera creates a camera at the origin with a 60 degree 16:9 lens.
func NewCamera() *Camera {
	return &Camera{Lens: Lens{FOV: math.Pi / 3, Aspect: 16.0 / 9.0, Near: 0.1, Far: 1000}}
}

// Forward is the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	sy, cy := math.Sincos(c.Yaw)
	sp, cp := math.Sincos(c.Pitch)
	return math3d.V3(-sy*cp, sp, -cy*cp)
}

// Right is the unit strafe direction. It stays horizontal.
func (c *Camera) Right() math3d.Vec3 {
	sy, cy := math.Sincos(c.Yaw)
	return math3d.V3(cy, 0, -sy)
}

// ViewMatrix maps world space to camera space.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return math3d.RotateX(-c.Pitch).
		Mul(math3d.RotateY(-c.Yaw)).
		Mul(math3d.Translate(c.Position.Negate()))
}

func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	return math3d.Perspective(c.Lens.FOV, c.Lens.Aspect, c.Lens.Near, c.Lens.Far)
}

// ViewProjectionMatrix is projection * view: world space to clip space.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// View returns the viewpoint of a visibility query from this camera.
func (c *Camera) View() vis.View {
	return vis.NewView(c.Position, c.ViewProjectionMatrix())
}

// Frustum returns the six world-space view planes.
func (c *Camera) Frustum() geom.Frustum {
	return geom.NewFrustumFromMatrix(c.ViewProjectionMatrix())
}

// Move walks along the view direction, strafes right and rises along
// world up, in that order.
func (c *Camera) Move(forward, right, up float64) {
	c.Position = c.Position.
		Add(c.Forward().Scale(forward)).
		Add(c.Right().Scale(right)).
		Add(math3d.Up().Scale(up))
}

// maxPitch keeps the view off the poles, where yaw is undefined.
const maxPitch = math.Pi/2 - 0.01

// SetRotation sets yaw and pitch, clamping pitch.
func (c *Camera) SetRotation(pitch, yaw float64) {
	c.Pitch = min(max(pitch, -maxPitch), maxPitch)
	c.Yaw = math.Remainder(yaw, 2*math.Pi)
}

// Turn adds to pitch and yaw.
func (c *Camera) Turn(dPitch, dYaw float64) {
	c.SetRotation(c.Pitch+dPitch, c.Yaw+dYaw)
}

// LookAt turns the camera towards target.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.SetRotation(math.Asin(dir.Y), math.Atan2(-dir.X, -dir.Z))
}

// ndcToScreen maps NDC to pixels with Y pointing down.
func ndcToScreen(nx, ny float64, width, height int) (x, y float64) {
	return (nx + 1) * 0.5 * float64(width), (1 - ny) * 0.5 * float64(height)
}
