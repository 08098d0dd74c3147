package geom

import "math"

// Rotation is an axis-angle rotation. The angle is in degrees; the axis
// does not need to be normalized, except that it must be non-degenerate
// when the angle is non-zero.
type Rotation struct {
	Axis  Vec3
	Angle float64
}

// Apply rotates v by r using the Rodrigues formula.
func (r Rotation) Apply(v Vec3) Vec3 {
	if r.Angle == 0 {
		return v
	}
	k := r.Axis.Normalize()
	theta := r.Angle * math.Pi / 180
	cos := math.Cos(theta)
	sin := math.Sin(theta)

	// v*cos + (k x v)*sin + k*(k.v)*(1-cos)
	term1 := v.Scale(cos)
	term2 := k.Cross(v).Scale(sin)
	term3 := k.Scale(k.Dot(v) * (1 - cos))
	return term1.Add(term2).Add(term3)
}

// Placement combines a position and an orientation, describing the pose
// of a camera or light in world space.
type Placement struct {
	Position Vec3
	Rotation Rotation
}
