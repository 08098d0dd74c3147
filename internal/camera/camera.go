// Package camera defines the renderer-agnostic camera record and the codec
// for the Open Inventor ("Coin") textual camera format.
//
// A camera is described by a placement (position + axis-angle rotation)
// applied to the default camera, which looks from (0,0,1) towards the origin
// with up direction (0,1,0). Orthographic cameras carry a view height,
// perspective cameras a height angle.
package camera

import "github.com/cadlabs/scenecast/internal/geom"

// Projection is the camera projection kind.
type Projection string

// Allowed projection values.
const (
	Perspective  Projection = "Perspective"
	Orthographic Projection = "Orthographic"
)

// ViewportMappings enumerates the allowed values for the ViewportMapping
// parameter (see Coin documentation). Keep the order: the relationship
// between values and indexes matters for transcoding against Coin.
var ViewportMappings = []string{
	"CROP_VIEWPORT_FILL_FRAME",
	"CROP_VIEWPORT_LINE_FRAME",
	"CROP_VIEWPORT_NO_FRAME",
	"ADJUST_CAMERA",
	"LEAVE_ALONE",
}

// Default values, matching the Coin camera defaults.
const (
	DefaultViewportMapping = "ADJUST_CAMERA"
	DefaultAspectRatio     = 1.0
	DefaultNearDistance    = 0.0
	DefaultFarDistance     = 200.0
	DefaultFocalDistance   = 100.0
	DefaultHeight          = 5.0
	DefaultHeightAngle     = 60.0
)

// Record is a snapshot of camera state. It is a plain value type: emitters
// never mutate it, and all angles (rotation and height angle) are stored in
// degrees. The wire format uses radians; the codec converts both ways.
type Record struct {
	Projection      Projection
	ViewportMapping string
	Placement       geom.Placement

	NearDistance  float64
	FarDistance   float64
	AspectRatio   float64
	FocalDistance float64

	// Height is the view height of an orthographic camera; HeightAngle is
	// the vertical field of view, in degrees, of a perspective camera.
	// Only the one selected by Projection is meaningful.
	Height      float64
	HeightAngle float64
}

// Default returns a perspective camera record with Coin default values,
// placed at the origin looking down the -Z axis.
func Default() Record {
	return Record{
		Projection:      Perspective,
		ViewportMapping: DefaultViewportMapping,
		Placement: geom.Placement{
			Rotation: geom.Rotation{Axis: geom.Vec3{Z: 1}},
		},
		NearDistance:  DefaultNearDistance,
		FarDistance:   DefaultFarDistance,
		AspectRatio:   DefaultAspectRatio,
		FocalDistance: DefaultFocalDistance,
		Height:        DefaultHeight,
		HeightAngle:   DefaultHeightAngle,
	}
}

// validProjection reports whether p is a member of the projection enumeration.
func validProjection(p Projection) bool {
	return p == Perspective || p == Orthographic
}

// validViewportMapping reports whether m is a member of the viewport mapping
// enumeration.
func validViewportMapping(m string) bool {
	for _, v := range ViewportMappings {
		if m == v {
			return true
		}
	}
	return false
}
