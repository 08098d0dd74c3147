// Package povray emits scenes in the POV-Ray scene description language.
package povray

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cadlabs/scenecast/internal/camera"
	"github.com/cadlabs/scenecast/internal/geom"
	"github.com/cadlabs/scenecast/internal/render"
	"github.com/cadlabs/scenecast/internal/scene"
)

// pointLightPowerScale converts host light power (watts) to the color
// multiplier POV-Ray light sources expect.
const pointLightPowerScale = 0.02

// areaLightSamples is the sampling grid of emitted area_light blocks.
const areaLightSamples = 4

type backend struct{}

func init() {
	render.Register(backend{})
}

func (backend) Name() string    { return "povray" }
func (backend) FileExt() string { return ".pov" }

// EmitCamera expresses the placement as location/look_at vectors; right is
// scaled by the aspect ratio so the frame is not distorted.
func (backend) EmitCamera(rec camera.Record) (string, error) {
	rot := rec.Placement.Rotation
	pos := rec.Placement.Position
	lookAt := pos.Add(rot.Apply(geom.Vec3{Z: -1}).Scale(rec.FocalDistance))
	up := rot.Apply(geom.Vec3{Y: 1})
	right := rot.Apply(geom.Vec3{X: 1}).Scale(rec.AspectRatio)

	var b strings.Builder
	b.WriteString("// Camera\ncamera {\n")
	if rec.Projection == camera.Orthographic {
		b.WriteString("    orthographic\n")
		fmt.Fprintf(&b, "    up <%s>\n", vecScaled(up, rec.Height))
		fmt.Fprintf(&b, "    right <%s>\n", vecScaled(right, rec.Height))
	} else {
		b.WriteString("    perspective\n")
		fmt.Fprintf(&b, "    up <%s>\n", vec(up))
		fmt.Fprintf(&b, "    right <%s>\n", vec(right))
		// angle is the horizontal field of view; the vertical height angle
		// maps to it through the tangent, not a plain aspect multiply.
		halfH := rec.HeightAngle * math.Pi / 360
		hfov := 2 * math.Atan(math.Tan(halfH)*rec.AspectRatio) * 180 / math.Pi
		fmt.Fprintf(&b, "    angle %s\n", ftoa(hfov))
	}
	fmt.Fprintf(&b, "    location <%s>\n", vec(pos))
	fmt.Fprintf(&b, "    look_at <%s>\n", vec(lookAt))
	b.WriteString("}\n")
	return b.String(), nil
}

func (backend) EmitPointLight(l *scene.PointLight) (string, error) {
	s := l.Power * pointLightPowerScale
	return fmt.Sprintf(`// Point light '%s'
light_source {
    <%s>
    color rgb <%s, %s, %s>
}
`,
		l.Name, vec(l.Position),
		ftoa(l.Color.R*s), ftoa(l.Color.G*s), ftoa(l.Color.B*s)), nil
}

// EmitAreaLight spans the light rectangle with the rotated unit X and Y
// axes scaled by the light's dimensions.
func (backend) EmitAreaLight(l *scene.AreaLight) (string, error) {
	rot := l.Placement.Rotation
	axisu := rot.Apply(geom.Vec3{X: 1}).Scale(l.SizeU)
	axisv := rot.Apply(geom.Vec3{Y: 1}).Scale(l.SizeV)
	s := l.Power * pointLightPowerScale

	return fmt.Sprintf(`// Area light '%s'
light_source {
    <%s>
    color rgb <%s, %s, %s>
    area_light <%s>, <%s>, %d, %d
    adaptive 1
    jitter
}
`,
		l.Name, vec(l.Placement.Position),
		ftoa(l.Color.R*s), ftoa(l.Color.G*s), ftoa(l.Color.B*s),
		vec(axisu), vec(axisv),
		areaLightSamples, areaLightSamples), nil
}

// EmitSunSkyLight approximates the sky with a gradient sky_sphere: POV-Ray
// has no built-in Hosek-Wilkie model. Only the sky is emitted, not the sun
// disc.
func (backend) EmitSunSkyLight(l *scene.SunSkyLight) (string, error) {
	if l.Direction.IsZero() {
		return "", &render.PreconditionError{
			Op:     "povray sunsky light",
			Reason: "sun direction must have non-zero length",
		}
	}
	dir := l.Direction.Normalize()
	// Haze widens and brightens the horizon band with turbidity.
	haze := l.Turbidity / 10
	return fmt.Sprintf(`// Sun-sky light '%s'
sky_sphere {
    pigment {
        gradient z
        color_map {
            [0.0  color rgb <%s, %s, %s>]
            [0.75 color rgb <0.3, 0.4, 0.8>]
            [1.0  color rgb <0.1, 0.2, 0.6>]
        }
        scale 2
        translate <%s>
    }
}
`,
		l.Name,
		ftoa(0.8+haze), ftoa(0.85+haze), ftoa(0.95),
		vec(dir.Scale(-1))), nil
}

// EmitImageLight fails: this emitter has no construct for image-based
// environment lighting.
func (b backend) EmitImageLight(l *scene.ImageLight) (string, error) {
	return "", &render.UnsupportedFeatureError{
		Backend: b.Name(),
		Feature: "image-based lighting",
	}
}

// EmitMesh writes a mesh2 block. An opaque material uses an rgb pigment; a
// transparent one switches to rgbt with the transmit channel set, which is
// a different pigment form, not an extra parameter.
func (backend) EmitMesh(m *scene.Mesh) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "// Object '%s'\n#declare %s = mesh2 {\n", m.Name, m.Name)

	fmt.Fprintf(&b, "    vertex_vectors {\n        %d", len(m.Points))
	for _, p := range m.Points {
		fmt.Fprintf(&b, ",\n        <%s>", vec(p))
	}
	b.WriteString("\n    }\n")

	fmt.Fprintf(&b, "    face_indices {\n        %d", len(m.Facets))
	for _, f := range m.Facets {
		fmt.Fprintf(&b, ",\n        <%d, %d, %d>", f[0], f[1], f[2])
	}
	b.WriteString("\n    }\n")

	c := m.Material.Diffuse
	if alpha := m.Material.Alpha; alpha < 1 {
		fmt.Fprintf(&b, "    pigment { color rgbt <%s, %s, %s, %s> }\n",
			ftoa(c.R), ftoa(c.G), ftoa(c.B), ftoa(1-alpha))
	} else {
		fmt.Fprintf(&b, "    pigment { color rgb <%s, %s, %s> }\n",
			ftoa(c.R), ftoa(c.G), ftoa(c.B))
	}
	b.WriteString("}\n")
	fmt.Fprintf(&b, "object { %s }\n", m.Name)
	return b.String(), nil
}

// RenderArgs builds the POV-Ray command line; -D suppresses the preview
// display for headless rendering.
func (backend) RenderArgs(sceneFile string, job *scene.Job, external bool) []string {
	args := []string{
		"+I" + sceneFile,
		"+O" + job.Output,
		"+W" + strconv.Itoa(job.Width),
		"+H" + strconv.Itoa(job.Height),
	}
	if !external {
		args = append(args, "-D")
	}
	return args
}

func vec(v geom.Vec3) string {
	return fmt.Sprintf("%s, %s, %s", ftoa(v.X), ftoa(v.Y), ftoa(v.Z))
}

func vecScaled(v geom.Vec3, s float64) string {
	return vec(v.Scale(s))
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
