// Package luxcore emits scenes in the LuxCore properties format (.scn).
//
// The grammar is the flat "scene.<object>.<prop> = <values>" property list
// consumed by luxcoreconsole and luxcoreui.
package luxcore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cadlabs/scenecast/internal/camera"
	"github.com/cadlabs/scenecast/internal/geom"
	"github.com/cadlabs/scenecast/internal/render"
	"github.com/cadlabs/scenecast/internal/scene"
)

// pointLightPowerScale converts host light power to the gain LuxCore
// applies to point light emission.
const pointLightPowerScale = 1.0

// areaLightGainScale converts host power to emission gain for the emissive
// rectangle standing in for an area light.
const areaLightGainScale = 1.0

type backend struct{}

func init() {
	render.Register(backend{})
}

func (backend) Name() string    { return "luxcore" }
func (backend) FileExt() string { return ".scn" }

// EmitCamera expresses the placement as a look-at: the target sits at focal
// distance along the rotated -Z axis, the up vector is the rotated +Y axis.
func (backend) EmitCamera(rec camera.Record) (string, error) {
	rot := rec.Placement.Rotation
	pos := rec.Placement.Position
	target := pos.Add(rot.Apply(geom.Vec3{Z: -1}).Scale(rec.FocalDistance))
	up := rot.Apply(geom.Vec3{Y: 1})

	var b strings.Builder
	fmt.Fprintf(&b, "# Camera\n")
	if rec.Projection == camera.Orthographic {
		halfW := rec.Height * rec.AspectRatio / 2
		halfH := rec.Height / 2
		fmt.Fprintf(&b, "scene.camera.type = \"orthographic\"\n")
		fmt.Fprintf(&b, "scene.camera.screenwindow = %s %s %s %s\n",
			ftoa(-halfW), ftoa(halfW), ftoa(-halfH), ftoa(halfH))
	} else {
		fmt.Fprintf(&b, "scene.camera.type = \"perspective\"\n")
		fmt.Fprintf(&b, "scene.camera.fieldofview = %s\n", ftoa(rec.HeightAngle))
	}
	fmt.Fprintf(&b, "scene.camera.lookat.orig = %s\n", vec(pos))
	fmt.Fprintf(&b, "scene.camera.lookat.target = %s\n", vec(target))
	fmt.Fprintf(&b, "scene.camera.up = %s\n", vec(up))
	return b.String(), nil
}

func (backend) EmitPointLight(l *scene.PointLight) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# Point light '%s'\n", l.Name)
	fmt.Fprintf(&b, "scene.lights.%s.type = \"point\"\n", l.Name)
	fmt.Fprintf(&b, "scene.lights.%s.position = %s\n", l.Name, vec(l.Position))
	fmt.Fprintf(&b, "scene.lights.%s.color = %s %s %s\n",
		l.Name, ftoa(l.Color.R), ftoa(l.Color.G), ftoa(l.Color.B))
	fmt.Fprintf(&b, "scene.lights.%s.power = %s\n",
		l.Name, ftoa(l.Power*pointLightPowerScale))
	return b.String(), nil
}

// EmitAreaLight builds an emissive rectangle mesh: LuxCore has no
// standalone area light primitive in the scene grammar.
func (backend) EmitAreaLight(l *scene.AreaLight) (string, error) {
	rot := l.Placement.Rotation
	axisu := rot.Apply(geom.Vec3{X: 1})
	axisv := rot.Apply(geom.Vec3{Y: 1})
	pos := l.Placement.Position

	halfU := axisu.Scale(l.SizeU / 2)
	halfV := axisv.Scale(l.SizeV / 2)
	corners := []geom.Vec3{
		pos.Sub(halfU).Sub(halfV),
		pos.Add(halfU).Sub(halfV),
		pos.Add(halfU).Add(halfV),
		pos.Sub(halfU).Add(halfV),
	}

	// Materials and objects share one key namespace with meshes; the suffix
	// keeps the light from colliding with a mesh of the same name.
	key := l.Name + "_light"

	gain := l.Power * areaLightGainScale
	var b strings.Builder
	fmt.Fprintf(&b, "# Area light '%s'\n", l.Name)
	fmt.Fprintf(&b, "scene.materials.%s.type = \"matte\"\n", key)
	fmt.Fprintf(&b, "scene.materials.%s.kd = 0 0 0\n", key)
	fmt.Fprintf(&b, "scene.materials.%s.emission = %s %s %s\n",
		key, ftoa(l.Color.R*gain), ftoa(l.Color.G*gain), ftoa(l.Color.B*gain))
	verts := make([]string, len(corners))
	for i, c := range corners {
		verts[i] = vec(c)
	}
	fmt.Fprintf(&b, "scene.objects.%s.material = \"%s\"\n", key, key)
	fmt.Fprintf(&b, "scene.objects.%s.vertices = %s\n", key, strings.Join(verts, " "))
	fmt.Fprintf(&b, "scene.objects.%s.faces = 0 1 2 0 2 3\n", key)
	return b.String(), nil
}

func (backend) EmitSunSkyLight(l *scene.SunSkyLight) (string, error) {
	if l.Direction.IsZero() {
		return "", &render.PreconditionError{
			Op:     "luxcore sunsky light",
			Reason: "sun direction must have non-zero length",
		}
	}
	dir := l.Direction.Normalize()
	var b strings.Builder
	fmt.Fprintf(&b, "# Sun-sky light '%s'\n", l.Name)
	fmt.Fprintf(&b, "scene.lights.%s.type = \"sky2\"\n", l.Name)
	fmt.Fprintf(&b, "scene.lights.%s.dir = %s\n", l.Name, vec(dir))
	fmt.Fprintf(&b, "scene.lights.%s.turbidity = %s\n", l.Name, ftoa(l.Turbidity))
	return b.String(), nil
}

func (backend) EmitImageLight(l *scene.ImageLight) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# Image light '%s'\n", l.Name)
	fmt.Fprintf(&b, "scene.lights.%s.type = \"infinite\"\n", l.Name)
	fmt.Fprintf(&b, "scene.lights.%s.file = \"%s\"\n", l.Name, l.File)
	return b.String(), nil
}

// EmitMesh writes a matte material then the inlined geometry. The
// transparency property is emitted only for alpha < 1; a fully opaque
// material must not carry it at all.
func (backend) EmitMesh(m *scene.Mesh) (string, error) {
	var b strings.Builder
	c := m.Material.Diffuse
	fmt.Fprintf(&b, "# Object '%s'\n", m.Name)
	fmt.Fprintf(&b, "scene.materials.%s.type = \"matte\"\n", m.Name)
	fmt.Fprintf(&b, "scene.materials.%s.kd = %s %s %s\n",
		m.Name, ftoa(c.R), ftoa(c.G), ftoa(c.B))
	if m.Material.Alpha < 1 {
		fmt.Fprintf(&b, "scene.materials.%s.transparency = %s\n",
			m.Name, ftoa(m.Material.Alpha))
	}

	verts := make([]string, len(m.Points))
	for i, p := range m.Points {
		verts[i] = vec(p)
	}
	faces := make([]string, len(m.Facets))
	for i, f := range m.Facets {
		faces[i] = fmt.Sprintf("%d %d %d", f[0], f[1], f[2])
	}
	fmt.Fprintf(&b, "scene.objects.%s.material = \"%s\"\n", m.Name, m.Name)
	fmt.Fprintf(&b, "scene.objects.%s.vertices = %s\n", m.Name, strings.Join(verts, " "))
	fmt.Fprintf(&b, "scene.objects.%s.faces = %s\n", m.Name, strings.Join(faces, " "))
	return b.String(), nil
}

// RenderArgs overrides film size and output on the command line; everything
// else is expected from the configured default parameters.
func (backend) RenderArgs(sceneFile string, job *scene.Job, external bool) []string {
	return []string{
		"-s", sceneFile,
		"-D", "film.width", strconv.Itoa(job.Width),
		"-D", "film.height", strconv.Itoa(job.Height),
		"-D", "film.outputs.0.type", "RGB_IMAGEPIPELINE",
		"-D", "film.outputs.0.filename", job.Output,
	}
}

func vec(v geom.Vec3) string {
	return fmt.Sprintf("%s %s %s", ftoa(v.X), ftoa(v.Y), ftoa(v.Z))
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
