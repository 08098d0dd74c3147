// Package cycles emits scenes in the XML dialect of Cycles standalone.
//
// Cycles standalone is mostly undocumented; the grammar here follows the
// xml_read_* functions in src/app/cycles_xml.cpp of the Cycles source and
// the examples shipped with it.
package cycles

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cadlabs/scenecast/internal/camera"
	"github.com/cadlabs/scenecast/internal/geom"
	"github.com/cadlabs/scenecast/internal/render"
	"github.com/cadlabs/scenecast/internal/scene"
)

// pointLightPowerScale converts host light power (watts) to the emission
// strength Cycles expects for point and area lights.
const pointLightPowerScale = 100

type backend struct{}

func init() {
	render.Register(backend{})
}

func (backend) Name() string    { return "cycles" }
func (backend) FileExt() string { return ".xml" }

// EmitCamera wraps the camera node in a transform. Cycles rotation is
// "angle(deg) x y z"; the depth axis scale is -1 to compensate the
// handedness mismatch between the host convention and Cycles.
func (backend) EmitCamera(rec camera.Record) (string, error) {
	camType := "perspective"
	if rec.Projection == camera.Orthographic {
		camType = "orthographic"
	}
	rot := rec.Placement.Rotation
	pos := rec.Placement.Position
	return fmt.Sprintf(`
    <!-- Camera -->
    <transform rotate="%s %s %s %s"
               translate="%s %s %s"
               scale="1 1 -1">
        <camera type="%s"/>
    </transform>
`,
		ftoa(rot.Angle), ftoa(rot.Axis.X), ftoa(rot.Axis.Y), ftoa(rot.Axis.Z),
		ftoa(pos.X), ftoa(pos.Y), ftoa(pos.Z),
		camType), nil
}

func (backend) EmitPointLight(l *scene.PointLight) (string, error) {
	return fmt.Sprintf(`
    <!-- Pointlight '%[1]s' -->
    <shader name="%[1]s_shader">
        <emission name="%[1]s_emit"
                  color="%[2]s %[3]s %[4]s"
                  strength="%[5]s"/>
        <connect from="%[1]s_emit emission"
                 to="output surface"/>
    </shader>
    <state shader="%[1]s_shader">
        <light type="point"
               co="%[6]s %[7]s %[8]s"
               strength="1 1 1"/>
    </state>
`,
		l.Name,
		ftoa(l.Color.R), ftoa(l.Color.G), ftoa(l.Color.B),
		ftoa(l.Power*pointLightPowerScale),
		ftoa(l.Position.X), ftoa(l.Position.Y), ftoa(l.Position.Z)), nil
}

// EmitAreaLight derives the in-plane axes by rotating the unit X and Y axes
// by the light orientation; the facing direction is their cross product.
// All three are passed to Cycles verbatim, without renormalization.
func (backend) EmitAreaLight(l *scene.AreaLight) (string, error) {
	rot := l.Placement.Rotation
	axisu := rot.Apply(geom.Vec3{X: 1})
	axisv := rot.Apply(geom.Vec3{Y: 1})
	direction := axisu.Cross(axisv)
	pos := l.Placement.Position

	return fmt.Sprintf(`
    <!-- Area light '%[1]s' -->
    <shader name="%[1]s_shader">
        <emission name="%[1]s_emit"
                  color="%[2]s %[3]s %[4]s"
                  strength="%[5]s"/>
        <connect from="%[1]s_emit emission"
                 to="output surface"/>
    </shader>
    <state shader="%[1]s_shader">
        <light type="area"
               co="%[6]s %[7]s %[8]s"
               strength="1 1 1"
               axisu="%[9]s %[10]s %[11]s"
               axisv="%[12]s %[13]s %[14]s"
               sizeu="%[15]s"
               sizev="%[16]s"
               size="1"
               dir="%[17]s %[18]s %[19]s" />
    </state>
`,
		l.Name,
		ftoa(l.Color.R), ftoa(l.Color.G), ftoa(l.Color.B),
		ftoa(l.Power*pointLightPowerScale),
		ftoa(pos.X), ftoa(pos.Y), ftoa(pos.Z),
		ftoa(axisu.X), ftoa(axisu.Y), ftoa(axisu.Z),
		ftoa(axisv.X), ftoa(axisv.Y), ftoa(axisv.Z),
		ftoa(l.SizeU), ftoa(l.SizeV),
		ftoa(direction.X), ftoa(direction.Y), ftoa(direction.Z)), nil
}

// EmitSunSkyLight models only the sky component as a Hosek-Wilkie sky
// texture; the sun disc itself is not emitted (known limitation).
func (backend) EmitSunSkyLight(l *scene.SunSkyLight) (string, error) {
	if l.Direction.IsZero() {
		return "", &render.PreconditionError{
			Op:     "cycles sunsky light",
			Reason: "sun direction must have non-zero length",
		}
	}
	dir := l.Direction.Normalize()
	return fmt.Sprintf(`
    <!-- Sun-sky light '%s' -->
    <background name="sky_bg">
          <background name="sky_bg" />
          <sky_texture name="sky_tex"
                       type="hosek_wilkie"
                       turbidity="%s"
                       sun_direction="%s, %s, %s" />
          <connect from="sky_tex color" to="sky_bg color" />
          <connect from="sky_bg background" to="output surface" />
    </background>
`,
		l.Name, ftoa(l.Turbidity), ftoa(dir.X), ftoa(dir.Y), ftoa(dir.Z)), nil
}

func (backend) EmitImageLight(l *scene.ImageLight) (string, error) {
	return fmt.Sprintf(`
    <!-- Image light '%[1]s' -->
    <background name="world_bg">
          <background name="world_bg" />
          <environment_texture name="world_tex"
                               filename="%[2]s" />
          <connect from="world_tex color" to="world_bg color" />
          <connect from="world_bg background" to="output surface" />
    </background>
`, l.Name, l.File), nil
}

// EmitMesh writes the shader then the geometry bound to it. An opaque
// material (alpha == 1) connects the diffuse BSDF straight to the output;
// a transparent one mixes a transparent BSDF in via a mix closure, which is
// a structurally different node graph, not a parameter toggle.
func (backend) EmitMesh(m *scene.Mesh) (string, error) {
	var b strings.Builder

	c := m.Material.Diffuse
	fmt.Fprintf(&b, `
    <!-- Object '%[1]s' -->
    <shader name="%[1]s_mat">
        <diffuse_bsdf name="%[1]s_bsdf" color="%[2]s, %[3]s, %[4]s"/>`,
		m.Name, ftoa(c.R), ftoa(c.G), ftoa(c.B))

	if alpha := m.Material.Alpha; alpha < 1 {
		fmt.Fprintf(&b, `
        <transparent_bsdf name="%[1]s_trans" color="1.0, 1.0, 1.0"/>
        <mix_closure name="%[1]s_mix" fac="%[2]s"/>
        <connect from="%[1]s_trans bsdf"  to="%[1]s_mix closure1"/>
        <connect from="%[1]s_bsdf bsdf"   to="%[1]s_mix closure2"/>
        <connect from="%[1]s_mix closure" to="output surface"/>
    </shader>`, m.Name, ftoa(alpha))
	} else {
		fmt.Fprintf(&b, `
        <connect from="%[1]s_bsdf bsdf"   to="output surface"/>
    </shader>`, m.Name)
	}

	points := make([]string, len(m.Points))
	for i, p := range m.Points {
		points[i] = fmt.Sprintf("%s %s %s", ftoa(p.X), ftoa(p.Y), ftoa(p.Z))
	}
	verts := make([]string, len(m.Facets))
	nverts := make([]string, len(m.Facets))
	for i, f := range m.Facets {
		verts[i] = fmt.Sprintf("%d %d %d", f[0], f[1], f[2])
		nverts[i] = "3"
	}

	fmt.Fprintf(&b, `
    <state shader="%s_mat">
        <mesh P="%s"
              nverts="%s"
              verts="%s"/>
    </state>
`,
		m.Name,
		strings.Join(points, "  "),
		strings.Join(nverts, "  "),
		strings.Join(verts, "  "))

	return b.String(), nil
}

// RenderArgs builds the cycles_standalone command line. --background keeps
// the renderer headless unless the interactive viewer was requested.
func (backend) RenderArgs(sceneFile string, job *scene.Job, external bool) []string {
	args := []string{"--output", job.Output}
	if !external {
		args = append(args, "--background")
	}
	args = append(args,
		"--width", strconv.Itoa(job.Width),
		"--height", strconv.Itoa(job.Height),
		sceneFile)
	return args
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
