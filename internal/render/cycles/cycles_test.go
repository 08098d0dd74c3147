package cycles

import (
	"errors"
	"strings"
	"testing"

	"github.com/cadlabs/scenecast/internal/camera"
	"github.com/cadlabs/scenecast/internal/geom"
	"github.com/cadlabs/scenecast/internal/render"
	"github.com/cadlabs/scenecast/internal/scene"
)

func testMesh(alpha float64) *scene.Mesh {
	return &scene.Mesh{
		Name: "box",
		Points: []geom.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Facets:   [][3]int{{0, 1, 2}},
		Material: scene.Material{Diffuse: scene.Color{R: 0.8, G: 0.2, B: 0.2}, Alpha: alpha},
	}
}

func TestEmitMeshOpaque(t *testing.T) {
	text, err := backend{}.EmitMesh(testMesh(1.0))
	if err != nil {
		t.Fatalf("EmitMesh failed: %v", err)
	}

	// A fully opaque material is a two-node graph: no mix, no transparency.
	for _, construct := range []string{"transparent_bsdf", "mix_closure"} {
		if strings.Contains(text, construct) {
			t.Errorf("opaque mesh must not emit %s:\n%s", construct, text)
		}
	}
	if !strings.Contains(text, `<diffuse_bsdf name="box_bsdf" color="0.8, 0.2, 0.2"/>`) {
		t.Errorf("missing diffuse bsdf:\n%s", text)
	}
	if !strings.Contains(text, `<connect from="box_bsdf bsdf"   to="output surface"/>`) {
		t.Errorf("diffuse bsdf not wired straight to output:\n%s", text)
	}
}

func TestEmitMeshTransparent(t *testing.T) {
	text, err := backend{}.EmitMesh(testMesh(0.5))
	if err != nil {
		t.Fatalf("EmitMesh failed: %v", err)
	}

	for _, construct := range []string{"transparent_bsdf", "mix_closure"} {
		if !strings.Contains(text, construct) {
			t.Errorf("transparent mesh must emit %s:\n%s", construct, text)
		}
	}
	if !strings.Contains(text, `fac="0.5"`) {
		t.Errorf("mix factor should carry alpha:\n%s", text)
	}
}

func TestEmitMeshGeometry(t *testing.T) {
	text, err := backend{}.EmitMesh(testMesh(1.0))
	if err != nil {
		t.Fatalf("EmitMesh failed: %v", err)
	}
	if !strings.Contains(text, `P="0 0 0  1 0 0  0 1 0"`) {
		t.Errorf("bad point list:\n%s", text)
	}
	if !strings.Contains(text, `nverts="3"`) {
		t.Errorf("bad nverts:\n%s", text)
	}
	if !strings.Contains(text, `verts="0 1 2"`) {
		t.Errorf("bad verts:\n%s", text)
	}
}

func TestEmitCamera(t *testing.T) {
	rec := camera.Default()
	rec.Placement = geom.Placement{
		Position: geom.Vec3{X: 0, Y: -1.32, Z: 0.82},
		Rotation: geom.Rotation{Axis: geom.Vec3{X: 1}, Angle: 30.6},
	}

	text, err := backend{}.EmitCamera(rec)
	if err != nil {
		t.Fatalf("EmitCamera failed: %v", err)
	}
	// Rotation is angle-in-degrees followed by the axis.
	if !strings.Contains(text, `rotate="30.6 1 0 0"`) {
		t.Errorf("bad rotation:\n%s", text)
	}
	if !strings.Contains(text, `translate="0 -1.32 0.82"`) {
		t.Errorf("bad translation:\n%s", text)
	}
	// The depth axis is mirrored to match the Cycles handedness.
	if !strings.Contains(text, `scale="1 1 -1"`) {
		t.Errorf("missing depth mirror:\n%s", text)
	}
	if !strings.Contains(text, `<camera type="perspective"/>`) {
		t.Errorf("bad camera node:\n%s", text)
	}

	rec.Projection = camera.Orthographic
	text, err = backend{}.EmitCamera(rec)
	if err != nil {
		t.Fatalf("EmitCamera failed: %v", err)
	}
	if !strings.Contains(text, `<camera type="orthographic"/>`) {
		t.Errorf("bad orthographic camera node:\n%s", text)
	}
}

func TestEmitPointLightPowerScale(t *testing.T) {
	l := &scene.PointLight{
		Name:     "lamp",
		Position: geom.Vec3{X: 2, Y: 3, Z: 4},
		Color:    scene.Color{R: 1, G: 1, B: 1},
		Power:    60,
	}
	text, err := backend{}.EmitPointLight(l)
	if err != nil {
		t.Fatalf("EmitPointLight failed: %v", err)
	}
	if !strings.Contains(text, `strength="6000"`) {
		t.Errorf("power 60 should scale to strength 6000:\n%s", text)
	}
	if !strings.Contains(text, `co="2 3 4"`) {
		t.Errorf("bad light position:\n%s", text)
	}
}

func TestEmitAreaLightAxes(t *testing.T) {
	l := &scene.AreaLight{
		Name: "panel",
		Placement: geom.Placement{
			Position: geom.Vec3{Z: 4},
			Rotation: geom.Rotation{Axis: geom.Vec3{Z: 1}, Angle: 0},
		},
		SizeU: 2,
		SizeV: 1,
		Color: scene.Color{R: 1, G: 1, B: 1},
		Power: 100,
	}
	text, err := backend{}.EmitAreaLight(l)
	if err != nil {
		t.Fatalf("EmitAreaLight failed: %v", err)
	}
	// Identity orientation: axes are the unit X/Y axes, direction their
	// cross product.
	if !strings.Contains(text, `axisu="1 0 0"`) {
		t.Errorf("bad axisu:\n%s", text)
	}
	if !strings.Contains(text, `axisv="0 1 0"`) {
		t.Errorf("bad axisv:\n%s", text)
	}
	if !strings.Contains(text, `dir="0 0 1"`) {
		t.Errorf("bad dir:\n%s", text)
	}
	if !strings.Contains(text, `sizeu="2"`) || !strings.Contains(text, `sizev="1"`) {
		t.Errorf("bad sizes:\n%s", text)
	}
}

func TestEmitSunSkyLight(t *testing.T) {
	l := &scene.SunSkyLight{
		Name:      "sun",
		Direction: geom.Vec3{Z: 2},
		Turbidity: 2,
	}
	text, err := backend{}.EmitSunSkyLight(l)
	if err != nil {
		t.Fatalf("EmitSunSkyLight failed: %v", err)
	}
	if !strings.Contains(text, `type="hosek_wilkie"`) {
		t.Errorf("missing sky model:\n%s", text)
	}
	// Direction is normalized before emission.
	if !strings.Contains(text, `sun_direction="0, 0, 1"`) {
		t.Errorf("direction not normalized:\n%s", text)
	}
}

func TestEmitSunSkyLightZeroDirection(t *testing.T) {
	l := &scene.SunSkyLight{Name: "sun", Turbidity: 2}
	_, err := backend{}.EmitSunSkyLight(l)
	var pe *render.PreconditionError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *PreconditionError", err)
	}
}

func TestEmitImageLight(t *testing.T) {
	text, err := backend{}.EmitImageLight(&scene.ImageLight{Name: "env", File: "studio.hdr"})
	if err != nil {
		t.Fatalf("EmitImageLight failed: %v", err)
	}
	if !strings.Contains(text, `environment_texture`) {
		t.Errorf("missing environment texture:\n%s", text)
	}
	if !strings.Contains(text, `filename="studio.hdr"`) {
		t.Errorf("missing image file:\n%s", text)
	}
}

func TestRenderArgs(t *testing.T) {
	job := &scene.Job{Output: "out.png", Width: 800, Height: 600}

	args := backend{}.RenderArgs("scene.xml", job, false)
	joined := strings.Join(args, " ")
	if joined != "--output out.png --background --width 800 --height 600 scene.xml" {
		t.Errorf("bad headless args: %q", joined)
	}

	args = backend{}.RenderArgs("scene.xml", job, true)
	if strings.Contains(strings.Join(args, " "), "--background") {
		t.Error("external render must not pass --background")
	}
}
