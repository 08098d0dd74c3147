package luxcore

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
	// Opaque materials must not carry the transparency property at all.
	if strings.Contains(text, "transparency") {
		t.Errorf("opaque mesh must not emit transparency:\n%s", text)
	}
	if !strings.Contains(text, `scene.materials.box.kd = 0.8 0.2 0.2`) {
		t.Errorf("bad diffuse:\n%s", text)
	}
	if !strings.Contains(text, `scene.objects.box.faces = 0 1 2`) {
		t.Errorf("bad faces:\n%s", text)
	}
}

func TestEmitMeshTransparent(t *testing.T) {
	text, err := backend{}.EmitMesh(testMesh(0.5))
	if err != nil {
		t.Fatalf("EmitMesh failed: %v", err)
	}
	if !strings.Contains(text, `scene.materials.box.transparency = 0.5`) {
		t.Errorf("missing transparency property:\n%s", text)
	}
}

func TestEmitCameraPerspective(t *testing.T) {
	rec := camera.Default()
	rec.Placement.Position = geom.Vec3{X: 0, Y: -10, Z: 2}
	rec.FocalDistance = 10

	text, err := backend{}.EmitCamera(rec)
	if err != nil {
		t.Fatalf("EmitCamera failed: %v", err)
	}
	if !strings.Contains(text, `scene.camera.type = "perspective"`) {
		t.Errorf("bad camera type:\n%s", text)
	}
	if !strings.Contains(text, "scene.camera.lookat.orig = 0 -10 2") {
		t.Errorf("bad origin:\n%s", text)
	}
	// Target is focal distance along the rotated -Z axis.
	if !strings.Contains(text, "scene.camera.lookat.target = 0 -10 -8") {
		t.Errorf("bad target:\n%s", text)
	}
	if !strings.Contains(text, "scene.camera.up = 0 1 0") {
		t.Errorf("bad up:\n%s", text)
	}
	if !strings.Contains(text, "scene.camera.fieldofview = 60") {
		t.Errorf("bad field of view:\n%s", text)
	}
}

func TestEmitCameraOrthographic(t *testing.T) {
	rec := camera.Default()
	rec.Projection = camera.Orthographic
	rec.Height = 4
	rec.AspectRatio = 2

	text, err := backend{}.EmitCamera(rec)
	if err != nil {
		t.Fatalf("EmitCamera failed: %v", err)
	}
	if !strings.Contains(text, `scene.camera.type = "orthographic"`) {
		t.Errorf("bad camera type:\n%s", text)
	}
	if !strings.Contains(text, "scene.camera.screenwindow = -4 4 -2 2") {
		t.Errorf("bad screen window:\n%s", text)
	}
	if strings.Contains(text, "fieldofview") {
		t.Errorf("orthographic camera must not carry fieldofview:\n%s", text)
	}
}

func TestEmitPointLight(t *testing.T) {
	l := &scene.PointLight{
		Name:     "lamp",
		Position: geom.Vec3{X: 2, Y: 3, Z: 4},
		Color:    scene.Color{R: 1, G: 0.5, B: 0.25},
		Power:    60,
	}
	text, err := backend{}.EmitPointLight(l)
	if err != nil {
		t.Fatalf("EmitPointLight failed: %v", err)
	}
	if !strings.Contains(text, `scene.lights.lamp.type = "point"`) {
		t.Errorf("bad light type:\n%s", text)
	}
	if !strings.Contains(text, "scene.lights.lamp.position = 2 3 4") {
		t.Errorf("bad position:\n%s", text)
	}
	if !strings.Contains(text, "scene.lights.lamp.power = 60") {
		t.Errorf("bad power:\n%s", text)
	}
}

func TestEmitAreaLightRectangle(t *testing.T) {
	l := &scene.AreaLight{
		Name: "panel",
		Placement: geom.Placement{
			Position: geom.Vec3{Z: 4},
			Rotation: geom.Rotation{Axis: geom.Vec3{Z: 1}},
		},
		SizeU: 2,
		SizeV: 2,
		Color: scene.Color{R: 1, G: 1, B: 1},
		Power: 10,
	}
	text, err := backend{}.EmitAreaLight(l)
	if err != nil {
		t.Fatalf("EmitAreaLight failed: %v", err)
	}
	// An emissive rectangle: 4 corners and 2 triangles. The keys carry a
	// suffix so a mesh named "panel" in the same scene cannot collide.
	if !strings.Contains(text, "scene.objects.panel_light.vertices = -1 -1 4 1 -1 4 1 1 4 -1 1 4") {
		t.Errorf("bad corners:\n%s", text)
	}
	if !strings.Contains(text, "scene.objects.panel_light.faces = 0 1 2 0 2 3") {
		t.Errorf("bad faces:\n%s", text)
	}
	if !strings.Contains(text, "scene.materials.panel_light.emission = 10 10 10") {
		t.Errorf("bad emission:\n%s", text)
	}
	if strings.Contains(text, "scene.objects.panel.") || strings.Contains(text, "scene.materials.panel.") {
		t.Errorf("light keys must not use the bare light name:\n%s", text)
	}
}

func TestEmitSunSkyLight(t *testing.T) {
	text, err := backend{}.EmitSunSkyLight(&scene.SunSkyLight{
		Name:      "sun",
		Direction: geom.Vec3{Z: 5},
		Turbidity: 2.5,
	})
	if err != nil {
		t.Fatalf("EmitSunSkyLight failed: %v", err)
	}
	if !strings.Contains(text, `scene.lights.sun.type = "sky2"`) {
		t.Errorf("bad light type:\n%s", text)
	}
	if !strings.Contains(text, "scene.lights.sun.dir = 0 0 1") {
		t.Errorf("direction not normalized:\n%s", text)
	}
	if !strings.Contains(text, "scene.lights.sun.turbidity = 2.5") {
		t.Errorf("bad turbidity:\n%s", text)
	}
}

func TestEmitSunSkyLightZeroDirection(t *testing.T) {
	_, err := backend{}.EmitSunSkyLight(&scene.SunSkyLight{Name: "sun", Turbidity: 2})
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
	if !strings.Contains(text, `scene.lights.env.type = "infinite"`) {
		t.Errorf("bad light type:\n%s", text)
	}
	if !strings.Contains(text, `scene.lights.env.file = "studio.hdr"`) {
		t.Errorf("bad file:\n%s", text)
	}
}
