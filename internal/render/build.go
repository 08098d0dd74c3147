package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cadlabs/scenecast/internal/scene"
)

// BuildScene assembles the full scene file text for job using backend b:
// camera fragment first, then lights, then meshes, in document order.
//
// Emitters are pure, so mesh fragments are built concurrently; results are
// collected by index to keep the concatenation order deterministic.
func BuildScene(job *scene.Job, b Backend) (string, error) {
	if err := job.Validate(); err != nil {
		return "", err
	}

	var parts []string

	camText, err := b.EmitCamera(job.Camera)
	if err != nil {
		return "", fmt.Errorf("emitting camera: %w", err)
	}
	parts = append(parts, camText)

	for _, light := range job.Lights {
		text, err := emitLight(b, light)
		if err != nil {
			return "", fmt.Errorf("emitting light %q: %w", light.LightName(), err)
		}
		parts = append(parts, text)
	}

	texts := make([]string, len(job.Meshes))
	errs := make([]error, len(job.Meshes))
	var wg sync.WaitGroup
	for i := range job.Meshes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			texts[i], errs[i] = b.EmitMesh(&job.Meshes[i])
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return "", fmt.Errorf("emitting mesh %q: %w", job.Meshes[i].Name, err)
		}
	}
	parts = append(parts, texts...)

	return strings.Join(parts, ""), nil
}

func emitLight(b Backend, light scene.Light) (string, error) {
	switch l := light.(type) {
	case *scene.PointLight:
		return b.EmitPointLight(l)
	case *scene.AreaLight:
		return b.EmitAreaLight(l)
	case *scene.SunSkyLight:
		return b.EmitSunSkyLight(l)
	case *scene.ImageLight:
		return b.EmitImageLight(l)
	default:
		return "", fmt.Errorf("unknown light type %T", light)
	}
}
