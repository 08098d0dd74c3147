// Package render maps the scene model onto renderer backends: a registry of
// emitters, one per external rendering engine, the scene text builder, and
// the invocation of the renderer executable.
package render

import (
	"fmt"
	"sort"

	"github.com/cadlabs/scenecast/internal/camera"
	"github.com/cadlabs/scenecast/internal/scene"
)

// Backend translates scene model entities into the textual scene grammar of
// one external renderer. All emit methods are pure: they never observe or
// mutate shared state, and never mutate their input records.
//
// An emitter returns *UnsupportedFeatureError when the target grammar cannot
// express the requested capability.
type Backend interface {
	// Name is the registry key, e.g. "cycles".
	Name() string
	// FileExt is the scene file extension including the dot.
	FileExt() string

	EmitCamera(rec camera.Record) (string, error)
	EmitPointLight(l *scene.PointLight) (string, error)
	EmitAreaLight(l *scene.AreaLight) (string, error)
	EmitSunSkyLight(l *scene.SunSkyLight) (string, error)
	EmitImageLight(l *scene.ImageLight) (string, error)
	EmitMesh(m *scene.Mesh) (string, error)

	// RenderArgs returns the backend-specific CLI arguments appended after
	// the executable path and the configured default parameters. external
	// requests the renderer's interactive viewer instead of headless mode.
	RenderArgs(sceneFile string, job *scene.Job, external bool) []string
}

var backends = make(map[string]Backend)

// Register adds a backend to the registry. It is meant to be called from
// the backend package's init; duplicate names are a programming error.
func Register(b Backend) {
	name := b.Name()
	if _, dup := backends[name]; dup {
		panic(fmt.Sprintf("render: backend %q registered twice", name))
	}
	backends[name] = b
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, error) {
	b, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown renderer backend %q (available: %v)", name, Names())
	}
	return b, nil
}

// Names returns the registered backend names, sorted.
func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
