// Package scene defines the renderer-agnostic scene model: lights, materials
// and triangulated meshes, aggregated with a camera into an export job.
package scene

import (
	"fmt"

	"github.com/cadlabs/scenecast/internal/camera"
	"github.com/cadlabs/scenecast/internal/geom"
)

// Color is an RGB triple with components in the 0-1 range.
type Color struct {
	R, G, B float64
}

// Material describes the surface of a mesh object. Alpha 1.0 means fully
// opaque; emitters must then suppress transparency-blending constructs, as
// some renderers need a structurally different shader graph for opaque
// surfaces.
type Material struct {
	Diffuse Color
	Alpha   float64
}

// Light is implemented by every light variant. Dispatch happens by type
// switch at emission time.
type Light interface {
	LightName() string
}

// PointLight radiates uniformly from a single position.
type PointLight struct {
	Name     string
	Position geom.Vec3
	Color    Color
	Power    float64
}

// AreaLight radiates from a rectangle. Its two in-plane axes are derived
// from the placement rotation; SizeU and SizeV are the edge lengths.
type AreaLight struct {
	Name      string
	Placement geom.Placement
	SizeU     float64
	SizeV     float64
	Color     Color
	Power     float64
}

// SunSkyLight is a procedural Hosek-Wilkie sky. Direction points towards
// the sun and must be non-zero; Turbidity is the atmospheric haziness.
type SunSkyLight struct {
	Name      string
	Direction geom.Vec3
	Turbidity float64
}

// ImageLight is image-based environment lighting from an HDR file.
type ImageLight struct {
	Name string
	File string
}

func (l *PointLight) LightName() string  { return l.Name }
func (l *AreaLight) LightName() string   { return l.Name }
func (l *SunSkyLight) LightName() string { return l.Name }
func (l *ImageLight) LightName() string  { return l.Name }

// Mesh is a named triangulated object. Facets index into Points.
type Mesh struct {
	Name     string
	Points   []geom.Vec3
	Facets   [][3]int
	Material Material
}

// Validate checks the mesh topology and material before export.
func (m *Mesh) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("mesh has no name")
	}
	if m.Material.Alpha < 0 || m.Material.Alpha > 1 {
		return fmt.Errorf("mesh %q: alpha %v out of [0,1]", m.Name, m.Material.Alpha)
	}
	for i, f := range m.Facets {
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Points) {
				return fmt.Errorf("mesh %q: facet %d references point %d of %d",
					m.Name, i, idx, len(m.Points))
			}
		}
	}
	return nil
}

// Job aggregates everything one render invocation needs. A job is built per
// render, owned exclusively by that invocation, and discarded afterwards;
// concurrent renders must each build their own.
type Job struct {
	Camera  camera.Record
	Lights  []Light
	Meshes  []Mesh
	Backend string
	Output  string
	Width   int
	Height  int
}

// Validate checks the job before scene text is built.
func (j *Job) Validate() error {
	if j.Width <= 0 || j.Height <= 0 {
		return fmt.Errorf("bad image size %dx%d", j.Width, j.Height)
	}
	seen := make(map[string]bool, len(j.Meshes))
	for i := range j.Meshes {
		m := &j.Meshes[i]
		if err := m.Validate(); err != nil {
			return err
		}
		if seen[m.Name] {
			return fmt.Errorf("duplicate mesh name %q", m.Name)
		}
		seen[m.Name] = true
	}
	return nil
}
