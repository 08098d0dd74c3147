package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cadlabs/scenecast/internal/camera"
	"github.com/cadlabs/scenecast/internal/geom"
)

// jobFile is the on-disk YAML shape of an export job.
type jobFile struct {
	Backend string      `yaml:"backend"`
	Output  string      `yaml:"output"`
	Width   int         `yaml:"width"`
	Height  int         `yaml:"height"`
	Camera  cameraSpec  `yaml:"camera"`
	Lights  []lightSpec `yaml:"lights"`
	Meshes  []meshSpec  `yaml:"meshes"`
}

// cameraSpec accepts either a raw Coin camera string (coin key) or
// structured fields. The Coin string wins when both are present.
type cameraSpec struct {
	Coin string `yaml:"coin"`

	Projection      string       `yaml:"projection"`
	ViewportMapping string       `yaml:"viewport_mapping"`
	Position        []float64    `yaml:"position"`
	Rotation        rotationSpec `yaml:"rotation"`
	NearDistance    *float64     `yaml:"near_distance"`
	FarDistance     *float64     `yaml:"far_distance"`
	AspectRatio     *float64     `yaml:"aspect_ratio"`
	FocalDistance   *float64     `yaml:"focal_distance"`
	Height          *float64     `yaml:"height"`
	HeightAngle     *float64     `yaml:"height_angle"`
}

type rotationSpec struct {
	Axis  []float64 `yaml:"axis"`
	Angle float64   `yaml:"angle"` // degrees
}

type lightSpec struct {
	Type      string       `yaml:"type"` // point, area, sunsky, image
	Name      string       `yaml:"name"`
	Position  []float64    `yaml:"position"`
	Rotation  rotationSpec `yaml:"rotation"`
	Direction []float64    `yaml:"direction"`
	Color     []float64    `yaml:"color"`
	Power     float64      `yaml:"power"`
	SizeU     float64      `yaml:"size_u"`
	SizeV     float64      `yaml:"size_v"`
	Turbidity float64      `yaml:"turbidity"`
	File      string       `yaml:"file"`
}

type meshSpec struct {
	Name     string       `yaml:"name"`
	Points   [][]float64  `yaml:"points"`
	Facets   [][]int      `yaml:"facets"`
	Material materialSpec `yaml:"material"`
}

type materialSpec struct {
	Diffuse []float64 `yaml:"diffuse"`
	Alpha   *float64  `yaml:"alpha"`
}

// LoadJob reads an export job from a YAML file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var jf jobFile
	if err := yaml.Unmarshal(data, &jf); err != nil {
		return nil, fmt.Errorf("parsing job file %s: %w", path, err)
	}
	job, err := jf.toJob()
	if err != nil {
		return nil, fmt.Errorf("job file %s: %w", path, err)
	}
	return job, nil
}

func (jf *jobFile) toJob() (*Job, error) {
	job := &Job{
		Backend: jf.Backend,
		Output:  jf.Output,
		Width:   jf.Width,
		Height:  jf.Height,
	}

	cam, err := jf.Camera.toRecord()
	if err != nil {
		return nil, err
	}
	job.Camera = cam

	for i, ls := range jf.Lights {
		light, err := ls.toLight()
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		job.Lights = append(job.Lights, light)
	}

	for i, ms := range jf.Meshes {
		mesh, err := ms.toMesh()
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		job.Meshes = append(job.Meshes, mesh)
	}

	return job, nil
}

func (cs *cameraSpec) toRecord() (camera.Record, error) {
	if cs.Coin != "" {
		return camera.Parse(cs.Coin)
	}

	rec := camera.Default()
	if cs.Projection != "" {
		rec.Projection = camera.Projection(cs.Projection)
	}
	if cs.ViewportMapping != "" {
		rec.ViewportMapping = cs.ViewportMapping
	}
	if cs.Position != nil {
		pos, err := vec3(cs.Position)
		if err != nil {
			return camera.Record{}, fmt.Errorf("camera position: %w", err)
		}
		rec.Placement.Position = pos
	}
	if cs.Rotation.Axis != nil {
		axis, err := vec3(cs.Rotation.Axis)
		if err != nil {
			return camera.Record{}, fmt.Errorf("camera rotation: %w", err)
		}
		rec.Placement.Rotation = geom.Rotation{Axis: axis, Angle: cs.Rotation.Angle}
	}
	setIf(&rec.NearDistance, cs.NearDistance)
	setIf(&rec.FarDistance, cs.FarDistance)
	setIf(&rec.AspectRatio, cs.AspectRatio)
	setIf(&rec.FocalDistance, cs.FocalDistance)
	setIf(&rec.Height, cs.Height)
	setIf(&rec.HeightAngle, cs.HeightAngle)
	return rec, nil
}

func (ls *lightSpec) toLight() (Light, error) {
	color := Color{R: 1, G: 1, B: 1}
	if ls.Color != nil {
		c, err := vec3(ls.Color)
		if err != nil {
			return nil, fmt.Errorf("color: %w", err)
		}
		color = Color{R: c.X, G: c.Y, B: c.Z}
	}

	switch ls.Type {
	case "point":
		pos, err := vec3(ls.Position)
		if err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
		return &PointLight{Name: ls.Name, Position: pos, Color: color, Power: ls.Power}, nil
	case "area":
		pos, err := vec3(ls.Position)
		if err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
		axis := geom.Vec3{Z: 1}
		if ls.Rotation.Axis != nil {
			if axis, err = vec3(ls.Rotation.Axis); err != nil {
				return nil, fmt.Errorf("rotation: %w", err)
			}
		}
		return &AreaLight{
			Name: ls.Name,
			Placement: geom.Placement{
				Position: pos,
				Rotation: geom.Rotation{Axis: axis, Angle: ls.Rotation.Angle},
			},
			SizeU: ls.SizeU,
			SizeV: ls.SizeV,
			Color: color,
			Power: ls.Power,
		}, nil
	case "sunsky":
		dir, err := vec3(ls.Direction)
		if err != nil {
			return nil, fmt.Errorf("direction: %w", err)
		}
		return &SunSkyLight{Name: ls.Name, Direction: dir, Turbidity: ls.Turbidity}, nil
	case "image":
		if ls.File == "" {
			return nil, fmt.Errorf("image light needs a file")
		}
		return &ImageLight{Name: ls.Name, File: ls.File}, nil
	default:
		return nil, fmt.Errorf("unknown light type %q", ls.Type)
	}
}

func (ms *meshSpec) toMesh() (Mesh, error) {
	mesh := Mesh{
		Name:     ms.Name,
		Material: Material{Diffuse: Color{R: 0.8, G: 0.8, B: 0.8}, Alpha: 1},
	}
	for i, p := range ms.Points {
		v, err := vec3(p)
		if err != nil {
			return Mesh{}, fmt.Errorf("point %d: %w", i, err)
		}
		mesh.Points = append(mesh.Points, v)
	}
	for i, f := range ms.Facets {
		if len(f) != 3 {
			return Mesh{}, fmt.Errorf("facet %d: expected 3 indices, got %d", i, len(f))
		}
		mesh.Facets = append(mesh.Facets, [3]int{f[0], f[1], f[2]})
	}
	if ms.Material.Diffuse != nil {
		c, err := vec3(ms.Material.Diffuse)
		if err != nil {
			return Mesh{}, fmt.Errorf("material: %w", err)
		}
		mesh.Material.Diffuse = Color{R: c.X, G: c.Y, B: c.Z}
	}
	setIf(&mesh.Material.Alpha, ms.Material.Alpha)
	return mesh, nil
}

func vec3(values []float64) (geom.Vec3, error) {
	if len(values) != 3 {
		return geom.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(values))
	}
	return geom.Vec3{X: values[0], Y: values[1], Z: values[2]}, nil
}

func setIf(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
