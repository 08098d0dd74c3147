package camera

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/cadlabs/scenecast/internal/geom"
)

// coinHeader opens every serialized camera block.
const coinHeader = "#Inventor V2.1 ascii"

// cameraSuffix is the trailing token of the block header keyword; the
// projection kind is whatever precedes it ("PerspectiveCamera" etc.).
const cameraSuffix = "Camera"

// Parse decodes a camera description in Open Inventor format, e.g.:
//
//	#Inventor V2.1 ascii
//
//	PerspectiveCamera {
//	 viewportMapping ADJUST_CAMERA
//	 position 0 -1.3207401 0.82241058
//	 orientation 0.99999666 0 0  0.26732138
//	 nearDistance 1.6108983
//	 farDistance 6611.4492
//	 aspectRatio 1
//	 focalDistance 5
//	 heightAngle 0.78539819
//	}
//
// Lines beginning with # are comments; tokens are shell-word split.
// position, orientation and focalDistance are required, as is height
// (orthographic) or heightAngle (perspective). nearDistance, farDistance,
// aspectRatio and viewportMapping fall back to defaults when absent.
// Failures are reported as *FormatError naming the field.
func Parse(text string) (Record, error) {
	lines, err := tokenize(text)
	if err != nil {
		return Record{}, err
	}
	if len(lines) == 0 {
		return Record{}, &FormatError{Field: "header", Reason: "empty camera string"}
	}

	rec := Default()

	// Data block must start with the camera type keyword.
	header := lines[0][0]
	proj, ok := strings.CutSuffix(header, cameraSuffix)
	if !ok || !validProjection(Projection(proj)) {
		return Record{}, &FormatError{
			Field:  "header",
			Reason: fmt.Sprintf("unrecognized camera type %q", header),
		}
	}
	rec.Projection = Projection(proj)

	// First token of each line is a field key, the rest are its values.
	// A repeated key silently overwrites the previous one.
	fields := make(map[string][]string, len(lines))
	for _, tokens := range lines {
		fields[tokens[0]] = tokens[1:]
	}

	pos, err := floatField(fields, "position", 3)
	if err != nil {
		return Record{}, err
	}
	rec.Placement.Position = geom.Vec3{X: pos[0], Y: pos[1], Z: pos[2]}

	orient, err := floatField(fields, "orientation", 4)
	if err != nil {
		return Record{}, err
	}
	rec.Placement.Rotation = geom.Rotation{
		Axis:  geom.Vec3{X: orient[0], Y: orient[1], Z: orient[2]},
		Angle: orient[3] * 180 / math.Pi,
	}

	focal, err := floatField(fields, "focalDistance", 1)
	if err != nil {
		return Record{}, err
	}
	rec.FocalDistance = focal[0]

	if _, ok := fields["aspectRatio"]; ok {
		ratio, err := floatField(fields, "aspectRatio", 1)
		if err != nil {
			return Record{}, err
		}
		rec.AspectRatio = ratio[0]
	}
	if v, ok := fields["viewportMapping"]; ok && len(v) > 0 {
		rec.ViewportMapping = v[0]
	}

	// Near and far distances may be missing from the string; keep defaults.
	for key, dst := range map[string]*float64{
		"nearDistance": &rec.NearDistance,
		"farDistance":  &rec.FarDistance,
	} {
		if _, ok := fields[key]; !ok {
			continue
		}
		val, err := floatField(fields, key, 1)
		if err != nil {
			return Record{}, err
		}
		*dst = val[0]
	}

	switch rec.Projection {
	case Orthographic:
		height, err := floatField(fields, "height", 1)
		if err != nil {
			return Record{}, err
		}
		rec.Height = height[0]
	case Perspective:
		angle, err := floatField(fields, "heightAngle", 1)
		if err != nil {
			return Record{}, err
		}
		rec.HeightAngle = angle[0] * 180 / math.Pi
	}

	return rec, nil
}

// Serialize encodes rec in Open Inventor format, the inverse of Parse.
// Projection and viewport mapping are checked against their enumerations
// first; violations are reported as *InvalidEnumError. Field order is a
// stable contract: any consumer parsing position-sensitively relies on it.
func Serialize(rec Record) (string, error) {
	if !validProjection(rec.Projection) {
		return "", &InvalidEnumError{Field: "Projection", Value: string(rec.Projection)}
	}
	if !validViewportMapping(rec.ViewportMapping) {
		return "", &InvalidEnumError{Field: "ViewportMapping", Value: rec.ViewportMapping}
	}

	var b strings.Builder
	b.WriteString(coinHeader + "\n\n\n\n")
	fmt.Fprintf(&b, "%sCamera {\n", rec.Projection)
	fmt.Fprintf(&b, " viewportMapping %s\n", rec.ViewportMapping)
	pos := rec.Placement.Position
	fmt.Fprintf(&b, " position %s %s %s\n", ftoa(pos.X), ftoa(pos.Y), ftoa(pos.Z))
	rot := rec.Placement.Rotation
	fmt.Fprintf(&b, " orientation %s %s %s %s\n",
		ftoa(rot.Axis.X), ftoa(rot.Axis.Y), ftoa(rot.Axis.Z),
		ftoa(rot.Angle*math.Pi/180))
	fmt.Fprintf(&b, " nearDistance %s\n", ftoa(rec.NearDistance))
	fmt.Fprintf(&b, " farDistance %s\n", ftoa(rec.FarDistance))
	fmt.Fprintf(&b, " aspectRatio %s\n", ftoa(rec.AspectRatio))
	fmt.Fprintf(&b, " focalDistance %s\n", ftoa(rec.FocalDistance))
	switch rec.Projection {
	case Orthographic:
		fmt.Fprintf(&b, " height %s\n", ftoa(rec.Height))
	case Perspective:
		fmt.Fprintf(&b, " heightAngle %s\n", ftoa(rec.HeightAngle*math.Pi/180))
	}
	b.WriteString("}\n")
	return b.String(), nil
}

// tokenize splits text into lines, shell-word splits each line, strips
// #-comments and drops blank lines.
func tokenize(text string) ([][]string, error) {
	parser := shellwords.NewParser()
	var lines [][]string
	for _, line := range strings.Split(text, "\n") {
		tokens, err := parser.Parse(line)
		if err != nil {
			return nil, &FormatError{Field: "header", Reason: err.Error()}
		}
		for i, tok := range tokens {
			if strings.HasPrefix(tok, "#") {
				tokens = tokens[:i]
				break
			}
		}
		if len(tokens) == 0 {
			continue
		}
		lines = append(lines, tokens)
	}
	return lines, nil
}

// floatField extracts at least n float values for key, reporting missing
// fields and unparsable numbers as *FormatError.
func floatField(fields map[string][]string, key string, n int) ([]float64, error) {
	values, ok := fields[key]
	if !ok {
		return nil, &FormatError{Field: key, Reason: "missing required field"}
	}
	if len(values) < n {
		return nil, &FormatError{
			Field:  key,
			Reason: fmt.Sprintf("expected %d values, got %d", n, len(values)),
		}
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(values[i], 64)
		if err != nil {
			return nil, &FormatError{
				Field:  key,
				Reason: fmt.Sprintf("bad numeric value %q", values[i]),
			}
		}
		out[i] = f
	}
	return out, nil
}

// ftoa formats a float the shortest way that round-trips.
func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
