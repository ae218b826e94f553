package scene

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/byuview/pkg/math3d"
	"github.com/taigrr/byuview/pkg/models"
	"github.com/taigrr/byuview/pkg/render"
)

// ErrMalformedScene is wrapped by every parse error.
var ErrMalformedScene = models.ErrMalformedScene

// ErrUnsupportedFormat is returned by Load for an unknown mesh extension.
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// ParseError describes a malformed line in a scene, camera or light file.
type ParseError = models.ParseError

// Options names the optional files loaded alongside a mesh.
type Options struct {
	CameraPath string // camera block, overrides one embedded in the mesh file
	LightPath  string // light parameters
}

// Load reads the mesh at meshPath, choosing the loader from its extension,
// then the camera and light files named in opts. A BYU file may carry its
// own camera block.
func Load(meshPath string, opts Options) (*Scene, error) {
	var s *Scene
	switch ext := strings.ToLower(filepath.Ext(meshPath)); ext {
	case ".byu", ".txt":
		f, err := os.Open(meshPath)
		if err != nil {
			return nil, fmt.Errorf("open scene: %w", err)
		}
		defer f.Close()
		if s, err = Parse(f, meshPath); err != nil {
			return nil, err
		}
	case ".glb", ".gltf":
		mesh, err := models.LoadGLTF(meshPath)
		if err != nil {
			return nil, err
		}
		s = New(mesh)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if opts.CameraPath != "" {
		cam, err := LoadCamera(opts.CameraPath)
		if err != nil {
			return nil, err
		}
		s.SetCamera(cam)
	}
	if opts.LightPath != "" {
		light, err := LoadLight(opts.LightPath)
		if err != nil {
			return nil, err
		}
		s.SetLight(light)
	}
	return s, nil
}

// Parse reads a scene file: any number of BYU object blocks, each started
// by a two-value "vertices triangles" line, and at most one camera block,
// started by its three-value focus line. Objects are appended into one
// mesh in file order.
func Parse(r io.Reader, name string) (*Scene, error) {
	lr := models.NewLineReader(r, name)
	mesh := models.NewMesh(filepath.Base(name))
	s := New(mesh)

	for {
		fields, ok := lr.Next()
		if !ok {
			break
		}
		switch len(fields) {
		case 2:
			obj, err := models.ReadObject(lr, fields)
			if err != nil {
				return nil, err
			}
			mesh.Append(obj)
		case 3:
			if s.camera != nil {
				return nil, lr.Errorf("second camera block")
			}
			cam, err := ReadCamera(lr, fields)
			if err != nil {
				return nil, err
			}
			s.camera = cam
		default:
			return nil, lr.Errorf("expected an object header or camera focus, but found %q", strings.Join(fields, " "))
		}
	}
	if err := lr.Err(); err != nil {
		return nil, err
	}

	mesh.CalculateBounds()
	return s, nil
}

// cameraLines is the number of lines in a camera block.
const cameraLines = 6

// ReadCamera reads a camera block whose focus line C has already been
// consumed as first. The remaining lines are the view direction N, the up
// vector V, then d, hx and hy, one value per line.
func ReadCamera(lr *models.LineReader, first []string) (*render.Camera, error) {
	var params [cameraLines]math3d.VecN
	names := [cameraLines]string{"focus", "direction", "up vector", "distance", "half-width", "half-height"}
	want := [cameraLines]int{3, 3, 3, 1, 1, 1}

	fields := first
	for i := range cameraLines {
		if i > 0 {
			var ok bool
			if fields, ok = lr.Next(); !ok {
				return nil, lr.Truncated("expected more camera parameters, but found only %d", i)
			}
		}
		if len(fields) != want[i] {
			return nil, lr.Errorf("camera %s has %d values, expected %d", names[i], len(fields), want[i])
		}
		v, err := models.ParseFloats(fields)
		if err != nil {
			return nil, lr.Errorf("camera %s: %v", names[i], err)
		}
		params[i] = v
	}

	c, _ := params[0].Vec3()
	n, _ := params[1].Vec3()
	v, _ := params[2].Vec3()
	cam, err := render.NewCamera(c, n, v, params[3][0], params[4][0], params[5][0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", lr.Errorf("invalid camera"), err)
	}
	return cam, nil
}

// ParseCamera reads a file holding only a camera block.
func ParseCamera(r io.Reader, name string) (*render.Camera, error) {
	lr := models.NewLineReader(r, name)
	first, ok := lr.Next()
	if !ok {
		return nil, lr.Truncated("expected more camera parameters, but found only 0")
	}
	if len(first) != 3 {
		return nil, lr.Errorf("camera focus has %d values, expected 3", len(first))
	}
	cam, err := ReadCamera(lr, first)
	if err != nil {
		return nil, err
	}
	if extra, ok := lr.Next(); ok {
		return nil, lr.Errorf("unexpected %q after camera block", strings.Join(extra, " "))
	}
	if err := lr.Err(); err != nil {
		return nil, err
	}
	return cam, nil
}

// LoadCamera reads a camera file.
func LoadCamera(path string) (*render.Camera, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open camera: %w", err)
	}
	defer f.Close()
	return ParseCamera(f, path)
}

// lightParam describes one line of a light file.
type lightParam struct {
	name string
	n    int
	one  bool // a single value is broadcast to every channel
}

var lightParams = [...]lightParam{
	{name: "position", n: 3},
	{name: "ambient coefficient", n: 1},
	{name: "ambient intensity", n: 3},
	{name: "diffuse coefficient", n: 3, one: true},
	{name: "diffuse reflectance", n: 3},
	{name: "specular coefficient", n: 1},
	{name: "light intensity", n: 3},
	{name: "shininess", n: 1},
}

// ParseLight reads a light file: the light position Pl, ka, the ambient
// intensity Ia, kd (one value or one per channel), the diffuse reflectance
// Od, ks, the light intensity Il and the specular exponent n, each on its
// own line.
func ParseLight(r io.Reader, name string) (*render.Light, error) {
	lr := models.NewLineReader(r, name)
	var vals [len(lightParams)]math3d.VecN

	for i, p := range lightParams {
		fields, ok := lr.Next()
		if !ok {
			return nil, lr.Truncated("expected more light parameters, but found only %d", i)
		}
		v, err := models.ParseFloats(fields)
		if err != nil {
			return nil, lr.Errorf("light %s: %v", p.name, err)
		}
		if p.one {
			v, err = v.Broadcast(p.n)
		} else if len(v) != p.n {
			err = fmt.Errorf("expected %d values", p.n)
		}
		if err != nil {
			return nil, lr.Errorf("light %s has %d values: %v", p.name, len(fields), err)
		}
		vals[i] = v
	}
	if extra, ok := lr.Next(); ok {
		return nil, lr.Errorf("unexpected %q after light parameters", strings.Join(extra, " "))
	}
	if err := lr.Err(); err != nil {
		return nil, err
	}

	vec := func(i int) math3d.Vec3 {
		v, _ := vals[i].Vec3()
		return v
	}
	return &render.Light{
		Position:  vec(0),
		KA:        vals[1][0],
		Ambient:   vec(2),
		KD:        vec(3),
		OD:        vec(4),
		KS:        vals[5][0],
		Intensity: vec(6),
		Shininess: vals[7][0],
	}, nil
}

// LoadLight reads a light file.
func LoadLight(path string) (*render.Light, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open light: %w", err)
	}
	defer f.Close()
	return ParseLight(f, path)
}
