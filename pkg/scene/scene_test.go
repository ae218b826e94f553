package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/byuview/pkg/math3d"
	"github.com/taigrr/byuview/pkg/models"
	"github.com/taigrr/byuview/pkg/render"
)

// triangleScene is one triangle five units in front of a camera at the
// origin looking down +Z.
const triangleScene = `3 1
-1 -1 5
1 -1 5
0 1 5
1 2 3

0 0 0
0 0 1
0 1 0
1
1
1
`

const lightFile = `0 0 0
0.2
255 255 255
0.7
200 100 50
0.5
255 255 255
8
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseSceneWithCamera(t *testing.T) {
	s, err := Parse(strings.NewReader(triangleScene), "tri.byu")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if s.Mesh.VertexCount() != 3 || s.Mesh.TriangleCount() != 1 {
		t.Fatalf("mesh has %d vertices, %d triangles", s.Mesh.VertexCount(), s.Mesh.TriangleCount())
	}
	cam := s.Camera()
	if cam == nil {
		t.Fatal("camera block not loaded")
	}
	if cam.Focus() != math3d.Zero3() || cam.Direction() != math3d.V3(0, 0, 1) {
		t.Errorf("camera = %v", cam)
	}
	if hx, hy := cam.HalfExtents(); cam.Distance() != 1 || hx != 1 || hy != 1 {
		t.Errorf("camera d=%v hx=%v hy=%v, want 1 1 1", cam.Distance(), hx, hy)
	}
	if s.Light() != nil {
		t.Error("scene should have no light")
	}
}

func TestParseCameraFirst(t *testing.T) {
	src := "0 0 -4\n0 0 1\n0 1 0\n2\n1\n1\n3 1\n0 0 0\n1 0 0\n0 1 0\n1 2 3\n"
	s, err := Parse(strings.NewReader(src), "cam-first.byu")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Camera() == nil || s.Mesh.TriangleCount() != 1 {
		t.Errorf("camera=%v triangles=%d", s.Camera(), s.Mesh.TriangleCount())
	}
}

func TestParseMeshOnly(t *testing.T) {
	s, err := Parse(strings.NewReader("3 1\n0 0 0\n1 0 0\n0 1 0\n1 2 3\n"), "mesh.byu")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Camera() != nil {
		t.Error("mesh-only file produced a camera")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"bad header", "1 2 3 4\n", "expected an object header or camera focus"},
		{"camera truncated", "0 0 0\n0 0 1\n0 1 0\n1\n", "expected more camera parameters, but found only 4"},
		{"camera vector short", "0 0 0\n0 1\n0 1 0\n1\n1\n1\n", "camera direction has 2 values, expected 3"},
		{"camera scalar line", "0 0 0\n0 0 1\n0 1 0\n1 2\n1\n1\n", "camera distance has 2 values, expected 1"},
		{"camera not numeric", "0 0 0\n0 0 1\n0 1 0\n1\nwide\n1\n", "camera half-width"},
		{"second camera", triangleScene + "0 0 0\n0 0 1\n0 1 0\n1\n1\n1\n", "second camera block"},
		{"mesh error", "3 1\n0 0 0\n1 0 0\n0 1 0\n1 2 9\n", "references vertex 9"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.src), "bad.byu")
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			if !errors.Is(err, ErrMalformedScene) {
				t.Errorf("error %v does not wrap ErrMalformedScene", err)
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tc.wantMsg)
			}
		})
	}
}

func TestParseDegenerateCamera(t *testing.T) {
	// Up vector parallel to the view direction.
	src := "0 0 0\n0 1 0\n0 2 0\n1\n1\n1\n"
	_, err := Parse(strings.NewReader(src), "bad.byu")
	if !errors.Is(err, ErrMalformedScene) || !errors.Is(err, render.ErrDegenerateBasis) {
		t.Errorf("Parse() error = %v, want malformed scene and degenerate basis", err)
	}

	var pe *ParseError
	if !errors.As(err, &pe) || pe.Line != 6 {
		t.Errorf("error not positioned at the camera block's last line: %v", err)
	}
}

func TestParseCameraFile(t *testing.T) {
	cam, err := ParseCamera(strings.NewReader("1 2 3\n\n0 0 -1\n0 1 0\n1.5\n0.5\n0.25\n"), "view.cam")
	if err != nil {
		t.Fatalf("ParseCamera: %v", err)
	}
	if cam.Focus() != math3d.V3(1, 2, 3) {
		t.Errorf("Focus() = %v", cam.Focus())
	}
	if hx, hy := cam.HalfExtents(); hx != 0.5 || hy != 0.25 {
		t.Errorf("HalfExtents() = %v, %v", hx, hy)
	}

	for _, src := range []string{"", "1 2\n", "0 0 0\n0 0 1\n0 1 0\n1\n1\n1\n7\n"} {
		if _, err := ParseCamera(strings.NewReader(src), "bad.cam"); !errors.Is(err, ErrMalformedScene) {
			t.Errorf("ParseCamera(%q) error = %v, want ErrMalformedScene", src, err)
		}
	}
}

func TestParseLight(t *testing.T) {
	l, err := ParseLight(strings.NewReader(lightFile), "white.light")
	if err != nil {
		t.Fatalf("ParseLight: %v", err)
	}

	want := render.Light{
		Position:  math3d.Zero3(),
		KA:        0.2,
		Ambient:   math3d.V3(255, 255, 255),
		KD:        math3d.V3(0.7, 0.7, 0.7),
		OD:        math3d.V3(200, 100, 50),
		KS:        0.5,
		Intensity: math3d.V3(255, 255, 255),
		Shininess: 8,
	}
	if *l != want {
		t.Errorf("ParseLight() = %+v, want %+v", *l, want)
	}
}

func TestParseLightPerChannelDiffuse(t *testing.T) {
	src := strings.Replace(lightFile, "\n0.7\n", "\n0.1 0.2 0.3\n", 1)
	l, err := ParseLight(strings.NewReader(src), "rgb.light")
	if err != nil {
		t.Fatalf("ParseLight: %v", err)
	}
	if l.KD != math3d.V3(0.1, 0.2, 0.3) {
		t.Errorf("KD = %v, want (0.1, 0.2, 0.3)", l.KD)
	}
}

func TestParseLightErrors(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(lightFile), "\n")

	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"truncated", strings.Join(lines[:5], "\n"), "expected more light parameters, but found only 5"},
		{"two diffuse values", strings.Replace(lightFile, "\n0.7\n", "\n0.7 0.2\n", 1), "light diffuse coefficient has 2 values"},
		{"short position", strings.Replace(lightFile, "0 0 0\n", "0 0\n", 1), "light position has 2 values"},
		{"not numeric", strings.Replace(lightFile, "\n8\n", "\nshiny\n", 1), "light shininess"},
		{"trailing data", lightFile + "1\n", "unexpected \"1\""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseLight(strings.NewReader(tc.src), "bad.light")
			if !errors.Is(err, ErrMalformedScene) {
				t.Fatalf("ParseLight() error = %v, want ErrMalformedScene", err)
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tc.wantMsg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	meshPath := writeFile(t, "mesh.byu", "3 1\n-1 -1 5\n1 -1 5\n0 1 5\n1 2 3\n")
	camPath := writeFile(t, "view.cam", "0 0 0\n0 0 1\n0 1 0\n1\n1\n1\n")
	lightPath := writeFile(t, "white.light", lightFile)

	s, err := Load(meshPath, Options{CameraPath: camPath, LightPath: lightPath})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Camera() == nil || s.Light() == nil {
		t.Fatalf("camera=%v light=%v", s.Camera(), s.Light())
	}
	if s.Mesh.BoundsMax != math3d.V3(1, 1, 5) {
		t.Errorf("BoundsMax = %v", s.Mesh.BoundsMax)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "mesh.obj"), Options{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(.obj) error = %v, want ErrUnsupportedFormat", err)
	}

	_, err := Load(filepath.Join(dir, "missing.byu"), Options{})
	if !errors.Is(err, os.ErrNotExist) || errors.Is(err, ErrMalformedScene) {
		t.Errorf("Load(missing) error = %v, want not-exist and not malformed", err)
	}

	meshPath := writeFile(t, "mesh.byu", "3 1\n0 0 0\n1 0 0\n0 1 0\n1 2 3\n")
	if _, err := Load(meshPath, Options{LightPath: filepath.Join(dir, "none.light")}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing light) error = %v, want not-exist", err)
	}
	if _, err := Load(meshPath, Options{CameraPath: writeFile(t, "bad.cam", "1 2 3\n")}); !errors.Is(err, ErrMalformedScene) {
		t.Errorf("Load(bad camera) error = %v, want ErrMalformedScene", err)
	}
}

func TestSceneAccessors(t *testing.T) {
	var empty Scene
	if empty.Geometry() != nil {
		t.Error("Geometry() of an empty scene should be a nil interface")
	}

	mesh := models.NewMesh("m")
	s := New(mesh)
	if s.Geometry() == nil {
		t.Fatal("Geometry() = nil")
	}
	l := render.DefaultLight(math3d.Zero3())
	s.SetLight(l)
	if s.Light() != l {
		t.Error("SetLight not applied")
	}
	s.SetLight(nil)
	if s.Light() != nil {
		t.Error("SetLight(nil) did not remove the light")
	}
}

func TestDefaultCamera(t *testing.T) {
	mesh, err := models.ParseBYU(strings.NewReader("3 1\n-4 -1 10\n2 -1 10\n0 3 14\n1 2 3\n"), "m.byu")
	if err != nil {
		t.Fatalf("ParseBYU: %v", err)
	}

	for _, size := range []struct{ w, h int }{{100, 100}, {160, 90}, {60, 120}} {
		cam, err := DefaultCamera(mesh, float64(size.w)/float64(size.h))
		if err != nil {
			t.Fatalf("DefaultCamera: %v", err)
		}

		// The center lands in the middle and every vertex on screen.
		p, ok := cam.ProjectToDevice(mesh.Center(), size.w, size.h)
		if !ok || p.X != size.w/2 || p.Y != size.h/2 {
			t.Errorf("%dx%d: center projects to %v", size.w, size.h, p)
		}
		for i := range mesh.VertexCount() {
			pos, _ := mesh.GetVertex(i)
			xs, ys, ok := cam.Project(pos)
			if !ok || math.Abs(xs) > 1 || math.Abs(ys) > 1 {
				t.Errorf("%dx%d: vertex %d projects to (%v, %v)", size.w, size.h, i, xs, ys)
			}
		}
	}

	if _, err := DefaultCamera(nil, 1); err != nil {
		t.Errorf("DefaultCamera(nil): %v", err)
	}
}

func TestRenderLoadedScene(t *testing.T) {
	s, err := Parse(strings.NewReader(triangleScene), "tri.byu")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	opts := render.DefaultOptions()
	opts.Background = render.ColorGray
	r := render.NewRasterizer(100, 100, opts)

	if err := r.RenderScene(s); err != nil {
		t.Fatalf("RenderScene: %v", err)
	}
	if got := r.ZBuffer().GetPixel(50, 50); got != render.ColorBlack {
		t.Errorf("unlit center = %v, want black", got)
	}
	if d := r.ZBuffer().Depth(50, 50); math.Abs(d-5) > 1e-9 {
		t.Errorf("center depth = %v, want 5", d)
	}
	if got := r.ZBuffer().GetPixel(5, 5); got != render.ColorGray {
		t.Errorf("corner = %v, want background", got)
	}

	s.SetLight(DefaultLight(s.Mesh))
	if err := r.RenderScene(s); err != nil {
		t.Fatalf("RenderScene: %v", err)
	}
	if got := r.ZBuffer().GetPixel(50, 50); got == render.ColorBlack {
		t.Error("lit center is still black")
	}
}
