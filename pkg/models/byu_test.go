package models

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const pyramidBYU = `5 4
0 0 0
1 0 0
1 1 0
0 1 0
0.5 0.5 1

1 2 5
2 3 5
3 4 5
4 1 -5
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadBYU(t *testing.T) {
	mesh, err := LoadBYU(writeFile(t, "pyramid.byu", pyramidBYU))
	if err != nil {
		t.Fatalf("LoadBYU: %v", err)
	}

	if mesh.VertexCount() != 5 {
		t.Errorf("VertexCount = %d, want 5", mesh.VertexCount())
	}
	if mesh.TriangleCount() != 4 {
		t.Errorf("TriangleCount = %d, want 4", mesh.TriangleCount())
	}
	if got := mesh.GetFace(3); got != [3]int{3, 0, 4} {
		t.Errorf("face 3 = %v, want [3 0 4] (negative index read as absolute)", got)
	}
	if !mesh.HasNormals() {
		t.Error("loader should assign smooth normals")
	}
	if mesh.BoundsMax.Z != 1 {
		t.Errorf("BoundsMax = %v, want z=1", mesh.BoundsMax)
	}
}

func TestLoadBYUMultipleObjects(t *testing.T) {
	src := "3 1\n0 0 0\n1 0 0\n0 1 0\n1 2 3\n3 1\n0 0 1\n1 0 1\n0 1 1\n3 2 1\n"
	mesh, err := LoadBYU(writeFile(t, "two.byu", src))
	if err != nil {
		t.Fatalf("LoadBYU: %v", err)
	}
	if mesh.VertexCount() != 6 || mesh.TriangleCount() != 2 {
		t.Fatalf("got %d vertices / %d triangles, want 6 / 2", mesh.VertexCount(), mesh.TriangleCount())
	}
	if got := mesh.GetFace(1); got != [3]int{5, 4, 3} {
		t.Errorf("second object face = %v, want [5 4 3]", got)
	}
}

func TestLoadBYUErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"bad header", "three 1\n", "integer"},
		{"negative counts", "-1 0\n", "non-negative"},
		{"header token count", "1 2 3 4\n", "object header"},
		{"truncated vertices", "3 1\n0 0 0\n1 0 0\n", "expected 3 vertices, but found only 2"},
		{"short vertex", "3 0\n0 0 0\n1 0\n0 1 0\n", "vertex 2 has 2 coordinates"},
		{"non-numeric vertex", "3 0\n0 0 0\n1 x 0\n0 1 0\n", "vertex 2"},
		{"truncated triangles", "3 2\n0 0 0\n1 0 0\n0 1 0\n1 2 3\n", "expected 2 triangles, but found only 1"},
		{"short triangle", "3 1\n0 0 0\n1 0 0\n0 1 0\n1 2\n", "triangle 1 has 2 vertex indices"},
		{"index out of range", "3 1\n0 0 0\n1 0 0\n0 1 0\n1 2 4\n", "references vertex 4"},
		{"zero index", "3 1\n0 0 0\n1 0 0\n0 1 0\n0 1 2\n", "references vertex 0"},
		{"non-numeric index", "3 1\n0 0 0\n1 0 0\n0 1 0\n1 b 3\n", "expected integer vertex index"},
		{"repeated vertex", "3 1\n0 0 0\n1 0 0\n0 1 0\n1 1 3\n", "repeats a vertex"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadBYU(writeFile(t, "bad.byu", tc.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrMalformedScene) {
				t.Errorf("error %v does not wrap ErrMalformedScene", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %v is not a *ParseError", err)
			}
			if !strings.Contains(pe.Msg, tc.wantMsg) {
				t.Errorf("message %q does not contain %q", pe.Msg, tc.wantMsg)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := LoadBYU(writeFile(t, "pos.byu", "3 1\n\n0 0 0\n1 0 0\n0 1 0\n1 2 9\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Line != 6 {
		t.Errorf("Line = %d, want 6", pe.Line)
	}
	if !strings.HasSuffix(pe.Path, "pos.byu") {
		t.Errorf("Path = %q, want suffix pos.byu", pe.Path)
	}
}

func TestParseFloats(t *testing.T) {
	v, err := ParseFloats(strings.Fields("1 -2.5 3e2"))
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != 3 || v[0] != 1 || v[1] != -2.5 || v[2] != 300 {
		t.Errorf("ParseFloats = %v", v)
	}
	if _, err := ParseFloats([]string{"nope"}); err == nil {
		t.Error("expected error for non-numeric field")
	}
}

func TestLoadBYUMissingFile(t *testing.T) {
	_, err := LoadBYU(filepath.Join(t.TempDir(), "missing.byu"))
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrMalformedScene) {
		t.Error("missing file should not be reported as malformed")
	}
}
