package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/byuview/pkg/math3d"
)

// ErrMalformedScene is the sentinel wrapped by every scene-file parse error.
var ErrMalformedScene = errors.New("malformed scene file")

// ParseError describes a malformed line in a scene file.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// Unwrap returns ErrMalformedScene so callers can match with errors.Is.
func (e *ParseError) Unwrap() error {
	return ErrMalformedScene
}

// LineReader walks a whitespace-separated text file one non-blank line at
// a time, tracking line numbers for error reporting.
type LineReader struct {
	sc   *bufio.Scanner
	path string
	line int
	err  error
}

// NewLineReader wraps r. path is only used in error messages.
func NewLineReader(r io.Reader, path string) *LineReader {
	return &LineReader{sc: bufio.NewScanner(r), path: path}
}

// Next returns the fields of the next non-blank line. ok is false at end
// of input or on a read error (see Err).
func (lr *LineReader) Next() (fields []string, ok bool) {
	for lr.sc.Scan() {
		lr.line++
		fields = strings.Fields(lr.sc.Text())
		if len(fields) > 0 {
			return fields, true
		}
	}
	if err := lr.sc.Err(); err != nil {
		lr.err = fmt.Errorf("read %s: %w", lr.path, err)
	}
	return nil, false
}

// Err returns the first I/O error encountered, if any.
func (lr *LineReader) Err() error {
	return lr.err
}

// Line returns the number of the line most recently returned by Next.
func (lr *LineReader) Line() int {
	return lr.line
}

// Path returns the name given to NewLineReader.
func (lr *LineReader) Path() string {
	return lr.path
}

// Errorf builds a ParseError positioned at the current line.
func (lr *LineReader) Errorf(format string, args ...any) error {
	return &ParseError{Path: lr.path, Line: lr.line, Msg: fmt.Sprintf(format, args...)}
}

// Truncated reports a premature end of input, preferring an I/O error
// when there was one.
func (lr *LineReader) Truncated(format string, args ...any) error {
	if lr.err != nil {
		return lr.err
	}
	return &ParseError{Path: lr.path, Msg: fmt.Sprintf(format, args...)}
}

// ParseFloats parses every field as a float.
func ParseFloats(fields []string) (math3d.VecN, error) {
	v := make(math3d.VecN, len(fields))
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", f, err)
		}
		v[i] = x
	}
	return v, nil
}

// LoadBYU loads a mesh-only BYU file.
func LoadBYU(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open byu: %w", err)
	}
	defer f.Close()
	return ParseBYU(f, path)
}

// ParseBYU reads every object block from r into one mesh. name labels
// the mesh and positions errors.
func ParseBYU(r io.Reader, name string) (*Mesh, error) {
	lr := NewLineReader(r, name)
	mesh := NewMesh(filepath.Base(name))
	for {
		header, ok := lr.Next()
		if !ok {
			break
		}
		if len(header) != 2 {
			return nil, lr.Errorf("expected object header \"vertices triangles\", but found %q", strings.Join(header, " "))
		}
		obj, err := ReadObject(lr, header)
		if err != nil {
			return nil, err
		}
		mesh.Append(obj)
	}
	if err := lr.Err(); err != nil {
		return nil, err
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// ReadObject reads one object block whose "nv nt" header line has already
// been consumed: nv vertex lines of three coordinates followed by nt
// lines of 1-based vertex indices. Extra tokens on a line are ignored and
// a negative index (BYU end-of-polygon marker) is read as its absolute
// value. Smooth normals are computed for the returned mesh.
func ReadObject(lr *LineReader, header []string) (*Mesh, error) {
	if len(header) != 2 {
		return nil, lr.Errorf("expected two integer values, but found %q", strings.Join(header, " "))
	}
	nv, err1 := strconv.Atoi(header[0])
	nt, err2 := strconv.Atoi(header[1])
	if err1 != nil || err2 != nil || nv < 0 || nt < 0 {
		return nil, lr.Errorf("expected two non-negative integer values, but found %q", strings.Join(header, " "))
	}

	mesh := NewMesh(fmt.Sprintf("%s:%d", filepath.Base(lr.Path()), lr.Line()))
	mesh.Vertices = make([]Vertex, 0, nv)
	mesh.Triangles = make([]Triangle, 0, nt)

	for i := range nv {
		fields, ok := lr.Next()
		if !ok {
			return nil, lr.Truncated("expected %d vertices, but found only %d", nv, i)
		}
		if len(fields) < 3 {
			return nil, lr.Errorf("vertex %d has %d coordinates, expected 3", i+1, len(fields))
		}
		coords, err := ParseFloats(fields[:3])
		if err != nil {
			return nil, lr.Errorf("vertex %d: %v", i+1, err)
		}
		pos, _ := coords.Vec3()
		mesh.AddVertex(pos)
	}

	for i := range nt {
		fields, ok := lr.Next()
		if !ok {
			return nil, lr.Truncated("expected %d triangles, but found only %d", nt, i)
		}
		if len(fields) < 3 {
			return nil, lr.Errorf("triangle %d has %d vertex indices, expected 3", i+1, len(fields))
		}
		var idx [3]int
		for k := range 3 {
			n, err := strconv.Atoi(fields[k])
			if err != nil {
				return nil, lr.Errorf("triangle %d: expected integer vertex index, but found %q", i+1, fields[k])
			}
			if n < 0 {
				n = -n
			}
			if n < 1 || n > nv {
				return nil, lr.Errorf("triangle %d references vertex %d, but only %d vertices exist", i+1, n, nv)
			}
			idx[k] = n - 1
		}
		if idx[0] == idx[1] || idx[1] == idx[2] || idx[0] == idx[2] {
			return nil, lr.Errorf("triangle %d repeats a vertex: %v", i+1, fields[:3])
		}
		// Range was checked above, AddTriangle cannot fail.
		_ = mesh.AddTriangle(idx[0], idx[1], idx[2])
	}

	mesh.CalculateSmoothNormals()
	mesh.CalculateBounds()
	return mesh, nil
}
