// Package stl reads and writes STL files as mesh.TriMesh values. It is
// the CLI's mesh carrier; the pipeline core itself never touches files.
// Both ASCII and binary STL are read, detected automatically; writing
// is always binary.
package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/mesh"
)

// weldTol is the coordinate quantum used to merge coincident STL facet
// corners into shared vertices. STL stores float32, so anything below
// its resolution is the same point.
const weldTol = 1e-5

// Read loads an STL file into an indexed mesh, welding coincident
// facet corners so the result has real connectivity.
func Read(filename string) (*mesh.TriMesh, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}
	defer f.Close()

	head := make([]byte, 5)
	n, err := f.Read(head)
	if err != nil {
		return nil, fmt.Errorf("stl: read header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}
	if n == 5 && string(head) == "solid" {
		// ASCII unless the binary payload happens to start with
		// "solid"; a parse failure falls through to binary.
		m, aerr := readASCII(f)
		if aerr == nil {
			return m, nil
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("stl: %w", err)
		}
	}
	return readBinary(f)
}

func readASCII(r io.Reader) (*mesh.TriMesh, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	var corners []r3.Vec
	for scanner.Scan() {
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) >= 4 && fields[0] == "vertex" {
			x, errX := strconv.ParseFloat(fields[1], 64)
			y, errY := strconv.ParseFloat(fields[2], 64)
			z, errZ := strconv.ParseFloat(fields[3], 64)
			if errX != nil || errY != nil || errZ != nil {
				return nil, fmt.Errorf("stl: malformed vertex line %q", scanner.Text())
			}
			corners = append(corners, r3.Vec{X: x, Y: y, Z: z})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}
	if len(corners) == 0 || len(corners)%3 != 0 {
		return nil, fmt.Errorf("stl: ascii parse found %d vertices", len(corners))
	}
	return mesh.FromTriangleSoup(corners, weldTol), nil
}

func readBinary(r io.Reader) (*mesh.TriMesh, error) {
	header := make([]byte, 80)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("stl: read header: %w", err)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("stl: read triangle count: %w", err)
	}
	corners := make([]r3.Vec, 0, int(count)*3)
	var rec struct {
		Normal    [3]float32
		Verts     [3][3]float32
		Attribute uint16
	}
	for i := uint32(0); i < count; i++ {
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("stl: triangle %d: %w", i, err)
		}
		for _, v := range rec.Verts {
			corners = append(corners, r3.Vec{
				X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2]),
			})
		}
	}
	return mesh.FromTriangleSoup(corners, weldTol), nil
}

// Write stores m as a binary STL file.
func Write(filename string, m *mesh.TriMesh) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	header := make([]byte, 80)
	copy(header, "osteoplan")
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	for ti, t := range m.Tris {
		n := m.FaceNormal(ti)
		if l := r3.Norm(n); l > 0 {
			n = r3.Scale(1/l, n)
		}
		rec := struct {
			Normal    [3]float32
			Verts     [3][3]float32
			Attribute uint16
		}{
			Normal: [3]float32{float32(n.X), float32(n.Y), float32(n.Z)},
		}
		for k, vi := range t {
			v := m.Vertices[vi]
			rec.Verts[k] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
		}
		if err := binary.Write(w, binary.LittleEndian, rec); err != nil {
			return fmt.Errorf("stl: triangle %d: %w", ti, err)
		}
	}
	return w.Flush()
}
