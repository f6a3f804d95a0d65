package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/kasynel/slicer/pkg/mesh"
)

// readSTL decodes a binary STL file into a mesh, fusing duplicate
// vertices so the slicer sees an indexed mesh. Mesh decoding is a host
// concern; the core never reads files.
func readSTL(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeSTL(f, path)
}

func decodeSTL(r io.Reader, name string) (*mesh.Mesh, error) {
	var header struct {
		Comment [80]byte
		NumTri  uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read STL header: %w", err)
	}
	if bytes.HasPrefix(bytes.TrimSpace(header.Comment[:]), []byte("solid")) {
		// Heuristic only: some binary exporters write "solid" anyway,
		// but a zero triangle count confirms an ASCII file.
		if header.NumTri == 0 {
			return nil, fmt.Errorf("%s looks like an ASCII STL; only binary STL is supported", name)
		}
	}

	m := &mesh.Mesh{Name: name}
	vertIndex := make(map[[3]float32]int)

	// 12 bytes normal + 3 vertices of 12 bytes + 2 attribute bytes.
	buf := make([]byte, 50)
	for i := 0; i < int(header.NumTri); i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read STL triangle %d: %w", i, err)
		}
		var tri [3]int
		for v := 0; v < 3; v++ {
			var vert [3]float32
			for c := 0; c < 3; c++ {
				const skipNormal = 12
				bits := binary.LittleEndian.Uint32(buf[skipNormal+12*v+4*c:])
				vert[c] = math.Float32frombits(bits)
			}
			idx, ok := vertIndex[vert]
			if !ok {
				idx = len(m.Vertices)
				m.Vertices = append(m.Vertices, v3.Vec{
					X: float64(vert[0]),
					Y: float64(vert[1]),
					Z: float64(vert[2]),
				})
				vertIndex[vert] = idx
			}
			tri[v] = idx
		}
		m.Triangles = append(m.Triangles, tri)
	}
	return m, nil
}
