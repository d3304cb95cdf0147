// Package formatstest writes small scene files for tests.
package formatstest

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// Triangle is a single-triangle scene: one node named NodeName referencing
// one mesh with POSITION and indices only.
type Triangle struct {
	NodeName    string
	Positions   [9]float32
	Translation *[3]float64
}

// DefaultTriangle returns a unit right triangle on the XZ plane at the origin.
func DefaultTriangle(name string) Triangle {
	return Triangle{
		NodeName:  name,
		Positions: [9]float32{0, 0, 0, 1, 0, 0, 0, 0, 1},
	}
}

func (tr Triangle) binary() []byte {
	var buf bytes.Buffer
	for _, v := range tr.Positions {
		_ = binary.Write(&buf, binary.LittleEndian, math.Float32bits(v))
	}
	for _, i := range []uint16{0, 1, 2} {
		_ = binary.Write(&buf, binary.LittleEndian, i)
	}
	// pad to a multiple of 4
	buf.Write([]byte{0, 0})
	return buf.Bytes()
}

func (tr Triangle) document(uri string, byteLength int) map[string]any {
	node := map[string]any{"name": tr.NodeName, "mesh": 0}
	if tr.Translation != nil {
		node["translation"] = tr.Translation[:]
	}
	buffer := map[string]any{"byteLength": byteLength}
	if uri != "" {
		buffer["uri"] = uri
	}
	return map[string]any{
		"asset":  map[string]any{"version": "2.0"},
		"scene":  0,
		"scenes": []any{map[string]any{"nodes": []int{0}}},
		"nodes":  []any{node},
		"meshes": []any{map[string]any{
			"name": "shared",
			"primitives": []any{map[string]any{
				"attributes": map[string]int{"POSITION": 0},
				"indices":    1,
			}},
		}},
		"accessors": []any{
			map[string]any{
				"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3",
				"min": []float64{0, 0, 0}, "max": []float64{1, 0, 1},
			},
			map[string]any{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"},
		},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			map[string]any{"buffer": 0, "byteOffset": 36, "byteLength": 6},
		},
		"buffers": []any{buffer},
	}
}

// WriteGLTF writes the triangle as a text scene with an embedded buffer and
// returns its path.
func WriteGLTF(t testing.TB, dir, name string, tr Triangle) string {
	t.Helper()
	bin := tr.binary()
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bin)
	data, err := json.Marshal(tr.document(uri, len(bin)))
	if err != nil {
		t.Fatalf("marshal scene: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	return path
}

// WriteGLB writes the triangle as a binary container and returns its path.
func WriteGLB(t testing.TB, dir, name string, tr Triangle) string {
	t.Helper()
	bin := tr.binary()
	js, err := json.Marshal(tr.document("", len(bin)))
	if err != nil {
		t.Fatalf("marshal scene: %v", err)
	}
	for len(js)%4 != 0 {
		js = append(js, ' ')
	}

	var out bytes.Buffer
	total := 12 + 8 + len(js) + 8 + len(bin)
	write := func(v uint32) { _ = binary.Write(&out, binary.LittleEndian, v) }
	write(0x46546C67)
	write(2)
	write(uint32(total))
	write(uint32(len(js)))
	write(0x4E4F534A)
	out.Write(js)
	write(uint32(len(bin)))
	write(0x004E4942)
	out.Write(bin)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	return path
}
