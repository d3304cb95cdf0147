package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
)

// Scene file errors.
var (
	ErrInvalidGLBMagic       = errors.New("invalid GLB magic: expected 'glTF'")
	ErrUnsupportedGLBVersion = errors.New("unsupported GLB version")
	ErrTruncatedGLB          = errors.New("truncated GLB data")
	ErrNoBuffers             = errors.New("scene has no buffers")
)

// glbMagic is "glTF" read as a little-endian uint32.
const glbMagic = 0x46546C67

// GLBHeaderSize is the size of the fixed binary container header.
const GLBHeaderSize = 12

// Encoding identifies the container flavour of a scene file.
type Encoding int

const (
	EncodingText   Encoding = iota // JSON document (.gltf)
	EncodingBinary                 // binary container (.glb)
)

// String returns a human-readable encoding name.
func (e Encoding) String() string {
	if e == EncodingBinary {
		return "binary"
	}
	return "text"
}

// DetectEncoding picks the container flavour from the file extension.
// Anything other than .glb is read as text.
func DetectEncoding(path string) Encoding {
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		return EncodingBinary
	}
	return EncodingText
}

// GLBHeader is the fixed header of a binary scene container.
type GLBHeader struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

// ParseGLBHeader validates the binary container header at the start of data.
// The declared total length is returned but not checked against len(data).
func ParseGLBHeader(data []byte) (*GLBHeader, error) {
	if len(data) < GLBHeaderSize {
		return nil, ErrTruncatedGLB
	}

	var h GLBHeader
	if err := binary.Read(bytes.NewReader(data[:GLBHeaderSize]), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if h.Magic != glbMagic {
		return nil, ErrInvalidGLBMagic
	}
	if h.Version != 2 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedGLBVersion, h.Version)
	}
	if h.Length < GLBHeaderSize {
		return nil, fmt.Errorf("%w: header declares %d bytes", ErrTruncatedGLB, h.Length)
	}
	return &h, nil
}

// Open reads a scene file of either encoding and resolves its buffers.
func Open(path string) (*gltf.Document, error) {
	if DetectEncoding(path) == EncodingBinary {
		if err := checkGLBFile(path); err != nil {
			return nil, fmt.Errorf("reading scene file %s: %w", path, err)
		}
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file %s: %w", path, err)
	}
	if len(doc.Buffers) == 0 {
		return nil, fmt.Errorf("reading scene file %s: %w", path, ErrNoBuffers)
	}
	return doc, nil
}

func checkGLBFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	head := make([]byte, GLBHeaderSize)
	if _, err := io.ReadFull(f, head); err != nil {
		return ErrTruncatedGLB
	}
	h, err := ParseGLBHeader(head)
	if err != nil {
		return err
	}
	if int64(h.Length) > info.Size() {
		return fmt.Errorf("%w: header declares %d bytes, file has %d", ErrTruncatedGLB, h.Length, info.Size())
	}
	return nil
}
