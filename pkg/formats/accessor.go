package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
)

// Accessor decoding errors. ErrNoData marks a legitimately absent
// attribute; every other error means the file is malformed.
var (
	ErrNoData               = errors.New("accessor has no buffer view")
	ErrOutOfRange           = errors.New("reference out of range")
	ErrBufferOverrun        = errors.New("accessor range exceeds buffer")
	ErrUnsupportedComponent = errors.New("unsupported component type")
)

// span is the resolved byte window of one accessor.
type span struct {
	data   []byte
	offset int
	stride int
	comps  int
	size   int // bytes per component
	count  int
}

func resolve(doc *gltf.Document, index int) (*gltf.Accessor, *gltf.BufferView, []byte, error) {
	if index < 0 || index >= len(doc.Accessors) {
		return nil, nil, nil, fmt.Errorf("%w: accessor %d of %d", ErrOutOfRange, index, len(doc.Accessors))
	}
	acc := doc.Accessors[index]
	if acc == nil || acc.BufferView == nil {
		return nil, nil, nil, ErrNoData
	}

	bvIndex := *acc.BufferView
	if bvIndex < 0 || bvIndex >= len(doc.BufferViews) {
		return nil, nil, nil, fmt.Errorf("%w: bufferView %d of %d", ErrOutOfRange, bvIndex, len(doc.BufferViews))
	}
	bv := doc.BufferViews[bvIndex]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, nil, nil, fmt.Errorf("%w: buffer %d of %d", ErrOutOfRange, bv.Buffer, len(doc.Buffers))
	}
	return acc, bv, doc.Buffers[bv.Buffer].Data, nil
}

// DecodeAccessor reads accessor index as count*components float32 values.
//
// Float components pass through. When texCoord is set, unsigned byte and
// unsigned short components are normalized to [0,1]; every other encoding
// is rejected.
func DecodeAccessor(doc *gltf.Document, index int, texCoord bool) ([]float32, error) {
	acc, bv, data, err := resolve(doc, index)
	if err != nil {
		return nil, err
	}

	switch acc.ComponentType {
	case gltf.ComponentFloat:
	case gltf.ComponentUbyte, gltf.ComponentUshort:
		if !texCoord {
			return nil, fmt.Errorf("%w: %v outside texture coordinates", ErrUnsupportedComponent, acc.ComponentType)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedComponent, acc.ComponentType)
	}

	s := span{
		data:   data,
		offset: bv.ByteOffset + acc.ByteOffset,
		comps:  acc.Type.Components(),
		size:   acc.ComponentType.ByteSize(),
		count:  acc.Count,
	}
	s.stride = bv.ByteStride
	if s.stride == 0 {
		s.stride = s.comps * s.size
	}
	if err := s.check(); err != nil {
		return nil, err
	}

	out := make([]float32, s.count*s.comps)
	for i := 0; i < s.count; i++ {
		base := s.offset + i*s.stride
		for c := 0; c < s.comps; c++ {
			p := base + c*s.size
			var v float32
			switch acc.ComponentType {
			case gltf.ComponentFloat:
				v = math.Float32frombits(binary.LittleEndian.Uint32(data[p:]))
			case gltf.ComponentUbyte:
				v = float32(data[p]) / 255
			case gltf.ComponentUshort:
				v = float32(binary.LittleEndian.Uint16(data[p:])) / 65535
			}
			out[i*s.comps+c] = v
		}
	}
	return out, nil
}

func (s span) check() error {
	if s.offset < 0 || s.count < 0 || s.stride < 0 {
		return fmt.Errorf("%w: negative offset, count or stride", ErrOutOfRange)
	}
	if s.count == 0 {
		return nil
	}
	// Compare against what is left rather than multiplying count out, so a
	// huge count cannot wrap the byte range.
	elem := s.comps * s.size
	if s.offset > len(s.data) || elem > len(s.data)-s.offset {
		return fmt.Errorf("%w: element at %d, have %d bytes", ErrBufferOverrun, s.offset, len(s.data))
	}
	if s.stride > 0 && s.count-1 > (len(s.data)-s.offset-elem)/s.stride {
		return fmt.Errorf("%w: %d elements at stride %d, have %d bytes", ErrBufferOverrun, s.count, s.stride, len(s.data))
	}
	return nil
}

// DecodeIndices reads an index accessor of unsigned 8, 16 or 32 bit
// elements, widened to uint32. Index data is tightly packed.
func DecodeIndices(doc *gltf.Document, index int) ([]uint32, error) {
	acc, bv, data, err := resolve(doc, index)
	if err != nil {
		return nil, err
	}

	var size int
	switch acc.ComponentType {
	case gltf.ComponentUint:
		size = 4
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUbyte:
		size = 1
	default:
		return nil, fmt.Errorf("%w: index type %v", ErrUnsupportedComponent, acc.ComponentType)
	}

	offset := bv.ByteOffset + acc.ByteOffset
	if offset < 0 || acc.Count < 0 {
		return nil, fmt.Errorf("%w: negative offset or count", ErrOutOfRange)
	}
	if offset > len(data) || acc.Count > (len(data)-offset)/size {
		return nil, fmt.Errorf("%w: %d indices at %d, have %d bytes", ErrBufferOverrun, acc.Count, offset, len(data))
	}

	out := make([]uint32, acc.Count)
	for i := range out {
		p := offset + i*size
		switch size {
		case 4:
			out[i] = binary.LittleEndian.Uint32(data[p:])
		case 2:
			out[i] = uint32(binary.LittleEndian.Uint16(data[p:]))
		default:
			out[i] = uint32(data[p])
		}
	}
	return out, nil
}
