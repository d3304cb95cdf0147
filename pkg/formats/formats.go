// Package formats reads scene container files and decodes their typed
// binary attribute data into flat arrays.
//
// Container parsing is delegated to github.com/qmuntal/gltf; this package
// adds encoding detection, GLB header validation and bounds-checked
// accessor decoding.
package formats
