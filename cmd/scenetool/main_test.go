package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/walkthrough/pkg/formats/formatstest"
)

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	floor := formatstest.WriteGLTF(t, dir, "floor.gltf", formatstest.DefaultTriangle("chao"))
	door := formatstest.WriteGLB(t, dir, "door.glb", formatstest.DefaultTriangle("porta_front_1"))

	var out bytes.Buffer
	require.NoError(t, run("info", []string{floor, door}, &out))

	text := out.String()
	assert.Contains(t, text, "(text)")
	assert.Contains(t, text, "(binary)")
	assert.Contains(t, text, "Meshes:   2")
	assert.Contains(t, text, "Doors:    1")
	assert.Contains(t, text, "Floor:    chao (mesh 0)")
	assert.Contains(t, text, "Door")
}

func TestBoxesRoleFilter(t *testing.T) {
	dir := t.TempDir()
	floor := formatstest.WriteGLTF(t, dir, "floor.gltf", formatstest.DefaultTriangle("chao"))
	stair := formatstest.WriteGLTF(t, dir, "stair.gltf", formatstest.DefaultTriangle("escada"))

	var out bytes.Buffer
	require.NoError(t, run("boxes", []string{"-role", "stair", floor, stair}, &out))

	assert.Contains(t, out.String(), "escada")
	assert.NotContains(t, out.String(), "chao")
}

func TestHeight(t *testing.T) {
	dir := t.TempDir()
	floor := formatstest.WriteGLTF(t, dir, "floor.gltf", formatstest.DefaultTriangle("chao"))

	var out bytes.Buffer
	require.NoError(t, run("height", []string{floor, "0.5", "0.5"}, &out))
	assert.Contains(t, out.String(), "height(0.500, 0.500) = 0.1000")
}

func TestHeightUsage(t *testing.T) {
	var out bytes.Buffer
	err := run("height", []string{"only.gltf"}, &out)
	assert.True(t, errors.Is(err, errUsage))

	err = run("height", []string{"a.gltf", "x", "1"}, &out)
	assert.True(t, errors.Is(err, errUsage))
}

func TestDoors(t *testing.T) {
	dir := t.TempDir()
	door := formatstest.WriteGLTF(t, dir, "door.gltf", formatstest.DefaultTriangle("porta_front_2"))

	var out bytes.Buffer
	require.NoError(t, run("doors", []string{door}, &out))
	assert.Contains(t, out.String(), "porta_front_2")
	assert.Contains(t, out.String(), "hinge high")
}

func TestCull(t *testing.T) {
	dir := t.TempDir()
	tri := formatstest.WriteGLTF(t, dir, "tri.gltf", formatstest.DefaultTriangle("mesa"))

	var out bytes.Buffer
	require.NoError(t, run("cull", []string{"-pos", "0.5,1,-3", "-yaw", "90", "-pitch", "0", "-list", tri}, &out))
	assert.Contains(t, out.String(), "visible 1 of 1 meshes")
	assert.Contains(t, out.String(), "mesa")

	out.Reset()
	require.NoError(t, run("cull", []string{"-pos", "0.5,1,-3", "-yaw", "-90", "-pitch", "0", tri}, &out))
	assert.Contains(t, out.String(), "visible 0 of 1 meshes")
}

func TestPick(t *testing.T) {
	dir := t.TempDir()
	door := formatstest.WriteGLTF(t, dir, "door.gltf", formatstest.DefaultTriangle("porta_interna_1"))

	var out bytes.Buffer
	require.NoError(t, run("pick", []string{"-pos", "0.5,0,-3", "-yaw", "90", "-pitch", "0", door}, &out))
	assert.Contains(t, out.String(), "porta_interna_1 (Door) at 2.900")

	out.Reset()
	require.NoError(t, run("pick", []string{"-pos", "0.5,0,-3", "-yaw", "-90", "-pitch", "0", door}, &out))
	assert.Contains(t, out.String(), "nothing in view")
}

func TestUnknownCommandAndMissingFile(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, errors.Is(run("explode", nil, &out), errUsage))

	err := run("info", []string{"/nonexistent/scene.gltf"}, &out)
	require.Error(t, err)
	assert.False(t, errors.Is(err, errUsage))

	assert.True(t, errors.Is(run("info", nil, &out), errUsage))
}

func TestParseVec3(t *testing.T) {
	v, err := parseVec3("1, 2.5,-3")
	require.NoError(t, err)
	assert.Equal(t, float32(1), v.X)
	assert.Equal(t, float32(2.5), v.Y)
	assert.Equal(t, float32(-3), v.Z)

	_, err = parseVec3("1,2")
	assert.Error(t, err)
}
