package math

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func nearVec(a, b Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}

	got := m.TransformVec3(Vec3{1, 1, 1})
	if got != (Vec3{6, 11, 16}) {
		t.Errorf("TransformVec3 = %v, want (6, 11, 16)", got)
	}
}

func TestMulOrder(t *testing.T) {
	// T * R applies R first: (1,0,0) rotated 90 deg about Y is (0,0,-1), then moved.
	m := Translate(10, 0, 0).Mul(RotateY(math.Pi / 2))
	got := m.TransformVec3(Vec3{1, 0, 0})
	if !nearVec(got, Vec3{10, 0, -1}) {
		t.Errorf("T*R point = %v, want (10, 0, -1)", got)
	}

	// R * T moves first, then rotates about the origin.
	m = RotateY(math.Pi / 2).Mul(Translate(10, 0, 0))
	got = m.TransformVec3(Vec3{1, 0, 0})
	if !nearVec(got, Vec3{0, 0, -11}) {
		t.Errorf("R*T point = %v, want (0, 0, -11)", got)
	}
}

func TestRotateZ(t *testing.T) {
	got := RotateZ(math.Pi / 2).TransformVec3(Vec3{1, 0, 0})
	if !nearVec(got, Vec3{0, 1, 0}) {
		t.Errorf("RotateZ(90) * X = %v, want Y", got)
	}
}

func TestRow(t *testing.T) {
	m := Translate(1, 2, 3)
	if r := m.Row(0); r != (Vec4{1, 0, 0, 1}) {
		t.Errorf("Row(0) = %v", r)
	}
	if r := m.Row(3); r != (Vec4{0, 0, 0, 1}) {
		t.Errorf("Row(3) = %v", r)
	}
}

func TestPerspectiveMapsNearAndFar(t *testing.T) {
	p := Perspective(Radians(45), 1, 0.1, 100)

	clip := p.MulVec4(Vec4{0, 0, -0.1, 1})
	if !near(clip[2]/clip[3], -1) {
		t.Errorf("near plane NDC z = %f, want -1", clip[2]/clip[3])
	}
	clip = p.MulVec4(Vec4{0, 0, -100, 1})
	if !near(clip[2]/clip[3], 1) {
		t.Errorf("far plane NDC z = %f, want 1", clip[2]/clip[3])
	}
}

func TestLookAtForward(t *testing.T) {
	view := LookAt(Vec3{0, 0, 5}, Vec3{0, 0, 0}, Vec3{0, 1, 0})
	got := view.TransformVec3(Vec3{0, 0, 0})
	if !nearVec(got, Vec3{0, 0, -5}) {
		t.Errorf("origin in view space = %v, want (0, 0, -5)", got)
	}
}

func TestFromFloat64(t *testing.T) {
	var src [16]float64
	for i := range src {
		src[i] = float64(i) * 0.5
	}
	m := FromFloat64(src)
	if m[3] != 1.5 || m[15] != 7.5 {
		t.Errorf("FromFloat64 = %v", m)
	}
}
