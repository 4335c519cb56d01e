package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSnapXZ(t *testing.T) {
	got := SnapXZ(mgl64.Vec3{3.06, 1.234, 7.94}, 0.1)
	if math.Abs(got[0]-3.1) > 1e-9 {
		t.Errorf("x = %v, want 3.1", got[0])
	}
	if got[1] != 1.234 {
		t.Errorf("y changed: %v", got[1])
	}
	if math.Abs(got[2]-7.9) > 1e-9 {
		t.Errorf("z = %v, want 7.9", got[2])
	}
}

func TestSnapXZZeroStep(t *testing.T) {
	p := mgl64.Vec3{1.23, 4, 5.67}
	if got := SnapXZ(p, 0); got != p {
		t.Errorf("got %v, want %v", got, p)
	}
}

func TestEulerRoundTrip(t *testing.T) {
	cases := []Euler{
		{0, 0, 0},
		{math.Pi / 2, 0, 0},
		{0, 0, math.Pi / 2},
		{0.3, -0.4, 1.2},
		{math.Pi/2 - 0.78, 0, 0},
	}
	for _, e := range cases {
		q := e.Quat()
		back := EulerFromQuat(q)
		if !SameOrientation(q, back.Quat(), 1e-9) {
			t.Errorf("%v -> %v does not describe the same rotation", e, back)
		}
	}
}

func TestComposeIsIntrinsic(t *testing.T) {
	base := Euler{0, 0, math.Pi / 2}
	got := Compose(base, 0.1, 0, 0)

	want := base.Quat().Mul(mgl64.QuatRotate(0.1, AxisY))
	if !SameOrientation(got, want, 1e-12) {
		t.Fatalf("compose = %v, want %v", got, want)
	}

	world := mgl64.QuatRotate(0.1, AxisY).Mul(base.Quat())
	if SameOrientation(got, world, 1e-6) {
		t.Errorf("yaw was applied about the world axis")
	}
}

func TestComposeOrder(t *testing.T) {
	got := Compose(Euler{}, 0.2, 0.3, 0.4)
	want := mgl64.QuatRotate(0.2, AxisY).
		Mul(mgl64.QuatRotate(0.3, AxisX)).
		Mul(mgl64.QuatRotate(0.4, AxisZ))
	if !SameOrientation(got, want, 1e-12) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTilt(t *testing.T) {
	if tilt := Tilt(Euler{}.Quat()); tilt > 1e-9 {
		t.Errorf("flat tilt = %v", tilt)
	}
	if tilt := Tilt(Euler{math.Pi, 0, 0}.Quat()); tilt > 1e-6 {
		t.Errorf("face-down tilt = %v", tilt)
	}
	if tilt := Tilt(Euler{math.Pi / 2, 0, 0}.Quat()); math.Abs(tilt-math.Pi/2) > 1e-6 {
		t.Errorf("standing tilt = %v", tilt)
	}
}

func TestVerticalHalfExtent(t *testing.T) {
	half := mgl64.Vec3{1.0, 0.01, 1.4}
	cases := []struct {
		name string
		rot  Euler
		want float64
	}{
		{"flat", Euler{}, 0.01},
		{"short edge down", Euler{math.Pi / 2, 0, 0}, 1.4},
		{"long edge down", Euler{0, 0, math.Pi / 2}, 1.0},
	}
	for _, tc := range cases {
		got := VerticalHalfExtent(tc.rot.Quat(), half)
		if math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
