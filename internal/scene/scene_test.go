package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

var cardHalf = mgl64.Vec3{1.0, 0.01, 1.4}

func near(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() <= eps
}

func TestCenterRayHitsFloorOrigin(t *testing.T) {
	s := New(DefaultCamera())
	hit, ok := s.Raycast(mgl64.Vec2{0, 0})
	if !ok {
		t.Fatal("no hit")
	}
	if hit.Object.Kind != Floor {
		t.Errorf("hit %v, want floor", hit.Object.Kind)
	}
	if !near(hit.Point, mgl64.Vec3{}, 1e-6) {
		t.Errorf("point = %v", hit.Point)
	}
}

func TestProjectAndRayAgree(t *testing.T) {
	cam := DefaultCamera()
	s := New(cam)
	target := mgl64.Vec3{3, 0, -2}
	hit, ok := s.Raycast(cam.Project(target))
	if !ok || !near(hit.Point, target, 1e-6) {
		t.Errorf("hit = %v, %v; want %v", hit.Point, ok, target)
	}
}

func TestCardIsNearerThanFloor(t *testing.T) {
	s := New(DefaultCamera())
	s.SetCards([]Object{{ID: "a", Position: mgl64.Vec3{0, 0.01, 0}, Rotation: mgl64.QuatIdent(), HalfExtents: cardHalf}})

	hit, ok := s.Raycast(mgl64.Vec2{0, 0})
	if !ok || hit.Object.ID != "a" {
		t.Fatalf("hit = %+v", hit.Object)
	}
	if math.Abs(hit.Point.Y()-0.02) > 1e-6 {
		t.Errorf("hit y = %v, want card top 0.02", hit.Point.Y())
	}
}

func TestGhostIsIgnored(t *testing.T) {
	s := New(DefaultCamera())
	s.SetGhost(mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent(), mgl64.Vec3{5, 1, 5})

	hit, ok := s.Raycast(mgl64.Vec2{0, 0})
	if !ok || hit.Object.Kind != Floor {
		t.Errorf("hit = %+v, %v", hit.Object, ok)
	}
	if _, ok := s.Ghost(); !ok {
		t.Error("ghost not recorded")
	}
	if n := len(s.Objects()); n != 2 {
		t.Errorf("objects = %d, want floor + ghost", n)
	}
}

func TestRotatedCard(t *testing.T) {
	s := New(DefaultCamera())
	// standing on its short edge, facing the camera
	rot := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0})
	s.SetCards([]Object{{ID: "wall", Position: mgl64.Vec3{0, 1.4, 0}, Rotation: rot, HalfExtents: cardHalf}})

	hit, ok := s.Raycast(s.Camera.Project(mgl64.Vec3{0, 1.4, 0}))
	if !ok || hit.Object.ID != "wall" {
		t.Fatalf("hit = %+v", hit.Object)
	}
	if math.Abs(hit.Point.Z()-0.01) > 1e-6 {
		t.Errorf("hit z = %v, want front face 0.01", hit.Point.Z())
	}
}

func TestMissOffTable(t *testing.T) {
	cam := DefaultCamera()
	cam.Target = mgl64.Vec3{0, 8, 0} // looking at the horizon
	s := New(cam)
	if _, ok := s.Raycast(mgl64.Vec2{0, 0.5}); ok {
		t.Error("expected no hit above the horizon")
	}
}

func TestRaycastIgnore(t *testing.T) {
	s := New(DefaultCamera())
	s.SetCards([]Object{{ID: "a", Position: mgl64.Vec3{0, 0.01, 0}, Rotation: mgl64.QuatIdent(), HalfExtents: cardHalf}})

	hit, ok := s.Raycast(mgl64.Vec2{0, 0}, "a")
	if !ok || hit.Object.Kind != Floor {
		t.Errorf("hit = %+v, want the floor under the ignored card", hit.Object)
	}
}
