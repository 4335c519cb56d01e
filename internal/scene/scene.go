// Package scene is the renderable side of the table as far as the placement
// controller cares: a camera, a floor, card boxes and the ghost indicator,
// and a raycast against them.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind of a scene object.
type Kind int

const (
	Floor Kind = iota
	CardBox
	Ghost
)

// FloorSize is the edge length of the square floor.
const FloorSize = 100.0

// Object is something a ray can hit.
type Object struct {
	ID          string
	Kind        Kind
	Position    mgl64.Vec3
	Rotation    mgl64.Quat
	HalfExtents mgl64.Vec3
}

// Hit is the nearest intersection of a pointer ray.
type Hit struct {
	Point    mgl64.Vec3
	Distance float64
	Object   Object
}

// Camera is a perspective camera looking at Target.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	FovY     float64 // degrees
	Aspect   float64
	Near     float64
	Far      float64
}

// DefaultCamera looks at the table origin from above and in front.
func DefaultCamera() Camera {
	return Camera{
		Position: mgl64.Vec3{0, 8, 12},
		FovY:     45,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      1000,
	}
}

// Ray returns the world-space ray through a pointer given in normalised
// device coordinates (x right, y up, both in [-1, 1]).
func (c Camera) Ray(ndc mgl64.Vec2) (origin, dir mgl64.Vec3) {
	proj := mgl64.Perspective(mgl64.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
	view := mgl64.LookAtV(c.Position, c.Target, mgl64.Vec3{0, 1, 0})
	inv := proj.Mul4(view).Inv()

	near := mgl64.TransformCoordinate(mgl64.Vec3{ndc.X(), ndc.Y(), -1}, inv)
	far := mgl64.TransformCoordinate(mgl64.Vec3{ndc.X(), ndc.Y(), 1}, inv)
	return near, far.Sub(near).Normalize()
}

// Project maps a world point to normalised device coordinates.
func (c Camera) Project(p mgl64.Vec3) mgl64.Vec2 {
	proj := mgl64.Perspective(mgl64.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
	view := mgl64.LookAtV(c.Position, c.Target, mgl64.Vec3{0, 1, 0})
	v := mgl64.TransformCoordinate(p, proj.Mul4(view))
	return mgl64.Vec2{v.X(), v.Y()}
}

// Scene holds the camera and every object.
type Scene struct {
	Camera Camera

	floor Object
	cards []Object
	ghost *Object
}

// New returns a scene with a floor at y=0.
func New(cam Camera) *Scene {
	return &Scene{
		Camera: cam,
		floor: Object{
			ID:          "floor",
			Kind:        Floor,
			Rotation:    mgl64.QuatIdent(),
			HalfExtents: mgl64.Vec3{FloorSize / 2, 0, FloorSize / 2},
		},
	}
}

// SetCards replaces the card boxes.
func (s *Scene) SetCards(objs []Object) {
	s.cards = s.cards[:0]
	for _, o := range objs {
		o.Kind = CardBox
		s.cards = append(s.cards, o)
	}
}

// SetGhost places the ghost indicator.
func (s *Scene) SetGhost(pos mgl64.Vec3, rot mgl64.Quat, half mgl64.Vec3) {
	s.ghost = &Object{ID: "ghost", Kind: Ghost, Position: pos, Rotation: rot, HalfExtents: half}
}

// Ghost returns the indicator, if placed.
func (s *Scene) Ghost() (Object, bool) {
	if s.ghost == nil {
		return Object{}, false
	}
	return *s.ghost, true
}

// Objects lists everything in the scene, ghost included.
func (s *Scene) Objects() []Object {
	out := []Object{s.floor}
	out = append(out, s.cards...)
	if s.ghost != nil {
		out = append(out, *s.ghost)
	}
	return out
}

// Raycast returns the nearest hit under the pointer. The ghost indicator is
// never hit, nor are objects whose id is listed in ignore.
func (s *Scene) Raycast(ndc mgl64.Vec2, ignore ...string) (Hit, bool) {
	origin, dir := s.Camera.Ray(ndc)

	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, o := range s.Objects() {
		if o.Kind == Ghost || contains(ignore, o.ID) {
			continue
		}
		t, ok := intersect(o, origin, dir)
		if !ok || t >= best.Distance {
			continue
		}
		best = Hit{Point: origin.Add(dir.Mul(t)), Distance: t, Object: o}
		found = true
	}
	return best, found
}

func intersect(o Object, origin, dir mgl64.Vec3) (float64, bool) {
	if o.Kind == Floor {
		return intersectFloor(o, origin, dir)
	}
	return intersectBox(o, origin, dir)
}

func intersectFloor(o Object, origin, dir mgl64.Vec3) (float64, bool) {
	if math.Abs(dir.Y()) < 1e-12 {
		return 0, false
	}
	t := (o.Position.Y() - origin.Y()) / dir.Y()
	if t < 0 {
		return 0, false
	}
	p := origin.Add(dir.Mul(t))
	if math.Abs(p.X()-o.Position.X()) > o.HalfExtents.X() || math.Abs(p.Z()-o.Position.Z()) > o.HalfExtents.Z() {
		return 0, false
	}
	return t, true
}

// intersectBox is a slab test in the box's local frame.
func intersectBox(o Object, origin, dir mgl64.Vec3) (float64, bool) {
	inv := o.Rotation.Normalize().Conjugate()
	lo := inv.Rotate(origin.Sub(o.Position))
	ld := inv.Rotate(dir)

	tmin, tmax := math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		h := o.HalfExtents[i]
		if math.Abs(ld[i]) < 1e-12 {
			if lo[i] < -h || lo[i] > h {
				return 0, false
			}
			continue
		}
		t1 := (-h - lo[i]) / ld[i]
		t2 := (h - lo[i]) / ld[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
