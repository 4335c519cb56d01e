// Package sim is a small rigid-body world for card-sized boxes. It is not a
// general engine: bodies fall, damp, rest on the floor or on the top of the
// body beneath them, and fall asleep when still. It behaves like the engines
// the reconciler was written against in one important way: a body's kind is
// fixed at creation, so a body created with zero mass never becomes dynamic.
package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/arcanaland/cardhouse/internal/geom"
)

// Handle identifies a body in a World.
type Handle uint64

// Kind is decided once, when the body is created.
type Kind int

const (
	Dynamic Kind = iota
	Static
)

func (k Kind) String() string {
	if k == Static {
		return "static"
	}
	return "dynamic"
}

// BodyDesc describes a body at creation time. Damping, friction and
// restitution cannot be changed afterwards.
type BodyDesc struct {
	Mass           float64
	Position       mgl64.Vec3
	Rotation       mgl64.Quat
	HalfExtents    mgl64.Vec3
	LinearDamping  float64
	AngularDamping float64
	Friction       float64
	Restitution    float64
}

// Body is a snapshot of a simulated body.
type Body struct {
	Handle          Handle
	Kind            Kind
	Mass            float64
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	HalfExtents     mgl64.Vec3
	LinearDamping   float64
	AngularDamping  float64
	Friction        float64
	Restitution     float64
	Sleeping        bool

	sleepy float64
}

// Bottom is the lowest y the rotated box reaches.
func (b *Body) Bottom() float64 {
	return b.Position.Y() - geom.VerticalHalfExtent(b.Rotation, b.HalfExtents)
}

// Top is the highest y the rotated box reaches.
func (b *Body) Top() float64 {
	return b.Position.Y() + geom.VerticalHalfExtent(b.Rotation, b.HalfExtents)
}

func (b *Body) footprintOverlaps(o *Body) bool {
	for _, axis := range []int{0, 2} {
		d := math.Abs(b.Position[axis] - o.Position[axis])
		r := geom.HalfExtentAlong(b.Rotation, b.HalfExtents, axis) +
			geom.HalfExtentAlong(o.Rotation, o.HalfExtents, axis)
		if d >= r {
			return false
		}
	}
	return true
}

// World owns every body. It is not safe for concurrent use.
type World struct {
	Gravity    mgl64.Vec3
	FloorY     float64
	SleepSpeed float64 // below this speed a body starts getting sleepy
	SleepTime  float64 // seconds of sleepiness before it sleeps

	bodies map[Handle]*Body
	order  []Handle
	next   Handle
}

// NewWorld returns an empty world with earth gravity and a floor at y=0.
func NewWorld() *World {
	return &World{
		Gravity:    mgl64.Vec3{0, -9.81, 0},
		SleepSpeed: 0.1,
		SleepTime:  1,
		bodies:     make(map[Handle]*Body),
	}
}

// CreateBody adds a body. Mass decides its kind for good.
func (w *World) CreateBody(d BodyDesc) Handle {
	w.next++
	h := w.next
	kind := Dynamic
	if d.Mass <= 0 {
		kind = Static
	}
	rot := d.Rotation
	if rot == (mgl64.Quat{}) {
		rot = mgl64.QuatIdent()
	}
	w.bodies[h] = &Body{
		Handle:         h,
		Kind:           kind,
		Mass:           math.Max(d.Mass, 0),
		Position:       d.Position,
		Rotation:       rot.Normalize(),
		HalfExtents:    d.HalfExtents,
		LinearDamping:  d.LinearDamping,
		AngularDamping: d.AngularDamping,
		Friction:       d.Friction,
		Restitution:    d.Restitution,
	}
	w.order = append(w.order, h)
	return h
}

// Destroy removes a body. Unknown handles are ignored.
func (w *World) Destroy(h Handle) {
	if _, ok := w.bodies[h]; !ok {
		return
	}
	delete(w.bodies, h)
	for i, x := range w.order {
		if x == h {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// SetMass changes the mass. It does not change the body's kind.
func (w *World) SetMass(h Handle, m float64) {
	if b, ok := w.bodies[h]; ok {
		b.Mass = math.Max(m, 0)
	}
}

// SetVelocity overwrites the linear velocity. It does not wake the body.
func (w *World) SetVelocity(h Handle, v mgl64.Vec3) {
	if b, ok := w.bodies[h]; ok {
		b.Velocity = v
	}
}

// SetAngularVelocity overwrites the angular velocity.
func (w *World) SetAngularVelocity(h Handle, v mgl64.Vec3) {
	if b, ok := w.bodies[h]; ok {
		b.AngularVelocity = v
	}
}

// WakeUp takes a body out of sleep.
func (w *World) WakeUp(h Handle) {
	if b, ok := w.bodies[h]; ok {
		b.Sleeping = false
		b.sleepy = 0
	}
}

// SetPose teleports a body.
func (w *World) SetPose(h Handle, pos mgl64.Vec3, rot mgl64.Quat) {
	if b, ok := w.bodies[h]; ok {
		b.Position = pos
		b.Rotation = rot.Normalize()
	}
}

// Body returns a copy of the body state.
func (w *World) Body(h Handle) (Body, bool) {
	b, ok := w.bodies[h]
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// Bodies returns copies of all bodies in creation order.
func (w *World) Bodies() []Body {
	out := make([]Body, 0, len(w.order))
	for _, h := range w.order {
		out = append(out, *w.bodies[h])
	}
	return out
}

// Len returns the number of bodies.
func (w *World) Len() int { return len(w.order) }

// Step advances the world by dt seconds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for _, h := range w.order {
		b := w.bodies[h]
		if b.Kind == Static || b.Sleeping {
			continue
		}
		prevBottom := b.Bottom()
		w.integrate(b, dt)
		if b.Mass > 0 {
			w.resolveSupport(b, prevBottom, dt)
		}
		w.updateSleep(b, dt)
	}
}

func (w *World) integrate(b *Body, dt float64) {
	// gravity acts through inverse mass, so a zero-mass dynamic body only
	// carries the velocity it already has
	if b.Mass > 0 {
		b.Velocity = b.Velocity.Add(w.Gravity.Mul(dt))
	}
	b.Velocity = b.Velocity.Mul(math.Pow(1-b.LinearDamping, dt))
	b.AngularVelocity = b.AngularVelocity.Mul(math.Pow(1-b.AngularDamping, dt))

	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	if speed := b.AngularVelocity.Len(); speed > 0 {
		dq := mgl64.QuatRotate(speed*dt, b.AngularVelocity.Mul(1/speed))
		b.Rotation = dq.Mul(b.Rotation).Normalize()
	}
}

// resolveSupport rests b on the floor or on the highest body it was above
// before this step.
func (w *World) resolveSupport(b *Body, prevBottom, dt float64) {
	const eps = 1e-9
	support := w.FloorY
	for _, h := range w.order {
		o := w.bodies[h]
		if o == b || !b.footprintOverlaps(o) {
			continue
		}
		top := o.Top()
		if top <= prevBottom+eps && top > support {
			support = top
		}
	}

	bottom := b.Bottom()
	if bottom > support {
		return
	}
	b.Position[1] += support - bottom
	if b.Velocity.Y() < 0 {
		b.Velocity[1] = -b.Velocity.Y() * b.Restitution
	}
	grip := math.Pow(1-clamp01(b.Friction), dt)
	b.Velocity[0] *= grip
	b.Velocity[2] *= grip
	b.AngularVelocity = b.AngularVelocity.Mul(grip)
}

func (w *World) updateSleep(b *Body, dt float64) {
	if b.Velocity.Len()+b.AngularVelocity.Len() >= w.SleepSpeed {
		b.sleepy = 0
		return
	}
	b.sleepy += dt
	if b.sleepy >= w.SleepTime {
		b.Sleeping = true
		b.Velocity = mgl64.Vec3{}
		b.AngularVelocity = mgl64.Vec3{}
	}
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
