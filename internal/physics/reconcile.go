// Package physics keeps each card's simulated body in step with the card's
// lock flag.
//
// Every body goes through a two-state machine:
//
//	Dynamic --lock--> Locked    mass 0, linear and angular velocity zeroed
//	Locked --unlock--> Dynamic  standard mass, woken, tiny upward nudge
//
// Bodies are always created Dynamic and demoted straight away when the card
// is locked. Simulators decide a body's kind when it is created, and a body
// born with zero mass never moves again even after its mass is raised.
// Transitions are edge-triggered: they run only when the card's flag differs
// from the state last applied to its body.
package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/arcanaland/cardhouse/internal/card"
	"github.com/arcanaland/cardhouse/internal/sim"
)

const (
	// StandardMass is the mass of an unlocked card.
	StandardMass = 0.1

	LinearDamping  = 0.5
	AngularDamping = 0.5
	Friction       = 0.9
	Restitution    = 0.0
)

// WakeNudge is the velocity given to a body on unlock so the solver
// re-integrates it on the next step. Too small to see.
var WakeNudge = mgl64.Vec3{0, 0.01, 0}

// Simulator is what the reconciler needs from a rigid-body engine.
type Simulator interface {
	CreateBody(d sim.BodyDesc) sim.Handle
	Destroy(h sim.Handle)
	SetMass(h sim.Handle, m float64)
	SetVelocity(h sim.Handle, v mgl64.Vec3)
	SetAngularVelocity(h sim.Handle, v mgl64.Vec3)
	WakeUp(h sim.Handle)
	SetPose(h sim.Handle, pos mgl64.Vec3, rot mgl64.Quat)
	Body(h sim.Handle) (sim.Body, bool)
}

// State of a card's body.
type State int

const (
	Dynamic State = iota
	Locked
)

func (s State) String() string {
	if s == Locked {
		return "locked"
	}
	return "dynamic"
}

func stateFor(locked bool) State {
	if locked {
		return Locked
	}
	return Dynamic
}

// Stats counts what the reconciler has done.
type Stats struct {
	Created   int
	Destroyed int
	Locks     int
	Unlocks   int
}

type binding struct {
	handle sim.Handle
	state  State
}

// Reconciler maps card ids to bodies it owns. It reads cards and never
// writes to them.
type Reconciler struct {
	sim    Simulator
	bodies map[string]*binding
	stats  Stats
	log    *zap.Logger
}

// New returns a reconciler driving s.
func New(s Simulator, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{sim: s, bodies: make(map[string]*binding), log: log}
}

// Sync creates bodies for new cards, applies lock flips, and destroys bodies
// whose card is gone.
func (r *Reconciler) Sync(cards []card.Card) {
	seen := make(map[string]struct{}, len(cards))
	for _, c := range cards {
		seen[c.ID] = struct{}{}
		r.Apply(c)
	}
	for id, b := range r.bodies {
		if _, ok := seen[id]; !ok {
			r.destroy(id, b)
		}
	}
}

// Apply reconciles a single card, creating its body if needed.
func (r *Reconciler) Apply(c card.Card) {
	b, ok := r.bodies[c.ID]
	if !ok {
		r.create(c)
		return
	}
	r.transition(c.ID, b, stateFor(c.Locked))
}

// Forget destroys the body of a removed card.
func (r *Reconciler) Forget(id string) {
	if b, ok := r.bodies[id]; ok {
		r.destroy(id, b)
	}
}

// Teleport moves the body of c to the card's pose, clears its motion and
// then applies its lock flag. Used after a drag-move.
func (r *Reconciler) Teleport(c card.Card) {
	b, ok := r.bodies[c.ID]
	if !ok {
		r.create(c)
		return
	}
	r.sim.SetPose(b.handle, c.Position, c.Rotation.Quat())
	r.sim.SetVelocity(b.handle, mgl64.Vec3{})
	r.sim.SetAngularVelocity(b.handle, mgl64.Vec3{})
	if b.state == Dynamic {
		r.sim.WakeUp(b.handle)
	}
	r.transition(c.ID, b, stateFor(c.Locked))
}

// Reset destroys every body.
func (r *Reconciler) Reset() {
	for id, b := range r.bodies {
		r.destroy(id, b)
	}
}

// Handle returns the body handle bound to a card.
func (r *Reconciler) Handle(id string) (sim.Handle, bool) {
	b, ok := r.bodies[id]
	if !ok {
		return 0, false
	}
	return b.handle, true
}

// State returns the applied state of a card's body.
func (r *Reconciler) State(id string) (State, bool) {
	b, ok := r.bodies[id]
	if !ok {
		return Dynamic, false
	}
	return b.state, true
}

// Stats returns the transition counters.
func (r *Reconciler) Stats() Stats { return r.stats }

// Len returns the number of bodies owned.
func (r *Reconciler) Len() int { return len(r.bodies) }

func (r *Reconciler) create(c card.Card) {
	h := r.sim.CreateBody(sim.BodyDesc{
		Mass:           StandardMass,
		Position:       c.Position,
		Rotation:       c.Rotation.Quat(),
		HalfExtents:    card.HalfExtents,
		LinearDamping:  LinearDamping,
		AngularDamping: AngularDamping,
		Friction:       Friction,
		Restitution:    Restitution,
	})
	b := &binding{handle: h, state: Dynamic}
	r.bodies[c.ID] = b
	r.stats.Created++
	r.log.Debug("body created", zap.String("card", c.ID), zap.Uint64("handle", uint64(h)))

	if c.Locked {
		r.lock(c.ID, b)
	}
}

func (r *Reconciler) destroy(id string, b *binding) {
	r.sim.Destroy(b.handle)
	delete(r.bodies, id)
	r.stats.Destroyed++
	r.log.Debug("body destroyed", zap.String("card", id))
}

func (r *Reconciler) transition(id string, b *binding, want State) {
	if b.state == want {
		return
	}
	if want == Locked {
		r.lock(id, b)
	} else {
		r.unlock(id, b)
	}
}

func (r *Reconciler) lock(id string, b *binding) {
	r.sim.SetMass(b.handle, 0)
	r.sim.SetVelocity(b.handle, mgl64.Vec3{})
	r.sim.SetAngularVelocity(b.handle, mgl64.Vec3{})
	b.state = Locked
	r.stats.Locks++
	r.log.Debug("body locked", zap.String("card", id))
}

func (r *Reconciler) unlock(id string, b *binding) {
	r.sim.SetMass(b.handle, StandardMass)
	r.sim.WakeUp(b.handle)
	r.sim.SetVelocity(b.handle, WakeNudge)
	b.state = Dynamic
	r.stats.Unlocks++
	r.log.Debug("body unlocked", zap.String("card", id))
}
