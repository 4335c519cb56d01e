package session

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/arcanaland/cardhouse/internal/card"
	"github.com/arcanaland/cardhouse/internal/geom"
	"github.com/arcanaland/cardhouse/internal/physics"
	"github.com/arcanaland/cardhouse/internal/state"
)

// CardView is a card with its simulated pose.
type CardView struct {
	card.Card
	BodyPosition mgl64.Vec3
	BodyRotation geom.Euler
	Mass         float64
	Sleeping     bool
	Body         physics.State
}

// GhostView is the placement indicator.
type GhostView struct {
	Position mgl64.Vec3
	Rotation geom.Euler
	Target   mgl64.Vec3
	Yaw      float64
	Pitch    float64
	Roll     float64
}

// View is everything a renderer or HUD needs for one frame.
type View struct {
	State   state.State
	Preset  string
	Cards   []CardView
	Ghost   *GhostView
	Stats   physics.Stats
	Version uint64
	Tick    uint64
}

// View captures the table.
func (s *Session) View() View {
	v := View{
		State:   *s.st,
		Stats:   s.physics.Stats(),
		Version: s.version,
		Tick:    s.ticks,
	}
	if p, ok := s.presets.Active(); ok {
		v.Preset = p.Name
	}

	for _, c := range s.cards.Cards() {
		cv := CardView{Card: c, BodyPosition: c.Position, BodyRotation: c.Rotation}
		if st, ok := s.physics.State(c.ID); ok {
			cv.Body = st
		}
		if h, ok := s.physics.Handle(c.ID); ok {
			if b, ok := s.engine.Body(h); ok {
				cv.BodyPosition = b.Position
				cv.BodyRotation = geom.EulerFromQuat(b.Rotation)
				cv.Mass = b.Mass
				cv.Sleeping = b.Sleeping
			}
		}
		v.Cards = append(v.Cards, cv)
	}

	if pos, rot, ok := s.ghost.Indicator(); ok {
		target, _ := s.ghost.Target()
		yaw, pitch, roll := s.ghost.Offsets()
		v.Ghost = &GhostView{
			Position: pos,
			Rotation: geom.EulerFromQuat(rot),
			Target:   target,
			Yaw:      yaw,
			Pitch:    pitch,
			Roll:     roll,
		}
	}
	return v
}

// Settled reports whether no unlocked body is still moving.
func (s *Session) Settled() bool {
	for _, c := range s.cards.Cards() {
		h, ok := s.physics.Handle(c.ID)
		if !ok {
			continue
		}
		b, ok := s.engine.Body(h)
		if !ok {
			continue
		}
		if b.Mass > 0 && !b.Sleeping {
			return false
		}
	}
	return true
}
