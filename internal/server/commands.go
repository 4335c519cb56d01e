package server

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/arcanaland/cardhouse/internal/card"
	"github.com/arcanaland/cardhouse/internal/protocol"
	"github.com/arcanaland/cardhouse/internal/session"
	"github.com/arcanaland/cardhouse/internal/state"
)

// command runs on the tick goroutine.
type command func(s *session.Session) error

// decodeCommand turns a client frame into a command.
func decodeCommand(env protocol.MsgEnvelope) (command, error) {
	switch env.Type {
	case protocol.TypeKey:
		var m protocol.Key
		if err := protocol.DecodeData(env, &m); err != nil {
			return nil, err
		}
		return func(s *session.Session) error { s.HandleKey(m.Key); return nil }, nil

	case protocol.TypePointer:
		var m protocol.Pointer
		if err := protocol.DecodeData(env, &m); err != nil {
			return nil, err
		}
		ndc := mgl64.Vec2{clampNDC(m.X), clampNDC(m.Y)}
		return func(s *session.Session) error { s.HandlePointer(ndc); return nil }, nil

	case protocol.TypeWheel:
		var m protocol.Wheel
		if err := protocol.DecodeData(env, &m); err != nil {
			return nil, err
		}
		return func(s *session.Session) error { s.HandleWheel(m.DeltaY); return nil }, nil

	case protocol.TypeClick:
		return func(s *session.Session) error { s.HandleClick(); return nil }, nil
	case protocol.TypePress:
		return func(s *session.Session) error { s.HandlePress(); return nil }, nil
	case protocol.TypeRelease:
		return func(s *session.Session) error { s.HandleRelease(); return nil }, nil

	case protocol.TypeAddCard:
		var m protocol.AddCard
		if err := protocol.DecodeData(env, &m); err != nil {
			return nil, err
		}
		if m.Suit != "" && !m.Suit.Valid() {
			return nil, fmt.Errorf("unknown suit %q", m.Suit)
		}
		if m.Rank != "" && !card.ValidRank(m.Rank) {
			return nil, fmt.Errorf("unknown rank %q", m.Rank)
		}
		c := card.Card{ID: m.ID, Position: m.Position, Rotation: m.Rotation, Suit: m.Suit, Rank: m.Rank}
		if c.Suit != "" && c.Rank == "" {
			c.Rank = "A"
		}
		return func(s *session.Session) error {
			_, err := s.AddCard(c)
			return err
		}, nil

	case protocol.TypeRemoveCard:
		var m protocol.RemoveCard
		if err := protocol.DecodeData(env, &m); err != nil {
			return nil, err
		}
		return func(s *session.Session) error { s.RemoveCard(m.ID); return nil }, nil

	case protocol.TypeUpdateCard:
		var m protocol.UpdateCard
		if err := protocol.DecodeData(env, &m); err != nil {
			return nil, err
		}
		return func(s *session.Session) error {
			if _, ok := s.UpdateCard(m.ID, m.Position, m.Rotation); !ok {
				return fmt.Errorf("unknown card %s", m.ID)
			}
			return nil
		}, nil

	case protocol.TypeClearCards:
		return func(s *session.Session) error { s.ClearCards(); return nil }, nil

	case protocol.TypeSetAllLocked:
		var m protocol.SetAllLocked
		if err := protocol.DecodeData(env, &m); err != nil {
			return nil, err
		}
		return func(s *session.Session) error { s.SetAllLocked(m.Locked); return nil }, nil

	case protocol.TypeSelectPreset:
		var m protocol.SelectPreset
		if err := protocol.DecodeData(env, &m); err != nil {
			return nil, err
		}
		return func(s *session.Session) error { return s.SelectPreset(m.ID) }, nil

	case protocol.TypeSetMode:
		var m protocol.SetMode
		if err := protocol.DecodeData(env, &m); err != nil {
			return nil, err
		}
		return decodeSetMode(m)

	case protocol.TypeSave:
		return func(s *session.Session) error { return s.Save() }, nil
	case protocol.TypeLoad:
		return func(s *session.Session) error { return s.Load() }, nil
	}
	return nil, fmt.Errorf("unknown message type %q", env.Type)
}

func decodeSetMode(m protocol.SetMode) (command, error) {
	var interaction *state.InteractionMode
	switch im := state.InteractionMode(m.Interaction); im {
	case "":
	case state.Quick, state.Precision:
		interaction = &im
	default:
		return nil, fmt.Errorf("unknown interaction mode %q", m.Interaction)
	}

	var pointer *state.PointerMode
	switch pm := state.PointerMode(m.Pointer); pm {
	case "":
	case state.Place, state.Delete, state.Move:
		pointer = &pm
	default:
		return nil, fmt.Errorf("unknown pointer mode %q", m.Pointer)
	}

	return func(s *session.Session) error {
		if interaction != nil {
			s.SetInteraction(*interaction)
		}
		if pointer != nil {
			s.SetPointerMode(*pointer)
		}
		return nil
	}, nil
}

func clampNDC(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// tableFrame converts a session view to its wire form.
func tableFrame(v session.View) protocol.Table {
	t := protocol.Table{
		Version:     v.Version,
		Tick:        v.Tick,
		Freeze:      v.State.Freeze,
		PresetID:    v.State.PresetID,
		Preset:      v.Preset,
		Interaction: string(v.State.Interaction),
		Pointer:     string(v.State.Pointer),
		Dragging:    v.State.DraggingID,
		Cards:       make([]protocol.CardState, 0, len(v.Cards)),
		Stats: protocol.Stats{
			Created:   v.Stats.Created,
			Destroyed: v.Stats.Destroyed,
			Locks:     v.Stats.Locks,
			Unlocks:   v.Stats.Unlocks,
		},
	}
	for _, c := range v.Cards {
		t.Cards = append(t.Cards, protocol.CardState{
			Card: c.Card,
			Body: protocol.Body{
				Position: c.BodyPosition,
				Rotation: c.BodyRotation,
				Mass:     c.Mass,
				Sleeping: c.Sleeping,
				State:    c.Body.String(),
			},
		})
	}
	if g := v.Ghost; g != nil {
		t.Ghost = &protocol.Ghost{
			Position: g.Position,
			Rotation: g.Rotation,
			Target:   g.Target,
			Offsets:  [3]float64{g.Yaw, g.Pitch, g.Roll},
		}
	}
	return t
}
