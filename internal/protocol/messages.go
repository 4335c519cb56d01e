// Package protocol holds the JSON messages exchanged with remote UI shells
// over a websocket. Every frame is an envelope naming its payload type.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/arcanaland/cardhouse/internal/card"
	"github.com/arcanaland/cardhouse/internal/geom"
)

// Envelope
type MsgEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Message types.
const (
	// C -> S
	TypeKey          = "Key"
	TypePointer      = "Pointer"
	TypeWheel        = "Wheel"
	TypeClick        = "Click"
	TypePress        = "Press"
	TypeRelease      = "Release"
	TypeAddCard      = "AddCard"
	TypeRemoveCard   = "RemoveCard"
	TypeUpdateCard   = "UpdateCard"
	TypeClearCards   = "ClearCards"
	TypeSetAllLocked = "SetAllLocked"
	TypeSelectPreset = "SelectPreset"
	TypeSetMode      = "SetMode"
	TypeSave         = "Save"
	TypeLoad         = "Load"

	// S -> C
	TypeTable  = "Table"
	TypeNotice = "Notice"
	TypeError  = "Error"
)

// ================= C -> S =================

type Key struct {
	Key string `json:"key"`
}

// Pointer is the pointer position in normalised device coordinates.
type Pointer struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Wheel struct {
	DeltaY float64 `json:"deltaY"`
}

type Click struct{}
type Press struct{}
type Release struct{}

type AddCard struct {
	ID       string     `json:"id,omitempty"`
	Position mgl64.Vec3 `json:"position"`
	Rotation geom.Euler `json:"rotation"`
	Suit     card.Suit  `json:"suit,omitempty"`
	Rank     string     `json:"rank,omitempty"`
}

type RemoveCard struct {
	ID string `json:"id"`
}

type UpdateCard struct {
	ID       string     `json:"id"`
	Position mgl64.Vec3 `json:"position"`
	Rotation geom.Euler `json:"rotation"`
}

type ClearCards struct{}

type SetAllLocked struct {
	Locked bool `json:"locked"`
}

type SelectPreset struct {
	ID string `json:"id"`
}

// SetMode changes either mode; empty fields are left alone.
type SetMode struct {
	Interaction string `json:"interaction,omitempty"`
	Pointer     string `json:"pointer,omitempty"`
}

type Save struct{}
type Load struct{}

// ================= S -> C =================

type Body struct {
	Position mgl64.Vec3 `json:"position"`
	Rotation geom.Euler `json:"rotation"`
	Mass     float64    `json:"mass"`
	Sleeping bool       `json:"sleeping"`
	State    string     `json:"state"`
}

type CardState struct {
	card.Card
	Body Body `json:"body"`
}

type Ghost struct {
	Position mgl64.Vec3 `json:"position"`
	Rotation geom.Euler `json:"rotation"`
	Target   mgl64.Vec3 `json:"target"`
	Offsets  [3]float64 `json:"offsets"` // yaw, pitch, roll
}

type Stats struct {
	Created   int `json:"created"`
	Destroyed int `json:"destroyed"`
	Locks     int `json:"locks"`
	Unlocks   int `json:"unlocks"`
}

// Table is the full table state, sent whenever it changes.
type Table struct {
	Version     uint64      `json:"version"`
	Tick        uint64      `json:"tick"`
	Freeze      bool        `json:"isFreezeMode"`
	PresetID    string      `json:"presetId"`
	Preset      string      `json:"preset"`
	Interaction string      `json:"interaction"`
	Pointer     string      `json:"pointer"`
	Dragging    string      `json:"dragging,omitempty"`
	Cards       []CardState `json:"cards"`
	Ghost       *Ghost      `json:"ghost,omitempty"`
	Stats       Stats       `json:"stats"`
}

type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type Error struct {
	Message string `json:"message"`
}

// Encode wraps v in an envelope of type typ.
func Encode(typ string, v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", typ, err)
	}
	return json.Marshal(MsgEnvelope{Type: typ, Data: b})
}

// Decode splits a frame into its envelope.
func Decode(frame []byte) (MsgEnvelope, error) {
	var env MsgEnvelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return env, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == "" {
		return env, fmt.Errorf("decode envelope: missing type")
	}
	return env, nil
}

// DecodeData unmarshals the payload of env into v. An absent payload leaves
// v as is.
func DecodeData(env MsgEnvelope, v interface{}) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return nil
}
