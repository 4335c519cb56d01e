// Package placement turns pointer input into the pose of the next card.
//
// Every frame the controller casts the pointer into the scene, lifts the hit
// point by an orientation-dependent offset and snaps it to the table grid.
// The ghost indicator eases toward that target; a click places at the target
// itself so smoothing lag never biases placement.
package placement

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/arcanaland/cardhouse/internal/card"
	"github.com/arcanaland/cardhouse/internal/geom"
	"github.com/arcanaland/cardhouse/internal/preset"
	"github.com/arcanaland/cardhouse/internal/scene"
	"github.com/arcanaland/cardhouse/internal/state"
)

// Raycaster finds what is under the pointer, skipping the ghost and any
// ignored ids.
type Raycaster interface {
	Raycast(ndc mgl64.Vec2, ignore ...string) (scene.Hit, bool)
}

// Presets supplies the active base orientation.
type Presets interface {
	Active() (preset.Preset, bool)
}

// Config tunes the controller.
type Config struct {
	GridSnap       float64 // horizontal snap step
	RotationStep   float64 // radians per key press
	WheelSpeed     float64 // radians of yaw per wheel unit
	WheelThreshold float64 // wheel deltas at or below this are ignored
	EaseFactor     float64 // fraction of the remaining distance covered per frame
	FlatTilt       float64 // at or below: card thickness offset
	StandTilt      float64 // at or above: full projected extent
}

// DefaultConfig returns the tuning the toy ships with.
func DefaultConfig() Config {
	return Config{
		GridSnap:       0.1,
		RotationStep:   0.1,
		WheelSpeed:     0.002,
		WheelThreshold: 10,
		EaseFactor:     0.5,
		FlatTilt:       0.2,
		StandTilt:      0.5,
	}
}

// EventKind says what a pointer gesture asks for.
type EventKind int

const (
	PlaceCard EventKind = iota
	MoveCard
	DeleteCard
)

func (k EventKind) String() string {
	switch k {
	case MoveCard:
		return "move"
	case DeleteCard:
		return "delete"
	default:
		return "place"
	}
}

// Event is emitted by a completed gesture. The controller never changes
// cards itself.
type Event struct {
	Kind     EventKind
	CardID   string // move and delete only
	Position mgl64.Vec3
	Rotation geom.Euler
}

// Controller is the ghost placement controller.
type Controller struct {
	cfg     Config
	st      *state.State
	presets Presets
	ray     Raycaster

	yaw, pitch, roll float64
	presetID         string

	pointer   mgl64.Vec2
	hit       mgl64.Vec3 // surface point under the pointer at the last aim
	target    mgl64.Vec3
	eased     mgl64.Vec3
	hasTarget bool
	hover     scene.Hit
	hovering  bool
}

// New returns a controller.
func New(cfg Config, st *state.State, presets Presets, ray Raycaster) *Controller {
	return &Controller{cfg: cfg, st: st, presets: presets, ray: ray, presetID: st.PresetID}
}

// SetPointer records the pointer position in normalised device coordinates.
func (c *Controller) SetPointer(ndc mgl64.Vec2) {
	c.pointer = ndc
}

// Pointer returns the last pointer position.
func (c *Controller) Pointer() mgl64.Vec2 { return c.pointer }

// Rotate adds fine-rotation steps: each argument is a count of steps.
func (c *Controller) Rotate(yawSteps, pitchSteps, rollSteps int) {
	c.syncPreset()
	c.yaw += float64(yawSteps) * c.cfg.RotationStep
	c.pitch += float64(pitchSteps) * c.cfg.RotationStep
	c.roll += float64(rollSteps) * c.cfg.RotationStep
}

// Wheel turns the card about its yaw axis. Small deltas are ignored.
func (c *Controller) Wheel(deltaY float64) {
	c.syncPreset()
	if deltaY > c.cfg.WheelThreshold || deltaY < -c.cfg.WheelThreshold {
		c.yaw += deltaY * c.cfg.WheelSpeed
	}
}

// ResetRotation zeroes the fine-rotation offsets.
func (c *Controller) ResetRotation() {
	c.yaw, c.pitch, c.roll = 0, 0, 0
}

// Offsets returns the yaw, pitch and roll offsets.
func (c *Controller) Offsets() (yaw, pitch, roll float64) {
	c.syncPreset()
	return c.yaw, c.pitch, c.roll
}

// syncPreset zeroes the offsets when the active preset has changed.
func (c *Controller) syncPreset() {
	if c.st.PresetID != c.presetID {
		c.presetID = c.st.PresetID
		c.ResetRotation()
	}
}

// Orientation is the active preset followed by yaw, pitch and roll about
// the preset's own axes.
func (c *Controller) Orientation() mgl64.Quat {
	c.syncPreset()
	var base geom.Euler
	if p, ok := c.presets.Active(); ok {
		base = p.Rotation
	}
	return geom.Compose(base, c.yaw, c.pitch, c.roll)
}

// HeightOffset is how far above the hit surface a card with orientation q
// is placed.
func (c *Controller) HeightOffset(q mgl64.Quat) float64 {
	flat := card.Thickness
	tilt := geom.Tilt(q)
	if tilt <= c.cfg.FlatTilt {
		return flat
	}
	stand := geom.VerticalHalfExtent(q, card.HalfExtents)
	if tilt >= c.cfg.StandTilt {
		return stand
	}
	t := (tilt - c.cfg.FlatTilt) / (c.cfg.StandTilt - c.cfg.FlatTilt)
	return flat + (stand-flat)*t
}

// Aim recasts the pointer and recomputes the target without moving the
// indicator. Without a hit the previous target is kept.
func (c *Controller) Aim() bool {
	c.syncPreset()

	var ignore []string
	if c.st.DraggingID != "" {
		ignore = append(ignore, c.st.DraggingID)
	}
	hit, ok := c.ray.Raycast(c.pointer, ignore...)
	c.hover, c.hovering = hit, ok
	if !ok {
		return false
	}

	c.hit = hit.Point
	c.target = c.targetFor(c.Orientation())
	if !c.hasTarget {
		c.eased = c.target
		c.hasTarget = true
	}
	return true
}

// targetFor lifts the last hit point by the offset for q and snaps it.
func (c *Controller) targetFor(q mgl64.Quat) mgl64.Vec3 {
	pos := c.hit.Add(mgl64.Vec3{0, c.HeightOffset(q), 0})
	return geom.SnapXZ(pos, c.cfg.GridSnap)
}

// Update runs one frame: aim, then ease the indicator toward the target.
func (c *Controller) Update() {
	if c.Aim() {
		c.eased = geom.Lerp(c.eased, c.target, c.cfg.EaseFactor)
	}
}

// Target is the latest computed placement position.
func (c *Controller) Target() (mgl64.Vec3, bool) {
	return c.target, c.hasTarget
}

// Indicator is where the ghost is drawn this frame.
func (c *Controller) Indicator() (pos mgl64.Vec3, rot mgl64.Quat, ok bool) {
	return c.eased, c.Orientation(), c.hasTarget
}

// Hover returns what the pointer was over on the last update.
func (c *Controller) Hover() (scene.Hit, bool) {
	return c.hover, c.hovering
}

func (c *Controller) placement(kind EventKind, id string) (Event, bool) {
	if !c.hasTarget {
		return Event{}, false
	}
	// the orientation may have changed since the last aim
	q := c.Orientation()
	c.target = c.targetFor(q)
	return Event{
		Kind:     kind,
		CardID:   id,
		Position: c.target,
		Rotation: geom.EulerFromQuat(q),
	}, true
}

func (c *Controller) hoveredCard() (string, bool) {
	if !c.hovering || c.hover.Object.Kind != scene.CardBox {
		return "", false
	}
	return c.hover.Object.ID, true
}

// Click handles a pointer click. In quick placement it places a card; in
// delete mode it removes the card under the pointer.
func (c *Controller) Click() (Event, bool) {
	switch c.st.Pointer {
	case state.Place:
		if c.st.Interaction == state.Precision {
			return Event{}, false
		}
		return c.placement(PlaceCard, "")
	case state.Delete:
		id, ok := c.hoveredCard()
		if !ok {
			return Event{}, false
		}
		return Event{Kind: DeleteCard, CardID: id}, true
	}
	return Event{}, false
}

// Confirm places a card in precision mode.
func (c *Controller) Confirm() (Event, bool) {
	if c.st.Pointer != state.Place || c.st.Interaction != state.Precision {
		return Event{}, false
	}
	return c.placement(PlaceCard, "")
}

// Press starts dragging the card under the pointer in move mode.
func (c *Controller) Press() bool {
	if c.st.Pointer != state.Move || c.st.DraggingID != "" {
		return false
	}
	id, ok := c.hoveredCard()
	if !ok {
		return false
	}
	c.st.DraggingID = id
	return true
}

// Release ends a drag and emits the move. Nothing is emitted if no drag was
// in progress.
func (c *Controller) Release() (Event, bool) {
	id := c.st.DraggingID
	if id == "" {
		return Event{}, false
	}
	c.st.DraggingID = ""
	return c.placement(MoveCard, id)
}

// Cancel abandons a drag without emitting anything.
func (c *Controller) Cancel() {
	c.st.DraggingID = ""
}
