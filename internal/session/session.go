// Package session wires the registry, presets, simulator, reconciler, scene
// and ghost controller into one tick-driven table.
//
// A Session is not safe for concurrent use. The exported card operations
// apply at once and reconcile before returning, so a card's body always
// matches its lock flag between calls. Pointer and key input is queued and
// applied at the start of the next Tick, ahead of the ghost and physics
// updates.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/arcanaland/cardhouse/internal/card"
	"github.com/arcanaland/cardhouse/internal/deck"
	"github.com/arcanaland/cardhouse/internal/geom"
	"github.com/arcanaland/cardhouse/internal/input"
	"github.com/arcanaland/cardhouse/internal/physics"
	"github.com/arcanaland/cardhouse/internal/placement"
	"github.com/arcanaland/cardhouse/internal/preset"
	"github.com/arcanaland/cardhouse/internal/registry"
	"github.com/arcanaland/cardhouse/internal/savegame"
	"github.com/arcanaland/cardhouse/internal/scene"
	"github.com/arcanaland/cardhouse/internal/sim"
	"github.com/arcanaland/cardhouse/internal/state"
	"github.com/arcanaland/cardhouse/internal/store"
	"github.com/arcanaland/cardhouse/internal/validator"
)

// Engine is a simulator the session can step.
type Engine interface {
	physics.Simulator
	Step(dt float64)
}

// Options configures a session. Zero values get defaults.
type Options struct {
	KV        store.KV
	Engine    Engine
	Camera    *scene.Camera
	Placement *placement.Config
	Deck      *deck.Deck
	Seed      int64
	Logger    *zap.Logger
	Notify    Notifier
}

type inputKind int

const (
	inKey inputKind = iota
	inPointer
	inWheel
	inClick
	inPress
	inRelease
	inSave
	inLoad
)

type inputEvent struct {
	kind  inputKind
	key   string
	ndc   mgl64.Vec2
	delta float64
}

// Session is one table.
type Session struct {
	st      *state.State
	cards   *registry.Registry
	presets *preset.Store
	engine  Engine
	physics *physics.Reconciler
	scene   *scene.Scene
	ghost   *placement.Controller
	dealer  *deck.Dealer
	kv      store.KV
	notify  Notifier
	log     *zap.Logger

	queue   []inputEvent
	version uint64
	ticks   uint64
}

// New builds a session. Stored presets are loaded from the KV store; when
// they cannot be read the defaults are used and a notice is sent.
func New(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	kv := opts.KV
	if kv == nil {
		kv = store.NewMemory()
	}
	engine := opts.Engine
	if engine == nil {
		engine = sim.NewWorld()
	}
	cam := scene.DefaultCamera()
	if opts.Camera != nil {
		cam = *opts.Camera
	}
	cfg := placement.DefaultConfig()
	if opts.Placement != nil {
		cfg = *opts.Placement
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Session{
		st:     state.New(),
		engine: engine,
		kv:     kv,
		notify: opts.Notify,
		log:    log,
	}
	s.cards = registry.New(s.st)
	s.physics = physics.New(engine, log.Named("physics"))
	s.scene = scene.New(cam)
	s.dealer = deck.NewDealer(opts.Deck, seed)

	presets, err := preset.Load(kv, s.st)
	s.presets = presets
	if err != nil {
		s.emit(Notice{Kind: PresetsDefaulted, Message: "presets could not be read, defaults restored", Err: err})
	}
	s.ghost = placement.New(cfg, s.st, s.presets, s.scene)
	return s
}

// State returns a copy of the mode flags.
func (s *Session) State() state.State { return *s.st }

// Presets returns the preset store. Edits go straight to the KV store.
func (s *Session) Presets() *preset.Store { return s.presets }

// Scene returns the scene the ghost raycasts against.
func (s *Session) Scene() *scene.Scene { return s.scene }

// Ghost returns the placement controller.
func (s *Session) Ghost() *placement.Controller { return s.ghost }

// Physics returns the reconciler.
func (s *Session) Physics() *physics.Reconciler { return s.physics }

// Engine returns the simulator.
func (s *Session) Engine() Engine { return s.engine }

// Cards returns every card in insertion order.
func (s *Session) Cards() []card.Card { return s.cards.Cards() }

// Card returns one card.
func (s *Session) Card(id string) (card.Card, bool) { return s.cards.Get(id) }

// Version increases whenever the table or the mode flags change.
func (s *Session) Version() uint64 { return s.version }

// Ticks returns how many ticks have run.
func (s *Session) Ticks() uint64 { return s.ticks }

func (s *Session) changed() {
	s.version++
	s.syncScene()
}

// AddCard places c. The lock flag is taken from the freeze mode, an empty
// id gets a fresh one and an empty face is dealt from the deck.
func (s *Session) AddCard(c card.Card) (card.Card, error) {
	if c.ID == "" {
		c.ID = card.NewID()
	}
	if c.Suit == "" {
		f := s.dealer.Deal()
		c.Suit, c.Rank, c.Color = f.Suit, f.Rank, f.Color
	}
	if c.Color == "" {
		c.Color = card.ColorOf(c.Suit)
	}
	stored, err := s.cards.Add(c)
	if err != nil {
		return card.Card{}, err
	}
	s.physics.Apply(stored)
	s.changed()
	s.log.Debug("card added", zap.String("card", stored.ID), zap.Bool("locked", stored.Locked))
	return stored, nil
}

// RemoveCard deletes a card and its body. Unknown ids are ignored.
func (s *Session) RemoveCard(id string) bool {
	if !s.cards.Remove(id) {
		return false
	}
	s.physics.Forget(id)
	if s.st.DraggingID == id {
		s.ghost.Cancel()
	}
	s.changed()
	s.log.Debug("card removed", zap.String("card", id))
	return true
}

// UpdateCard moves a card, restamps its lock flag and teleports its body.
func (s *Session) UpdateCard(id string, pos mgl64.Vec3, rot geom.Euler) (card.Card, bool) {
	c, ok := s.cards.UpdatePose(id, pos, rot)
	if !ok {
		return card.Card{}, false
	}
	s.physics.Teleport(c)
	s.changed()
	return c, true
}

// ClearCards removes every card.
func (s *Session) ClearCards() {
	s.cards.Clear()
	s.physics.Reset()
	s.ghost.Cancel()
	s.changed()
}

// SetAllLocked sets the freeze mode and then every existing card's lock
// flag. Cards added afterwards read the new freeze mode.
func (s *Session) SetAllLocked(locked bool) {
	s.st.Freeze = locked
	s.cards.SetAllLocked(locked)
	s.physics.Sync(s.cards.Cards())
	s.changed()
	s.log.Debug("freeze set", zap.Bool("freeze", locked), zap.Int("cards", s.cards.Len()))
}

// ToggleFreeze flips the freeze mode.
func (s *Session) ToggleFreeze() {
	s.SetAllLocked(!s.st.Freeze)
}

// SelectPreset makes id the active preset. The ghost's fine rotation is
// zeroed on the next read.
func (s *Session) SelectPreset(id string) error {
	if err := s.presets.Select(id); err != nil {
		return err
	}
	s.changed()
	return nil
}

// SetInteraction switches between quick and precision placement.
func (s *Session) SetInteraction(m state.InteractionMode) {
	if s.st.Interaction != m {
		s.st.Interaction = m
		s.changed()
	}
}

// SetPointerMode switches what clicks do. Leaving move mode drops any drag.
func (s *Session) SetPointerMode(m state.PointerMode) {
	if s.st.Pointer == m {
		return
	}
	if m != state.Move {
		s.ghost.Cancel()
	}
	s.st.Pointer = m
	s.changed()
}

// Snapshot copies the table as it would be saved.
func (s *Session) Snapshot() savegame.Snapshot {
	return savegame.Snapshot{Cards: s.cards.Cards(), IsFreezeMode: s.st.Freeze}
}

// Save writes the table to the save slot.
func (s *Session) Save() error {
	if err := savegame.Save(s.kv, s.Snapshot()); err != nil {
		s.emit(Notice{Kind: SaveFailed, Message: "game could not be saved", Err: err})
		return err
	}
	s.emit(Notice{Kind: Saved, Message: "game saved"})
	return nil
}

// Load replaces the table with the saved one. A missing save is reported
// with ErrNoSave; an unreadable one leaves the table untouched.
func (s *Session) Load() error {
	snap, err := savegame.Load(s.kv)
	if errors.Is(err, savegame.ErrNoSave) {
		s.emit(Notice{Kind: NoSave, Message: "no save found"})
		return err
	}
	if err != nil {
		s.emit(Notice{Kind: LoadFailed, Message: "save could not be read", Err: err})
		return err
	}
	if err := s.Restore(snap); err != nil {
		s.emit(Notice{Kind: LoadFailed, Message: "save could not be loaded", Err: err})
		return err
	}
	s.emit(Notice{Kind: Loaded, Message: fmt.Sprintf("game loaded, %d cards", len(snap.Cards))})
	return nil
}

// Restore replaces the table with snap, keeping each card's saved lock
// flag. Snapshots that fail validation are rejected whole.
func (s *Session) Restore(snap savegame.Snapshot) error {
	res, _ := validator.NewSaveValidator(snap).Validate()
	if !res.Valid() {
		return fmt.Errorf("invalid save: %s", res.Errors[0])
	}
	if err := s.cards.Replace(snap.Cards); err != nil {
		return err
	}
	s.ghost.Cancel()
	s.st.Freeze = snap.IsFreezeMode
	s.physics.Reset()
	s.physics.Sync(s.cards.Cards())
	s.changed()
	return nil
}

// HandleKey queues a key press.
func (s *Session) HandleKey(key string) {
	s.queue = append(s.queue, inputEvent{kind: inKey, key: key})
}

// HandlePointer queues a pointer move, in normalised device coordinates.
func (s *Session) HandlePointer(ndc mgl64.Vec2) {
	s.queue = append(s.queue, inputEvent{kind: inPointer, ndc: ndc})
}

// HandleWheel queues a wheel delta.
func (s *Session) HandleWheel(deltaY float64) {
	s.queue = append(s.queue, inputEvent{kind: inWheel, delta: deltaY})
}

// HandleClick queues a click.
func (s *Session) HandleClick() {
	s.queue = append(s.queue, inputEvent{kind: inClick})
}

// HandlePress queues a pointer press.
func (s *Session) HandlePress() {
	s.queue = append(s.queue, inputEvent{kind: inPress})
}

// HandleRelease queues a pointer release.
func (s *Session) HandleRelease() {
	s.queue = append(s.queue, inputEvent{kind: inRelease})
}

// HandleSave queues a save, taken after the input queued before it.
func (s *Session) HandleSave() {
	s.queue = append(s.queue, inputEvent{kind: inSave})
}

// HandleLoad queues a load, applied after the input queued before it.
func (s *Session) HandleLoad() {
	s.queue = append(s.queue, inputEvent{kind: inLoad})
}

// Tick advances the table by dt seconds: queued input, ghost, reconcile,
// simulator step, scene sync.
func (s *Session) Tick(dt float64) {
	s.ticks++
	s.drain()

	s.ghost.Update()
	if pos, rot, ok := s.ghost.Indicator(); ok {
		s.scene.SetGhost(pos, rot, card.HalfExtents)
	}

	s.physics.Sync(s.cards.Cards())
	s.engine.Step(dt)
	s.syncScene()
}

func (s *Session) drain() {
	queue := s.queue
	s.queue = nil
	for _, ev := range queue {
		s.apply(ev)
	}
}

func (s *Session) apply(ev inputEvent) {
	switch ev.kind {
	case inKey:
		s.applyKey(ev.key)
	case inPointer:
		s.ghost.SetPointer(ev.ndc)
		s.ghost.Aim()
	case inWheel:
		s.ghost.Wheel(ev.delta)
	case inClick:
		if e, ok := s.ghost.Click(); ok {
			s.applyPlacement(e)
		}
	case inPress:
		if s.ghost.Press() {
			s.changed()
		}
	case inRelease:
		if e, ok := s.ghost.Release(); ok {
			s.applyPlacement(e)
		}
	case inSave:
		// failures are reported as notices
		_ = s.Save()
	case inLoad:
		_ = s.Load()
	}
}

func (s *Session) applyKey(key string) {
	cmd := input.Map(key, s.presets)
	switch cmd.Action {
	case input.SelectPreset:
		if err := s.SelectPreset(cmd.PresetID); err != nil {
			s.log.Warn("preset shortcut", zap.Error(err))
		}
	case input.ToggleFreeze:
		s.ToggleFreeze()
	case input.ToggleInteraction:
		s.st.ToggleInteraction()
		s.changed()
	case input.DeleteMode:
		s.SetPointerMode(state.Delete)
	case input.PlaceMode:
		s.SetPointerMode(state.Place)
	case input.MoveMode:
		s.SetPointerMode(state.Move)
	case input.Confirm:
		if e, ok := s.ghost.Confirm(); ok {
			s.applyPlacement(e)
		}
	case input.Rotate:
		s.ghost.Rotate(cmd.Yaw, cmd.Pitch, cmd.Roll)
	case input.ResetRotation:
		s.ghost.ResetRotation()
	}
}

func (s *Session) applyPlacement(e placement.Event) {
	switch e.Kind {
	case placement.PlaceCard:
		if _, err := s.AddCard(card.Card{Position: e.Position, Rotation: e.Rotation}); err != nil {
			s.log.Error("place card", zap.Error(err))
		}
	case placement.MoveCard:
		s.UpdateCard(e.CardID, e.Position, e.Rotation)
	case placement.DeleteCard:
		s.RemoveCard(e.CardID)
	}
}

// syncScene mirrors every body into the scene as a card box.
func (s *Session) syncScene() {
	objs := make([]scene.Object, 0, s.cards.Len())
	for _, c := range s.cards.Cards() {
		h, ok := s.physics.Handle(c.ID)
		if !ok {
			continue
		}
		b, ok := s.engine.Body(h)
		if !ok {
			continue
		}
		objs = append(objs, scene.Object{
			ID:          c.ID,
			Position:    b.Position,
			Rotation:    b.Rotation,
			HalfExtents: b.HalfExtents,
		})
	}
	s.scene.SetCards(objs)
}
