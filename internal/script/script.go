// Package script replays recorded input against a session. Scripts are TOML:
//
//	tick_rate = 60
//
//	[[step]]
//	key = "4"
//
//	[[step]]
//	pointer = [0.1, -0.2]
//	do = "click"
//	ticks = 30
//
// Each step queues its input (key, then pointer, then wheel, then do) and
// then runs its ticks, one by default. The save, load, clear, freeze and
// unfreeze actions act at once, before the step's queued input is applied.
// A settle step ticks until every unlocked body sleeps.
package script

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/arcanaland/cardhouse/internal/session"
)

// Actions accepted in a step's do field.
const (
	DoClick   = "click"
	DoPress   = "press"
	DoRelease = "release"
	DoSave    = "save"
	DoLoad    = "load"
	DoClear   = "clear"
	DoFreeze  = "freeze"
	DoRelax   = "unfreeze"
	DoSettle  = "settle"
)

// settleLimit bounds a settle step, in ticks.
const settleLimit = 60 * 30

type Step struct {
	Key     string    `toml:"key"`
	Pointer []float64 `toml:"pointer"`
	Wheel   float64   `toml:"wheel"`
	Do      string    `toml:"do"`
	Ticks   int       `toml:"ticks"`
}

type Script struct {
	TickRate int    `toml:"tick_rate"`
	Steps    []Step `toml:"step"`
}

// Load reads and checks a script file.
func Load(path string) (*Script, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("script not found: %s", path)
	}
	var s Script
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	if err := s.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

// Parse reads a script from text.
func Parse(text string) (*Script, error) {
	var s Script
	if _, err := toml.Decode(text, &s); err != nil {
		return nil, fmt.Errorf("error parsing script: %w", err)
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Check validates every step and fills defaults.
func (s *Script) Check() error {
	if s.TickRate <= 0 {
		s.TickRate = 60
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		if st.Pointer != nil && len(st.Pointer) != 2 {
			return fmt.Errorf("step %d: pointer needs two coordinates", i+1)
		}
		st.Do = strings.ToLower(st.Do)
		switch st.Do {
		case "", DoClick, DoPress, DoRelease, DoSave, DoLoad, DoClear, DoFreeze, DoRelax, DoSettle:
		default:
			return fmt.Errorf("step %d: unknown action %q", i+1, st.Do)
		}
		if st.Ticks < 0 {
			return fmt.Errorf("step %d: negative ticks", i+1)
		}
		if st.Ticks == 0 && st.Do != DoSettle {
			st.Ticks = 1
		}
	}
	return nil
}

// Run plays the script. after is called once each step has finished, and
// may be nil.
func (s *Script) Run(sess *session.Session, after func(i int, st Step)) error {
	dt := 1.0 / float64(s.TickRate)
	for i, st := range s.Steps {
		if st.Key != "" {
			sess.HandleKey(st.Key)
		}
		if st.Pointer != nil {
			sess.HandlePointer(mgl64.Vec2{st.Pointer[0], st.Pointer[1]})
		}
		if st.Wheel != 0 {
			sess.HandleWheel(st.Wheel)
		}
		if err := apply(sess, st.Do); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}

		for t := 0; t < st.Ticks; t++ {
			sess.Tick(dt)
		}
		if st.Do == DoSettle {
			if !settle(sess, dt) {
				return fmt.Errorf("step %d: table did not settle", i+1)
			}
		}
		if after != nil {
			after(i, st)
		}
	}
	return nil
}

func apply(sess *session.Session, do string) error {
	switch do {
	case DoClick:
		sess.HandleClick()
	case DoPress:
		sess.HandlePress()
	case DoRelease:
		sess.HandleRelease()
	case DoSave:
		return sess.Save()
	case DoLoad:
		return sess.Load()
	case DoClear:
		sess.ClearCards()
	case DoFreeze:
		sess.SetAllLocked(true)
	case DoRelax:
		sess.SetAllLocked(false)
	}
	return nil
}

func settle(sess *session.Session, dt float64) bool {
	for t := 0; t < settleLimit; t++ {
		sess.Tick(dt)
		if sess.Settled() {
			return true
		}
	}
	return false
}
