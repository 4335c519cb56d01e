package registry

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/arcanaland/cardhouse/internal/card"
	"github.com/arcanaland/cardhouse/internal/geom"
	"github.com/arcanaland/cardhouse/internal/state"
)

func TestAddStampsFromFreezeFlag(t *testing.T) {
	st := state.New()
	r := New(st)

	a, err := r.Add(card.Card{ID: "a", Locked: true})
	if err != nil {
		t.Fatal(err)
	}
	if a.Locked {
		t.Error("card a kept the caller's locked value")
	}

	st.Freeze = true
	b, _ := r.Add(card.Card{ID: "b", Locked: false})
	if !b.Locked {
		t.Error("card b not locked while frozen")
	}
}

func TestAddRejectsDuplicates(t *testing.T) {
	r := New(state.New())
	_, _ = r.Add(card.Card{ID: "a"})
	if _, err := r.Add(card.Card{ID: "a"}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("err = %v", err)
	}
	if _, err := r.Add(card.Card{}); !errors.Is(err, ErrEmptyID) {
		t.Errorf("err = %v", err)
	}
}

func TestRemoveKeepsOrder(t *testing.T) {
	r := New(state.New())
	for _, id := range []string{"a", "b", "c", "d"} {
		_, _ = r.Add(card.Card{ID: id})
	}
	if !r.Remove("b") {
		t.Fatal("Remove(b) = false")
	}
	if r.Remove("zz") {
		t.Error("Remove of unknown id reported true")
	}

	var ids []string
	for _, c := range r.Cards() {
		ids = append(ids, c.ID)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "c" || ids[2] != "d" {
		t.Errorf("order = %v", ids)
	}
	if c, ok := r.Get("d"); !ok || c.ID != "d" {
		t.Error("index stale after remove")
	}
}

func TestUpdatePoseRestampsLock(t *testing.T) {
	st := state.New()
	r := New(st)
	_, _ = r.Add(card.Card{ID: "a"})

	st.Freeze = true
	c, ok := r.UpdatePose("a", mgl64.Vec3{1, 2, 3}, geom.Euler{0, 1, 0})
	if !ok {
		t.Fatal("UpdatePose = false")
	}
	if !c.Locked || c.Position != (mgl64.Vec3{1, 2, 3}) || c.Rotation[1] != 1 {
		t.Errorf("updated card = %+v", c)
	}
	if _, ok := r.UpdatePose("zz", mgl64.Vec3{}, geom.Euler{}); ok {
		t.Error("UpdatePose of unknown id reported true")
	}
}

func TestSetAllLockedAndClear(t *testing.T) {
	r := New(state.New())
	_, _ = r.Add(card.Card{ID: "a"})
	_, _ = r.Add(card.Card{ID: "b"})

	r.SetAllLocked(true)
	for _, c := range r.Cards() {
		if !c.Locked {
			t.Errorf("%s not locked", c.ID)
		}
	}

	r.Clear()
	if r.Len() != 0 {
		t.Errorf("Len = %d after Clear", r.Len())
	}
	if _, err := r.Add(card.Card{ID: "a"}); err != nil {
		t.Errorf("re-adding after Clear: %v", err)
	}
}

func TestCardsIsACopy(t *testing.T) {
	r := New(state.New())
	_, _ = r.Add(card.Card{ID: "a"})
	cards := r.Cards()
	cards[0].Locked = true
	if c, _ := r.Get("a"); c.Locked {
		t.Error("mutating Cards() leaked into the registry")
	}
}

func TestReplace(t *testing.T) {
	r := New(state.New())
	_, _ = r.Add(card.Card{ID: "old"})
	err := r.Replace([]card.Card{{ID: "x", Locked: true}, {ID: "y"}})
	if err != nil {
		t.Fatal(err)
	}
	if r.Len() != 2 {
		t.Fatalf("Len = %d", r.Len())
	}
	if c, _ := r.Get("x"); !c.Locked {
		t.Error("Replace did not keep the stored lock flag")
	}
	if err := r.Replace([]card.Card{{ID: "x"}, {ID: "x"}}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("err = %v", err)
	}
	if r.Len() != 2 {
		t.Error("failed Replace modified the registry")
	}
}
