package server

import (
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"

	"github.com/arcanaland/cardhouse/internal/card"
	"github.com/arcanaland/cardhouse/internal/protocol"
	"github.com/arcanaland/cardhouse/internal/session"
	"github.com/arcanaland/cardhouse/internal/state"
	"github.com/arcanaland/cardhouse/internal/store"
)

func startServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(Config{TickRate: 120}, session.Options{KV: store.NewMemory(), Seed: 1}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-s.stopped
	})
	return s, ts
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	_, ts := startServer(t)
	resp := get(t, ts.URL+"/healthz")
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestPresetsRoute(t *testing.T) {
	_, ts := startServer(t)
	resp := get(t, ts.URL+"/api/presets")
	var out presetList
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Active == "" {
		t.Fatalf("no active preset")
	}
	found := false
	for _, p := range out.Presets {
		if p.ID == "stand_z" {
			found = true
		}
	}
	if !found {
		t.Fatalf("default presets missing stand_z: %+v", out.Presets)
	}
}

func TestFaceRoute(t *testing.T) {
	_, ts := startServer(t)

	resp := get(t, ts.URL+"/api/faces/hearts/Q.png")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 358 {
		t.Fatalf("bounds = %v", b)
	}

	if resp := get(t, ts.URL+"/api/faces/stars/Q.png"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown suit status = %d", resp.StatusCode)
	}
	if resp := get(t, ts.URL+"/api/faces/hearts/Q.gif"); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown format status = %d", resp.StatusCode)
	}
}

func TestSaveAndLoadRoutes(t *testing.T) {
	_, ts := startServer(t)

	resp, err := http.Post(ts.URL+"/api/load", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("load without save = %d", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/api/save", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("save = %d", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/api/load", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("load = %d", resp.StatusCode)
	}
}

func send(t *testing.T, conn *websocket.Conn, typ string, v interface{}) {
	t.Helper()
	frame, err := protocol.Encode(typ, v)
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil reads frames until ok accepts one or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, ok func(protocol.MsgEnvelope) bool) protocol.MsgEnvelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		env, err := protocol.Decode(frame)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if ok(env) {
			return env
		}
	}
}

func tableWith(n int) func(protocol.MsgEnvelope) bool {
	return func(env protocol.MsgEnvelope) bool {
		if env.Type != protocol.TypeTable {
			return false
		}
		var tb protocol.Table
		if err := protocol.DecodeData(env, &tb); err != nil {
			return false
		}
		return len(tb.Cards) == n
	}
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebsocketPlacesCard(t *testing.T) {
	_, ts := startServer(t)
	conn := dial(t, ts)

	readUntil(t, conn, tableWith(0))

	send(t, conn, protocol.TypePointer, protocol.Pointer{X: 0, Y: 0})
	send(t, conn, protocol.TypeClick, nil)

	env := readUntil(t, conn, tableWith(1))
	var tb protocol.Table
	if err := protocol.DecodeData(env, &tb); err != nil {
		t.Fatal(err)
	}
	c := tb.Cards[0]
	if c.Locked || c.Body.State != "dynamic" {
		t.Fatalf("placed card = %+v", c)
	}
	if c.Position.Y() <= 0 {
		t.Fatalf("card placed below the floor: %v", c.Position)
	}
}

func TestWebsocketFreezeLocksBodies(t *testing.T) {
	_, ts := startServer(t)
	conn := dial(t, ts)

	readUntil(t, conn, tableWith(0))
	send(t, conn, protocol.TypeAddCard, protocol.AddCard{ID: "a", Position: mgl64.Vec3{0, 1, 0}})
	readUntil(t, conn, tableWith(1))

	send(t, conn, protocol.TypeKey, protocol.Key{Key: "l"})
	readUntil(t, conn, func(env protocol.MsgEnvelope) bool {
		var tb protocol.Table
		if env.Type != protocol.TypeTable || protocol.DecodeData(env, &tb) != nil {
			return false
		}
		return tb.Freeze && len(tb.Cards) == 1 && tb.Cards[0].Body.State == "locked" && tb.Cards[0].Body.Mass == 0
	})
}

func TestWebsocketReportsBadFrames(t *testing.T) {
	_, ts := startServer(t)
	conn := dial(t, ts)

	send(t, conn, "Teleport", nil)
	env := readUntil(t, conn, func(env protocol.MsgEnvelope) bool { return env.Type == protocol.TypeError })
	var e protocol.Error
	if err := protocol.DecodeData(env, &e); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(e.Message, "Teleport") {
		t.Fatalf("error = %q", e.Message)
	}
}

func TestWebsocketNotices(t *testing.T) {
	_, ts := startServer(t)
	conn := dial(t, ts)

	send(t, conn, protocol.TypeLoad, nil)
	env := readUntil(t, conn, func(env protocol.MsgEnvelope) bool { return env.Type == protocol.TypeNotice })
	var n protocol.Notice
	if err := protocol.DecodeData(env, &n); err != nil {
		t.Fatal(err)
	}
	if n.Kind != string(session.NoSave) {
		t.Fatalf("notice = %+v", n)
	}
}

func TestDecodeCommandRejects(t *testing.T) {
	tests := []struct {
		typ  string
		data string
	}{
		{"Nope", `{}`},
		{protocol.TypeAddCard, `{"suit":"stars"}`},
		{protocol.TypeAddCard, `{"suit":"hearts","rank":"1"}`},
		{protocol.TypeSetMode, `{"pointer":"paint"}`},
		{protocol.TypeSetMode, `{"interaction":"slow"}`},
		{protocol.TypeKey, `{"key":5}`},
	}
	for _, tt := range tests {
		env := protocol.MsgEnvelope{Type: tt.typ, Data: json.RawMessage(tt.data)}
		if _, err := decodeCommand(env); err == nil {
			t.Errorf("%s %s: expected error", tt.typ, tt.data)
		}
	}
}

func TestCommandsApply(t *testing.T) {
	sess := session.New(session.Options{KV: store.NewMemory(), Seed: 1})

	run := func(typ, data string) error {
		t.Helper()
		cmd, err := decodeCommand(protocol.MsgEnvelope{Type: typ, Data: json.RawMessage(data)})
		if err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		return cmd(sess)
	}

	if err := run(protocol.TypeAddCard, `{"id":"a","position":[0,1,0],"suit":"spades","rank":"K"}`); err != nil {
		t.Fatal(err)
	}
	if c, _ := sess.Card("a"); c.Color != card.Black {
		t.Fatalf("color = %q", c.Color)
	}
	if err := run(protocol.TypeUpdateCard, `{"id":"missing","position":[0,0,0]}`); err == nil {
		t.Fatalf("update of unknown card succeeded")
	}
	if err := run(protocol.TypeSetMode, `{"interaction":"PRECISION","pointer":"MOVE"}`); err != nil {
		t.Fatal(err)
	}
	if st := sess.State(); st.Interaction != state.Precision || st.Pointer != state.Move {
		t.Fatalf("state = %+v", st)
	}
	if err := run(protocol.TypeSelectPreset, `{"id":"nope"}`); err == nil {
		t.Fatalf("unknown preset accepted")
	}
	if err := run(protocol.TypeSetAllLocked, `{"locked":true}`); err != nil {
		t.Fatal(err)
	}

	tb := tableFrame(sess.View())
	if !tb.Freeze || len(tb.Cards) != 1 || tb.Cards[0].Body.State != "locked" {
		t.Fatalf("table = %+v", tb)
	}

	if err := run(protocol.TypeClearCards, ``); err != nil {
		t.Fatal(err)
	}
	if n := len(sess.Cards()); n != 0 {
		t.Fatalf("cards left = %d", n)
	}
}

func TestClampNDC(t *testing.T) {
	for in, want := range map[float64]float64{-3: -1, -0.5: -0.5, 0: 0, 2: 1} {
		if got := clampNDC(in); got != want {
			t.Errorf("clampNDC(%v) = %v, want %v", in, got, want)
		}
	}
}
