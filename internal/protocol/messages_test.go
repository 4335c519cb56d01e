package protocol

import (
	"strings"
	"testing"
)

func TestEnvelope(t *testing.T) {
	frame, err := Encode(TypeSetAllLocked, SetAllLocked{Locked: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(frame); got != `{"type":"SetAllLocked","data":{"locked":true}}` {
		t.Errorf("frame = %s", got)
	}

	env, err := Decode(frame)
	if err != nil {
		t.Fatal(err)
	}
	var msg SetAllLocked
	if err := DecodeData(env, &msg); err != nil || !msg.Locked {
		t.Errorf("msg = %+v, %v", msg, err)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode([]byte("nope")); err == nil {
		t.Error("garbage decoded")
	}
	if _, err := Decode([]byte(`{"data":{}}`)); err == nil || !strings.Contains(err.Error(), "missing type") {
		t.Errorf("err = %v", err)
	}
}

func TestDecodeDataWithoutPayload(t *testing.T) {
	env, err := Decode([]byte(`{"type":"Click"}`))
	if err != nil {
		t.Fatal(err)
	}
	var c Click
	if err := DecodeData(env, &c); err != nil {
		t.Errorf("err = %v", err)
	}

	env = MsgEnvelope{Type: TypeKey, Data: []byte(`{"key":1}`)}
	var k Key
	if err := DecodeData(env, &k); err == nil {
		t.Error("bad payload decoded")
	}
}
