package protocol

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/SeamusWaldron/cubie"
)

func TestParseRoundTrip(t *testing.T) {
	frame := Frame(MsgTypeRotation, []byte{0x08, 0x00, 0x07, 0x03})
	msg, err := Parse(frame)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Type != MsgTypeRotation || len(msg.Payload) != 4 || msg.Payload[2] != 0x07 {
		t.Errorf("parsed %+v", msg)
	}
	raw, _ := base64.StdEncoding.DecodeString(msg.RawBase64)
	if string(raw) != string(frame) {
		t.Error("RawBase64 should hold the whole frame")
	}
}

func TestParseErrors(t *testing.T) {
	good := Frame(MsgTypeBattery, []byte{80})

	badPrefix := append([]byte{}, good...)
	badPrefix[0] = 0x00
	badSum := append([]byte{}, good...)
	badSum[4]++
	badSuffix := append([]byte{}, good...)
	badSuffix[len(badSuffix)-1] = 0x00

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short", good[:3], ErrMessageTooShort},
		{"prefix", badPrefix, ErrInvalidPrefix},
		{"checksum", badSum, ErrInvalidChecksum},
		{"suffix", badSuffix, ErrInvalidSuffix},
		{"truncated", append(good[:2:2], good[2:6]...), ErrInvalidLength},
	}
	for _, tt := range tests {
		if _, err := Parse(tt.data); !errors.Is(err, tt.want) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestRotationsToMoves(t *testing.T) {
	// Red clockwise, yellow counter-clockwise, white twice clockwise.
	rotations, err := DecodeRotation([]byte{0x08, 0, 0x07, 0, 0x04, 0, 0x04, 0})
	if err != nil {
		t.Fatal(err)
	}
	if got := cubie.FormatMoves(RotationsToMoves(rotations)); got != "R U' D2" {
		t.Errorf("moves = %q, want %q", got, "R U' D2")
	}
}

func TestDeviceColorsCoverEveryFace(t *testing.T) {
	seen := map[cubie.Face]bool{}
	for code := byte(0); code < 12; code += 2 {
		rot, _ := DecodeRotation([]byte{code, 0})
		m, ok := RotationToMove(rot[0])
		if !ok {
			t.Fatalf("code 0x%02X has no face", code)
		}
		seen[m.Face] = true
	}
	if len(seen) != 6 {
		t.Errorf("device colors reach %d faces, want 6", len(seen))
	}
}

func TestDecodeRotationErrors(t *testing.T) {
	if _, err := DecodeRotation([]byte{0x01}); err == nil {
		t.Error("odd payload should fail")
	}
	if _, err := DecodeRotation([]byte{0x0C, 0x00}); err == nil {
		t.Error("code 0x0C should fail")
	}
}

func TestDecodeOrientation(t *testing.T) {
	o, err := DecodeOrientation([]byte("0#0#0#1000\x1f"))
	if err != nil {
		t.Fatal(err)
	}
	if o.UpFace != cubie.FaceU || o.FrontFace != cubie.FaceF {
		t.Errorf("identity quaternion gave up=%v front=%v", o.UpFace, o.FrontFace)
	}

	if _, err := DecodeOrientation([]byte("1#2#3")); err == nil {
		t.Error("three components should fail")
	}
}

func TestDecodeMessage(t *testing.T) {
	msg, _ := Parse(Frame(MsgTypeRotation, []byte{0x08, 0, 0x08, 0}))
	typ, payload, err := DecodeMessage(msg)
	if err != nil {
		t.Fatal(err)
	}
	if typ != "rotation" || !strings.Contains(payload, `"moves":"R2"`) || !strings.Contains(payload, `"color":"red"`) {
		t.Errorf("DecodeMessage = %s %s", typ, payload)
	}

	msg, _ = Parse(Frame(MsgTypeBattery, []byte{77}))
	if _, payload, _ := DecodeMessage(msg); payload != `{"level":77}` {
		t.Errorf("battery payload = %s", payload)
	}
}

func TestBuildCommand(t *testing.T) {
	cmd := BuildCommand(CmdRequestBattery)
	want := []byte{0x2A, 0x01, 0x32, 0x5D, 0x0D, 0x0A}
	if string(cmd) != string(want) {
		t.Errorf("BuildCommand = % X, want % X", cmd, want)
	}
}
