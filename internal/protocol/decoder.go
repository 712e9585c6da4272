package protocol

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/SeamusWaldron/cubie"
)

// RotationEvent represents a single face rotation reported by the cube.
type RotationEvent struct {
	FaceCode          byte        `json:"face_code"`          // Raw face+direction code (0x00-0x0B)
	CenterOrientation byte        `json:"center_orientation"` // Center piece orientation
	Clockwise         bool        `json:"clockwise"`
	Color             cubie.Color `json:"color"` // Center color of the turned face
}

// BatteryEvent represents a battery level notification.
type BatteryEvent struct {
	Level int `json:"level"` // 0-100 percentage
}

// OrientationEvent represents a cube orientation notification.
type OrientationEvent struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`

	// Derived discrete orientation
	UpFace    cubie.Face `json:"-"` // Face pointing up
	FrontFace cubie.Face `json:"-"` // Face towards the solver
}

// The device numbers its centers in this order: code/2 indexes the table.
var deviceColors = [6]cubie.Color{
	cubie.Blue,
	cubie.Green,
	cubie.White,
	cubie.Yellow,
	cubie.Red,
	cubie.Orange,
}

// DecodeRotation decodes a rotation payload made of byte pairs:
// [face_dir] [center_orientation]. Even codes are clockwise.
func DecodeRotation(payload []byte) ([]RotationEvent, error) {
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("rotation payload must have even length, got %d", len(payload))
	}

	events := make([]RotationEvent, 0, len(payload)/2)
	for i := 0; i < len(payload); i += 2 {
		code := payload[i]
		idx := int(code / 2)
		if idx >= len(deviceColors) {
			return nil, fmt.Errorf("unknown color index %d from face code 0x%02X", idx, code)
		}
		events = append(events, RotationEvent{
			FaceCode:          code,
			CenterOrientation: payload[i+1],
			Clockwise:         code%2 == 0,
			Color:             deviceColors[idx],
		})
	}
	return events, nil
}

// DecodeBattery decodes a battery message payload.
func DecodeBattery(payload []byte) (*BatteryEvent, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("battery payload too short")
	}
	return &BatteryEvent{Level: int(payload[0])}, nil
}

// DecodeOrientation decodes an orientation payload, an ASCII quaternion
// "x#y#z#w".
func DecodeOrientation(payload []byte) (*OrientationEvent, error) {
	parts := strings.Split(string(payload), "#")
	if len(parts) != 4 {
		return nil, fmt.Errorf("orientation payload must have 4 parts, got %d", len(parts))
	}

	var q [4]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(leadingNumber(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid quaternion component %d: %w", i, err)
		}
		q[i] = v
	}

	event := &OrientationEvent{X: q[0], Y: q[1], Z: q[2], W: q[3]}
	event.UpFace, event.FrontFace = quaternionToFaces(q[0], q[1], q[2], q[3])
	return event, nil
}

// leadingNumber strips trailing bytes the firmware sometimes appends.
func leadingNumber(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for i, r := range s {
		if (r == '-' && i == 0) || r == '.' || (r >= '0' && r <= '9') {
			end = i + 1
			continue
		}
		break
	}
	return s[:end]
}

// quaternionToFaces rotates the up (+Y) and front (+Z) axes by the
// quaternion and reports which puzzle face each lands closest to.
func quaternionToFaces(x, y, z, w float64) (up, front cubie.Face) {
	// The device sends raw integers.
	if mag := math.Sqrt(x*x + y*y + z*z + w*w); mag > 0 {
		x, y, z, w = x/mag, y/mag, z/mag, w/mag
	}

	up = vectorToFace(2*(x*y-w*z), 1-2*(x*x+z*z), 2*(y*z+w*x))
	front = vectorToFace(2*(x*z+w*y), 2*(y*z-w*x), 1-2*(x*x+y*y))
	return up, front
}

// vectorToFace maps a direction to the face along its dominant axis.
func vectorToFace(x, y, z float64) cubie.Face {
	ax, ay, az := math.Abs(x), math.Abs(y), math.Abs(z)
	switch {
	case ay >= ax && ay >= az:
		if y > 0 {
			return cubie.FaceU
		}
		return cubie.FaceD
	case az >= ax && az >= ay:
		if z > 0 {
			return cubie.FaceF
		}
		return cubie.FaceB
	case x > 0:
		return cubie.FaceR
	default:
		return cubie.FaceL
	}
}

// DecodeMessage renders a message as an event type and a JSON payload for
// storage. Unknown types keep their raw payload.
func DecodeMessage(msg *Message) (eventType, payloadJSON string, err error) {
	eventType = MessageTypeName(msg.Type)

	var v any
	switch msg.Type {
	case MsgTypeRotation:
		rotations, err := DecodeRotation(msg.Payload)
		if err != nil {
			return "", "", err
		}
		moves := RotationsToMoves(rotations)
		v = map[string]any{
			"rotations": rotations,
			"moves":     cubie.FormatMoves(moves),
		}
	case MsgTypeBattery:
		b, err := DecodeBattery(msg.Payload)
		if err != nil {
			return "", "", err
		}
		v = b
	case MsgTypeOrientation:
		o, err := DecodeOrientation(msg.Payload)
		if err != nil {
			return "", "", err
		}
		v = map[string]any{
			"quaternion": o,
			"up_face":    o.UpFace.String(),
			"front_face": o.FrontFace.String(),
		}
	default:
		v = map[string]any{"raw": msg.Payload}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	return eventType, string(data), nil
}
