// Package protocol implements the GoCube BLE wire protocol.
package protocol

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// GoCube BLE Service and Characteristic UUIDs
const (
	ServiceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	TxCharUUID  = "6e400003-b5a3-f393-e0a9-e50e24dcca9e" // Notify
	RxCharUUID  = "6e400002-b5a3-f393-e0a9-e50e24dcca9e" // Write
)

// Message type constants
const (
	MsgTypeRotation     byte = 0x01
	MsgTypeState        byte = 0x02
	MsgTypeOrientation  byte = 0x03
	MsgTypeBattery      byte = 0x05
	MsgTypeOfflineStats byte = 0x07
	MsgTypeCubeType     byte = 0x08
)

// Command codes for writing to RX characteristic
const (
	CmdRequestBattery       byte = 0x32
	CmdRequestState         byte = 0x33
	CmdReboot               byte = 0x34
	CmdResetSolved          byte = 0x35
	CmdDisableOrientation   byte = 0x37
	CmdEnableOrientation    byte = 0x38
	CmdFlashBacklight       byte = 0x41
	CmdCalibrateOrientation byte = 0x57
)

// Message frame constants
const (
	FramePrefix  byte = 0x2A // '*'
	FrameSuffix1 byte = 0x0D // CR
	FrameSuffix2 byte = 0x0A // LF
)

var (
	ErrInvalidPrefix   = errors.New("protocol: invalid message prefix")
	ErrInvalidSuffix   = errors.New("protocol: invalid message suffix")
	ErrInvalidChecksum = errors.New("protocol: invalid checksum")
	ErrMessageTooShort = errors.New("protocol: message too short")
	ErrInvalidLength   = errors.New("protocol: invalid message length")
)

// Message represents a parsed GoCube BLE message.
type Message struct {
	Type      byte   // Message type identifier
	Payload   []byte // Payload without frame overhead
	RawBase64 string // Base64 of the whole frame, for storage
}

// Parse parses a raw BLE notification.
//
// Frame format: [0x2A] [length] [type] [payload...] [checksum] [0x0D 0x0A].
// length counts the bytes after itself. The checksum is the byte sum of
// everything before it.
func Parse(data []byte) (*Message, error) {
	if len(data) < 6 {
		return nil, ErrMessageTooShort
	}
	if data[0] != FramePrefix {
		return nil, ErrInvalidPrefix
	}

	length := int(data[1])
	frameLen := 2 + length
	if length < 4 || len(data) < frameLen {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidLength, frameLen, len(data))
	}

	checksumIdx := frameLen - 3
	if data[checksumIdx+1] != FrameSuffix1 || data[checksumIdx+2] != FrameSuffix2 {
		return nil, ErrInvalidSuffix
	}

	var sum byte
	for _, b := range data[:checksumIdx] {
		sum += b
	}
	if sum != data[checksumIdx] {
		return nil, fmt.Errorf("%w: expected 0x%02X, got 0x%02X", ErrInvalidChecksum, data[checksumIdx], sum)
	}

	payload := make([]byte, checksumIdx-3)
	copy(payload, data[3:checksumIdx])

	return &Message{
		Type:      data[2],
		Payload:   payload,
		RawBase64: base64.StdEncoding.EncodeToString(data[:frameLen]),
	}, nil
}

// Frame wraps a type and payload in a GoCube frame. It is the inverse of
// Parse.
func Frame(msgType byte, payload []byte) []byte {
	out := make([]byte, 0, len(payload)+6)
	out = append(out, FramePrefix, byte(len(payload)+4), msgType)
	out = append(out, payload...)

	var sum byte
	for _, b := range out {
		sum += b
	}
	return append(out, sum, FrameSuffix1, FrameSuffix2)
}

// BuildCommand creates a command message to send to the cube.
// Format: [0x2A] [0x01] [cmd] [checksum] [0x0D] [0x0A]
func BuildCommand(cmdCode byte) []byte {
	length := byte(0x01)
	checksum := FramePrefix + length + cmdCode
	return []byte{FramePrefix, length, cmdCode, checksum, FrameSuffix1, FrameSuffix2}
}

// MessageTypeName returns a short name for the message type.
func MessageTypeName(msgType byte) string {
	switch msgType {
	case MsgTypeRotation:
		return "rotation"
	case MsgTypeState:
		return "state"
	case MsgTypeOrientation:
		return "orientation"
	case MsgTypeBattery:
		return "battery"
	case MsgTypeOfflineStats:
		return "offline_stats"
	case MsgTypeCubeType:
		return "cube_type"
	default:
		return fmt.Sprintf("unknown_0x%02X", msgType)
	}
}
