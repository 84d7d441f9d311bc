// Package protocol defines the server-bound packets the tracker produces and
// the shared store that carries them from the producing tasks to the network
// task. The byte-level framing on the wire belongs to the transport peer; the
// encoding here is the minimal tagged form the network task writes out.
package protocol

import "github.com/openmotion/trackerd/quat"

// PacketKind tags an outgoing packet.
type PacketKind uint8

const (
	KindHandshake PacketKind = 1
	KindRotation  PacketKind = 2
	KindHeartbeat PacketKind = 3
)

func (k PacketKind) String() string {
	switch k {
	case KindHandshake:
		return "handshake"
	case KindRotation:
		return "rotation"
	case KindHeartbeat:
		return "heartbeat"
	}
	return "invalid"
}

// Packet is one server-bound message. Immutable once enqueued; ownership
// passes to the network task on Push.
type Packet struct {
	Kind     PacketKind
	Producer string // task that enqueued it, for diagnostics
	Imu      ImuType
	Rotation quat.Quaternion
	Seq      uint32
}

// Handshake announces the device and its sensor type to the host.
func Handshake(imu ImuType) Packet {
	return Packet{Kind: KindHandshake, Imu: imu}
}

// Rotation wraps one orientation sample tagged with the producing sensor.
func Rotation(imu ImuType, q quat.Quaternion) Packet {
	return Packet{Kind: KindRotation, Imu: imu, Rotation: q}
}

// Heartbeat keeps the host connection alive between samples.
func Heartbeat() Packet {
	return Packet{Kind: KindHeartbeat}
}
