package protocol

import (
	"encoding/binary"
	"math"
)

// Marshal appends the tagged binary form of p to dst and returns the extended
// slice. Layout: kind byte, sequence number, then the kind's payload; rotation
// packets carry the imu type and the quaternion as little-endian float32 in
// w, x, y, z order.
func Marshal(dst []byte, p Packet) []byte {
	dst = append(dst, byte(p.Kind))
	dst = binary.LittleEndian.AppendUint32(dst, p.Seq)
	switch p.Kind {
	case KindHandshake:
		dst = append(dst, byte(p.Imu))
	case KindRotation:
		dst = append(dst, byte(p.Imu))
		for _, f := range [4]float64{p.Rotation.W, p.Rotation.X, p.Rotation.Y, p.Rotation.Z} {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(f)))
		}
	case KindHeartbeat:
	}
	return dst
}
