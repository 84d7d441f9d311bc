// Package sensors provides the tracker's interface to inertial measurement
// units and the drivers that turn raw accelerometer/gyroscope samples into
// orientation quaternions.
package sensors

import (
	"errors"
	"time"

	"github.com/openmotion/trackerd/protocol"
	"github.com/openmotion/trackerd/quat"
)

// ErrWouldBlock signals that the sensor has no fresh data yet. It is expected
// control flow, not a failure: the calling task yields and retries on its next
// scheduling slot. Check with errors.Is.
var ErrWouldBlock = errors.New("imu: no new data ready")

// Imu is the capability any orientation sensor driver implements. Quat must
// never block the calling task for an unbounded time; a hardware wait is
// reported as ErrWouldBlock. Any other error is a bus or register failure for
// that cycle and the caller decides retry policy.
type Imu interface {
	Quat() (quat.Quaternion, error)
	// Type is fixed for the lifetime of the driver instance.
	Type() protocol.ImuType
}

// Clock is the time base drivers measure fusion cycle elapsed time against.
// Injectable so tests can feed synthetic deltas.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Delay blocks the caller for the given duration. Only used during driver
// construction, never inside a fusion cycle.
type Delay interface {
	Sleep(d time.Duration)
}
