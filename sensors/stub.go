package sensors

import (
	"github.com/openmotion/trackerd/protocol"
	"github.com/openmotion/trackerd/quat"
)

// Stub fakes an IMU for running the task set without hardware. It always has
// data ready and always reports the identity orientation.
type Stub struct{}

// NewStub returns the stub driver. It accepts no capabilities so it can stand
// in for any real driver at the same call site.
func NewStub() *Stub {
	return &Stub{}
}

// Quat always succeeds with the identity quaternion.
func (*Stub) Quat() (quat.Quaternion, error) {
	return quat.Identity(), nil
}

// Type reports the unknown sentinel so hosts don't apply per-chip handling.
func (*Stub) Type() protocol.ImuType {
	return protocol.ImuTypeUnknown
}
