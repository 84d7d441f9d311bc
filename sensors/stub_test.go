package sensors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmotion/trackerd/protocol"
	"github.com/openmotion/trackerd/quat"
)

func TestStubAlwaysIdentity(t *testing.T) {
	s := NewStub()
	for i := 0; i < 100; i++ {
		q, err := s.Quat()
		require.NoError(t, err)
		assert.Equal(t, quat.Identity(), q)
		assert.InDelta(t, 1.0, q.Norm(), 1e-4)
	}
	assert.Equal(t, protocol.ImuTypeUnknown, s.Type())
}

func TestStubSatisfiesImu(t *testing.T) {
	var _ Imu = NewStub()
	var _ Imu = (*Mpu6050)(nil)
}
