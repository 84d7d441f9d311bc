package sensors

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atRest(b *fakeBus) {
	b.setSample(0, 0, 16384, 0, 0, 0, 0) // 1 g on +Z, gyro still
}

func newTestDriver(t *testing.T, b *fakeBus, clk *fakeClock) *Mpu6050 {
	t.Helper()
	d, err := NewMpu6050(b, noDelay{}, Dlpf94Hz, clk)
	require.NoError(t, err)
	return d
}

func TestNewMpu6050ConfiguresRegisters(t *testing.T) {
	b := newFakeBus()
	atRest(b)
	newTestDriver(t, b, &fakeClock{})

	assert.Equal(t, byte(clkPllXGyro), b.regs[regPwrMgmt1])
	assert.Equal(t, byte(Dlpf94Hz), b.regs[regConfig])
	assert.Equal(t, byte(9), b.regs[regSmplrtDiv])
	assert.Equal(t, byte(0), b.regs[regGyroConfig])
	assert.Equal(t, byte(0), b.regs[regAccelConfig])
	assert.Equal(t, byte(dataRdyBit), b.regs[regIntEnable])
}

func TestNewMpu6050RejectsWrongChip(t *testing.T) {
	b := newFakeBus()
	b.regs[regWhoAmI] = 0x71 // an MPU-9250 answered
	_, err := NewMpu6050(b, noDelay{}, Dlpf94Hz, &fakeClock{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrWouldBlock)
}

func TestSampleDivider(t *testing.T) {
	assert.Equal(t, byte(79), Dlpf260Hz.sampleDivider()) // 8 kHz base
	assert.Equal(t, byte(9), Dlpf94Hz.sampleDivider())   // 1 kHz base
}

func TestDlpfByName(t *testing.T) {
	d, err := DlpfByName("94hz")
	require.NoError(t, err)
	assert.Equal(t, Dlpf94Hz, d)
	_, err = DlpfByName("97hz")
	assert.Error(t, err)
}

func TestQuatWouldBlock(t *testing.T) {
	b := newFakeBus()
	atRest(b)
	clk := &fakeClock{}
	d := newTestDriver(t, b, clk)

	b.dataReady = false
	_, err := d.Quat()
	assert.ErrorIs(t, err, ErrWouldBlock)

	b.dataReady = true
	clk.advance(10 * time.Millisecond)
	_, err = d.Quat()
	assert.NoError(t, err)
}

func TestQuatBusErrorIsNotWouldBlock(t *testing.T) {
	b := newFakeBus()
	atRest(b)
	d := newTestDriver(t, b, &fakeClock{})

	b.failSample = true
	_, err := d.Quat()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrWouldBlock))

	// Next cycle recovers without reconstruction.
	b.failSample = false
	_, err = d.Quat()
	assert.NoError(t, err)
}

func TestQuatUnitNorm(t *testing.T) {
	b := newFakeBus()
	clk := &fakeClock{}
	atRest(b)
	d := newTestDriver(t, b, clk)

	samples := []struct{ ax, ay, az, gx, gy, gz int16 }{
		{0, 0, 16384, 0, 0, 0},
		{0, 2000, 16200, 500, 0, 0},
		{1500, 0, 16300, 0, -700, 131},
		{0, -3000, 16100, 1310, 1310, 0},
	}
	for _, s := range samples {
		b.setSample(s.ax, s.ay, s.az, 0, s.gx, s.gy, s.gz)
		clk.advance(10 * time.Millisecond)
		q, err := d.Quat()
		require.NoError(t, err)
		assert.InDelta(t, 1.0, q.Norm(), 1e-4)
	}
}

// The last-sample marker advances by exactly the measured delta each cycle,
// so after n cycles it equals the start plus the sum of the deltas.
func TestElapsedAccumulation(t *testing.T) {
	b := newFakeBus()
	atRest(b)
	clk := &fakeClock{t: time.Unix(1000, 0)}
	d := newTestDriver(t, b, clk)
	start := d.last

	deltas := []time.Duration{
		7 * time.Millisecond,
		13 * time.Millisecond,
		10 * time.Millisecond,
		1 * time.Second,
		3 * time.Millisecond,
	}
	var sum time.Duration
	for _, dt := range deltas {
		clk.advance(dt)
		_, err := d.Quat()
		require.NoError(t, err)
		sum += dt
	}
	assert.Equal(t, start.Add(sum), d.last)
}

func TestCalibrationEstimatesGyroBias(t *testing.T) {
	b := newFakeBus()
	b.setSample(0, 0, 16384, 0, 262, -131, 0) // 2, -1 deg/s standing bias
	clk := &fakeClock{}
	d := newTestDriver(t, b, clk)

	require.True(t, d.Calibrated())
	assert.InDelta(t, 2.0, d.gyroBias[0], 0.01)
	assert.InDelta(t, -1.0, d.gyroBias[1], 0.01)

	// With the bias subtracted, holding still does not rotate the estimate.
	for i := 0; i < 50; i++ {
		clk.advance(10 * time.Millisecond)
		_, err := d.Quat()
		require.NoError(t, err)
	}
	roll, pitch, _ := d.dcm.Angles()
	assert.InDelta(t, 0.0, roll, 0.02)
	assert.InDelta(t, 0.0, pitch, 0.02)
}

// A driver whose at-rest calibration could not read the sensor still
// constructs and still produces normalized quaternions.
func TestCalibrationFailureTolerated(t *testing.T) {
	b := newFakeBus()
	atRest(b)
	b.failSample = true
	clk := &fakeClock{}
	d := newTestDriver(t, b, clk)
	assert.False(t, d.Calibrated())

	b.failSample = false
	clk.advance(10 * time.Millisecond)
	q, err := d.Quat()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, q.Norm(), 1e-4)
}

func TestTemperature(t *testing.T) {
	b := newFakeBus()
	b.setSample(0, 0, 16384, 340, 0, 0, 0)
	clk := &fakeClock{}
	d := newTestDriver(t, b, clk)
	clk.advance(10 * time.Millisecond)
	_, err := d.Quat()
	require.NoError(t, err)
	assert.InDelta(t, 37.53, d.Temperature(), 1e-6)
}
