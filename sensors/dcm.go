package sensors

import "math"

// Complementary filter tuning. The gyro path dominates over roughly
// gyroDecay seconds; the accelerometer's gravity reference pulls the estimate
// back over the long term and also feeds a slow bias estimate.
const (
	gyroDecay    = 0.5  // s
	biasGain     = 0.05 // 1/s toward the observed gyro/accel disagreement
	accelGateLow = 0.5  // g; reject gravity correction outside this window
	accelGateHi  = 1.5  // g
)

// DCM is a direction-cosine complementary filter: gyro integration supplies
// short-term orientation change, the accelerometer's gravity vector bounds
// long-term drift in roll and pitch. Yaw has no absolute reference without a
// magnetometer and integrates gyro only. State is owned by one driver
// instance and never shared.
type DCM struct {
	roll, pitch, yaw    float64 // radians
	biasX, biasY, biasZ float64 // rad/s
}

// NewDCM returns a filter at the identity orientation with zero bias.
func NewDCM() *DCM {
	return &DCM{}
}

// Update feeds one synchronized sample: gyro rates in rad/s, accelerometer in
// g, elapsed time in seconds. Returns the updated roll/pitch/yaw estimate.
// Bias estimates stay internal.
func (d *DCM) Update(gx, gy, gz, ax, ay, az, dt float64) (roll, pitch, yaw float64) {
	if dt <= 0 {
		return d.roll, d.pitch, d.yaw
	}

	// Short-term: integrate bias-corrected rates.
	d.roll += (gx - d.biasX) * dt
	d.pitch += (gy - d.biasY) * dt
	d.yaw = wrapAngle(d.yaw + (gz-d.biasZ)*dt)

	// Long-term: blend toward the gravity reference, but only when the
	// accelerometer is seeing roughly 1 g. Under external acceleration the
	// gravity direction is unreliable and the gyro path runs alone.
	norm := math.Sqrt(ax*ax + ay*ay + az*az)
	if norm < accelGateLow || norm > accelGateHi {
		return d.roll, d.pitch, d.yaw
	}

	rollAcc := math.Atan2(ay, az)
	pitchAcc := math.Atan2(-ax, math.Sqrt(ay*ay+az*az))

	alpha := gyroDecay / (gyroDecay + dt)
	d.roll = alpha*d.roll + (1-alpha)*rollAcc
	d.pitch = alpha*d.pitch + (1-alpha)*pitchAcc

	// Any sustained disagreement between the integrated and gravity-derived
	// angles is gyro bias; bleed it into the bias estimate slowly.
	d.biasX += biasGain * (d.roll - rollAcc) * dt
	d.biasY += biasGain * (d.pitch - pitchAcc) * dt

	return d.roll, d.pitch, d.yaw
}

// Angles reports the current estimate without advancing the filter.
func (d *DCM) Angles() (roll, pitch, yaw float64) {
	return d.roll, d.pitch, d.yaw
}

func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
