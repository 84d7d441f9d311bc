package sensors

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kidoman/embd"
	log "github.com/sirupsen/logrus"

	"github.com/openmotion/trackerd/protocol"
	"github.com/openmotion/trackerd/quat"
)

// https://invensense.tdk.com/wp-content/uploads/2015/02/MPU-6000-Register-Map1.pdf
const (
	mpuAddress = 0x68

	regSmplrtDiv   = 0x19
	regConfig      = 0x1A
	regGyroConfig  = 0x1B
	regAccelConfig = 0x1C
	regIntEnable   = 0x38
	regIntStatus   = 0x3A
	regAccelXoutH  = 0x3B
	regPwrMgmt1    = 0x6B
	regWhoAmI      = 0x75

	whoAmIValue  = 0x68
	clkPllXGyro  = 0x01
	dataRdyBit   = 0x01
	sampleBlock  = 14      // accel(6) + temp(2) + gyro(6), big-endian int16s
	accelScale   = 16384.0 // LSB/g, AFS_SEL = 0
	gyroScale    = 131.0   // LSB/(deg/s), FS_SEL = 0
	calibSamples = 200
)

// Dlpf is the MPU-6050 digital low-pass filter setting (register CONFIG,
// DLPF_CFG field). Only the enumerated values program a valid register state.
type Dlpf byte

const (
	Dlpf260Hz Dlpf = 0 // filter off, 8 kHz gyro base rate
	Dlpf184Hz Dlpf = 1
	Dlpf94Hz  Dlpf = 2 // reference setting, ~100 samples/s effective
	Dlpf44Hz  Dlpf = 3
	Dlpf21Hz  Dlpf = 4
	Dlpf10Hz  Dlpf = 5
	Dlpf5Hz   Dlpf = 6
)

var dlpfNames = map[string]Dlpf{
	"260hz": Dlpf260Hz,
	"184hz": Dlpf184Hz,
	"94hz":  Dlpf94Hz,
	"44hz":  Dlpf44Hz,
	"21hz":  Dlpf21Hz,
	"10hz":  Dlpf10Hz,
	"5hz":   Dlpf5Hz,
}

// DlpfByName maps a configuration string to a filter setting.
func DlpfByName(name string) (Dlpf, error) {
	if d, ok := dlpfNames[name]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("mpu6050: unrecognized dlpf setting %q", name)
}

// sampleDivider picks SMPLRT_DIV for a ~100 Hz sample rate. The gyro base
// rate is 8 kHz with the low-pass filter off and 1 kHz otherwise.
func (d Dlpf) sampleDivider() byte {
	if d == Dlpf260Hz {
		return 79
	}
	return 9
}

// Mpu6050 reads an InvenSense MPU-6050 over I2C and fuses its accelerometer
// and gyroscope into orientation with a DCM complementary filter. One
// instance owns its bus access and filter state exclusively.
type Mpu6050 struct {
	bus   embd.I2CBus
	clock Clock
	dcm   *DCM

	last       time.Time
	gyroBias   [3]float64 // deg/s, from at-rest calibration
	gravity    float64    // measured 1 g magnitude, in g
	calibrated bool
	temp       float64 // degC, last cycle
}

// NewMpu6050 configures the sensor for a ~100 Hz low-pass-filtered output
// rate and runs a best-effort at-rest calibration. Register or bus failures
// during configuration abort construction; calibration failure does not.
func NewMpu6050(bus embd.I2CBus, delay Delay, dlpf Dlpf, clock Clock) (*Mpu6050, error) {
	if clock == nil {
		clock = SystemClock{}
	}
	d := &Mpu6050{bus: bus, clock: clock, dcm: NewDCM(), gravity: 1}

	who, err := bus.ReadByteFromReg(mpuAddress, regWhoAmI)
	if err != nil {
		return nil, fmt.Errorf("mpu6050: read WHO_AM_I: %w", err)
	}
	if who != whoAmIValue {
		return nil, fmt.Errorf("mpu6050: unexpected WHO_AM_I 0x%02X", who)
	}

	// Out of sleep, gyro-X PLL clock source.
	if err := bus.WriteByteToReg(mpuAddress, regPwrMgmt1, clkPllXGyro); err != nil {
		return nil, fmt.Errorf("mpu6050: wake: %w", err)
	}
	delay.Sleep(100 * time.Millisecond)

	for _, w := range []struct{ reg, val byte }{
		{regConfig, byte(dlpf)},
		{regSmplrtDiv, dlpf.sampleDivider()},
		{regGyroConfig, 0},  // ±250 deg/s
		{regAccelConfig, 0}, // ±2 g
		{regIntEnable, dataRdyBit},
	} {
		if err := bus.WriteByteToReg(mpuAddress, w.reg, w.val); err != nil {
			return nil, fmt.Errorf("mpu6050: write reg 0x%02X: %w", w.reg, err)
		}
	}

	d.calibrate(delay)
	d.last = clock.Now()
	return d, nil
}

// calibrate estimates static gyro biases and the local gravity magnitude from
// a window of at-rest samples. Best-effort: on failure the driver proceeds
// with whatever was gathered, trading accuracy rather than refusing to start.
func (d *Mpu6050) calibrate(delay Delay) {
	var sum [3]float64
	var gravSum float64
	n := 0

	for i := 0; i < calibSamples; i++ {
		delay.Sleep(10 * time.Millisecond)
		raw, err := d.readSample()
		if err != nil {
			if errors.Is(err, ErrWouldBlock) {
				continue
			}
			log.Warnf("mpu6050: calibration aborted after %d samples: %s", n, err)
			break
		}
		sum[0] += raw.gx
		sum[1] += raw.gy
		sum[2] += raw.gz
		gravSum += math.Sqrt(raw.ax*raw.ax + raw.ay*raw.ay + raw.az*raw.az)
		n++
	}

	if n < calibSamples/4 {
		log.Warnf("mpu6050: calibration incomplete (%d/%d samples), using partial biases", n, calibSamples)
	}
	if n == 0 {
		return
	}
	d.gyroBias[0] = sum[0] / float64(n)
	d.gyroBias[1] = sum[1] / float64(n)
	d.gyroBias[2] = sum[2] / float64(n)
	if g := gravSum / float64(n); g > 0.5 && g < 1.5 {
		d.gravity = g
	}
	d.calibrated = true
	log.Infof("mpu6050: calibrated over %d samples: gyro bias %.3f %.3f %.3f deg/s, gravity %.4f g",
		n, d.gyroBias[0], d.gyroBias[1], d.gyroBias[2], d.gravity)
}

type rawSample struct {
	ax, ay, az float64 // g
	gx, gy, gz float64 // deg/s
	temp       float64 // degC
}

// readSample reads one synchronized accel/temp/gyro block, or ErrWouldBlock
// when the data-ready flag is clear.
func (d *Mpu6050) readSample() (rawSample, error) {
	var s rawSample

	status, err := d.bus.ReadByteFromReg(mpuAddress, regIntStatus)
	if err != nil {
		return s, fmt.Errorf("mpu6050: read INT_STATUS: %w", err)
	}
	if status&dataRdyBit == 0 {
		return s, ErrWouldBlock
	}

	buf := make([]byte, sampleBlock)
	if err := d.bus.ReadFromReg(mpuAddress, regAccelXoutH, buf); err != nil {
		return s, fmt.Errorf("mpu6050: read sample block: %w", err)
	}

	word := func(i int) float64 {
		return float64(int16(uint16(buf[i])<<8 | uint16(buf[i+1])))
	}
	s.ax = word(0) / accelScale
	s.ay = word(2) / accelScale
	s.az = word(4) / accelScale
	s.temp = word(6)/340.0 + 36.53 // per register map
	s.gx = word(8) / gyroScale
	s.gy = word(10) / gyroScale
	s.gz = word(12) / gyroScale
	return s, nil
}

// Quat produces one fresh orientation sample, ErrWouldBlock when the sensor
// has nothing new, or a bus error for this cycle.
func (d *Mpu6050) Quat() (quat.Quaternion, error) {
	raw, err := d.readSample()
	if err != nil {
		return quat.Quaternion{}, err
	}
	d.temp = raw.temp

	// Advance the fusion clock by exactly the measured delta so rounding
	// never opens a gap between it and the hardware poll clock.
	now := d.clock.Now()
	elapsed := now.Sub(d.last)
	d.last = d.last.Add(elapsed)

	const degToRad = math.Pi / 180
	roll, pitch, yaw := d.dcm.Update(
		(raw.gx-d.gyroBias[0])*degToRad,
		(raw.gy-d.gyroBias[1])*degToRad,
		(raw.gz-d.gyroBias[2])*degToRad,
		raw.ax/d.gravity, raw.ay/d.gravity, raw.az/d.gravity,
		elapsed.Seconds(),
	)

	return quat.FromEuler(roll, pitch, yaw).Normalize(), nil
}

// Type reports the MPU-6050 identity tag.
func (*Mpu6050) Type() protocol.ImuType {
	return protocol.ImuTypeMpu6050
}

// Temperature returns the die temperature from the last successful cycle.
func (d *Mpu6050) Temperature() float64 {
	return d.temp
}

// Calibrated reports whether the at-rest calibration pass completed.
func (d *Mpu6050) Calibrated() bool {
	return d.calibrated
}
