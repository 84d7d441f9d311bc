package sensors

import (
	"fmt"
	"time"
)

// fakeBus simulates the MPU-6050's register file for driver tests.
type fakeBus struct {
	regs       map[byte]byte
	sample     [sampleBlock]byte
	dataReady  bool
	writes     []byte // registers written, in order
	failStatus bool   // fail INT_STATUS reads
	failSample bool   // fail sample block reads
	readErr    error
	blockReads int // count of sample block reads
}

func newFakeBus() *fakeBus {
	b := &fakeBus{regs: map[byte]byte{regWhoAmI: whoAmIValue}}
	b.dataReady = true
	return b
}

// setSample loads raw big-endian counts for accel, temp and gyro.
func (b *fakeBus) setSample(ax, ay, az, temp, gx, gy, gz int16) {
	for i, v := range []int16{ax, ay, az, temp, gx, gy, gz} {
		b.sample[2*i] = byte(uint16(v) >> 8)
		b.sample[2*i+1] = byte(uint16(v))
	}
}

func (b *fakeBus) ReadByteFromReg(addr, reg byte) (byte, error) {
	if reg == regIntStatus {
		if b.failStatus {
			return 0, b.err()
		}
		if b.dataReady {
			return dataRdyBit, nil
		}
		return 0, nil
	}
	return b.regs[reg], nil
}

func (b *fakeBus) ReadFromReg(addr, reg byte, value []byte) error {
	if b.failSample {
		return b.err()
	}
	if reg == regAccelXoutH {
		b.blockReads++
		copy(value, b.sample[:])
		return nil
	}
	return fmt.Errorf("fakebus: unexpected block read of reg 0x%02X", reg)
}

func (b *fakeBus) WriteByteToReg(addr, reg, value byte) error {
	b.regs[reg] = value
	b.writes = append(b.writes, reg)
	return nil
}

func (b *fakeBus) err() error {
	if b.readErr != nil {
		return b.readErr
	}
	return fmt.Errorf("fakebus: read failed")
}

// Remainder of embd.I2CBus, unused by the driver.
func (b *fakeBus) ReadBytes(addr byte, num int) ([]byte, error) { return make([]byte, num), nil }

func (b *fakeBus) ReadByte(addr byte) (byte, error) { return 0, nil }

func (b *fakeBus) WriteBytes(addr byte, value []byte) error { return nil }

func (b *fakeBus) WriteByte(addr byte, value byte) error { return nil }

func (b *fakeBus) ReadWordFromReg(addr, reg byte) (uint16, error) { return 0, nil }

func (b *fakeBus) WriteToReg(addr, reg byte, value []byte) error { return nil }

func (b *fakeBus) WriteWordToReg(addr, reg byte, value uint16) error { return nil }

func (b *fakeBus) Close() error { return nil }

// noDelay satisfies Delay without slowing tests down.
type noDelay struct{}

func (noDelay) Sleep(time.Duration) {}

// fakeClock hands out a scripted sequence of instants.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }
