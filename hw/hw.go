// Package hw provisions the hardware capabilities the firmware runs on: the
// inter-chip bus the IMU hangs off, a blocking delay source, the serial and
// USB transports, and the status LED. Exactly one board family is compiled in
// per build, selected with the rpi/bbb build tags; without either tag a
// simulated board is provided for host-side runs and tests.
package hw

import (
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/kidoman/embd"
)

// ErrAlreadyProvisioned rejects a second provisioning attempt. The capability
// bundle is built once at boot and its fields are handed to their owning
// tasks for the process lifetime.
var ErrAlreadyProvisioned = errors.New("hw: peripherals already provisioned")

// Reference configuration, applied by every board implementation.
const (
	I2CClockHz = 400_000 // set via boot firmware, boards cannot change it at runtime
	SerialBaud = 115200  // 8N1
)

// Config carries the board-level tunables resolved at boot.
type Config struct {
	I2CBus     byte   // platform I2C bus number
	SerialPort string // e.g. /dev/serial0
	USBPort    string // USB gadget serial, e.g. /dev/ttyGS0
	LEDPin     int    // BCM pin for the status LED, 0 to disable
}

// Peripherals is the capability bundle. Immutable after construction; each
// field is owned by exactly one task and there is no runtime sharing.
type Peripherals struct {
	I2C    embd.I2CBus
	Delay  Delay
	Serial io.ReadWriteCloser
	USB    io.ReadWriteCloser
	LED    StatusLED
}

// Delay blocks the caller. Used only during boot and driver construction.
type Delay interface {
	Sleep(d time.Duration)
}

// SystemDelay sleeps on the OS clock.
type SystemDelay struct{}

func (SystemDelay) Sleep(d time.Duration) { time.Sleep(d) }

// StatusLED drives the board's indicator LED.
type StatusLED interface {
	On()
	Off()
}

type noLED struct{}

func (noLED) On()  {}
func (noLED) Off() {}

// BoardName identifies the compiled-in board family.
func BoardName() string { return boardName }

var provisioned uint32

// Init initializes the board's clock/peripheral subsystem and returns the
// capability bundle. Any failure is unrecoverable: there is no degraded-boot
// path for a missing required capability. A second call is rejected.
func Init(cfg Config) (*Peripherals, error) {
	if !atomic.CompareAndSwapUint32(&provisioned, 0, 1) {
		return nil, ErrAlreadyProvisioned
	}
	p, err := initBoard(cfg)
	if err != nil {
		atomic.StoreUint32(&provisioned, 0)
		return nil, err
	}
	return p, nil
}
