//go:build bbb

package hw

import (
	"fmt"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/bbb"
	"github.com/tarm/serial"
)

const boardName = "bbb"

// initBoard brings up the BeagleBone peripherals. No GPIO LED driver is wired
// on this family yet; the LED capability is a no-op.
func initBoard(cfg Config) (*Peripherals, error) {
	if err := embd.InitI2C(); err != nil {
		return nil, fmt.Errorf("hw: i2c subsystem: %w", err)
	}
	bus := embd.NewI2CBus(cfg.I2CBus)

	port, err := serial.OpenPort(&serial.Config{Name: cfg.SerialPort, Baud: SerialBaud})
	if err != nil {
		return nil, fmt.Errorf("hw: serial %s: %w", cfg.SerialPort, err)
	}

	usb, err := serial.OpenPort(&serial.Config{Name: cfg.USBPort, Baud: SerialBaud})
	if err != nil {
		return nil, fmt.Errorf("hw: usb gadget %s: %w", cfg.USBPort, err)
	}

	return &Peripherals{
		I2C:    bus,
		Delay:  SystemDelay{},
		Serial: port,
		USB:    usb,
		LED:    noLED{},
	}, nil
}
