//go:build rpi

package hw

import (
	"fmt"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/rpi"
	"github.com/stianeikeland/go-rpio/v4"
	"github.com/tarm/serial"
)

// boardName identifies the compiled-in family in boot logs.
const boardName = "rpi"

// initBoard brings up the Raspberry Pi peripherals. The I2C bus clock is
// fixed at I2CClockHz through the boot firmware (dtparam=i2c_arm_baudrate);
// there is no runtime control for it on this family.
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

	led := StatusLED(noLED{})
	if cfg.LEDPin > 0 {
		if err := rpio.Open(); err != nil {
			return nil, fmt.Errorf("hw: gpio: %w", err)
		}
		pin := rpio.Pin(cfg.LEDPin)
		pin.Output()
		led = gpioLED{pin: pin}
	}

	return &Peripherals{
		I2C:    bus,
		Delay:  SystemDelay{},
		Serial: port,
		USB:    usb,
		LED:    led,
	}, nil
}

type gpioLED struct {
	pin rpio.Pin
}

func (l gpioLED) On()  { l.pin.High() }
func (l gpioLED) Off() { l.pin.Low() }
