//go:build (rpi || bbb) && !stubimu

package main

import (
	"github.com/openmotion/trackerd/config"
	"github.com/openmotion/trackerd/hw"
	"github.com/openmotion/trackerd/sensors"
)

// newImu constructs the MPU-6050 driver on hardware builds. Build with the
// stubimu tag to run the task set against the stub driver instead.
func newImu(p *hw.Peripherals, opts config.Options) (sensors.Imu, error) {
	dlpf, err := sensors.DlpfByName(opts.Sensor.Dlpf)
	if err != nil {
		return nil, err
	}
	return sensors.NewMpu6050(p.I2C, p.Delay, dlpf, sensors.SystemClock{})
}
