//go:build (!rpi && !bbb) || stubimu

package main

import (
	"github.com/openmotion/trackerd/config"
	"github.com/openmotion/trackerd/hw"
	"github.com/openmotion/trackerd/sensors"
)

// newImu hands out the stub driver on builds without sensor hardware. The
// call site in boot is identical to the real driver's.
func newImu(p *hw.Peripherals, opts config.Options) (sensors.Imu, error) {
	return sensors.NewStub(), nil
}
