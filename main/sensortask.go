package main

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/openmotion/trackerd/protocol"
	"github.com/openmotion/trackerd/sensors"
)

// Poll at twice the sensor's ~100 Hz output rate; between ticks the task is
// suspended and the rest of the set runs.
const sensorPollInterval = 5 * time.Millisecond

// sensorTask owns the IMU driver. Each cycle it asks for one fused sample and
// enqueues it; would-block and bus errors both end the cycle and the next
// slot retries, so a flaky bus degrades the stream instead of killing it.
func sensorTask(imu sensors.Imu, store *protocol.Store) {
	timer := time.NewTicker(sensorPollInterval)
	var seq uint32
	for {
		<-timer.C
		seq = sensorCycle(imu, store, seq)
	}
}

// sensorCycle runs one poll-fuse-enqueue pass and returns the next sequence
// number. The sequence only advances when a packet is accepted, keeping the
// producer's stream gap-free under backpressure.
func sensorCycle(imu sensors.Imu, store *protocol.Store, seq uint32) uint32 {
	q, err := imu.Quat()
	if errors.Is(err, sensors.ErrWouldBlock) {
		return seq
	}
	if err != nil {
		busErrors.Inc()
		log.Debugf("imu read: %s", err)
		return seq
	}
	samplesFused.Inc()

	pkt := protocol.Rotation(imu.Type(), q)
	pkt.Producer = "sensor"
	pkt.Seq = seq
	if err := store.Push(pkt); err != nil {
		// Store full: skip this sample, the next cycle tries again.
		storeFull.Inc()
		return seq
	}
	return seq + 1
}
