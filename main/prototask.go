package main

import (
	"time"

	"github.com/openmotion/trackerd/protocol"
)

const heartbeatInterval = 1 * time.Second

// protocolTask announces the device with a handshake and then keeps the host
// link alive with heartbeats between rotation packets. It is the second
// producer on the store and holds its own sequence.
func protocolTask(store *protocol.Store, imu protocol.ImuType) {
	var seq uint32
	seq = pushPersistent(store, protocol.Handshake(imu), seq)

	timer := time.NewTicker(heartbeatInterval)
	for {
		<-timer.C
		seq = pushPersistent(store, protocol.Heartbeat(), seq)
	}
}

// pushPersistent enqueues p, yielding and retrying while the store is full.
// Unlike rotation samples, protocol packets are not droppable: the host
// cannot interpret the stream without the handshake.
func pushPersistent(store *protocol.Store, p protocol.Packet, seq uint32) uint32 {
	p.Producer = "protocol"
	p.Seq = seq
	for store.Push(p) != nil {
		storeFull.Inc()
		time.Sleep(sensorPollInterval)
	}
	return seq + 1
}
