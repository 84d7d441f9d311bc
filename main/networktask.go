package main

import (
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/openmotion/trackerd/protocol"
)

type namedWriter struct {
	name string
	w    io.Writer
}

// networkTask is the store's single consumer: it drains packets and writes
// their framed form to every transport it owns. A transport write error is
// logged and the stream continues; the host reconnecting is normal operation
// for a body-worn device.
func networkTask(store *protocol.Store, outs []namedWriter) {
	buf := make([]byte, 0, 64)
	for {
		p := store.Next()
		buf = transmit(outs, protocol.Marshal(buf[:0], p))
		packetsOut.Inc()
	}
}

func transmit(outs []namedWriter, buf []byte) []byte {
	for _, out := range outs {
		if _, err := out.w.Write(buf); err != nil {
			log.Debugf("%s write: %s", out.name, err)
		}
	}
	return buf
}
