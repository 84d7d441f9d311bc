package main

import (
	"io"

	log "github.com/sirupsen/logrus"
)

const logCaptureDepth = 256

// logCapture is a logrus hook that copies formatted records into a bounded
// buffer for the drain task. When the drain falls behind, new records are
// dropped here rather than stalling the logging task.
type logCapture struct {
	ch chan []byte
}

func newLogCapture(depth int) *logCapture {
	return &logCapture{ch: make(chan []byte, depth)}
}

func (c *logCapture) Levels() []log.Level {
	return log.AllLevels
}

func (c *logCapture) Fire(e *log.Entry) error {
	line, err := e.String()
	if err != nil {
		return err
	}
	select {
	case c.ch <- []byte(line):
	default:
	}
	return nil
}

// logDrainTask owns the transport it writes to and forwards captured records
// until power-off. A failed write loses that record only; the next one is
// tried on the next iteration, like every other task's retry-next-cycle
// policy.
func logDrainTask(c *logCapture, w io.Writer) {
	for line := range c.ch {
		if _, err := w.Write(line); err != nil {
			continue
		}
	}
}
