//go:build !rpi && !bbb

package hw

import "io"

// The simulated board lets the task set run on a development host: transports
// discard writes and never produce input, the delay is real, and there is no
// I2C device so builds without a board tag pair with the stub IMU driver.

const boardName = "sim"

func initBoard(cfg Config) (*Peripherals, error) {
	return &Peripherals{
		I2C:    nil,
		Delay:  SystemDelay{},
		Serial: newSimTransport(),
		USB:    newSimTransport(),
		LED:    noLED{},
	}, nil
}

// simTransport accepts all writes and blocks reads until closed.
type simTransport struct {
	closed chan struct{}
}

func newSimTransport() *simTransport {
	return &simTransport{closed: make(chan struct{})}
}

func (t *simTransport) Write(p []byte) (int, error) {
	return len(p), nil
}

func (t *simTransport) Read(p []byte) (int, error) {
	<-t.closed
	return 0, io.EOF
}

func (t *simTransport) Close() error {
	select {
	case <-t.closed:
	default:
		close(t.closed)
	}
	return nil
}
