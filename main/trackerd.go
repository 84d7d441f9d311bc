package main

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openmotion/trackerd/config"
	"github.com/openmotion/trackerd/hw"
	"github.com/openmotion/trackerd/protocol"
	"github.com/openmotion/trackerd/tasks"
)

var trackerdVersion = "v0.3.0"

// trackerClock ticks independently of the wall clock, which jumps on embedded
// boards once the host link comes up and NTP corrects it.
var trackerClock = newMonotonic()

var rootCmd = &cobra.Command{
	Use:   "trackerd",
	Short: "body-worn inertial tracker firmware",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "boot the tracker and run until power-off",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := config.Load(cmd)
		if err != nil {
			return err
		}
		return boot(opts)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "print the reference configuration",
	Run: func(cmd *cobra.Command, args []string) {
		opts := config.Defaults()
		fmt.Print(opts.Dump())
	},
}

func init() {
	serveCmd.Flags().String("config", "", "configuration file path")
	serveCmd.Flags().Bool("debug", false, "debug logging")
	rootCmd.AddCommand(serveCmd, initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// boot runs the strict startup sequence: diagnostics, peripherals, settle
// delay, the packet store, then the scheduler with the fixed task set. It
// only returns on an unrecoverable boot failure; once the scheduler runs the
// process stays in the Running state until power-off.
func boot(opts config.Options) error {
	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	}
	log.Infof("trackerd %s starting, board %s", trackerdVersion, hw.BoardName())

	var capture *logCapture
	if opts.Diag.Capture {
		capture = newLogCapture(logCaptureDepth)
		log.AddHook(capture)
	}

	p, err := hw.Init(hw.Config{
		I2CBus:     byte(opts.Sensor.Bus),
		SerialPort: opts.Serial.Port,
		USBPort:    opts.USB.Port,
		LEDPin:     opts.LedPin,
	})
	if err != nil {
		return fmt.Errorf("boot: %w", err)
	}

	p.Delay.Sleep(time.Duration(opts.Sensor.SettleMs) * time.Millisecond)
	log.Debugln("peripherals settled")

	store := protocol.NewStore(opts.Store.Depth, opts.Overflow())

	imu, err := newImu(p, opts)
	if err != nil {
		return fmt.Errorf("boot: imu: %w", err)
	}
	log.Infof("imu online: %s", imu.Type())

	// The capability bundle is partitioned here, one owner per field, for
	// the life of the process. The USB link carries the protocol stream;
	// the serial port carries it too unless log capture claims it.
	sched := tasks.New()
	netOuts := []namedWriter{{"usb", p.USB}, {"serial", p.Serial}}
	if capture != nil {
		netOuts = netOuts[:1]
		mustSpawn(sched, "logdrain", func() { logDrainTask(capture, p.Serial) })
	}
	mustSpawn(sched, "network", func() { networkTask(store, netOuts) })
	mustSpawn(sched, "protocol", func() { protocolTask(store, imu.Type()) })
	mustSpawn(sched, "sensor", func() { sensorTask(imu, store) })
	if opts.Diag.Addr != "" {
		booted := trackerClock.Now()
		mustSpawn(sched, "diag", func() { diagInterface(opts.Diag.Addr, imu.Type(), store, booted) })
	}

	p.LED.On()
	return sched.Run() // never returns
}

// mustSpawn registers a boot-time task; failure here is a programming error
// in the fixed task set, not a runtime condition.
func mustSpawn(s *tasks.Scheduler, name string, run func()) {
	if err := s.Spawn(name, run); err != nil {
		log.Fatalf("boot: spawn %s: %s", name, err)
	}
}
