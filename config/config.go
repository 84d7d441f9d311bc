// Package config resolves the boot-time tunables. All values have reference
// defaults; a yaml file, TRACKERD_* environment variables and command-line
// flags override them in that order.
package config

import (
	"fmt"
	"os"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/openmotion/trackerd/protocol"
)

const (
	DefaultAppName  = "trackerd"
	DefaultSettleMs = 500
	DefaultDepth    = 64
)

// SensorOpt configures the IMU and its fusion pipeline.
type SensorOpt struct {
	Bus      int    `yaml:"bus"`      // platform I2C bus number
	Dlpf     string `yaml:"dlpf"`     // enumerated low-pass setting, e.g. "94hz"
	SettleMs int    `yaml:"settlems"` // startup settle delay before tasks run
}

// SerialOpt configures the UART transport.
type SerialOpt struct {
	Port string `yaml:"port"`
}

// USBOpt configures the USB gadget transport.
type USBOpt struct {
	Port string `yaml:"port"`
}

// StoreOpt configures the outgoing-packet store.
type StoreOpt struct {
	Depth    int    `yaml:"depth"`
	Overflow string `yaml:"overflow"` // "backpressure" or "drop"
}

// DiagOpt configures the diagnostic surface.
type DiagOpt struct {
	Addr    string `yaml:"addr"`    // management/metrics listen address, "" disables
	Capture bool   `yaml:"capture"` // drain captured log records over USB
}

// Options is the resolved configuration for one boot.
type Options struct {
	Sensor SensorOpt `yaml:"sensor"`
	Serial SerialOpt `yaml:"serial"`
	USB    USBOpt    `yaml:"usb"`
	Store  StoreOpt  `yaml:"store"`
	Diag   DiagOpt   `yaml:"diag"`
	LedPin int       `yaml:"ledpin"`
	Debug  bool      `yaml:"debug"`
}

// Defaults returns the reference configuration.
func Defaults() Options {
	return Options{
		Sensor: SensorOpt{Bus: 1, Dlpf: "94hz", SettleMs: DefaultSettleMs},
		Serial: SerialOpt{Port: "/dev/serial0"},
		USB:    USBOpt{Port: "/dev/ttyGS0"},
		Store:  StoreOpt{Depth: DefaultDepth, Overflow: string(protocol.OverflowBackpressure)},
		Diag:   DiagOpt{Addr: ":9110"},
	}
}

// Validate rejects values that would program an invalid hardware or store
// state.
func (o *Options) Validate() error {
	if !protocol.OverflowPolicy(o.Store.Overflow).Valid() {
		return fmt.Errorf("config: unrecognized store overflow policy %q", o.Store.Overflow)
	}
	if o.Store.Depth <= 0 {
		return fmt.Errorf("config: store depth must be positive, got %d", o.Store.Depth)
	}
	if o.Sensor.SettleMs < 0 {
		return fmt.Errorf("config: settle delay must not be negative, got %d", o.Sensor.SettleMs)
	}
	if o.Sensor.Bus < 0 {
		return fmt.Errorf("config: i2c bus must not be negative, got %d", o.Sensor.Bus)
	}
	return nil
}

// Overflow returns the store policy as its typed form. Call Validate first.
func (o *Options) Overflow() protocol.OverflowPolicy {
	return protocol.OverflowPolicy(o.Store.Overflow)
}

// Load resolves Options for the given command: defaults, then the config file
// (--config flag, TRACKERD_CONFIG, or the search path), then environment,
// then flags.
func Load(cmd *cobra.Command) (Options, error) {
	opts := Defaults()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Register every key with viper so environment-only overrides resolve:
	// AutomaticEnv only consults the environment for keys viper already knows.
	for key, val := range map[string]any{
		"sensor.bus":      opts.Sensor.Bus,
		"sensor.dlpf":     opts.Sensor.Dlpf,
		"sensor.settlems": opts.Sensor.SettleMs,
		"serial.port":     opts.Serial.Port,
		"usb.port":        opts.USB.Port,
		"store.depth":     opts.Store.Depth,
		"store.overflow":  opts.Store.Overflow,
		"diag.addr":       opts.Diag.Addr,
		"diag.capture":    opts.Diag.Capture,
		"ledpin":          opts.LedPin,
		"debug":           opts.Debug,
	} {
		v.SetDefault(key, val)
	}
	if file, err := cmd.Flags().GetString("config"); err == nil && file != "" {
		v.SetConfigFile(file)
	} else if file := os.Getenv("TRACKERD_CONFIG"); file != "" {
		v.SetConfigFile(file)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(path.Join(home, ".config", DefaultAppName))
		}
		v.AddConfigPath("/etc/" + DefaultAppName)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(DefaultAppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err == nil {
		log.Debugln("using config file:", v.ConfigFileUsed())
	} else if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
		return opts, fmt.Errorf("config: %w", err)
	}

	if err := v.Unmarshal(&opts); err != nil {
		return opts, fmt.Errorf("config: %w", err)
	}

	if debug, err := cmd.Flags().GetBool("debug"); err == nil && debug {
		opts.Debug = true
	}

	return opts, opts.Validate()
}

// Dump renders the options as yaml, for the init command and diagnostics.
func (o *Options) Dump() string {
	buf, _ := yaml.Marshal(o)
	return string(buf)
}
