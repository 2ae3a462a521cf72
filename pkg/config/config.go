// Package config describes the beam rig and filter settings consumed by the
// touch-processing pipeline. Every field has a default matching the original
// four-sensor rig; a YAML file can override them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/d-jones99/beam-task/internal/constants"
)

// Config is the base configuration object
type Config struct {
	Rig     RigConfig    `yaml:"rig,omitempty"`
	Filters FilterConfig `yaml:"filters,omitempty"`
}

// RigConfig holds the physical geometry of the beam rig
type RigConfig struct {
	// ChannelsPerSensor is the channel count of one sensor board (12 for the
	// MPR121-style boards the rig is built from).
	ChannelsPerSensor int `yaml:"channels-per-sensor,omitempty"`

	// StartChannel and FinishChannel are the reserved electrodes at the wide
	// and narrow ends of the beam. Channels strictly between them are
	// foot-fault electrodes.
	StartChannel  int `yaml:"start-channel,omitempty"`
	FinishChannel int `yaml:"finish-channel,omitempty"`

	// BeamLengthCM and ElectrodePitchCM locate electrode pairs along the
	// beam for the distance-to-first-fault statistic.
	BeamLengthCM     int `yaml:"beam-length-cm,omitempty"`
	ElectrodePitchCM int `yaml:"electrode-pitch-cm,omitempty"`
}

// FilterConfig holds the tunable filter settings
type FilterConfig struct {
	// RepeatedTouchWindow is the window, in seconds, within which two touches
	// on the same channel collapse to one.
	RepeatedTouchWindow float64 `yaml:"repeated-touch-window,omitempty"`
}

// Default returns the configuration of the original four-sensor rig.
func Default() *Config {
	return &Config{
		Rig: RigConfig{
			ChannelsPerSensor: constants.DefaultChannelsPerSensor,
			StartChannel:      constants.DefaultStartChannel,
			FinishChannel:     constants.DefaultFinishChannel,
			BeamLengthCM:      100,
			ElectrodePitchCM:  4,
		},
		Filters: FilterConfig{
			RepeatedTouchWindow: 0.150,
		},
	}
}

// Load reads a YAML configuration file over the defaults. An empty filename
// returns the defaults unchanged.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}

	cfgFile, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(cfgFile, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", filename, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot work with.
func (c *Config) Validate() error {
	if c.Rig.ChannelsPerSensor <= 0 {
		return fmt.Errorf("channels-per-sensor must be positive, got %d", c.Rig.ChannelsPerSensor)
	}
	if c.Rig.FinishChannel < 0 {
		return fmt.Errorf("finish-channel must not be negative, got %d", c.Rig.FinishChannel)
	}
	if c.Rig.StartChannel <= c.Rig.FinishChannel {
		return fmt.Errorf("start-channel (%d) must be greater than finish-channel (%d)",
			c.Rig.StartChannel, c.Rig.FinishChannel)
	}
	if c.Rig.BeamLengthCM <= 0 {
		return fmt.Errorf("beam-length-cm must be positive, got %d", c.Rig.BeamLengthCM)
	}
	if c.Rig.ElectrodePitchCM <= 0 {
		return fmt.Errorf("electrode-pitch-cm must be positive, got %d", c.Rig.ElectrodePitchCM)
	}
	if c.Filters.RepeatedTouchWindow < 0 {
		return fmt.Errorf("repeated-touch-window must not be negative, got %g", c.Filters.RepeatedTouchWindow)
	}
	return nil
}
