package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial SerialConfig `yaml:"serial"`
	MIDI   MIDIConfig   `yaml:"midi"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
	Scan   ScanConfig   `yaml:"scan"`
	Pots   []PotConfig  `yaml:"pots"`
	Mock   MockConfig   `yaml:"mock"`
}

// SerialConfig contains the ADC link configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// MIDIConfig contains the MIDI output configuration. An empty port sends
// the byte stream to stdout instead of a serial port.
type MIDIConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// MQTTConfig contains the optional telemetry configuration.
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
}

// ScanConfig contains scan-loop parameters.
type ScanConfig struct {
	Interval Duration `yaml:"interval"` // Time between scans of the whole pot bank
}

// PotConfig describes one conditioned pot. Zero values fall back to the
// conditioner defaults (1% dead zone, 10 samples, threshold 5).
type PotConfig struct {
	Channel           int     `yaml:"channel"`            // ADC channel (0-based)
	MIDIChannel       int     `yaml:"midi_channel"`       // MIDI channel (1-16)
	Controller        byte    `yaml:"controller"`         // CC number (0-127)
	DeadZonePercent   float32 `yaml:"dead_zone_percent"`  // Dead zone at the raw extremes
	SampleCount       int     `yaml:"sample_count"`       // Raw samples averaged per scan
	DebounceThreshold int     `yaml:"debounce_threshold"` // Minimum raw delta accepted as movement
	Table             []byte  `yaml:"table,omitempty"`    // Optional value lookup table (indexed mode)
}

// MockConfig contains mock device configuration.
type MockConfig struct {
	NoiseLevel  float32  `yaml:"noise_level"`  // Noise amplitude as a fraction of full scale
	DriftPeriod Duration `yaml:"drift_period"` // Full sweep period of the simulated pots
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0",
			BaudRate: 115200,
		},
		MIDI: MIDIConfig{
			Port:     "",
			BaudRate: 31250, // MIDI DIN rate
		},
		MQTT: MQTTConfig{
			Enabled:  false,
			Broker:   "tcp://localhost:1883",
			ClientID: "midiknob",
			Topic:    "midiknob/cc",
		},
		Scan: ScanConfig{
			Interval: Duration(10 * time.Millisecond),
		},
		Pots: []PotConfig{
			{Channel: 0, MIDIChannel: 1, Controller: 7}, // Channel volume
		},
		Mock: MockConfig{
			NoiseLevel:  0.002,
			DriftPeriod: Duration(30 * time.Second),
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.MIDI.BaudRate == 0 {
		c.MIDI.BaudRate = def.MIDI.BaudRate
	}

	if c.MQTT.Broker == "" {
		c.MQTT.Broker = def.MQTT.Broker
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = def.MQTT.ClientID
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = def.MQTT.Topic
	}

	if c.Scan.Interval == 0 {
		c.Scan.Interval = def.Scan.Interval
	}

	if len(c.Pots) == 0 {
		c.Pots = def.Pots
	}
	for i := range c.Pots {
		if c.Pots[i].MIDIChannel == 0 {
			c.Pots[i].MIDIChannel = 1
		}
	}

	if c.Mock.NoiseLevel == 0 {
		c.Mock.NoiseLevel = def.Mock.NoiseLevel
	}
	if c.Mock.DriftPeriod == 0 {
		c.Mock.DriftPeriod = def.Mock.DriftPeriod
	}
}
