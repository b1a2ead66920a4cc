package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.Equal(t, 31250, cfg.MIDI.BaudRate)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, 10*time.Millisecond, cfg.Scan.Interval.Duration())
	require.Len(t, cfg.Pots, 1)
	assert.Equal(t, 1, cfg.Pots[0].MIDIChannel)
	assert.Equal(t, byte(7), cfg.Pots[0].Controller)
	assert.Equal(t, 30*time.Second, cfg.Mock.DriftPeriod.Duration())
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyUSB0"
  baud_rate: 57600

midi:
  port: "/dev/ttyUSB1"
  baud_rate: 31250

mqtt:
  enabled: true
  broker: "tcp://broker.local:1883"
  topic: "rig/cc"

scan:
  interval: 20ms

pots:
  - channel: 0
    midi_channel: 1
    controller: 7
    dead_zone_percent: 2.5
    sample_count: 16
    debounce_threshold: 3
  - channel: 1
    midi_channel: 2
    controller: 74
    table: [0, 32, 64, 96, 127]

mock:
  noise_level: 0.01
  drift_period: 5s
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Port)
	assert.Equal(t, 57600, cfg.Serial.BaudRate)
	assert.Equal(t, "/dev/ttyUSB1", cfg.MIDI.Port)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "rig/cc", cfg.MQTT.Topic)
	assert.Equal(t, 20*time.Millisecond, cfg.Scan.Interval.Duration())

	require.Len(t, cfg.Pots, 2)
	assert.Equal(t, float32(2.5), cfg.Pots[0].DeadZonePercent)
	assert.Equal(t, 16, cfg.Pots[0].SampleCount)
	assert.Equal(t, 3, cfg.Pots[0].DebounceThreshold)
	assert.Equal(t, byte(74), cfg.Pots[1].Controller)
	assert.Equal(t, []byte{0, 32, 64, 96, 127}, cfg.Pots[1].Table)

	assert.Equal(t, float32(0.01), cfg.Mock.NoiseLevel)
	assert.Equal(t, 5*time.Second, cfg.Mock.DriftPeriod.Duration())
}

func TestLoad_PartialYAMLBackfillsDefaults(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyUSB0"

pots:
  - channel: 2
    controller: 11
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.BaudRate, "missing baud rate falls back to default")
	assert.Equal(t, 31250, cfg.MIDI.BaudRate)
	assert.Equal(t, 10*time.Millisecond, cfg.Scan.Interval.Duration())

	require.Len(t, cfg.Pots, 1)
	assert.Equal(t, 2, cfg.Pots[0].Channel)
	assert.Equal(t, 1, cfg.Pots[0].MIDIChannel, "missing MIDI channel falls back to 1")
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("pots: [not: valid: yaml")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	_, err = Load(tmpfile.Name())
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.Serial.Port = "/dev/ttyACM3"
	cfg.Scan.Interval = Duration(25 * time.Millisecond)
	cfg.Pots = []PotConfig{
		{Channel: 5, MIDIChannel: 3, Controller: 1, Table: []byte{1, 2, 3}},
	}

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM3", loaded.Serial.Port)
	assert.Equal(t, 25*time.Millisecond, loaded.Scan.Interval.Duration())
	require.Len(t, loaded.Pots, 1)
	assert.Equal(t, 5, loaded.Pots[0].Channel)
	assert.Equal(t, []byte{1, 2, 3}, loaded.Pots[0].Table)
}
