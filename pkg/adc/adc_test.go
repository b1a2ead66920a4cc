package adc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knobworks/midiknob/pkg/config"
	"github.com/knobworks/midiknob/pkg/pot"
)

func TestParseLine_Valid(t *testing.T) {
	tests := []struct {
		line    string
		channel int
		value   int
	}{
		{"0,0", 0, 0},
		{"3,512", 3, 512},
		{"15,1023", 15, 1023},
	}

	for _, tt := range tests {
		channel, value, err := parseLine(tt.line)
		require.NoError(t, err, "line %q", tt.line)
		assert.Equal(t, tt.channel, channel)
		assert.Equal(t, tt.value, value)
	}
}

func TestParseLine_Invalid(t *testing.T) {
	lines := []string{
		"",
		"512",
		"1,2,3",
		"x,512",
		"1,x",
		"-1,512",
		"16,512",
		"1,-5",
		"1,1024",
	}

	for _, line := range lines {
		_, _, err := parseLine(line)
		assert.Error(t, err, "line %q should be rejected", line)
	}
}

func TestSerial_ReadRawBeforeData(t *testing.T) {
	d := New("/dev/null", 0)

	assert.Equal(t, 0, d.ReadRaw(0), "no data yet reads as 0")
	assert.Equal(t, 0, d.ReadRaw(-1), "out-of-range channel reads as 0")
	assert.Equal(t, 0, d.ReadRaw(MaxChannels), "out-of-range channel reads as 0")
	assert.False(t, d.IsConnected())
}

func TestSerial_CloseWithoutConnect(t *testing.T) {
	d := New("/dev/null", 0)
	assert.NoError(t, d.Close())
}

func TestMock_ConnectLifecycle(t *testing.T) {
	m := NewMock(nil)

	assert.False(t, m.IsConnected())
	assert.Equal(t, 0, m.ReadRaw(0), "disconnected mock reads as a floating input")

	require.NoError(t, m.Connect())
	assert.True(t, m.IsConnected())
	assert.Error(t, m.Connect(), "double connect must fail")

	require.NoError(t, m.Close())
	assert.False(t, m.IsConnected())
	assert.Equal(t, 0, m.ReadRaw(0))
}

func TestMock_ReadingsInRange(t *testing.T) {
	m := NewMock(&config.MockConfig{
		NoiseLevel:  0.05,
		DriftPeriod: config.Duration(time.Second),
	})
	require.NoError(t, m.Connect())
	defer m.Close()

	for i := 0; i < 200; i++ {
		for channel := 0; channel < 4; channel++ {
			v := m.ReadRaw(channel)
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, pot.MaxRawReading)
		}
	}
}

func TestMock_SatisfiesSampler(t *testing.T) {
	m := NewMock(nil)
	require.NoError(t, m.Connect())
	defer m.Close()

	p, err := pot.New(m, 0, 0, 127, 1)
	require.NoError(t, err)

	p.Scan()
	assert.GreaterOrEqual(t, p.Value(), 0)
	assert.LessOrEqual(t, p.Value(), 127)
}
