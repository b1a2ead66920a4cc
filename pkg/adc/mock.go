package adc

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"github.com/knobworks/midiknob/pkg/config"
	"github.com/knobworks/midiknob/pkg/pot"
)

// Mock simulates a bank of pots for testing and development. Each channel
// sweeps slowly across the raw range (phase-shifted per channel so the
// channels stay distinguishable) with configurable noise on top.
type Mock struct {
	cfg *config.MockConfig

	mu        sync.RWMutex
	rng       *rand.Rand
	startTime time.Time
	connected bool
}

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		cfg = &config.MockConfig{
			NoiseLevel:  0.002,
			DriftPeriod: config.Duration(30 * time.Second),
		}
	}

	return &Mock{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Connect simulates connecting to the device.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	m.connected = true
	m.startTime = time.Now()

	return nil
}

// Close stops the mocked device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connected = false
	return nil
}

// ReadRaw returns a simulated reading for channel. Reads 0 when not
// connected, matching a floating input.
func (m *Mock) ReadRaw(channel int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return 0
	}

	elapsed := float32(time.Since(m.startTime).Seconds())
	period := float32(m.cfg.DriftPeriod.Duration().Seconds())
	if period <= 0 {
		period = 30
	}

	// Slow sweep between the mechanical extremes, offset per channel.
	phase := elapsed/period + float32(channel)*0.25
	position := 0.5 + 0.5*math32.Sin(2*math32.Pi*phase)
	noise := (m.rng.Float32()*2 - 1) * m.cfg.NoiseLevel

	value := int(math32.Round((position + noise) * pot.MaxRawReading))
	return pot.Clamp(value, 0, pot.MaxRawReading)
}

// IsConnected returns whether the mocked device is "connected".
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}
