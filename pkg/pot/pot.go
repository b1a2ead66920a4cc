package pot

import (
	"fmt"
	"time"
)

const (
	// MaxRawReading is the full-scale raw sample value (10-bit ADC).
	MaxRawReading = 1023

	// DefaultSampleCount is the number of raw samples averaged per scan.
	DefaultSampleCount = 10

	// DefaultDebounceThreshold is the minimum averaged-raw delta accepted
	// as a real movement rather than noise.
	DefaultDebounceThreshold = 5
)

// Sampler reads one raw sample from a hardware channel. Readings are
// expected in [0, MaxRawReading]; out-of-range values are not validated
// here and will produce out-of-range mapped output.
type Sampler interface {
	ReadRaw(channel int) int
}

// SamplerFunc adapts a plain function to the Sampler interface.
type SamplerFunc func(channel int) int

// ReadRaw calls f.
func (f SamplerFunc) ReadRaw(channel int) int {
	return f(channel)
}

// ChangeObserver is notified when a scan accepts a new mapped value.
// An observer takes over change dispatch entirely: it is expected to call
// Dispatch on the Pot once it has derived the value to hand to the
// registered change handler. The MIDI CC encoder implements this to emit
// a message before dispatching.
type ChangeObserver interface {
	Changed(newValue, oldValue int)
}

// ChangeFunc is the external change handler. It is invoked synchronously
// from Scan and must not call Scan on the same Pot.
type ChangeFunc func(newValue, oldValue int)

// Pot conditions a noisy analog reading into a stable value mapped onto a
// caller-supplied range. Each Scan averages a batch of raw samples with
// min/max outlier rejection, debounces against the previously accepted
// average, compensates for dead zones at the raw extremes, remaps onto
// [minVal, maxVal] and notifies on change.
//
// A Pot is not safe for concurrent use: all mutable state assumes exactly
// one scanning goroutine. Independent Pot instances are fully isolated
// (debounce state is per instance, never shared).
type Pot struct {
	sampler Sampler
	channel int

	minVal int
	maxVal int

	deadZonePercent float32
	deadZoneWidth   int

	sampleCount       int
	debounceThreshold int
	settle            time.Duration

	rawValue int // dead-zone compensated raw value (0..MaxRawReading)
	value    int // mapped output value
	lastAvg  int // debounce state: last accepted average, -1 before first scan
	scanned  bool
	changed  bool

	observer ChangeObserver
	handler  ChangeFunc
}

// New creates a Pot reading from the given sampler channel, mapping onto
// [minVal, maxVal] with the given dead-zone percentage. minVal must be
// strictly less than maxVal (a zero-width range would divide by zero in
// the remap) and percent must be in [0, 100).
func New(s Sampler, channel, minVal, maxVal int, deadZonePercent float32) (*Pot, error) {
	if s == nil {
		return nil, fmt.Errorf("sampler is required")
	}
	if minVal >= maxVal {
		return nil, fmt.Errorf("invalid output range [%d, %d]: min must be less than max", minVal, maxVal)
	}
	p := &Pot{
		sampler:           s,
		channel:           channel,
		minVal:            minVal,
		maxVal:            maxVal,
		sampleCount:       DefaultSampleCount,
		debounceThreshold: DefaultDebounceThreshold,
		lastAvg:           -1,
	}
	if err := p.SetDeadZone(deadZonePercent); err != nil {
		return nil, err
	}
	return p, nil
}

// SetRange changes the output range. Takes effect on the next Scan; the
// previously reported value is not remapped.
func (p *Pot) SetRange(minVal, maxVal int) error {
	if minVal >= maxVal {
		return fmt.Errorf("invalid output range [%d, %d]: min must be less than max", minVal, maxVal)
	}
	p.minVal = minVal
	p.maxVal = maxVal
	return nil
}

// SetDeadZone sets the dead-zone percentage and recomputes the derived
// raw-unit width. Percent must be in [0, 100); values at or above 50 leave
// no usable range and are rejected as well.
func (p *Pot) SetDeadZone(percent float32) error {
	if percent < 0 || percent >= 50 {
		return fmt.Errorf("invalid dead zone %.2f%%: must be in [0, 50)", percent)
	}
	p.deadZonePercent = percent
	p.deadZoneWidth = int(float32(MaxRawReading) * percent / 100)
	return nil
}

// DeadZone returns the configured dead-zone percentage.
func (p *Pot) DeadZone() float32 {
	return p.deadZonePercent
}

// SetSampleCount sets how many raw samples are averaged per scan. Outlier
// rejection removes one minimum and one maximum, so at least 3 samples are
// required for a well-defined average.
func (p *Pot) SetSampleCount(n int) error {
	if n < 3 {
		return fmt.Errorf("invalid sample count %d: need at least 3 for outlier rejection", n)
	}
	p.sampleCount = n
	return nil
}

// SetDebounceThreshold sets the minimum averaged-raw delta required to
// accept a new reading. Zero disables debouncing.
func (p *Pot) SetDebounceThreshold(threshold int) error {
	if threshold < 0 {
		return fmt.Errorf("invalid debounce threshold %d: must be non-negative", threshold)
	}
	p.debounceThreshold = threshold
	return nil
}

// SetSettleDelay inserts a fixed delay between consecutive raw reads
// within one batch, for sampling hardware that needs settling time after
// each acquisition. Default is no delay.
func (p *Pot) SetSettleDelay(d time.Duration) {
	p.settle = d
}

// SetChangeHandler registers the external change handler. A registered
// handler is invoked on every accepted change and the change flag is
// cleared on its behalf. Pass nil to unregister.
func (p *Pot) SetChangeHandler(h ChangeFunc) {
	p.handler = h
}

// SetObserver registers a change observer, replacing the default dispatch
// behavior. Pass nil to restore it.
func (p *Pot) SetObserver(o ChangeObserver) {
	p.observer = o
}

// readAveraged acquires one batch of raw samples, rejects the single most
// extreme low and high sample, averages the rest and applies debouncing
// against the last accepted average. A suppressed reading returns the
// previous accepted average without touching debounce state.
func (p *Pot) readAveraged() int {
	sum := 0
	batchMin := MaxRawReading + 1
	batchMax := -1
	for i := 0; i < p.sampleCount; i++ {
		v := p.sampler.ReadRaw(p.channel)
		sum += v
		if v < batchMin {
			batchMin = v
		}
		if v > batchMax {
			batchMax = v
		}
		if p.settle > 0 && i < p.sampleCount-1 {
			time.Sleep(p.settle)
		}
	}
	avg := (sum - batchMin - batchMax) / (p.sampleCount - 2)

	if p.lastAvg >= 0 && abs(avg-p.lastAvg) < p.debounceThreshold {
		return p.lastAvg
	}
	p.lastAvg = avg
	return avg
}

// Scan acquires and conditions one reading. The averaged value is clamped
// into [deadZoneWidth, MaxRawReading-deadZoneWidth], stretched back onto
// the full raw scale (so readings inside a dead band still reach true
// min/max), then remapped onto the output range. If the mapped value
// differs from the previous one the change flag is set and the observer or
// handler is notified.
//
// Scan is meant to be driven on a fixed cadence by the caller; it performs
// no delay of its own beyond the optional per-sample settle time.
func (p *Pot) Scan() {
	avg := p.readAveraged()
	compensated := Clamp(
		Map(avg, p.deadZoneWidth, MaxRawReading-p.deadZoneWidth, 0, MaxRawReading),
		0, MaxRawReading)
	mapped := Map(compensated, 0, MaxRawReading, p.minVal, p.maxVal)

	if p.scanned && mapped == p.value {
		return
	}
	old := p.value
	p.value = mapped
	p.rawValue = compensated
	p.scanned = true
	p.changed = true

	if p.observer != nil {
		p.observer.Changed(mapped, old)
		return
	}
	p.Dispatch(mapped, old)
}

// Dispatch invokes the registered change handler, if any, and clears the
// change flag on its behalf. Observers call this once they have computed
// the value the handler should see; without an observer Scan calls it
// directly with the mapped values. Without a handler the change flag stays
// set for polled consumers until Acknowledge.
func (p *Pot) Dispatch(newValue, oldValue int) {
	if p.handler == nil {
		return
	}
	p.handler(newValue, oldValue)
	p.changed = false
}

// Value returns the most recent mapped output value. Zero before the
// first Scan.
func (p *Pot) Value() int {
	return p.value
}

// Raw returns the most recent dead-zone compensated raw value
// (0..MaxRawReading). Zero before the first Scan.
func (p *Pot) Raw() int {
	return p.rawValue
}

// Channel returns the sampler channel this Pot reads from.
func (p *Pot) Channel() int {
	return p.channel
}

// HasChanged reports whether a change was accepted and not yet
// acknowledged. Handler dispatch acknowledges automatically.
func (p *Pot) HasChanged() bool {
	return p.changed
}

// Acknowledge clears the change flag. Polled consumers call this after
// processing a change.
func (p *Pot) Acknowledge() {
	p.changed = false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
