// Package midicc turns a conditioned pot into a MIDI Control Change
// source: every accepted change is encoded as a 3-byte CC message and
// written to a byte-oriented sink.
package midicc

import (
	"fmt"
	"log"

	"github.com/knobworks/midiknob/pkg/pot"
)

const (
	// MaxValue is the largest CC data byte (controller number or value).
	MaxValue = 127

	// DefaultDeadZonePercent compensates the slack of typical cheap pots.
	DefaultDeadZonePercent = 1.0

	// statusBase plus the MIDI channel (1..16) yields the CC status byte
	// (0xB0..0xBF).
	statusBase = 0xAF
)

// ByteWriter is the output sink. Bytes appear on the wire in write order;
// no flushing or framing is assumed. A shared sink must be serialized by
// the caller.
type ByteWriter interface {
	WriteByte(b byte) error
}

// CC owns a Pot fixed to the 0..127 CC value range and encodes its
// changes as Control Change messages. Like the underlying Pot, a CC
// supports exactly one scanning goroutine.
type CC struct {
	pot        *pot.Pot
	out        ByteWriter
	status     byte
	controller byte
	table      []byte
}

var _ pot.ChangeObserver = (*CC)(nil)

// New creates a pass-through CC pot: the mapped value itself is the
// emitted CC value. midiChannel is clamped to 1..16. The dead zone
// defaults to 1% and can be adjusted through Pot().
func New(s pot.Sampler, channel, midiChannel int, controller byte, out ByteWriter) (*CC, error) {
	if out == nil {
		return nil, fmt.Errorf("output sink is required")
	}
	p, err := pot.New(s, channel, 0, MaxValue, DefaultDeadZonePercent)
	if err != nil {
		return nil, err
	}
	c := &CC{
		pot:        p,
		out:        out,
		status:     statusBase + byte(pot.Clamp(midiChannel, 1, 16)),
		controller: controller,
	}
	p.SetObserver(c)
	return c, nil
}

// NewWithTable creates a CC pot in indexed mode: the mapped value selects
// an entry of table by linear interpolation and that entry is emitted
// instead of the value itself. Useful for non-linear tapers or stepped
// parameter values.
func NewWithTable(s pot.Sampler, channel, midiChannel int, controller byte, out ByteWriter, table []byte) (*CC, error) {
	c, err := New(s, channel, midiChannel, controller, out)
	if err != nil {
		return nil, err
	}
	if err := c.SetTable(table); err != nil {
		return nil, err
	}
	return c, nil
}

// SetTable switches to indexed mode using the given table, or back to
// pass-through mode when table is nil. The table is borrowed, not copied;
// the caller must not mutate it while scans are running.
func (c *CC) SetTable(table []byte) error {
	if table != nil && len(table) < 2 {
		return fmt.Errorf("lookup table needs at least 2 entries, got %d", len(table))
	}
	c.table = table
	return nil
}

// Pot exposes the underlying conditioner for tuning (dead zone, sample
// count, debounce threshold, change handler).
func (c *CC) Pot() *pot.Pot {
	return c.pot
}

// Scan conditions one reading and emits a CC message if the value moved.
func (c *CC) Scan() {
	c.pot.Scan()
}

// Changed implements pot.ChangeObserver. It derives the CC value (direct
// or table-indexed, clamped to 0..127), emits status/controller/value and
// hands the emitted value to the registered change handler.
func (c *CC) Changed(newValue, oldValue int) {
	value := byte(pot.Clamp(newValue, 0, MaxValue))
	if len(c.table) > 0 {
		idx := pot.Clamp(pot.Map(newValue, 0, MaxValue, 0, len(c.table)-1), 0, len(c.table)-1)
		value = byte(pot.Clamp(int(c.table[idx]), 0, MaxValue))
	}
	if err := c.emit(value); err != nil {
		log.Printf("Failed to emit CC %d on status 0x%02X: %v", c.controller, c.status, err)
	}
	c.pot.Dispatch(int(value), oldValue)
}

// emit writes the 3-byte message in wire order.
func (c *CC) emit(value byte) error {
	for _, b := range [3]byte{c.status, c.controller, value} {
		if err := c.out.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}
