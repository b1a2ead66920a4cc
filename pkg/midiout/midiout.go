// Package midiout provides byte sinks for the CC encoder: a serial port
// running at the MIDI DIN rate, and an io.Writer adapter for piping the
// stream elsewhere.
package midiout

import (
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
)

// DefaultBaudRate is the MIDI DIN transfer rate.
const DefaultBaudRate = 31250

// Serial writes MIDI bytes to a serial port. WriteByte is serialized so
// several encoders may share one output port.
type Serial struct {
	conn serial.Port
	mu   sync.Mutex
}

// Open opens the given serial port for MIDI output. A zero baudRate
// selects DefaultBaudRate.
func Open(port string, baudRate int) (*Serial, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	conn, err := serial.Open(port, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("failed to open MIDI port %s: %w", port, err)
	}

	return &Serial{conn: conn}, nil
}

// WriteByte writes one byte to the port.
func (s *Serial) WriteByte(b byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.conn.Write([]byte{b})
	if err != nil {
		return fmt.Errorf("failed to write MIDI byte: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("short write: %d of 1 bytes", n)
	}
	return nil
}

// Close closes the port.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

// Writer adapts any io.Writer to the byte sink contract.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteByte writes one byte to the underlying writer.
func (w *Writer) WriteByte(b byte) error {
	n, err := w.w.Write([]byte{b})
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("short write: %d of 1 bytes", n)
	}
	return nil
}
