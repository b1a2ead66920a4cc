package adc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"go.bug.st/serial"

	"github.com/knobworks/midiknob/pkg/pot"
)

// DefaultBaudRate is the standard baud rate for the XIAO SAMD21 firmware.
const DefaultBaudRate = 115200

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial reads raw pot values from a serial-attached MCU. The firmware
// streams one reading per line as "channel,value"; a reader goroutine
// caches the latest value per channel so ReadRaw never blocks on the
// wire.
type Serial struct {
	port     string
	baudRate int

	conn      serial.Port
	readings  [MaxChannels]int
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// New creates a Serial device for the given port. A zero baudRate selects
// DefaultBaudRate.
func New(port string, baudRate int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:     port,
		baudRate: baudRate,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port and starts caching readings.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true

	go d.readLoop()

	return nil
}

// Close stops the reader goroutine and closes the port.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
		d.conn = nil
	}

	d.connected = false

	return nil
}

// ReadRaw returns the most recent reading for channel, or 0 if none has
// arrived yet. Out-of-range channels read as 0.
func (d *Serial) ReadRaw(channel int) int {
	if channel < 0 || channel >= MaxChannels {
		return 0
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.readings[channel]
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readLoop reads lines from the serial port and caches parsed readings.
func (d *Serial) readLoop() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in readLoop: %v", r)
		}
	}()

	scanner := bufio.NewScanner(d.conn)
	for {
		select {
		case <-d.ctx.Done():
			return
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil && err != io.EOF {
					log.Printf("Error reading from serial port: %v", err)
				}
				return
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			channel, value, err := parseLine(line)
			if err != nil {
				log.Printf("Skipping malformed line %q: %v", line, err)
				continue
			}

			d.mu.Lock()
			d.readings[channel] = value
			d.mu.Unlock()
		}
	}
}

// parseLine parses one reading from the MCU.
// Format: channel,value
// Example: 3,512
func parseLine(line string) (channel, value int, err error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid line format: expected 2 comma-separated values, got %d", len(parts))
	}

	channel, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid channel: %w", err)
	}
	if channel < 0 || channel >= MaxChannels {
		return 0, 0, fmt.Errorf("channel out of range: %d (max %d)", channel, MaxChannels-1)
	}

	value, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid value: %w", err)
	}
	if value < 0 || value > pot.MaxRawReading {
		return 0, 0, fmt.Errorf("value out of range: %d (max %d)", value, pot.MaxRawReading)
	}

	return channel, value, nil
}
