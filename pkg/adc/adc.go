// Package adc provides sampling front-ends for the pot conditioner: a
// serial-attached MCU streaming raw readings, and a simulated device for
// development and tests. Both satisfy pot.Sampler.
package adc

import "github.com/knobworks/midiknob/pkg/pot"

// MaxChannels is the number of analog channels a device exposes.
const MaxChannels = 16

// Device is a connectable sampling source (real or mocked).
type Device interface {
	pot.Sampler
	Connect() error
	Close() error
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
