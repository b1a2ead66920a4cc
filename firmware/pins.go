//go:build tinygo

package main

import "machine"

const (
	// Sampling configuration
	READ_INTERVAL_MS = 1 // Per-pot output interval in milliseconds

	// ADC configuration
	ADC_REFERENCE_MV = 3300 // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = 10   // ADC resolution in bits (10-bit = 0-1023)

	// Serial configuration
	// Baud rate calculation: Format "channel,value\n"
	// Example: "15,1023\n" = ~8 bytes max per line
	// 4 pots * 1000 lines/sec * 8 bytes/line = 32,000 bytes/sec
	// UART 8N1: 10 bits/byte = 320,000 baud ideal; 115200 still carries
	// ~11,500 bytes/sec, plenty for the host-side 10 ms scan cadence.
	UART_BAUD_RATE = 115200
)

// potPins lists the analog inputs wired to pots; the slice index is the
// channel number reported to the host.
var potPins = [...]machine.Pin{
	machine.A0,
	machine.A1,
	machine.A2,
	machine.A3,
}
