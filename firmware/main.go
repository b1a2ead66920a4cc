//go:build tinygo

//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"time"
)

var (
	pots [len(potPins)]machine.ADC

	// Timing
	lastRead time.Time
)

func main() {
	adcConfig := machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	}

	for i, pin := range potPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinInput})
		pots[i] = machine.ADC{Pin: pin}
		pots[i].Configure(adcConfig)
	}

	machine.UART0.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	lastRead = time.Now()

	// Main loop
	for {
		now := time.Now()

		if now.Sub(lastRead) >= time.Duration(READ_INTERVAL_MS)*time.Millisecond {
			outputReadings()
			lastRead = now
		}

		// Small delay to prevent tight loop (but still allow precise timing)
		time.Sleep(100 * time.Microsecond)
	}
}

// outputReadings streams one line per pot.
// Format: "channel,value\n" with value scaled to 0-1023.
// Example: "3,512\n"
func outputReadings() {
	for i := range pots {
		// Get() is left-aligned to 16 bits regardless of resolution;
		// shift down to the 10-bit range the host expects.
		value := pots[i].Get() >> 6

		print(i)
		print(",")
		print(value)
		print("\n")
	}
}
