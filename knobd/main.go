// knobd scans a bank of analog pots through a serial-attached ADC and
// emits MIDI Control Change messages on every accepted movement.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/knobworks/midiknob/pkg/adc"
	"github.com/knobworks/midiknob/pkg/config"
	"github.com/knobworks/midiknob/pkg/midicc"
	"github.com/knobworks/midiknob/pkg/midiout"
	"github.com/knobworks/midiknob/pkg/telemetry"
)

func main() {
	configPath := flag.String("config", "midiknob.yaml", "path to configuration file")
	mock := flag.Bool("mock", false, "use the simulated ADC instead of a serial device")
	listPorts := flag.Bool("list-ports", false, "list available serial ports and exit")
	flag.Parse()

	if *listPorts {
		ports, err := adc.Ports()
		if err != nil {
			log.Fatalf("Failed to list serial ports: %v", err)
		}
		for _, p := range ports {
			fmt.Println(p.Name)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var device adc.Device
	if *mock {
		device = adc.NewMock(&cfg.Mock)
	} else {
		device = adc.New(cfg.Serial.Port, cfg.Serial.BaudRate)
	}
	if err := device.Connect(); err != nil {
		log.Fatalf("Failed to connect to ADC: %v", err)
	}
	defer device.Close()

	var sink midicc.ByteWriter
	if cfg.MIDI.Port == "" {
		log.Printf("No MIDI port configured, writing byte stream to stdout")
		sink = midiout.NewWriter(os.Stdout)
	} else {
		out, err := midiout.Open(cfg.MIDI.Port, cfg.MIDI.BaudRate)
		if err != nil {
			log.Fatalf("Failed to open MIDI output: %v", err)
		}
		defer out.Close()
		sink = out
	}

	var pub telemetry.Publisher
	if cfg.MQTT.Enabled {
		pub, err = telemetry.NewMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic)
		if err != nil {
			log.Fatalf("Failed to connect telemetry: %v", err)
		}
		defer pub.Close()
	}

	ccs := make([]*midicc.CC, 0, len(cfg.Pots))
	for _, pc := range cfg.Pots {
		cc, err := buildPot(device, pc, sink, pub)
		if err != nil {
			log.Fatalf("Failed to set up pot on channel %d: %v", pc.Channel, err)
		}
		ccs = append(ccs, cc)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Printf("Shutdown signal received")
		cancel()
	}()

	log.Printf("Scanning %d pots every %v", len(ccs), cfg.Scan.Interval.Duration())

	// All pots are scanned from this single goroutine; the conditioner
	// state is unsynchronized by design.
	ticker := time.NewTicker(cfg.Scan.Interval.Duration())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, c := range ccs {
				c.Scan()
			}
		}
	}
}

// buildPot wires one configured pot to the shared sink and optional
// telemetry publisher.
func buildPot(device adc.Device, pc config.PotConfig, sink midicc.ByteWriter, pub telemetry.Publisher) (*midicc.CC, error) {
	var (
		cc  *midicc.CC
		err error
	)
	if len(pc.Table) > 0 {
		cc, err = midicc.NewWithTable(device, pc.Channel, pc.MIDIChannel, pc.Controller, sink, pc.Table)
	} else {
		cc, err = midicc.New(device, pc.Channel, pc.MIDIChannel, pc.Controller, sink)
	}
	if err != nil {
		return nil, err
	}

	p := cc.Pot()
	if pc.DeadZonePercent > 0 {
		if err := p.SetDeadZone(pc.DeadZonePercent); err != nil {
			return nil, err
		}
	}
	if pc.SampleCount > 0 {
		if err := p.SetSampleCount(pc.SampleCount); err != nil {
			return nil, err
		}
	}
	if pc.DebounceThreshold > 0 {
		if err := p.SetDebounceThreshold(pc.DebounceThreshold); err != nil {
			return nil, err
		}
	}

	if pub != nil {
		channel, controller := pc.Channel, pc.Controller
		p.SetChangeHandler(func(newValue, oldValue int) {
			event := telemetry.Event{
				Channel:    channel,
				Controller: controller,
				Value:      newValue,
				OldValue:   oldValue,
				Timestamp:  time.Now(),
			}
			if err := pub.Publish(event); err != nil {
				log.Printf("Failed to publish change: %v", err)
			}
		})
	}

	return cc, nil
}
