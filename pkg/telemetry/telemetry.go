// Package telemetry publishes accepted control changes to an MQTT broker
// so the rest of a rig (or a dashboard) can follow the control surface.
package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Event is one accepted control change.
type Event struct {
	Channel    int       `json:"channel"`
	Controller byte      `json:"controller"`
	Value      int       `json:"value"`
	OldValue   int       `json:"old_value"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher delivers events somewhere (broker or test fake).
type Publisher interface {
	Publish(event Event) error
	Close() error
	IsConnected() bool
}

// Ensure MQTT implements Publisher.
var _ Publisher = (*MQTT)(nil)

// Ensure Fake implements Publisher.
var _ Publisher = (*Fake)(nil)

// FormatPayload renders the JSON payload for an event.
func FormatPayload(event Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return payload, nil
}

// MQTT publishes events to a broker topic.
type MQTT struct {
	client mqtt.Client
	topic  string
}

// NewMQTT connects to the broker and returns a publisher for topic.
func NewMQTT(broker, clientID, topic string) (*MQTT, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetConnectTimeout(5 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("timed out connecting to MQTT broker %s", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", broker, err)
	}

	return &MQTT{client: client, topic: topic}, nil
}

// Publish sends the event as JSON, QoS 0, not retained.
func (m *MQTT) Publish(event Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}

	token := m.client.Publish(m.topic, 0, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close disconnects from the broker.
func (m *MQTT) Close() error {
	m.client.Disconnect(250)
	return nil
}

// IsConnected reports broker connectivity.
func (m *MQTT) IsConnected() bool {
	return m.client.IsConnected()
}
