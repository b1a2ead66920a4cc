package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPayload(t *testing.T) {
	event := Event{
		Channel:    3,
		Controller: 74,
		Value:      100,
		OldValue:   96,
		Timestamp:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}

	payload, err := FormatPayload(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, float64(3), decoded["channel"])
	assert.Equal(t, float64(74), decoded["controller"])
	assert.Equal(t, float64(100), decoded["value"])
	assert.Equal(t, float64(96), decoded["old_value"])
}

func TestFake_RecordsEvents(t *testing.T) {
	f := NewFake()

	event := Event{Channel: 1, Controller: 7, Value: 62, OldValue: 60, Timestamp: time.Now()}
	require.NoError(t, f.Publish(event))

	require.Len(t, f.Events, 1)
	assert.Equal(t, event, f.Events[0])
	require.Len(t, f.Payloads, 1)
	assert.True(t, f.IsConnected())

	require.NoError(t, f.Close())
	assert.True(t, f.Closed)
}

func TestFake_PublishError(t *testing.T) {
	f := NewFake()
	f.PublishError = assert.AnError

	err := f.Publish(Event{})
	assert.Error(t, err)
	assert.Empty(t, f.Events)
}
