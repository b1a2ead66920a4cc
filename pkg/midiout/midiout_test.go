package midiout

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knobworks/midiknob/pkg/midicc"
)

// Ensure both sinks satisfy the encoder's contract.
var (
	_ midicc.ByteWriter = (*Serial)(nil)
	_ midicc.ByteWriter = (*Writer)(nil)
)

func TestWriter_PreservesOrder(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	for _, b := range []byte{0xB0, 7, 100} {
		require.NoError(t, w.WriteByte(b))
	}

	assert.Equal(t, []byte{0xB0, 7, 100}, buf.Bytes())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestWriter_PropagatesError(t *testing.T) {
	w := NewWriter(failingWriter{})
	assert.Error(t, w.WriteByte(0xB0))
}

func TestOpen_InvalidPort(t *testing.T) {
	_, err := Open("/dev/definitely-not-a-port", 0)
	assert.Error(t, err)
}
