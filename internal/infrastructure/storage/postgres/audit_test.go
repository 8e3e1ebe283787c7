package postgres

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditSink_SmallPayloadStoredPlain(t *testing.T) {
	sink, err := NewAuditSink(nil)
	require.NoError(t, err)

	payload := []byte(`{"number":"INV202506000001","total":"560"}`)
	plain, compressed, algo := sink.compressPayload(payload)

	assert.Equal(t, CompressionNone, algo)
	assert.Equal(t, payload, plain)
	assert.Nil(t, compressed)
}

func TestAuditSink_LargePayloadRoundTrip(t *testing.T) {
	sink, err := NewAuditSink(nil)
	require.NoError(t, err)

	// Repetitive JSON well past the threshold compresses hard.
	payload := bytes.Repeat([]byte(`{"productName":"Paracetamol 500mg","quantity":"1"},`), 1024)
	require.Greater(t, len(payload), sink.compressThreshold)

	plain, compressed, algo := sink.compressPayload(payload)

	assert.Equal(t, CompressionZstd, algo)
	assert.Nil(t, plain)
	require.NotEmpty(t, compressed)
	assert.Less(t, len(compressed), len(payload))

	restored, err := sink.DecompressPayload(compressed)
	require.NoError(t, err)
	assert.Equal(t, payload, restored)
}
