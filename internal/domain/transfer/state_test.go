package transfer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

func TestState_String(t *testing.T) {
	assert.Equal(t, "INITIAL", transfer.StateInitial.String())
	assert.Equal(t, "ERROR", transfer.StateError.String())
	assert.Contains(t, transfer.State(999).String(), "UNKNOWN")
}

func TestState_IsTerminal(t *testing.T) {
	assert.True(t, transfer.StateEnded.IsTerminal())
	assert.True(t, transfer.StateError.IsTerminal())
	assert.False(t, transfer.StateCompleted.IsTerminal())
	assert.False(t, transfer.StateInitial.IsTerminal())
}

func TestActiveStates_ExcludesCompleted(t *testing.T) {
	for _, s := range transfer.ActiveStates {
		assert.NotEqual(t, transfer.StateCompleted, s, "COMPLETED must never be polled: dispatch has no handler for it, and handleInProgressOrStreaming moves a completed process on in the same call")
	}
}

func TestState_ScanAndValue_RoundTrip(t *testing.T) {
	for _, s := range append(append([]transfer.State{}, transfer.ActiveStates...), transfer.StateCompleted, transfer.StateEnded, transfer.StateError) {
		v, err := s.Value()
		assert.NoError(t, err)

		var scanned transfer.State
		assert.NoError(t, scanned.Scan(v))
		assert.Equal(t, s, scanned)
	}
}

func TestState_Scan_Nil(t *testing.T) {
	var s transfer.State = transfer.StateError
	assert.NoError(t, s.Scan(nil))
	assert.Equal(t, transfer.StateInitial, s)
}

func TestState_Scan_UnsupportedType(t *testing.T) {
	var s transfer.State
	err := s.Scan("not-an-int")
	assert.Error(t, err)
}
