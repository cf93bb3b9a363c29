package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Normalize(t *testing.T) {
	tests := []struct {
		in   Status
		want Status
	}{
		{StatusHitTP, StatusHitTP},
		{StatusHitSL, StatusHitSL},
		{StatusPending, StatusPending},
		{"", StatusPending},
		{"Cancelled", StatusPending},
		{"hit tp", StatusPending},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestStatus_IsCompleted(t *testing.T) {
	assert.True(t, StatusHitTP.IsCompleted())
	assert.True(t, StatusHitSL.IsCompleted())
	assert.False(t, StatusPending.IsCompleted())
	assert.False(t, Status("Expired").IsCompleted())
}

func TestSignal_UnmarshalJSON(t *testing.T) {
	payload := `{
		"_id": "65f1",
		"pair": "XAUUSD",
		"type": "BUY",
		"entry": "2345.10",
		"tp": 2360.5,
		"sl": "2330",
		"createdAt": "2026-10-19T08:30:00Z",
		"strategy": "Fibo Trend"
	}`

	var sig Signal
	require.NoError(t, json.Unmarshal([]byte(payload), &sig))

	assert.Equal(t, "65f1", sig.ID)
	assert.Equal(t, SignalBuy, sig.Type)
	assert.Equal(t, "2345.1", sig.Entry.String())
	assert.Equal(t, "2360.5", sig.TakeProfit.String())
	assert.Equal(t, "2330", sig.StopLoss.String())
	assert.Equal(t, StatusPending, sig.Status, "missing status defaults to Pending")
	assert.Equal(t, 2026, sig.CreatedAt.Year())
}

func TestSignal_UnmarshalJSON_KeepsUnknownStatus(t *testing.T) {
	var sig Signal
	require.NoError(t, json.Unmarshal([]byte(`{"pair":"EURUSD","status":"Cancelled"}`), &sig))

	assert.Equal(t, Status("Cancelled"), sig.Status)
	assert.Equal(t, StatusPending, sig.Status.Normalize())
}

func TestSystemStatus(t *testing.T) {
	st := DefaultSystemStatus()
	assert.False(t, st.IsOnline(SubsystemNode))
	assert.False(t, st.IsOnline(SubsystemPython))

	st = SystemStatus{SubsystemNode: Online}
	assert.True(t, st.IsOnline(SubsystemNode))
	assert.False(t, st.IsOnline(SubsystemPython), "missing subsystem is offline")

	clone := st.Clone()
	clone[SubsystemNode] = Offline
	assert.True(t, st.IsOnline(SubsystemNode), "clone must not alias")
}
