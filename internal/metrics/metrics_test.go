package metrics

import (
	"testing"
)

func TestStatusToString(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{0, "1xx"},
		{101, "1xx"},
		{200, "2xx"},
		{304, "3xx"},
		{422, "4xx"},
		{502, "5xx"},
		{504, "5xx"},
	}

	for _, tt := range tests {
		if got := statusToString(tt.status); got != tt.expected {
			t.Errorf("statusToString(%d) = %s, want %s", tt.status, got, tt.expected)
		}
	}
}

func TestRegistry_RecordRequest(t *testing.T) {
	reg := NewRegistry()

	reg.RecordRequest("GET", "/api/analytics", 200, 0.01)
	reg.RecordRequest("GET", "/api/analytics", 200, 0.02)
	reg.RecordRequest("POST", "/api/settings", 422, 0.03)

	if got := gaugeValue(t, reg, "http_requests_total", map[string]string{"path": "/api/analytics"}); got != 2 {
		t.Errorf("expected 2 analytics requests, got %v", got)
	}
	if got := gaugeValue(t, reg, "http_requests_total", map[string]string{"status": "4xx"}); got != 1 {
		t.Errorf("expected 1 rejected settings save, got %v", got)
	}
}

func gaugeValue(t *testing.T, reg *Registry, name string, labels map[string]string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			match := true
			for _, l := range m.GetLabel() {
				if want, ok := labels[l.GetName()]; ok && want != l.GetValue() {
					match = false
				}
			}
			if match {
				if m.GetGauge() != nil {
					return m.GetGauge().GetValue()
				}
				return m.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s %v not found", name, labels)
	return 0
}

func TestRegistry_RecordRefresh(t *testing.T) {
	reg := NewRegistry()

	reg.RecordRefresh(true, 0.2)
	reg.RecordRefresh(false, 0.1)
	reg.RecordRefresh(true, 0.3)

	if got := gaugeValue(t, reg, "signaldeck_refreshes_total", map[string]string{"result": "success"}); got != 2 {
		t.Errorf("expected 2 successful refreshes, got %v", got)
	}
	if got := gaugeValue(t, reg, "signaldeck_refreshes_total", map[string]string{"result": "failure"}); got != 1 {
		t.Errorf("expected 1 failed refresh, got %v", got)
	}
}

func TestRegistry_StoreGauges(t *testing.T) {
	reg := NewRegistry()

	reg.SetSignals("all", 12)
	reg.SetSignals("latest", 3)
	reg.SetWinRate(66.7)
	reg.SetSubsystemOnline("node", true)
	reg.SetSubsystemOnline("python", false)

	if got := gaugeValue(t, reg, "signaldeck_signals", map[string]string{"collection": "all"}); got != 12 {
		t.Errorf("expected 12, got %v", got)
	}
	if got := gaugeValue(t, reg, "signaldeck_win_rate_percent", nil); got != 66.7 {
		t.Errorf("expected 66.7, got %v", got)
	}
	if got := gaugeValue(t, reg, "signaldeck_subsystem_online", map[string]string{"subsystem": "python"}); got != 0 {
		t.Errorf("expected python offline, got %v", got)
	}
}

func TestRegistry_ObserveBackendRequest(t *testing.T) {
	reg := NewRegistry()

	reg.ObserveBackendRequest("GET", "/signals", 200, 0.05)
	reg.ObserveBackendRequest("GET", "/signals", 0, 10)

	if got := gaugeValue(t, reg, "signaldeck_backend_requests_total", map[string]string{"status": "2xx"}); got != 1 {
		t.Errorf("expected one 2xx request, got %v", got)
	}
	if got := gaugeValue(t, reg, "signaldeck_backend_requests_total", map[string]string{"status": "error"}); got != 1 {
		t.Errorf("expected one failed request, got %v", got)
	}
}

func TestRegistry_StreamClients(t *testing.T) {
	reg := NewRegistry()

	reg.StreamClientInc()
	reg.StreamClientInc()
	reg.StreamClientDec()

	if got := gaugeValue(t, reg, "signaldeck_stream_clients", nil); got != 1 {
		t.Errorf("expected 1 connected client, got %v", got)
	}
}

func TestRegistry_RecordSnapshotArchived(t *testing.T) {
	reg := NewRegistry()

	reg.RecordSnapshotArchived("success")
	reg.RecordSnapshotArchived("failure")
	reg.RecordSnapshotArchived("success")

	if got := gaugeValue(t, reg, "signaldeck_snapshots_archived_total", map[string]string{"status": "success"}); got != 2 {
		t.Errorf("expected 2 archived snapshots, got %v", got)
	}
}
