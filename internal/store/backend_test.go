package store

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/newthinker/signaldeck/internal/client"
	"github.com/newthinker/signaldeck/internal/core"
	"github.com/newthinker/signaldeck/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBackedStore builds a store on the real client and service.
func newBackedStore(t *testing.T, baseURL string) *Store {
	t.Helper()
	c, err := client.New(client.Config{BaseURL: baseURL, Timeout: time.Second}, nil)
	require.NoError(t, err)
	return New(service.New(c, nil), Options{})
}

func TestLoad_BackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	s := newBackedStore(t, url)
	s.Load(context.Background())

	st := s.State()
	assert.Equal(t, DefaultErrorMessage, st.Error)
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.AllSignals)
}

func TestLoad_UnexpectedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/system-status" {
			io.WriteString(w, `{"data":{"node":"online"}}`)
			return
		}
		io.WriteString(w, `{"data":"oops"}`)
	}))
	t.Cleanup(srv.Close)

	s := newBackedStore(t, srv.URL)
	s.Load(context.Background())

	assert.Equal(t, DefaultErrorMessage, s.State().Error)
}

func TestLoad_BackendMessageShownAsIs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/signals/latest" {
			w.WriteHeader(http.StatusServiceUnavailable)
			io.WriteString(w, `{"message":"Scanner is restarting"}`)
			return
		}
		io.WriteString(w, `{"data":[]}`)
	}))
	t.Cleanup(srv.Close)

	s := newBackedStore(t, srv.URL)
	s.Load(context.Background())

	assert.Equal(t, "Scanner is restarting", s.State().Error)
}

func TestLoad_RecoversAfterBackendReturns(t *testing.T) {
	var up atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !up.Load() {
			io.WriteString(w, `not json`)
			return
		}
		switch r.URL.Path {
		case "/system-status":
			io.WriteString(w, `{"data":{"node":"online","python":"online"}}`)
		default:
			io.WriteString(w, `{"data":[{"_id":"1","pair":"XAUUSD","type":"BUY","entry":1,"tp":2,"sl":0.5,"status":"Hit TP"}]}`)
		}
	}))
	t.Cleanup(srv.Close)

	s := newBackedStore(t, srv.URL)
	s.Load(context.Background())
	require.Equal(t, DefaultErrorMessage, s.State().Error)

	up.Store(true)
	s.Load(context.Background())

	st := s.State()
	assert.Empty(t, st.Error)
	require.Len(t, st.AllSignals, 1)
	assert.Equal(t, core.StatusHitTP, st.AllSignals[0].Status)
	assert.True(t, st.SystemStatus.IsOnline(core.SubsystemPython))
}
