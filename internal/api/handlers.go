package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/newthinker/signaldeck/internal/api/response"
	"github.com/newthinker/signaldeck/internal/core"
	"github.com/newthinker/signaldeck/internal/view"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.deps.Store.State()
	response.JSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"loading":   st.IsLoading,
		"error":     st.Error,
		"updatedAt": st.UpdatedAt,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, view.Dashboard(s.deps.Store.State()))
}

func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, view.Signals(s.deps.Store.State()))
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, view.Analytics(s.deps.Store.State()))
}

// handleLogs fetches on every request; logs are not held by the store.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	data := view.LoadLogs(r.Context(), s.deps.Backend)
	if data.Phase == view.PhaseError {
		s.logger.Warn("logs fetch failed", zap.String("error", data.Error))
	}
	response.JSON(w, http.StatusOK, data)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, view.LoadSettings(r.Context(), s.deps.Backend))
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var form core.SettingsForm
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&form); err != nil {
		response.Fail(w,
			core.WrapError(core.ErrSettingsInvalid, fmt.Errorf("decoding form: %w", err)))
		return
	}

	data := view.SaveSettings(r.Context(), s.deps.Backend, form)
	if !data.Saved {
		s.logger.Warn("settings save failed", zap.String("error", data.Error))
		response.JSON(w, http.StatusUnprocessableEntity, data)
		return
	}

	s.logger.Info("settings saved", zap.String("pairs", data.Form.TrackedPairs))
	response.JSON(w, http.StatusOK, data)
}

// handleRefresh runs a full store load and answers with the result. The
// load is detached from the request so a client disconnect does not
// surface as a store error.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.deps.Store.Refresh(context.WithoutCancel(r.Context()))
	response.JSON(w, http.StatusOK, s.deps.Store.State())
}
