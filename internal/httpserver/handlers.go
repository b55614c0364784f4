package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"krw-rate-alerts/internal/service"
	"krw-rate-alerts/internal/threshold"
)

const checkedAtLayout = "2006-01-02 15:04:05"

type checkRateResponse struct {
	Success         bool           `json:"success"`
	NoData          bool           `json:"noData,omitempty"`
	CurrentRate     string         `json:"currentRate,omitempty"`
	CheckedAt       string         `json:"checkedAt"`
	AlertsTriggered int            `json:"alertsTriggered"`
	Alerts          []alertPayload `json:"alerts"`
	BuyTargets      []levelPayload `json:"buyTargets"`
	SellTargets     []levelPayload `json:"sellTargets"`
}

type alertPayload struct {
	Type        string `json:"type"`
	Level       int    `json:"level"`
	TargetPrice string `json:"targetPrice"`
	CurrentRate string `json:"currentRate"`
}

type levelPayload struct {
	Target  string `json:"target"`
	Enabled bool   `json:"enabled"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) handleCheckRate(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	result, err := s.svc.CheckOnce(r.Context(), time.Now().UTC())
	if err != nil {
		s.logger.Error().Err(err).Msg("check cycle failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, s.renderResult(result))
}

func (s *Server) renderResult(result service.Result) checkRateResponse {
	resp := checkRateResponse{
		Success:         result.Success,
		NoData:          result.NoData,
		CheckedAt:       result.CheckedAt.In(s.loc).Format(checkedAtLayout),
		AlertsTriggered: result.AlertsTriggered,
		Alerts:          make([]alertPayload, 0, len(result.Alerts)),
		BuyTargets:      renderLevels(result.Thresholds.Buy),
		SellTargets:     renderLevels(result.Thresholds.Sell),
	}
	if !result.NoData {
		resp.CurrentRate = result.Rate.StringFixed(2)
	}

	for _, a := range result.Alerts {
		resp.Alerts = append(resp.Alerts, alertPayload{
			Type:        string(a.Direction),
			Level:       a.Stage,
			TargetPrice: a.Target.StringFixed(2),
			CurrentRate: a.Rate.StringFixed(2),
		})
	}
	return resp
}

func renderLevels(levels []threshold.PriceLevel) []levelPayload {
	rendered := make([]levelPayload, 0, len(levels))
	for _, level := range levels {
		rendered = append(rendered, levelPayload{
			Target:  level.Target.String(),
			Enabled: level.Enabled,
		})
	}
	return rendered
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.svc.CurrentSettings(r.Context()))
	case http.MethodPost, http.MethodPut:
		s.handleReplaceSettings(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	}
}

func (s *Server) handleReplaceSettings(w http.ResponseWriter, r *http.Request) {
	var set threshold.ThresholdSet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid settings payload"})
		return
	}
	if !set.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "settings must carry both buy and sell levels"})
		return
	}

	if err := s.svc.ReplaceSettings(r.Context(), set); err != nil {
		s.logger.Error().Err(err).Msg("failed to replace settings")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "save failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
