package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/pable/go-futsal-metrics/internal/aggregator"
	"github.com/pable/go-futsal-metrics/internal/analysis"
	"github.com/pable/go-futsal-metrics/internal/infographic"
	"github.com/pable/go-futsal-metrics/internal/matchlist"
	"github.com/pable/go-futsal-metrics/internal/model"
	"github.com/pable/go-futsal-metrics/internal/momentum"
)

const (
	codeNotFound      = "not_found"
	codeBadRequest    = "bad_request"
	codeUpstreamError = "upstream_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type matchItem struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Stage    string `json:"stage"`
	Group    string `json:"group"`
	HomeID   string `json:"home_id"`
	HomeName string `json:"home_name"`
	AwayID   string `json:"away_id"`
	AwayName string `json:"away_name"`
	Date     string `json:"date"`
}

type attackItem struct {
	Team        string  `json:"team"`
	Side        string  `json:"side"`
	Player      string  `json:"player"`
	Description string  `json:"description"`
	Seconds     float64 `json:"seconds"`
	Minute      int     `json:"minute"`
	Label       string  `json:"label"`
	Weight      float64 `json:"weight"`
}

type momentumResponse struct {
	Mirrored   momentum.Mirrored      `json:"mirrored"`
	Smoothed   momentum.Smoothed      `json:"smoothed"`
	Cumulative []momentum.Curve       `json:"cumulative"`
	Goals      []infographic.GoalNote `json:"goals"`
	Halftime   int                    `json:"halftime_minute"`
	Palette    model.Palette          `json:"palette"`
}

type teamTotal struct {
	Team        string `json:"team"`
	Side        string `json:"side"`
	FlagURL     string `json:"flag_url,omitempty"`
	TotalEvents int    `json:"total_events"`
}

type teamCounts struct {
	Team   string         `json:"team"`
	Side   string         `json:"side"`
	Counts map[string]int `json:"counts"`
}

type statsResponse struct {
	Score        model.Score  `json:"score"`
	Totals       []teamTotal  `json:"totals"`
	Categories   []string     `json:"categories"`
	Distribution []teamCounts `json:"distribution"`
}

type reportHandler func(w http.ResponseWriter, r *http.Request, rep *analysis.Report)

// withReport loads the match named by {id} and maps pipeline errors to
// 404 or 502.
func (s *Server) withReport(h reportHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		rep, err := s.pipeline.Load(r.Context(), id)
		if err != nil {
			s.writePipelineError(w, r, err)
			return
		}
		h(w, r, rep)
	}
}

func (s *Server) writePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, analysis.ErrMatchNotFound) {
		writeError(w, http.StatusNotFound, codeNotFound, err)
		return
	}
	log.Warn().Err(err).Str("request_id", RequestID(r.Context())).Msg("upstream failure")
	writeError(w, http.StatusBadGateway, codeUpstreamError, err)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   s.now().Unix(),
	})
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.pipeline.Matches(r.Context())
	if err != nil {
		s.writePipelineError(w, r, err)
		return
	}
	labels := matchlist.Labels(matches)
	out := make([]matchItem, len(matches))
	for i, m := range matches {
		out[i] = matchItem{
			ID:       m.MatchID,
			Label:    labels[i],
			Stage:    m.StageName,
			Group:    m.GroupName,
			HomeID:   m.HomeID,
			HomeName: m.HomeName,
			AwayID:   m.AwayID,
			AwayName: m.AwayName,
			Date:     m.KickoffDate(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTimeline(w http.ResponseWriter, _ *http.Request, rep *analysis.Report) {
	rows := aggregator.Timeline(rep.Attacks)
	out := make([]attackItem, len(rows))
	for i, a := range rows {
		out[i] = attackItem{
			Team:        a.TeamName,
			Side:        sideName(a.Side),
			Player:      a.PlayerName,
			Description: a.Description,
			Seconds:     a.Seconds,
			Minute:      a.Minute,
			Label:       a.Label,
			Weight:      a.Weight,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMinutes(w http.ResponseWriter, _ *http.Request, rep *analysis.Report) {
	writeJSON(w, http.StatusOK, rep.Minutes)
}

func (s *Server) handleMomentum(w http.ResponseWriter, _ *http.Request, rep *analysis.Report) {
	writeJSON(w, http.StatusOK, momentumResponse{
		Mirrored:   momentum.Mirror(rep.Minutes),
		Smoothed:   s.pipeline.Smoothed(rep),
		Cumulative: momentum.Cumulative(rep.Attacks, rep.Match),
		Goals:      infographic.GoalNotes(rep.Goals, rep.Minutes),
		Halftime:   s.pipeline.Settings().HalftimeMinute,
		Palette:    rep.Palette,
	})
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request, rep *analysis.Report) {
	n := 0
	if raw := r.URL.Query().Get("top"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Errorf("top must be a positive integer, got %q", raw))
			return
		}
		n = v
	}
	writeJSON(w, http.StatusOK, s.pipeline.TopPlayers(rep, n))
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request, rep *analysis.Report) {
	resp := statsResponse{
		Score:        rep.Score,
		Totals:       make([]teamTotal, 0, len(rep.Totals)),
		Categories:   aggregator.StatCategories,
		Distribution: make([]teamCounts, 0, len(rep.Distribution)),
	}
	for _, t := range rep.Totals {
		resp.Totals = append(resp.Totals, teamTotal{
			Team: t.TeamName, Side: sideName(t.Side), FlagURL: t.FlagURL, TotalEvents: t.TotalEvents,
		})
	}
	for _, d := range rep.Distribution {
		counts := make(map[string]int, len(aggregator.StatCategories))
		for i, cat := range aggregator.StatCategories {
			if i < len(d.Counts) {
				counts[cat] = d.Counts[i]
			}
		}
		resp.Distribution = append(resp.Distribution, teamCounts{Team: d.TeamName, Side: sideName(d.Side), Counts: counts})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePalette(w http.ResponseWriter, _ *http.Request, rep *analysis.Report) {
	writeJSON(w, http.StatusOK, rep.Palette)
}

func (s *Server) handleInfographic(w http.ResponseWriter, _ *http.Request, rep *analysis.Report) {
	set := s.pipeline.Settings()
	doc := infographic.Build(infographic.Input{
		Match:          rep.Match,
		Minutes:        rep.Minutes,
		Attacks:        rep.Attacks,
		Goals:          rep.Goals,
		Palette:        rep.Palette,
		Score:          rep.Score,
		Flags:          rep.Flags,
		HalftimeMinute: set.HalftimeMinute,
		SmoothDtMin:    set.SmoothDtMin,
		SmoothTauMin:   set.SmoothTauMin,
		TopN:           set.TopN,
		Now:            s.now(),
	})
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", infographic.FileName(rep.Match)))
	writeJSON(w, http.StatusOK, doc)
}

func sideName(s model.Side) string {
	if s == model.SideUnknown {
		return ""
	}
	return strings.ToLower(s.String())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Int("status", status).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}
