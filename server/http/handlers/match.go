package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"marketplace-recon/internal/match"
)

type matchRequest struct {
	Title     string  `json:"title"`
	Threshold float64 `json:"threshold,omitempty"`
}

type matchResponse struct {
	Title      string            `json:"title"`
	Candidates []match.Candidate `json:"candidates"`
	Suggestion *match.Suggestion `json:"suggestion,omitempty"`
}

// Match resolves a single listing title against the catalogue. An empty
// candidate list is a valid outcome; the response then carries the closest
// catalogue name as a review aid.
func Match(matcher *match.Matcher, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var req matchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request body: "+err.Error())
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}

		resp := matchResponse{
			Title:      req.Title,
			Candidates: matcher.MatchThreshold(req.Title, req.Threshold),
		}
		if resp.Candidates == nil {
			resp.Candidates = []match.Candidate{}
			if s, ok := matcher.Suggest(req.Title); ok {
				resp.Suggestion = &s
			}
		}

		logger.Info().
			Str("title", req.Title).
			Int("candidates", len(resp.Candidates)).
			Dur("elapsed", time.Since(start)).
			Msg("match")
		writeJSON(w, http.StatusOK, resp)
	}
}
