package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"classbalance/server/balance"
	"classbalance/server/config"
	"classbalance/server/engine"
)

// API serves simulations over one pool loaded at startup. Nothing is
// persisted; each request is an independent run.
type API struct {
	pool       engine.Pool
	defaults   config.SimConfig
	maxMatches int
	limiter    *rate.Limiter
}

func Router(api *API) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "cards": len(api.pool)})
	})
	r.Get("/api/pool", api.handlePool)
	r.Get("/api/simulate", api.handleSimulate)
	return r
}

func (api *API) handlePool(w http.ResponseWriter, r *http.Request) {
	type Row struct {
		Class      string  `json:"class"`
		Population int     `json:"population"`
		Weight     float64 `json:"weight"`
	}
	counts := balance.PopulationCounts(api.pool)
	if len(counts) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"cards": 0, "classes": []Row{}})
		return
	}
	ref := balance.MaxCount(counts)
	rows := make([]Row, 0, len(counts))
	for cls, n := range counts {
		rows = append(rows, Row{Class: cls, Population: n, Weight: balance.Weight(ref, n)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Class < rows[j].Class })
	writeJSON(w, http.StatusOK, map[string]any{"cards": len(api.pool), "max_count": ref, "classes": rows})
}

func (api *API) handleSimulate(w http.ResponseWriter, r *http.Request) {
	sc := api.defaults
	q := r.URL.Query()
	for _, p := range []struct {
		key string
		dst *int
	}{
		{"matches", &sc.Matches},
		{"deck", &sc.DeckSize},
		{"workers", &sc.Workers},
	} {
		if v := q.Get(p.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, p.key+" must be an integer")
				return
			}
			*p.dst = n
		}
	}
	sc.Seed = 0
	if v := q.Get("seed"); v != "" {
		s, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "seed must be an integer")
			return
		}
		sc.Seed = s
	}
	if api.maxMatches > 0 && sc.Matches > api.maxMatches {
		writeError(w, http.StatusBadRequest, "matches exceeds limit of "+strconv.Itoa(api.maxMatches))
		return
	}
	if !api.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "simulation rate limit exceeded")
		return
	}

	res, seed, err := runSimulation(r.Context(), api.pool, sc, nil)
	switch {
	case errors.Is(err, balance.ErrConfiguration):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, balance.ErrEmptyPool):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"seed": seed, "result": res})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
