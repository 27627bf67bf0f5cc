// Package httpapi exposes a string cache and a membership filter over HTTP.
package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marten-cache/marten"
	"github.com/marten-cache/marten/bloom"
	mprom "github.com/marten-cache/marten/exporter/prometheus"
)

const maxValueSize = 1 << 20

// Server wraps handlers for a cache and a filter.
type Server struct {
	cache  *marten.Cache[string, string]
	filter *bloom.Filter[string]
	log    *slog.Logger
	router *mux.Router
}

// NewServer creates a Server and registers the cache and filter collectors in reg.
func NewServer(
	cache *marten.Cache[string, string],
	filter *bloom.Filter[string],
	reg *prometheus.Registry,
	log *slog.Logger,
) (*Server, error) {
	if err := reg.Register(mprom.NewCollector("marten", "cache", cache)); err != nil {
		return nil, err
	}
	if err := reg.Register(mprom.NewFilterCollector("marten", "filter", filter)); err != nil {
		return nil, err
	}

	s := &Server{
		cache:  cache,
		filter: filter,
		log:    log,
		router: mux.NewRouter(),
	}
	s.setupRoutes(reg)
	return s, nil
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes(reg *prometheus.Registry) {
	s.router.HandleFunc("/cache/{key}", s.handleGet).Methods(http.MethodGet)
	s.router.HandleFunc("/cache/{key}", s.handleSet).Methods(http.MethodPut)
	s.router.HandleFunc("/cache/{key}", s.handleInvalidate).Methods(http.MethodDelete)
	s.router.HandleFunc("/cache", s.handleInvalidateAll).Methods(http.MethodDelete)
	s.router.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)

	s.router.HandleFunc("/filter/{key}", s.handleMightContain).Methods(http.MethodGet)
	s.router.HandleFunc("/filter/{key}", s.handlePut).Methods(http.MethodPut)

	s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	value, ok := s.cache.GetIfPresent(mux.Vars(r)["key"])
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_, _ = io.WriteString(w, value)
}

func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxValueSize+1))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(body) > maxValueSize {
		http.Error(w, "value is too large", http.StatusRequestEntityTooLarge)
		return
	}

	key := mux.Vars(r)["key"]
	s.cache.Set(key, string(body))
	s.filter.Put(key)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.cache.Invalidate(mux.Vars(r)["key"]); !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInvalidateAll(w http.ResponseWriter, r *http.Request) {
	s.cache.InvalidateAll()
	w.WriteHeader(http.StatusNoContent)
}

type statsResponse struct {
	Hits               uint64  `json:"hits"`
	Misses             uint64  `json:"misses"`
	Evictions          uint64  `json:"evictions"`
	HitRatio           float64 `json:"hit_ratio"`
	EstimatedSize      int     `json:"estimated_size"`
	WeightedSize       uint64  `json:"weighted_size"`
	FilterElements     int     `json:"filter_elements"`
	FilterFalsePosProb float64 `json:"filter_false_positive_probability"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st := s.cache.Stats()
	resp := statsResponse{
		Hits:               st.Hits,
		Misses:             st.Misses,
		Evictions:          st.Evictions,
		HitRatio:           st.HitRatio(),
		EstimatedSize:      s.cache.EstimatedSize(),
		WeightedSize:       s.cache.WeightedSize(),
		FilterElements:     s.filter.ApproximateElementCount(),
		FilterFalsePosProb: s.filter.ExpectedFalsePositiveProbability(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.ErrorContext(r.Context(), "failed to encode stats", slog.Any("err", err))
	}
}

func (s *Server) handleMightContain(w http.ResponseWriter, r *http.Request) {
	if !s.filter.MightContain(mux.Vars(r)["key"]) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	if s.filter.Put(mux.Vars(r)["key"]) {
		w.WriteHeader(http.StatusCreated)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
