package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/alim08/econ_notes/pkg/logger"
	"github.com/alim08/econ_notes/pkg/metrics"
	"github.com/alim08/econ_notes/pkg/site"
	"github.com/alim08/econ_notes/pkg/version"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Server serves pages and charts rendered once at startup.
type Server struct {
	site  *site.Site
	page  []byte
	docs  map[string][]byte
	chart []string
}

// NewServer renders the page and each document up front. Chart drawings
// come from the renderer, which draws each figure once.
func NewServer(ctx context.Context, s *site.Site) (*Server, error) {
	srv := &Server{
		site:  s,
		docs:  make(map[string][]byte, len(s.Docs)),
		chart: s.Docs.ChartIDs(),
	}

	var buf bytes.Buffer
	if err := s.Renderer.Render(ctx, &buf); err != nil {
		return nil, err
	}
	srv.page = buf.Bytes()

	for _, d := range s.Docs {
		var b bytes.Buffer
		if err := s.Renderer.RenderDocument(ctx, &b, d.ID); err != nil {
			return nil, err
		}
		srv.docs[d.ID] = b.Bytes()
	}
	return srv, nil
}

// Router wires every route and middleware.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.Use(requestIDMiddleware)
	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)
	router.Use(metricsMiddleware)

	router.HandleFunc("/health", s.healthHandler).Methods("GET")
	router.HandleFunc("/ready", s.readyHandler).Methods("GET")
	router.HandleFunc("/version", s.versionHandler).Methods("GET")

	router.HandleFunc("/", s.pageHandler).Methods("GET")
	router.HandleFunc("/docs/{id}", s.documentHandler).Methods("GET")
	router.HandleFunc("/charts/{id}.svg", s.svgHandler).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/charts", s.listChartsHandler).Methods("GET")
	api.HandleFunc("/charts/{id}", s.getChartHandler).Methods("GET")

	return router
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.Error("JSON encoding error", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, Response{Success: false, Error: message})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	if len(s.page) == 0 {
		http.Error(w, "page not rendered", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

func (s *Server) versionHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, Response{Success: true, Data: version.Get()})
}

func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	writeBytes(w, "text/html; charset=utf-8", s.page)
}

func (s *Server) documentHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	b, ok := s.docs[id]
	if !ok {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	writeBytes(w, "text/html; charset=utf-8", b)
}

func (s *Server) svgHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	// a figure that failed to render answers 404 like an unknown one
	b, ok := s.site.Renderer.SVG(id)
	if !ok {
		http.Error(w, "chart not found", http.StatusNotFound)
		return
	}
	writeBytes(w, "image/svg+xml", b)
}

func (s *Server) listChartsHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, Response{Success: true, Data: s.chart})
}

func (s *Server) getChartHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	f, ok := s.site.Figure(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "chart not found")
		return
	}
	s.writeJSON(w, http.StatusOK, Response{Success: true, Data: f})
}

func writeBytes(w http.ResponseWriter, contentType string, b []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// statusRecorder remembers the status code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		r.Header.Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Log.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.String("request_id", r.Header.Get("X-Request-ID")),
			zap.String("remote_addr", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		duration := time.Since(start).Seconds()

		// label by route template so chart ids don't explode cardinality
		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tmpl
			}
		}
		status := strconv.Itoa(rec.status)
		metrics.APIRequestDuration.WithLabelValues(r.Method, endpoint, status).Observe(duration)
		metrics.APIRequestTotal.WithLabelValues(r.Method, endpoint, status).Inc()
	})
}
