// Package server serves certificate inspection over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/certcat/lintx509/config"
	"github.com/certcat/lintx509/der"
	"github.com/certcat/lintx509/files/pem"
	"github.com/certcat/lintx509/metrics"
	"github.com/certcat/lintx509/render"
	"github.com/certcat/lintx509/x509lint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Server answers inspection requests.
type Server struct {
	opts         x509lint.Options
	maxBodyBytes int64

	logger  *zap.Logger
	metrics *metrics.Metrics
	mux     *http.ServeMux
}

// New builds a Server from cfg. Metrics are registered with reg and served
// from it on /metrics.
func New(cfg *config.Config, logger *zap.Logger, reg *prometheus.Registry) (*Server, error) {
	m, err := metrics.New(reg)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	s := &Server{
		opts:         cfg.ParseOptions(),
		maxBodyBytes: cfg.Server.MaxBodyBytes,
		logger:       logger,
		metrics:      m,
		mux:          http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /v1/inspect", s.handleInspect)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return s, nil
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type inspectResponse struct {
	Certificates []any `json:"certificates"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	// A body with no CERTIFICATE block is taken to be a single DER
	// certificate.
	ders := pem.DER(body)
	if len(ders) == 0 {
		ders = [][]byte{body}
	}

	resp := inspectResponse{Certificates: make([]any, 0, len(ders))}
	for i, b := range ders {
		cert, err := s.opts.ParseCertificate(b)
		s.metrics.RecordParse(err, len(b))
		if err != nil {
			kind, _ := der.KindOf(err)
			s.logger.Warn("Failed to parse certificate",
				zap.Int("index", i),
				zap.Stringer("kind", kind),
				zap.Error(err))
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error: fmt.Sprintf("certificate %d: %v", i, err),
				Kind:  kind.String(),
			})
			return
		}
		resp.Certificates = append(resp.Certificates, render.JSONValue(cert))
	}

	s.logger.Debug("Inspected certificates", zap.Int("count", len(ders)))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok\n")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
