package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics holds the bot's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	MessagesProcessed prometheus.Counter
	CommandsProcessed *prometheus.CounterVec
	ErrorsTotal       *prometheus.CounterVec
	ProcessingTime    prometheus.Histogram
	FilesProcessed    prometheus.Counter
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		MessagesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "telegram_messages_processed_total",
			Help: "Total messages processed",
		}),
		CommandsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "telegram_commands_processed_total",
			Help: "Total commands processed",
		}, []string{"command"}),
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "telegram_errors_total",
			Help: "Total errors",
		}, []string{"type"}),
		ProcessingTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name: "telegram_message_processing_duration_seconds",
			Help: "Message processing time",
		}),
		FilesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "telegram_files_processed_total",
			Help: "Total files processed",
		}),
	}
}

// Server exposes the registry over HTTP for scraping.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewServer creates the exporter endpoint for the given metrics.
func NewServer(m *Metrics, addr string, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	return &Server{
		srv:    &http.Server{Addr: addr, Handler: mux},
		logger: logger,
	}
}

// Start serves the exporter in the background until Stop is called.
func (s *Server) Start() {
	go func() {
		s.logger.Info("Starting metrics exporter", zap.String("address", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Metrics exporter failed", zap.Error(err))
		}
	}()
}

// Stop shuts the exporter down gracefully.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
