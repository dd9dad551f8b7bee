package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/assessment"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/ingest"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/ledger"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/store"
)

type Server struct {
	store       *store.Store
	monitor     *ingest.Monitor
	ledger      *ledger.Ledger
	assessments *assessment.Service
	port        string
	loc         *time.Location
}

func NewServer(st *store.Store, monitor *ingest.Monitor, ledg *ledger.Ledger, assessments *assessment.Service, port string) *Server {
	return &Server{
		store:       st,
		monitor:     monitor,
		ledger:      ledg,
		assessments: assessments,
		port:        port,
		loc:         st.Location(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/monitoring", s.handleMonitoring)
	mux.HandleFunc("/api/current", s.handleCurrent)
	mux.HandleFunc("/api/trends", s.handleTrends)
	mux.HandleFunc("/api/flood-records", s.handleFloodRecords)
	mux.HandleFunc("/api/flood-records/", s.handleFloodRecordByID)
	mux.HandleFunc("/api/flood-records/activity", s.handleActivity)
	mux.HandleFunc("/api/assessments", s.handleAssessments)
	mux.HandleFunc("/api/reports", s.handleReports)
	mux.HandleFunc("/api/assessment-texts", s.handleAssessmentTexts)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
