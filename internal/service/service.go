// Package service exposes the prediction pipeline and dataset summaries over
// plain HTTP JSON endpoints.
package service

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/heybanco/spendcast/backend/internal/auth"
	"github.com/heybanco/spendcast/backend/internal/dataset"
	"github.com/heybanco/spendcast/backend/internal/insights"
	"github.com/heybanco/spendcast/backend/internal/predict"
)

// PredictionService wires the read-only dataset, the prediction pipeline,
// session auth, and the optional caption service behind the HTTP surface.
type PredictionService struct {
	data      *dataset.Dataset
	predictor *predict.Predictor
	sessions  *auth.Sessions
	captioner insights.CaptionWriter
}

// NewPredictionService creates the service. predictor may be nil when the
// model artifact failed to load; predictive endpoints then refuse requests
// instead of silently returning empty predictions. captioner may be nil.
func NewPredictionService(data *dataset.Dataset, predictor *predict.Predictor,
	sessions *auth.Sessions, captioner insights.CaptionWriter) *PredictionService {
	return &PredictionService{
		data:      data,
		predictor: predictor,
		sessions:  sessions,
		captioner: captioner,
	}
}

// Routes builds the HTTP handler with all endpoints registered.
func (s *PredictionService) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /predict_recurring", s.handlePredictRecurring)

	protected := func(h http.HandlerFunc) http.Handler {
		return s.sessions.Middleware(h)
	}
	mux.Handle("GET /wrapped", protected(s.handleWrapped))
	mux.Handle("GET /client_info", protected(s.handleClientInfo))
	mux.Handle("GET /transactions_summary", protected(s.handleTransactionsSummary))

	mux.HandleFunc("GET /health", s.handleHealth)

	return logRequests(mux)
}

// logRequests logs one line per request with method, path, and latency.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
