package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/heybanco/spendcast/backend/internal/auth"
	"github.com/heybanco/spendcast/backend/internal/dataset"
	"github.com/heybanco/spendcast/backend/internal/insights"
	"github.com/heybanco/spendcast/backend/internal/ml"
	"github.com/heybanco/spendcast/backend/internal/predict"
	"github.com/heybanco/spendcast/backend/internal/service"
	"github.com/heybanco/spendcast/backend/internal/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	ctx := context.Background()

	// Local development runs entirely off memory and local files.
	useMemoryStore := os.Getenv("USE_MEMORY_STORE") == "true" || os.Getenv("ENV") == "local"

	var storeImpl store.Store
	if useMemoryStore {
		slog.Info("using in-memory store for local development")
		storeImpl = store.NewMemoryStore()
	} else {
		projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
		firestoreClient, err := firestore.NewClient(ctx, projectID)
		if err != nil {
			slog.Error("create Firestore client", "error", err)
			os.Exit(1)
		}
		defer firestoreClient.Close()
		storeImpl = store.NewFirestoreStore(firestoreClient)
	}

	data, err := loadDatasets(ctx)
	if err != nil {
		slog.Error("load datasets", "error", err)
		os.Exit(1)
	}

	// A missing model artifact is not fatal to startup: the predictive
	// endpoint refuses requests until the artifact is in place, while the
	// descriptive endpoints keep working.
	var predictor *predict.Predictor
	modelPath := envOr("MODEL_PATH", "modelos/subscription_model.json")
	artifact, err := loadArtifact(ctx, modelPath)
	if err != nil {
		slog.Warn("subscription model unavailable, predictive endpoint disabled",
			"path", modelPath, "error", err)
	} else {
		predictor = predict.NewPredictor(data, artifact.Classifier(), artifact.Encoder())
	}

	var captioner insights.CaptionWriter
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		captioner = insights.NewOpenAICaptioner(apiKey)
	} else {
		slog.Info("OPENAI_API_KEY not set, using static captions")
	}

	sessions := auth.NewSessions(storeImpl)
	svc := service.NewPredictionService(data, predictor, sessions, captioner)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins(),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"Token",
		},
		AllowCredentials: true,
	})
	handler := c.Handler(svc.Routes())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	slog.Info("starting server", "port", port)
	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// loadDatasets reads the transaction and client CSVs from local files or
// gs:// objects.
func loadDatasets(ctx context.Context) (*dataset.Dataset, error) {
	txPath := envOr("TRANSACTIONS_PATH", "datos/base_transacciones_final.csv")
	clientsPath := envOr("CLIENTS_PATH", "datos/base_clientes_final.csv")

	txR, err := dataset.Open(ctx, txPath)
	if err != nil {
		return nil, err
	}
	defer txR.Close()

	clientsR, err := dataset.Open(ctx, clientsPath)
	if err != nil {
		return nil, err
	}
	defer clientsR.Close()

	return dataset.Load(txR, clientsR)
}

func loadArtifact(ctx context.Context, path string) (*ml.Artifact, error) {
	r, err := dataset.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ml.LoadArtifact(r)
}

func allowedOrigins() []string {
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		return strings.Split(raw, ",")
	}
	return []string{"http://localhost:3000", "http://127.0.0.1:3000"}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
