package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/heybanco/spendcast/backend/internal/auth"
	"github.com/heybanco/spendcast/backend/internal/insights"
)

const dateLayout = "2006-01-02"

// noDataMessage is the soft sentinel body for clients without transactions.
const noDataMessage = "no transactions found for this client"

type credentialsInput struct {
	ClientID string `json:"client_id"`
	Password string `json:"password"`
}

func (s *PredictionService) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in credentialsInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.ClientID == "" || in.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "client_id and password are required")
		return
	}

	if err := s.sessions.Register(r.Context(), in.ClientID, in.Password); err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			writeError(w, http.StatusBadRequest, "user already exists")
			return
		}
		slog.Error("register failed", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "user registered successfully"})
}

func (s *PredictionService) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in credentialsInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.sessions.Login(r.Context(), in.ClientID, in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		slog.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// predictedSubJSON mirrors the field names the callers expect.
type predictedSubJSON struct {
	Merchant string  `json:"merchant"`
	Amount   float64 `json:"amount"`
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Day      int     `json:"day"`
}

type predictionJSON struct {
	TotalSpending       float64            `json:"total_spending"`
	PerMerchantSpending map[string]float64 `json:"per_merchant_spending"`
	PredictedSubs       []predictedSubJSON `json:"predicted_subs"`
	IconicCommerce      string             `json:"iconic_commerce"`
	IconicCount         int                `json:"iconic_count"`
}

func (s *PredictionService) handlePredictRecurring(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	clientID, err := s.sessions.Resolve(r.Context(), in.Token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	if s.predictor == nil {
		// The model artifact failed to load at startup; refuse rather than
		// pretending the client has no subscriptions.
		writeError(w, http.StatusServiceUnavailable, "prediction model is not available")
		return
	}

	result, err := s.predictor.AllPredictions(r.Context(), clientID)
	if err != nil {
		slog.Error("prediction failed", "client_id", clientID, "error", err)
		writeError(w, http.StatusInternalServerError, "prediction failed")
		return
	}
	if result == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": noDataMessage})
		return
	}

	// Monetary values are rounded only here, at presentation.
	perMerchant := make(map[string]float64, len(result.PerMerchant))
	for merchant, amount := range result.PerMerchant {
		perMerchant[merchant] = round2(amount)
	}
	subs := make([]predictedSubJSON, 0, len(result.Subscriptions))
	for _, sub := range result.Subscriptions {
		subs = append(subs, predictedSubJSON{
			Merchant: sub.Merchant,
			Amount:   round2(sub.Amount),
			Year:     sub.Year,
			Month:    sub.Month,
			Day:      sub.Day,
		})
	}

	writeJSON(w, http.StatusOK, predictionJSON{
		TotalSpending:       round2(result.TotalSpending),
		PerMerchantSpending: perMerchant,
		PredictedSubs:       subs,
		IconicCommerce:      result.IconicMerchant,
		IconicCount:         result.IconicCount,
	})
}

func (s *PredictionService) handleWrapped(w http.ResponseWriter, r *http.Request) {
	clientID, _ := auth.ClientIDFrom(r.Context())

	from, to, ok := parseRange(w, r)
	if !ok {
		return
	}
	mode := insights.GroupMode(r.URL.Query().Get("mode"))
	switch mode {
	case "":
		mode = insights.GroupByCategory
	case insights.GroupByCategory, insights.GroupByMerchant:
	default:
		writeError(w, http.StatusUnprocessableEntity, "mode must be giro_comercio or comercio")
		return
	}

	txs := s.data.ClientTransactions(clientID)
	summary, ok := insights.Summarize(clientID, txs, from, to, mode)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"message": "no transactions in the requested period"})
		return
	}

	caption := s.caption(r, summary.Memorable)

	type namedAmountJSON struct {
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
	}
	topSpending := make([]namedAmountJSON, 0, len(summary.TopSpending))
	for _, t := range summary.TopSpending {
		topSpending = append(topSpending, namedAmountJSON{Name: t.Name, Amount: round2(t.Amount)})
	}
	bySaleType := make(map[string]float64, len(summary.BySaleType))
	for k, v := range summary.BySaleType {
		bySaleType[k] = round2(v)
	}
	type categoryScoreJSON struct {
		Category string  `json:"category"`
		Score    float64 `json:"score"`
	}
	predictability := make([]categoryScoreJSON, 0, len(summary.Predictability))
	for _, p := range summary.Predictability {
		predictability = append(predictability, categoryScoreJSON{Category: p.Category, Score: round2(p.Score)})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"client_id":   clientID,
		"range":       summary.From.Format(dateLayout) + " a " + summary.To.Format(dateLayout),
		"currency":    summary.Currency,
		"total_spent": round2(summary.Total),
		"top_spending": topSpending,
		"by_sale_type": bySaleType,
		"essentials_vs_subscriptions": []map[string]any{
			{"type": "Esenciales", "value": round2(summary.EssentialsAmount)},
			{"type": "Suscripciones", "value": round2(summary.SubsAmount)},
		},
		"predictability_by_category": predictability,
		"memorable_purchase": map[string]any{
			"date":     summary.Memorable.DateText,
			"merchant": summary.Memorable.Merchant,
			"amount":   round2(summary.Memorable.Amount),
			"caption":  caption,
		},
	})
}

// caption generates the memorable-purchase caption, degrading to a static
// sentence when the caption service is missing or failing.
func (s *PredictionService) caption(r *http.Request, p insights.MemorablePurchase) string {
	if s.captioner == nil {
		return insights.FallbackCaption(p)
	}
	caption, err := s.captioner.MemorableCaption(r.Context(), p)
	if err != nil {
		slog.Warn("caption generation failed, using fallback", "error", err)
		return insights.FallbackCaption(p)
	}
	return caption
}

func (s *PredictionService) handleClientInfo(w http.ResponseWriter, r *http.Request) {
	clientID, _ := auth.ClientIDFrom(r.Context())

	client, ok := s.data.Client(clientID)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"message": "client not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"client_id":         client.ID,
		"birth_date":        client.BirthDate.Format(dateLayout),
		"enrolled_at":       client.EnrolledAt.Format(dateLayout),
		"municipality_id":   client.MunicipalityID,
		"state_id":          client.StateID,
		"person_type":       client.PersonType,
		"gender":            client.Gender,
		"business_activity": client.BusinessActivity,
	})
}

func (s *PredictionService) handleTransactionsSummary(w http.ResponseWriter, r *http.Request) {
	clientID, _ := auth.ClientIDFrom(r.Context())

	from, to, ok := parseRange(w, r)
	if !ok {
		return
	}

	summary, found := insights.SummarizeRange(s.data.ClientTransactions(clientID), from, to)
	if !found {
		writeJSON(w, http.StatusOK, map[string]string{"message": "no transactions in the requested period"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transaction_count": summary.Count,
		"total_spent":       round2(summary.Total),
		"average_spent":     round2(summary.Mean),
		"max_spent":         round2(summary.Max),
		"min_spent":         round2(summary.Min),
		"currency":          summary.Currency,
		"range":             summary.From.Format(dateLayout) + " a " + summary.To.Format(dateLayout),
	})
}

func (s *PredictionService) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"model_loaded": s.predictor != nil,
		"transactions": s.data.TransactionCount(),
	})
}

// parseRange reads the required from/to query parameters.
func parseRange(w http.ResponseWriter, r *http.Request) (from, to time.Time, ok bool) {
	q := r.URL.Query()
	from, err := time.Parse(dateLayout, q.Get("from"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "from must be a YYYY-MM-DD date")
		return from, to, false
	}
	to, err = time.Parse(dateLayout, q.Get("to"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "to must be a YYYY-MM-DD date")
		return from, to, false
	}
	if to.Before(from) {
		writeError(w, http.StatusUnprocessableEntity, "to must not be before from")
		return from, to, false
	}
	return from, to, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
