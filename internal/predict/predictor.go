package predict

import (
	"context"
	"fmt"
	"time"

	"github.com/heybanco/spendcast/backend/internal/dataset"
	"github.com/heybanco/spendcast/backend/internal/ml"
)

// Predictor runs the full prediction pipeline for one client at a time. It
// holds only read-only references, so concurrent requests need no
// coordination.
type Predictor struct {
	data       *dataset.Dataset
	classifier ml.Classifier
	encoder    ml.Encoder
}

// NewPredictor wires the pipeline to its read-only inputs.
func NewPredictor(data *dataset.Dataset, classifier ml.Classifier, encoder ml.Encoder) *Predictor {
	return &Predictor{data: data, classifier: classifier, encoder: encoder}
}

// Result is the merged prediction payload for one client.
type Result struct {
	TotalSpending  float64
	PerMerchant    map[string]float64
	Subscriptions  []Subscription
	IconicMerchant string
	IconicCount    int
}

// AllPredictions composes forecasting, classification, recurrence projection
// and the distinctive-expense summary for one client. A client with no
// transactions yields (nil, nil): absence of data is a result, not an error.
// The context is checked between pipeline stages so a cancelled request
// aborts cooperatively.
func (p *Predictor) AllPredictions(ctx context.Context, clientID string) (*Result, error) {
	txs := p.data.ClientTransactions(clientID)
	if len(txs) == 0 {
		return nil, nil
	}

	total, perMerchant := ForecastSpending(txs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	obs, _, err := prepareFeatures(txs, p.encoder)
	if err != nil {
		return nil, fmt.Errorf("prepare features for client %s: %w", clientID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var latest time.Time
	for _, tx := range txs {
		if tx.Date.After(latest) {
			latest = tx.Date
		}
	}

	positives := classifySubscriptions(obs, p.classifier)
	recent := recentWindow(positives, latest)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	subs := projectRecurring(recent, latest, p.classifier)

	iconicMerchant, iconicCount := iconicExpense(txs)

	return &Result{
		TotalSpending:  total,
		PerMerchant:    perMerchant,
		Subscriptions:  subs,
		IconicMerchant: iconicMerchant,
		IconicCount:    iconicCount,
	}, nil
}
