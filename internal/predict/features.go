// Package predict implements the per-client prediction pipeline: monthly
// trend forecasting, subscription classification, next-month recurrence
// projection, and the distinctive-expense summary.
package predict

import (
	"log/slog"
	"time"

	"github.com/heybanco/spendcast/backend/internal/ml"
	"github.com/heybanco/spendcast/backend/internal/model"
)

// Observation is one transaction with its derived model features attached.
type Observation struct {
	Merchant     string
	MerchantCode int
	Amount       float64
	Date         time.Time
	Year         int
	Month        int
	Day          int
}

// Features returns the observation as the model's feature vector.
func (o Observation) Features() ml.FeatureVector {
	return ml.FeatureVector{
		MerchantCode: o.MerchantCode,
		Year:         o.Year,
		Month:        o.Month,
		Day:          o.Day,
		Amount:       o.Amount,
	}
}

// prepareFeatures derives calendar fields and merchant codes for a client's
// transactions. Merchants outside the encoder vocabulary are dropped and
// counted; any other encoder failure aborts.
func prepareFeatures(txs []model.Transaction, enc ml.Encoder) ([]Observation, int, error) {
	obs := make([]Observation, 0, len(txs))
	dropped := 0

	for _, tx := range txs {
		code, err := enc.Encode(tx.Merchant)
		if err != nil {
			if ml.IsUnknownMerchant(err) {
				dropped++
				slog.Debug("dropped transaction with unknown merchant", "merchant", tx.Merchant)
				continue
			}
			return nil, dropped, err
		}
		obs = append(obs, Observation{
			Merchant:     tx.Merchant,
			MerchantCode: code,
			Amount:       tx.Amount,
			Date:         tx.Date,
			Year:         tx.Year(),
			Month:        tx.Month(),
			Day:          tx.Day(),
		})
	}
	return obs, dropped, nil
}
