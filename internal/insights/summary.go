package insights

import (
	"time"

	"github.com/heybanco/spendcast/backend/internal/model"
)

// RangeSummary is the descriptive statistics block for a date range.
type RangeSummary struct {
	Count    int
	Total    float64
	Mean     float64
	Max      float64
	Min      float64
	Currency string
	From     time.Time
	To       time.Time
}

// SummarizeRange computes count/total/mean/max/min over the client's
// transactions within [from, to]. ok is false when the range is empty.
func SummarizeRange(txs []model.Transaction, from, to time.Time) (*RangeSummary, bool) {
	s := &RangeSummary{Currency: "MXN", From: from, To: to}
	for _, tx := range txs {
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		if s.Count == 0 || tx.Amount > s.Max {
			s.Max = tx.Amount
		}
		if s.Count == 0 || tx.Amount < s.Min {
			s.Min = tx.Amount
		}
		s.Total += tx.Amount
		s.Count++
	}
	if s.Count == 0 {
		return nil, false
	}
	s.Mean = s.Total / float64(s.Count)
	return s, true
}
