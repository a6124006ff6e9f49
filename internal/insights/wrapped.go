// Package insights computes descriptive period summaries ("wrapped" views)
// over a client's transactions and generates the accompanying marketing-style
// caption through an external text-generation service.
package insights

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/heybanco/spendcast/backend/internal/model"
)

// GroupMode selects the grouping key for the top-spending breakdown.
type GroupMode string

const (
	GroupByCategory GroupMode = "giro_comercio"
	GroupByMerchant GroupMode = "comercio"
)

// essentialCategories matches lines of business considered essential
// spending; anything else counts toward the subscriptions bucket.
var essentialCategories = regexp.MustCompile(`(?i)SERVICIOS|SALUD|TRANSPORTE`)

// NamedAmount is one labelled monetary total.
type NamedAmount struct {
	Name   string
	Amount float64
}

// CategoryScore is a 0-100 predictability score for one spending category;
// low amount variance means high predictability.
type CategoryScore struct {
	Category string
	Score    float64
}

// MemorablePurchase is the single largest purchase of the period.
type MemorablePurchase struct {
	Date     time.Time
	DateText string
	Merchant string
	Amount   float64
	Caption  string
}

// PeriodSummary is the wrapped view of one client's spending over a period.
type PeriodSummary struct {
	ClientID         string
	From             time.Time
	To               time.Time
	Currency         string
	Total            float64
	TopSpending      []NamedAmount
	BySaleType       map[string]float64
	EssentialsAmount float64
	SubsAmount       float64
	Predictability   []CategoryScore
	Memorable        MemorablePurchase
}

// Summarize builds the wrapped summary for the client's transactions within
// [from, to]. ok is false when the period holds no transactions. The caption
// on the memorable purchase is left empty; the service layer fills it in.
func Summarize(clientID string, txs []model.Transaction, from, to time.Time, mode GroupMode) (*PeriodSummary, bool) {
	var inRange []model.Transaction
	for _, tx := range txs {
		if !tx.Date.Before(from) && !tx.Date.After(to) {
			inRange = append(inRange, tx)
		}
	}
	if len(inRange) == 0 {
		return nil, false
	}

	groupKey := func(tx model.Transaction) string {
		if mode == GroupByMerchant {
			return tx.Merchant
		}
		return tx.Category
	}

	byGroup := make(map[string]float64)
	bySaleType := make(map[string]float64)
	var total, essentials float64
	biggest := inRange[0]

	for _, tx := range inRange {
		byGroup[groupKey(tx)] += tx.Amount
		bySaleType[tx.SaleType] += tx.Amount
		total += tx.Amount
		if essentialCategories.MatchString(tx.Category) {
			essentials += tx.Amount
		}
		if tx.Amount > biggest.Amount {
			biggest = tx
		}
	}

	return &PeriodSummary{
		ClientID:         clientID,
		From:             from,
		To:               to,
		Currency:         "MXN",
		Total:            total,
		TopSpending:      topAmounts(byGroup, 5),
		BySaleType:       bySaleType,
		EssentialsAmount: essentials,
		SubsAmount:       total - essentials,
		Predictability:   predictabilityScores(inRange, 5),
		Memorable: MemorablePurchase{
			Date:     biggest.Date,
			DateText: spanishDate(biggest.Date),
			Merchant: displayName(biggest.Merchant),
			Amount:   biggest.Amount,
		},
	}, true
}

// topAmounts returns the n largest totals, amount descending with name as the
// tie-break.
func topAmounts(totals map[string]float64, n int) []NamedAmount {
	out := make([]NamedAmount, 0, len(totals))
	for name, amount := range totals {
		out = append(out, NamedAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// predictabilityScores scores each category by amount stability:
// 100 - min(stddev*5, 100), so flat recurring spend scores near 100.
func predictabilityScores(txs []model.Transaction, n int) []CategoryScore {
	amounts := make(map[string][]float64)
	for _, tx := range txs {
		amounts[tx.Category] = append(amounts[tx.Category], tx.Amount)
	}

	scores := make([]CategoryScore, 0, len(amounts))
	for category, values := range amounts {
		scores = append(scores, CategoryScore{
			Category: category,
			Score:    100 - math.Min(sampleStddev(values)*5, 100),
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Category < scores[j].Category
	})
	if len(scores) > n {
		scores = scores[:n]
	}
	return scores
}

// sampleStddev is the n-1 denominator standard deviation; fewer than two
// values yield 0.
func sampleStddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// spanishDate formats a date as "5 de mayo" for the caption prompt.
func spanishDate(t time.Time) string {
	return fmt.Sprintf("%d de %s", t.Day(), spanishMonths[t.Month()-1])
}

var titleCaser = cases.Title(language.Spanish)

// displayName turns an all-caps source merchant name into display casing.
func displayName(merchant string) string {
	return titleCaser.String(merchant)
}
