package predict

import (
	"log/slog"
	"sort"
	"time"

	"github.com/heybanco/spendcast/backend/internal/ml"
)

// Subscription is one predicted recurring charge for next month.
type Subscription struct {
	Merchant string
	Amount   float64
	Year     int
	Month    int
	Day      int
}

// classifySubscriptions labels every observation with the subscription model
// and returns the positives. A classifier failure on a single row skips that
// row only.
func classifySubscriptions(obs []Observation, clf ml.Classifier) []Observation {
	var positives []Observation
	for _, o := range obs {
		flagged, err := clf.Predict(o.Features())
		if err != nil {
			slog.Warn("classifier failed for transaction, skipping",
				"merchant", o.Merchant, "date", o.Date.Format("2006-01-02"), "error", err)
			continue
		}
		if flagged {
			positives = append(positives, o)
		}
	}
	return positives
}

// recentWindow keeps observations dated within the three calendar months
// before latest (inclusive cutoff), matching the window the model was
// validated on.
func recentWindow(obs []Observation, latest time.Time) []Observation {
	cutoff := latest.AddDate(0, -3, 0)
	var recent []Observation
	for _, o := range obs {
		if !o.Date.Before(cutoff) {
			recent = append(recent, o)
		}
	}
	return recent
}

// projectRecurring synthesizes next-month charge candidates from recently
// flagged subscriptions and keeps only those the classifier re-confirms.
//
// For each merchant the projected day is the mode of its observed
// days-of-month; when several days tie for most frequent, every tied day
// yields a candidate. Each candidate reuses the merchant's most recent
// transaction amount and merchant code. Output is ordered by merchant name
// then day so projection is deterministic regardless of map iteration.
func projectRecurring(recent []Observation, latest time.Time, clf ml.Classifier) []Subscription {
	if len(recent) == 0 {
		return nil
	}

	nextMonth := int(latest.Month()) + 1
	nextYear := latest.Year()
	if nextMonth > 12 {
		nextMonth = 1
		nextYear++
	}

	dayCounts := make(map[string]map[int]int)
	newest := make(map[string]Observation)
	for _, o := range recent {
		if dayCounts[o.Merchant] == nil {
			dayCounts[o.Merchant] = make(map[int]int)
		}
		dayCounts[o.Merchant][o.Day]++
		// Later observations win ties so the amount tracks the latest charge.
		if prev, ok := newest[o.Merchant]; !ok || !o.Date.Before(prev.Date) {
			newest[o.Merchant] = o
		}
	}

	merchants := make([]string, 0, len(dayCounts))
	for m := range dayCounts {
		merchants = append(merchants, m)
	}
	sort.Strings(merchants)

	var results []Subscription
	for _, merchant := range merchants {
		base := newest[merchant]
		for _, day := range modeDays(dayCounts[merchant]) {
			candidate := Observation{
				Merchant:     merchant,
				MerchantCode: base.MerchantCode,
				Amount:       base.Amount,
				Year:         nextYear,
				Month:        nextMonth,
				Day:          day,
			}
			confirmed, err := clf.Predict(candidate.Features())
			if err != nil {
				slog.Warn("classifier failed for projected candidate, skipping",
					"merchant", merchant, "day", day, "error", err)
				continue
			}
			if !confirmed {
				continue
			}
			results = append(results, Subscription{
				Merchant: merchant,
				Amount:   base.Amount,
				Year:     nextYear,
				Month:    nextMonth,
				Day:      day,
			})
		}
	}
	return results
}

// modeDays returns every day tied for the highest occurrence count, in
// ascending order.
func modeDays(counts map[int]int) []int {
	best := 0
	for _, c := range counts {
		if c > best {
			best = c
		}
	}
	var days []int
	for day, c := range counts {
		if c == best {
			days = append(days, day)
		}
	}
	sort.Ints(days)
	return days
}
