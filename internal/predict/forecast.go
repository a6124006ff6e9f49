package predict

import (
	"sort"

	"github.com/heybanco/spendcast/backend/internal/model"
)

// monthlyPoint is one observed month's total for a series. Its position in
// the sorted series is the regression x value; calendar gaps between observed
// months do not introduce zero-filled points.
type monthlyPoint struct {
	year  int
	month int
	total float64
}

// monthlySeries groups transactions into per-month totals sorted
// chronologically.
func monthlySeries(txs []model.Transaction) []monthlyPoint {
	type ym struct{ year, month int }
	totals := make(map[ym]float64)
	for _, tx := range txs {
		totals[ym{tx.Year(), tx.Month()}] += tx.Amount
	}

	points := make([]monthlyPoint, 0, len(totals))
	for k, total := range totals {
		points = append(points, monthlyPoint{year: k.year, month: k.month, total: total})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].year != points[j].year {
			return points[i].year < points[j].year
		}
		return points[i].month < points[j].month
	})
	return points
}

// forecastSeries predicts the next month's total for one series. Series with
// fewer than two observed months fall back to the last observed total; the
// extrapolation index is always max observed index + 1.
func forecastSeries(points []monthlyPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	if len(points) < 2 {
		return points[len(points)-1].total
	}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.total
	}
	slope, intercept, ok := linearRegression(values)
	if !ok {
		return points[len(points)-1].total
	}
	return slope*float64(len(points)) + intercept
}

// ForecastSpending predicts next month's aggregate spending for the client
// plus one forecast per merchant. Merchants whose trend extrapolates below
// zero are omitted; the aggregate is reported regardless of sign. Merchants
// with a single observed month report that month's total.
func ForecastSpending(txs []model.Transaction) (total float64, perMerchant map[string]float64) {
	total = forecastSeries(monthlySeries(txs))

	byMerchant := make(map[string][]model.Transaction)
	for _, tx := range txs {
		byMerchant[tx.Merchant] = append(byMerchant[tx.Merchant], tx)
	}

	perMerchant = make(map[string]float64, len(byMerchant))
	for merchant, merchantTxs := range byMerchant {
		points := monthlySeries(merchantTxs)
		forecast := forecastSeries(points)
		if len(points) >= 2 && forecast < 0 {
			continue
		}
		perMerchant[merchant] = forecast
	}
	return total, perMerchant
}

// linearRegression fits y = slope*x + intercept over x = 0, 1, 2, ... by
// ordinary least squares. ok is false when the fit is degenerate.
func linearRegression(values []float64) (slope, intercept float64, ok bool) {
	n := float64(len(values))
	if n < 2 {
		return 0, 0, false
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, 0, false
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept, true
}
