package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heybanco/spendcast/backend/internal/model"
)

func tx(merchant, category, saleType string, amount float64, date string) model.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return model.Transaction{
		ClientID: "c1",
		Merchant: merchant,
		Category: category,
		SaleType: saleType,
		Amount:   amount,
		Date:     d,
	}
}

func TestSummarize(t *testing.T) {
	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)

	txs := []model.Transaction{
		tx("NETFLIX", "SERVICIOS DE STREAMING", "digital", 219, "2023-01-05"),
		tx("NETFLIX", "SERVICIOS DE STREAMING", "digital", 219, "2023-02-05"),
		tx("OXXO", "COMERCIO AL POR MENOR", "fisica", 85.5, "2023-02-10"),
		tx("FARMACIA GUADALAJARA", "SALUD", "fisica", 430, "2023-03-02"),
		tx("LIVERPOOL", "DEPARTAMENTAL", "fisica", 2999, "2023-03-15"),
		tx("OXXO", "COMERCIO AL POR MENOR", "fisica", 40, "2023-06-01"), // outside range
	}

	s, ok := Summarize("c1", txs, from, to, GroupByCategory)
	require.True(t, ok)

	assert.Equal(t, "c1", s.ClientID)
	assert.Equal(t, "MXN", s.Currency)
	assert.InDelta(t, 219+219+85.5+430+2999, s.Total, 1e-9)

	t.Run("top spending sorted descending by amount", func(t *testing.T) {
		require.NotEmpty(t, s.TopSpending)
		assert.Equal(t, "DEPARTAMENTAL", s.TopSpending[0].Name)
		assert.Equal(t, 2999.0, s.TopSpending[0].Amount)
		for i := 1; i < len(s.TopSpending); i++ {
			assert.GreaterOrEqual(t, s.TopSpending[i-1].Amount, s.TopSpending[i].Amount)
		}
	})

	t.Run("sale type breakdown", func(t *testing.T) {
		assert.InDelta(t, 438, s.BySaleType["digital"], 1e-9)
		assert.InDelta(t, 85.5+430+2999, s.BySaleType["fisica"], 1e-9)
	})

	t.Run("essentials vs subscriptions split", func(t *testing.T) {
		// SERVICIOS and SALUD categories count as essential.
		assert.InDelta(t, 219+219+430, s.EssentialsAmount, 1e-9)
		assert.InDelta(t, 85.5+2999, s.SubsAmount, 1e-9)
	})

	t.Run("memorable purchase is the largest in range", func(t *testing.T) {
		assert.Equal(t, 2999.0, s.Memorable.Amount)
		assert.Equal(t, "Liverpool", s.Memorable.Merchant)
		assert.Equal(t, "15 de marzo", s.Memorable.DateText)
		assert.Empty(t, s.Memorable.Caption)
	})

	t.Run("flat recurring category scores 100", func(t *testing.T) {
		var streaming *CategoryScore
		for i := range s.Predictability {
			if s.Predictability[i].Category == "SERVICIOS DE STREAMING" {
				streaming = &s.Predictability[i]
			}
		}
		require.NotNil(t, streaming)
		assert.InDelta(t, 100, streaming.Score, 1e-9)
	})
}

func TestSummarizeByMerchant(t *testing.T) {
	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	txs := []model.Transaction{
		tx("OXXO", "COMERCIO AL POR MENOR", "fisica", 50, "2023-01-05"),
		tx("7 ELEVEN", "COMERCIO AL POR MENOR", "fisica", 80, "2023-01-06"),
	}

	s, ok := Summarize("c1", txs, from, to, GroupByMerchant)
	require.True(t, ok)
	require.Len(t, s.TopSpending, 2)
	assert.Equal(t, "7 ELEVEN", s.TopSpending[0].Name)
	assert.Equal(t, "OXXO", s.TopSpending[1].Name)
}

func TestSummarizeEmptyPeriod(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	s, ok := Summarize("c1", []model.Transaction{
		tx("OXXO", "COMERCIO AL POR MENOR", "fisica", 50, "2023-01-05"),
	}, from, to, GroupByCategory)
	assert.False(t, ok)
	assert.Nil(t, s)
}

func TestTopAmountsTieBreak(t *testing.T) {
	out := topAmounts(map[string]float64{"B": 10, "A": 10, "C": 20}, 5)
	require.Len(t, out, 3)
	assert.Equal(t, "C", out[0].Name)
	assert.Equal(t, "A", out[1].Name)
	assert.Equal(t, "B", out[2].Name)
}

func TestSampleStddev(t *testing.T) {
	assert.Equal(t, 0.0, sampleStddev(nil))
	assert.Equal(t, 0.0, sampleStddev([]float64{42}))
	// {2, 4, 4, 4, 5, 5, 7, 9}: sample stddev ~ 2.138
	assert.InDelta(t, 2.138, sampleStddev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 0.001)
}

func TestSpanishDate(t *testing.T) {
	assert.Equal(t, "5 de mayo", spanishDate(time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "31 de diciembre", spanishDate(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestSummarizeRange(t *testing.T) {
	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)

	txs := []model.Transaction{
		tx("OXXO", "COMERCIO AL POR MENOR", "fisica", 100, "2023-01-05"),
		tx("OXXO", "COMERCIO AL POR MENOR", "fisica", 50, "2023-02-05"),
		tx("OXXO", "COMERCIO AL POR MENOR", "fisica", 300, "2023-05-05"), // out of range
	}

	s, ok := SummarizeRange(txs, from, to)
	require.True(t, ok)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 150.0, s.Total)
	assert.Equal(t, 75.0, s.Mean)
	assert.Equal(t, 100.0, s.Max)
	assert.Equal(t, 50.0, s.Min)
	assert.Equal(t, "MXN", s.Currency)

	_, ok = SummarizeRange(nil, from, to)
	assert.False(t, ok)
}
