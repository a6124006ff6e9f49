package predict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heybanco/spendcast/backend/internal/ml"
)

func obs(merchant string, date string, amount float64, code int) Observation {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return Observation{
		Merchant:     merchant,
		MerchantCode: code,
		Amount:       amount,
		Date:         d,
		Year:         d.Year(),
		Month:        int(d.Month()),
		Day:          d.Day(),
	}
}

var acceptAll = ml.ClassifierFunc(func(ml.FeatureVector) (bool, error) { return true, nil })

func TestRecentWindow(t *testing.T) {
	latest := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)

	in := []Observation{
		obs("A", "2023-03-14", 10, 1), // one day before the cutoff
		obs("A", "2023-03-15", 10, 1), // exactly on the cutoff
		obs("A", "2023-06-15", 10, 1),
	}
	recent := recentWindow(in, latest)

	require.Len(t, recent, 2)
	assert.Equal(t, 15, recent[0].Day)
	assert.Equal(t, time.June, recent[1].Date.Month())
}

func TestModeDays(t *testing.T) {
	t.Run("single mode", func(t *testing.T) {
		assert.Equal(t, []int{5}, modeDays(map[int]int{5: 3, 9: 1}))
	})

	t.Run("ties keep every tied day in ascending order", func(t *testing.T) {
		assert.Equal(t, []int{5, 9}, modeDays(map[int]int{9: 2, 5: 2, 3: 1}))
	})
}

func TestProjectRecurring(t *testing.T) {
	t.Run("projects next month with mode day and latest amount", func(t *testing.T) {
		latest := time.Date(2023, 2, 5, 0, 0, 0, 0, time.UTC)
		recent := []Observation{
			obs("NETFLIX", "2023-01-05", 100, 7),
			obs("NETFLIX", "2023-02-05", 200, 7),
		}

		subs := projectRecurring(recent, latest, acceptAll)

		require.Len(t, subs, 1)
		assert.Equal(t, Subscription{
			Merchant: "NETFLIX",
			Amount:   200,
			Year:     2023,
			Month:    3,
			Day:      5,
		}, subs[0])
	})

	t.Run("december wraps to january of the next year", func(t *testing.T) {
		latest := time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC)
		recent := []Observation{
			obs("GYM", "2023-11-01", 30, 2),
			obs("GYM", "2023-12-01", 30, 2),
		}

		subs := projectRecurring(recent, latest, acceptAll)

		require.Len(t, subs, 1)
		assert.Equal(t, 2024, subs[0].Year)
		assert.Equal(t, 1, subs[0].Month)
	})

	t.Run("tied mode days produce one candidate each", func(t *testing.T) {
		latest := time.Date(2023, 4, 9, 0, 0, 0, 0, time.UTC)
		recent := []Observation{
			obs("SPOTIFY", "2023-03-05", 99, 3),
			obs("SPOTIFY", "2023-04-09", 99, 3),
		}

		subs := projectRecurring(recent, latest, acceptAll)

		require.Len(t, subs, 2)
		assert.Equal(t, 5, subs[0].Day)
		assert.Equal(t, 9, subs[1].Day)
	})

	t.Run("candidates rejected by reclassification are dropped", func(t *testing.T) {
		latest := time.Date(2023, 2, 5, 0, 0, 0, 0, time.UTC)
		recent := []Observation{
			obs("NETFLIX", "2023-01-05", 100, 7),
			obs("NETFLIX", "2023-02-05", 200, 7),
		}

		rejectProjected := ml.ClassifierFunc(func(f ml.FeatureVector) (bool, error) {
			return f.Month != 3, nil
		})
		subs := projectRecurring(recent, latest, rejectProjected)

		assert.Empty(t, subs)
	})

	t.Run("output ordered by merchant then day", func(t *testing.T) {
		latest := time.Date(2023, 5, 28, 0, 0, 0, 0, time.UTC)
		recent := []Observation{
			obs("ZETA", "2023-05-02", 10, 1),
			obs("ALFA", "2023-05-20", 20, 2),
		}

		subs := projectRecurring(recent, latest, acceptAll)

		require.Len(t, subs, 2)
		assert.Equal(t, "ALFA", subs[0].Merchant)
		assert.Equal(t, "ZETA", subs[1].Merchant)
	})

	t.Run("empty input yields no candidates", func(t *testing.T) {
		assert.Empty(t, projectRecurring(nil, time.Now(), acceptAll))
	})
}

func TestClassifySubscriptions(t *testing.T) {
	in := []Observation{
		obs("A", "2023-01-05", 10, 1),
		obs("B", "2023-01-06", 20, 2),
	}

	onlyA := ml.ClassifierFunc(func(f ml.FeatureVector) (bool, error) {
		return f.MerchantCode == 1, nil
	})
	positives := classifySubscriptions(in, onlyA)

	require.Len(t, positives, 1)
	assert.Equal(t, "A", positives[0].Merchant)
}
