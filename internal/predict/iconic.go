package predict

import "github.com/heybanco/spendcast/backend/internal/model"

// iconicExpense finds the merchant with the fewest transactions for a client.
// Ties break to the lexicographically smallest merchant name so the result
// does not depend on source-row order.
func iconicExpense(txs []model.Transaction) (merchant string, count int) {
	counts := make(map[string]int)
	for _, tx := range txs {
		counts[tx.Merchant]++
	}
	for m, c := range counts {
		if merchant == "" || c < count || (c == count && m < merchant) {
			merchant = m
			count = c
		}
	}
	return merchant, count
}
