// Package dataset loads the flat-file transaction and client datasets once at
// startup and serves read-only per-client views. Nothing here mutates after
// load; concurrent prediction requests share the same Dataset.
package dataset

import (
	"github.com/heybanco/spendcast/backend/internal/model"
)

// Dataset is the in-memory, immutable view of the loaded datasets.
type Dataset struct {
	byClient    map[string][]model.Transaction
	clients     map[string]model.Client
	rowCount    int
	quarantined int
}

// FromRecords builds a Dataset from already-parsed records, preserving record
// order per client. Used by tests and seed tooling; production loads go
// through Load.
func FromRecords(txs []model.Transaction, clients []model.Client) *Dataset {
	d := &Dataset{
		byClient: make(map[string][]model.Transaction),
		clients:  make(map[string]model.Client, len(clients)),
	}
	for _, tx := range txs {
		d.byClient[tx.ClientID] = append(d.byClient[tx.ClientID], tx)
		d.rowCount++
	}
	for _, c := range clients {
		d.clients[c.ID] = c
	}
	return d
}

// ClientTransactions returns the transactions for one client in source-file
// order. The returned slice is shared and must not be mutated.
func (d *Dataset) ClientTransactions(clientID string) []model.Transaction {
	return d.byClient[clientID]
}

// Client looks up a client profile record.
func (d *Dataset) Client(clientID string) (model.Client, bool) {
	c, ok := d.clients[clientID]
	return c, ok
}

// TransactionCount returns the number of valid transaction rows loaded.
func (d *Dataset) TransactionCount() int { return d.rowCount }

// QuarantinedRows returns the number of malformed rows skipped at load time.
func (d *Dataset) QuarantinedRows() int { return d.quarantined }
