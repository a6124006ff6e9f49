package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/heybanco/spendcast/backend/internal/model"
)

const dateLayout = "2006-01-02"

// Transaction CSV header names as shipped in the source dataset.
const (
	colClientID = "id"
	colDate     = "fecha"
	colMerchant = "comercio"
	colCategory = "giro_comercio"
	colSaleType = "tipo_venta"
	colAmount   = "monto"
)

// Load reads the transactions CSV and, optionally, the clients CSV
// (clientsR may be nil). Malformed rows are quarantined deterministically:
// skipped, counted, and logged at debug level. A bad header fails the load.
func Load(transactionsR io.Reader, clientsR io.Reader) (*Dataset, error) {
	d := &Dataset{
		byClient: make(map[string][]model.Transaction),
		clients:  make(map[string]model.Client),
	}

	if err := d.loadTransactions(transactionsR); err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if clientsR != nil {
		if err := d.loadClients(clientsR); err != nil {
			return nil, fmt.Errorf("load clients: %w", err)
		}
	}

	slog.Info("dataset loaded",
		"transactions", d.rowCount,
		"clients", len(d.clients),
		"quarantined_rows", d.quarantined)
	return d, nil
}

func (d *Dataset) loadTransactions(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header, colClientID, colDate, colMerchant, colCategory, colSaleType, colAmount)
	if err != nil {
		return err
	}

	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			d.quarantine(line, "transactions", err)
			continue
		}

		tx, err := parseTransaction(record, cols)
		if err != nil {
			d.quarantine(line, "transactions", err)
			continue
		}

		d.byClient[tx.ClientID] = append(d.byClient[tx.ClientID], tx)
		d.rowCount++
	}
	return nil
}

func parseTransaction(record []string, cols map[string]int) (model.Transaction, error) {
	get := func(name string) string {
		idx := cols[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	clientID := get(colClientID)
	if clientID == "" {
		return model.Transaction{}, fmt.Errorf("empty client id")
	}
	merchant := get(colMerchant)
	if merchant == "" {
		return model.Transaction{}, fmt.Errorf("empty merchant")
	}
	date, err := time.Parse(dateLayout, get(colDate))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parse date: %w", err)
	}
	amount, err := strconv.ParseFloat(get(colAmount), 64)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parse amount: %w", err)
	}

	return model.Transaction{
		ClientID: clientID,
		Merchant: merchant,
		Category: get(colCategory),
		SaleType: get(colSaleType),
		Amount:   amount,
		Date:     date,
	}, nil
}

// Client CSV header names.
const (
	colBirthDate    = "fecha_nacimiento"
	colEnrolledAt   = "fecha_alta"
	colMunicipality = "id_municipio"
	colState        = "id_estado"
	colPersonType   = "tipo_persona"
	colGender       = "genero"
	colActivity     = "actividad_empresarial"
)

func (d *Dataset) loadClients(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header, colClientID, colBirthDate, colEnrolledAt,
		colMunicipality, colState, colPersonType, colGender, colActivity)
	if err != nil {
		return err
	}

	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			d.quarantine(line, "clients", err)
			continue
		}

		c, err := parseClient(record, cols)
		if err != nil {
			d.quarantine(line, "clients", err)
			continue
		}
		d.clients[c.ID] = c
	}
	return nil
}

func parseClient(record []string, cols map[string]int) (model.Client, error) {
	get := func(name string) string {
		idx := cols[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	id := get(colClientID)
	if id == "" {
		return model.Client{}, fmt.Errorf("empty client id")
	}
	birth, err := time.Parse(dateLayout, get(colBirthDate))
	if err != nil {
		return model.Client{}, fmt.Errorf("parse birth date: %w", err)
	}
	enrolled, err := time.Parse(dateLayout, get(colEnrolledAt))
	if err != nil {
		return model.Client{}, fmt.Errorf("parse enrolment date: %w", err)
	}
	municipality, err := strconv.Atoi(get(colMunicipality))
	if err != nil {
		return model.Client{}, fmt.Errorf("parse municipality id: %w", err)
	}
	state, err := strconv.Atoi(get(colState))
	if err != nil {
		return model.Client{}, fmt.Errorf("parse state id: %w", err)
	}

	return model.Client{
		ID:               id,
		BirthDate:        birth,
		EnrolledAt:       enrolled,
		MunicipalityID:   municipality,
		StateID:          state,
		PersonType:       get(colPersonType),
		Gender:           get(colGender),
		BusinessActivity: get(colActivity),
	}, nil
}

func (d *Dataset) quarantine(line int, file string, err error) {
	d.quarantined++
	slog.Debug("quarantined malformed row", "file", file, "line", line, "error", err)
}

func columnIndex(header []string, required ...string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return cols, nil
}
