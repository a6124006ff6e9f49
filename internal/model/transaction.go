// Package model defines the plain record types shared across the service:
// dataset rows, account records, and session tokens.
package model

import "time"

// Transaction is one historical card transaction for a client. Records are
// immutable once loaded; the dataset layer hands out read-only views filtered
// to a single client.
type Transaction struct {
	ClientID string
	Merchant string
	// Category is the merchant line of business (e.g. "SERVICIOS DE STREAMING").
	Category string
	// SaleType distinguishes physical from digital sales.
	SaleType string
	Amount   float64
	Date     time.Time
}

// Year returns the calendar year of the transaction date.
func (t Transaction) Year() int { return t.Date.Year() }

// Month returns the calendar month (1-12) of the transaction date.
func (t Transaction) Month() int { return int(t.Date.Month()) }

// Day returns the day of month (1-31) of the transaction date.
func (t Transaction) Day() int { return t.Date.Day() }
