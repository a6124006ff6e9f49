package model

import "time"

// Client is one row of the client dataset. The predictive core never reads
// these; they back the profile endpoint only.
type Client struct {
	ID               string
	BirthDate        time.Time
	EnrolledAt       time.Time
	MunicipalityID   int
	StateID          int
	PersonType       string
	Gender           string
	BusinessActivity string
}
