package model

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is the repository-independent "record does not exist" error.
// Every repository backend reports absence by wrapping it.
var ErrNotFound = goerr.New("not found")

// Validation errors
var (
	ErrInvalidFact   = goerr.New("invalid fact")
	ErrInvalidFactID = goerr.New("invalid fact ID")
)

// Context keys for error values
const (
	FactIDKey  = "fact_id"
	FactIDsKey = "fact_ids"
)
