package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// ErrFactNotFound means one or more requested facts do not exist
	ErrFactNotFound = errors.New("fact not found")

	// ErrInsertFailed means the repository accepted an insert but returned no record
	ErrInsertFailed = errors.New("fact can't be added to the database")
)
