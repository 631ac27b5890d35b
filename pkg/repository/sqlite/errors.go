package sqlite

import "github.com/secmon-lab/factbase/pkg/domain/model"

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = model.ErrNotFound
