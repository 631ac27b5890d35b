package memory

import "github.com/secmon-lab/factbase/pkg/domain/model"

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = model.ErrNotFound
