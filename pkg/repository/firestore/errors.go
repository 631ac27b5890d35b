package firestore

import "github.com/secmon-lab/factbase/pkg/domain/model"

// ErrNotFound is returned when a requested document does not exist
var ErrNotFound = model.ErrNotFound
