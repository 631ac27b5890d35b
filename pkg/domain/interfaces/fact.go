package interfaces

import (
	"context"

	"github.com/secmon-lab/factbase/pkg/domain/model"
)

// FactRepository defines the interface for Fact data persistence.
// Absence is reported only by errors wrapping the backend's ErrNotFound.
type FactRepository interface {
	// Create stores a new fact with an auto-generated ID
	Create(ctx context.Context, fact *model.Fact) (*model.Fact, error)

	// Get retrieves a fact by ID
	Get(ctx context.Context, id model.FactID) (*model.Fact, error)

	// GetMany retrieves the existing facts among ids, ordered by ID.
	// Missing IDs are skipped. An empty ids slice returns every fact.
	GetMany(ctx context.Context, ids []model.FactID) ([]*model.Fact, error)

	// List retrieves all facts ordered by ID
	List(ctx context.Context) ([]*model.Fact, error)

	// Delete deletes a fact by ID
	Delete(ctx context.Context, id model.FactID) error
}
