package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/factbase/pkg/domain/interfaces"
	"github.com/secmon-lab/factbase/pkg/domain/model"
)

// FactUseCase turns repository outcomes into one of three results: a value,
// ErrFactNotFound, or any other (internal) error. Callers never need to
// inspect empty results themselves.
type FactUseCase struct {
	repo interfaces.Repository
}

func NewFactUseCase(repo interfaces.Repository) *FactUseCase {
	return &FactUseCase{
		repo: repo,
	}
}

// DeleteResult reports what happened to each ID of a DeleteFacts call
type DeleteResult struct {
	Deleted  []model.FactID
	NotFound []model.FactID
}

func (uc *FactUseCase) GetFact(ctx context.Context, id model.FactID) (*model.Fact, error) {
	fact, err := uc.repo.Fact().Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrFactNotFound, "fact not found", goerr.V(model.FactIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get fact", goerr.V(model.FactIDKey, id))
	}
	if fact == nil {
		return nil, goerr.Wrap(ErrFactNotFound, "repository returned no fact", goerr.V(model.FactIDKey, id))
	}

	return fact, nil
}

// GetFacts returns the facts among ids, or every fact when ids is empty.
// An empty result is reported as ErrFactNotFound.
func (uc *FactUseCase) GetFacts(ctx context.Context, ids []model.FactID) ([]*model.Fact, error) {
	facts, err := uc.repo.Fact().GetMany(ctx, ids)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get facts", goerr.V(model.FactIDsKey, ids))
	}
	if len(facts) == 0 {
		return nil, goerr.Wrap(ErrFactNotFound, "no facts found", goerr.V(model.FactIDsKey, ids))
	}

	return facts, nil
}

func (uc *FactUseCase) AddFact(ctx context.Context, text string) (*model.Fact, error) {
	fact := &model.Fact{Text: text}
	if err := fact.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.repo.Fact().Create(ctx, fact)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create fact")
	}
	if created == nil {
		return nil, goerr.Wrap(ErrInsertFailed, "repository returned no created fact")
	}

	return created, nil
}

// DeleteFacts deletes each ID independently, in order. Missing IDs do not
// stop the loop; they are collected and reported together as ErrFactNotFound
// after every ID was tried. Facts deleted before a failure stay deleted.
// Any other repository error aborts the loop immediately.
func (uc *FactUseCase) DeleteFacts(ctx context.Context, ids []model.FactID) (*DeleteResult, error) {
	if len(ids) == 0 {
		return nil, goerr.Wrap(model.ErrInvalidFactID, "at least one fact ID is required")
	}

	result := &DeleteResult{}
	for _, id := range ids {
		if err := uc.repo.Fact().Delete(ctx, id); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				result.NotFound = append(result.NotFound, id)
				continue
			}
			return result, goerr.Wrap(err, "failed to delete fact", goerr.V(model.FactIDKey, id))
		}
		result.Deleted = append(result.Deleted, id)
	}

	if len(result.NotFound) > 0 {
		return result, goerr.Wrap(ErrFactNotFound, "facts were not in the database",
			goerr.V(model.FactIDsKey, result.NotFound),
		)
	}

	return result, nil
}
