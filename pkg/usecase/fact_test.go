package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/factbase/pkg/domain/interfaces"
	"github.com/secmon-lab/factbase/pkg/domain/model"
	"github.com/secmon-lab/factbase/pkg/repository/memory"
	"github.com/secmon-lab/factbase/pkg/usecase"
)

// mockFactRepository lets a test replace individual repository operations
type mockFactRepository struct {
	interfaces.FactRepository
	createFn  func(ctx context.Context, fact *model.Fact) (*model.Fact, error)
	getFn     func(ctx context.Context, id model.FactID) (*model.Fact, error)
	getManyFn func(ctx context.Context, ids []model.FactID) ([]*model.Fact, error)
	deleteFn  func(ctx context.Context, id model.FactID) error
}

func (m *mockFactRepository) Create(ctx context.Context, fact *model.Fact) (*model.Fact, error) {
	return m.createFn(ctx, fact)
}

func (m *mockFactRepository) Get(ctx context.Context, id model.FactID) (*model.Fact, error) {
	return m.getFn(ctx, id)
}

func (m *mockFactRepository) GetMany(ctx context.Context, ids []model.FactID) ([]*model.Fact, error) {
	return m.getManyFn(ctx, ids)
}

func (m *mockFactRepository) Delete(ctx context.Context, id model.FactID) error {
	return m.deleteFn(ctx, id)
}

type mockRepository struct {
	fact *mockFactRepository
}

func (m *mockRepository) Fact() interfaces.FactRepository { return m.fact }
func (m *mockRepository) Close() error                    { return nil }

var errBackend = errors.New("backend unavailable")

func seedFacts(t *testing.T, repo interfaces.Repository, texts ...string) []*model.Fact {
	t.Helper()
	facts := make([]*model.Fact, 0, len(texts))
	for _, text := range texts {
		created, err := repo.Fact().Create(context.Background(), &model.Fact{Text: text})
		gt.NoError(t, err).Required()
		facts = append(facts, created)
	}
	return facts
}

func TestFactUseCase_AddFact(t *testing.T) {
	t.Run("returns created fact with fresh ID", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		first, err := uc.Fact.AddFact(ctx, "foo")
		gt.NoError(t, err).Required()
		gt.Value(t, first.Text).Equal("foo")

		second, err := uc.Fact.AddFact(ctx, "foo")
		gt.NoError(t, err).Required()
		gt.Bool(t, second.ID != first.ID).True()
	})

	t.Run("rejects empty text", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.Fact.AddFact(context.Background(), "   ")
		gt.Error(t, err).Is(model.ErrInvalidFact)
	})

	t.Run("nil result from repository is ErrInsertFailed", func(t *testing.T) {
		repo := &mockRepository{fact: &mockFactRepository{
			createFn: func(ctx context.Context, fact *model.Fact) (*model.Fact, error) {
				return nil, nil
			},
		}}
		uc := usecase.New(repo)

		_, err := uc.Fact.AddFact(context.Background(), "foo")
		gt.Error(t, err).Is(usecase.ErrInsertFailed)
		gt.Bool(t, errors.Is(err, usecase.ErrFactNotFound)).False()
	})

	t.Run("repository error is passed through", func(t *testing.T) {
		repo := &mockRepository{fact: &mockFactRepository{
			createFn: func(ctx context.Context, fact *model.Fact) (*model.Fact, error) {
				return nil, errBackend
			},
		}}
		uc := usecase.New(repo)

		_, err := uc.Fact.AddFact(context.Background(), "foo")
		gt.Error(t, err).Is(errBackend)
	})
}

func TestFactUseCase_GetFact(t *testing.T) {
	t.Run("returns stored fact", func(t *testing.T) {
		repo := memory.New()
		seeded := seedFacts(t, repo, "Chuck Norris can divide by zero.")
		uc := usecase.New(repo)

		fact, err := uc.Fact.GetFact(context.Background(), seeded[0].ID)
		gt.NoError(t, err).Required()
		gt.Value(t, fact.Text).Equal("Chuck Norris can divide by zero.")
	})

	t.Run("missing fact is ErrFactNotFound", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.Fact.GetFact(context.Background(), 42)
		gt.Error(t, err).Is(usecase.ErrFactNotFound)

		var ge *goerr.Error
		gt.Bool(t, errors.As(err, &ge)).True()
		gt.Value(t, ge.Values()[model.FactIDKey]).Equal(any(model.FactID(42)))
	})

	t.Run("nil fact without error is ErrFactNotFound", func(t *testing.T) {
		repo := &mockRepository{fact: &mockFactRepository{
			getFn: func(ctx context.Context, id model.FactID) (*model.Fact, error) {
				return nil, nil
			},
		}}
		uc := usecase.New(repo)

		_, err := uc.Fact.GetFact(context.Background(), 1)
		gt.Error(t, err).Is(usecase.ErrFactNotFound)
	})

	t.Run("other repository error is not ErrFactNotFound", func(t *testing.T) {
		repo := &mockRepository{fact: &mockFactRepository{
			getFn: func(ctx context.Context, id model.FactID) (*model.Fact, error) {
				return nil, errBackend
			},
		}}
		uc := usecase.New(repo)

		_, err := uc.Fact.GetFact(context.Background(), 1)
		gt.Error(t, err).Is(errBackend)
		gt.Bool(t, errors.Is(err, usecase.ErrFactNotFound)).False()
	})
}

func TestFactUseCase_GetFacts(t *testing.T) {
	t.Run("returns requested facts", func(t *testing.T) {
		repo := memory.New()
		seeded := seedFacts(t, repo, "a", "b", "c")
		uc := usecase.New(repo)

		facts, err := uc.Fact.GetFacts(context.Background(), []model.FactID{seeded[0].ID, seeded[1].ID})
		gt.NoError(t, err).Required()
		gt.Array(t, facts).Length(2).Required()
		gt.Value(t, facts[0].Text).Equal("a")
		gt.Value(t, facts[1].Text).Equal("b")
	})

	t.Run("no IDs returns every fact", func(t *testing.T) {
		repo := memory.New()
		seedFacts(t, repo, "a", "b", "c")
		uc := usecase.New(repo)

		facts, err := uc.Fact.GetFacts(context.Background(), nil)
		gt.NoError(t, err).Required()
		gt.Array(t, facts).Length(3)
	})

	t.Run("empty result is ErrFactNotFound", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.Fact.GetFacts(context.Background(), []model.FactID{7})
		gt.Error(t, err).Is(usecase.ErrFactNotFound)
	})

	t.Run("empty store is ErrFactNotFound", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.Fact.GetFacts(context.Background(), nil)
		gt.Error(t, err).Is(usecase.ErrFactNotFound)
	})

	t.Run("repository error is internal", func(t *testing.T) {
		repo := &mockRepository{fact: &mockFactRepository{
			getManyFn: func(ctx context.Context, ids []model.FactID) ([]*model.Fact, error) {
				return nil, errBackend
			},
		}}
		uc := usecase.New(repo)

		_, err := uc.Fact.GetFacts(context.Background(), []model.FactID{1})
		gt.Error(t, err).Is(errBackend)
	})
}

func TestFactUseCase_DeleteFacts(t *testing.T) {
	t.Run("deletes every existing fact", func(t *testing.T) {
		repo := memory.New()
		seeded := seedFacts(t, repo, "a", "b")
		uc := usecase.New(repo)
		ctx := context.Background()

		result, err := uc.Fact.DeleteFacts(ctx, []model.FactID{seeded[0].ID, seeded[1].ID})
		gt.NoError(t, err).Required()
		gt.Array(t, result.Deleted).Equal([]model.FactID{seeded[0].ID, seeded[1].ID})
		gt.Array(t, result.NotFound).Length(0)

		_, err = uc.Fact.GetFact(ctx, seeded[0].ID)
		gt.Error(t, err).Is(usecase.ErrFactNotFound)
	})

	t.Run("missing IDs are collected and existing ones stay deleted", func(t *testing.T) {
		repo := memory.New()
		seeded := seedFacts(t, repo, "a", "b")
		uc := usecase.New(repo)
		ctx := context.Background()

		result, err := uc.Fact.DeleteFacts(ctx, []model.FactID{100, seeded[0].ID, 200})
		gt.Error(t, err).Is(usecase.ErrFactNotFound)
		gt.Value(t, result).NotNil().Required()
		gt.Array(t, result.Deleted).Equal([]model.FactID{seeded[0].ID})
		gt.Array(t, result.NotFound).Equal([]model.FactID{100, 200})

		// No rollback: the existing fact is gone even though the request failed
		_, err = uc.Fact.GetFact(ctx, seeded[0].ID)
		gt.Error(t, err).Is(usecase.ErrFactNotFound)

		// Untouched fact is still there
		_, err = uc.Fact.GetFact(ctx, seeded[1].ID)
		gt.NoError(t, err)
	})

	t.Run("empty ID list is rejected", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.Fact.DeleteFacts(context.Background(), nil)
		gt.Error(t, err).Is(model.ErrInvalidFactID)
	})

	t.Run("other repository error aborts the loop", func(t *testing.T) {
		var called []model.FactID
		repo := &mockRepository{fact: &mockFactRepository{
			deleteFn: func(ctx context.Context, id model.FactID) error {
				called = append(called, id)
				if id == 2 {
					return errBackend
				}
				return nil
			},
		}}
		uc := usecase.New(repo)

		result, err := uc.Fact.DeleteFacts(context.Background(), []model.FactID{1, 2, 3})
		gt.Error(t, err).Is(errBackend)
		gt.Bool(t, errors.Is(err, usecase.ErrFactNotFound)).False()
		gt.Array(t, result.Deleted).Equal([]model.FactID{1})
		gt.Array(t, called).Equal([]model.FactID{1, 2})
	})
}
