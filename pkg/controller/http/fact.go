package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/factbase/pkg/domain/model"
	"github.com/secmon-lab/factbase/pkg/usecase"
	"github.com/secmon-lab/factbase/pkg/utils/errutil"
)

// FactUseCase is the subset of the fact use case the HTTP layer depends on
type FactUseCase interface {
	GetFact(ctx context.Context, id model.FactID) (*model.Fact, error)
	GetFacts(ctx context.Context, ids []model.FactID) ([]*model.Fact, error)
	AddFact(ctx context.Context, text string) (*model.Fact, error)
	DeleteFacts(ctx context.Context, ids []model.FactID) (*usecase.DeleteResult, error)
}

type factResponse struct {
	ID   int64  `json:"id"`
	Fact string `json:"fact"`
}

func toFactResponse(f *model.Fact) factResponse {
	return factResponse{
		ID:   int64(f.ID),
		Fact: f.Text,
	}
}

type addFactRequest struct {
	Fact *string `json:"fact"`
}

func (s *Server) getFact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := model.ParseFactID(chi.URLParam(r, "fact_id"))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusUnprocessableEntity, "fact_id must be an integer")
		return
	}

	fact, err := s.factUC.GetFact(ctx, id)
	if err != nil {
		if errors.Is(err, usecase.ErrFactNotFound) {
			errutil.HandleHTTP(ctx, w, err, http.StatusNotFound, fmt.Sprintf("Fact with id %d not found.", id))
			return
		}
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError,
			fmt.Sprintf("Error while retrieving fact with id %d: %s", id, err.Error()))
		return
	}

	errutil.WriteJSON(ctx, w, http.StatusOK, toFactResponse(fact))
}

func (s *Server) getFacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ids, err := model.ParseFactIDs(r.URL.Query()["ids"])
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusUnprocessableEntity, "ids must be integers")
		return
	}

	facts, err := s.factUC.GetFacts(ctx, ids)
	if err != nil {
		if errors.Is(err, usecase.ErrFactNotFound) {
			detail := "No facts found"
			if len(ids) > 0 {
				detail = fmt.Sprintf("Facts with ids %s not found", model.JoinFactIDs(ids))
			}
			errutil.HandleHTTP(ctx, w, err, http.StatusNotFound, detail)
			return
		}
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError, "")
		return
	}

	resp := make([]factResponse, len(facts))
	for i, f := range facts {
		resp[i] = toFactResponse(f)
	}
	errutil.WriteJSON(ctx, w, http.StatusOK, resp)
}

func (s *Server) addFact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addFactRequest
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "request body too large", goerr.V("limit", tooLarge.Limit)),
				http.StatusRequestEntityTooLarge, fmt.Sprintf("request body must not exceed %d bytes", tooLarge.Limit))
			return
		}
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode request body"),
			http.StatusUnprocessableEntity, "request body must be a JSON object with a 'fact' string")
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		errutil.HandleHTTP(ctx, w, goerr.New("trailing data after request body"),
			http.StatusUnprocessableEntity, "request body must contain a single JSON object")
		return
	}
	if req.Fact == nil {
		errutil.HandleHTTP(ctx, w, goerr.New("fact field is missing"),
			http.StatusUnprocessableEntity, "field 'fact' is required")
		return
	}

	created, err := s.factUC.AddFact(ctx, *req.Fact)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidFact):
			errutil.HandleHTTP(ctx, w, err, http.StatusUnprocessableEntity, "")
		case errors.Is(err, usecase.ErrInsertFailed):
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError, "Fact can't be added to the database.")
		default:
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError, "")
		}
		return
	}

	errutil.WriteJSON(ctx, w, http.StatusOK, toFactResponse(created))
}

func (s *Server) deleteFacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	values := r.URL.Query()["fact_ids"]
	if len(values) == 0 {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(model.ErrInvalidFactID, "fact_ids is missing"),
			http.StatusUnprocessableEntity, "query parameter 'fact_ids' is required")
		return
	}

	ids, err := model.ParseFactIDs(values)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusUnprocessableEntity, "fact_ids must be integers")
		return
	}

	result, err := s.factUC.DeleteFacts(ctx, ids)
	if err != nil {
		if errors.Is(err, usecase.ErrFactNotFound) && result != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusNotFound,
				fmt.Sprintf("Facts %v were not in the database", result.NotFound))
			return
		}
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError, "")
		return
	}

	errutil.WriteJSON(ctx, w, http.StatusOK, nil)
}
