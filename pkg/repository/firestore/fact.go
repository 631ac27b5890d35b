package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/factbase/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type factDocument struct {
	ID        int64     `firestore:"id"`
	Text      string    `firestore:"text"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (d *factDocument) toModel() *model.Fact {
	return &model.Fact{
		ID:        model.FactID(d.ID),
		Text:      d.Text,
		CreatedAt: d.CreatedAt,
	}
}

type factRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newFactRepository(client *firestore.Client) *factRepository {
	return &factRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *factRepository) factsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_facts"
	}
	return "facts"
}

func (r *factRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *factRepository) factCounterDoc() string {
	return "fact_counter"
}

func (r *factRepository) docRef(id model.FactID) *firestore.DocumentRef {
	return r.client.Collection(r.factsCollection()).Doc(id.String())
}

// getNextID increments the counter document in a transaction. Deleted IDs
// are never handed out again because the counter only moves forward.
func (r *factRepository) getNextID(ctx context.Context) (model.FactID, error) {
	counterRef := r.client.Collection(r.counterCollection()).Doc(r.factCounterDoc())

	var nextID int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}
		current, ok := currentValue.(int64)
		if !ok {
			return goerr.New("unexpected counter value type", goerr.V("value", currentValue))
		}

		nextID = current + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID")
	}

	return model.FactID(nextID), nil
}

func (r *factRepository) Create(ctx context.Context, fact *model.Fact) (*model.Fact, error) {
	id, err := r.getNextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := &factDocument{
		ID:        int64(id),
		Text:      fact.Text,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := r.docRef(id).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create fact", goerr.V(model.FactIDKey, id))
	}

	return doc.toModel(), nil
}

func (r *factRepository) Get(ctx context.Context, id model.FactID) (*model.Fact, error) {
	doc, err := r.docRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "fact not found", goerr.V(model.FactIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get fact", goerr.V(model.FactIDKey, id))
	}

	var factDoc factDocument
	if err := doc.DataTo(&factDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal fact", goerr.V(model.FactIDKey, id))
	}

	return factDoc.toModel(), nil
}

// maxRefsPerGetAll bounds the size of a single BatchGetDocuments call
const maxRefsPerGetAll = 300

func (r *factRepository) GetMany(ctx context.Context, ids []model.FactID) ([]*model.Fact, error) {
	if len(ids) == 0 {
		return r.List(ctx)
	}

	seen := make(map[model.FactID]struct{}, len(ids))
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		refs = append(refs, r.docRef(id))
	}

	// GetAll reports missing documents as snapshots that do not exist
	facts := make([]*model.Fact, 0, len(refs))
	for start := 0; start < len(refs); start += maxRefsPerGetAll {
		snapshots, err := r.client.GetAll(ctx, refs[start:min(start+maxRefsPerGetAll, len(refs))])
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get facts", goerr.V("id_count", len(ids)))
		}

		for _, snap := range snapshots {
			if !snap.Exists() {
				continue
			}

			var factDoc factDocument
			if err := snap.DataTo(&factDoc); err != nil {
				return nil, goerr.Wrap(err, "failed to unmarshal fact", goerr.V("doc", snap.Ref.ID))
			}
			facts = append(facts, factDoc.toModel())
		}
	}

	sort.Slice(facts, func(i, j int) bool {
		return facts[i].ID < facts[j].ID
	})
	return facts, nil
}

func (r *factRepository) List(ctx context.Context) ([]*model.Fact, error) {
	iter := r.client.Collection(r.factsCollection()).OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var facts []*model.Fact
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate facts")
		}

		var factDoc factDocument
		if err := doc.DataTo(&factDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal fact")
		}

		facts = append(facts, factDoc.toModel())
	}

	return facts, nil
}

func (r *factRepository) Delete(ctx context.Context, id model.FactID) error {
	// Exists turns a delete of a missing document into codes.NotFound
	if _, err := r.docRef(id).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "fact not found", goerr.V(model.FactIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete fact", goerr.V(model.FactIDKey, id))
	}

	return nil
}
