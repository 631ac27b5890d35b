package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// MaxFactLength is the maximum number of bytes accepted for a fact text
const MaxFactLength = 4096

// FactID is the store-assigned integer identifier of a Fact
type FactID int64

// String returns the decimal representation of FactID
func (id FactID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseFactID parses a decimal string into a FactID
func ParseFactID(s string) (FactID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, goerr.Wrap(ErrInvalidFactID, "fact ID must be an integer", goerr.V(FactIDKey, s))
	}
	return FactID(v), nil
}

// ParseFactIDs parses every element of values, failing on the first invalid one
func ParseFactIDs(values []string) ([]FactID, error) {
	ids := make([]FactID, 0, len(values))
	for _, v := range values {
		id, err := ParseFactID(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// JoinFactIDs renders ids as a comma separated list, e.g. "1,2,3"
func JoinFactIDs(ids []FactID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

// Fact is a short text record identified by an integer ID.
// ID and CreatedAt are assigned by the repository on creation and never change.
type Fact struct {
	ID        FactID
	Text      string
	CreatedAt time.Time
}

// Validate checks that the fact text is usable before it is stored
func (f *Fact) Validate() error {
	if strings.TrimSpace(f.Text) == "" {
		return goerr.Wrap(ErrInvalidFact, "fact text is required")
	}
	if len(f.Text) > MaxFactLength {
		return goerr.Wrap(ErrInvalidFact, "fact text is too long",
			goerr.V("length", len(f.Text)),
			goerr.V("max", MaxFactLength),
		)
	}
	return nil
}

// Copy returns a detached copy of the fact
func (f *Fact) Copy() *Fact {
	return &Fact{
		ID:        f.ID,
		Text:      f.Text,
		CreatedAt: f.CreatedAt,
	}
}
