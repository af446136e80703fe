package collection

import (
	"fmt"

	"github.com/five82/navigator/internal/store"
)

// Spec describes the collection a controller synchronizes and the query it
// loads with.
type Spec struct {
	Name     string // store collection (table) name
	Noun     string // singular, for prompts and log lines
	Owned    bool   // rows carry user_id and are scoped to the signed-in user
	ReadOnly bool
	Filters  []store.Filter
	Order    store.Order
	Limit    int
}

// WithLimit returns a copy of s limited to n rows.
func (s Spec) WithLimit(n int) Spec {
	s.Limit = n
	s.Filters = append([]store.Filter(nil), s.Filters...)
	return s
}

// Query builds the store query for owner.
func (s Spec) Query(owner string) store.Query {
	q := store.Query{
		Filters: append([]store.Filter(nil), s.Filters...),
		Order:   s.Order,
		Limit:   s.Limit,
	}
	if s.Owned {
		q.Owner = owner
	}
	return q
}

func (s Spec) noun() string {
	if s.Noun != "" {
		return s.Noun
	}
	return s.Name
}

// DeletePrompt is the question Delete puts to its Confirmer.
func (s Spec) DeletePrompt() string {
	return fmt.Sprintf("Delete this %s?", s.noun())
}
